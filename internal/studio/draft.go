// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package studio holds the operator's working draft: one text variant per
// platform plus an optional image, each with its own approval state. A
// draft lives in Valkey keyed by the operator's session until it is
// published or discarded.
package studio

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"postpilot/internal/models"
)

var (
	// ErrNoDraft is returned when the session has no active draft.
	ErrNoDraft = errors.New("studio: no active draft")

	// ErrNoVariant is returned for operations on a platform the draft
	// has no variant for.
	ErrNoVariant = errors.New("studio: no variant for platform")

	// ErrNoImage is returned for image operations when the draft has no image.
	ErrNoImage = errors.New("studio: draft has no image")

	// ErrBusy is returned when a regeneration is already running for the
	// targeted variant or image. The in-flight run keeps going; the new
	// request is refused, not queued.
	ErrBusy = errors.New("studio: regeneration already in progress")
)

// noticeTTL is how long a transient notice stays visible.
const noticeTTL = 3 * time.Second

// TextVariant is one platform's draft copy.
type TextVariant struct {
	Platform       models.Platform `json:"platform"`
	Content        string          `json:"content"`
	CharacterCount int             `json:"character_count"`
	Approval       models.Approval `json:"approval"`
	Busy           bool            `json:"busy"`
	Error          string          `json:"error,omitempty"`
}

// ImageArtifact is the draft's image. There is at most one; regeneration
// replaces it wholesale.
type ImageArtifact struct {
	Path     string          `json:"path"`
	Provider string          `json:"provider"`
	Approval models.Approval `json:"approval"`
	Busy     bool            `json:"busy"`
}

// Notice is a transient status message shown to the operator for a few
// seconds ("twitter content regenerated").
type Notice struct {
	Message   string    `json:"message"`
	Level     string    `json:"level"` // "info" or "error"
	ExpiresAt time.Time `json:"expires_at"`
}

// Draft is the full working state for one campaign.
type Draft struct {
	ID         uuid.UUID                           `json:"id"`
	Topic      string                              `json:"topic"`
	Tone       string                              `json:"tone"`
	ImageStyle string                              `json:"image_style"`
	Variants   map[models.Platform]*TextVariant    `json:"variants"`
	Image      *ImageArtifact                      `json:"image,omitempty"`
	Notices    []Notice                            `json:"notices,omitempty"`
	CreatedAt  time.Time                           `json:"created_at"`
	UpdatedAt  time.Time                           `json:"updated_at"`
}

// Variant returns the draft's variant for a platform.
func (d *Draft) Variant(platform models.Platform) (*TextVariant, error) {
	v, ok := d.Variants[platform]
	if !ok {
		return nil, ErrNoVariant
	}
	return v, nil
}

// Edit replaces a variant's content with the operator's manual rewrite.
// Any prior approval is void: the new text has not been reviewed.
func (d *Draft) Edit(platform models.Platform, content string) error {
	v, err := d.Variant(platform)
	if err != nil {
		return err
	}
	v.Content = content
	v.CharacterCount = len([]rune(content))
	v.Approval = models.ApprovalNone
	v.Error = ""
	return nil
}

// Approve marks a variant approved. Approving an already-approved
// variant is a no-op; approving a rejected one flips it directly.
func (d *Draft) Approve(platform models.Platform) error {
	v, err := d.Variant(platform)
	if err != nil {
		return err
	}
	v.Approval = models.ApprovalApproved
	return nil
}

// Reject marks a variant rejected. Like Approve, it can flip straight
// from the opposite state.
func (d *Draft) Reject(platform models.Platform) error {
	v, err := d.Variant(platform)
	if err != nil {
		return err
	}
	v.Approval = models.ApprovalRejected
	return nil
}

// ReplaceContent swaps in regenerated copy. The approval resets to none;
// regenerated text is unreviewed by definition.
func (d *Draft) ReplaceContent(platform models.Platform, content string) error {
	v, err := d.Variant(platform)
	if err != nil {
		return err
	}
	v.Content = content
	v.CharacterCount = len([]rune(content))
	v.Approval = models.ApprovalNone
	v.Error = ""
	return nil
}

// ApproveImage marks the draft's image approved.
func (d *Draft) ApproveImage() error {
	if d.Image == nil {
		return ErrNoImage
	}
	d.Image.Approval = models.ApprovalApproved
	return nil
}

// RejectImage marks the draft's image rejected.
func (d *Draft) RejectImage() error {
	if d.Image == nil {
		return ErrNoImage
	}
	d.Image.Approval = models.ApprovalRejected
	return nil
}

// ReplaceImage swaps in a regenerated image, unreviewed.
func (d *Draft) ReplaceImage(path, provider string) {
	d.Image = &ImageArtifact{
		Path:     path,
		Provider: provider,
		Approval: models.ApprovalNone,
	}
}

// ApprovedPlatforms returns the platforms whose copy is currently approved.
func (d *Draft) ApprovedPlatforms() []models.Platform {
	var approved []models.Platform
	for _, p := range models.AllPlatforms {
		if v, ok := d.Variants[p]; ok && v.Approval == models.ApprovalApproved {
			approved = append(approved, p)
		}
	}
	return approved
}

// AddNotice appends a transient notice.
func (d *Draft) AddNotice(level, message string) {
	d.Notices = append(d.Notices, Notice{
		Message:   message,
		Level:     level,
		ExpiresAt: time.Now().Add(noticeTTL),
	})
}

// PruneNotices drops notices that have expired as of now.
func (d *Draft) PruneNotices(now time.Time) {
	kept := d.Notices[:0]
	for _, n := range d.Notices {
		if n.ExpiresAt.After(now) {
			kept = append(kept, n)
		}
	}
	d.Notices = kept
}
