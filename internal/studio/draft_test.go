// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package studio

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"postpilot/internal/models"
)

func testDraft() *Draft {
	d := &Draft{
		ID:       uuid.New(),
		Topic:    "launch day",
		Tone:     "casual",
		Variants: make(map[models.Platform]*TextVariant),
	}
	for _, p := range models.AllPlatforms {
		d.Variants[p] = &TextVariant{
			Platform:       p,
			Content:        "post for " + string(p),
			CharacterCount: len("post for " + string(p)),
		}
	}
	d.Image = &ImageArtifact{Path: "/media/img.png", Provider: "dalle"}
	return d
}

func TestApproveIdempotent(t *testing.T) {
	d := testDraft()

	if err := d.Approve(models.PlatformFacebook); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if err := d.Approve(models.PlatformFacebook); err != nil {
		t.Fatalf("second Approve: %v", err)
	}
	if d.Variants[models.PlatformFacebook].Approval != models.ApprovalApproved {
		t.Error("expected approved after double approve")
	}
}

func TestApproveRejectFlip(t *testing.T) {
	d := testDraft()
	p := models.PlatformTwitter

	d.Approve(p)
	if err := d.Reject(p); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if d.Variants[p].Approval != models.ApprovalRejected {
		t.Error("expected rejected after flip from approved")
	}

	if err := d.Approve(p); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if d.Variants[p].Approval != models.ApprovalApproved {
		t.Error("expected approved after flip back")
	}
}

func TestEditResetsApproval(t *testing.T) {
	d := testDraft()
	p := models.PlatformInstagram

	d.Approve(p)
	if err := d.Edit(p, "hand-tuned caption ☕"); err != nil {
		t.Fatalf("Edit: %v", err)
	}

	v := d.Variants[p]
	if v.Approval != models.ApprovalNone {
		t.Error("edit must reset approval to none")
	}
	if v.Content != "hand-tuned caption ☕" {
		t.Errorf("content: got %q", v.Content)
	}
	// Rune count, not byte count: the coffee emoji is one character.
	if v.CharacterCount != len([]rune("hand-tuned caption ☕")) {
		t.Errorf("character count: got %d", v.CharacterCount)
	}
}

func TestReplaceContentResetsApproval(t *testing.T) {
	d := testDraft()
	p := models.PlatformReddit

	d.Reject(p)
	if err := d.ReplaceContent(p, "fresh copy"); err != nil {
		t.Fatalf("ReplaceContent: %v", err)
	}
	if d.Variants[p].Approval != models.ApprovalNone {
		t.Error("regenerated copy must be unreviewed")
	}
	if d.Variants[p].Content != "fresh copy" {
		t.Errorf("content: got %q", d.Variants[p].Content)
	}
}

func TestPlatformIsolation(t *testing.T) {
	d := testDraft()

	d.Approve(models.PlatformFacebook)
	d.Reject(models.PlatformTwitter)
	d.Edit(models.PlatformInstagram, "edited")

	// Touching three platforms leaves the fourth untouched.
	v := d.Variants[models.PlatformReddit]
	if v.Approval != models.ApprovalNone {
		t.Error("reddit approval perturbed by other platforms")
	}
	if v.Content != "post for reddit" {
		t.Error("reddit content perturbed by other platforms")
	}
	// And the edited platform keeps the others' approvals intact.
	if d.Variants[models.PlatformFacebook].Approval != models.ApprovalApproved {
		t.Error("facebook approval lost")
	}
	if d.Variants[models.PlatformTwitter].Approval != models.ApprovalRejected {
		t.Error("twitter approval lost")
	}
}

func TestUnknownPlatform(t *testing.T) {
	d := testDraft()
	delete(d.Variants, models.PlatformReddit)

	if err := d.Approve(models.PlatformReddit); !errors.Is(err, ErrNoVariant) {
		t.Errorf("expected ErrNoVariant, got %v", err)
	}
	if err := d.Edit(models.PlatformReddit, "x"); !errors.Is(err, ErrNoVariant) {
		t.Errorf("expected ErrNoVariant, got %v", err)
	}
}

func TestImageApproval(t *testing.T) {
	d := testDraft()

	if err := d.ApproveImage(); err != nil {
		t.Fatalf("ApproveImage: %v", err)
	}
	if d.Image.Approval != models.ApprovalApproved {
		t.Error("expected image approved")
	}

	if err := d.RejectImage(); err != nil {
		t.Fatalf("RejectImage: %v", err)
	}
	if d.Image.Approval != models.ApprovalRejected {
		t.Error("expected image rejected")
	}

	d.Image = nil
	if err := d.ApproveImage(); !errors.Is(err, ErrNoImage) {
		t.Errorf("expected ErrNoImage, got %v", err)
	}
}

func TestReplaceImage(t *testing.T) {
	d := testDraft()
	d.ApproveImage()

	d.ReplaceImage("/media/new.png", "nano-banana")

	if d.Image.Path != "/media/new.png" {
		t.Errorf("path: got %q", d.Image.Path)
	}
	if d.Image.Provider != "nano-banana" {
		t.Errorf("provider: got %q", d.Image.Provider)
	}
	if d.Image.Approval != models.ApprovalNone {
		t.Error("replaced image must be unreviewed")
	}
}

func TestApprovedPlatforms(t *testing.T) {
	d := testDraft()
	if got := d.ApprovedPlatforms(); len(got) != 0 {
		t.Errorf("expected none approved initially, got %v", got)
	}

	d.Approve(models.PlatformTwitter)
	d.Approve(models.PlatformFacebook)
	d.Reject(models.PlatformReddit)

	got := d.ApprovedPlatforms()
	if len(got) != 2 {
		t.Fatalf("expected 2 approved, got %v", got)
	}
	// Order follows AllPlatforms, not approval order.
	if got[0] != models.PlatformFacebook || got[1] != models.PlatformTwitter {
		t.Errorf("got %v", got)
	}
}

func TestNotices(t *testing.T) {
	d := testDraft()
	d.AddNotice("info", "twitter content regenerated")

	if len(d.Notices) != 1 {
		t.Fatalf("expected 1 notice, got %d", len(d.Notices))
	}
	n := d.Notices[0]
	if n.Level != "info" || n.Message != "twitter content regenerated" {
		t.Errorf("notice: %+v", n)
	}

	// Still visible now, gone after its TTL.
	d.PruneNotices(time.Now())
	if len(d.Notices) != 1 {
		t.Error("notice pruned too early")
	}
	d.PruneNotices(time.Now().Add(5 * time.Second))
	if len(d.Notices) != 0 {
		t.Error("expected notice pruned after expiry")
	}
}
