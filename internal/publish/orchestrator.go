// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package publish

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"postpilot/internal/models"
	"postpilot/internal/studio"
)

var (
	// ErrNothingApproved is returned when a publish is attempted with no
	// approved platform copy.
	ErrNothingApproved = errors.New("publish: no platform content approved")

	// ErrImageNotApproved is returned when the draft has an image that
	// has not been approved. A rejected or unreviewed image blocks the
	// whole publish; the operator must approve it or regenerate.
	ErrImageNotApproved = errors.New("publish: image exists but is not approved")

	// ErrIncompleteSchedule is returned when only part of the
	// date/hour/minute triple is filled in.
	ErrIncompleteSchedule = errors.New("publish: schedule requires date, hour, and minute")

	// ErrSchedulePast is returned for schedule times that already passed.
	ErrSchedulePast = errors.New("publish: scheduled time is in the past")
)

// ScheduleStore persists posts for later dispatch. Implemented by
// store.ScheduledStore.
type ScheduleStore interface {
	Create(p *models.ScheduledPost) (*models.ScheduledPost, error)
}

// Orchestrator fans approved drafts out to the platform gateways. All
// selected platforms are attempted concurrently and independently: one
// platform failing never aborts the others, and the summary accounts for
// every outcome.
type Orchestrator struct {
	gateways  map[models.Platform]Gateway
	scheduled ScheduleStore
	// imageURL resolves a stored image path to a publicly fetchable URL
	// for the platform APIs. Identity when nil.
	imageURL func(path string) string
}

// NewOrchestrator creates an orchestrator over the given gateways.
func NewOrchestrator(scheduled ScheduleStore, imageURL func(string) string, gateways ...Gateway) *Orchestrator {
	byPlatform := make(map[models.Platform]Gateway, len(gateways))
	for _, g := range gateways {
		if g != nil {
			byPlatform[g.Platform()] = g
		}
	}
	if imageURL == nil {
		imageURL = func(path string) string { return path }
	}
	return &Orchestrator{
		gateways:  byPlatform,
		scheduled: scheduled,
		imageURL:  imageURL,
	}
}

// Publish validates the draft and either dispatches it to every approved
// platform immediately or stores it for the scheduler. Preconditions are
// checked before any platform is contacted; a precondition failure means
// zero network calls were made.
func (o *Orchestrator) Publish(ctx context.Context, draft *studio.Draft, schedule models.ScheduleSpec) (*models.PublishSummary, error) {
	approved := draft.ApprovedPlatforms()
	if len(approved) == 0 {
		return nil, ErrNothingApproved
	}
	if draft.Image != nil && !draft.Image.Approval.Approved() {
		return nil, ErrImageNotApproved
	}

	var imageURL string
	if draft.Image != nil {
		imageURL = o.imageURL(draft.Image.Path)
	}

	if !schedule.IsZero() {
		if !schedule.Complete() {
			return nil, ErrIncompleteSchedule
		}
		when, err := schedule.Time()
		if err != nil {
			return nil, err
		}
		if when.Before(time.Now()) {
			return nil, ErrSchedulePast
		}
		return o.scheduleLater(draft, approved, imageURL, when)
	}

	captionFor := func(p models.Platform) string {
		if v, ok := draft.Variants[p]; ok {
			return v.Content
		}
		return ""
	}
	outcomes := o.fanOut(ctx, approved, captionFor, imageURL)
	return summarize(outcomes), nil
}

// Dispatch posts one caption to every given platform concurrently. Used
// by the scheduler for stored posts, which carry a single caption.
func (o *Orchestrator) Dispatch(ctx context.Context, platforms []models.Platform, caption, imagePath string) []models.PublishOutcome {
	return o.fanOut(ctx, platforms, func(models.Platform) string { return caption }, o.imageURL(imagePath))
}

// fanOut runs all platform publishes concurrently and waits for every
// one to finish. Outcomes are indexed to their platform slot, so no
// locking is needed.
func (o *Orchestrator) fanOut(ctx context.Context, platforms []models.Platform, captionFor func(models.Platform) string, imageURL string) []models.PublishOutcome {
	outcomes := make([]models.PublishOutcome, len(platforms))

	var wg sync.WaitGroup
	for i, platform := range platforms {
		wg.Add(1)
		go func(i int, platform models.Platform) {
			defer wg.Done()
			outcomes[i] = o.publishOne(ctx, platform, captionFor(platform), imageURL)
		}(i, platform)
	}
	wg.Wait()

	return outcomes
}

func (o *Orchestrator) publishOne(ctx context.Context, platform models.Platform, caption, imageURL string) models.PublishOutcome {
	outcome := models.PublishOutcome{Platform: platform}

	gateway, ok := o.gateways[platform]
	if !ok {
		outcome.Error = "platform not configured"
		slog.Warn("publish skipped, no gateway", "platform", platform)
		return outcome
	}

	result, err := gateway.Publish(ctx, PostRequest{Caption: caption, ImageURL: imageURL})
	if err != nil {
		outcome.Error = err.Error()
		slog.Error("publish failed", "platform", platform, "error", err)
		return outcome
	}

	outcome.Succeeded = true
	outcome.PostID = result.PostID
	outcome.PostURL = result.URL
	slog.Info("published", "platform", platform, "post_id", result.PostID)
	return outcome
}

// scheduleLater stores the post for the scheduler instead of publishing
// now. The stored caption is the first approved platform's copy.
func (o *Orchestrator) scheduleLater(draft *studio.Draft, approved []models.Platform, imageURL string, when time.Time) (*models.PublishSummary, error) {
	caption := ""
	if v, ok := draft.Variants[approved[0]]; ok {
		caption = v.Content
	}

	created, err := o.scheduled.Create(&models.ScheduledPost{
		Caption:       caption,
		ImagePath:     imageURL,
		Platforms:     approved,
		ScheduledTime: when,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("post scheduled", "id", created.ID, "at", when, "platforms", approved)
	return &models.PublishSummary{Scheduled: true, ScheduledID: &created.ID}, nil
}

// summarize aggregates per-platform outcomes into the response summary.
func summarize(outcomes []models.PublishOutcome) *models.PublishSummary {
	summary := &models.PublishSummary{Outcomes: outcomes}
	for _, oc := range outcomes {
		if oc.Succeeded {
			summary.SucceededCount++
		} else {
			summary.FailedPlatforms = append(summary.FailedPlatforms, oc.Platform)
		}
	}
	return summary
}
