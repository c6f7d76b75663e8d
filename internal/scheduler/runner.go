// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package scheduler executes persisted publish jobs when their time
// arrives and serves the calendar/list views over them.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"postpilot/internal/models"
)

// DefaultInterval is how often the runner polls for due jobs.
const DefaultInterval = 30 * time.Second

// Store is the slice of the scheduled-post store the runner needs.
type Store interface {
	ListDue(now time.Time) ([]models.ScheduledPost, error)
	MarkPosted(id uuid.UUID, postedAt time.Time, postedCount int, failed []models.Platform) error
	Delete(id uuid.UUID) error
}

// Dispatcher fans a stored post out to its platforms. Implemented by
// publish.Orchestrator.
type Dispatcher interface {
	Dispatch(ctx context.Context, platforms []models.Platform, caption, imagePath string) []models.PublishOutcome
}

// Runner polls the store and executes jobs as they come due. Jobs that
// were already overdue when the server starts are pruned, not executed:
// a post scheduled for yesterday should not surprise anyone by going
// out today.
type Runner struct {
	store      Store
	dispatcher Dispatcher
	interval   time.Duration
}

// NewRunner creates a runner. interval <= 0 uses DefaultInterval.
func NewRunner(store Store, dispatcher Dispatcher, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Runner{store: store, dispatcher: dispatcher, interval: interval}
}

// Start prunes expired jobs, then polls until ctx is cancelled. It
// blocks; run it in a goroutine.
func (r *Runner) Start(ctx context.Context) {
	if n, err := r.PruneExpired(time.Now()); err != nil {
		slog.Error("scheduler prune failed", "error", err)
	} else if n > 0 {
		slog.Info("pruned expired scheduled posts", "count", n)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	slog.Info("scheduler started", "interval", r.interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler stopped")
			return
		case <-ticker.C:
			r.RunDue(ctx, time.Now())
		}
	}
}

// PruneExpired deletes jobs whose time passed without the runner being
// alive to execute them. Returns how many were removed.
func (r *Runner) PruneExpired(now time.Time) (int, error) {
	overdue, err := r.store.ListDue(now)
	if err != nil {
		return 0, err
	}

	pruned := 0
	for _, post := range overdue {
		if err := r.store.Delete(post.ID); err != nil {
			slog.Error("failed to prune expired post", "id", post.ID, "error", err)
			continue
		}
		slog.Warn("removed expired scheduled post", "id", post.ID, "scheduled_time", post.ScheduledTime)
		pruned++
	}
	return pruned, nil
}

// RunDue executes every job due at now. Each job is dispatched to its
// platforms and flipped to posted with the per-platform outcome counts;
// a job is never retried after its status flips.
func (r *Runner) RunDue(ctx context.Context, now time.Time) {
	due, err := r.store.ListDue(now)
	if err != nil {
		slog.Error("scheduler list due failed", "error", err)
		return
	}

	for _, post := range due {
		r.execute(ctx, post)
	}
}

func (r *Runner) execute(ctx context.Context, post models.ScheduledPost) {
	slog.Info("executing scheduled post",
		"id", post.ID, "platforms", post.Platforms, "scheduled_time", post.ScheduledTime)

	outcomes := r.dispatcher.Dispatch(ctx, post.Platforms, post.Caption, post.ImagePath)

	posted := 0
	var failed []models.Platform
	for _, oc := range outcomes {
		if oc.Succeeded {
			posted++
		} else {
			failed = append(failed, oc.Platform)
		}
	}

	if err := r.store.MarkPosted(post.ID, time.Now(), posted, failed); err != nil {
		slog.Error("failed to mark post as posted", "id", post.ID, "error", err)
		return
	}
	slog.Info("scheduled post executed", "id", post.ID, "posted", posted, "failed", failed)
}
