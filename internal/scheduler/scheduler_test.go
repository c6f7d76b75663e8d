// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"postpilot/internal/models"
)

type memStore struct {
	posts map[uuid.UUID]*models.ScheduledPost
}

func newMemStore(posts ...*models.ScheduledPost) *memStore {
	s := &memStore{posts: make(map[uuid.UUID]*models.ScheduledPost)}
	for _, p := range posts {
		s.posts[p.ID] = p
	}
	return s
}

func (s *memStore) ListDue(now time.Time) ([]models.ScheduledPost, error) {
	var due []models.ScheduledPost
	for _, p := range s.posts {
		if p.Status == models.ScheduledStatusScheduled && !p.ScheduledTime.After(now) {
			due = append(due, *p)
		}
	}
	return due, nil
}

func (s *memStore) MarkPosted(id uuid.UUID, postedAt time.Time, postedCount int, failed []models.Platform) error {
	p := s.posts[id]
	p.Status = models.ScheduledStatusPosted
	p.PostedAt = &postedAt
	p.PostedCount = postedCount
	p.FailedPlatforms = failed
	return nil
}

func (s *memStore) Delete(id uuid.UUID) error {
	delete(s.posts, id)
	return nil
}

type recordingDispatcher struct {
	outcomes map[models.Platform]models.PublishOutcome
	calls    []models.ScheduledPost
	captions []string
}

func (d *recordingDispatcher) Dispatch(_ context.Context, platforms []models.Platform, caption, imagePath string) []models.PublishOutcome {
	d.captions = append(d.captions, caption)
	out := make([]models.PublishOutcome, len(platforms))
	for i, p := range platforms {
		if oc, ok := d.outcomes[p]; ok {
			out[i] = oc
		} else {
			out[i] = models.PublishOutcome{Platform: p, Succeeded: true, PostID: "ok"}
		}
	}
	return out
}

func scheduledPost(when time.Time, platforms ...models.Platform) *models.ScheduledPost {
	return &models.ScheduledPost{
		ID:            uuid.New(),
		Caption:       "stored caption",
		ImagePath:     "/media/x.png",
		Platforms:     platforms,
		ScheduledTime: when,
		Status:        models.ScheduledStatusScheduled,
	}
}

func TestRunDueExecutesAndFlips(t *testing.T) {
	now := time.Now()
	due := scheduledPost(now.Add(-time.Minute), models.PlatformFacebook, models.PlatformTwitter)
	future := scheduledPost(now.Add(time.Hour), models.PlatformReddit)
	store := newMemStore(due, future)

	dispatcher := &recordingDispatcher{outcomes: map[models.Platform]models.PublishOutcome{
		models.PlatformTwitter: {Platform: models.PlatformTwitter, Error: "rate limited"},
	}}
	r := NewRunner(store, dispatcher, time.Second)

	r.RunDue(context.Background(), now)

	got := store.posts[due.ID]
	if !got.IsPosted() {
		t.Fatal("due post should be marked posted")
	}
	if got.PostedCount != 1 {
		t.Errorf("PostedCount = %d, want 1", got.PostedCount)
	}
	if len(got.FailedPlatforms) != 1 || got.FailedPlatforms[0] != models.PlatformTwitter {
		t.Errorf("FailedPlatforms = %v", got.FailedPlatforms)
	}
	if got.PostedAt == nil {
		t.Error("PostedAt not set")
	}
	if store.posts[future.ID].IsPosted() {
		t.Error("future post must not run")
	}
	if len(dispatcher.captions) != 1 || dispatcher.captions[0] != "stored caption" {
		t.Errorf("dispatched captions = %v", dispatcher.captions)
	}
}

func TestRunDueSkipsPosted(t *testing.T) {
	now := time.Now()
	done := scheduledPost(now.Add(-time.Hour), models.PlatformFacebook)
	done.Status = models.ScheduledStatusPosted
	store := newMemStore(done)
	dispatcher := &recordingDispatcher{}

	NewRunner(store, dispatcher, time.Second).RunDue(context.Background(), now)

	if len(dispatcher.captions) != 0 {
		t.Error("posted job must not be dispatched again")
	}
}

func TestPruneExpired(t *testing.T) {
	now := time.Now()
	expired := scheduledPost(now.Add(-time.Hour), models.PlatformFacebook)
	upcoming := scheduledPost(now.Add(time.Hour), models.PlatformFacebook)
	store := newMemStore(expired, upcoming)
	dispatcher := &recordingDispatcher{}

	n, err := NewRunner(store, dispatcher, time.Second).PruneExpired(now)
	if err != nil {
		t.Fatalf("PruneExpired: %v", err)
	}
	if n != 1 {
		t.Errorf("pruned %d, want 1", n)
	}
	if _, ok := store.posts[expired.ID]; ok {
		t.Error("expired post still present")
	}
	if _, ok := store.posts[upcoming.ID]; !ok {
		t.Error("upcoming post was pruned")
	}
	if len(dispatcher.captions) != 0 {
		t.Error("pruning must never dispatch")
	}
}

func TestMonthBuckets(t *testing.T) {
	sept1 := time.Date(2026, time.September, 1, 9, 0, 0, 0, time.Local)
	sept1Later := time.Date(2026, time.September, 1, 17, 30, 0, 0, time.Local)
	sept15 := time.Date(2026, time.September, 15, 12, 0, 0, 0, time.Local)
	october := time.Date(2026, time.October, 2, 8, 0, 0, 0, time.Local)

	posts := []models.ScheduledPost{
		*scheduledPost(sept1, models.PlatformFacebook),
		*scheduledPost(sept1Later, models.PlatformTwitter),
		*scheduledPost(sept15, models.PlatformReddit),
		*scheduledPost(october, models.PlatformInstagram),
	}

	view := Month(posts, 2026, time.September)
	if len(view.Days) != 30 {
		t.Fatalf("got %d day buckets, want 30", len(view.Days))
	}
	if view.Days[0].Date != "2026-09-01" {
		t.Errorf("first bucket date = %q", view.Days[0].Date)
	}
	if len(view.Days[0].Posts) != 2 {
		t.Errorf("sept 1 has %d posts, want 2", len(view.Days[0].Posts))
	}
	// Within a day, store order (chronological) is preserved.
	if !view.Days[0].Posts[0].ScheduledTime.Equal(sept1) {
		t.Error("sept 1 posts out of order")
	}
	if len(view.Days[14].Posts) != 1 {
		t.Errorf("sept 15 has %d posts, want 1", len(view.Days[14].Posts))
	}
	if len(view.Days[1].Posts) != 0 {
		t.Error("empty day must have an empty bucket")
	}
	for _, day := range view.Days {
		for _, p := range day.Posts {
			if p.ScheduledTime.Month() == time.October {
				t.Error("october post leaked into september view")
			}
		}
	}
}

func TestMonthFebruaryLeap(t *testing.T) {
	if got := len(Month(nil, 2028, time.February).Days); got != 29 {
		t.Errorf("feb 2028 buckets = %d, want 29", got)
	}
	if got := len(Month(nil, 2026, time.February).Days); got != 28 {
		t.Errorf("feb 2026 buckets = %d, want 28", got)
	}
}
