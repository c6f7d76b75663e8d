// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"postpilot/internal/models"
)

func TestScheduledStoreCreate(t *testing.T) {
	db := testDB(t)
	s := NewScheduledStore(db)

	caption := "test-create scheduled caption"
	t.Cleanup(func() { cleanScheduled(t, db, caption) })

	when := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	post, err := s.Create(&models.ScheduledPost{
		Caption:       caption,
		ImagePath:     "/media/ai_generated/test.png",
		Platforms:     []models.Platform{models.PlatformFacebook, models.PlatformTwitter},
		ScheduledTime: when,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if post.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if post.Status != models.ScheduledStatusScheduled {
		t.Errorf("status: got %q, want %q", post.Status, models.ScheduledStatusScheduled)
	}
	if len(post.Platforms) != 2 {
		t.Fatalf("platforms: got %d, want 2", len(post.Platforms))
	}
	if post.Platforms[0] != models.PlatformFacebook || post.Platforms[1] != models.PlatformTwitter {
		t.Errorf("platforms: got %v", post.Platforms)
	}
	if post.PostedAt != nil {
		t.Error("expected nil posted_at for new post")
	}
	if len(post.FailedPlatforms) != 0 {
		t.Errorf("expected empty failed platforms, got %v", post.FailedPlatforms)
	}
	if !post.ScheduledTime.Truncate(time.Second).Equal(when) {
		t.Errorf("scheduled time: got %v, want %v", post.ScheduledTime, when)
	}
}

func TestScheduledStoreFindByID(t *testing.T) {
	db := testDB(t)
	s := NewScheduledStore(db)

	caption := "test-findbyid scheduled caption"
	t.Cleanup(func() { cleanScheduled(t, db, caption) })

	// Not found.
	post, err := s.FindByID(uuid.New())
	if err != nil {
		t.Fatalf("FindByID (not found): %v", err)
	}
	if post != nil {
		t.Error("expected nil for random UUID")
	}

	created, _ := s.Create(&models.ScheduledPost{
		Caption:       caption,
		Platforms:     []models.Platform{models.PlatformReddit},
		ScheduledTime: time.Now().Add(time.Hour),
	})

	post, err = s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if post == nil {
		t.Fatal("expected post, got nil")
	}
	if post.Caption != caption {
		t.Errorf("caption: got %q, want %q", post.Caption, caption)
	}
}

func TestScheduledStoreListOrder(t *testing.T) {
	db := testDB(t)
	s := NewScheduledStore(db)

	captionLater := "test-list-later caption"
	captionSooner := "test-list-sooner caption"
	t.Cleanup(func() { cleanScheduled(t, db, captionLater, captionSooner) })

	base := time.Now().Add(24 * time.Hour)
	s.Create(&models.ScheduledPost{
		Caption:       captionLater,
		Platforms:     []models.Platform{models.PlatformFacebook},
		ScheduledTime: base.Add(2 * time.Hour),
	})
	s.Create(&models.ScheduledPost{
		Caption:       captionSooner,
		Platforms:     []models.Platform{models.PlatformFacebook},
		ScheduledTime: base,
	})

	posts, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	soonerIdx, laterIdx := -1, -1
	for i, p := range posts {
		switch p.Caption {
		case captionSooner:
			soonerIdx = i
		case captionLater:
			laterIdx = i
		}
	}
	if soonerIdx == -1 || laterIdx == -1 {
		t.Fatal("expected both test posts in list")
	}
	if soonerIdx > laterIdx {
		t.Error("expected posts ordered by scheduled time ascending")
	}
}

func TestScheduledStoreMarkPosted(t *testing.T) {
	db := testDB(t)
	s := NewScheduledStore(db)

	caption := "test-markposted caption"
	t.Cleanup(func() { cleanScheduled(t, db, caption) })

	created, _ := s.Create(&models.ScheduledPost{
		Caption:       caption,
		Platforms:     []models.Platform{models.PlatformFacebook, models.PlatformTwitter},
		ScheduledTime: time.Now().Add(time.Hour),
	})

	postedAt := time.Now().Truncate(time.Second)
	err := s.MarkPosted(created.ID, postedAt, 1, []models.Platform{models.PlatformTwitter})
	if err != nil {
		t.Fatalf("MarkPosted: %v", err)
	}

	post, _ := s.FindByID(created.ID)
	if post.Status != models.ScheduledStatusPosted {
		t.Errorf("status: got %q, want posted", post.Status)
	}
	if post.PostedAt == nil {
		t.Fatal("expected posted_at set")
	}
	if post.PostedCount != 1 {
		t.Errorf("posted count: got %d, want 1", post.PostedCount)
	}
	if len(post.FailedPlatforms) != 1 || post.FailedPlatforms[0] != models.PlatformTwitter {
		t.Errorf("failed platforms: got %v, want [twitter]", post.FailedPlatforms)
	}
}

func TestScheduledStoreListPending(t *testing.T) {
	db := testDB(t)
	s := NewScheduledStore(db)

	captionPending := "test-pending caption"
	captionDone := "test-done caption"
	t.Cleanup(func() { cleanScheduled(t, db, captionPending, captionDone) })

	s.Create(&models.ScheduledPost{
		Caption:       captionPending,
		Platforms:     []models.Platform{models.PlatformInstagram},
		ScheduledTime: time.Now().Add(time.Hour),
	})
	done, _ := s.Create(&models.ScheduledPost{
		Caption:       captionDone,
		Platforms:     []models.Platform{models.PlatformInstagram},
		ScheduledTime: time.Now().Add(time.Hour),
	})
	s.MarkPosted(done.ID, time.Now(), 1, nil)

	pending, err := s.ListPending()
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}

	for _, p := range pending {
		if p.Caption == captionDone {
			t.Error("posted entry must not appear in pending list")
		}
	}
	found := false
	for _, p := range pending {
		if p.Caption == captionPending {
			found = true
		}
	}
	if !found {
		t.Error("expected pending entry in pending list")
	}
}

func TestScheduledStoreListDue(t *testing.T) {
	db := testDB(t)
	s := NewScheduledStore(db)

	captionDue := "test-due caption"
	captionFuture := "test-future caption"
	t.Cleanup(func() { cleanScheduled(t, db, captionDue, captionFuture) })

	s.Create(&models.ScheduledPost{
		Caption:       captionDue,
		Platforms:     []models.Platform{models.PlatformFacebook},
		ScheduledTime: time.Now().Add(-time.Minute),
	})
	s.Create(&models.ScheduledPost{
		Caption:       captionFuture,
		Platforms:     []models.Platform{models.PlatformFacebook},
		ScheduledTime: time.Now().Add(48 * time.Hour),
	})

	due, err := s.ListDue(time.Now())
	if err != nil {
		t.Fatalf("ListDue: %v", err)
	}

	foundDue := false
	for _, p := range due {
		if p.Caption == captionFuture {
			t.Error("future entry must not appear in due list")
		}
		if p.Caption == captionDue {
			foundDue = true
		}
	}
	if !foundDue {
		t.Error("expected past-due entry in due list")
	}
}

func TestScheduledStoreDelete(t *testing.T) {
	db := testDB(t)
	s := NewScheduledStore(db)

	caption := "test-delete caption"
	t.Cleanup(func() { cleanScheduled(t, db, caption) })

	created, _ := s.Create(&models.ScheduledPost{
		Caption:       caption,
		Platforms:     []models.Platform{models.PlatformFacebook},
		ScheduledTime: time.Now().Add(time.Hour),
	})

	if err := s.Delete(created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	found, _ := s.FindByID(created.ID)
	if found != nil {
		t.Error("expected nil after delete")
	}

	// Deleting a missing post is not an error.
	if err := s.Delete(uuid.New()); err != nil {
		t.Errorf("Delete (missing): %v", err)
	}
}

func TestScheduledStoreDeletePostedRefused(t *testing.T) {
	db := testDB(t)
	s := NewScheduledStore(db)

	caption := "test-delete-posted caption"
	t.Cleanup(func() { cleanScheduled(t, db, caption) })

	created, _ := s.Create(&models.ScheduledPost{
		Caption:       caption,
		Platforms:     []models.Platform{models.PlatformFacebook},
		ScheduledTime: time.Now().Add(time.Hour),
	})
	s.MarkPosted(created.ID, time.Now(), 1, nil)

	err := s.Delete(created.ID)
	if !errors.Is(err, ErrNotDeletable) {
		t.Errorf("expected ErrNotDeletable, got %v", err)
	}

	// Row must survive the refused delete.
	found, _ := s.FindByID(created.ID)
	if found == nil {
		t.Error("posted entry must remain after refused delete")
	}
}
