// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"postpilot/internal/models"
)

// ErrNotDeletable is returned when a delete targets a post that has
// already been published. Only posts still waiting for dispatch may be
// removed from the queue.
var ErrNotDeletable = fmt.Errorf("scheduled post already published")

// ScheduledStore handles all scheduled post queue database operations.
// Platform lists are stored as JSONB arrays so the queue survives
// restarts without a join table.
type ScheduledStore struct {
	db *sql.DB
}

// NewScheduledStore creates a new ScheduledStore with the given database connection.
func NewScheduledStore(db *sql.DB) *ScheduledStore {
	return &ScheduledStore{db: db}
}

// Create inserts a new scheduled post and returns it with the generated ID.
func (s *ScheduledStore) Create(p *models.ScheduledPost) (*models.ScheduledPost, error) {
	platforms, err := json.Marshal(p.Platforms)
	if err != nil {
		return nil, fmt.Errorf("marshal platforms: %w", err)
	}

	result := &models.ScheduledPost{}
	var platformsRaw, failedRaw []byte
	err = s.db.QueryRow(`
		INSERT INTO scheduled_posts (caption, image_path, platforms, scheduled_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, caption, image_path, platforms, scheduled_time,
		          status, posted_at, posted_count, failed_platforms, created_at
	`, p.Caption, p.ImagePath, platforms, p.ScheduledTime).Scan(
		&result.ID, &result.Caption, &result.ImagePath, &platformsRaw,
		&result.ScheduledTime, &result.Status, &result.PostedAt,
		&result.PostedCount, &failedRaw, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create scheduled post: %w", err)
	}
	if err := unmarshalPlatforms(result, platformsRaw, failedRaw); err != nil {
		return nil, err
	}
	return result, nil
}

// FindByID retrieves a scheduled post by UUID. Returns nil if not found.
func (s *ScheduledStore) FindByID(id uuid.UUID) (*models.ScheduledPost, error) {
	p := &models.ScheduledPost{}
	var platformsRaw, failedRaw []byte
	err := s.db.QueryRow(`
		SELECT id, caption, image_path, platforms, scheduled_time,
		       status, posted_at, posted_count, failed_platforms, created_at
		FROM scheduled_posts WHERE id = $1
	`, id).Scan(
		&p.ID, &p.Caption, &p.ImagePath, &platformsRaw,
		&p.ScheduledTime, &p.Status, &p.PostedAt,
		&p.PostedCount, &failedRaw, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find scheduled post by id: %w", err)
	}
	if err := unmarshalPlatforms(p, platformsRaw, failedRaw); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns all scheduled posts ordered by scheduled time ascending,
// both pending and already published. Feeds the calendar and list views.
func (s *ScheduledStore) List() ([]models.ScheduledPost, error) {
	return s.query(`
		SELECT id, caption, image_path, platforms, scheduled_time,
		       status, posted_at, posted_count, failed_platforms, created_at
		FROM scheduled_posts
		ORDER BY scheduled_time ASC
	`)
}

// ListPending returns posts still waiting for dispatch, ordered by
// scheduled time ascending. Used by the dispatcher on startup to restore
// timers after a restart.
func (s *ScheduledStore) ListPending() ([]models.ScheduledPost, error) {
	return s.query(`
		SELECT id, caption, image_path, platforms, scheduled_time,
		       status, posted_at, posted_count, failed_platforms, created_at
		FROM scheduled_posts
		WHERE status = 'scheduled'
		ORDER BY scheduled_time ASC
	`)
}

// ListDue returns pending posts whose scheduled time is at or before the
// given moment.
func (s *ScheduledStore) ListDue(now time.Time) ([]models.ScheduledPost, error) {
	rows, err := s.db.Query(`
		SELECT id, caption, image_path, platforms, scheduled_time,
		       status, posted_at, posted_count, failed_platforms, created_at
		FROM scheduled_posts
		WHERE status = 'scheduled' AND scheduled_time <= $1
		ORDER BY scheduled_time ASC
	`, now)
	if err != nil {
		return nil, fmt.Errorf("list due posts: %w", err)
	}
	return scanPosts(rows)
}

// MarkPosted flips a post to published status, recording when it went
// out, how many platforms succeeded, and which ones failed.
func (s *ScheduledStore) MarkPosted(id uuid.UUID, postedAt time.Time, postedCount int, failed []models.Platform) error {
	if failed == nil {
		failed = []models.Platform{}
	}
	failedRaw, err := json.Marshal(failed)
	if err != nil {
		return fmt.Errorf("marshal failed platforms: %w", err)
	}

	_, err = s.db.Exec(`
		UPDATE scheduled_posts
		SET status = 'posted', posted_at = $1, posted_count = $2, failed_platforms = $3
		WHERE id = $4
	`, postedAt, postedCount, failedRaw, id)
	if err != nil {
		return fmt.Errorf("mark posted: %w", err)
	}
	return nil
}

// Delete removes a scheduled post, but only while it is still pending.
// Published posts are kept as history; deleting one returns ErrNotDeletable.
func (s *ScheduledStore) Delete(id uuid.UUID) error {
	res, err := s.db.Exec(`
		DELETE FROM scheduled_posts WHERE id = $1 AND status = 'scheduled'
	`, id)
	if err != nil {
		return fmt.Errorf("delete scheduled post: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete scheduled post: %w", err)
	}
	if affected == 0 {
		// Either the row is gone or it has been published already.
		existing, err := s.FindByID(id)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrNotDeletable
		}
	}
	return nil
}

func (s *ScheduledStore) query(q string) ([]models.ScheduledPost, error) {
	rows, err := s.db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("list scheduled posts: %w", err)
	}
	return scanPosts(rows)
}

func scanPosts(rows *sql.Rows) ([]models.ScheduledPost, error) {
	defer rows.Close()

	var posts []models.ScheduledPost
	for rows.Next() {
		var p models.ScheduledPost
		var platformsRaw, failedRaw []byte
		if err := rows.Scan(
			&p.ID, &p.Caption, &p.ImagePath, &platformsRaw,
			&p.ScheduledTime, &p.Status, &p.PostedAt,
			&p.PostedCount, &failedRaw, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan scheduled post: %w", err)
		}
		if err := unmarshalPlatforms(&p, platformsRaw, failedRaw); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func unmarshalPlatforms(p *models.ScheduledPost, platformsRaw, failedRaw []byte) error {
	if err := json.Unmarshal(platformsRaw, &p.Platforms); err != nil {
		return fmt.Errorf("unmarshal platforms: %w", err)
	}
	if err := json.Unmarshal(failedRaw, &p.FailedPlatforms); err != nil {
		return fmt.Errorf("unmarshal failed platforms: %w", err)
	}
	return nil
}
