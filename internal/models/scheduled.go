// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ScheduledStatus tracks a scheduled post through its lifecycle. The runner
// flips scheduled → posted after executing the fan-out; there is no
// intermediate state visible to callers.
type ScheduledStatus string

const (
	ScheduledStatusScheduled ScheduledStatus = "scheduled"
	ScheduledStatusPosted    ScheduledStatus = "posted"
)

// ScheduledPost is a publish job persisted for future execution. Once the
// runner executes it, PostedAt, PostedCount, and FailedPlatforms record the
// per-platform outcome; until then they are empty.
type ScheduledPost struct {
	ID              uuid.UUID       `json:"id"`
	Caption         string          `json:"caption"`
	ImagePath       string          `json:"image_path"`
	Platforms       []Platform      `json:"platforms"`
	ScheduledTime   time.Time       `json:"scheduled_time"`
	Status          ScheduledStatus `json:"status"`
	PostedAt        *time.Time      `json:"posted_at,omitempty"`
	PostedCount     int             `json:"posted_count"`
	FailedPlatforms []Platform      `json:"failed_platforms,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// IsPosted returns true once the runner has executed the job.
func (p *ScheduledPost) IsPosted() bool {
	return p.Status == ScheduledStatusPosted
}
