// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ScheduleSpec is an optional date/hour/minute triple selected by the
// operator. A partially filled spec is invalid; an entirely empty one means
// "publish now".
type ScheduleSpec struct {
	Date   string `json:"date"`   // YYYY-MM-DD
	Hour   string `json:"hour"`   // 00-23
	Minute string `json:"minute"` // 00-59
}

// IsZero reports whether no scheduling was requested at all.
func (s ScheduleSpec) IsZero() bool {
	return s.Date == "" && s.Hour == "" && s.Minute == ""
}

// Complete reports whether all three fields are present.
func (s ScheduleSpec) Complete() bool {
	return s.Date != "" && s.Hour != "" && s.Minute != ""
}

// Time combines the triple into a timestamp in the server's local zone,
// matching how the operator picked it. Requires a complete spec.
func (s ScheduleSpec) Time() (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02T15:04", fmt.Sprintf("%sT%s:%s", s.Date, s.Hour, s.Minute), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("models: invalid schedule %q %q:%q: %w", s.Date, s.Hour, s.Minute, err)
	}
	return t, nil
}

// PublishOutcome is the result of one platform's publish attempt.
type PublishOutcome struct {
	Platform  Platform `json:"platform"`
	Succeeded bool     `json:"succeeded"`
	PostID    string   `json:"post_id,omitempty"`
	PostURL   string   `json:"post_url,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// PublishSummary aggregates the fan-out outcomes of a single publish call.
// It exists only for the response to the caller and is never persisted.
// For scheduled publishes, ScheduledID points at the stored job and the
// outcome fields stay empty.
type PublishSummary struct {
	Scheduled       bool             `json:"scheduled"`
	ScheduledID     *uuid.UUID       `json:"scheduled_id,omitempty"`
	SucceededCount  int              `json:"succeeded_count"`
	FailedPlatforms []Platform       `json:"failed_platforms"`
	Outcomes        []PublishOutcome `json:"outcomes"`
}

// AllFailed reports total failure across the fan-out.
func (s *PublishSummary) AllFailed() bool {
	return s.SucceededCount == 0
}
