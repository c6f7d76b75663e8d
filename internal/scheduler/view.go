// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package scheduler

import (
	"time"

	"postpilot/internal/models"
)

// DayBucket is one calendar day with the posts scheduled on it.
type DayBucket struct {
	Date  string                 `json:"date"` // YYYY-MM-DD
	Posts []models.ScheduledPost `json:"posts"`
}

// MonthView is one displayed month: a bucket per day, empty days
// included so the calendar grid renders without gaps.
type MonthView struct {
	Year  int         `json:"year"`
	Month int         `json:"month"`
	Days  []DayBucket `json:"days"`
}

// Month buckets posts by local calendar date for the given month. Posts
// outside the month are dropped; within a day they keep their
// chronological order from the store.
func Month(posts []models.ScheduledPost, year int, month time.Month) *MonthView {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	view := &MonthView{
		Year:  year,
		Month: int(month),
		Days:  make([]DayBucket, daysInMonth),
	}
	index := make(map[string]int, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.Local).Format("2006-01-02")
		view.Days[day-1] = DayBucket{Date: date}
		index[date] = day - 1
	}

	for _, post := range posts {
		date := post.ScheduledTime.In(time.Local).Format("2006-01-02")
		if i, ok := index[date]; ok {
			view.Days[i].Posts = append(view.Days[i].Posts, post)
		}
	}
	return view
}
