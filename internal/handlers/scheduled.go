// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"postpilot/internal/scheduler"
	"postpilot/internal/store"
)

// Scheduled serves the scheduled-post calendar and list views.
type Scheduled struct {
	store *store.ScheduledStore
}

// NewScheduled creates the scheduled-posts handler group.
func NewScheduled(scheduledStore *store.ScheduledStore) *Scheduled {
	return &Scheduled{store: scheduledStore}
}

// List returns every scheduled post, pending and posted, in
// chronological order. Clients poll this; posted jobs show up with their
// outcome counts after the runner executes them.
func (s *Scheduled) List(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.List()
	if err != nil {
		slog.Error("list scheduled posts failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load scheduled posts")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scheduled_posts": posts})
}

// Calendar returns one month of scheduled posts bucketed by day.
// Defaults to the current month when year/month are absent.
func (s *Scheduled) Calendar(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year, month := now.Year(), now.Month()

	if v := r.URL.Query().Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1970 || n > 9999 {
			jsonError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = n
	}
	if v := r.URL.Query().Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			jsonError(w, http.StatusBadRequest, "invalid month")
			return
		}
		month = time.Month(n)
	}

	posts, err := s.store.List()
	if err != nil {
		slog.Error("list scheduled posts failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load scheduled posts")
		return
	}
	writeJSON(w, http.StatusOK, scheduler.Month(posts, year, month))
}

// Delete cancels a pending scheduled post. Posts that already ran are
// history and refuse deletion with 409.
func (s *Scheduled) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	existing, err := s.store.FindByID(id)
	if err != nil {
		slog.Error("find scheduled post failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete scheduled post")
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, "scheduled post not found")
		return
	}

	if err := s.store.Delete(id); err != nil {
		if errors.Is(err, store.ErrNotDeletable) {
			jsonError(w, http.StatusConflict, "post has already been published")
			return
		}
		slog.Error("delete scheduled post failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete scheduled post")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
