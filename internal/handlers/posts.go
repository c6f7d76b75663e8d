// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"postpilot/internal/models"
	"postpilot/internal/publish"
	"postpilot/internal/session"
	"postpilot/internal/studio"
)

// Posts serves the publish endpoint: fan the session's draft out to its
// approved platforms, now or at a scheduled time.
type Posts struct {
	sessions     *session.Store
	manager      *studio.Manager
	orchestrator *publish.Orchestrator
}

// NewPosts creates the publish handler group.
func NewPosts(sessions *session.Store, manager *studio.Manager, orchestrator *publish.Orchestrator) *Posts {
	return &Posts{
		sessions:     sessions,
		manager:      manager,
		orchestrator: orchestrator,
	}
}

// Publish validates the session's draft against the publish
// preconditions and dispatches it. With a complete schedule the post is
// stored for the runner instead; the response then reports enqueue
// success only.
func (p *Posts) Publish(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Schedule models.ScheduleSpec `json:"schedule"`
	}
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	draft, err := p.manager.Get(r.Context(), p.sessions.ID(r))
	if err != nil {
		if errors.Is(err, studio.ErrNoDraft) {
			jsonError(w, http.StatusNotFound, "no active draft")
			return
		}
		slog.Error("load draft for publish failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load draft")
		return
	}

	summary, err := p.orchestrator.Publish(r.Context(), draft, req.Schedule)
	if err != nil {
		switch {
		case errors.Is(err, publish.ErrNothingApproved),
			errors.Is(err, publish.ErrImageNotApproved),
			errors.Is(err, publish.ErrIncompleteSchedule),
			errors.Is(err, publish.ErrSchedulePast):
			jsonError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("publish failed", "error", err)
			jsonError(w, http.StatusInternalServerError, "failed to publish")
		}
		return
	}

	// Total failure across the fan-out is an error to the caller, but the
	// summary still carries every platform's outcome.
	if !summary.Scheduled && summary.AllFailed() {
		writeJSON(w, http.StatusBadGateway, summary)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
