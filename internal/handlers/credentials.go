// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"postpilot/internal/models"
	"postpilot/internal/store"
)

// Credentials serves platform credential management. Values are write
// only: the API reports which platforms are connected but never echoes
// stored secrets back.
type Credentials struct {
	store *store.CredentialStore
}

// NewCredentials creates the credentials handler group.
func NewCredentials(credStore *store.CredentialStore) *Credentials {
	return &Credentials{store: credStore}
}

// Status reports per-platform connection status.
func (c *Credentials) Status(w http.ResponseWriter, r *http.Request) {
	status, err := c.store.Status()
	if err != nil {
		slog.Error("credential status failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load credential status")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": status})
}

// Upsert replaces a platform's credential set wholesale.
func (c *Credentials) Upsert(w http.ResponseWriter, r *http.Request) {
	platform, err := models.ParsePlatform(chi.URLParam(r, "platform"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid platform")
		return
	}

	var req struct {
		Values map[string]string `json:"values"`
	}
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Values) == 0 {
		jsonError(w, http.StatusBadRequest, "values are required")
		return
	}

	if err := c.store.Upsert(platform, req.Values); err != nil {
		slog.Error("credential upsert failed", "platform", platform, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to save credentials")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"platform": platform,
	})
}

// Delete removes a platform's stored credentials; the gateways fall back
// to environment configuration, if any.
func (c *Credentials) Delete(w http.ResponseWriter, r *http.Request) {
	platform, err := models.ParsePlatform(chi.URLParam(r, "platform"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid platform")
		return
	}

	if err := c.store.Delete(platform); err != nil {
		slog.Error("credential delete failed", "platform", platform, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete credentials")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
