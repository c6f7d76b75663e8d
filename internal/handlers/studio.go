// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"postpilot/internal/ai"
	"postpilot/internal/models"
	"postpilot/internal/session"
	"postpilot/internal/studio"
)

// maxTopicLen caps generation topics.
const maxTopicLen = 500

// Studio serves the generation and approval workflow: one draft per
// session, edited and reviewed per platform until it is ready to publish.
type Studio struct {
	sessions *session.Store
	manager  *studio.Manager
	ai       *ai.Service
}

// NewStudio creates the studio handler group.
func NewStudio(sessions *session.Store, manager *studio.Manager, aiService *ai.Service) *Studio {
	return &Studio{
		sessions: sessions,
		manager:  manager,
		ai:       aiService,
	}
}

type generateRequest struct {
	Topic         string `json:"topic"`
	Tone          string `json:"tone"`
	ImageStyle    string `json:"image_style"`
	GenerateImage *bool  `json:"generate_image"`
	UseEnhancer   *bool  `json:"use_prompt_enhancer"`
	ImageProvider string `json:"image_provider"`
}

// normalize fills defaults and validates; returns a user-facing error
// message, or "" when the request is valid.
func (req *generateRequest) normalize() string {
	req.Topic = strings.Join(strings.Fields(req.Topic), " ")
	if req.Topic == "" {
		return "topic cannot be empty"
	}
	if len([]rune(req.Topic)) > maxTopicLen {
		return "topic too long (maximum 500 characters)"
	}
	if req.Tone == "" {
		req.Tone = "casual"
	}
	if !ai.ValidTone(req.Tone) {
		return "invalid tone"
	}
	if req.ImageStyle == "" {
		req.ImageStyle = "realistic"
	}
	if !ai.ValidImageStyle(req.ImageStyle) {
		return "invalid image style"
	}
	if req.ImageProvider == "" {
		req.ImageProvider = ai.ImageProviderDalle
	}
	if req.ImageProvider != ai.ImageProviderDalle && req.ImageProvider != ai.ImageProviderNanoBanana {
		return "invalid image provider"
	}
	return ""
}

// Generate runs a full generation and replaces the session's draft.
func (s *Studio) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.normalize(); msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	// Image generation and enhancement default on, like the client sends.
	genImage := req.GenerateImage == nil || *req.GenerateImage
	enhance := req.UseEnhancer == nil || *req.UseEnhancer

	draft, err := s.manager.Generate(r.Context(), s.sessions.ID(r), ai.GenerateRequest{
		Topic:         req.Topic,
		Tone:          req.Tone,
		ImageStyle:    req.ImageStyle,
		GenerateImage: genImage,
		UseEnhancer:   enhance,
		ImageProvider: req.ImageProvider,
	})
	if err != nil {
		var unsafe *ai.UnsafePromptError
		switch {
		case errors.As(err, &unsafe):
			jsonError(w, http.StatusBadRequest, unsafe.Error())
		case errors.Is(err, ai.ErrNoProvider):
			jsonError(w, http.StatusServiceUnavailable, "content generation is not configured")
		default:
			slog.Error("generation failed", "error", err)
			jsonError(w, http.StatusInternalServerError, "failed to generate content")
		}
		return
	}

	writeJSON(w, http.StatusOK, draft)
}

// Draft returns the session's current draft.
func (s *Studio) Draft(w http.ResponseWriter, r *http.Request) {
	draft, err := s.manager.Get(r.Context(), s.sessions.ID(r))
	if err != nil {
		s.draftError(w, err, "load draft")
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// Discard drops the session's draft.
func (s *Studio) Discard(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Discard(r.Context(), s.sessions.ID(r)); err != nil {
		slog.Error("discard draft failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to discard draft")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// EditContent applies a manual rewrite to one platform's variant and
// resets its approval.
func (s *Studio) EditContent(w http.ResponseWriter, r *http.Request) {
	platform, ok := s.platformParam(w, r)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	draft, err := s.manager.Edit(r.Context(), s.sessions.ID(r), platform, req.Content)
	if err != nil {
		s.draftError(w, err, "edit content")
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// ApproveContent marks one platform's variant approved.
func (s *Studio) ApproveContent(w http.ResponseWriter, r *http.Request) {
	s.review(w, r, s.manager.Approve)
}

// RejectContent marks one platform's variant rejected.
func (s *Studio) RejectContent(w http.ResponseWriter, r *http.Request) {
	s.review(w, r, s.manager.Reject)
}

// RegenerateContent produces fresh copy for one platform, leaving the
// others untouched. Refused with 409 while a regeneration for the same
// variant is running.
func (s *Studio) RegenerateContent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Platform string `json:"platform"`
	}
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	platform, err := models.ParsePlatform(req.Platform)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid platform")
		return
	}

	draft, err := s.manager.RegenerateText(r.Context(), s.sessions.ID(r), platform)
	if err != nil {
		s.draftError(w, err, "regenerate content")
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// RegenerateImage produces a fresh image with the chosen provider and
// replaces the draft's image wholesale.
func (s *Studio) RegenerateImage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ImageProvider string `json:"image_provider"`
	}
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ImageProvider == "" {
		req.ImageProvider = ai.ImageProviderDalle
	}
	if req.ImageProvider != ai.ImageProviderDalle && req.ImageProvider != ai.ImageProviderNanoBanana {
		jsonError(w, http.StatusBadRequest, "invalid image provider")
		return
	}

	draft, err := s.manager.RegenerateImage(r.Context(), s.sessions.ID(r), req.ImageProvider)
	if err != nil {
		s.draftError(w, err, "regenerate image")
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// ApproveImage marks the draft's image approved.
func (s *Studio) ApproveImage(w http.ResponseWriter, r *http.Request) {
	draft, err := s.manager.ApproveImage(r.Context(), s.sessions.ID(r))
	if err != nil {
		s.draftError(w, err, "approve image")
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// RejectImage marks the draft's image rejected.
func (s *Studio) RejectImage(w http.ResponseWriter, r *http.Request) {
	draft, err := s.manager.RejectImage(r.Context(), s.sessions.ID(r))
	if err != nil {
		s.draftError(w, err, "reject image")
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// RefineContent rewrites content per the operator's instructions without
// touching the stored draft; the client applies the result through the
// edit endpoint if the operator keeps it.
func (s *Studio) RefineContent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OriginalContent string `json:"original_content"`
		Platform        string `json:"platform"`
		Instructions    string `json:"instructions"`
	}
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.OriginalContent) == "" || strings.TrimSpace(req.Instructions) == "" {
		jsonError(w, http.StatusBadRequest, "original content and instructions are required")
		return
	}
	platform, err := models.ParsePlatform(req.Platform)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid platform")
		return
	}

	refined, err := s.ai.Refine(r.Context(), req.OriginalContent, platform, req.Instructions)
	if err != nil {
		slog.Error("refine failed", "platform", platform, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to refine content")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"refined_content": refined,
		"character_count": len([]rune(refined)),
	})
}

// EnhancePrompt runs the prompt enhancer on its own, for clients that
// want to preview the expansion before generating.
func (s *Studio) EnhancePrompt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt     string `json:"prompt"`
		Tone       string `json:"tone"`
		ImageStyle string `json:"image_style"`
	}
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	gen := generateRequest{Topic: req.Prompt, Tone: req.Tone, ImageStyle: req.ImageStyle}
	if msg := gen.normalize(); msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	writeJSON(w, http.StatusOK, s.ai.Enhance(r.Context(), gen.Topic, gen.Tone, gen.ImageStyle))
}

// review factors the shared approve/reject flow.
func (s *Studio) review(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, sessionID string, platform models.Platform) (*studio.Draft, error)) {
	platform, ok := s.platformParam(w, r)
	if !ok {
		return
	}

	draft, err := op(r.Context(), s.sessions.ID(r), platform)
	if err != nil {
		s.draftError(w, err, "review content")
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (s *Studio) platformParam(w http.ResponseWriter, r *http.Request) (models.Platform, bool) {
	platform, err := models.ParsePlatform(chi.URLParam(r, "platform"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid platform")
		return "", false
	}
	return platform, true
}

// draftError maps studio errors onto HTTP statuses.
func (s *Studio) draftError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, studio.ErrNoDraft):
		jsonError(w, http.StatusNotFound, "no active draft")
	case errors.Is(err, studio.ErrNoVariant):
		jsonError(w, http.StatusBadRequest, "no variant for platform")
	case errors.Is(err, studio.ErrNoImage):
		jsonError(w, http.StatusBadRequest, "draft has no image")
	case errors.Is(err, studio.ErrBusy):
		jsonError(w, http.StatusConflict, "a regeneration is already in progress")
	default:
		slog.Error(op+" failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to "+op)
	}
}
