// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router wires the JSON API routes and their middleware chains:
// session loading, auth gates, and per-route rate-limit tiers.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"postpilot/internal/handlers"
	"postpilot/internal/middleware"
	"postpilot/internal/session"
)

// Handlers bundles the handler groups the router mounts.
type Handlers struct {
	Auth        *handlers.Auth
	Studio      *handlers.Studio
	Posts       *handlers.Posts
	Scheduled   *handlers.Scheduled
	Credentials *handlers.Credentials
}

// New creates and returns the configured Chi router. mediaDir, when
// non-empty, is served under /media/ for locally stored images.
func New(sessionStore *session.Store, h Handlers, mediaDir string) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth.
	r.Get("/health", healthHandler)

	// Generation is the expensive tier; regeneration and publishing get
	// more headroom.
	generateLimit := middleware.NewRateLimiter(10, time.Minute)
	regenerateLimit := middleware.NewRateLimiter(20, time.Minute)
	imageLimit := middleware.NewRateLimiter(15, time.Minute)
	postLimit := middleware.NewRateLimiter(30, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/logout", h.Auth.Logout)

		// 2FA — requires auth but NOT completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/auth/2fa/setup", h.Auth.TwoFASetup)
			r.Post("/auth/2fa/verify", h.Auth.TwoFAVerify)
		})

		// Authenticated + 2FA-verified API.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/auth/me", h.Auth.Me)

			// Generation
			r.With(generateLimit.Middleware).Post("/generate-content", h.Studio.Generate)
			r.With(regenerateLimit.Middleware).Post("/regenerate-content", h.Studio.RegenerateContent)
			r.With(imageLimit.Middleware).Post("/regenerate-image", h.Studio.RegenerateImage)
			r.With(postLimit.Middleware).Post("/refine-content", h.Studio.RefineContent)
			r.Post("/enhance-prompt", h.Studio.EnhancePrompt)

			// Draft review
			r.Route("/draft", func(r chi.Router) {
				r.Get("/", h.Studio.Draft)
				r.Delete("/", h.Studio.Discard)
				r.Put("/content/{platform}", h.Studio.EditContent)
				r.Post("/content/{platform}/approve", h.Studio.ApproveContent)
				r.Post("/content/{platform}/reject", h.Studio.RejectContent)
				r.Post("/image/approve", h.Studio.ApproveImage)
				r.Post("/image/reject", h.Studio.RejectImage)
			})

			// Publishing
			r.With(postLimit.Middleware).Post("/post", h.Posts.Publish)

			// Scheduled posts
			r.Route("/scheduled-posts", func(r chi.Router) {
				r.Get("/", h.Scheduled.List)
				r.Get("/calendar", h.Scheduled.Calendar)
				r.Delete("/{id}", h.Scheduled.Delete)
			})

			// Platform credentials
			r.Route("/credentials", func(r chi.Router) {
				r.Get("/status", h.Credentials.Status)
				r.Post("/{platform}", h.Credentials.Upsert)
				r.Delete("/{platform}", h.Credentials.Delete)
			})
		})
	})

	// Locally stored generated images. With S3 configured the image URLs
	// point at the bucket instead and this mount goes unused.
	if mediaDir != "" {
		fs := http.StripPrefix("/media/", http.FileServer(http.Dir(mediaDir)))
		r.Get("/media/*", fs.ServeHTTP)
	}

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
