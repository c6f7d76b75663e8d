// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the PostPilot server. It loads
// configuration, connects to services, wires the generation and publish
// pipelines, and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"postpilot/internal/ai"
	"postpilot/internal/cache"
	"postpilot/internal/config"
	"postpilot/internal/database"
	"postpilot/internal/handlers"
	"postpilot/internal/imaging"
	"postpilot/internal/models"
	"postpilot/internal/publish"
	"postpilot/internal/router"
	"postpilot/internal/scheduler"
	"postpilot/internal/session"
	"postpilot/internal/storage"
	"postpilot/internal/store"
	"postpilot/internal/studio"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())

	// Connect to PostgreSQL and run pending migrations.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey — sessions and draft storage.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// libvips handles JPEG normalisation of generated images.
	imaging.Startup(0)
	defer imaging.Shutdown()

	// Data stores.
	userStore := store.NewUserStore(db)
	scheduledStore := store.NewScheduledStore(db)
	credentialStore := store.NewCredentialStore(db)

	// Generated images go to S3-compatible storage when configured,
	// otherwise to the local media directory.
	var media storage.Media
	mediaDir := ""
	if cfg.S3Configured() {
		s3, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		media = storage.NewS3Media(s3)
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		local, err := storage.NewLocalMedia(cfg.MediaDir)
		if err != nil {
			slog.Error("failed to prepare media directory", "error", err)
			os.Exit(1)
		}
		media = local
		mediaDir = cfg.MediaDir
		slog.Warn("s3 storage not configured — storing generated images locally", "dir", cfg.MediaDir)
	}

	// AI pipeline: OpenAI text + moderation, DALL-E and fal.ai images.
	var text ai.Provider
	if cfg.OpenAIKey != "" {
		text = ai.NewOpenAI(ai.ProviderConfig{
			APIKey:  cfg.OpenAIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		})
	} else {
		slog.Warn("OPENAI_API_KEY not set — content generation disabled")
	}
	images := ai.NewImageRegistry(
		ai.NewDalle(ai.ProviderConfig{APIKey: cfg.OpenAIKey, BaseURL: cfg.OpenAIBaseURL}),
		ai.NewNanoBanana(cfg.FalKey, cfg.FalBaseURL),
	)
	moderator := ai.NewOpenAIModerator(cfg.OpenAIKey, cfg.OpenAIBaseURL)
	aiService := ai.NewService(text, images, moderator, media)

	draftManager := studio.NewManager(valkeyClient, aiService)

	// Publish gateways resolve credentials store-first with environment
	// fallback.
	resolver := publish.NewResolver(credentialStore, map[models.Platform]map[string]string{
		models.PlatformFacebook: {
			"access_token": cfg.FacebookAccessToken,
		},
		models.PlatformInstagram: {
			"access_token": cfg.InstagramToken,
			"account_id":   cfg.InstagramAccountID,
		},
		models.PlatformTwitter: {
			"bearer_token": cfg.TwitterBearerToken,
		},
		models.PlatformReddit: {
			"client_id":     cfg.RedditClientID,
			"client_secret": cfg.RedditClientSecret,
			"username":      cfg.RedditUsername,
			"password":      cfg.RedditPassword,
			"subreddit":     cfg.RedditSubreddit,
		},
	})

	// Local media paths are relative; platforms fetch images by URL, so
	// they get resolved against the server's public address. S3 paths are
	// already absolute.
	imageURL := func(path string) string {
		if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
			return path
		}
		return strings.TrimRight(cfg.PublicURL, "/") + path
	}

	orchestrator := publish.NewOrchestrator(scheduledStore, imageURL,
		publish.NewFacebook(resolver, cfg.GraphURL()),
		publish.NewInstagram(resolver, cfg.GraphURL()),
		publish.NewTwitter(resolver, ""),
		publish.NewReddit(resolver, "", ""),
	)

	// Background runner for scheduled posts.
	runnerCtx, stopRunner := context.WithCancel(context.Background())
	defer stopRunner()
	runner := scheduler.NewRunner(scheduledStore, orchestrator, scheduler.DefaultInterval)
	go runner.Start(runnerCtx)

	r := router.New(sessionStore, router.Handlers{
		Auth:        handlers.NewAuth(sessionStore, userStore),
		Studio:      handlers.NewStudio(sessionStore, draftManager, aiService),
		Posts:       handlers.NewPosts(sessionStore, draftManager, orchestrator),
		Scheduled:   handlers.NewScheduled(scheduledStore),
		Credentials: handlers.NewCredentials(credentialStore),
	}, mediaDir)

	// WriteTimeout must accommodate generation endpoints that wait on LLM
	// and image responses (typically 10-30s, up to a few minutes with
	// image fallback).
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	stopRunner()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
