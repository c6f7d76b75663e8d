// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai generates platform-tailored social media copy and campaign
// images. Text goes through an OpenAI-compatible chat provider; images can
// come from DALL-E 3 or fal.ai's nano-banana model, with automatic
// fallback between the two.
package ai

import (
	"context"
)

// Provider defines the interface for text generation backends.
// Each provider handles its own HTTP communication and response parsing.
type Provider interface {
	// Generate sends a chat request to the LLM and returns the generated text.
	Generate(ctx context.Context, req ChatRequest) (string, error)

	// Name returns the provider identifier (e.g., "openai").
	Name() string
}

// ChatRequest describes a single chat completion call.
// A zero Temperature means the provider default; regeneration bumps it
// up for more variety between attempts.
type ChatRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// ProviderConfig holds the credentials and settings for a provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}
