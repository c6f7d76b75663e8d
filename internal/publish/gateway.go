// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package publish delivers approved content to the social platforms.
// Each platform has its own Gateway wrapping its HTTP API; the
// Orchestrator fans an approved draft out to all of them at once and
// accounts for every platform's outcome independently.
package publish

import (
	"context"

	"postpilot/internal/models"
)

// PostRequest is the content handed to one platform's gateway.
type PostRequest struct {
	// Caption is the platform's own approved copy.
	Caption string
	// ImageURL is the approved image, publicly fetchable. Empty when the
	// draft has no image.
	ImageURL string
}

// PostResult identifies the created post on the platform.
type PostResult struct {
	PostID string
	URL    string
}

// Gateway posts content to a single platform.
type Gateway interface {
	// Publish creates one post. Implementations resolve their own
	// credentials at call time so runtime credential changes take effect
	// without a restart.
	Publish(ctx context.Context, req PostRequest) (*PostResult, error)

	// Platform identifies which network this gateway serves.
	Platform() models.Platform
}

// CredentialSource supplies stored platform credentials. Implemented by
// store.CredentialStore; nil values fall back to environment config.
type CredentialSource interface {
	Get(platform models.Platform) (*models.PlatformCredential, error)
}

// Resolver looks up a credential value with the store-first,
// environment-fallback precedence the whole package uses.
type Resolver struct {
	source CredentialSource
	env    map[models.Platform]map[string]string
}

// NewResolver builds a resolver over the given store. env maps
// platform → key → fallback value from the environment config.
func NewResolver(source CredentialSource, env map[models.Platform]map[string]string) *Resolver {
	if env == nil {
		env = make(map[models.Platform]map[string]string)
	}
	return &Resolver{source: source, env: env}
}

// Value returns the credential for a platform key: the stored value when
// present and non-empty, otherwise the environment fallback, otherwise "".
func (r *Resolver) Value(platform models.Platform, key string) string {
	if r.source != nil {
		cred, err := r.source.Get(platform)
		if err == nil && cred != nil {
			if v := cred.Get(key); v != "" {
				return v
			}
		}
	}
	return r.env[platform][key]
}
