// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package studio

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"postpilot/internal/ai"
	"postpilot/internal/models"
)

const (
	// keyPrefix namespaces draft keys in Valkey.
	keyPrefix = "studio:draft:"

	// draftTTL matches the session TTL so drafts die with their session.
	draftTTL = 24 * time.Hour
)

// Manager persists drafts in Valkey and runs the edit/approve/regenerate
// cycle on them. Busy tracking is in-memory: regeneration holds a lock
// per session+item, and a second request for the same item is refused
// with ErrBusy while the first is still running.
type Manager struct {
	client *redis.Client
	ai     *ai.Service

	mu   sync.Mutex
	busy map[string]struct{}
}

// NewManager creates a draft manager backed by the given Valkey client.
func NewManager(client *redis.Client, aiService *ai.Service) *Manager {
	return &Manager{
		client: client,
		ai:     aiService,
		busy:   make(map[string]struct{}),
	}
}

// Generate runs a full generation and stores the result as the session's
// draft, replacing any previous one.
func (m *Manager) Generate(ctx context.Context, sessionID string, req ai.GenerateRequest) (*Draft, error) {
	result, err := m.ai.GenerateAll(ctx, req)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	draft := &Draft{
		ID:         uuid.New(),
		Topic:      req.Topic,
		Tone:       req.Tone,
		ImageStyle: req.ImageStyle,
		Variants:   make(map[models.Platform]*TextVariant, len(result.Platforms)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for platform, pc := range result.Platforms {
		draft.Variants[platform] = &TextVariant{
			Platform:       platform,
			Content:        pc.Content,
			CharacterCount: pc.CharacterCount,
			Approval:       models.ApprovalNone,
			Error:          pc.Error,
		}
	}
	if result.Image != nil {
		draft.Image = &ImageArtifact{
			Path:     result.Image.Path,
			Provider: result.Image.Provider,
			Approval: models.ApprovalNone,
		}
	}
	if result.ImageError != "" {
		draft.AddNotice("error", "image generation failed: "+result.ImageError)
	}

	if err := m.save(ctx, sessionID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Get loads the session's draft, pruning expired notices.
func (m *Manager) Get(ctx context.Context, sessionID string) (*Draft, error) {
	payload, err := m.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, ErrNoDraft
	}
	if err != nil {
		return nil, fmt.Errorf("studio load draft: %w", err)
	}

	var draft Draft
	if err := json.Unmarshal(payload, &draft); err != nil {
		return nil, fmt.Errorf("studio unmarshal draft: %w", err)
	}
	draft.PruneNotices(time.Now())
	return &draft, nil
}

// Discard removes the session's draft.
func (m *Manager) Discard(ctx context.Context, sessionID string) error {
	if err := m.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("studio discard draft: %w", err)
	}
	return nil
}

// Edit applies a manual rewrite to one platform's variant.
func (m *Manager) Edit(ctx context.Context, sessionID string, platform models.Platform, content string) (*Draft, error) {
	return m.update(ctx, sessionID, func(d *Draft) error {
		return d.Edit(platform, content)
	})
}

// Approve marks one platform's variant approved.
func (m *Manager) Approve(ctx context.Context, sessionID string, platform models.Platform) (*Draft, error) {
	return m.update(ctx, sessionID, func(d *Draft) error {
		if err := d.Approve(platform); err != nil {
			return err
		}
		d.AddNotice("info", fmt.Sprintf("%s content approved", platform.Label()))
		return nil
	})
}

// Reject marks one platform's variant rejected.
func (m *Manager) Reject(ctx context.Context, sessionID string, platform models.Platform) (*Draft, error) {
	return m.update(ctx, sessionID, func(d *Draft) error {
		if err := d.Reject(platform); err != nil {
			return err
		}
		d.AddNotice("info", fmt.Sprintf("%s content rejected", platform.Label()))
		return nil
	})
}

// ApproveImage marks the draft's image approved.
func (m *Manager) ApproveImage(ctx context.Context, sessionID string) (*Draft, error) {
	return m.update(ctx, sessionID, func(d *Draft) error {
		if err := d.ApproveImage(); err != nil {
			return err
		}
		d.AddNotice("info", "image approved")
		return nil
	})
}

// RejectImage marks the draft's image rejected.
func (m *Manager) RejectImage(ctx context.Context, sessionID string) (*Draft, error) {
	return m.update(ctx, sessionID, func(d *Draft) error {
		if err := d.RejectImage(); err != nil {
			return err
		}
		d.AddNotice("info", "image rejected")
		return nil
	})
}

// RegenerateText produces fresh copy for one platform. Only the targeted
// variant changes; the other platforms' content and approvals stay
// untouched. Refuses with ErrBusy if a regeneration for the same variant
// is already running.
func (m *Manager) RegenerateText(ctx context.Context, sessionID string, platform models.Platform) (*Draft, error) {
	release, err := m.acquire(sessionID, string(platform))
	if err != nil {
		return nil, err
	}
	defer release()

	draft, err := m.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	variant, err := draft.Variant(platform)
	if err != nil {
		return nil, err
	}

	// Mark busy in the stored draft so concurrent reads show the spinner.
	variant.Busy = true
	if err := m.save(ctx, sessionID, draft); err != nil {
		return nil, err
	}

	content, genErr := m.ai.RegeneratePlatform(ctx, draft.Topic, platform, draft.Tone, variant.Content)

	// Reload before writing back: the operator may have edited other
	// platforms while generation was running.
	draft, err = m.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	variant, err = draft.Variant(platform)
	if err != nil {
		return nil, err
	}
	variant.Busy = false

	if genErr != nil {
		draft.AddNotice("error", fmt.Sprintf("%s regeneration failed", platform.Label()))
		slog.Error("text regeneration failed", "platform", platform, "error", genErr)
	} else {
		if err := draft.ReplaceContent(platform, content); err != nil {
			return nil, err
		}
		draft.AddNotice("info", fmt.Sprintf("%s content regenerated", platform.Label()))
	}

	if err := m.save(ctx, sessionID, draft); err != nil {
		return nil, err
	}
	if genErr != nil {
		return draft, fmt.Errorf("studio regenerate text: %w", genErr)
	}
	return draft, nil
}

// RegenerateImage produces a fresh image with the chosen provider and
// replaces the draft's image wholesale. Refuses with ErrBusy if an image
// regeneration is already running for this session.
func (m *Manager) RegenerateImage(ctx context.Context, sessionID, provider string) (*Draft, error) {
	release, err := m.acquire(sessionID, "image")
	if err != nil {
		return nil, err
	}
	defer release()

	draft, err := m.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if draft.Image != nil {
		draft.Image.Busy = true
		if err := m.save(ctx, sessionID, draft); err != nil {
			return nil, err
		}
	}

	image, genErr := m.ai.RegenerateImage(ctx, draft.Topic, draft.Tone, draft.ImageStyle, provider)

	draft, err = m.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if draft.Image != nil {
		draft.Image.Busy = false
	}

	if genErr != nil {
		draft.AddNotice("error", "image regeneration failed")
		slog.Error("image regeneration failed", "provider", provider, "error", genErr)
	} else {
		draft.ReplaceImage(image.Path, image.Provider)
		draft.AddNotice("info", "image regenerated")
	}

	if err := m.save(ctx, sessionID, draft); err != nil {
		return nil, err
	}
	if genErr != nil {
		return draft, fmt.Errorf("studio regenerate image: %w", genErr)
	}
	return draft, nil
}

// update loads, mutates, and saves the session's draft.
func (m *Manager) update(ctx context.Context, sessionID string, fn func(*Draft) error) (*Draft, error) {
	draft, err := m.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(draft); err != nil {
		return nil, err
	}
	if err := m.save(ctx, sessionID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (m *Manager) save(ctx context.Context, sessionID string, draft *Draft) error {
	draft.UpdatedAt = time.Now()
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("studio marshal draft: %w", err)
	}
	if err := m.client.Set(ctx, keyPrefix+sessionID, payload, draftTTL).Err(); err != nil {
		return fmt.Errorf("studio save draft: %w", err)
	}
	return nil
}

// acquire takes the busy lock for one item. The returned func releases it.
func (m *Manager) acquire(sessionID, item string) (func(), error) {
	key := sessionID + "/" + item

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.busy[key]; taken {
		return nil, ErrBusy
	}
	m.busy[key] = struct{}{}

	return func() {
		m.mu.Lock()
		delete(m.busy, key)
		m.mu.Unlock()
	}, nil
}
