// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"postpilot/internal/imaging"
	"postpilot/internal/models"
	"postpilot/internal/storage"
)

// ErrNoProvider is returned when text generation is requested but no
// OpenAI API key is configured.
var ErrNoProvider = errors.New("ai: no text provider configured")

// UnsafePromptError is returned when the moderation API flags the
// operator's topic before any generation happens.
type UnsafePromptError struct {
	Categories []string
}

func (e *UnsafePromptError) Error() string {
	return "ai: prompt flagged by moderation: " + strings.Join(e.Categories, ", ")
}

// Service coordinates prompt enhancement, per-platform copy generation,
// and image generation. It is the single entry point the HTTP handlers
// and the studio use for anything AI.
type Service struct {
	text      Provider
	images    *ImageRegistry
	moderator Moderator
	media     storage.Media
}

// NewService wires the generation backends together. text and moderator
// may be nil when the corresponding API keys are missing; image providers
// are handled by the registry.
func NewService(text Provider, images *ImageRegistry, moderator Moderator, media storage.Media) *Service {
	return &Service{
		text:      text,
		images:    images,
		moderator: moderator,
		media:     media,
	}
}

// GenerateRequest describes a full campaign generation run.
type GenerateRequest struct {
	Topic         string
	Tone          string
	ImageStyle    string
	GenerateImage bool
	UseEnhancer   bool
	ImageProvider string
}

// PlatformContent is one platform's generated copy. A failed platform
// carries its error message; the other platforms are unaffected.
type PlatformContent struct {
	Content        string `json:"content"`
	CharacterCount int    `json:"character_count"`
	Success        bool   `json:"success"`
	Error          string `json:"error,omitempty"`
}

// GeneratedImage is a stored campaign image.
type GeneratedImage struct {
	Path     string `json:"path"`
	Provider string `json:"provider"`
}

// GenerateResult is the outcome of a full generation run. Image is nil
// when no image was requested or when generation failed; ImageError
// carries the failure so the text results still reach the operator.
type GenerateResult struct {
	Platforms  map[models.Platform]PlatformContent `json:"platforms"`
	Image      *GeneratedImage                     `json:"image,omitempty"`
	ImageError string                              `json:"image_error,omitempty"`
	Enhanced   *EnhancedPrompts                    `json:"enhanced_prompts,omitempty"`
}

// CheckPrompt runs the topic through the moderation API. Returns nil if
// the prompt is safe or no moderator is configured (graceful degradation;
// providers still have their own built-in safety filters).
func (s *Service) CheckPrompt(ctx context.Context, prompt string) error {
	if s.moderator == nil {
		return nil
	}
	result, err := s.moderator.CheckSafety(ctx, prompt)
	if err != nil {
		// Moderation being down should not block content creation.
		slog.Warn("moderation check failed, continuing", "error", err)
		return nil
	}
	if !result.Safe {
		return &UnsafePromptError{Categories: result.Categories}
	}
	return nil
}

// Enhance exposes prompt enhancement on its own for the preview endpoint.
func (s *Service) Enhance(ctx context.Context, topic, tone, style string) *EnhancedPrompts {
	return EnhancePrompt(ctx, s.text, topic, tone, style)
}

// GenerateAll produces copy for every platform plus an optional image.
// A single platform failing does not stop the others; each platform
// reports its own success flag.
func (s *Service) GenerateAll(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if s.text == nil {
		return nil, ErrNoProvider
	}
	if err := s.CheckPrompt(ctx, req.Topic); err != nil {
		return nil, err
	}

	contentTopic := req.Topic
	var enhanced *EnhancedPrompts
	if req.UseEnhancer {
		enhanced = EnhancePrompt(ctx, s.text, req.Topic, req.Tone, req.ImageStyle)
		contentTopic = enhanced.ContentPrompt
	}

	result := &GenerateResult{
		Platforms: make(map[models.Platform]PlatformContent, len(models.AllPlatforms)),
		Enhanced:  enhanced,
	}

	for _, platform := range models.AllPlatforms {
		text, err := s.text.Generate(ctx, ChatRequest{
			System:      contentSystem(platform),
			User:        contentPrompt(contentTopic, platform, req.Tone),
			Temperature: 0.8,
			MaxTokens:   300,
		})
		if err != nil {
			slog.Warn("content generation failed", "platform", platform, "error", err)
			result.Platforms[platform] = PlatformContent{Error: err.Error()}
			continue
		}
		text = strings.TrimSpace(text)
		result.Platforms[platform] = PlatformContent{
			Content:        text,
			CharacterCount: len([]rune(text)),
			Success:        true,
		}
	}

	if req.GenerateImage {
		image, err := s.generateImage(ctx, req, enhanced, result.Platforms)
		if err != nil {
			slog.Warn("image generation failed", "error", err)
			result.ImageError = err.Error()
		} else {
			result.Image = image
		}
	}

	return result, nil
}

// RegeneratePlatform produces a fresh variant for a single platform.
// The previous content is passed along so the model avoids repeating it;
// a higher temperature gives more variety between attempts.
func (s *Service) RegeneratePlatform(ctx context.Context, topic string, platform models.Platform, tone, previous string) (string, error) {
	if s.text == nil {
		return "", ErrNoProvider
	}

	text, err := s.text.Generate(ctx, ChatRequest{
		System:      regenerateSystem(platform),
		User:        regeneratePrompt(topic, platform, tone, previous),
		Temperature: 0.9,
		MaxTokens:   300,
	})
	if err != nil {
		return "", fmt.Errorf("regenerate %s content: %w", platform, err)
	}
	return strings.TrimSpace(text), nil
}

// Refine rewrites existing copy according to the operator's instructions.
func (s *Service) Refine(ctx context.Context, original string, platform models.Platform, instructions string) (string, error) {
	if s.text == nil {
		return "", ErrNoProvider
	}

	text, err := s.text.Generate(ctx, ChatRequest{
		System:      refineSystem(platform),
		User:        refinePrompt(original, platform, instructions),
		Temperature: 0.7,
		MaxTokens:   300,
	})
	if err != nil {
		return "", fmt.Errorf("refine %s content: %w", platform, err)
	}
	return strings.TrimSpace(text), nil
}

// RegenerateImage produces and stores a new image for the same topic,
// replacing nothing until the caller decides what to do with the path.
func (s *Service) RegenerateImage(ctx context.Context, topic, tone, style, provider string) (*GeneratedImage, error) {
	prompt := fmt.Sprintf("Create a professional social media image about %s. %s. High quality, visually appealing, suitable for social platforms.",
		topic, imageStyleFor(tone, style))
	return s.storeImage(ctx, provider, prompt)
}

// generateImage builds a coordinated image prompt from the enhanced
// prompts and the generated copy, then produces and stores the image.
// Facebook's copy is used as context since it is usually the most detailed.
func (s *Service) generateImage(ctx context.Context, req GenerateRequest, enhanced *EnhancedPrompts, platforms map[models.Platform]PlatformContent) (*GeneratedImage, error) {
	var contentSummary string
	if fb, ok := platforms[models.PlatformFacebook]; ok && fb.Success {
		contentSummary = truncate(fb.Content, 300)
	}

	style := imageStyleFor(req.Tone, req.ImageStyle)

	var prompt string
	switch {
	case enhanced != nil && enhanced.Enhanced && contentSummary != "":
		prompt = fmt.Sprintf("%s. This should visually represent content that says: %s. Style: %s. Professional quality, suitable for social media.",
			enhanced.ImagePrompt, truncate(contentSummary, 150), style)
	case enhanced != nil && enhanced.Enhanced:
		prompt = fmt.Sprintf("%s. Style: %s. Professional quality, suitable for social media.", enhanced.ImagePrompt, style)
	case contentSummary != "":
		prompt = fmt.Sprintf("Create a professional social media image that visually represents: %s. About: %s. %s. High quality, visually appealing.",
			truncate(contentSummary, 200), req.Topic, style)
	default:
		prompt = fmt.Sprintf("Create a professional social media image about %s. %s. High quality, visually appealing, suitable for social platforms.",
			req.Topic, style)
	}

	return s.storeImage(ctx, req.ImageProvider, prompt)
}

// storeImage runs a prompt through the image registry and persists the
// result under a unique name. Providers return PNG; the stored copy is
// normalised to JPEG because Instagram only ingests JPEG by URL. If the
// conversion fails the original bytes are stored as-is.
func (s *Service) storeImage(ctx context.Context, provider, prompt string) (*GeneratedImage, error) {
	if provider == "" {
		provider = ImageProviderDalle
	}

	data, contentType, err := s.images.Generate(ctx, provider, prompt)
	if err != nil {
		return nil, err
	}

	ext := "png"
	if jpeg, err := imaging.ToJPEG(data, imaging.DefaultQuality); err != nil {
		slog.Warn("jpeg conversion failed, storing original", "error", err)
	} else {
		data, contentType, ext = jpeg, "image/jpeg", "jpg"
	}

	name := fmt.Sprintf("ai_generated_%s_%s.%s",
		time.Now().Format("20060102_150405"), uuid.New().String()[:8], ext)
	path, err := s.media.Save(ctx, name, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("store generated image: %w", err)
	}

	return &GeneratedImage{Path: path, Provider: provider}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
