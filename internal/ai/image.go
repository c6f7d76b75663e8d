// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ImageProvider generates a campaign image from a text prompt. Returns
// the raw image bytes and the MIME content type (e.g., "image/png").
type ImageProvider interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, string, error)
	Name() string
}

// Image provider identifiers accepted by the API.
const (
	ImageProviderDalle      = "dalle"
	ImageProviderNanoBanana = "nano-banana"
)

// ImageRegistry holds the configured image providers and picks the
// requested one with automatic fallback to the other when the first
// fails. The operator chooses dalle for quality or nano-banana for speed.
type ImageRegistry struct {
	providers map[string]ImageProvider
}

// NewImageRegistry creates a registry from the given providers, skipping
// nil entries (providers without API keys).
func NewImageRegistry(providers ...ImageProvider) *ImageRegistry {
	r := &ImageRegistry{providers: make(map[string]ImageProvider)}
	for _, p := range providers {
		if p != nil {
			r.providers[p.Name()] = p
		}
	}
	return r
}

// Has reports whether a named provider is configured.
func (r *ImageRegistry) Has(name string) bool {
	_, ok := r.providers[name]
	return ok
}

// Generate creates an image with the named provider. If it fails and the
// alternate provider is configured, the alternate is tried before giving up.
func (r *ImageRegistry) Generate(ctx context.Context, name, prompt string) ([]byte, string, error) {
	if len(r.providers) == 0 {
		return nil, "", fmt.Errorf("ai: no image providers configured")
	}

	primary, ok := r.providers[name]
	if !ok {
		return nil, "", fmt.Errorf("ai: image provider %q is not available (no API key?)", name)
	}

	data, contentType, primaryErr := primary.GenerateImage(ctx, prompt)
	if primaryErr == nil {
		return data, contentType, nil
	}

	fallbackName := ImageProviderDalle
	if name == ImageProviderDalle {
		fallbackName = ImageProviderNanoBanana
	}
	fallback, ok := r.providers[fallbackName]
	if !ok {
		return nil, "", fmt.Errorf("ai: image generation with %s failed: %w", name, primaryErr)
	}

	data, contentType, fallbackErr := fallback.GenerateImage(ctx, prompt)
	if fallbackErr != nil {
		return nil, "", fmt.Errorf("ai: image generation failed with both providers: %s: %v; %s: %v",
			name, primaryErr, fallbackName, fallbackErr)
	}
	return data, contentType, nil
}

// --- DALL-E 3 ---

// dalleProvider generates images via the OpenAI image API
// (POST /v1/images/generations) and downloads the result.
type dalleProvider struct {
	config ProviderConfig
	client *http.Client
}

// NewDalle creates a DALL-E 3 image provider. Returns nil if no API key
// is configured.
func NewDalle(cfg ProviderConfig) ImageProvider {
	if cfg.APIKey == "" {
		return nil
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	return &dalleProvider{
		config: cfg,
		// Image generation is slow; allow for model time plus download.
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *dalleProvider) Name() string { return ImageProviderDalle }

func (p *dalleProvider) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	// DALL-E rejects prompts over 4000 characters.
	if len(prompt) > 4000 {
		prompt = prompt[:4000]
	}

	body := dalleRequest{
		Model:   "dall-e-3",
		Prompt:  prompt,
		Size:    "1024x1024",
		Quality: "standard",
		N:       1,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("dalle marshal: %w", err)
	}

	url := p.config.BaseURL + "/images/generations"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, "", fmt.Errorf("dalle request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("dalle http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("dalle read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("dalle API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result dalleResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, "", fmt.Errorf("dalle unmarshal: %w", err)
	}
	if len(result.Data) == 0 || result.Data[0].URL == "" {
		return nil, "", fmt.Errorf("dalle: no image returned")
	}

	return downloadImage(ctx, p.client, result.Data[0].URL)
}

type dalleRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
	N       int    `json:"n"`
}

type dalleResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// --- fal.ai nano-banana ---

// falProvider generates images via fal.ai's synchronous run endpoint
// (POST /fal-ai/nano-banana). Nano-banana trades some quality for
// much faster generation.
type falProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewNanoBanana creates a fal.ai nano-banana image provider. Returns nil
// if no API key is configured.
func NewNanoBanana(apiKey, baseURL string) ImageProvider {
	if apiKey == "" {
		return nil
	}
	if baseURL == "" {
		baseURL = "https://fal.run"
	}
	return &falProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *falProvider) Name() string { return ImageProviderNanoBanana }

func (p *falProvider) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	// Nano-banana works best with shorter prompts.
	if len(prompt) > 2000 {
		prompt = prompt[:2000]
	}

	body := falRequest{
		Prompt:            prompt,
		ImageSize:         "square_hd",
		NumInferenceSteps: 4,
		NumImages:         1,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("fal marshal: %w", err)
	}

	url := p.baseURL + "/fal-ai/nano-banana"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, "", fmt.Errorf("fal request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fal http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("fal read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fal API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result falResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, "", fmt.Errorf("fal unmarshal: %w", err)
	}
	if len(result.Images) == 0 || result.Images[0].URL == "" {
		return nil, "", fmt.Errorf("fal: no image returned")
	}

	return downloadImage(ctx, p.client, result.Images[0].URL)
}

type falRequest struct {
	Prompt            string `json:"prompt"`
	ImageSize         string `json:"image_size"`
	NumInferenceSteps int    `json:"num_inference_steps"`
	NumImages         int    `json:"num_images"`
}

type falResponse struct {
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
}

// downloadImage fetches the generated image from the provider's temporary
// URL so it can be stored permanently.
func downloadImage(ctx context.Context, client *http.Client, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("image download request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("image download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image download: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("image download read: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}
	return data, contentType, nil
}
