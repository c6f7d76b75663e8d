// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"postpilot/internal/models"
)

// containerPollAttempts bounds how long we wait for Instagram to process
// an uploaded media container before publishing it.
const containerPollAttempts = 20

// InstagramGateway posts to an Instagram business account through the
// Graph API's two-step container flow: create a media container from a
// public image URL, wait for processing, then publish it. Instagram
// requires an image; text-only posts are not supported.
type InstagramGateway struct {
	creds    *Resolver
	baseURL  string
	client   *http.Client
	pollWait time.Duration
}

// NewInstagram creates an Instagram gateway against the given Graph API
// base URL.
func NewInstagram(creds *Resolver, baseURL string) *InstagramGateway {
	return &InstagramGateway{
		creds:    creds,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: 60 * time.Second},
		pollWait: time.Second,
	}
}

func (g *InstagramGateway) Platform() models.Platform { return models.PlatformInstagram }

func (g *InstagramGateway) Publish(ctx context.Context, req PostRequest) (*PostResult, error) {
	accountID := g.creds.Value(models.PlatformInstagram, "account_id")
	token := g.creds.Value(models.PlatformInstagram, "access_token")
	if accountID == "" {
		return nil, fmt.Errorf("instagram: account id not configured")
	}
	if token == "" {
		return nil, fmt.Errorf("instagram: access token not configured")
	}
	if req.ImageURL == "" {
		return nil, fmt.Errorf("instagram: an image is required")
	}

	// Step 1: create the media container.
	form := url.Values{
		"image_url":    {req.ImageURL},
		"caption":      {req.Caption},
		"access_token": {token},
	}
	body, err := g.postForm(ctx, fmt.Sprintf("%s/%s/media", g.baseURL, accountID), form)
	if err != nil {
		return nil, fmt.Errorf("instagram create container: %w", err)
	}

	var container struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &container); err != nil {
		return nil, fmt.Errorf("instagram unmarshal: %w", err)
	}
	if container.ID == "" {
		return nil, fmt.Errorf("instagram: no container id returned")
	}

	// Step 2: wait for Instagram to finish processing the image.
	if err := g.waitForContainer(ctx, container.ID, token); err != nil {
		return nil, err
	}

	// Step 3: publish the container.
	form = url.Values{
		"creation_id":  {container.ID},
		"access_token": {token},
	}
	body, err = g.postForm(ctx, fmt.Sprintf("%s/%s/media_publish", g.baseURL, accountID), form)
	if err != nil {
		return nil, fmt.Errorf("instagram publish container: %w", err)
	}

	var published struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &published); err != nil {
		return nil, fmt.Errorf("instagram unmarshal: %w", err)
	}
	if published.ID == "" {
		return nil, fmt.Errorf("instagram: no media id returned")
	}

	// Instagram does not return a direct permalink from this endpoint.
	return &PostResult{PostID: published.ID}, nil
}

func (g *InstagramGateway) waitForContainer(ctx context.Context, containerID, token string) error {
	for i := 0; i < containerPollAttempts; i++ {
		endpoint := fmt.Sprintf("%s/%s?fields=status_code&access_token=%s",
			g.baseURL, containerID, url.QueryEscape(token))
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("instagram request: %w", err)
		}

		resp, err := g.client.Do(req)
		if err != nil {
			return fmt.Errorf("instagram http: %w", err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("instagram read body: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("instagram container status (status %d): %s", resp.StatusCode, string(body))
		}

		var status struct {
			StatusCode string `json:"status_code"`
		}
		if err := json.Unmarshal(body, &status); err != nil {
			return fmt.Errorf("instagram unmarshal: %w", err)
		}

		switch status.StatusCode {
		case "FINISHED":
			return nil
		case "ERROR", "FAILED":
			return fmt.Errorf("instagram: media processing failed: %s", status.StatusCode)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(g.pollWait):
		}
	}
	return fmt.Errorf("instagram: media processing timed out")
}

func (g *InstagramGateway) postForm(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("instagram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("instagram http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("instagram read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("instagram API error (status %d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}
