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

// FacebookGateway posts to a Facebook Page via the Graph API. The page
// ID is resolved from the access token on each publish so the gateway
// works with whatever page the token belongs to.
type FacebookGateway struct {
	creds   *Resolver
	baseURL string
	client  *http.Client
}

// NewFacebook creates a Facebook gateway against the given Graph API
// base URL (e.g. https://graph.facebook.com/v18.0).
func NewFacebook(creds *Resolver, baseURL string) *FacebookGateway {
	return &FacebookGateway{
		creds:   creds,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *FacebookGateway) Platform() models.Platform { return models.PlatformFacebook }

func (g *FacebookGateway) Publish(ctx context.Context, req PostRequest) (*PostResult, error) {
	token := g.creds.Value(models.PlatformFacebook, "access_token")
	if token == "" {
		return nil, fmt.Errorf("facebook: access token not configured")
	}

	pageID, err := g.pageID(ctx, token)
	if err != nil {
		return nil, err
	}

	// Photo post when an image is available, plain feed post otherwise.
	var endpoint string
	form := url.Values{"access_token": {token}}
	if req.ImageURL != "" {
		endpoint = fmt.Sprintf("%s/%s/photos", g.baseURL, pageID)
		form.Set("url", req.ImageURL)
		form.Set("message", req.Caption)
	} else {
		endpoint = fmt.Sprintf("%s/%s/feed", g.baseURL, pageID)
		form.Set("message", req.Caption)
	}

	body, err := g.postForm(ctx, endpoint, form)
	if err != nil {
		return nil, err
	}

	var result struct {
		ID     string `json:"id"`
		PostID string `json:"post_id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("facebook unmarshal: %w", err)
	}

	postID := result.PostID
	if postID == "" {
		postID = result.ID
	}
	if postID == "" {
		return nil, fmt.Errorf("facebook: no post id returned")
	}

	return &PostResult{
		PostID: postID,
		URL:    fmt.Sprintf("https://www.facebook.com/%s/posts/%s", pageID, postID),
	}, nil
}

// pageID resolves the page behind the access token via GET /me.
func (g *FacebookGateway) pageID(ctx context.Context, token string) (string, error) {
	endpoint := fmt.Sprintf("%s/me?access_token=%s", g.baseURL, url.QueryEscape(token))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("facebook request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("facebook http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("facebook read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("facebook: invalid access token (status %d): %s", resp.StatusCode, string(body))
	}

	var me struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &me); err != nil {
		return "", fmt.Errorf("facebook unmarshal: %w", err)
	}
	if me.ID == "" {
		return "", fmt.Errorf("facebook: no page id for token")
	}
	return me.ID, nil
}

func (g *FacebookGateway) postForm(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("facebook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("facebook http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("facebook read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("facebook API error (status %d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}
