// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"postpilot/internal/models"
)

// tweetMaxLength is Twitter's hard character limit.
const tweetMaxLength = 280

// TwitterGateway posts tweets via the v2 API (POST /2/tweets) with a
// bearer token. Tweets are text-only; the generated image is referenced
// by the other platforms.
type TwitterGateway struct {
	creds   *Resolver
	baseURL string
	client  *http.Client
}

// NewTwitter creates a Twitter gateway. baseURL defaults to the real API
// when empty.
func NewTwitter(creds *Resolver, baseURL string) *TwitterGateway {
	if baseURL == "" {
		baseURL = "https://api.twitter.com"
	}
	return &TwitterGateway{
		creds:   creds,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *TwitterGateway) Platform() models.Platform { return models.PlatformTwitter }

func (g *TwitterGateway) Publish(ctx context.Context, req PostRequest) (*PostResult, error) {
	token := g.creds.Value(models.PlatformTwitter, "bearer_token")
	if token == "" {
		return nil, fmt.Errorf("twitter: bearer token not configured")
	}

	text := req.Caption
	if len([]rune(text)) > tweetMaxLength {
		text = string([]rune(text)[:tweetMaxLength])
	}

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("twitter marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/2/tweets", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("twitter request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("twitter http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("twitter read body: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("twitter API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("twitter unmarshal: %w", err)
	}
	if result.Data.ID == "" {
		return nil, fmt.Errorf("twitter: no tweet id returned")
	}

	return &PostResult{
		PostID: result.Data.ID,
		URL:    "https://twitter.com/i/web/status/" + result.Data.ID,
	}, nil
}
