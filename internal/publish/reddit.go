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

// redditTitleMax is Reddit's submission title limit.
const redditTitleMax = 300

// redditUserAgent identifies the app per Reddit API rules.
const redditUserAgent = "postpilot/1.0"

// RedditGateway submits posts to a subreddit using the script-app OAuth
// password grant: exchange client credentials plus username/password for
// a token, then call /api/submit. With an image the submission is a link
// post to the image URL; without one it is a self post.
type RedditGateway struct {
	creds    *Resolver
	authURL  string
	oauthURL string
	client   *http.Client
}

// NewReddit creates a Reddit gateway. The URL parameters default to the
// real endpoints when empty.
func NewReddit(creds *Resolver, authURL, oauthURL string) *RedditGateway {
	if authURL == "" {
		authURL = "https://www.reddit.com"
	}
	if oauthURL == "" {
		oauthURL = "https://oauth.reddit.com"
	}
	return &RedditGateway{
		creds:    creds,
		authURL:  authURL,
		oauthURL: oauthURL,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *RedditGateway) Platform() models.Platform { return models.PlatformReddit }

func (g *RedditGateway) Publish(ctx context.Context, req PostRequest) (*PostResult, error) {
	clientID := g.creds.Value(models.PlatformReddit, "client_id")
	clientSecret := g.creds.Value(models.PlatformReddit, "client_secret")
	username := g.creds.Value(models.PlatformReddit, "username")
	password := g.creds.Value(models.PlatformReddit, "password")
	subreddit := g.creds.Value(models.PlatformReddit, "subreddit")
	if clientID == "" || clientSecret == "" || username == "" || password == "" {
		return nil, fmt.Errorf("reddit: credentials not configured")
	}
	if subreddit == "" {
		return nil, fmt.Errorf("reddit: subreddit not configured")
	}

	token, err := g.accessToken(ctx, clientID, clientSecret, username, password)
	if err != nil {
		return nil, err
	}

	title := req.Caption
	if title == "" {
		title = "Untitled post"
	}
	if len([]rune(title)) > redditTitleMax {
		title = string([]rune(title)[:redditTitleMax])
	}

	form := url.Values{
		"sr":       {subreddit},
		"title":    {title},
		"api_type": {"json"},
	}
	if req.ImageURL != "" {
		form.Set("kind", "link")
		form.Set("url", req.ImageURL)
	} else {
		form.Set("kind", "self")
		form.Set("text", req.Caption)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.oauthURL+"/api/submit", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("reddit request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("User-Agent", redditUserAgent)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("reddit http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reddit read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		JSON struct {
			Errors [][]any `json:"errors"`
			Data   struct {
				ID  string `json:"id"`
				URL string `json:"url"`
			} `json:"data"`
		} `json:"json"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("reddit unmarshal: %w", err)
	}
	if len(result.JSON.Errors) > 0 {
		return nil, fmt.Errorf("reddit submit error: %v", result.JSON.Errors[0])
	}

	return &PostResult{
		PostID: result.JSON.Data.ID,
		URL:    result.JSON.Data.URL,
	}, nil
}

// accessToken performs the password-grant token exchange.
func (g *RedditGateway) accessToken(ctx context.Context, clientID, clientSecret, username, password string) (string, error) {
	form := url.Values{
		"grant_type": {"password"},
		"username":   {username},
		"password":   {password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.authURL+"/api/v1/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("reddit auth request: %w", err)
	}
	req.SetBasicAuth(clientID, clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", redditUserAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("reddit auth http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reddit auth read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reddit auth error (status %d): %s", resp.StatusCode, string(body))
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("reddit auth unmarshal: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("reddit: no access token returned")
	}
	return token.AccessToken, nil
}
