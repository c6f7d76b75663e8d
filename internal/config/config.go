// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PublicURL is the externally reachable base URL of this server.
	// Platforms fetch locally stored images through it.
	PublicURL string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache + session store)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// OpenAI — caption generation, prompt enhancement, DALL-E images,
	// prompt moderation.
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	// Fal.ai — the fast "nanobanana" image provider.
	FalKey     string
	FalBaseURL string

	// S3-compatible object storage for generated images. Optional; when
	// unset, images are kept in MediaDir on the local filesystem.
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string
	MediaDir    string

	// Platform credential fallbacks. The credential store takes precedence;
	// these only seed a platform that was never configured at runtime.
	FacebookAccessToken string
	InstagramToken      string
	InstagramAccountID  string
	TwitterBearerToken  string
	RedditClientID      string
	RedditClientSecret  string
	RedditUsername      string
	RedditPassword      string
	RedditSubreddit     string
	GraphAPIVersion     string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		PublicURL: envOrDefault("APP_PUBLIC_URL", "http://localhost:8080"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "postpilot"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "postpilot"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   envOrDefault("OPENAI_MODEL", "gpt-4o"),
		OpenAIBaseURL: envOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),

		FalKey:     os.Getenv("FAL_KEY"),
		FalBaseURL: envOrDefault("FAL_BASE_URL", "https://fal.run"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "postpilot-media"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),
		MediaDir:    envOrDefault("MEDIA_DIR", "uploads/ai_generated"),

		FacebookAccessToken: os.Getenv("FACEBOOK_PAGE_ACCESS_TOKEN"),
		InstagramToken:      os.Getenv("INSTAGRAM_ACCESS_TOKEN"),
		InstagramAccountID:  os.Getenv("INSTAGRAM_ACCOUNT_ID"),
		TwitterBearerToken:  os.Getenv("TWITTER_BEARER_TOKEN"),
		RedditClientID:      os.Getenv("REDDIT_CLIENT_ID"),
		RedditClientSecret:  os.Getenv("REDDIT_CLIENT_SECRET"),
		RedditUsername:      os.Getenv("REDDIT_USERNAME"),
		RedditPassword:      os.Getenv("REDDIT_PASSWORD"),
		RedditSubreddit:     envOrDefault("REDDIT_SUBREDDIT", "test"),
		GraphAPIVersion:     envOrDefault("GRAPH_API_VERSION", "v18.0"),
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// GraphURL returns the Facebook Graph API base URL for the configured version.
func (c *Config) GraphURL() string {
	return "https://graph.facebook.com/" + c.GraphAPIVersion
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// S3Configured reports whether object storage credentials are present.
func (c *Config) S3Configured() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
