// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Media saves generated images and resolves the path handed to the
// studio and publish pipeline.
type Media interface {
	// Save stores image bytes under the given file name and returns the
	// path or URL that the rest of the app references it by.
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
	// Remove deletes a previously saved image. Unknown paths are ignored.
	Remove(ctx context.Context, path string) error
}

// S3Media stores generated images in the S3 media bucket under an
// ai_generated/ prefix.
type S3Media struct {
	client *Client
}

// NewS3Media wraps an S3 client as a Media store.
func NewS3Media(client *Client) *S3Media {
	return &S3Media{client: client}
}

func (m *S3Media) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := "ai_generated/" + name
	if err := m.client.Upload(ctx, key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return "", err
	}
	return m.client.FileURL(key), nil
}

func (m *S3Media) Remove(ctx context.Context, path string) error {
	key, ok := m.client.ExtractKey(path)
	if !ok {
		return nil
	}
	return m.client.Delete(ctx, key)
}

// LocalMedia stores generated images on local disk and serves them
// under /media/. Used in development when no object storage is configured.
type LocalMedia struct {
	dir string
}

// NewLocalMedia creates the media directory if missing.
func NewLocalMedia(dir string) (*LocalMedia, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &LocalMedia{dir: dir}, nil
}

// Dir returns the directory local images are written to.
func (m *LocalMedia) Dir() string {
	return m.dir
}

func (m *LocalMedia) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	// Ignore any path components a provider might sneak into the name.
	name = filepath.Base(name)
	if err := os.WriteFile(filepath.Join(m.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("save media %s: %w", name, err)
	}
	return "/media/" + name, nil
}

func (m *LocalMedia) Remove(ctx context.Context, path string) error {
	name := strings.TrimPrefix(path, "/media/")
	if name == path || strings.Contains(name, "/") {
		return nil
	}
	if err := os.Remove(filepath.Join(m.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove media %s: %w", name, err)
	}
	return nil
}
