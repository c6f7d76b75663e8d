// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging normalises generated images for platform delivery
// using libvips. The image providers return PNG; the platforms fetch
// images by public URL and Instagram's Graph API only ingests JPEG, so
// every stored campaign image is converted to JPEG first.
package imaging

import (
	"fmt"
	"log/slog"

	"github.com/davidbyttow/govips/v2/vips"
)

// DefaultQuality is the JPEG export quality for campaign images.
const DefaultQuality = 85

// Startup initialises the libvips library. Call once at application start.
// concurrency controls the number of libvips worker threads (0 = auto).
func Startup(concurrency int) {
	cfg := &vips.Config{
		ConcurrencyLevel: concurrency,
		MaxCacheSize:     100,
		MaxCacheMem:      50 * 1024 * 1024, // 50 MB
	}
	vips.LoggingSettings(nil, vips.LogLevelWarning)
	vips.Startup(cfg)
	slog.Info("libvips started", "version", vips.Version)
}

// Shutdown releases libvips resources. Call at application shutdown.
func Shutdown() {
	vips.Shutdown()
}

// ToJPEG re-encodes an image as JPEG with metadata stripped. The input
// format is whatever the provider returned (PNG for DALL-E, PNG or JPEG
// for fal.ai).
func ToJPEG(original []byte, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	img, err := vips.NewImageFromBuffer(original)
	if err != nil {
		return nil, fmt.Errorf("imaging: decode failed: %w", err)
	}
	defer img.Close()

	if err := img.AutoRotate(); err != nil {
		return nil, fmt.Errorf("imaging: autorotate: %w", err)
	}

	params := vips.NewJpegExportParams()
	params.Quality = quality
	params.StripMetadata = true

	buf, _, err := img.ExportJpeg(params)
	if err != nil {
		return nil, fmt.Errorf("imaging: jpeg export: %w", err)
	}
	return buf, nil
}
