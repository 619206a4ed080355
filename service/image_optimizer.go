package service

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"
)

const (
	// Size settings (max dimension)
	maxSizeThumb  = 96
	maxSizeMedium = 256
)

// ThumbnailSize maps a size name to its max dimension.
// Unknown names fall back to thumb.
func ThumbnailSize(size string) int {
	switch size {
	case "thumb", "":
		return maxSizeThumb
	case "medium":
		return maxSizeMedium
	}
	if n, err := strconv.Atoi(size); err == nil && n > 0 && n <= 1024 {
		return n
	}
	log.Printf("⚠️  Unknown size '%s', defaulting to thumb", size)
	return maxSizeThumb
}

// ImageOptimizer produces downscaled PNG previews of assets for the picker
// grid and keeps them in a disk cache
type ImageOptimizer struct {
	loader   AssetLoaderInterface
	cacheDir string
}

// NewImageOptimizer creates an optimizer caching under cacheDir
func NewImageOptimizer(loader AssetLoaderInterface, cacheDir string) *ImageOptimizer {
	return &ImageOptimizer{loader: loader, cacheDir: cacheDir}
}

// EnsureCacheDir ensures the cache directory exists, creates it if it doesn't
func (o *ImageOptimizer) EnsureCacheDir() error {
	if err := os.MkdirAll(o.cacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	return nil
}

// CachePath returns the cache file path for an asset reference and max dimension
func (o *ImageOptimizer) CachePath(src string, maxDim int) string {
	sum := sha1.Sum([]byte(src))
	filename := fmt.Sprintf("thumb_%s_%d.png", hex.EncodeToString(sum[:8]), maxDim)
	return filepath.Join(o.cacheDir, filename)
}

// Thumbnail returns PNG bytes of src fitted into maxDim x maxDim.
// Images already small enough are re-encoded unscaled.
func (o *ImageOptimizer) Thumbnail(ctx context.Context, src string, maxDim int) ([]byte, error) {
	cachePath := o.CachePath(src, maxDim)
	if data, err := os.ReadFile(cachePath); err == nil {
		return data, nil
	}

	img, err := o.loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	fitted := img
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		log.Printf("🔄 Resizing %s: %dx%d -> fit %d", src, bounds.Dx(), bounds.Dy(), maxDim)
		// Nearest neighbour keeps pixel-art edges sharp
		fitted = imaging.Fit(img, maxDim, maxDim, imaging.NearestNeighbor)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, fitted); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	data := buf.Bytes()

	if err := o.saveToCache(cachePath, data); err != nil {
		log.Printf("⚠️  %v", err)
	}
	return data, nil
}

// saveToCache saves a thumbnail to the cache
func (o *ImageOptimizer) saveToCache(cachePath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(cachePath), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(cachePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Printf("✓ Thumbnail cached: %s", cachePath)
	return nil
}

// Forget drops every cached thumbnail, logging failures
func (o *ImageOptimizer) Forget() {
	if err := o.Purge(); err != nil {
		log.Printf("⚠️  %v", err)
	}
}

// Purge removes every cached thumbnail
func (o *ImageOptimizer) Purge() error {
	if err := os.RemoveAll(o.cacheDir); err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return o.EnsureCacheDir()
}
