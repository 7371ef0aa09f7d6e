package artwork

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Cache stores downsized copies of remote artwork on disk, for OS surfaces
// that only display local images
type Cache struct {
	logger      *zap.Logger
	fetcher     *Fetcher
	thumbnailer *Thumbnailer
	dir         string
}

// NewCache creates a cache writing into dir
func NewCache(logger *zap.Logger, fetcher *Fetcher, thumbnailer *Thumbnailer, dir string) *Cache {
	return &Cache{
		logger:      logger,
		fetcher:     fetcher,
		thumbnailer: thumbnailer,
		dir:         dir,
	}
}

// Localize returns the absolute path of a cached copy of url, downloading it
// on first use
func (c *Cache) Localize(ctx context.Context, url string) (string, error) {
	sum := sha1.Sum([]byte(url))
	path := filepath.Join(c.dir, hex.EncodeToString(sum[:])+".jpg")

	if _, err := os.Stat(path); err == nil {
		c.logger.Debug("Artwork cache hit", zap.String("url", url), zap.String("path", path))
		return filepath.Abs(path)
	}

	data, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}

	thumb, err := c.thumbnailer.Process(data)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	// Write to a temp file first so readers never see a partial image
	tmp, err := os.CreateTemp(c.dir, "art-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create cache file: %w", err)
	}
	if _, err := tmp.Write(thumb); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to store cache file: %w", err)
	}

	c.logger.Info("Artwork cached", zap.String("url", url), zap.String("path", path))
	return filepath.Abs(path)
}
