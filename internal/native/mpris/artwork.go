package mpris

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/genricoloni/nowplaying/internal/domain"
	"go.uber.org/zap"
)

// remoteArtTimeout bounds downloads made while localizing remote artwork
const remoteArtTimeout = 10 * time.Second

// Localizer stores a local copy of remote artwork and returns its path
type Localizer interface {
	Localize(ctx context.Context, url string) (string, error)
}

// ArtworkBackend turns artwork references into mpris:artUrl values.
// Remote artwork is localized in the background: the URL is published until
// its cached copy is ready, and the copy from the following commit on.
type ArtworkBackend struct {
	logger    *zap.Logger
	localizer Localizer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	localized map[string]string
	pending   map[string]struct{}
}

// NewArtworkBackend creates a backend. When localizer is nil, remote URLs
// are published as they are.
func NewArtworkBackend(logger *zap.Logger, localizer Localizer) *ArtworkBackend {
	ctx, cancel := context.WithCancel(context.Background())
	return &ArtworkBackend{
		logger:    logger,
		localizer: localizer,
		ctx:       ctx,
		cancel:    cancel,
		localized: make(map[string]string),
		pending:   make(map[string]struct{}),
	}
}

// FromURI publishes the file URL of the cached copy of uri when there is one,
// and uri itself otherwise. It never waits for a download.
func (b *ArtworkBackend) FromURI(uri string) (domain.Thumbnail, error) {
	if b.localizer == nil {
		return uri, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if path, ok := b.localized[uri]; ok {
		return fileURL(path), nil
	}
	if _, ok := b.pending[uri]; !ok && b.ctx.Err() == nil {
		b.pending[uri] = struct{}{}
		b.wg.Add(1)
		go b.localize(uri)
	}
	return uri, nil
}

func (b *ArtworkBackend) localize(uri string) {
	defer b.wg.Done()

	ctx, cancel := context.WithTimeout(b.ctx, remoteArtTimeout)
	defer cancel()

	path, err := b.localizer.Localize(ctx, uri)

	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pending, uri)
	if err != nil {
		// Retried on the next commit that names uri
		b.logger.Warn("Failed to cache remote artwork", zap.String("url", uri), zap.Error(err))
		return
	}
	b.localized[uri] = path
}

// Close cancels pending downloads and waits for them
func (b *ArtworkBackend) Close() error {
	b.mu.Lock()
	b.cancel()
	b.mu.Unlock()

	b.wg.Wait()
	return nil
}

// LookupFile checks that path names a regular file, giving up when ctx is done
func (b *ArtworkBackend) LookupFile(ctx context.Context, path string) (domain.FileRef, error) {
	type result struct {
		abs string
		err error
	}
	done := make(chan result, 1)

	go func() {
		abs, err := filepath.Abs(path)
		if err != nil {
			done <- result{err: err}
			return
		}
		info, err := os.Stat(abs)
		if err == nil && !info.Mode().IsRegular() {
			err = fmt.Errorf("%s is not a regular file", abs)
		}
		done <- result{abs: abs, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		return r.abs, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *ArtworkBackend) FromFile(file domain.FileRef) (domain.Thumbnail, error) {
	path, ok := file.(string)
	if !ok {
		return nil, errors.New("unexpected file reference")
	}
	return fileURL(path), nil
}

func fileURL(path string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}
