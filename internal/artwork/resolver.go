package artwork

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/genricoloni/nowplaying/internal/domain"
	"go.uber.org/zap"
)

// DefaultLookupTimeout bounds local file lookups when no timeout is configured
const DefaultLookupTimeout = 5 * time.Second

// Resolver resolves thumbnail references on a best-effort basis.
// It never returns an error: any failure yields a nil thumbnail.
type Resolver struct {
	logger        *zap.Logger
	backend       domain.ArtworkBackend
	lookupTimeout time.Duration
}

// NewResolver creates a resolver over a native artwork backend.
// A zero lookupTimeout leaves local lookups unbounded.
func NewResolver(logger *zap.Logger, backend domain.ArtworkBackend, lookupTimeout time.Duration) *Resolver {
	return &Resolver{
		logger:        logger,
		backend:       backend,
		lookupTimeout: lookupTimeout,
	}
}

// Resolve returns a stream reference for ref, or nil if it cannot be resolved.
// References starting with "http" are treated as URLs, everything else as a
// local path.
func (r *Resolver) Resolve(ctx context.Context, ref string) (thumb domain.Thumbnail) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Warn("Artwork backend panicked, clearing thumbnail",
				zap.String("ref", ref),
				zap.Any("panic", p))
			thumb = nil
		}
	}()

	if r.backend == nil {
		return nil
	}

	var err error
	if strings.HasPrefix(ref, "http") {
		thumb, err = r.backend.FromURI(ref)
	} else {
		thumb, err = r.resolveFile(ctx, ref)
	}

	if err != nil {
		r.logger.Warn("Failed to resolve artwork, clearing thumbnail",
			zap.String("ref", ref),
			zap.Error(err))
		return nil
	}

	r.logger.Debug("Artwork resolved", zap.String("ref", ref))
	return thumb
}

// resolveFile performs the blocking storage lookup, bounded by lookupTimeout
func (r *Resolver) resolveFile(ctx context.Context, path string) (domain.Thumbnail, error) {
	if r.lookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.lookupTimeout)
		defer cancel()
	}

	file, err := r.backend.LookupFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("file lookup failed: %w", err)
	}

	return r.backend.FromFile(file)
}
