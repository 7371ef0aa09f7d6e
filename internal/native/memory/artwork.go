package memory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/genricoloni/nowplaying/internal/domain"
)

// Strategy names the resolution path an artwork request took
type Strategy string

const (
	StrategyURI  Strategy = "uri"
	StrategyFile Strategy = "file"
)

// StreamRef is the thumbnail produced by ArtworkBackend
type StreamRef struct {
	Strategy Strategy
	Source   string
}

// ArtworkBackend resolves artwork without native APIs. Local paths are
// checked with os.Stat unless a Lookup override is set.
type ArtworkBackend struct {
	mu    sync.Mutex
	taken []Strategy

	// Lookup replaces the filesystem check when set
	Lookup func(ctx context.Context, path string) error
	// FailURIs makes every FromURI call fail
	FailURIs bool
}

// NewArtworkBackend creates a backend that checks the real filesystem
func NewArtworkBackend() *ArtworkBackend {
	return &ArtworkBackend{}
}

// Taken returns the strategies used so far, in order
func (b *ArtworkBackend) Taken() []Strategy {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Strategy(nil), b.taken...)
}

func (b *ArtworkBackend) record(s Strategy) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.taken = append(b.taken, s)
}

func (b *ArtworkBackend) FromURI(uri string) (domain.Thumbnail, error) {
	b.record(StrategyURI)
	if b.FailURIs {
		return nil, fmt.Errorf("cannot create stream for %s", uri)
	}
	return StreamRef{Strategy: StrategyURI, Source: uri}, nil
}

func (b *ArtworkBackend) LookupFile(ctx context.Context, path string) (domain.FileRef, error) {
	b.record(StrategyFile)

	if b.Lookup != nil {
		if err := b.Lookup(ctx, path); err != nil {
			return nil, err
		}
		return path, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return path, nil
}

func (b *ArtworkBackend) FromFile(file domain.FileRef) (domain.Thumbnail, error) {
	path, ok := file.(string)
	if !ok {
		return nil, errors.New("unexpected file reference")
	}
	return StreamRef{Strategy: StrategyFile, Source: path}, nil
}
