package native

import (
	"fmt"
	"strings"

	"github.com/genricoloni/nowplaying/internal/domain"
	"github.com/genricoloni/nowplaying/internal/native/memory"
	"go.uber.org/zap"
)

const (
	// BackendAuto picks the backend of the running platform
	BackendAuto = "auto"
	// BackendMemory keeps every property in process; it works everywhere
	BackendMemory = "memory"
)

// New creates the controls and artwork backend selected by cfg
func New(logger *zap.Logger, cfg domain.Config) (domain.Controls, domain.ArtworkBackend, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.GetBackend()))

	switch backend {
	case BackendMemory:
		logger.Info("Using in-memory transport controls")
		return memory.NewControls(logger), memory.NewArtworkBackend(), nil
	case BackendAuto, "":
		controls, art, err := newPlatform(logger, cfg)
		if err != nil {
			return nil, nil, err
		}
		return controls, art, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.GetBackend())
	}
}
