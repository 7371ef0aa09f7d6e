//go:build !linux && !windows

package native

import (
	"fmt"
	"runtime"

	"github.com/genricoloni/nowplaying/internal/domain"
	"go.uber.org/zap"
)

func newPlatform(_ *zap.Logger, _ domain.Config) (domain.Controls, domain.ArtworkBackend, error) {
	return nil, nil, fmt.Errorf("%w: no transport controls on %s", domain.ErrUnavailable, runtime.GOOS)
}
