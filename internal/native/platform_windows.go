//go:build windows

package native

import (
	"github.com/genricoloni/nowplaying/internal/domain"
	"github.com/genricoloni/nowplaying/internal/native/smtc"
	"go.uber.org/zap"
)

func newPlatform(logger *zap.Logger, _ domain.Config) (domain.Controls, domain.ArtworkBackend, error) {
	controls, err := smtc.NewControls(logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Using Windows transport controls")
	return controls, smtc.NewArtworkBackend(logger), nil
}
