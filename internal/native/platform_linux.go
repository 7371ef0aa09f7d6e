//go:build linux

package native

import (
	"github.com/genricoloni/nowplaying/internal/artwork"
	"github.com/genricoloni/nowplaying/internal/domain"
	"github.com/genricoloni/nowplaying/internal/native/mpris"
	"go.uber.org/zap"
)

func newPlatform(logger *zap.Logger, cfg domain.Config) (domain.Controls, domain.ArtworkBackend, error) {
	controls, err := mpris.Connect(logger, cfg.GetIdentity(), cfg.GetBusName())
	if err != nil {
		return nil, nil, err
	}

	var localizer mpris.Localizer
	if cfg.GetCacheRemoteArt() {
		localizer = artwork.NewCache(
			logger,
			artwork.NewFetcher(logger),
			artwork.NewThumbnailer(logger, cfg.GetMaxArtSize()),
			cfg.GetCacheDir(),
		)
	}

	logger.Info("Using MPRIS transport controls",
		zap.String("identity", cfg.GetIdentity()),
		zap.Bool("cacheRemoteArt", cfg.GetCacheRemoteArt()))
	return controls, mpris.NewArtworkBackend(logger, localizer), nil
}
