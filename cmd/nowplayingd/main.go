package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/genricoloni/nowplaying/internal/artwork"
	"github.com/genricoloni/nowplaying/internal/bridge"
	"github.com/genricoloni/nowplaying/internal/config"
	"github.com/genricoloni/nowplaying/internal/domain"
	"github.com/genricoloni/nowplaying/internal/engine"
	"github.com/genricoloni/nowplaying/internal/native"
	"github.com/genricoloni/nowplaying/internal/session"
	"github.com/genricoloni/nowplaying/internal/sink"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// track is the optional track published at startup
type track struct {
	meta       domain.MusicMetadata
	durationMs int64
}

var (
	titleFlag    string
	artistFlag   string
	albumFlag    string
	artFlag      string
	durationFlag int64
)

func init() {
	flag.StringVar(&titleFlag, "title", "", "Title of the track to publish at startup")
	flag.StringVar(&artistFlag, "artist", "", "Artist of the startup track")
	flag.StringVar(&albumFlag, "album", "", "Album of the startup track")
	flag.StringVar(&artFlag, "art", "", "Artwork URL or local path of the startup track")
	flag.Int64Var(&durationFlag, "duration", 0, "Duration of the startup track in milliseconds")
}

// AppOptions is the dependency graph of the daemon
var AppOptions = fx.Options(
	fx.Provide(
		newLogger,
		config.NewAppConfig,
		func(c *config.AppConfig) domain.Config { return c },
		newStartupTrack,
		newNative,
		newResolver,
		newSession,
		newSinks,
		bridge.New,
		newEngine,
	),
	fx.Invoke(registerHooks),
)

func main() {
	flag.Parse()

	app := fx.New(
		// Logger configuration
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		AppOptions,
	)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		panic(err)
	}

	<-ctx.Done()

	if err := app.Stop(context.Background()); err != nil {
		panic(err)
	}
}

// newLogger creates a new zap logger instance
func newLogger() (*zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

func newStartupTrack() *track {
	if titleFlag == "" {
		return nil
	}
	t := &track{
		meta:       domain.MusicMetadata{Title: domain.Some(titleFlag)},
		durationMs: durationFlag,
	}
	if artistFlag != "" {
		t.meta.Artist = domain.Some(artistFlag)
	}
	if albumFlag != "" {
		t.meta.Album = domain.Some(albumFlag)
	}
	if artFlag != "" {
		t.meta.Thumbnail = domain.Some(artFlag)
	}
	return t
}

func newNative(logger *zap.Logger, cfg domain.Config) (domain.Controls, domain.ArtworkBackend, error) {
	return native.New(logger, cfg)
}

func newResolver(logger *zap.Logger, cfg domain.Config, backend domain.ArtworkBackend) session.ArtworkResolver {
	return artwork.NewResolver(logger, backend, cfg.GetLookupTimeout())
}

func newSession(logger *zap.Logger, cfg domain.Config, controls domain.Controls, resolver session.ArtworkResolver) (*session.Handle, error) {
	return session.New(logger, controls, resolver, session.WithEnabled(cfg.GetEnabled()))
}

func newSinks(logger *zap.Logger, cfg domain.Config) *sink.Set {
	return sink.NewSet(logger, cfg.GetSinkBuffer())
}

func newEngine(logger *zap.Logger, cfg *config.AppConfig, h *session.Handle, sinks *sink.Set) *engine.Engine {
	return engine.NewEngine(logger, cfg, h, sinks, cfg.CapabilityChanges())
}

// registerHooks sets up application lifecycle hooks. Shutdown withdraws the
// event handlers before the session releases the native controls.
func registerHooks(
	lc fx.Lifecycle,
	logger *zap.Logger,
	h *session.Handle,
	b *bridge.Bridge,
	sinks *sink.Set,
	e *engine.Engine,
	art domain.ArtworkBackend,
	startup *track,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			err := multierr.Combine(
				b.OnButtonPressed(sinks.Buttons),
				b.OnPositionChangeRequested(sinks.Positions),
				b.OnShuffleRequested(sinks.Shuffle),
				b.OnRepeatModeRequested(sinks.RepeatMode),
			)
			if err != nil {
				return multierr.Append(err, multierr.Combine(b.Close(), h.Close()))
			}
			if err := e.Start(ctx); err != nil {
				return multierr.Append(err, multierr.Combine(b.Close(), h.Close()))
			}
			if startup != nil {
				if err := e.Load(ctx, startup.meta, startup.durationMs); err != nil {
					logger.Warn("Failed to publish startup track", zap.Error(err))
				}
			}
			logger.Info("Now Playing Daemon Started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			err := multierr.Combine(
				e.Stop(ctx),
				b.Close(),
			)
			sinks.Close()
			err = multierr.Append(err, h.Close())
			if c, ok := art.(io.Closer); ok {
				err = multierr.Append(err, c.Close())
			}
			return err
		},
	})
}
