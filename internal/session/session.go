package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/genricoloni/nowplaying/internal/convert"
	"github.com/genricoloni/nowplaying/internal/domain"
	"go.uber.org/zap"
)

// ArtworkResolver turns a thumbnail reference into a native stream reference.
// It returns nil when the reference cannot be resolved.
type ArtworkResolver interface {
	Resolve(ctx context.Context, ref string) domain.Thumbnail
}

// Option configures a Handle at creation
type Option func(*options)

type options struct {
	enabled bool
}

// WithEnabled sets whether the session starts visible to the OS
func WithEnabled(enabled bool) Option {
	return func(o *options) {
		o.enabled = enabled
	}
}

// Handle is the single owner of the native transport controls.
// Update methods are synchronous; concurrent callers are serialised and the
// last write wins.
type Handle struct {
	logger   *zap.Logger
	controls domain.Controls
	resolver ArtworkResolver

	mu     sync.Mutex
	closed bool
}

// capabilityOrder is the fixed order in which capability flags are written
var capabilityOrder = []struct {
	button domain.NativeButton
	flag   func(domain.CapabilityConfig) bool
}{
	{domain.ButtonPlay, func(c domain.CapabilityConfig) bool { return c.PlayEnabled }},
	{domain.ButtonPause, func(c domain.CapabilityConfig) bool { return c.PauseEnabled }},
	{domain.ButtonNext, func(c domain.CapabilityConfig) bool { return c.NextEnabled }},
	{domain.ButtonPrevious, func(c domain.CapabilityConfig) bool { return c.PreviousEnabled }},
	{domain.ButtonFastForward, func(c domain.CapabilityConfig) bool { return c.FastForwardEnabled }},
	{domain.ButtonRewind, func(c domain.CapabilityConfig) bool { return c.RewindEnabled }},
	{domain.ButtonStop, func(c domain.CapabilityConfig) bool { return c.StopEnabled }},
}

// New takes ownership of controls, turns off the OS automatic command
// management and sets the initial enabled state (true unless WithEnabled(false)).
func New(logger *zap.Logger, controls domain.Controls, resolver ArtworkResolver, opts ...Option) (*Handle, error) {
	if controls == nil {
		return nil, fmt.Errorf("create session: %w", domain.ErrUnavailable)
	}

	o := options{enabled: true}
	for _, opt := range opts {
		opt(&o)
	}

	if err := controls.SetAutoManagement(false); err != nil {
		return nil, fmt.Errorf("disable command auto-management: %w", err)
	}
	if err := controls.SetEnabled(o.enabled); err != nil {
		return nil, fmt.Errorf("set initial enabled state: %w", err)
	}

	logger.Info("Media session created", zap.Bool("enabled", o.enabled))

	return &Handle{
		logger:   logger,
		controls: controls,
		resolver: resolver,
	}, nil
}

// Controls returns the native object so the event bridge can install handlers on it
func (h *Handle) Controls() domain.Controls {
	return h.controls
}

// lock acquires the handle, failing once it has been closed
func (h *Handle) lock() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return domain.ErrClosed
	}
	return nil
}

// ApplyCapabilityConfig writes all seven capability flags. The first failing
// write aborts the call; flags already written are not rolled back.
func (h *Handle) ApplyCapabilityConfig(cfg domain.CapabilityConfig) error {
	if err := h.lock(); err != nil {
		return err
	}
	defer h.mu.Unlock()

	for _, c := range capabilityOrder {
		if err := h.controls.SetButtonEnabled(c.button, c.flag(cfg)); err != nil {
			return fmt.Errorf("set capability for button %d: %w", c.button, err)
		}
	}

	h.logger.Debug("Capabilities applied", zap.Any("config", cfg))
	return nil
}

// ApplyMetadata replaces the published metadata. Fields left nil stay cleared.
// A thumbnail that cannot be resolved is cleared without failing the update.
func (h *Handle) ApplyMetadata(ctx context.Context, meta domain.MusicMetadata, appID *string) error {
	if err := h.lock(); err != nil {
		return err
	}
	defer h.mu.Unlock()

	if err := h.controls.ClearDisplay(); err != nil {
		return fmt.Errorf("clear display: %w", err)
	}

	if appID != nil {
		if err := h.controls.SetAppMediaID(*appID); err != nil {
			return fmt.Errorf("set app media id: %w", err)
		}
	}

	if err := h.controls.SetPlaybackType(domain.MediaTypeMusic); err != nil {
		return fmt.Errorf("set playback type: %w", err)
	}

	fields := []struct {
		field domain.MusicField
		value *string
	}{
		{domain.FieldArtist, meta.Artist},
		{domain.FieldAlbum, meta.Album},
		{domain.FieldTitle, meta.Title},
		{domain.FieldAlbumArtist, meta.AlbumArtist},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if err := h.controls.SetMusicProperty(f.field, *f.value); err != nil {
			return fmt.Errorf("set music property %d: %w", f.field, err)
		}
	}

	var thumb domain.Thumbnail
	if meta.Thumbnail != nil && h.resolver != nil {
		thumb = h.resolver.Resolve(ctx, *meta.Thumbnail)
	}
	if err := h.controls.SetThumbnail(thumb); err != nil {
		return fmt.Errorf("set thumbnail: %w", err)
	}

	if err := h.controls.CommitDisplay(); err != nil {
		return fmt.Errorf("commit display: %w", err)
	}

	h.logger.Debug("Metadata applied",
		zap.Stringp("title", meta.Title),
		zap.Stringp("artist", meta.Artist),
		zap.Bool("thumbnail", thumb != nil))
	return nil
}

// ClearMetadata removes all published metadata
func (h *Handle) ClearMetadata() error {
	if err := h.lock(); err != nil {
		return err
	}
	defer h.mu.Unlock()

	if err := h.controls.ClearDisplay(); err != nil {
		return fmt.Errorf("clear display: %w", err)
	}
	if err := h.controls.CommitDisplay(); err != nil {
		return fmt.Errorf("commit display: %w", err)
	}

	h.logger.Debug("Metadata cleared")
	return nil
}

// ApplyTimeline publishes the timeline. Timelines breaking
// MinSeekMs <= PositionMs <= MaxSeekMs are rejected, never clamped.
func (h *Handle) ApplyTimeline(t domain.PlaybackTimeline) error {
	native, err := convert.ToNativeTimeline(t)
	if err != nil {
		return err
	}

	if err := h.lock(); err != nil {
		return err
	}
	defer h.mu.Unlock()

	if err := h.controls.UpdateTimeline(native); err != nil {
		return fmt.Errorf("update timeline: %w", err)
	}

	h.logger.Debug("Timeline applied",
		zap.Int64("positionMs", t.PositionMs),
		zap.Int64("maxSeekMs", t.MaxSeekMs))
	return nil
}

// ApplyPlaybackStatus publishes the playback status
func (h *Handle) ApplyPlaybackStatus(s domain.PlaybackStatus) error {
	if err := h.lock(); err != nil {
		return err
	}
	defer h.mu.Unlock()

	if err := h.controls.SetPlaybackStatus(convert.ToNativeStatus(s)); err != nil {
		return fmt.Errorf("set playback status %s: %w", s, err)
	}

	h.logger.Debug("Playback status applied", zap.Stringer("status", s))
	return nil
}

// ApplyShuffle publishes the shuffle state
func (h *Handle) ApplyShuffle(enabled bool) error {
	if err := h.lock(); err != nil {
		return err
	}
	defer h.mu.Unlock()

	if err := h.controls.SetShuffle(enabled); err != nil {
		return fmt.Errorf("set shuffle: %w", err)
	}

	h.logger.Debug("Shuffle applied", zap.Bool("enabled", enabled))
	return nil
}

// ApplyRepeatMode publishes the repeat mode. Strings other than "none",
// "track" and "list" are published as "none".
func (h *Handle) ApplyRepeatMode(mode string) error {
	if err := h.lock(); err != nil {
		return err
	}
	defer h.mu.Unlock()

	if err := h.controls.SetRepeatMode(convert.ToNativeRepeatMode(mode)); err != nil {
		return fmt.Errorf("set repeat mode: %w", err)
	}

	h.logger.Debug("Repeat mode applied",
		zap.String("requested", mode),
		zap.String("applied", string(domain.ParseRepeatMode(mode))))
	return nil
}

// Enable makes the session visible to the OS
func (h *Handle) Enable() error {
	return h.setEnabled(true)
}

// Disable hides the session from the OS
func (h *Handle) Disable() error {
	return h.setEnabled(false)
}

func (h *Handle) setEnabled(enabled bool) error {
	if err := h.lock(); err != nil {
		return err
	}
	defer h.mu.Unlock()

	if err := h.controls.SetEnabled(enabled); err != nil {
		return fmt.Errorf("set enabled %t: %w", enabled, err)
	}

	h.logger.Debug("Session visibility changed", zap.Bool("enabled", enabled))
	return nil
}

// Close releases the native object. Event registrations must be withdrawn first.
func (h *Handle) Close() error {
	if err := h.lock(); err != nil {
		return nil
	}
	defer h.mu.Unlock()

	h.closed = true
	if err := h.controls.Close(); err != nil {
		return fmt.Errorf("release native controls: %w", err)
	}

	h.logger.Info("Media session released")
	return nil
}
