package engine

import (
	"context"
	"sync"
	"time"

	"github.com/genricoloni/nowplaying/internal/domain"
	"github.com/genricoloni/nowplaying/internal/sink"
	"go.uber.org/zap"
)

const (
	// DefaultDebounce is how long seek requests must settle before the
	// timeline is republished
	DefaultDebounce = 500 * time.Millisecond

	// skipStep is how far fast-forward and rewind move the position
	skipStep int64 = 10_000
)

// Session is the part of the session handle the engine drives
type Session interface {
	ApplyCapabilityConfig(cfg domain.CapabilityConfig) error
	ApplyMetadata(ctx context.Context, meta domain.MusicMetadata, appID *string) error
	ApplyTimeline(t domain.PlaybackTimeline) error
	ApplyPlaybackStatus(s domain.PlaybackStatus) error
	ApplyShuffle(enabled bool) error
	ApplyRepeatMode(mode string) error
}

// Option configures an Engine
type Option func(*Engine)

// WithDebounce overrides DefaultDebounce
func WithDebounce(d time.Duration) Option {
	return func(e *Engine) { e.debounce = d }
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine is a loopback player: it answers transport commands coming back
// from the OS by updating the published state, the way a real player would
// after acting on them.
type Engine struct {
	logger   *zap.Logger
	cfg      domain.Config
	session  Session
	sinks    *sink.Set
	changes  <-chan domain.CapabilityConfig
	debounce time.Duration
	now      func() time.Time

	mu       sync.Mutex
	status   domain.PlaybackStatus
	timeline domain.PlaybackTimeline
	anchor   time.Time
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewEngine creates an engine. changes may be nil when capabilities are fixed.
func NewEngine(
	logger *zap.Logger,
	cfg domain.Config,
	session Session,
	sinks *sink.Set,
	changes <-chan domain.CapabilityConfig,
	opts ...Option,
) *Engine {
	e := &Engine{
		logger:   logger,
		cfg:      cfg,
		session:  session,
		sinks:    sinks,
		changes:  changes,
		debounce: DefaultDebounce,
		now:      time.Now,
		status:   domain.StatusClosed,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start publishes the configured capabilities and launches the event loop.
// It returns immediately; the loop outlives ctx and ends with Stop.
func (e *Engine) Start(ctx context.Context) error {
	e.logger.Info("Engine starting...")

	if err := e.session.ApplyCapabilityConfig(e.cfg.GetCapabilities()); err != nil {
		return err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	e.mu.Lock()
	e.cancel = cancel
	e.done = make(chan struct{})
	done := e.done
	e.mu.Unlock()

	go func() {
		defer close(done)
		e.runLoop(loopCtx)
	}()
	return nil
}

// Stop ends the event loop and waits for it
func (e *Engine) Stop(ctx context.Context) error {
	e.logger.Info("Engine stopping...")

	e.mu.Lock()
	cancel, done := e.cancel, e.done
	e.cancel = nil
	e.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Load publishes a new track: its metadata, a timeline spanning durationMs
// and the Opened status
func (e *Engine) Load(ctx context.Context, meta domain.MusicMetadata, durationMs int64) error {
	var appID *string
	if id := e.cfg.GetAppID(); id != "" {
		appID = &id
	}
	if err := e.session.ApplyMetadata(ctx, meta, appID); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.timeline = domain.PlaybackTimeline{
		MaxSeekMs:       durationMs,
		MinPlaybackRate: 1,
		MaxPlaybackRate: 1,
	}
	if err := e.publishTimelineLocked(0); err != nil {
		return err
	}
	return e.setStatusLocked(domain.StatusOpened)
}

// runLoop is the main event processing loop with seek debouncing
func (e *Engine) runLoop(ctx context.Context) {
	buttons := e.sinks.Buttons.Events()
	positions := e.sinks.Positions.Events()
	shuffle := e.sinks.Shuffle.Events()
	repeat := e.sinks.RepeatMode.Events()

	timer := time.NewTimer(e.debounce)
	timer.Stop() // Start with stopped timer

	var pendingSeek *int64

	for {
		if buttons == nil && positions == nil && shuffle == nil && repeat == nil {
			e.logger.Info("All event sinks closed")
			return
		}

		select {
		case <-ctx.Done():
			e.logger.Info("Engine loop stopped")
			return

		case button, ok := <-buttons:
			if !ok {
				buttons = nil
				continue
			}
			e.handleButton(button)

		case ms, ok := <-positions:
			if !ok {
				positions = nil
				continue
			}
			e.logger.Debug("Seek requested, debouncing...", zap.Int64("positionMs", ms))
			pendingSeek = &ms
			timer.Reset(e.debounce)

		case <-timer.C:
			if pendingSeek != nil {
				e.seek(*pendingSeek)
				pendingSeek = nil
			}

		case enabled, ok := <-shuffle:
			if !ok {
				shuffle = nil
				continue
			}
			if err := e.session.ApplyShuffle(enabled); err != nil {
				e.logger.Error("Failed to apply shuffle", zap.Error(err))
			}

		case mode, ok := <-repeat:
			if !ok {
				repeat = nil
				continue
			}
			if err := e.session.ApplyRepeatMode(mode); err != nil {
				e.logger.Error("Failed to apply repeat mode", zap.Error(err))
			}

		case caps := <-e.changes:
			if err := e.session.ApplyCapabilityConfig(caps); err != nil {
				e.logger.Error("Failed to apply capabilities", zap.Error(err))
			}
		}
	}
}

func (e *Engine) handleButton(button string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var err error
	switch domain.TransportEvent(button) {
	case domain.EventPlay:
		err = e.setStatusLocked(domain.StatusPlaying)
	case domain.EventPause:
		err = e.setStatusLocked(domain.StatusPaused)
	case domain.EventStop:
		if err = e.setStatusLocked(domain.StatusStopped); err == nil {
			err = e.publishTimelineLocked(e.timeline.MinSeekMs)
		}
	case domain.EventNext, domain.EventPrevious:
		// No playlist: both restart the current track
		err = e.publishTimelineLocked(e.timeline.MinSeekMs)
	case domain.EventFastForward:
		err = e.publishTimelineLocked(e.positionLocked() + skipStep)
	case domain.EventRewind:
		err = e.publishTimelineLocked(e.positionLocked() - skipStep)
	default:
		e.logger.Debug("Ignoring button", zap.String("button", button))
		return
	}

	if err != nil {
		e.logger.Error("Failed to handle button", zap.String("button", button), zap.Error(err))
	}
}

func (e *Engine) seek(ms int64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.publishTimelineLocked(ms); err != nil {
		e.logger.Error("Failed to apply seek", zap.Int64("positionMs", ms), zap.Error(err))
	}
}

// positionLocked returns the current position, advancing it while playing
func (e *Engine) positionLocked() int64 {
	pos := e.timeline.PositionMs
	if e.status == domain.StatusPlaying {
		pos += e.now().Sub(e.anchor).Milliseconds()
	}
	return min(pos, e.timeline.MaxSeekMs)
}

// publishTimelineLocked moves to ms, clamped to the seekable range
func (e *Engine) publishTimelineLocked(ms int64) error {
	now := e.now()
	e.timeline.PositionMs = max(e.timeline.MinSeekMs, min(ms, e.timeline.MaxSeekMs))
	e.timeline.LastUpdated = now
	e.anchor = now
	return e.session.ApplyTimeline(e.timeline)
}

func (e *Engine) setStatusLocked(s domain.PlaybackStatus) error {
	if e.status == domain.StatusPlaying && s != domain.StatusPlaying {
		// Freeze the position where playback stopped advancing
		e.timeline.PositionMs = e.positionLocked()
	}
	e.anchor = e.now()
	e.status = s
	e.logger.Debug("Playback status changed", zap.Stringer("status", s))
	return e.session.ApplyPlaybackStatus(s)
}

// Status returns the current playback status
func (e *Engine) Status() domain.PlaybackStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}
