package bridge

import (
	"fmt"
	"sync"
	"time"

	"github.com/genricoloni/nowplaying/internal/convert"
	"github.com/genricoloni/nowplaying/internal/domain"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type category string

const (
	categoryButton   category = "button"
	categoryPosition category = "position"
	categoryShuffle  category = "shuffle"
	categoryRepeat   category = "repeat_mode"
)

// Bridge installs at most one native handler per event category.
// Registering a category again replaces the previous handler.
type Bridge struct {
	logger   *zap.Logger
	controls domain.Controls

	mu            sync.Mutex
	registrations map[category]domain.Registration
}

// New creates a bridge over the controls owned by a session
func New(logger *zap.Logger, controls domain.Controls) *Bridge {
	return &Bridge{
		logger:        logger,
		controls:      controls,
		registrations: make(map[category]domain.Registration),
	}
}

// OnButtonPressed forwards button presses as transport event tokens.
// Buttons outside the fixed table are dropped.
func (b *Bridge) OnButtonPressed(sink domain.Sink[string]) error {
	handler := func(button domain.NativeButton) {
		b.guard(categoryButton, func() {
			ev, ok := convert.ButtonEvent(button)
			if !ok {
				b.logger.Debug("Ignoring unmapped button", zap.Int32("button", int32(button)))
				return
			}
			b.push(categoryButton, sink.Add(string(ev)))
		})
	}

	return b.register(categoryButton, func() (domain.Registration, error) {
		return b.controls.AddButtonPressed(handler)
	})
}

// OnPositionChangeRequested forwards seek requests as milliseconds
func (b *Bridge) OnPositionChangeRequested(sink domain.Sink[int64]) error {
	handler := func(position time.Duration) {
		b.guard(categoryPosition, func() {
			b.push(categoryPosition, sink.Add(position.Milliseconds()))
		})
	}

	return b.register(categoryPosition, func() (domain.Registration, error) {
		return b.controls.AddPositionChangeRequested(handler)
	})
}

// OnShuffleRequested forwards shuffle requests as-is
func (b *Bridge) OnShuffleRequested(sink domain.Sink[bool]) error {
	handler := func(enabled bool) {
		b.guard(categoryShuffle, func() {
			b.push(categoryShuffle, sink.Add(enabled))
		})
	}

	return b.register(categoryShuffle, func() (domain.Registration, error) {
		return b.controls.AddShuffleChangeRequested(handler)
	})
}

// OnRepeatModeRequested forwards repeat-mode requests as "none", "track" or "list".
// Unknown native modes are forwarded as "none".
func (b *Bridge) OnRepeatModeRequested(sink domain.Sink[string]) error {
	handler := func(mode domain.NativeRepeatMode) {
		b.guard(categoryRepeat, func() {
			b.push(categoryRepeat, sink.Add(string(convert.RepeatModeFromNative(mode))))
		})
	}

	return b.register(categoryRepeat, func() (domain.Registration, error) {
		return b.controls.AddRepeatModeChangeRequested(handler)
	})
}

// register swaps the handler for a category: the old registration is removed
// before the new one is installed, so the last registration wins
func (b *Bridge) register(c category, install func() (domain.Registration, error)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if prev, ok := b.registrations[c]; ok {
		if err := b.controls.RemoveHandler(prev); err != nil {
			return fmt.Errorf("remove previous %s handler: %w", c, err)
		}
		delete(b.registrations, c)
		b.logger.Debug("Replaced event handler", zap.String("category", string(c)))
	}

	reg, err := install()
	if err != nil {
		return fmt.Errorf("register %s handler: %w", c, err)
	}
	b.registrations[c] = reg

	b.logger.Info("Event handler registered", zap.String("category", string(c)))
	return nil
}

// guard runs fn and swallows any panic so it never unwinds into the OS caller
func (b *Bridge) guard(c category, fn func()) {
	defer func() {
		if p := recover(); p != nil {
			b.logger.Error("Recovered panic in event handler",
				zap.String("category", string(c)),
				zap.Any("panic", p))
		}
	}()
	fn()
}

func (b *Bridge) push(c category, accepted bool) {
	if !accepted {
		b.logger.Debug("Sink rejected event", zap.String("category", string(c)))
	}
}

// Close withdraws every registration. The owning session may be released afterwards.
func (b *Bridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	for c, reg := range b.registrations {
		if rmErr := b.controls.RemoveHandler(reg); rmErr != nil {
			err = multierr.Append(err, fmt.Errorf("remove %s handler: %w", c, rmErr))
		}
		delete(b.registrations, c)
	}

	b.logger.Info("Event handlers withdrawn")
	return err
}
