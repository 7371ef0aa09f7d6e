// Package memory is an in-process transport-control backend. Every property
// written through it can be read back, and OS callbacks can be fired
// synthetically from any goroutine.
package memory

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/genricoloni/nowplaying/internal/domain"
	"github.com/genricoloni/nowplaying/internal/native/registry"
	"go.uber.org/zap"
)

// Display is the published display state
type Display struct {
	AppMediaID *string
	Type       domain.MediaType
	Music      map[domain.MusicField]string
	Thumbnail  domain.Thumbnail
	Commits    int
}

// State is a snapshot of every native property
type State struct {
	AutoManagement bool
	Enabled        bool
	Buttons        map[domain.NativeButton]bool
	// Pending holds uncommitted display writes; Display holds the committed ones
	Pending     Display
	Display     Display
	Timeline    domain.NativeTimeline
	HasTimeline bool
	Status      domain.NativeStatus
	Shuffle     bool
	Repeat      domain.NativeRepeatMode
	Closed      bool
}

// Controls implements domain.Controls in memory
type Controls struct {
	logger *zap.Logger

	mu       sync.RWMutex
	state    State
	failures map[string]error

	buttons   *registry.Set[domain.NativeButton]
	positions *registry.Set[time.Duration]
	shuffles  *registry.Set[bool]
	repeats   *registry.Set[domain.NativeRepeatMode]
}

// NewControls creates an in-memory backend. Auto management starts enabled,
// as it does for a freshly created OS media player.
func NewControls(logger *zap.Logger) *Controls {
	return &Controls{
		logger: logger,
		state: State{
			AutoManagement: true,
			Buttons:        make(map[domain.NativeButton]bool),
			Pending:        Display{Music: make(map[domain.MusicField]string)},
			Display:        Display{Music: make(map[domain.MusicField]string)},
		},
		failures:  make(map[string]error),
		buttons:   registry.NewSet[domain.NativeButton]("button"),
		positions: registry.NewSet[time.Duration]("position"),
		shuffles:  registry.NewSet[bool]("shuffle"),
		repeats:   registry.NewSet[domain.NativeRepeatMode]("repeat"),
	}
}

// FailOn makes the named method return err until cleared with a nil err.
// For SetButtonEnabled the name may carry the button, e.g. "SetButtonEnabled:6".
func (c *Controls) FailOn(method string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.failures, method)
		return
	}
	c.failures[method] = err
}

// Snapshot returns a deep copy of the current state
func (c *Controls) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := c.state
	s.Buttons = make(map[domain.NativeButton]bool, len(c.state.Buttons))
	for k, v := range c.state.Buttons {
		s.Buttons[k] = v
	}
	s.Pending = copyDisplay(c.state.Pending)
	s.Display = copyDisplay(c.state.Display)
	return s
}

func copyDisplay(d Display) Display {
	out := d
	out.Music = make(map[domain.MusicField]string, len(d.Music))
	for k, v := range d.Music {
		out.Music[k] = v
	}
	if d.AppMediaID != nil {
		id := *d.AppMediaID
		out.AppMediaID = &id
	}
	return out
}

// write runs fn under the state lock unless a failure is injected for method
func (c *Controls) write(method string, fn func(s *State)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Closed {
		return domain.ErrClosed
	}
	if err := c.failures[method]; err != nil {
		return err
	}
	fn(&c.state)
	return nil
}

func (c *Controls) SetAutoManagement(enabled bool) error {
	return c.write("SetAutoManagement", func(s *State) { s.AutoManagement = enabled })
}

func (c *Controls) SetEnabled(enabled bool) error {
	return c.write("SetEnabled", func(s *State) { s.Enabled = enabled })
}

func (c *Controls) SetButtonEnabled(button domain.NativeButton, enabled bool) error {
	c.mu.RLock()
	err := c.failures[fmt.Sprintf("SetButtonEnabled:%d", button)]
	c.mu.RUnlock()
	if err != nil {
		return err
	}
	return c.write("SetButtonEnabled", func(s *State) { s.Buttons[button] = enabled })
}

func (c *Controls) ClearDisplay() error {
	return c.write("ClearDisplay", func(s *State) {
		s.Pending = Display{Music: make(map[domain.MusicField]string), Commits: s.Pending.Commits}
	})
}

func (c *Controls) SetAppMediaID(id string) error {
	return c.write("SetAppMediaID", func(s *State) { s.Pending.AppMediaID = &id })
}

func (c *Controls) SetPlaybackType(t domain.MediaType) error {
	return c.write("SetPlaybackType", func(s *State) { s.Pending.Type = t })
}

func (c *Controls) SetMusicProperty(field domain.MusicField, value string) error {
	return c.write("SetMusicProperty", func(s *State) { s.Pending.Music[field] = value })
}

func (c *Controls) SetThumbnail(thumb domain.Thumbnail) error {
	return c.write("SetThumbnail", func(s *State) { s.Pending.Thumbnail = thumb })
}

func (c *Controls) CommitDisplay() error {
	return c.write("CommitDisplay", func(s *State) {
		s.Pending.Commits++
		s.Display = copyDisplay(s.Pending)
	})
}

func (c *Controls) UpdateTimeline(t domain.NativeTimeline) error {
	return c.write("UpdateTimeline", func(s *State) {
		s.Timeline = t
		s.HasTimeline = true
	})
}

func (c *Controls) SetPlaybackStatus(status domain.NativeStatus) error {
	return c.write("SetPlaybackStatus", func(s *State) { s.Status = status })
}

func (c *Controls) SetShuffle(enabled bool) error {
	return c.write("SetShuffle", func(s *State) { s.Shuffle = enabled })
}

func (c *Controls) SetRepeatMode(mode domain.NativeRepeatMode) error {
	return c.write("SetRepeatMode", func(s *State) { s.Repeat = mode })
}

// checkAdd reports an injected failure or a closed backend for an Add* method
func (c *Controls) checkAdd(method string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state.Closed {
		return domain.ErrClosed
	}
	return c.failures[method]
}

func (c *Controls) AddButtonPressed(handler func(domain.NativeButton)) (domain.Registration, error) {
	if err := c.checkAdd("AddButtonPressed"); err != nil {
		return nil, err
	}
	return c.buttons.Add(handler), nil
}

func (c *Controls) AddPositionChangeRequested(handler func(time.Duration)) (domain.Registration, error) {
	if err := c.checkAdd("AddPositionChangeRequested"); err != nil {
		return nil, err
	}
	return c.positions.Add(handler), nil
}

func (c *Controls) AddShuffleChangeRequested(handler func(bool)) (domain.Registration, error) {
	if err := c.checkAdd("AddShuffleChangeRequested"); err != nil {
		return nil, err
	}
	return c.shuffles.Add(handler), nil
}

func (c *Controls) AddRepeatModeChangeRequested(handler func(domain.NativeRepeatMode)) (domain.Registration, error) {
	if err := c.checkAdd("AddRepeatModeChangeRequested"); err != nil {
		return nil, err
	}
	return c.repeats.Add(handler), nil
}

func (c *Controls) RemoveHandler(reg domain.Registration) error {
	tok, ok := reg.(registry.Token)
	if !ok {
		return fmt.Errorf("unknown registration %v", reg)
	}
	if c.buttons.Remove(tok) || c.positions.Remove(tok) || c.shuffles.Remove(tok) || c.repeats.Remove(tok) {
		return nil
	}
	return fmt.Errorf("registration %s/%d not installed", tok.Kind, tok.ID)
}

// HandlerCount returns how many handlers are installed across all categories
func (c *Controls) HandlerCount() int {
	return c.buttons.Len() + c.positions.Len() + c.shuffles.Len() + c.repeats.Len()
}

func (c *Controls) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Closed {
		return errors.New("controls already closed")
	}
	c.state.Closed = true
	c.state.Enabled = false
	c.logger.Debug("Memory controls closed")
	return nil
}

// FireButtonPressed invokes every installed button handler, like the OS does
func (c *Controls) FireButtonPressed(button domain.NativeButton) {
	c.buttons.Fire(button)
}

// FirePositionChangeRequested invokes every installed seek handler
func (c *Controls) FirePositionChangeRequested(position time.Duration) {
	c.positions.Fire(position)
}

// FireShuffleChangeRequested invokes every installed shuffle handler
func (c *Controls) FireShuffleChangeRequested(enabled bool) {
	c.shuffles.Fire(enabled)
}

// FireRepeatModeChangeRequested invokes every installed repeat handler
func (c *Controls) FireRepeatModeChangeRequested(mode domain.NativeRepeatMode) {
	c.repeats.Fire(mode)
}
