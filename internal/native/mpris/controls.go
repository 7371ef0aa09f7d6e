// Package mpris publishes the session on the D-Bus session bus as an
// org.mpris.MediaPlayer2 player, so Linux shells show it alongside other
// media players.
package mpris

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/genricoloni/nowplaying/internal/domain"
	"github.com/genricoloni/nowplaying/internal/native/registry"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	objectPath  dbus.ObjectPath = "/org/mpris/MediaPlayer2"
	rootIface                   = "org.mpris.MediaPlayer2"
	playerIface                 = "org.mpris.MediaPlayer2.Player"
	namePrefix                  = "org.mpris.MediaPlayer2."
	trackPrefix                 = "/org/genricoloni/nowplaying/track/"

	// seekThreshold is how far the position may drift from its prediction
	// before clients are told about a jump
	seekThreshold = time.Second

	// positionRefresh is how often Position is republished during playback
	positionRefresh = time.Second
)

// display is the metadata being assembled between ClearDisplay and CommitDisplay
type display struct {
	appID string
	music map[domain.MusicField]string
	art   string
}

// Controls implements domain.Controls on top of MPRIS
type Controls struct {
	logger   *zap.Logger
	bus      Bus
	identity string
	busName  string
	now      func() time.Time
	refresh  time.Duration

	mu       sync.Mutex
	props    PropertyStore
	owned    string
	buttons  map[domain.NativeButton]bool
	pending  display
	shown    display
	trackID  dbus.ObjectPath
	timeline domain.NativeTimeline
	hasRange bool
	setAt    time.Time
	status   domain.NativeStatus
	closed   bool
	stopTick chan struct{}

	pressed   *registry.Set[domain.NativeButton]
	positions *registry.Set[time.Duration]
	shuffles  *registry.Set[bool]
	repeats   *registry.Set[domain.NativeRepeatMode]
}

// NewControls exports the MPRIS objects on bus. The bus name is not
// requested until the session is enabled.
func NewControls(logger *zap.Logger, bus Bus, identity, busName string) (*Controls, error) {
	if busName == "" {
		busName = sanitizeName(identity)
	}
	c := &Controls{
		logger:    logger,
		bus:       bus,
		identity:  identity,
		busName:   namePrefix + busName,
		now:       time.Now,
		refresh:   positionRefresh,
		buttons:   make(map[domain.NativeButton]bool),
		pending:   display{music: make(map[domain.MusicField]string)},
		shown:     display{music: make(map[domain.MusicField]string)},
		trackID:   dbus.ObjectPath(trackPrefix + "none"),
		pressed:   registry.NewSet[domain.NativeButton]("button"),
		positions: registry.NewSet[time.Duration]("position"),
		shuffles:  registry.NewSet[bool]("shuffle"),
		repeats:   registry.NewSet[domain.NativeRepeatMode]("repeat"),
	}

	if err := bus.Export(&root{}, objectPath, rootIface); err != nil {
		return nil, fmt.Errorf("failed to export %s: %w", rootIface, err)
	}
	if err := bus.Export(&player{c: c}, objectPath, playerIface); err != nil {
		return nil, fmt.Errorf("failed to export %s: %w", playerIface, err)
	}

	props, err := bus.ExportProperties(objectPath, c.propertyMap())
	if err != nil {
		return nil, fmt.Errorf("failed to export properties: %w", err)
	}
	c.props = props

	node := &introspect.Node{
		Name: string(objectPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:       rootIface,
				Methods:    introspect.Methods(&root{}),
				Properties: props.Introspection(rootIface),
			},
			{
				Name:       playerIface,
				Methods:    introspect.Methods(&player{}),
				Properties: props.Introspection(playerIface),
				Signals: []introspect.Signal{{
					Name: "Seeked",
					Args: []introspect.Arg{{Name: "Position", Type: "x"}},
				}},
			},
		},
	}
	if err := bus.Export(introspect.NewIntrospectable(node), objectPath, "org.freedesktop.DBus.Introspectable"); err != nil {
		return nil, fmt.Errorf("failed to export introspection: %w", err)
	}

	logger.Info("MPRIS objects exported", zap.String("bus_name", c.busName))
	return c, nil
}

// Connect opens the session bus and exports the MPRIS objects on it
func Connect(logger *zap.Logger, identity, busName string) (*Controls, error) {
	bus, err := NewStdBus()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
	}
	c, err := NewControls(logger, bus, identity, busName)
	if err != nil {
		return nil, multierr.Append(err, bus.Close())
	}
	return c, nil
}

func (c *Controls) propertyMap() prop.Map {
	return prop.Map{
		rootIface: {
			"CanQuit":             {Value: false, Emit: prop.EmitConst},
			"CanRaise":            {Value: false, Emit: prop.EmitConst},
			"HasTrackList":        {Value: false, Emit: prop.EmitConst},
			"Identity":            {Value: c.identity, Emit: prop.EmitConst},
			"DesktopEntry":        {Value: "", Emit: prop.EmitTrue},
			"SupportedUriSchemes": {Value: []string{}, Emit: prop.EmitConst},
			"SupportedMimeTypes":  {Value: []string{}, Emit: prop.EmitConst},
		},
		playerIface: {
			"PlaybackStatus": {Value: "Stopped", Emit: prop.EmitTrue},
			"LoopStatus":     {Value: "None", Writable: true, Emit: prop.EmitTrue, Callback: c.onLoopStatusWrite},
			"Rate":           {Value: 1.0, Emit: prop.EmitTrue},
			"Shuffle":        {Value: false, Writable: true, Emit: prop.EmitTrue, Callback: c.onShuffleWrite},
			"Metadata":       {Value: map[string]dbus.Variant{"mpris:trackid": dbus.MakeVariant(c.trackID)}, Emit: prop.EmitTrue},
			"Volume":         {Value: 1.0, Emit: prop.EmitConst},
			"Position":       {Value: int64(0), Emit: prop.EmitFalse},
			"MinimumRate":    {Value: 1.0, Emit: prop.EmitTrue},
			"MaximumRate":    {Value: 1.0, Emit: prop.EmitTrue},
			"CanGoNext":      {Value: false, Emit: prop.EmitTrue},
			"CanGoPrevious":  {Value: false, Emit: prop.EmitTrue},
			"CanPlay":        {Value: false, Emit: prop.EmitTrue},
			"CanPause":       {Value: false, Emit: prop.EmitTrue},
			"CanSeek":        {Value: false, Emit: prop.EmitTrue},
			"CanControl":     {Value: true, Emit: prop.EmitConst},
		},
	}
}

// setProp writes one property. godbus panics when the change signal cannot
// be sent, so that panic is turned back into an error here.
func (c *Controls) setProp(iface, name string, v any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to set %s.%s: %v", iface, name, r)
		}
	}()
	c.props.SetMust(iface, name, v)
	return nil
}

// begin locks the controls and fails once they are closed. The caller must unlock.
func (c *Controls) begin() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrClosed
	}
	return nil
}

// SetAutoManagement is a no-op: MPRIS players have no OS-managed command policy
func (c *Controls) SetAutoManagement(bool) error {
	return nil
}

// SetEnabled owns or releases the bus name. A taken name falls back to a
// per-process instance name, as the MPRIS specification suggests.
func (c *Controls) SetEnabled(enabled bool) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	if !enabled {
		if c.owned == "" {
			return nil
		}
		if err := c.bus.ReleaseName(c.owned); err != nil {
			return fmt.Errorf("failed to release %s: %w", c.owned, err)
		}
		c.logger.Debug("Released bus name", zap.String("name", c.owned))
		c.owned = ""
		return nil
	}

	if c.owned != "" {
		return nil
	}
	for _, name := range []string{c.busName, fmt.Sprintf("%s.instance%d", c.busName, os.Getpid())} {
		ok, err := c.bus.RequestName(name)
		if err != nil {
			return fmt.Errorf("failed to request %s: %w", name, err)
		}
		if ok {
			c.owned = name
			c.logger.Debug("Acquired bus name", zap.String("name", name))
			return nil
		}
	}
	return fmt.Errorf("%w: bus name %s is taken", domain.ErrUnavailable, c.busName)
}

func (c *Controls) SetButtonEnabled(button domain.NativeButton, enabled bool) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	c.buttons[button] = enabled
	switch button {
	case domain.ButtonPlay:
		return c.setProp(playerIface, "CanPlay", enabled)
	case domain.ButtonPause:
		return c.setProp(playerIface, "CanPause", enabled)
	case domain.ButtonNext:
		return c.setProp(playerIface, "CanGoNext", enabled)
	case domain.ButtonPrevious:
		return c.setProp(playerIface, "CanGoPrevious", enabled)
	}
	// Remaining buttons only gate methods
	return nil
}

func (c *Controls) ClearDisplay() error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.mu.Unlock()
	c.pending = display{music: make(map[domain.MusicField]string)}
	return nil
}

func (c *Controls) SetAppMediaID(id string) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.mu.Unlock()
	c.pending.appID = id
	return nil
}

// SetPlaybackType is a no-op: every MPRIS track is described with xesam music fields
func (c *Controls) SetPlaybackType(domain.MediaType) error {
	return nil
}

func (c *Controls) SetMusicProperty(field domain.MusicField, value string) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.mu.Unlock()
	c.pending.music[field] = value
	return nil
}

// SetThumbnail accepts the art URL produced by ArtworkBackend
func (c *Controls) SetThumbnail(thumb domain.Thumbnail) error {
	var art string
	switch v := thumb.(type) {
	case nil:
	case string:
		art = v
	default:
		return fmt.Errorf("unsupported thumbnail type %T", thumb)
	}

	if err := c.begin(); err != nil {
		return err
	}
	defer c.mu.Unlock()
	c.pending.art = art
	return nil
}

// CommitDisplay publishes the pending display as a new track
func (c *Controls) CommitDisplay() error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	c.shown = display{appID: c.pending.appID, art: c.pending.art, music: make(map[domain.MusicField]string, len(c.pending.music))}
	for k, v := range c.pending.music {
		c.shown.music[k] = v
	}
	c.trackID = dbus.ObjectPath(trackPrefix + strings.ReplaceAll(uuid.NewString(), "-", ""))

	if err := c.setProp(rootIface, "DesktopEntry", c.shown.appID); err != nil {
		return err
	}
	return c.setProp(playerIface, "Metadata", c.metadata())
}

// metadata renders the shown display in xesam/mpris terms. c.mu must be held.
func (c *Controls) metadata() map[string]dbus.Variant {
	m := map[string]dbus.Variant{
		"mpris:trackid": dbus.MakeVariant(c.trackID),
	}
	if v, ok := c.shown.music[domain.FieldTitle]; ok {
		m["xesam:title"] = dbus.MakeVariant(v)
	}
	if v, ok := c.shown.music[domain.FieldArtist]; ok {
		m["xesam:artist"] = dbus.MakeVariant([]string{v})
	}
	if v, ok := c.shown.music[domain.FieldAlbum]; ok {
		m["xesam:album"] = dbus.MakeVariant(v)
	}
	if v, ok := c.shown.music[domain.FieldAlbumArtist]; ok {
		m["xesam:albumArtist"] = dbus.MakeVariant([]string{v})
	}
	if c.shown.art != "" {
		m["mpris:artUrl"] = dbus.MakeVariant(c.shown.art)
	}
	if c.hasRange && c.timeline.End > c.timeline.Start {
		m["mpris:length"] = dbus.MakeVariant(micros(c.timeline.End - c.timeline.Start))
	}
	return m
}

// UpdateTimeline publishes position, seekability and rates. A position
// that does not match the prediction from the previous update is
// announced with the Seeked signal.
func (c *Controls) UpdateTimeline(t domain.NativeTimeline) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	now := c.now()
	jumped := false
	if c.hasRange {
		predicted := c.timeline.Position
		if c.status == domain.NativeStatusPlaying {
			predicted += now.Sub(c.setAt)
		}
		drift := t.Position - predicted
		jumped = drift > seekThreshold || drift < -seekThreshold
	}

	lengthChanged := !c.hasRange || t.End-t.Start != c.timeline.End-c.timeline.Start
	c.timeline = t
	c.hasRange = true
	c.setAt = now

	minRate, maxRate := 1.0, 1.0
	if t.MinPlaybackRate > 0 && t.MinPlaybackRate < 1 {
		minRate = t.MinPlaybackRate
	}
	if t.MaxPlaybackRate > 1 {
		maxRate = t.MaxPlaybackRate
	}

	err := multierr.Combine(
		c.setProp(playerIface, "Position", micros(t.Position)),
		c.setProp(playerIface, "CanSeek", t.MaxSeek > t.MinSeek),
		c.setProp(playerIface, "MinimumRate", minRate),
		c.setProp(playerIface, "MaximumRate", maxRate),
	)
	if lengthChanged {
		err = multierr.Append(err, c.setProp(playerIface, "Metadata", c.metadata()))
	}
	if err != nil {
		return err
	}

	if jumped {
		if err := c.bus.Emit(objectPath, playerIface+".Seeked", micros(t.Position)); err != nil {
			return fmt.Errorf("failed to emit Seeked: %w", err)
		}
	}
	return nil
}

func (c *Controls) SetPlaybackStatus(status domain.NativeStatus) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	err := c.setProp(playerIface, "PlaybackStatus", statusName(status))
	if c.hasRange {
		// Keep the prediction anchored when playback starts or stops advancing
		c.timeline.Position = c.positionLocked()
		c.setAt = c.now()
		err = multierr.Append(err, c.setProp(playerIface, "Position", micros(c.timeline.Position)))
	}
	c.status = status

	if status == domain.NativeStatusPlaying {
		c.startTickerLocked()
	} else {
		c.stopTickerLocked()
	}
	return err
}

// positionLocked extrapolates the position while playing, stopping at the end
func (c *Controls) positionLocked() time.Duration {
	pos := c.timeline.Position
	if c.status == domain.NativeStatusPlaying {
		pos += c.now().Sub(c.setAt)
		if c.timeline.End > c.timeline.Start {
			pos = min(pos, c.timeline.End)
		}
	}
	return pos
}

// Position never signals changes; polling clients read the value kept
// current here
func (c *Controls) refreshPosition() {
	if err := c.begin(); err != nil {
		return
	}
	defer c.mu.Unlock()

	if !c.hasRange {
		return
	}
	if err := c.setProp(playerIface, "Position", micros(c.positionLocked())); err != nil {
		c.logger.Debug("Failed to refresh position", zap.Error(err))
	}
}

func (c *Controls) startTickerLocked() {
	if c.stopTick != nil || c.refresh <= 0 {
		return
	}
	stop := make(chan struct{})
	c.stopTick = stop

	go func(interval time.Duration) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.refreshPosition()
			}
		}
	}(c.refresh)
}

func (c *Controls) stopTickerLocked() {
	if c.stopTick != nil {
		close(c.stopTick)
		c.stopTick = nil
	}
}

func (c *Controls) SetShuffle(enabled bool) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.mu.Unlock()
	return c.setProp(playerIface, "Shuffle", enabled)
}

func (c *Controls) SetRepeatMode(mode domain.NativeRepeatMode) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.mu.Unlock()
	return c.setProp(playerIface, "LoopStatus", loopStatusName(mode))
}

func (c *Controls) AddButtonPressed(handler func(domain.NativeButton)) (domain.Registration, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()
	return c.pressed.Add(handler), nil
}

func (c *Controls) AddPositionChangeRequested(handler func(time.Duration)) (domain.Registration, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()
	return c.positions.Add(handler), nil
}

func (c *Controls) AddShuffleChangeRequested(handler func(bool)) (domain.Registration, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()
	return c.shuffles.Add(handler), nil
}

func (c *Controls) AddRepeatModeChangeRequested(handler func(domain.NativeRepeatMode)) (domain.Registration, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.mu.Unlock()
	return c.repeats.Add(handler), nil
}

func (c *Controls) RemoveHandler(reg domain.Registration) error {
	tok, ok := reg.(registry.Token)
	if !ok {
		return fmt.Errorf("unknown registration %v", reg)
	}
	if c.pressed.Remove(tok) || c.positions.Remove(tok) || c.shuffles.Remove(tok) || c.repeats.Remove(tok) {
		return nil
	}
	return fmt.Errorf("registration %s/%d not installed", tok.Kind, tok.ID)
}

// Close releases the bus name and the connection
func (c *Controls) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.stopTickerLocked()

	var err error
	if c.owned != "" {
		err = multierr.Append(err, c.bus.ReleaseName(c.owned))
		c.owned = ""
	}
	err = multierr.Append(err, c.bus.Close())
	c.logger.Info("MPRIS controls closed")
	return err
}

// press fires a button event when the capability is enabled
func (c *Controls) press(button domain.NativeButton) {
	c.mu.Lock()
	enabled := c.buttons[button] && !c.closed
	c.mu.Unlock()

	if !enabled {
		c.logger.Debug("Ignoring disabled MPRIS command", zap.Int32("button", int32(button)))
		return
	}
	c.pressed.Fire(button)
}

// playPause toggles based on the published status
func (c *Controls) playPause() {
	c.mu.Lock()
	playing := c.status == domain.NativeStatusPlaying
	c.mu.Unlock()

	if playing {
		c.press(domain.ButtonPause)
		return
	}
	c.press(domain.ButtonPlay)
}

// requestPosition fires a seek request for target, clamped to the seekable range
func (c *Controls) requestPosition(target func(current time.Duration) time.Duration, trackID *dbus.ObjectPath) {
	c.mu.Lock()
	if c.closed || !c.hasRange || c.timeline.MaxSeek <= c.timeline.MinSeek {
		c.mu.Unlock()
		return
	}
	if trackID != nil && *trackID != c.trackID {
		c.mu.Unlock()
		c.logger.Debug("Ignoring SetPosition for stale track", zap.String("track", string(*trackID)))
		return
	}
	current := c.timeline.Position
	if c.status == domain.NativeStatusPlaying {
		current += c.now().Sub(c.setAt)
	}
	pos := target(current)
	if trackID != nil && (pos < c.timeline.MinSeek || pos > c.timeline.MaxSeek) {
		// SetPosition outside the track is ignored
		c.mu.Unlock()
		return
	}
	pos = max(c.timeline.MinSeek, min(pos, c.timeline.MaxSeek))
	c.mu.Unlock()

	c.positions.Fire(pos)
}

func (c *Controls) onShuffleWrite(change *prop.Change) *dbus.Error {
	enabled, ok := change.Value.(bool)
	if !ok {
		return prop.ErrInvalidArg
	}
	c.shuffles.Fire(enabled)
	return nil
}

func (c *Controls) onLoopStatusWrite(change *prop.Change) *dbus.Error {
	name, ok := change.Value.(string)
	if !ok {
		return prop.ErrInvalidArg
	}
	mode, ok := loopStatusMode(name)
	if !ok {
		return prop.ErrInvalidArg
	}
	c.repeats.Fire(mode)
	return nil
}

func statusName(s domain.NativeStatus) string {
	switch s {
	case domain.NativeStatusPlaying:
		return "Playing"
	case domain.NativeStatusPaused:
		return "Paused"
	default:
		return "Stopped"
	}
}

func loopStatusName(m domain.NativeRepeatMode) string {
	switch m {
	case domain.NativeRepeatTrack:
		return "Track"
	case domain.NativeRepeatList:
		return "Playlist"
	default:
		return "None"
	}
}

func loopStatusMode(name string) (domain.NativeRepeatMode, bool) {
	switch name {
	case "None":
		return domain.NativeRepeatNone, true
	case "Track":
		return domain.NativeRepeatTrack, true
	case "Playlist":
		return domain.NativeRepeatList, true
	}
	return domain.NativeRepeatNone, false
}

func micros(d time.Duration) int64 {
	return d.Microseconds()
}

// sanitizeName turns an identity into a valid bus name element
func sanitizeName(identity string) string {
	var b strings.Builder
	for _, r := range identity {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if b.Len() == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "nowplaying"
	}
	return b.String()
}
