package mpris

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/genricoloni/nowplaying/internal/domain"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
	"go.uber.org/zap"
)

// fakeStore keeps properties in the exported map, like prop.Properties does
type fakeStore struct {
	mu        sync.Mutex
	m         prop.Map
	panicOn   string
	setCounts map[string]int
}

func (s *fakeStore) GetMust(iface, property string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[iface][property].Value
}

func (s *fakeStore) SetMust(iface, property string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if property == s.panicOn {
		panic("connection closed")
	}
	s.m[iface][property].Value = v
	s.setCounts[property]++
}

func (s *fakeStore) Introspection(string) []introspect.Property {
	return nil
}

type emitted struct {
	name   string
	values []any
}

// fakeBus records every bus interaction
type fakeBus struct {
	mu       sync.Mutex
	taken    map[string]bool
	owned    map[string]bool
	exported map[string]any
	store    *fakeStore
	signals  []emitted
	closed   bool
	nameErr  error
}

func newFakeBus() *fakeBus {
	return &fakeBus{
		taken:    make(map[string]bool),
		owned:    make(map[string]bool),
		exported: make(map[string]any),
	}
}

func (b *fakeBus) RequestName(name string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.nameErr != nil {
		return false, b.nameErr
	}
	if b.taken[name] {
		return false, nil
	}
	b.owned[name] = true
	return true, nil
}

func (b *fakeBus) ReleaseName(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.owned, name)
	return nil
}

func (b *fakeBus) Export(v any, _ dbus.ObjectPath, iface string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.exported[iface] = v
	return nil
}

func (b *fakeBus) ExportProperties(_ dbus.ObjectPath, props prop.Map) (PropertyStore, error) {
	b.store = &fakeStore{m: props, setCounts: make(map[string]int)}
	return b.store, nil
}

func (b *fakeBus) Emit(_ dbus.ObjectPath, name string, values ...any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.signals = append(b.signals, emitted{name: name, values: values})
	return nil
}

func (b *fakeBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

func (b *fakeBus) player() *player {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.exported[playerIface].(*player)
}

func newTestControls(t *testing.T) (*Controls, *fakeBus) {
	t.Helper()
	bus := newFakeBus()
	c, err := NewControls(zap.NewNop(), bus, "Now Playing", "nowplaying")
	if err != nil {
		t.Fatalf("failed to create controls: %v", err)
	}
	c.refresh = 0
	return c, bus
}

func TestNewControls_Exports(t *testing.T) {
	_, bus := newTestControls(t)

	for _, iface := range []string{rootIface, playerIface, "org.freedesktop.DBus.Introspectable"} {
		if _, ok := bus.exported[iface]; !ok {
			t.Errorf("%s not exported", iface)
		}
	}
	if got := bus.store.GetMust(rootIface, "Identity"); got != "Now Playing" {
		t.Errorf("identity: got %v", got)
	}
	if got := bus.store.GetMust(playerIface, "PlaybackStatus"); got != "Stopped" {
		t.Errorf("initial status: got %v", got)
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{in: "Now Playing", expected: "NowPlaying"},
		{in: "my-player_2", expected: "myplayer_2"},
		{in: "9lives", expected: "_9lives"},
		{in: "", expected: "nowplaying"},
		{in: "---", expected: "nowplaying"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := sanitizeName(tt.in); got != tt.expected {
				t.Errorf("want %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSetEnabled_BusName(t *testing.T) {
	instance := fmt.Sprintf("%snowplaying.instance%d", namePrefix, os.Getpid())

	tests := []struct {
		name     string
		taken    []string
		expected string
		wantErr  error
	}{
		{name: "Primary Name", expected: namePrefix + "nowplaying"},
		{name: "Instance Fallback", taken: []string{namePrefix + "nowplaying"}, expected: instance},
		{name: "Both Taken", taken: []string{namePrefix + "nowplaying", instance}, wantErr: domain.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, bus := newTestControls(t)
			for _, n := range tt.taken {
				bus.taken[n] = true
			}

			err := c.SetEnabled(true)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bus.owned[tt.expected] {
				t.Errorf("expected to own %s, owned %v", tt.expected, bus.owned)
			}

			// Enabling twice keeps the same name
			if err := c.SetEnabled(true); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := c.SetEnabled(false); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(bus.owned) != 0 {
				t.Errorf("disable should release the name, owned %v", bus.owned)
			}
			if err := c.SetEnabled(false); err != nil {
				t.Errorf("disabling twice should succeed: %v", err)
			}
		})
	}
}

func TestSetEnabled_RequestError(t *testing.T) {
	c, bus := newTestControls(t)
	bus.nameErr = errors.New("bus gone")

	if err := c.SetEnabled(true); err == nil {
		t.Error("expected error")
	}
}

func TestSetButtonEnabled_Properties(t *testing.T) {
	tests := []struct {
		button   domain.NativeButton
		property string
	}{
		{button: domain.ButtonPlay, property: "CanPlay"},
		{button: domain.ButtonPause, property: "CanPause"},
		{button: domain.ButtonNext, property: "CanGoNext"},
		{button: domain.ButtonPrevious, property: "CanGoPrevious"},
	}

	for _, tt := range tests {
		t.Run(tt.property, func(t *testing.T) {
			c, bus := newTestControls(t)
			if err := c.SetButtonEnabled(tt.button, true); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := bus.store.GetMust(playerIface, tt.property); got != true {
				t.Errorf("%s: want true, got %v", tt.property, got)
			}
			if err := c.SetButtonEnabled(tt.button, false); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := bus.store.GetMust(playerIface, tt.property); got != false {
				t.Errorf("%s: want false, got %v", tt.property, got)
			}
		})
	}
}

func TestPlayerMethods_Gating(t *testing.T) {
	c, bus := newTestControls(t)
	p := bus.player()

	var pressed []domain.NativeButton
	if _, err := c.AddButtonPressed(func(b domain.NativeButton) { pressed = append(pressed, b) }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Nothing enabled yet
	p.Play()
	p.Next()
	if len(pressed) != 0 {
		t.Fatalf("disabled commands fired: %v", pressed)
	}

	for _, b := range []domain.NativeButton{domain.ButtonPlay, domain.ButtonPause, domain.ButtonNext, domain.ButtonPrevious, domain.ButtonStop} {
		_ = c.SetButtonEnabled(b, true)
	}
	p.Play()
	p.Pause()
	p.Next()
	p.Previous()
	p.Stop()

	expected := []domain.NativeButton{domain.ButtonPlay, domain.ButtonPause, domain.ButtonNext, domain.ButtonPrevious, domain.ButtonStop}
	if fmt.Sprint(pressed) != fmt.Sprint(expected) {
		t.Errorf("want %v, got %v", expected, pressed)
	}
}

func TestPlayPause_Toggles(t *testing.T) {
	c, bus := newTestControls(t)
	_ = c.SetButtonEnabled(domain.ButtonPlay, true)
	_ = c.SetButtonEnabled(domain.ButtonPause, true)

	var last domain.NativeButton = -1
	_, _ = c.AddButtonPressed(func(b domain.NativeButton) { last = b })

	bus.player().PlayPause()
	if last != domain.ButtonPlay {
		t.Errorf("stopped player should request play, got %v", last)
	}

	_ = c.SetPlaybackStatus(domain.NativeStatusPlaying)
	bus.player().PlayPause()
	if last != domain.ButtonPause {
		t.Errorf("playing player should request pause, got %v", last)
	}
}

func TestCommitDisplay_Metadata(t *testing.T) {
	c, bus := newTestControls(t)

	_ = c.ClearDisplay()
	_ = c.SetAppMediaID("com.example.player")
	_ = c.SetMusicProperty(domain.FieldTitle, "Song")
	_ = c.SetMusicProperty(domain.FieldArtist, "Artist")
	_ = c.SetThumbnail("file:///tmp/cover.jpg")
	if err := c.CommitDisplay(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := bus.store.GetMust(playerIface, "Metadata").(map[string]dbus.Variant)
	if m["xesam:title"].Value() != "Song" {
		t.Errorf("title: got %v", m["xesam:title"])
	}
	if artists, ok := m["xesam:artist"].Value().([]string); !ok || len(artists) != 1 || artists[0] != "Artist" {
		t.Errorf("artist: got %v", m["xesam:artist"])
	}
	if m["mpris:artUrl"].Value() != "file:///tmp/cover.jpg" {
		t.Errorf("art: got %v", m["mpris:artUrl"])
	}
	for _, absent := range []string{"xesam:album", "xesam:albumArtist", "mpris:length"} {
		if _, ok := m[absent]; ok {
			t.Errorf("%s should be absent", absent)
		}
	}
	first, ok := m["mpris:trackid"].Value().(dbus.ObjectPath)
	if !ok || !first.IsValid() || !strings.HasPrefix(string(first), trackPrefix) {
		t.Errorf("invalid track id %v", m["mpris:trackid"])
	}
	if got := bus.store.GetMust(rootIface, "DesktopEntry"); got != "com.example.player" {
		t.Errorf("desktop entry: got %v", got)
	}

	// Each commit is a new track, and cleared fields disappear
	_ = c.ClearDisplay()
	_ = c.SetThumbnail(nil)
	_ = c.CommitDisplay()
	m = bus.store.GetMust(playerIface, "Metadata").(map[string]dbus.Variant)
	if m["mpris:trackid"].Value() == first {
		t.Error("track id should change on commit")
	}
	if len(m) != 1 {
		t.Errorf("cleared display should only carry the track id, got %v", m)
	}
}

func TestSetThumbnail_RejectsForeignType(t *testing.T) {
	c, _ := newTestControls(t)
	if err := c.SetThumbnail(42); err == nil {
		t.Error("expected error")
	}
}

func TestUpdateTimeline(t *testing.T) {
	c, bus := newTestControls(t)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	tl := domain.NativeTimeline{
		End:             3 * time.Minute,
		MaxSeek:         3 * time.Minute,
		Position:        10 * time.Second,
		MinPlaybackRate: 0.5,
		MaxPlaybackRate: 2,
	}
	if err := c.UpdateTimeline(tl); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := bus.store.GetMust(playerIface, "Position"); got != int64(10_000_000) {
		t.Errorf("position: got %v", got)
	}
	if got := bus.store.GetMust(playerIface, "CanSeek"); got != true {
		t.Errorf("can seek: got %v", got)
	}
	if got := bus.store.GetMust(playerIface, "MinimumRate"); got != 0.5 {
		t.Errorf("minimum rate: got %v", got)
	}
	if got := bus.store.GetMust(playerIface, "MaximumRate"); got != 2.0 {
		t.Errorf("maximum rate: got %v", got)
	}
	m := bus.store.GetMust(playerIface, "Metadata").(map[string]dbus.Variant)
	if m["mpris:length"].Value() != int64(180_000_000) {
		t.Errorf("length: got %v", m["mpris:length"])
	}
	if len(bus.signals) != 0 {
		t.Errorf("first update should not emit Seeked, got %v", bus.signals)
	}

	// Playing for 5s then reporting 15s is the predicted position
	_ = c.SetPlaybackStatus(domain.NativeStatusPlaying)
	now = now.Add(5 * time.Second)
	tl.Position = 15 * time.Second
	_ = c.UpdateTimeline(tl)
	if len(bus.signals) != 0 {
		t.Errorf("predicted position should not emit Seeked, got %v", bus.signals)
	}

	tl.Position = time.Minute
	_ = c.UpdateTimeline(tl)
	if len(bus.signals) != 1 || bus.signals[0].name != playerIface+".Seeked" || bus.signals[0].values[0] != int64(60_000_000) {
		t.Errorf("expected one Seeked(60s), got %v", bus.signals)
	}
	if bus.store.setCounts["Metadata"] != 1 {
		t.Errorf("unchanged length should not republish metadata, got %d", bus.store.setCounts["Metadata"])
	}
}

func TestPosition_FollowsPlayback(t *testing.T) {
	c, bus := newTestControls(t)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	position := func() any { return bus.store.GetMust(playerIface, "Position") }

	_ = c.UpdateTimeline(domain.NativeTimeline{End: time.Minute, MaxSeek: time.Minute, Position: 10 * time.Second})
	_ = c.SetPlaybackStatus(domain.NativeStatusPlaying)

	now = now.Add(3 * time.Second)
	c.refreshPosition()
	if got := position(); got != int64(13_000_000) {
		t.Errorf("position while playing: want 13s, got %v", got)
	}

	now = now.Add(2 * time.Second)
	_ = c.SetPlaybackStatus(domain.NativeStatusPaused)
	if got := position(); got != int64(15_000_000) {
		t.Errorf("position on pause: want 15s, got %v", got)
	}

	now = now.Add(10 * time.Second)
	c.refreshPosition()
	if got := position(); got != int64(15_000_000) {
		t.Errorf("paused position should not advance, got %v", got)
	}

	_ = c.SetPlaybackStatus(domain.NativeStatusPlaying)
	now = now.Add(10 * time.Minute)
	c.refreshPosition()
	if got := position(); got != int64(60_000_000) {
		t.Errorf("position should stop at the end, got %v", got)
	}
}

func TestPosition_RefreshedPeriodically(t *testing.T) {
	c, bus := newTestControls(t)
	c.refresh = 5 * time.Millisecond

	_ = c.UpdateTimeline(domain.NativeTimeline{End: time.Hour, MaxSeek: time.Hour})
	_ = c.SetPlaybackStatus(domain.NativeStatusPlaying)

	deadline := time.Now().Add(2 * time.Second)
	for bus.store.GetMust(playerIface, "Position") == int64(0) {
		if time.Now().After(deadline) {
			t.Fatal("position was never refreshed during playback")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.mu.Lock()
	stopped := c.stopTick == nil
	c.mu.Unlock()
	if !stopped {
		t.Error("close should stop the refresh ticker")
	}
}

func TestUpdateTimeline_DefaultRates(t *testing.T) {
	c, bus := newTestControls(t)
	if err := c.UpdateTimeline(domain.NativeTimeline{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := bus.store.GetMust(playerIface, "MinimumRate"); got != 1.0 {
		t.Errorf("minimum rate: got %v", got)
	}
	if got := bus.store.GetMust(playerIface, "CanSeek"); got != false {
		t.Errorf("empty range should not be seekable, got %v", got)
	}
}

func TestStatusAndLoopNames(t *testing.T) {
	c, bus := newTestControls(t)

	statuses := []struct {
		status   domain.NativeStatus
		expected string
	}{
		{domain.NativeStatusPlaying, "Playing"},
		{domain.NativeStatusPaused, "Paused"},
		{domain.NativeStatusStopped, "Stopped"},
		{domain.NativeStatusClosed, "Stopped"},
		{domain.NativeStatusChanging, "Stopped"},
		{domain.NativeStatusOpened, "Stopped"},
	}
	for _, tt := range statuses {
		_ = c.SetPlaybackStatus(tt.status)
		if got := bus.store.GetMust(playerIface, "PlaybackStatus"); got != tt.expected {
			t.Errorf("status %d: want %s, got %v", tt.status, tt.expected, got)
		}
	}

	loops := []struct {
		mode     domain.NativeRepeatMode
		expected string
	}{
		{domain.NativeRepeatNone, "None"},
		{domain.NativeRepeatTrack, "Track"},
		{domain.NativeRepeatList, "Playlist"},
	}
	for _, tt := range loops {
		_ = c.SetRepeatMode(tt.mode)
		if got := bus.store.GetMust(playerIface, "LoopStatus"); got != tt.expected {
			t.Errorf("repeat %d: want %s, got %v", tt.mode, tt.expected, got)
		}
	}

	_ = c.SetShuffle(true)
	if got := bus.store.GetMust(playerIface, "Shuffle"); got != true {
		t.Errorf("shuffle: got %v", got)
	}
}

func TestWritableProperties_FireRequests(t *testing.T) {
	c, bus := newTestControls(t)

	var shuffle []bool
	var repeat []domain.NativeRepeatMode
	_, _ = c.AddShuffleChangeRequested(func(v bool) { shuffle = append(shuffle, v) })
	_, _ = c.AddRepeatModeChangeRequested(func(m domain.NativeRepeatMode) { repeat = append(repeat, m) })

	shuffleProp := bus.store.m[playerIface]["Shuffle"]
	loopProp := bus.store.m[playerIface]["LoopStatus"]

	if err := shuffleProp.Callback(&prop.Change{Iface: playerIface, Name: "Shuffle", Value: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := loopProp.Callback(&prop.Change{Iface: playerIface, Name: "LoopStatus", Value: "Playlist"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shuffle) != 1 || !shuffle[0] {
		t.Errorf("shuffle requests: %v", shuffle)
	}
	if len(repeat) != 1 || repeat[0] != domain.NativeRepeatList {
		t.Errorf("repeat requests: %v", repeat)
	}

	invalid := []struct {
		name   string
		change *prop.Change
		cb     func(*prop.Change) *dbus.Error
	}{
		{name: "Shuffle Not Bool", change: &prop.Change{Value: "yes"}, cb: shuffleProp.Callback},
		{name: "Loop Not String", change: &prop.Change{Value: 2}, cb: loopProp.Callback},
		{name: "Loop Unknown", change: &prop.Change{Value: "Forever"}, cb: loopProp.Callback},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cb(tt.change); err == nil {
				t.Error("expected invalid argument error")
			}
		})
	}
	if len(shuffle) != 1 || len(repeat) != 1 {
		t.Error("invalid writes should not fire requests")
	}
}

func TestSeekRequests(t *testing.T) {
	c, bus := newTestControls(t)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }
	p := bus.player()

	var requests []time.Duration
	_, _ = c.AddPositionChangeRequested(func(d time.Duration) { requests = append(requests, d) })

	// No timeline yet
	p.Seek(1_000_000)
	if len(requests) != 0 {
		t.Fatalf("seek without timeline fired: %v", requests)
	}

	_ = c.UpdateTimeline(domain.NativeTimeline{End: time.Minute, MaxSeek: time.Minute, Position: 30 * time.Second})
	_ = c.ClearDisplay()
	_ = c.CommitDisplay()
	track := bus.store.GetMust(playerIface, "Metadata").(map[string]dbus.Variant)["mpris:trackid"].Value().(dbus.ObjectPath)

	p.Seek(5_000_000)
	p.Seek(-60_000_000)
	p.Seek(60_000_000)
	p.SetPosition(track, 12_000_000)
	p.SetPosition("/org/other/track", 12_000_000)
	p.SetPosition(track, 90_000_000)

	expected := []time.Duration{35 * time.Second, 0, time.Minute, 12 * time.Second}
	if fmt.Sprint(requests) != fmt.Sprint(expected) {
		t.Errorf("want %v, got %v", expected, requests)
	}
}

func TestOpenUri_NotSupported(t *testing.T) {
	_, bus := newTestControls(t)
	if err := bus.player().OpenUri("file:///song.mp3"); err == nil {
		t.Error("expected NotSupported error")
	}
}

func TestRemoveHandler(t *testing.T) {
	c, _ := newTestControls(t)

	reg, _ := c.AddButtonPressed(func(domain.NativeButton) {})
	if err := c.RemoveHandler(reg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.RemoveHandler(reg); err == nil {
		t.Error("second removal should fail")
	}
	if err := c.RemoveHandler(7); err == nil {
		t.Error("foreign registration should fail")
	}
}

func TestSetProp_PanicBecomesError(t *testing.T) {
	c, bus := newTestControls(t)
	bus.store.panicOn = "Shuffle"

	if err := c.SetShuffle(true); err == nil {
		t.Error("expected error from failed property write")
	}
}

func TestClose(t *testing.T) {
	c, bus := newTestControls(t)
	_ = c.SetEnabled(true)

	if err := c.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bus.closed {
		t.Error("bus should be closed")
	}
	if len(bus.owned) != 0 {
		t.Errorf("name should be released, owned %v", bus.owned)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second close should be a no-op: %v", err)
	}
	if err := c.SetShuffle(true); !errors.Is(err, domain.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if _, err := c.AddButtonPressed(func(domain.NativeButton) {}); !errors.Is(err, domain.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}
