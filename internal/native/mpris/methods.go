package mpris

import (
	"time"

	"github.com/genricoloni/nowplaying/internal/domain"
	"github.com/godbus/dbus/v5"
)

// root carries the org.mpris.MediaPlayer2 methods. CanRaise and CanQuit are
// false, so both are accepted and ignored.
type root struct{}

func (root) Raise() *dbus.Error { return nil }

func (root) Quit() *dbus.Error { return nil }

// player carries the org.mpris.MediaPlayer2.Player methods. godbus exports
// every exported method of the value, so nothing else lives here.
type player struct {
	c *Controls
}

func (p *player) Next() *dbus.Error {
	p.c.press(domain.ButtonNext)
	return nil
}

func (p *player) Previous() *dbus.Error {
	p.c.press(domain.ButtonPrevious)
	return nil
}

func (p *player) Pause() *dbus.Error {
	p.c.press(domain.ButtonPause)
	return nil
}

func (p *player) PlayPause() *dbus.Error {
	p.c.playPause()
	return nil
}

func (p *player) Stop() *dbus.Error {
	p.c.press(domain.ButtonStop)
	return nil
}

func (p *player) Play() *dbus.Error {
	p.c.press(domain.ButtonPlay)
	return nil
}

// Seek moves relative to the current position; offset is in microseconds
func (p *player) Seek(offset int64) *dbus.Error {
	delta := time.Duration(offset) * time.Microsecond
	p.c.requestPosition(func(current time.Duration) time.Duration {
		return current + delta
	}, nil)
	return nil
}

// SetPosition moves to an absolute position in microseconds
func (p *player) SetPosition(trackID dbus.ObjectPath, position int64) *dbus.Error {
	target := time.Duration(position) * time.Microsecond
	p.c.requestPosition(func(time.Duration) time.Duration {
		return target
	}, &trackID)
	return nil
}

func (p *player) OpenUri(string) *dbus.Error {
	return dbus.NewError("org.mpris.MediaPlayer2.Player.Error.NotSupported", []any{"opening URIs is not supported"})
}
