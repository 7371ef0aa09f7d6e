//go:build windows

package smtc

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"github.com/genricoloni/nowplaying/internal/domain"
	"github.com/zzl/go-com/com"
	"github.com/zzl/go-win32api/v2/win32"
	"github.com/zzl/go-winrtapi/winrt"
	"go.uber.org/zap"
)

const (
	mediaPlayerClassName = "Windows.Media.Playback.MediaPlayer"
	timelineClassName    = "Windows.Media.SystemMediaTransportControlsTimelineProperties"
)

// registration identifies an installed WinRT event handler
type registration struct {
	kind  string
	token winrt.EventRegistrationToken
}

// apartment keeps the Windows Runtime initialised on a locked OS thread for
// the lifetime of the controls
type apartment struct {
	stop chan struct{}
	done chan struct{}
}

func startApartment() *apartment {
	a := &apartment{stop: make(chan struct{}), done: make(chan struct{})}
	ready := make(chan struct{})
	go func() {
		defer close(a.done)
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		init := winrt.InitializeMt()
		defer init.Uninitialize()

		close(ready)
		<-a.stop
	}()
	<-ready
	return a
}

func (a *apartment) close() {
	close(a.stop)
	<-a.done
}

// Controls implements domain.Controls on the SMTC of a MediaPlayer. Using a
// MediaPlayer instead of a window keeps the controls usable from console
// and service processes.
type Controls struct {
	logger *zap.Logger
	apt    *apartment

	mu          sync.Mutex
	player      *winrt.IMediaPlayer
	controls    *winrt.ISystemMediaTransportControls
	controls2   *winrt.ISystemMediaTransportControls2
	updater     *winrt.ISystemMediaTransportControlsDisplayUpdater
	musicProps  *winrt.IMusicDisplayProperties
	musicProps2 *winrt.IMusicDisplayProperties2
	closed      bool
}

// NewControls activates a MediaPlayer, disables its command manager and
// takes over its transport controls
func NewControls(logger *zap.Logger) (*Controls, error) {
	c := &Controls{logger: logger, apt: startApartment()}
	if err := c.activate(); err != nil {
		c.release()
		c.apt.close()
		return nil, fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
	}
	logger.Info("SMTC controls created")
	return c, nil
}

func (c *Controls) activate() error {
	hs := winrt.NewHStr(mediaPlayerClassName)
	defer hs.Dispose()

	var inspect *win32.IInspectable
	hr := win32.RoActivateInstance(hs.Ptr, &inspect)
	if win32.FAILED(hr) || inspect == nil {
		return fmt.Errorf("activate %s: %s", mediaPlayerClassName, win32.HRESULT_ToString(hr))
	}
	c.player = (*winrt.IMediaPlayer)(unsafe.Pointer(inspect))

	var player2 *winrt.IMediaPlayer2
	hr = c.player.QueryInterface(&winrt.IID_IMediaPlayer2, unsafe.Pointer(&player2))
	if win32.FAILED(hr) || player2 == nil {
		return fmt.Errorf("query IMediaPlayer2: %s", win32.HRESULT_ToString(hr))
	}
	defer player2.Release()

	var player3 *winrt.IMediaPlayer3
	hr = c.player.QueryInterface(&winrt.IID_IMediaPlayer3, unsafe.Pointer(&player3))
	if win32.FAILED(hr) || player3 == nil {
		return fmt.Errorf("query IMediaPlayer3: %s", win32.HRESULT_ToString(hr))
	}
	defer player3.Release()

	// The command manager would otherwise answer buttons on our behalf
	if manager := player3.Get_CommandManager(); manager != nil {
		manager.Put_IsEnabled(false)
		manager.Release()
	}

	c.controls = player2.Get_SystemMediaTransportControls()
	if c.controls == nil {
		return errors.New("media player has no transport controls")
	}

	hr = c.controls.QueryInterface(&winrt.IID_ISystemMediaTransportControls2, unsafe.Pointer(&c.controls2))
	if win32.FAILED(hr) || c.controls2 == nil {
		return fmt.Errorf("query ISystemMediaTransportControls2: %s", win32.HRESULT_ToString(hr))
	}

	c.updater = c.controls.Get_DisplayUpdater()
	if c.updater == nil {
		return errors.New("transport controls have no display updater")
	}
	c.musicProps = c.updater.Get_MusicProperties()
	if c.musicProps != nil {
		hr = c.musicProps.QueryInterface(&winrt.IID_IMusicDisplayProperties2, unsafe.Pointer(&c.musicProps2))
		if win32.FAILED(hr) {
			c.musicProps2 = nil
		}
	}
	return nil
}

// release drops every COM reference held by the controls
func (c *Controls) release() {
	if c.musicProps2 != nil {
		c.musicProps2.Release()
	}
	if c.musicProps != nil {
		c.musicProps.Release()
	}
	if c.updater != nil {
		c.updater.Release()
	}
	if c.controls2 != nil {
		c.controls2.Release()
	}
	if c.controls != nil {
		c.controls.Release()
	}
	if c.player != nil {
		c.player.Release()
	}
}

// do runs fn under the lock unless the controls are closed
func (c *Controls) do(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return domain.ErrClosed
	}
	return fn()
}

// SetAutoManagement toggles the command manager of the owning MediaPlayer
func (c *Controls) SetAutoManagement(enabled bool) error {
	return c.do(func() error {
		var player3 *winrt.IMediaPlayer3
		hr := c.player.QueryInterface(&winrt.IID_IMediaPlayer3, unsafe.Pointer(&player3))
		if win32.FAILED(hr) || player3 == nil {
			return fmt.Errorf("query IMediaPlayer3: %s", win32.HRESULT_ToString(hr))
		}
		defer player3.Release()

		manager := player3.Get_CommandManager()
		if manager == nil {
			return errors.New("media player has no command manager")
		}
		defer manager.Release()
		manager.Put_IsEnabled(enabled)
		return nil
	})
}

func (c *Controls) SetEnabled(enabled bool) error {
	return c.do(func() error {
		c.controls.Put_IsEnabled(enabled)
		return nil
	})
}

func (c *Controls) SetButtonEnabled(button domain.NativeButton, enabled bool) error {
	return c.do(func() error {
		switch button {
		case domain.ButtonPlay:
			c.controls.Put_IsPlayEnabled(enabled)
		case domain.ButtonPause:
			c.controls.Put_IsPauseEnabled(enabled)
		case domain.ButtonStop:
			c.controls.Put_IsStopEnabled(enabled)
		case domain.ButtonRecord:
			c.controls.Put_IsRecordEnabled(enabled)
		case domain.ButtonFastForward:
			c.controls.Put_IsFastForwardEnabled(enabled)
		case domain.ButtonRewind:
			c.controls.Put_IsRewindEnabled(enabled)
		case domain.ButtonNext:
			c.controls.Put_IsNextEnabled(enabled)
		case domain.ButtonPrevious:
			c.controls.Put_IsPreviousEnabled(enabled)
		case domain.ButtonChannelUp:
			c.controls.Put_IsChannelUpEnabled(enabled)
		case domain.ButtonChannelDown:
			c.controls.Put_IsChannelDownEnabled(enabled)
		default:
			return fmt.Errorf("unknown button %d", button)
		}
		return nil
	})
}

func (c *Controls) ClearDisplay() error {
	return c.do(func() error {
		c.updater.ClearAll()
		return nil
	})
}

func (c *Controls) SetAppMediaID(id string) error {
	return c.do(func() error {
		c.updater.Put_AppMediaId(id)
		return nil
	})
}

func (c *Controls) SetPlaybackType(t domain.MediaType) error {
	return c.do(func() error {
		switch t {
		case domain.MediaTypeMusic:
			c.updater.Put_Type(winrt.MediaPlaybackType_Music)
		default:
			c.updater.Put_Type(winrt.MediaPlaybackType_Unknown)
		}
		return nil
	})
}

func (c *Controls) SetMusicProperty(field domain.MusicField, value string) error {
	return c.do(func() error {
		if c.musicProps == nil {
			return errors.New("music display properties unavailable")
		}
		switch field {
		case domain.FieldTitle:
			c.musicProps.Put_Title(value)
		case domain.FieldArtist:
			c.musicProps.Put_Artist(value)
		case domain.FieldAlbumArtist:
			c.musicProps.Put_AlbumArtist(value)
		case domain.FieldAlbum:
			if c.musicProps2 == nil {
				return errors.New("album title unsupported on this system")
			}
			c.musicProps2.Put_AlbumTitle(value)
		default:
			return fmt.Errorf("unknown music field %d", field)
		}
		return nil
	})
}

// SetThumbnail accepts the stream reference produced by ArtworkBackend
func (c *Controls) SetThumbnail(thumb domain.Thumbnail) error {
	var ref *winrt.IRandomAccessStreamReference
	switch v := thumb.(type) {
	case nil:
	case *winrt.IRandomAccessStreamReference:
		ref = v
	default:
		return fmt.Errorf("unsupported thumbnail type %T", thumb)
	}
	return c.do(func() error {
		c.updater.Put_Thumbnail(ref)
		return nil
	})
}

func (c *Controls) CommitDisplay() error {
	return c.do(func() error {
		c.updater.Update()
		return nil
	})
}

func (c *Controls) UpdateTimeline(t domain.NativeTimeline) error {
	return c.do(func() error {
		hs := winrt.NewHStr(timelineClassName)
		defer hs.Dispose()

		var inspect *win32.IInspectable
		hr := win32.RoActivateInstance(hs.Ptr, &inspect)
		if win32.FAILED(hr) || inspect == nil {
			return fmt.Errorf("activate %s: %s", timelineClassName, win32.HRESULT_ToString(hr))
		}
		timeline := (*winrt.ISystemMediaTransportControlsTimelineProperties)(unsafe.Pointer(inspect))
		defer timeline.Release()

		timeline.Put_StartTime(winrt.TimeSpan{Duration: toTicks(t.Start)})
		timeline.Put_EndTime(winrt.TimeSpan{Duration: toTicks(t.End)})
		timeline.Put_MinSeekTime(winrt.TimeSpan{Duration: toTicks(t.MinSeek)})
		timeline.Put_MaxSeekTime(winrt.TimeSpan{Duration: toTicks(t.MaxSeek)})
		timeline.Put_Position(winrt.TimeSpan{Duration: toTicks(t.Position)})

		c.controls2.UpdateTimelineProperties(timeline)
		return nil
	})
}

func (c *Controls) SetPlaybackStatus(status domain.NativeStatus) error {
	return c.do(func() error {
		c.controls.Put_PlaybackStatus(playbackStatus(status))
		return nil
	})
}

func (c *Controls) SetShuffle(enabled bool) error {
	return c.do(func() error {
		c.controls2.Put_ShuffleEnabled(enabled)
		return nil
	})
}

func (c *Controls) SetRepeatMode(mode domain.NativeRepeatMode) error {
	return c.do(func() error {
		c.controls2.Put_AutoRepeatMode(winrt.MediaPlaybackAutoRepeatMode(mode))
		return nil
	})
}

func (c *Controls) AddButtonPressed(handler func(domain.NativeButton)) (domain.Registration, error) {
	var reg registration
	err := c.do(func() error {
		token := c.controls.Add_ButtonPressed(func(
			_ *winrt.ISystemMediaTransportControls,
			args *winrt.ISystemMediaTransportControlsButtonPressedEventArgs,
		) com.Error {
			if args != nil {
				handler(domain.NativeButton(args.Get_Button()))
			}
			return com.OK
		})
		reg = registration{kind: "button", token: token}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func (c *Controls) AddPositionChangeRequested(handler func(time.Duration)) (domain.Registration, error) {
	var reg registration
	err := c.do(func() error {
		token := c.controls2.Add_PlaybackPositionChangeRequested(func(
			_ *winrt.ISystemMediaTransportControls,
			args *winrt.IPlaybackPositionChangeRequestedEventArgs,
		) com.Error {
			if args != nil {
				handler(fromTicks(args.Get_RequestedPlaybackPosition().Duration))
			}
			return com.OK
		})
		reg = registration{kind: "position", token: token}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func (c *Controls) AddShuffleChangeRequested(handler func(bool)) (domain.Registration, error) {
	var reg registration
	err := c.do(func() error {
		token := c.controls2.Add_ShuffleEnabledChangeRequested(func(
			_ *winrt.ISystemMediaTransportControls,
			args *winrt.IShuffleEnabledChangeRequestedEventArgs,
		) com.Error {
			if args != nil {
				handler(args.Get_RequestedShuffleEnabled())
			}
			return com.OK
		})
		reg = registration{kind: "shuffle", token: token}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func (c *Controls) AddRepeatModeChangeRequested(handler func(domain.NativeRepeatMode)) (domain.Registration, error) {
	var reg registration
	err := c.do(func() error {
		token := c.controls2.Add_AutoRepeatModeChangeRequested(func(
			_ *winrt.ISystemMediaTransportControls,
			args *winrt.IAutoRepeatModeChangeRequestedEventArgs,
		) com.Error {
			if args != nil {
				handler(domain.NativeRepeatMode(args.Get_RequestedAutoRepeatMode()))
			}
			return com.OK
		})
		reg = registration{kind: "repeat", token: token}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func (c *Controls) RemoveHandler(reg domain.Registration) error {
	r, ok := reg.(registration)
	if !ok {
		return fmt.Errorf("unknown registration %v", reg)
	}
	return c.do(func() error {
		switch r.kind {
		case "button":
			c.controls.Remove_ButtonPressed(r.token)
		case "position":
			c.controls2.Remove_PlaybackPositionChangeRequested(r.token)
		case "shuffle":
			c.controls2.Remove_ShuffleEnabledChangeRequested(r.token)
		case "repeat":
			c.controls2.Remove_AutoRepeatModeChangeRequested(r.token)
		default:
			return fmt.Errorf("unknown registration kind %q", r.kind)
		}
		return nil
	})
}

// Close hides the controls and releases the MediaPlayer
func (c *Controls) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	c.controls.Put_IsEnabled(false)
	c.release()
	c.apt.close()
	c.logger.Info("SMTC controls closed")
	return nil
}

// playbackStatus maps to MediaPlaybackStatus. Opened has no WinRT value and
// is shown as Stopped.
func playbackStatus(s domain.NativeStatus) winrt.MediaPlaybackStatus {
	if s == domain.NativeStatusOpened {
		return winrt.MediaPlaybackStatus_Stopped
	}
	return winrt.MediaPlaybackStatus(s)
}
