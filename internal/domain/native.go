package domain

import "time"

// NativeStatus mirrors the OS playback status enumeration.
// Values match Windows.Media.MediaPlaybackStatus.
type NativeStatus int32

const (
	NativeStatusClosed   NativeStatus = 0
	NativeStatusChanging NativeStatus = 1
	NativeStatusStopped  NativeStatus = 2
	NativeStatusPlaying  NativeStatus = 3
	NativeStatusPaused   NativeStatus = 4
	// NativeStatusOpened has no WinRT counterpart; such backends publish it as Stopped
	NativeStatusOpened NativeStatus = 5
)

// NativeRepeatMode mirrors Windows.Media.MediaPlaybackAutoRepeatMode
type NativeRepeatMode int32

const (
	NativeRepeatNone  NativeRepeatMode = 0
	NativeRepeatTrack NativeRepeatMode = 1
	NativeRepeatList  NativeRepeatMode = 2
)

// NativeButton mirrors Windows.Media.SystemMediaTransportControlsButton
type NativeButton int32

const (
	ButtonPlay        NativeButton = 0
	ButtonPause       NativeButton = 1
	ButtonStop        NativeButton = 2
	ButtonRecord      NativeButton = 3
	ButtonFastForward NativeButton = 4
	ButtonRewind      NativeButton = 5
	ButtonNext        NativeButton = 6
	ButtonPrevious    NativeButton = 7
	ButtonChannelUp   NativeButton = 8
	ButtonChannelDown NativeButton = 9
)

// MusicField names a writable music display property
type MusicField int

const (
	FieldTitle MusicField = iota
	FieldArtist
	FieldAlbum
	FieldAlbumArtist
)

// MediaType is the display type set on each metadata commit
type MediaType int

const (
	MediaTypeUnknown MediaType = iota
	MediaTypeMusic
)

// NativeTimeline is the timeline in the shape the OS expects
type NativeTimeline struct {
	Start           time.Duration
	End             time.Duration
	MinSeek         time.Duration
	MaxSeek         time.Duration
	Position        time.Duration
	MinPlaybackRate float64
	MaxPlaybackRate float64
	LastUpdated     time.Time
}

// Thumbnail is an opaque, backend-specific streamable image reference.
// A nil Thumbnail clears the artwork.
type Thumbnail = any

// FileRef is an opaque handle to a file resolved by the OS storage API
type FileRef = any

// Registration identifies an installed native event handler
type Registration = any
