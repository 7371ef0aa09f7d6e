package domain

import "time"

// PlaybackStatus represents the playback state published to the OS
type PlaybackStatus int

const (
	// StatusClosed indicates no media is open
	StatusClosed PlaybackStatus = iota
	// StatusOpened indicates media is open but not started
	StatusOpened
	// StatusChanging indicates the player is switching media
	StatusChanging
	// StatusStopped indicates the media is stopped
	StatusStopped
	// StatusPlaying indicates the media is currently playing
	StatusPlaying
	// StatusPaused indicates the media is paused
	StatusPaused
)

// String returns the lowercase name of the status
func (s PlaybackStatus) String() string {
	switch s {
	case StatusClosed:
		return "closed"
	case StatusOpened:
		return "opened"
	case StatusChanging:
		return "changing"
	case StatusStopped:
		return "stopped"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// RepeatMode is the auto-repeat mode as seen by the application
type RepeatMode string

const (
	RepeatNone  RepeatMode = "none"
	RepeatTrack RepeatMode = "track"
	RepeatList  RepeatMode = "list"
)

// ParseRepeatMode maps a boundary string to a RepeatMode.
// Anything other than the three exact tokens is treated as RepeatNone.
func ParseRepeatMode(s string) RepeatMode {
	switch RepeatMode(s) {
	case RepeatTrack:
		return RepeatTrack
	case RepeatList:
		return RepeatList
	default:
		return RepeatNone
	}
}

// TransportEvent is the token emitted when a transport button is pressed in OS UI
type TransportEvent string

const (
	EventPlay        TransportEvent = "play"
	EventPause       TransportEvent = "pause"
	EventNext        TransportEvent = "next"
	EventPrevious    TransportEvent = "previous"
	EventFastForward TransportEvent = "fast_forward"
	EventRewind      TransportEvent = "rewind"
	EventStop        TransportEvent = "stop"
	EventRecord      TransportEvent = "record"
	EventChannelUp   TransportEvent = "channel_up"
	EventChannelDown TransportEvent = "channel_down"
)

// CapabilityConfig holds which transport commands the OS should offer.
// It is always applied as a whole.
type CapabilityConfig struct {
	PlayEnabled        bool
	PauseEnabled       bool
	NextEnabled        bool
	PreviousEnabled    bool
	FastForwardEnabled bool
	RewindEnabled      bool
	StopEnabled        bool
}

// MusicMetadata describes the current track.
// A nil field is published as cleared, never as "unchanged".
type MusicMetadata struct {
	Title       *string
	Artist      *string
	Album       *string
	AlbumArtist *string
	// Thumbnail is either an http(s) URL or a local filesystem path
	Thumbnail *string
}

// Some returns a pointer to s, for filling optional metadata fields
func Some(s string) *string {
	return &s
}

// PlaybackTimeline describes the seekable range and current position in milliseconds.
// MinSeekMs <= PositionMs <= MaxSeekMs must hold.
type PlaybackTimeline struct {
	PositionMs int64
	MinSeekMs  int64
	MaxSeekMs  int64
	// StartMs and EndMs default to MinSeekMs and MaxSeekMs when nil
	StartMs         *int64
	EndMs           *int64
	MinPlaybackRate float64
	MaxPlaybackRate float64
	LastUpdated     time.Time
}
