package convert

import "github.com/genricoloni/nowplaying/internal/domain"

// ToNativeStatus maps a playback status to its native value
func ToNativeStatus(s domain.PlaybackStatus) domain.NativeStatus {
	switch s {
	case domain.StatusClosed:
		return domain.NativeStatusClosed
	case domain.StatusOpened:
		return domain.NativeStatusOpened
	case domain.StatusChanging:
		return domain.NativeStatusChanging
	case domain.StatusStopped:
		return domain.NativeStatusStopped
	case domain.StatusPlaying:
		return domain.NativeStatusPlaying
	case domain.StatusPaused:
		return domain.NativeStatusPaused
	default:
		return domain.NativeStatusClosed
	}
}

// FromNativeStatus is the inverse of ToNativeStatus
func FromNativeStatus(s domain.NativeStatus) domain.PlaybackStatus {
	switch s {
	case domain.NativeStatusOpened:
		return domain.StatusOpened
	case domain.NativeStatusChanging:
		return domain.StatusChanging
	case domain.NativeStatusStopped:
		return domain.StatusStopped
	case domain.NativeStatusPlaying:
		return domain.StatusPlaying
	case domain.NativeStatusPaused:
		return domain.StatusPaused
	default:
		return domain.StatusClosed
	}
}

// ToNativeRepeatMode maps a boundary repeat-mode string to its native value.
// Unrecognized strings map to NativeRepeatNone.
func ToNativeRepeatMode(mode string) domain.NativeRepeatMode {
	switch domain.ParseRepeatMode(mode) {
	case domain.RepeatTrack:
		return domain.NativeRepeatTrack
	case domain.RepeatList:
		return domain.NativeRepeatList
	default:
		return domain.NativeRepeatNone
	}
}

// RepeatModeFromNative maps a native repeat mode to its boundary string.
// Unknown native values map to "none".
func RepeatModeFromNative(mode domain.NativeRepeatMode) domain.RepeatMode {
	switch mode {
	case domain.NativeRepeatTrack:
		return domain.RepeatTrack
	case domain.NativeRepeatList:
		return domain.RepeatList
	default:
		return domain.RepeatNone
	}
}

var buttonEvents = map[domain.NativeButton]domain.TransportEvent{
	domain.ButtonPlay:        domain.EventPlay,
	domain.ButtonPause:       domain.EventPause,
	domain.ButtonNext:        domain.EventNext,
	domain.ButtonPrevious:    domain.EventPrevious,
	domain.ButtonFastForward: domain.EventFastForward,
	domain.ButtonRewind:      domain.EventRewind,
	domain.ButtonStop:        domain.EventStop,
	domain.ButtonRecord:      domain.EventRecord,
	domain.ButtonChannelUp:   domain.EventChannelUp,
	domain.ButtonChannelDown: domain.EventChannelDown,
}

// ButtonEvent maps a native button to its transport event token.
// The second result is false for buttons outside the fixed table.
func ButtonEvent(b domain.NativeButton) (domain.TransportEvent, bool) {
	ev, ok := buttonEvents[b]
	return ev, ok
}
