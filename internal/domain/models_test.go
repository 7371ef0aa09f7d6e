package domain

import "testing"

func TestParseRepeatMode(t *testing.T) {
	tests := []struct {
		in       string
		expected RepeatMode
	}{
		{in: "none", expected: RepeatNone},
		{in: "track", expected: RepeatTrack},
		{in: "list", expected: RepeatList},
		{in: "", expected: RepeatNone},
		{in: "LIST", expected: RepeatNone},
		{in: "shuffle", expected: RepeatNone},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseRepeatMode(tt.in); got != tt.expected {
				t.Errorf("want %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestPlaybackStatus_String(t *testing.T) {
	tests := []struct {
		status   PlaybackStatus
		expected string
	}{
		{StatusClosed, "closed"},
		{StatusOpened, "opened"},
		{StatusChanging, "changing"},
		{StatusStopped, "stopped"},
		{StatusPlaying, "playing"},
		{StatusPaused, "paused"},
		{PlaybackStatus(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.status.String(); got != tt.expected {
				t.Errorf("want %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestSome(t *testing.T) {
	a := Some("x")
	b := Some("x")
	if *a != "x" || a == b {
		t.Error("Some should return a fresh pointer to the value")
	}
}
