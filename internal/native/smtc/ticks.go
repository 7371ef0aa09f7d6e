// Package smtc drives the Windows System Media Transport Controls of a
// private Windows.Media.Playback.MediaPlayer instance.
package smtc

import "time"

// tickDuration is the length of one WinRT TimeSpan tick
const tickDuration = 100 * time.Nanosecond

// toTicks converts a duration to WinRT TimeSpan ticks, truncating toward zero
func toTicks(d time.Duration) int64 {
	return int64(d / tickDuration)
}

// fromTicks converts WinRT TimeSpan ticks to a duration
func fromTicks(ticks int64) time.Duration {
	return time.Duration(ticks) * tickDuration
}
