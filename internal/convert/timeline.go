package convert

import (
	"fmt"
	"math"
	"time"

	"github.com/genricoloni/nowplaying/internal/domain"
)

// maxMillis is the largest millisecond magnitude a time.Duration can hold
const maxMillis = math.MaxInt64 / int64(time.Millisecond)

// ToNativeTimeline converts a timeline to native form.
// It fails when MinSeekMs <= PositionMs <= MaxSeekMs does not hold or a value
// cannot be represented natively. Negative offsets and rate ranges are passed
// through as given; backends clamp rates to what they can publish.
func ToNativeTimeline(t domain.PlaybackTimeline) (domain.NativeTimeline, error) {
	if t.MinSeekMs > t.PositionMs || t.PositionMs > t.MaxSeekMs {
		return domain.NativeTimeline{}, fmt.Errorf("%w: position %dms outside seek range [%d, %d]",
			domain.ErrInvalidTimeline, t.PositionMs, t.MinSeekMs, t.MaxSeekMs)
	}

	start := t.MinSeekMs
	if t.StartMs != nil {
		start = *t.StartMs
	}
	end := t.MaxSeekMs
	if t.EndMs != nil {
		end = *t.EndMs
	}
	if start > end {
		return domain.NativeTimeline{}, fmt.Errorf("%w: start %dms after end %dms",
			domain.ErrInvalidTimeline, start, end)
	}

	values := []struct {
		name string
		ms   int64
	}{
		{"position", t.PositionMs},
		{"min seek", t.MinSeekMs},
		{"max seek", t.MaxSeekMs},
		{"start", start},
		{"end", end},
	}
	for _, v := range values {
		if err := checkMillis(v.name, v.ms); err != nil {
			return domain.NativeTimeline{}, err
		}
	}

	if err := checkRate("min playback rate", t.MinPlaybackRate); err != nil {
		return domain.NativeTimeline{}, err
	}
	if err := checkRate("max playback rate", t.MaxPlaybackRate); err != nil {
		return domain.NativeTimeline{}, err
	}

	return domain.NativeTimeline{
		Start:           millis(start),
		End:             millis(end),
		MinSeek:         millis(t.MinSeekMs),
		MaxSeek:         millis(t.MaxSeekMs),
		Position:        millis(t.PositionMs),
		MinPlaybackRate: t.MinPlaybackRate,
		MaxPlaybackRate: t.MaxPlaybackRate,
		LastUpdated:     t.LastUpdated,
	}, nil
}

// FromNativeTimeline converts a native timeline back to milliseconds
func FromNativeTimeline(n domain.NativeTimeline) domain.PlaybackTimeline {
	start := n.Start.Milliseconds()
	end := n.End.Milliseconds()
	return domain.PlaybackTimeline{
		PositionMs:      n.Position.Milliseconds(),
		MinSeekMs:       n.MinSeek.Milliseconds(),
		MaxSeekMs:       n.MaxSeek.Milliseconds(),
		StartMs:         &start,
		EndMs:           &end,
		MinPlaybackRate: n.MinPlaybackRate,
		MaxPlaybackRate: n.MaxPlaybackRate,
		LastUpdated:     n.LastUpdated,
	}
}

func checkMillis(name string, ms int64) error {
	if ms > maxMillis || ms < -maxMillis {
		return fmt.Errorf("%w: %s %dms is not representable", domain.ErrInvalidTimeline, name, ms)
	}
	return nil
}

func checkRate(name string, rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return fmt.Errorf("%w: %s %g", domain.ErrInvalidTimeline, name, rate)
	}
	return nil
}

func millis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
