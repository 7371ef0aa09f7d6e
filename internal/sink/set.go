package sink

import "go.uber.org/zap"

// Set groups the four outbound event streams of a session
type Set struct {
	Buttons    *Chan[string]
	Positions  *Chan[int64]
	Shuffle    *Chan[bool]
	RepeatMode *Chan[string]
}

// NewSet creates the four sinks with the same buffer size
func NewSet(logger *zap.Logger, buffer int) *Set {
	return &Set{
		Buttons:    NewChan[string](logger, "button", buffer),
		Positions:  NewChan[int64](logger, "position", buffer),
		Shuffle:    NewChan[bool](logger, "shuffle", buffer),
		RepeatMode: NewChan[string](logger, "repeat_mode", buffer),
	}
}

// Close closes every sink in the set
func (s *Set) Close() {
	s.Buttons.Close()
	s.Positions.Close()
	s.Shuffle.Close()
	s.RepeatMode.Close()
}
