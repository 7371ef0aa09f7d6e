package sink

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const dropWarningInterval = 5 * time.Second

// Chan is a buffered, multi-producer sink. Add never blocks: when the buffer is
// full the item is dropped and a rate-limited warning is logged.
type Chan[T any] struct {
	logger          *zap.Logger
	name            string
	events          chan T
	mu              sync.RWMutex
	closed          bool
	dropMu          sync.Mutex
	lastDropWarning time.Time
	dropped         uint64
}

// NewChan creates a sink with the given buffer size
func NewChan[T any](logger *zap.Logger, name string, buffer int) *Chan[T] {
	if buffer < 0 {
		buffer = 0
	}
	return &Chan[T]{
		logger: logger.With(zap.String("sink", name)),
		name:   name,
		events: make(chan T, buffer),
	}
}

// Add pushes an item without blocking. It returns false if the item was
// dropped because the buffer is full or the sink is closed.
func (c *Chan[T]) Add(item T) bool {
	// The read lock keeps Close from closing the channel under a concurrent send
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return false
	}

	select {
	case c.events <- item:
		return true
	default:
		c.logDropWarning()
		return false
	}
}

// Events returns the channel consumers read from
func (c *Chan[T]) Events() <-chan T {
	return c.events
}

// Dropped returns how many items were discarded because the buffer was full
func (c *Chan[T]) Dropped() uint64 {
	c.dropMu.Lock()
	defer c.dropMu.Unlock()
	return c.dropped
}

// Close closes the events channel. Later calls to Add are ignored.
func (c *Chan[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.events)
}

// logDropWarning logs at most one warning per interval to avoid log spam
// when a consumer stalls
func (c *Chan[T]) logDropWarning() {
	c.dropMu.Lock()
	defer c.dropMu.Unlock()

	c.dropped++
	now := time.Now()
	if now.Sub(c.lastDropWarning) >= dropWarningInterval {
		c.logger.Warn("Event buffer full, dropping event",
			zap.Uint64("dropped", c.dropped))
		c.lastDropWarning = now
	}
}
