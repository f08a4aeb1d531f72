package ringbuf

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// slotCursor tracks the slot most recently claimed by one side of the ring.
// The stored value is the claimed slot index plus one, so the zero value
// means the cursor has not claimed any slot yet. Padding keeps the write and
// read cursors on separate cache lines.
type slotCursor struct {
	_   cpu.CacheLinePad
	pos atomic.Uint64
	_   cpu.CacheLinePad
}

// advance claims the next slot and returns its index. The first advance on an
// unstarted cursor claims slot 0.
func (c *slotCursor) advance(capacity uint64) uint64 {
	next := c.pos.Load() % capacity
	c.pos.Store(next + 1)
	return next
}

// next returns the slot index the following advance would claim.
func (c *slotCursor) next(capacity uint64) uint64 {
	return c.pos.Load() % capacity
}

// slot returns the most recently claimed slot index. The second return is
// false while the cursor is unstarted.
func (c *slotCursor) slot() (uint64, bool) {
	v := c.pos.Load()
	return v - 1, v != 0
}

// reset returns the cursor to its unstarted state.
func (c *slotCursor) reset() {
	c.pos.Store(0)
}
