package ringbuf

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/c360/streamkit/errors"
)

// WriteFunc fills one slot. The slice it receives is exactly ItemSize bytes
// long and aliases the ring's storage, so it must not be retained after the
// call returns.
type WriteFunc func(slot []byte)

// ReadFunc consumes one slot. The slice it receives is exactly ItemSize bytes
// long and aliases the ring's storage, so it must not be retained after the
// call returns.
type ReadFunc func(slot []byte)

// DropPolicy defines how the reader treats a slot the writer most recently
// claimed. The policy is fixed at construction time.
type DropPolicy int

const (
	// DropBounded sacrifices colliding reads up to the configured limit, then
	// forces one through so a stalled writer cannot starve the reader forever.
	DropBounded DropPolicy = iota

	// DropAlways sacrifices every colliding read. Pair it with WriteOverwrite,
	// where the writer may genuinely own the contested slot at any moment.
	DropAlways
)

// String returns a human-readable representation of the drop policy.
func (p DropPolicy) String() string {
	switch p {
	case DropBounded:
		return "DropBounded"
	case DropAlways:
		return "DropAlways"
	default:
		return "Unknown"
	}
}

// DefaultReadDropLimit is the number of consecutive reads sacrificed to a
// colliding writer before DropBounded forces one through.
const DefaultReadDropLimit = 6 * 65535

// RingBuffer is a fixed-capacity ring of equally sized byte slots shared
// between concurrent writers and readers. Writers and readers each hold a
// cursor into the ring; occupancy is an advisory count that gates the
// blocking variants but does not serialize slot access. The read path backs
// off the slot the writer most recently claimed, which is what keeps a
// reader from observing a write in progress.
type RingBuffer struct {
	itemSize int
	capacity int
	storage  []byte

	writeCursor slotCursor
	readCursor  slotCursor
	occupancy   atomic.Int64

	dropPolicy    DropPolicy
	readDropLimit int64
	droppedReads  atomic.Int64

	stats   *Statistics  // ALWAYS initialized for observability
	metrics *ringMetrics // Optional Prometheus metrics
	logger  *slog.Logger // Optional forced-read warnings

	// The mutex backs the condition variables only; slot access is guarded
	// by the cursor collision check, not the lock.
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond
}

// New creates a ring buffer of capacity slots, each itemSize bytes long.
// Stats are ALWAYS collected for observability. Metrics are optional via
// WithMetrics(). Returns an error for degenerate dimensions or when metrics
// registration fails.
func New(itemSize, capacity int, options ...Option) (*RingBuffer, error) {
	if itemSize < 1 {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "RingBuffer", "New",
			fmt.Sprintf("item size must be at least 1, got %d", itemSize))
	}
	if capacity < 1 {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "RingBuffer", "New",
			fmt.Sprintf("capacity must be at least 1, got %d", capacity))
	}

	opts := applyOptions(options...)

	// Stats are ALWAYS initialized - observability is not optional
	stats := NewStatistics()

	var metrics *ringMetrics
	// Optionally expose stats as Prometheus metrics
	if opts.metricsReg != nil && opts.metricsPrefix != "" {
		var err error
		metrics, err = newRingMetrics(opts.metricsReg, opts.metricsPrefix)
		if err != nil {
			return nil, errors.WrapTransient(err, "RingBuffer", "New", "metrics registration")
		}
	}

	rb := &RingBuffer{
		itemSize:      itemSize,
		capacity:      capacity,
		storage:       make([]byte, itemSize*capacity),
		dropPolicy:    opts.dropPolicy,
		readDropLimit: int64(opts.readDropLimit),
		stats:         stats,   // ALWAYS present
		metrics:       metrics, // Optional
		logger:        opts.logger,
	}

	// Set up condition variables for the blocking variants
	rb.notEmpty = sync.NewCond(&rb.mu)
	rb.notFull = sync.NewCond(&rb.mu)

	return rb, nil
}

// ItemSize returns the size in bytes of each slot.
func (rb *RingBuffer) ItemSize() int {
	return rb.itemSize // This is immutable, so no lock needed
}

// Capacity returns the number of slots in the ring.
func (rb *RingBuffer) Capacity() int {
	return rb.capacity // This is immutable, so no lock needed
}

// Size returns the advisory count of occupied slots.
func (rb *RingBuffer) Size() int {
	return int(rb.occupancy.Load())
}

// Full returns true when the advisory occupancy has reached capacity.
func (rb *RingBuffer) Full() bool {
	return rb.occupancy.Load() == int64(rb.capacity)
}

// Empty returns true when the advisory occupancy is zero.
func (rb *RingBuffer) Empty() bool {
	return rb.occupancy.Load() == 0
}

// Snapshot is a point-in-time view of the ring's advisory state. Size, Full,
// and Empty derive from a single occupancy load; the cursor and streak fields
// are separate atomic loads and may trail concurrent writers and readers by
// the time the caller inspects them.
type Snapshot struct {
	ItemSize int `json:"item_size"`
	Capacity int `json:"capacity"`
	Size     int `json:"size"`

	Full  bool `json:"full"`
	Empty bool `json:"empty"`

	WriterStarted bool  `json:"writer_started"`
	ReaderStarted bool  `json:"reader_started"`
	DropStreak    int64 `json:"drop_streak"`
}

// Snapshot returns the ring's advisory state.
func (rb *RingBuffer) Snapshot() Snapshot {
	size := int(rb.occupancy.Load())
	_, writerStarted := rb.writeCursor.slot()
	_, readerStarted := rb.readCursor.slot()
	return Snapshot{
		ItemSize:      rb.itemSize,
		Capacity:      rb.capacity,
		Size:          size,
		Full:          size == rb.capacity,
		Empty:         size == 0,
		WriterStarted: writerStarted,
		ReaderStarted: readerStarted,
		DropStreak:    rb.droppedReads.Load(),
	}
}

// Stats returns buffer statistics (always available for observability).
func (rb *RingBuffer) Stats() *Statistics {
	return rb.stats
}

// Write blocks until the ring reports free space, then claims the next slot
// and invokes fill on it.
func (rb *RingBuffer) Write(fill WriteFunc) {
	rb.mu.Lock()
	for rb.Full() {
		rb.notFull.Wait()
	}
	rb.mu.Unlock()

	rb.performWrite(fill)
}

// WriteOverwrite claims the next slot without waiting for space. On a full
// ring this reuses the slot the reader would consume next; the collision
// check in the read path keeps the reader off it while the writer owns it.
func (rb *RingBuffer) WriteOverwrite(fill WriteFunc) {
	if rb.Full() {
		// ALWAYS track in stats
		rb.stats.Overwrite()

		// ALSO track in metrics if enabled
		if rb.metrics != nil {
			rb.metrics.recordOverwrite()
		}
	}

	rb.performWrite(fill)
}

// WriteNonblock claims the next slot only when the ring reports free space.
// On a full ring the item is dropped: fill is not invoked.
func (rb *RingBuffer) WriteNonblock(fill WriteFunc) {
	if rb.Full() {
		// ALWAYS track in stats
		rb.stats.DroppedWrite()

		// ALSO track in metrics if enabled
		if rb.metrics != nil {
			rb.metrics.recordDroppedWrite()
		}
		return
	}

	rb.performWrite(fill)
}

// Read blocks until the ring reports data, then consumes the next slot with
// consume. A read sacrificed to a colliding writer still returns without
// invoking consume.
func (rb *RingBuffer) Read(consume ReadFunc) {
	rb.mu.Lock()
	for rb.Empty() {
		rb.notEmpty.Wait()
	}
	rb.mu.Unlock()

	rb.performRead(consume)
}

// ReadNonblock consumes the next slot only when the ring reports data. On an
// empty ring consume is not invoked.
func (rb *RingBuffer) ReadNonblock(consume ReadFunc) {
	if rb.Empty() {
		return
	}

	rb.performRead(consume)
}

// ReadWithTimeout waits up to timeout for the ring to report data, then
// consumes the next slot. When the timeout expires first, consume is not
// invoked.
func (rb *RingBuffer) ReadWithTimeout(consume ReadFunc, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	rb.ReadWithContext(ctx, consume)
}

// ReadWithContext waits for the ring to report data until ctx is done, then
// consumes the next slot. Cancellation before data arrives leaves consume
// uninvoked.
func (rb *RingBuffer) ReadWithContext(ctx context.Context, consume ReadFunc) {
	rb.mu.Lock()

	// Check if context is already cancelled
	select {
	case <-ctx.Done():
		rb.mu.Unlock()
		rb.noteReadTimeout()
		return
	default:
	}

	// Create a done channel to signal when we're done waiting
	done := make(chan struct{})
	defer close(done)

	// Set up context cancellation handler without holding the lock
	go func() {
		select {
		case <-ctx.Done():
			// Wake up waiting goroutines when context is cancelled
			// This is safe because Broadcast can be called without holding the mutex
			rb.notEmpty.Broadcast()
		case <-done:
			// Function completed successfully, exit goroutine
		}
	}()

	// Wait for data or context cancellation
	for rb.Empty() {
		// Check context before waiting
		select {
		case <-ctx.Done():
			rb.mu.Unlock()
			rb.noteReadTimeout()
			return
		default:
		}

		// Wait for data to become available
		rb.notEmpty.Wait()

		// Check context after being woken up
		select {
		case <-ctx.Done():
			rb.mu.Unlock()
			rb.noteReadTimeout()
			return
		default:
		}
	}
	rb.mu.Unlock()

	rb.performRead(consume)
}

// performWrite advances the write cursor, fills the claimed slot, and then
// raises occupancy. The cursor moves before fill runs, which is what the
// read path's collision check keys off.
func (rb *RingBuffer) performWrite(fill WriteFunc) {
	slot := rb.writeCursor.advance(uint64(rb.capacity))
	off := int(slot) * rb.itemSize
	fill(rb.storage[off : off+rb.itemSize : off+rb.itemSize])
	rb.push()

	// ALWAYS track in stats
	rb.stats.Write()
	rb.stats.UpdateSize(rb.occupancy.Load())

	// ALSO track in metrics if enabled
	if rb.metrics != nil {
		rb.metrics.recordWrite(int(rb.occupancy.Load()), rb.capacity)
	}

	// Wake all waiting readers
	rb.notEmpty.Broadcast()
}

// performRead consumes the next slot unless it is the one the writer most
// recently claimed. A colliding read is sacrificed: under DropAlways every
// time, under DropBounded until the consecutive-sacrifice limit is reached,
// after which the read is forced through to keep a stalled writer from
// starving the reader.
func (rb *RingBuffer) performRead(consume ReadFunc) {
	wSlot, started := rb.writeCursor.slot()
	if started && rb.readCursor.next(uint64(rb.capacity)) == wSlot {
		if rb.dropPolicy == DropAlways || rb.droppedReads.Load() < rb.readDropLimit {
			rb.droppedReads.Add(1)

			// ALWAYS track in stats
			rb.stats.SuppressedRead()

			// ALSO track in metrics if enabled
			if rb.metrics != nil {
				rb.metrics.recordSuppressedRead()
			}
			return
		}

		// ALWAYS track in stats
		rb.stats.ForcedRead()

		// ALSO track in metrics if enabled
		if rb.metrics != nil {
			rb.metrics.recordForcedRead()
		}

		if rb.logger != nil {
			rb.logger.Warn("forcing read of slot still claimed by writer",
				"slot", wSlot,
				"read_drop_limit", rb.readDropLimit)
		}
	}
	rb.droppedReads.Store(0)

	slot := rb.readCursor.advance(uint64(rb.capacity))
	off := int(slot) * rb.itemSize
	consume(rb.storage[off : off+rb.itemSize : off+rb.itemSize])
	rb.pop()

	// ALWAYS track in stats
	rb.stats.Read()
	rb.stats.UpdateSize(rb.occupancy.Load())

	// ALSO track in metrics if enabled
	if rb.metrics != nil {
		rb.metrics.recordRead(int(rb.occupancy.Load()), rb.capacity)
	}

	// Wake one waiting writer
	rb.notFull.Signal()
}

// noteReadTimeout records an expired wait in stats and metrics.
func (rb *RingBuffer) noteReadTimeout() {
	// ALWAYS track in stats
	rb.stats.ReadTimeout()

	// ALSO track in metrics if enabled
	if rb.metrics != nil {
		rb.metrics.recordReadTimeout()
	}
}

// push raises the advisory occupancy, saturating at capacity.
func (rb *RingBuffer) push() {
	for {
		cur := rb.occupancy.Load()
		next := cur + 1
		if next > int64(rb.capacity) {
			next = int64(rb.capacity)
		}
		if rb.occupancy.CompareAndSwap(cur, next) {
			return
		}
	}
}

// pop lowers the advisory occupancy, saturating at zero.
func (rb *RingBuffer) pop() {
	for {
		cur := rb.occupancy.Load()
		next := cur - 1
		if next < 0 {
			next = 0
		}
		if rb.occupancy.CompareAndSwap(cur, next) {
			return
		}
	}
}

// resetWriteCursor returns the write cursor to its unstarted state so the
// slot it last claimed becomes readable. Tests use it to drain the final
// item the collision check would otherwise withhold.
func (rb *RingBuffer) resetWriteCursor() {
	rb.writeCursor.reset()
}

// resetReadCursor returns the read cursor to its unstarted state, pointing
// the next read back at slot 0.
func (rb *RingBuffer) resetReadCursor() {
	rb.readCursor.reset()
}
