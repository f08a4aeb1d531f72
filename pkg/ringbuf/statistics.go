package ringbuf

import (
	"sync"
	"sync/atomic"
	"time"
)

// Statistics tracks ring buffer performance metrics.
type Statistics struct {
	// Atomic counters for thread-safe updates
	writes          int64
	reads           int64
	droppedWrites   int64
	overwrites      int64
	suppressedReads int64
	forcedReads     int64
	readTimeouts    int64

	// Protected by mutex
	mu          sync.RWMutex
	startTime   time.Time
	currentSize int64
	maxSize     int64
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	return &Statistics{
		startTime: time.Now(),
	}
}

// Write records a completed slot write.
func (s *Statistics) Write() {
	atomic.AddInt64(&s.writes, 1)
}

// Read records a consumed slot.
func (s *Statistics) Read() {
	atomic.AddInt64(&s.reads, 1)
}

// DroppedWrite records an item rejected by a full ring.
func (s *Statistics) DroppedWrite() {
	atomic.AddInt64(&s.droppedWrites, 1)
}

// Overwrite records a write that reclaimed an unread slot.
func (s *Statistics) Overwrite() {
	atomic.AddInt64(&s.overwrites, 1)
}

// SuppressedRead records a read sacrificed to a colliding writer.
func (s *Statistics) SuppressedRead() {
	atomic.AddInt64(&s.suppressedReads, 1)
}

// ForcedRead records a read pushed through a collision after the sacrifice
// limit was exhausted.
func (s *Statistics) ForcedRead() {
	atomic.AddInt64(&s.forcedReads, 1)
}

// ReadTimeout records a bounded wait that expired before data arrived.
func (s *Statistics) ReadTimeout() {
	atomic.AddInt64(&s.readTimeouts, 1)
}

// UpdateSize updates the current buffer size.
func (s *Statistics) UpdateSize(size int64) {
	s.mu.Lock()
	s.currentSize = size
	if size > s.maxSize {
		s.maxSize = size
	}
	s.mu.Unlock()
}

// Writes returns the total number of completed slot writes.
func (s *Statistics) Writes() int64 {
	return atomic.LoadInt64(&s.writes)
}

// Reads returns the total number of consumed slots.
func (s *Statistics) Reads() int64 {
	return atomic.LoadInt64(&s.reads)
}

// DroppedWrites returns the total number of items rejected by a full ring.
func (s *Statistics) DroppedWrites() int64 {
	return atomic.LoadInt64(&s.droppedWrites)
}

// Overwrites returns the total number of writes that reclaimed unread slots.
func (s *Statistics) Overwrites() int64 {
	return atomic.LoadInt64(&s.overwrites)
}

// SuppressedReads returns the total number of reads sacrificed to colliding
// writers.
func (s *Statistics) SuppressedReads() int64 {
	return atomic.LoadInt64(&s.suppressedReads)
}

// ForcedReads returns the total number of reads pushed through collisions.
func (s *Statistics) ForcedReads() int64 {
	return atomic.LoadInt64(&s.forcedReads)
}

// ReadTimeouts returns the total number of bounded waits that expired.
func (s *Statistics) ReadTimeouts() int64 {
	return atomic.LoadInt64(&s.readTimeouts)
}

// CurrentSize returns the current number of occupied slots.
func (s *Statistics) CurrentSize() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentSize
}

// MaxSize returns the maximum number of slots the ring has held.
func (s *Statistics) MaxSize() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxSize
}

// Throughput returns the average number of writes per second.
func (s *Statistics) Throughput() float64 {
	s.mu.RLock()
	elapsed := time.Since(s.startTime)
	s.mu.RUnlock()

	if elapsed == 0 {
		return 0.0
	}

	totalWrites := s.Writes()
	return float64(totalWrites) / elapsed.Seconds()
}

// ReadThroughput returns the average number of reads per second.
func (s *Statistics) ReadThroughput() float64 {
	s.mu.RLock()
	elapsed := time.Since(s.startTime)
	s.mu.RUnlock()

	if elapsed == 0 {
		return 0.0
	}

	totalReads := s.Reads()
	return float64(totalReads) / elapsed.Seconds()
}

// DropRate returns the percentage of write attempts that were dropped
// (0.0 to 1.0).
func (s *Statistics) DropRate() float64 {
	writes := s.Writes()
	drops := s.DroppedWrites()

	attempts := writes + drops
	if attempts == 0 {
		return 0.0
	}

	return float64(drops) / float64(attempts)
}

// SuppressionRate returns the percentage of read attempts sacrificed to
// colliding writers (0.0 to 1.0).
func (s *Statistics) SuppressionRate() float64 {
	reads := s.Reads()
	suppressed := s.SuppressedReads()

	attempts := reads + suppressed
	if attempts == 0 {
		return 0.0
	}

	return float64(suppressed) / float64(attempts)
}

// Utilization returns the current buffer utilization as a percentage (0.0 to 1.0).
func (s *Statistics) Utilization(capacity int64) float64 {
	if capacity == 0 {
		return 0.0
	}

	currentSize := s.CurrentSize()
	return float64(currentSize) / float64(capacity)
}

// Uptime returns how long the buffer has been running.
func (s *Statistics) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.startTime)
}

// Reset resets all statistics to zero.
func (s *Statistics) Reset() {
	atomic.StoreInt64(&s.writes, 0)
	atomic.StoreInt64(&s.reads, 0)
	atomic.StoreInt64(&s.droppedWrites, 0)
	atomic.StoreInt64(&s.overwrites, 0)
	atomic.StoreInt64(&s.suppressedReads, 0)
	atomic.StoreInt64(&s.forcedReads, 0)
	atomic.StoreInt64(&s.readTimeouts, 0)

	s.mu.Lock()
	s.startTime = time.Now()
	s.currentSize = 0
	s.maxSize = 0
	s.mu.Unlock()
}

// StatsSummary returns a snapshot of all statistics.
type StatsSummary struct {
	Writes          int64         `json:"writes"`
	Reads           int64         `json:"reads"`
	DroppedWrites   int64         `json:"dropped_writes"`
	Overwrites      int64         `json:"overwrites"`
	SuppressedReads int64         `json:"suppressed_reads"`
	ForcedReads     int64         `json:"forced_reads"`
	ReadTimeouts    int64         `json:"read_timeouts"`
	CurrentSize     int64         `json:"current_size"`
	MaxSize         int64         `json:"max_size"`
	Throughput      float64       `json:"throughput"`
	ReadThroughput  float64       `json:"read_throughput"`
	DropRate        float64       `json:"drop_rate"`
	SuppressionRate float64       `json:"suppression_rate"`
	Uptime          time.Duration `json:"uptime"`
}

// Summary returns a snapshot of all statistics.
func (s *Statistics) Summary() StatsSummary {
	return StatsSummary{
		Writes:          s.Writes(),
		Reads:           s.Reads(),
		DroppedWrites:   s.DroppedWrites(),
		Overwrites:      s.Overwrites(),
		SuppressedReads: s.SuppressedReads(),
		ForcedReads:     s.ForcedReads(),
		ReadTimeouts:    s.ReadTimeouts(),
		CurrentSize:     s.CurrentSize(),
		MaxSize:         s.MaxSize(),
		Throughput:      s.Throughput(),
		ReadThroughput:  s.ReadThroughput(),
		DropRate:        s.DropRate(),
		SuppressionRate: s.SuppressionRate(),
		Uptime:          s.Uptime(),
	}
}
