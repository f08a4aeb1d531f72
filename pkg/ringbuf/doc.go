// Package ringbuf provides a fixed-capacity, thread-safe ring of equally
// sized byte slots, with built-in statistics tracking and optional Prometheus
// metrics integration.
//
// # Overview
//
// The ringbuf package implements a byte-oriented ring buffer for moving
// fixed-size records between producers and consumers in concurrent systems.
// Callers never hand items to the ring; instead they pass callbacks that
// fill or consume one slot in place, which keeps the hot path free of
// per-item allocations. The buffer is designed for pipelines that prefer
// losing an occasional record over stalling, so every policy outcome is
// silent at the call site and visible in the statistics.
//
// # Quick Start
//
// Basic buffer creation:
//
//	buf, err := ringbuf.New(66048, 1024)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Produce a record
//	buf.Write(func(slot []byte) {
//		copy(slot, frame)
//	})
//
//	// Consume a record
//	buf.Read(func(slot []byte) {
//		handle(slot)
//	})
//
// With drop policy and metrics:
//
//	buf, err := ringbuf.New(66048, 1024,
//		ringbuf.WithDropPolicy(ringbuf.DropAlways),
//		ringbuf.WithMetrics(registry, "lidar_input"),
//	)
//
// # Write Modes
//
// Three write variants cover the producer-side policies:
//
//   - Write: blocks until the ring reports free space
//   - WriteOverwrite: never waits, reclaiming the oldest unread slot when full
//   - WriteNonblock: never waits, dropping the new item when full
//
// # Read Modes
//
// Three read variants cover the consumer-side policies:
//
//   - Read: blocks until the ring reports data
//   - ReadWithTimeout / ReadWithContext: waits up to a bound, then gives up
//   - ReadNonblock: returns immediately when the ring reports empty
//
// A read that gives up, or is sacrificed to a colliding writer, simply does
// not invoke the callback. The callback not running is the only signal at
// the call site; counts of every outcome are available via Stats().
//
// # Collision Handling
//
// The write path advances the write cursor before the fill callback runs, so
// a slot belongs to the writer from the moment it is claimed until some later
// write claims the next one. The read path refuses to consume the slot the
// write cursor currently rests on, because a fill may still be in flight
// there. How long the reader keeps refusing is the drop policy:
//
//   - DropBounded (default): the reader sacrifices up to the configured
//     limit of consecutive reads, then forces one through. A producer that
//     stops writing mid-ring cannot starve the consumer forever.
//   - DropAlways: the reader never forces a read through. This is the
//     correct pairing for WriteOverwrite, where the writer may genuinely be
//     filling the contested slot at any moment.
//
// The forced read under DropBounded is the one place a consumer can observe
// a slot while a stalled writer still owns it. Pipelines that cannot
// tolerate a torn record should use DropAlways and accept that the last
// written slot stays unreadable until the writer moves on.
//
// # Advisory Occupancy
//
// Size, Full, Empty, and Snapshot report an occupancy counter that writers
// raise after filling and readers lower after consuming. The counter
// saturates at the ring bounds and may trail in-flight operations; it gates
// the blocking variants and feeds observability, but slot safety comes from
// the cursor collision check, not from occupancy.
//
// # Observability Architecture
//
// The package implements a dual-tracking pattern for comprehensive observability:
//
// Statistics (Always On):
//   - Tracks all operations using atomic counters
//   - Zero configuration required
//   - Available via buf.Stats()
//   - Provides computed metrics (throughput, drop rate, utilization)
//   - No external dependencies
//
// Prometheus Metrics (Optional):
//   - Enabled via WithMetrics() option
//   - Exports to Prometheus for time-series monitoring
//   - Includes component labels for instance identification
//   - Standard metric types (Counter, Gauge)
//
// Both layers track independently. Statistics stay available in minimal
// deployments with no Prometheus infrastructure, and provide derived values
// (rates, throughput) that raw counters do not. The overhead of tracking
// twice is a few atomic increments per operation.
//
// # Thread Safety
//
// All operations are safe for concurrent use:
//   - Multiple producers can write concurrently
//   - Multiple consumers can read concurrently
//   - Statistics use atomic operations (lock-free)
//   - The internal mutex backs the condition variables only; the fast paths
//     (overwrite and nonblocking variants) never take it
//
// Wakeups for the blocking variants are best effort. A writer publishing
// between a reader's emptiness check and its wait can slip a notification
// past the reader; the next write wakes it. Use the bounded-wait read
// variants where unbounded parking is unacceptable.
//
// # Configuration
//
// Buffers can be built from declarative configuration:
//
//	cfg := ringbuf.Config{
//		ItemSize:   66048,
//		Capacity:   1024,
//		DropPolicy: ringbuf.PolicyAlways,
//	}
//	buf, err := ringbuf.NewFromConfig(cfg, ringbuf.WithMetrics(registry, "lidar_input"))
//
// # Performance Characteristics
//
// Operations:
//   - Write/Read: O(1) constant time plus the callback
//   - WriteOverwrite/WriteNonblock/ReadNonblock: O(1), lock-free
//   - Size/Full/Empty/Snapshot: O(1), atomic loads only
//
// Memory:
//   - One contiguous allocation of ItemSize * Capacity bytes
//   - No dynamic allocations during operation
//   - Statistics overhead: ~200 bytes
//   - Metrics overhead: ~1KB when enabled
//
// # Common Use Cases
//
// Sensor frame buffering:
//
//	lidarBuffer, _ := ringbuf.New(66048, 1024,
//		ringbuf.WithDropPolicy(ringbuf.DropAlways),
//		ringbuf.WithMetrics(registry, "lidar_input"),
//	)
//	// producer: lidarBuffer.WriteOverwrite(fillFrame)
//	// consumer: lidarBuffer.ReadWithTimeout(publishFrame, 50*time.Millisecond)
//
// Packet capture with backpressure:
//
//	pcapBuffer, _ := ringbuf.New(2048, 4096)
//	// producer: pcapBuffer.Write(fillPacket)
//	// consumer: pcapBuffer.Read(decodePacket)
//
// Lossy telemetry fan-in:
//
//	telemetryBuffer, _ := ringbuf.New(256, 512)
//	// producers: telemetryBuffer.WriteNonblock(fillSample)
//
// # Testing
//
// The package includes comprehensive tests with race detection:
//
//	go test -race ./pkg/ringbuf
//
// Benchmarks are available to validate performance:
//
//	go test -bench=. ./pkg/ringbuf
package ringbuf
