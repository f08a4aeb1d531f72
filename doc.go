// Package streamkit provides fixed-capacity byte ring buffers for real-time
// data streams, with the configuration, logging, and metrics plumbing needed
// to run them in production.
//
// # Philosophy: Bounded Memory, Explicit Loss
//
// StreamKit is built for pipelines where the producer cannot be paused and
// memory cannot grow: sensor frames, packet capture, telemetry fan-in. All
// storage is allocated once at construction. When producer and consumer
// rates diverge, something must give, and StreamKit makes the choice
// explicit per call site:
//
//   - Block until the other side catches up
//   - Overwrite the oldest unread data
//   - Drop the newest item on the floor
//
// Every outcome is counted, so lossy modes are observable even though the
// write and read calls themselves stay silent.
//
// # Architecture
//
//	┌──────────────┐  fill(slot)   ┌───────────────────────┐
//	│  Producers   ├──────────────→│      RingBuffer       │
//	│ (Write,      │               │  [slot][slot][slot]…  │
//	│  Overwrite,  │               │   fixed item size,    │
//	│  Nonblock)   │               │   fixed capacity      │
//	└──────────────┘               └───────────┬───────────┘
//	                                           │ consume(slot)
//	                               ┌───────────▼───────────┐
//	                               │      Consumers        │
//	                               │ (Read, Nonblock,      │
//	                               │  Timeout, Context)    │
//	                               └───────────────────────┘
//	                    ┌──────────────────┴──────────────────┐
//	                    │   Statistics (always) + Prometheus  │
//	                    │   metrics (optional, per buffer)    │
//	                    └─────────────────────────────────────┘
//
// Callbacks receive the slot storage directly. Producers fill slots in
// place and consumers read them in place, so steady-state operation does
// no allocation and no copying beyond what the callbacks choose to do.
//
// # Framework Packages
//
// Core:
//   - pkg/ringbuf: Thread-safe fixed-capacity ring buffer with blocking,
//     overwriting, and dropping write/read modes
//
// Infrastructure:
//   - config: Layered JSON/YAML configuration, environment overrides,
//     buffer construction from config
//   - metric: Prometheus registry, platform metrics, exposition server
//   - errors: Structured error classification (transient, invalid, fatal)
//
// # Usage Patterns
//
// Direct construction:
//
//	buf, err := ringbuf.New(66048, 16)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Producer: overwrite oldest when the consumer lags
//	buf.WriteOverwrite(func(slot []byte) {
//	    copy(slot, frame)
//	})
//
//	// Consumer: wait briefly, then do something else
//	buf.ReadWithTimeout(func(slot []byte) {
//	    process(slot)
//	}, 50*time.Millisecond)
//
// Configuration-driven:
//
//	loader := config.NewLoader()
//	loader.AddLayer("config/base.yaml")
//	loader.AddLayer("config/production.yaml")
//	loader.EnableValidation(true)
//	cfg, err := loader.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry := metric.NewMetricsRegistry()
//	logger := config.NewLogger(cfg.Logging)
//
//	buffers, err := cfg.BuildBuffers(registry, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if cfg.Metrics.Enabled {
//	    server := metric.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, registry)
//	    go func() {
//	        if err := server.Start(); err != nil {
//	            log.Printf("metrics server: %v", err)
//	        }
//	    }()
//	    defer server.Stop()
//	}
//
// # Design Principles
//
// Bounded by construction:
//   - All slot storage allocated up front
//   - Occupancy counters saturate instead of growing
//   - No queues hidden behind the API
//
// Silent policy outcomes:
//   - Lossy writes and reads signal only through the callback not running
//   - Counters and metrics carry the loss accounting
//   - Errors are reserved for construction and configuration
//
// Observability split:
//   - Statistics are always on and cost a few atomics per operation
//   - Prometheus metrics are opt-in per buffer via a shared registry
//
// Testability:
//   - Explicit dependencies (no globals)
//   - Deterministic single-threaded behavior for sequenced tests
//   - Race-detector-clean concurrent paths
package streamkit
