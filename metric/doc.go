// Package metric provides Prometheus-based metrics collection and HTTP server
// for StreamKit monitoring and observability.
//
// The package offers a centralized metrics registry managing both core platform
// metrics (buffer inventory, configuration version) and custom component-specific
// metrics. It includes an HTTP server exposing metrics in Prometheus format for
// monitoring system integration.
//
// # Architecture
//
// The package follows a three-layer design:
//
//  1. Core Metrics: Platform-level metrics automatically registered (Metrics type)
//  2. Component Registry: Extensible registration for component-specific metrics (MetricsRegistrar interface)
//  3. HTTP Server: Metrics endpoint with health checks (Server type)
//
// This architecture separates infrastructure concerns (core metrics) from
// application concerns (component-specific metrics) while providing a unified
// metrics endpoint for monitoring systems.
//
// # Basic Usage
//
// Setting up metrics collection and HTTP server:
//
//	registry := metric.NewMetricsRegistry()
//	server := metric.NewServer(9090, "/metrics", registry)
//
//	go func() {
//	    if err := server.Start(); err != nil {
//	        log.Printf("Metrics server error: %v", err)
//	    }
//	}()
//	defer server.Stop()
//
//	// Record core platform metrics
//	coreMetrics := registry.CoreMetrics()
//	coreMetrics.SetBuffersConfigured(3)
//	coreMetrics.RecordBufferConfigured("lidar", 1024, 66048)
//	coreMetrics.RecordConfigVersion("1.0.0")
//
// The metrics server will expose Prometheus-formatted metrics at http://localhost:9090/metrics
// and a health check at http://localhost:9090/health.
//
// # Core Metrics
//
// The package automatically registers core platform metrics tracking:
//
//   - Buffer inventory: buffers_configured, buffers_capacity_slots, buffers_slot_size_bytes
//   - Configuration: config_info (version label, value always 1)
//   - Go runtime: standard go_* and process_* collectors
//
// Access core metrics through the registry:
//
//	coreMetrics := registry.CoreMetrics()
//
//	// Buffer inventory tracking
//	coreMetrics.SetBuffersConfigured(2)
//	coreMetrics.RecordBufferConfigured("imu", 512, 48)
//
//	// Configuration tracking
//	coreMetrics.RecordConfigVersion("1.2.0")
//
// # Component-Specific Metrics
//
// Components can register custom metrics through the registry:
//
//	// Register a counter
//	writeCounter := prometheus.NewCounter(prometheus.CounterOpts{
//	    Name: "writes_total",
//	    Help: "Total number of writes",
//	})
//	err := registry.RegisterCounter("lidar-buffer", "writes_total", writeCounter)
//
//	// Register a gauge
//	occupancy := prometheus.NewGauge(prometheus.GaugeOpts{
//	    Name: "occupancy",
//	    Help: "Current number of occupied slots",
//	})
//	err = registry.RegisterGauge("lidar-buffer", "occupancy", occupancy)
//
// # MetricsRegistrar Interface
//
// Components accept the MetricsRegistrar interface for dependency injection:
//
//	type MyComponent struct {
//	    metrics metric.MetricsRegistrar
//	}
//
//	func NewMyComponent(metrics metric.MetricsRegistrar) *MyComponent {
//	    counter := prometheus.NewCounter(prometheus.CounterOpts{
//	        Name: "operations_total",
//	        Help: "Total operations",
//	    })
//	    metrics.RegisterCounter("my-component", "operations_total", counter)
//
//	    return &MyComponent{metrics: metrics}
//	}
//
// This enables testing with mock registrars and provides loose coupling.
//
// # HTTP Server
//
// The metrics server provides three endpoints:
//
//   - GET / - HTML page with links to metrics and health endpoints
//   - GET /metrics - Prometheus-formatted metrics (default path, configurable)
//   - GET /health - plain health check response
//
// Server configuration:
//
//	// Default configuration (port 9090, path /metrics)
//	server := metric.NewServer(0, "", registry)
//
//	// Custom configuration
//	server := metric.NewServer(8080, "/prometheus", registry)
//
//	// Start server (blocking)
//	if err := server.Start(); err != nil {
//	    log.Fatalf("Failed to start metrics server: %v", err)
//	}
//
//	// Stop server (in another goroutine)
//	if err := server.Stop(); err != nil {
//	    log.Printf("Error stopping server: %v", err)
//	}
//
// # Prometheus Integration
//
// The package uses the official Prometheus Go client library and exposes
// metrics in OpenMetrics format. Configure Prometheus to scrape the endpoint:
//
//	# prometheus.yml
//	scrape_configs:
//	  - job_name: 'streamkit'
//	    static_configs:
//	      - targets: ['localhost:9090']
//	    metrics_path: '/metrics'
//	    scrape_interval: 15s
//
// All core metrics use the namespace "streamkit" and appropriate subsystems:
//   - streamkit_buffers_configured
//   - streamkit_buffers_capacity_slots{buffer="..."}
//   - streamkit_config_info{version="..."}
//
// Component-specific metrics use the metric name as provided during registration.
//
// # Thread Safety
//
// All registry operations are thread-safe:
//   - Registration methods use mutex protection
//   - Metric recording is lock-free (Prometheus guarantee)
//   - CoreMetrics() returns a thread-safe shared instance
//   - PrometheusRegistry() is safe for concurrent access
//
// # Error Handling
//
// Registration methods return errors for:
//
//   - Duplicate registration: attempting to register same metric name twice
//   - Prometheus conflicts: internal Prometheus registration failures
//
// The Server.Start() method returns errors for:
//
//   - Server already running
//   - Nil registry
//   - HTTP server failures (port in use, permission denied)
//
// # Design Decisions
//
// Centralized Registry: Chose centralized registry over distributed collectors
// to ensure consistent metric namespace, prevent duplication, and enable
// runtime metric discovery.
//
// Core vs Component Metrics: Separated platform-level metrics (core) from
// component-specific metrics to distinguish infrastructure health from
// application health.
//
// Prometheus Direct Integration: Used official Prometheus client rather than
// abstraction to leverage native features, avoid wrapper overhead, and ensure
// compatibility with Prometheus ecosystem.
//
// No Context in Server.Start(): Current design uses blocking Start() without
// context. Future enhancement could add context-aware lifecycle management.
package metric
