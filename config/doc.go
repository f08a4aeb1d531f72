// Package config provides configuration management for StreamKit applications.
//
// This package handles loading, validation, and thread-safe access to
// application configuration from JSON files, YAML files, and environment
// variables.
//
// # Core Components
//
// Config: Main configuration structure containing the config version,
// logging settings, the metrics endpoint, and named ring buffer
// definitions.
//
// SafeConfig: Thread-safe wrapper using RWMutex and deep cloning to prevent
// concurrent access issues and accidental mutations.
//
// Loader: Loads configuration with layer merging (base + overrides) and
// environment variable substitution for flexible deployment scenarios.
//
// # Basic Usage
//
// Loading configuration from files with layer merging:
//
//	loader := config.NewLoader()
//	loader.AddLayer("config/base.yaml")
//	loader.AddLayer("config/production.yaml") // Overrides base
//	loader.EnableValidation(true)
//
//	cfg, err := loader.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Building the configured ring buffers:
//
//	registry := metric.NewMetricsRegistry()
//	logger := config.NewLogger(cfg.Logging)
//
//	buffers, err := cfg.BuildBuffers(registry, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	lidar := buffers["lidar"]
//
// # Thread-Safe Access
//
// SafeConfig ensures thread-safe access to configuration:
//
//	safeConfig := config.NewSafeConfig(cfg)
//
//	// Read config (deep copy returned, safe to use)
//	current := safeConfig.Get()
//
//	// Replace config atomically (validated first)
//	if err := safeConfig.Update(next); err != nil {
//		log.Printf("rejected: %v", err)
//	}
//
// # Environment Variable Overrides
//
// Configuration values can be overridden using environment variables:
//
//	# Override log level and format
//	export STREAMKIT_LOG_LEVEL="debug"
//	export STREAMKIT_LOG_FORMAT="text"
//
//	# Override the metrics endpoint
//	export STREAMKIT_METRICS_ENABLED="true"
//	export STREAMKIT_METRICS_PORT="9091"
//
// # Layer Merging
//
// Configuration layers are merged with last-wins semantics:
//
//	base.yaml:
//	  buffers:
//	    lidar: {item_size: 66048, capacity: 16}
//
//	production.yaml:
//	  buffers:
//	    lidar: {capacity: 64}
//
//	Result:
//	  buffers:
//	    lidar: {item_size: 66048, capacity: 64}
//
// A buffer entry appearing for the first time is seeded from
// ringbuf.DefaultConfig, so fields a layer omits keep their defaults.
//
// # Security
//
// The package includes security validation:
//   - File size limits (10MB max) to prevent memory exhaustion
//   - JSON depth validation (100 levels max) to prevent DoS attacks
//   - Path validation to prevent directory traversal
//   - Regular file checks (no symlinks or device files)
//
// # Configuration Structure
//
// The main Config struct contains:
//
//	type Config struct {
//	    Version string                    // Semantic version for update control
//	    Logging LoggingConfig             // slog level and format
//	    Metrics MetricsConfig             // Prometheus endpoint settings
//	    Buffers map[string]ringbuf.Config // Named ring buffer definitions
//	}
package config
