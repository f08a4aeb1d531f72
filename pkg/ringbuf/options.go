package ringbuf

import (
	"log/slog"

	"github.com/c360/streamkit/metric"
)

// Option configures ring buffer behavior using the functional options pattern.
// This provides a clean, extensible API for configuring buffers.
type Option func(*ringOptions)

// ringOptions holds internal configuration for ring buffer instances.
// Stats are ALWAYS collected - they are not optional.
// Metrics are optional and exposed via WithMetrics().
type ringOptions struct {
	dropPolicy    DropPolicy
	readDropLimit int

	// metricsReg is optional - if provided, buffer stats are also exposed as Prometheus metrics
	metricsReg *metric.MetricsRegistry

	// metricsPrefix is used as the component label for Prometheus metrics
	metricsPrefix string

	// logger is optional - if provided, forced reads are logged at warn level
	logger *slog.Logger
}

// WithDropPolicy sets the read drop behavior for slots contested with the
// writer. Defaults to DropBounded if not specified.
func WithDropPolicy(policy DropPolicy) Option {
	return func(opts *ringOptions) {
		opts.dropPolicy = policy
	}
}

// WithReadDropLimit sets how many consecutive reads DropBounded sacrifices
// to a colliding writer before forcing one through. A limit of zero disables
// suppression entirely. Negative limits are ignored, as is the limit under
// DropAlways.
func WithReadDropLimit(limit int) Option {
	return func(opts *ringOptions) {
		if limit >= 0 {
			opts.readDropLimit = limit
		}
	}
}

// WithMetrics enables Prometheus metrics export for buffer statistics.
// If registry is nil, this option is ignored.
// Registry should not be nil in normal usage - this handles edge cases gracefully.
func WithMetrics(registry *metric.MetricsRegistry, prefix string) Option {
	return func(opts *ringOptions) {
		if registry != nil && prefix != "" {
			opts.metricsReg = registry
			opts.metricsPrefix = prefix
		}
	}
}

// WithLogger attaches a structured logger used to surface forced reads.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *ringOptions) {
		opts.logger = logger
	}
}

// applyOptions applies functional options to create final buffer configuration.
// This is an internal helper used by buffer constructors.
func applyOptions(options ...Option) *ringOptions {
	opts := &ringOptions{
		// Default values
		dropPolicy:    DropBounded,
		readDropLimit: DefaultReadDropLimit,
	}

	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}

	return opts
}
