package config

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/c360/streamkit/metric"
	"github.com/c360/streamkit/pkg/ringbuf"
)

// BuildBuffers constructs every ring buffer named in the configuration,
// keyed by buffer name. When a registry is supplied each buffer registers
// its own metrics under its name and the platform-level inventory gauges
// are updated. Buffers are built in name order so registration failures
// are deterministic.
//
// A nil registry skips metrics entirely; a nil logger leaves the buffers
// silent.
func (c *Config) BuildBuffers(registry *metric.MetricsRegistry, logger *slog.Logger) (map[string]*ringbuf.RingBuffer, error) {
	names := make([]string, 0, len(c.Buffers))
	for name := range c.Buffers {
		names = append(names, name)
	}
	sort.Strings(names)

	buffers := make(map[string]*ringbuf.RingBuffer, len(names))
	for _, name := range names {
		bufCfg := c.Buffers[name]

		var opts []ringbuf.Option
		if logger != nil {
			opts = append(opts, ringbuf.WithLogger(logger.With("buffer", name)))
		}
		if registry != nil {
			opts = append(opts, ringbuf.WithMetrics(registry, name))
		}

		buf, err := ringbuf.NewFromConfig(bufCfg, opts...)
		if err != nil {
			return nil, fmt.Errorf("buffer %s: %w", name, err)
		}
		buffers[name] = buf

		if registry != nil {
			registry.CoreMetrics().RecordBufferConfigured(name, bufCfg.Capacity, bufCfg.ItemSize)
		}
	}

	if registry != nil {
		registry.CoreMetrics().SetBuffersConfigured(len(buffers))
		if c.Version != "" {
			registry.CoreMetrics().RecordConfigVersion(c.Version)
		}
	}

	return buffers, nil
}
