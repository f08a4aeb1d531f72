package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all platform-level metrics (not buffer-specific)
type Metrics struct {
	// Buffer inventory metrics
	BuffersConfigured prometheus.Gauge
	BufferCapacity    *prometheus.GaugeVec
	BufferSlotSize    *prometheus.GaugeVec

	// Configuration metrics
	ConfigInfo *prometheus.GaugeVec
}

// NewMetrics creates a new Metrics instance with all platform metrics
func NewMetrics() *Metrics {
	return &Metrics{
		// Buffer inventory metrics
		BuffersConfigured: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "streamkit",
				Subsystem: "buffers",
				Name:      "configured",
				Help:      "Number of ring buffers built from the active configuration",
			},
		),

		BufferCapacity: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "streamkit",
				Subsystem: "buffers",
				Name:      "capacity_slots",
				Help:      "Configured slot capacity per ring buffer",
			},
			[]string{"buffer"},
		),

		BufferSlotSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "streamkit",
				Subsystem: "buffers",
				Name:      "slot_size_bytes",
				Help:      "Configured slot size in bytes per ring buffer",
			},
			[]string{"buffer"},
		),

		// Configuration metrics
		ConfigInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "streamkit",
				Subsystem: "config",
				Name:      "info",
				Help:      "Active configuration version (value is always 1)",
			},
			[]string{"version"},
		),
	}
}

// RecordBufferConfigured records the shape of a ring buffer built from configuration
func (c *Metrics) RecordBufferConfigured(buffer string, capacity, slotSize int) {
	c.BufferCapacity.WithLabelValues(buffer).Set(float64(capacity))
	c.BufferSlotSize.WithLabelValues(buffer).Set(float64(slotSize))
}

// SetBuffersConfigured updates the count of configured buffers
func (c *Metrics) SetBuffersConfigured(count int) {
	c.BuffersConfigured.Set(float64(count))
}

// RecordConfigVersion records the active configuration version
func (c *Metrics) RecordConfigVersion(version string) {
	c.ConfigInfo.Reset()
	c.ConfigInfo.WithLabelValues(version).Set(1)
}
