package ringbuf

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/streamkit/metric"
)

// ringMetrics holds Prometheus metrics for ring buffer operations.
type ringMetrics struct {
	// Counter metrics - directly incremented without stats duplication
	writes          prometheus.Counter
	reads           prometheus.Counter
	droppedWrites   prometheus.Counter
	overwrites      prometheus.Counter
	suppressedReads prometheus.Counter
	forcedReads     prometheus.Counter
	readTimeouts    prometheus.Counter

	// Gauge metrics - updated on operations
	size        prometheus.Gauge
	utilization prometheus.Gauge
}

// newRingMetrics creates and registers ring buffer metrics with the provided registry.
func newRingMetrics(registry *metric.MetricsRegistry, prefix string) (*ringMetrics, error) {
	m := &ringMetrics{
		writes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "streamkit",
			Subsystem:   "ringbuf",
			Name:        "writes_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of completed slot writes",
		}),
		reads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "streamkit",
			Subsystem:   "ringbuf",
			Name:        "reads_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of consumed slots",
		}),
		droppedWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "streamkit",
			Subsystem:   "ringbuf",
			Name:        "dropped_writes_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of items rejected by a full ring",
		}),
		overwrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "streamkit",
			Subsystem:   "ringbuf",
			Name:        "overwrites_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of writes that reclaimed unread slots",
		}),
		suppressedReads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "streamkit",
			Subsystem:   "ringbuf",
			Name:        "suppressed_reads_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of reads sacrificed to colliding writers",
		}),
		forcedReads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "streamkit",
			Subsystem:   "ringbuf",
			Name:        "forced_reads_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of reads pushed through collisions",
		}),
		readTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "streamkit",
			Subsystem:   "ringbuf",
			Name:        "read_timeouts_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of bounded waits that expired before data arrived",
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "streamkit",
			Subsystem:   "ringbuf",
			Name:        "size",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Current number of occupied slots",
		}),
		utilization: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "streamkit",
			Subsystem:   "ringbuf",
			Name:        "utilization",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Ring buffer utilization as a percentage (0.0 to 1.0)",
		}),
	}

	// Register all metrics with the registry
	if err := registry.RegisterCounter(prefix, "ringbuf_writes", m.writes); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "ringbuf_reads", m.reads); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "ringbuf_dropped_writes", m.droppedWrites); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "ringbuf_overwrites", m.overwrites); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "ringbuf_suppressed_reads", m.suppressedReads); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "ringbuf_forced_reads", m.forcedReads); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "ringbuf_read_timeouts", m.readTimeouts); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge(prefix, "ringbuf_size", m.size); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge(prefix, "ringbuf_utilization", m.utilization); err != nil {
		return nil, err
	}

	return m, nil
}

// recordWrite increments the write counter and updates size/utilization.
func (m *ringMetrics) recordWrite(size, capacity int) {
	m.writes.Inc()
	m.size.Set(float64(size))
	m.utilization.Set(float64(size) / float64(capacity))
}

// recordRead increments the read counter and updates size/utilization.
func (m *ringMetrics) recordRead(size, capacity int) {
	m.reads.Inc()
	m.size.Set(float64(size))
	m.utilization.Set(float64(size) / float64(capacity))
}

// recordDroppedWrite increments the dropped write counter.
func (m *ringMetrics) recordDroppedWrite() {
	m.droppedWrites.Inc()
}

// recordOverwrite increments the overwrite counter.
func (m *ringMetrics) recordOverwrite() {
	m.overwrites.Inc()
}

// recordSuppressedRead increments the suppressed read counter.
func (m *ringMetrics) recordSuppressedRead() {
	m.suppressedReads.Inc()
}

// recordForcedRead increments the forced read counter.
func (m *ringMetrics) recordForcedRead() {
	m.forcedReads.Inc()
}

// recordReadTimeout increments the read timeout counter.
func (m *ringMetrics) recordReadTimeout() {
	m.readTimeouts.Inc()
}
