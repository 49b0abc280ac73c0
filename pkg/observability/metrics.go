package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "calform"

// Outcome labels.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeHit     = "hit"
	OutcomeMiss    = "miss"
	OutcomeClosed  = "closed"
	OutcomeAborted = "aborted"
	OutcomeFailed  = "failed"
)

// Validation kinds.
const (
	ValidationFull    = "full"
	ValidationPartial = "partial"
)

// Metrics groups the collectors exported by the engine.
type Metrics struct {
	storeWrites    *prometheus.CounterVec
	storeReads     *prometheus.CounterVec
	validations    *prometheus.CounterVec
	groupSettles   *prometheus.CounterVec
	exportSessions *prometheus.CounterVec
	exportBytes    prometheus.Counter
	activeExports  prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// Pass prometheus.NewRegistry() in tests to avoid global state.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		storeWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "writes_total",
			Help:      "Field writes to the durable medium by outcome.",
		}, []string{"outcome"}),
		storeReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "reads_total",
			Help:      "Field reads from the durable medium by outcome.",
		}, []string{"outcome"}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "staging",
			Name:      "validations_total",
			Help:      "Validation callbacks invoked by kind.",
		}, []string{"kind"}),
		groupSettles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "staging",
			Name:      "group_settles_total",
			Help:      "Dependent group transitions from editing back to settled.",
		}, []string{"group"}),
		exportSessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "sessions_total",
			Help:      "Export sessions by final outcome.",
		}, []string{"outcome"}),
		exportBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "bytes_total",
			Help:      "Bytes forwarded to export sinks.",
		}),
		activeExports: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "active_sessions",
			Help:      "Export sessions currently owning a sink.",
		}),
	}

	collectors := []prometheus.Collector{
		m.storeWrites, m.storeReads, m.validations, m.groupSettles,
		m.exportSessions, m.exportBytes, m.activeExports,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// StoreWrite records one write to the medium.
func (m *Metrics) StoreWrite(outcome string) {
	if m == nil {
		return
	}
	m.storeWrites.WithLabelValues(outcome).Inc()
}

// StoreRead records one read from the medium.
func (m *Metrics) StoreRead(outcome string) {
	if m == nil {
		return
	}
	m.storeReads.WithLabelValues(outcome).Inc()
}

// Validation records one validation callback.
func (m *Metrics) Validation(kind string) {
	if m == nil {
		return
	}
	m.validations.WithLabelValues(kind).Inc()
}

// GroupSettled records a settle transition of group.
func (m *Metrics) GroupSettled(group string) {
	if m == nil {
		return
	}
	m.groupSettles.WithLabelValues(group).Inc()
}

// ExportStarted records a session acquiring its sink.
func (m *Metrics) ExportStarted() {
	if m == nil {
		return
	}
	m.activeExports.Inc()
}

// ExportEnded records a session releasing its sink with outcome.
func (m *Metrics) ExportEnded(outcome string) {
	if m == nil {
		return
	}
	m.activeExports.Dec()
	m.exportSessions.WithLabelValues(outcome).Inc()
}

// ExportBytes records n bytes forwarded to a sink.
func (m *Metrics) ExportBytes(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.exportBytes.Add(float64(n))
}
