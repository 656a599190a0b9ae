package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the Prometheus collectors for one service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	bidsAccepted    prometheus.Counter
	bidsRejected    *prometheus.CounterVec
	blobCleanup     *prometheus.CounterVec
	operationTime   *prometheus.HistogramVec
	liveSubscribers prometheus.Gauge
}

// NewMetrics registers the catalog collectors on a private registry
func NewMetrics(serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		bidsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "catalog",
			Subsystem:   "bids",
			Name:        "accepted_total",
			Help:        "Bids appended to the ledger.",
			ConstLabels: labels,
		}),
		bidsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "catalog",
			Subsystem:   "bids",
			Name:        "rejected_total",
			Help:        "Bids rejected by business rules, by reason.",
			ConstLabels: labels,
		}, []string{"reason"}),
		blobCleanup: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "catalog",
			Subsystem:   "blobs",
			Name:        "cleanup_total",
			Help:        "Blob deletions attempted after record deletes, by result.",
			ConstLabels: labels,
		}, []string{"result"}),
		operationTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "catalog",
			Name:        "operation_duration_seconds",
			Help:        "Duration of catalog operations.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"operation"}),
		liveSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "catalog",
			Subsystem:   "livebids",
			Name:        "subscribers",
			Help:        "Connected live bid websocket clients.",
			ConstLabels: labels,
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.bidsAccepted,
		m.bidsRejected,
		m.blobCleanup,
		m.operationTime,
		m.liveSubscribers,
	)

	return m
}

// Registry exposes the registry for the /metrics handler and tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) BidAccepted() {
	if m == nil {
		return
	}
	m.bidsAccepted.Inc()
}

func (m *Metrics) BidRejected(reason string) {
	if m == nil {
		return
	}
	m.bidsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) BlobCleanup(result string) {
	if m == nil {
		return
	}
	m.blobCleanup.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveOperation(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.operationTime.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) SetLiveSubscribers(n int) {
	if m == nil {
		return
	}
	m.liveSubscribers.Set(float64(n))
}
