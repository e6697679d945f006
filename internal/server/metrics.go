package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const metricsNamespace = "upserver"

// Metrics holds server runtime counters
type Metrics struct {
	ConnectionsAccepted prometheus.Counter
	ResponsesTotal      prometheus.Counter
	EmptyRequests       prometheus.Counter
	AcceptErrors        prometheus.Counter
	WriteErrors         prometheus.Counter
	ExchangeDuration    prometheus.Histogram
}

// NewMetrics registers the server's metrics on reg. A nil reg keeps them
// unregistered, which is what tests that never scrape want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ConnectionsAccepted: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "connections_accepted_total",
			Help:      "Connections returned by the listener.",
		}),
		ResponsesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "responses_total",
			Help:      "Responses written in full.",
		}),
		EmptyRequests: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "empty_requests_total",
			Help:      "Connections closed without a request line.",
		}),
		AcceptErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "accept_errors_total",
			Help:      "Errors returned by the listener while accepting.",
		}),
		WriteErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "write_errors_total",
			Help:      "Responses that failed while being written.",
		}),
		ExchangeDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "exchange_duration_seconds",
			Help:      "Time from accept to close for one connection.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// RecordExchange records one finished connection
func (m *Metrics) RecordExchange(responded bool, writeErr error, duration time.Duration) {
	switch {
	case writeErr != nil:
		m.WriteErrors.Inc()
	case responded:
		m.ResponsesTotal.Inc()
	default:
		m.EmptyRequests.Inc()
	}
	m.ExchangeDuration.Observe(duration.Seconds())
}

// MetricsSnapshot is a plain copy of the counters
type MetricsSnapshot struct {
	ConnectionsAccepted int64
	ResponsesTotal      int64
	EmptyRequests       int64
	AcceptErrors        int64
	WriteErrors         int64
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		ConnectionsAccepted: counterValue(m.ConnectionsAccepted),
		ResponsesTotal:      counterValue(m.ResponsesTotal),
		EmptyRequests:       counterValue(m.EmptyRequests),
		AcceptErrors:        counterValue(m.AcceptErrors),
		WriteErrors:         counterValue(m.WriteErrors),
	}
}

func counterValue(c prometheus.Counter) int64 {
	var pb dto.Metric
	if err := c.Write(&pb); err != nil {
		return 0
	}
	return int64(pb.GetCounter().GetValue())
}
