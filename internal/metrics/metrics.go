// Package metrics exposes Prometheus collectors for ledger activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ledger"

// Metrics holds the collectors recorded by the services and the RPC
// interceptor. Each instance owns its registry so tests can create as many
// as they need.
type Metrics struct {
	registry *prometheus.Registry

	RPCDuration       *prometheus.HistogramVec
	ExpensesRecorded  *prometheus.CounterVec
	TransfersRecorded *prometheus.CounterVec
	SplitsRejected    prometheus.Counter
	MembersRemoved    *prometheus.CounterVec
}

// New creates and registers the ledger collectors together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Duration of RPC calls by procedure and Connect code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
		ExpensesRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_recorded_total",
			Help:      "Expenses created, by split method.",
		}, []string{"split_method"}),
		TransfersRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_recorded_total",
			Help:      "Balance transfers recorded, by kind.",
		}, []string{"kind"}),
		SplitsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "splits_rejected_total",
			Help:      "Split configurations rejected as invalid.",
		}),
		MembersRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "members_removed_total",
			Help:      "Members removed from groups, by removal policy.",
		}, []string{"policy"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RPCDuration,
		m.ExpensesRecorded,
		m.TransfersRecorded,
		m.SplitsRejected,
		m.MembersRemoved,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
