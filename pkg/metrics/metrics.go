package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-метрик сервиса
// Все методы безопасны для nil-получателя: при выключенных метриках передается nil
type Metrics struct {
	serviceName string

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBQueryErrors     *prometheus.CounterVec
	DBOpenConnections *prometheus.GaugeVec
	DBWaitCount       *prometheus.GaugeVec

	ArbiterDecisions     *prometheus.CounterVec
	ReconcilerReclaimed  *prometheus.CounterVec
	ReconcilerFailures   *prometheus.CounterVec
	ReconcilerLastRunSec *prometheus.GaugeVec
}

// New регистрирует метрики в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry регистрирует метрики в переданном реестре
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	m := &Metrics{
		serviceName: serviceName,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Failed database queries",
		}, []string{"service", "operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections",
			Help: "Database pool connections by state",
		}, []string{"service", "state"}),
		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections_wait_count",
			Help: "Total number of connections waited for",
		}, []string{"service"}),
		ArbiterDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_arbiter_decisions_total",
			Help: "Booking decisions by operation and outcome",
		}, []string{"service", "operation", "outcome"}),
		ReconcilerReclaimed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_reconciler_reclaimed_total",
			Help: "Commitments completed by the expiry reconciler",
		}, []string{"service"}),
		ReconcilerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_reconciler_failures_total",
			Help: "Commitments the expiry reconciler failed to process",
		}, []string{"service"}),
		ReconcilerLastRunSec: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "booking_reconciler_last_run_timestamp_seconds",
			Help: "Unix time of the last finished reconciliation sweep",
		}, []string{"service"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.DBWaitCount,
		m.ArbiterDecisions,
		m.ReconcilerReclaimed,
		m.ReconcilerFailures,
		m.ReconcilerLastRunSec,
	)

	return m
}

// ServiceName значение label service
func (m *Metrics) ServiceName() string {
	if m == nil {
		return ""
	}
	return m.serviceName
}

// RecordDecision учитывает решение арбитра (outcome: "granted" или код ошибки)
func (m *Metrics) RecordDecision(operation, outcome string) {
	if m == nil {
		return
	}
	m.ArbiterDecisions.WithLabelValues(m.serviceName, operation, outcome).Inc()
}

// RecordReconcile учитывает итог прохода реконсилера
func (m *Metrics) RecordReconcile(reclaimed, failed int, finishedAtUnix float64) {
	if m == nil {
		return
	}
	m.ReconcilerReclaimed.WithLabelValues(m.serviceName).Add(float64(reclaimed))
	m.ReconcilerFailures.WithLabelValues(m.serviceName).Add(float64(failed))
	m.ReconcilerLastRunSec.WithLabelValues(m.serviceName).Set(finishedAtUnix)
}
