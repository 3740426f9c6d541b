// Package metrics holds the Prometheus collectors the service exports on
// /metrics. A nil *Metrics is valid and records nothing.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "customerly"

type Metrics struct {
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	feedPublished  *prometheus.CounterVec
	feedReceived   prometheus.Counter
	feedDropped    prometheus.Counter
	wsConnections  prometheus.Gauge
	blobOps        *prometheus.CounterVec
	blobBytes      prometheus.Counter
	overdueTickets prometheus.Gauge
	jobRuns        *prometheus.CounterVec
	emailsSent     *prometheus.CounterVec
}

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		feedPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_changes_published_total",
			Help:      "Change events published by table and op.",
		}, []string{"table", "op"}),
		feedReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_changes_received_total",
			Help:      "Change events received from other instances.",
		}),
		feedDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_frames_dropped_total",
			Help:      "Frames dropped because a subscriber was too slow.",
		}),
		wsConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "realtime_connections",
			Help:      "Open websocket connections.",
		}),
		blobOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blob_operations_total",
			Help:      "Blob store operations by kind and result.",
		}, []string{"op", "result"}),
		blobBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blob_written_bytes_total",
			Help:      "Bytes written to the blob store.",
		}),
		overdueTickets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sla_overdue_tickets",
			Help:      "Tickets past their SLA deadline at the last scan.",
		}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduler_job_runs_total",
			Help:      "Scheduled job runs by job and result.",
		}, []string{"job", "result"}),
		emailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_sent_total",
			Help:      "Reply notification emails by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.httpRequests, m.httpDuration,
		m.feedPublished, m.feedReceived, m.feedDropped, m.wsConnections,
		m.blobOps, m.blobBytes,
		m.overdueTickets, m.jobRuns, m.emailsSent,
	)
	return m
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) FeedPublished(table, op string) {
	if m == nil {
		return
	}
	m.feedPublished.WithLabelValues(table, op).Inc()
}

func (m *Metrics) FeedReceived() {
	if m == nil {
		return
	}
	m.feedReceived.Inc()
}

func (m *Metrics) FrameDropped() {
	if m == nil {
		return
	}
	m.feedDropped.Inc()
}

func (m *Metrics) ConnectionOpened() {
	if m == nil {
		return
	}
	m.wsConnections.Inc()
}

func (m *Metrics) ConnectionClosed() {
	if m == nil {
		return
	}
	m.wsConnections.Dec()
}

func (m *Metrics) BlobOp(op string, err error) {
	if m == nil {
		return
	}
	m.blobOps.WithLabelValues(op, result(err)).Inc()
}

func (m *Metrics) BlobWritten(n int64) {
	if m == nil {
		return
	}
	m.blobBytes.Add(float64(n))
}

// SetOverdueTickets satisfies the SLA scan's observer.
func (m *Metrics) SetOverdueTickets(n int) {
	if m == nil {
		return
	}
	m.overdueTickets.Set(float64(n))
}

func (m *Metrics) JobRun(job string, err error) {
	if m == nil {
		return
	}
	m.jobRuns.WithLabelValues(job, result(err)).Inc()
}

func (m *Metrics) EmailSent(err error) {
	if m == nil {
		return
	}
	m.emailsSent.WithLabelValues(result(err)).Inc()
}
