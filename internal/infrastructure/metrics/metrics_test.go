package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveHTTP("GET", "/api/v1/tickets", 200, 10*time.Millisecond)
	m.ObserveHTTP("GET", "/api/v1/tickets", 200, 20*time.Millisecond)
	m.FeedPublished("tickets", "upsert")
	m.BlobOp("put", nil)
	m.BlobOp("put", errors.New("disk full"))
	m.BlobWritten(512)
	m.SetOverdueTickets(3)
	m.ConnectionOpened()
	m.ConnectionOpened()
	m.ConnectionClosed()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/tickets", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.feedPublished.WithLabelValues("tickets", "upsert")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.blobOps.WithLabelValues("put", "error")))
	assert.Equal(t, 512.0, testutil.ToFloat64(m.blobBytes))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.overdueTickets))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.wsConnections))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTP("GET", "/", 200, time.Millisecond)
		m.FeedPublished("tickets", "delete")
		m.FeedReceived()
		m.FrameDropped()
		m.SetOverdueTickets(1)
		m.JobRun("sla_scan", nil)
		m.EmailSent(nil)
	})
}
