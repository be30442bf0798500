package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	assert.NotPanics(t, func() {
		r.IncEvent("start")
		r.IncIgnored("digit")
		r.ObserveRun("timer", "finished", time.Minute)
		r.SetRunning(true)
	})
}

func TestPrometheusRecorderCounts(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncEvent("start")
	pr.IncEvent("start")
	pr.IncIgnored("digit")
	pr.SetRunning(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(pr.events.WithLabelValues("start")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.ignored.WithLabelValues("digit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.running))

	pr.SetRunning(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(pr.running))
}

func TestPrometheusHandler(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.ObserveRun("timer", "finished", 5*time.Minute)

	rec := httptest.NewRecorder()
	pr.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "tock_run_duration_seconds_count"), body)
}
