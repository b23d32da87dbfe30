package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.SessionStarted()
	m.SessionStarted()
	m.SessionReset()
	m.AnswerAccepted()
	m.AnswerRejected()
	m.AnswerRejected()
	m.ScreeningCompleted("severe", 18)
	m.ArchiveFailed()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.sessionsStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsReset))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.answers.WithLabelValues("accepted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.answers.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.completions.WithLabelValues("severe")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.archiveFailures))
	assert.Equal(t, 1, testutil.CollectAndCount(m.scores))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/v1/questions", http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `mindwell_http_requests_total{method="GET",route="/v1/questions",status="200"} 1`)
	assert.Contains(t, body, "mindwell_http_request_duration_seconds_bucket")
	assert.Contains(t, body, "go_goroutines")
}
