package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountersAndHandler(t *testing.T) {
	m := New()

	m.StatusTransitions.WithLabelValues("taken").Inc()
	m.StatusTransitions.WithLabelValues("taken").Inc()
	m.SaveFailures.Inc()
	m.RecurringTriggers.Set(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.StatusTransitions.WithLabelValues("taken")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SaveFailures))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.RecurringTriggers))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "medrem_dose_status_transitions_total")
	assert.Contains(t, string(body), "medrem_snapshot_save_failures_total 1")
}
