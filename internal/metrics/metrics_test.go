package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fancywatch/watchos/kernel"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCycleDoneUpdatesMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.CycleDone(kernel.CycleStats{Events: 3, Filtered: 1, Rendered: 2, Apps: 4, Busy: 40 * time.Millisecond, Overrun: true, Active: true})
	m.CycleDone(kernel.CycleStats{Apps: 4, PresentFailed: true})

	assert.Equal(t, 3.0, testutil.ToFloat64(m.Events.WithLabelValues("delivered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Events.WithLabelValues("filtered")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Rendered))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Overruns))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PresentErrors))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.Apps))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Active))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Cycles.WithLabelValues("active")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Cycles.WithLabelValues("sleep")))
}

func TestPowerAndDrops(t *testing.T) {
	m := New(nil)
	m.PowerStateChanged(false)
	m.PowerStateChanged(true)
	m.PowerStateChanged(false)
	m.EventsDropped(5)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PowerChanges.WithLabelValues("sleep")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PowerChanges.WithLabelValues("active")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.Events.WithLabelValues("dropped")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New(nil)
	m.CycleDone(kernel.CycleStats{Active: true, Busy: time.Millisecond})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "watch_cycle_busy_seconds_count 1"), body)
	assert.True(t, strings.Contains(body, `watch_cycles_total{state="active"} 1`), body)
}
