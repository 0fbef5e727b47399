package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Recorder = (*PrometheusRecorder)(nil)
var _ Recorder = NoopRecorder{}

func TestPrometheusRecorderCounts(t *testing.T) {
	pr := NewPrometheusRecorder(prom.NewRegistry())

	pr.IncScrollEvent()
	pr.IncScrollEvent()
	pr.IncActiveSection("about")
	pr.IncReveal("projects")
	pr.IncViewOpened()
	pr.IncViewClosed(CloseIdle)
	pr.SetOpenViews(3)
	pr.IncContact(OutcomeSent)
	pr.ObserveContactDuration(40 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(pr.scrollEvents))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.activeSections.WithLabelValues("about")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.reveals.WithLabelValues("projects")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.viewsClosed.WithLabelValues("idle")))
	assert.Equal(t, 3.0, testutil.ToFloat64(pr.openViews))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.contactOutcomes.WithLabelValues("sent")))
}

func TestPrometheusRecorderNilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.IncScrollEvent()
		pr.IncContact(OutcomeFailed)
		pr.SetOpenViews(1)
	})
}

func TestPrometheusHandlerExposesMetrics(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncViewOpened()

	rec := httptest.NewRecorder()
	pr.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "folio_views_opened_total"))
}
