package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "folio"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg             *prom.Registry
	scrollEvents    prom.Counter
	activeSections  *prom.CounterVec
	reveals         *prom.CounterVec
	viewsOpened     prom.Counter
	viewsClosed     *prom.CounterVec
	openViews       prom.Gauge
	contactOutcomes *prom.CounterVec
	contactDuration prom.Histogram
}

// NewPrometheusRecorder constructs and registers the site metrics. A nil
// registry gets a fresh one with the Go and process collectors.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	pr := &PrometheusRecorder{
		reg: reg,
		scrollEvents: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "scroll_events_total",
			Help:      "Scroll offsets reported by page views",
		}),
		activeSections: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "active_section_changes_total",
			Help:      "Times a section became the active nav section",
		}, []string{"section"}),
		reveals: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "reveals_total",
			Help:      "Regions revealed on first scroll into view",
		}, []string{"region"}),
		viewsOpened: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "views_opened_total",
			Help:      "Page views opened",
		}),
		viewsClosed: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "views_closed_total",
			Help:      "Page views torn down by reason",
		}, []string{"reason"}),
		openViews: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "open_views",
			Help:      "Page views currently holding scroll state",
		}),
		contactOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "contact_submissions_total",
			Help:      "Contact form submissions by outcome",
		}, []string{"outcome"}),
		contactDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "contact_submit_duration_seconds",
			Help:      "Time spent delivering a contact submission",
			Buckets:   prom.DefBuckets,
		}),
	}
	reg.MustRegister(pr.scrollEvents, pr.activeSections, pr.reveals, pr.viewsOpened,
		pr.viewsClosed, pr.openViews, pr.contactOutcomes, pr.contactDuration)
	return pr
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) IncScrollEvent() {
	if p == nil {
		return
	}
	p.scrollEvents.Inc()
}

func (p *PrometheusRecorder) IncActiveSection(section string) {
	if p == nil {
		return
	}
	p.activeSections.WithLabelValues(section).Inc()
}

func (p *PrometheusRecorder) IncReveal(region string) {
	if p == nil {
		return
	}
	p.reveals.WithLabelValues(region).Inc()
}

func (p *PrometheusRecorder) IncViewOpened() {
	if p == nil {
		return
	}
	p.viewsOpened.Inc()
}

func (p *PrometheusRecorder) IncViewClosed(reason CloseReason) {
	if p == nil {
		return
	}
	p.viewsClosed.WithLabelValues(string(reason)).Inc()
}

func (p *PrometheusRecorder) SetOpenViews(n int) {
	if p == nil {
		return
	}
	p.openViews.Set(float64(n))
}

func (p *PrometheusRecorder) IncContact(outcome Outcome) {
	if p == nil {
		return
	}
	p.contactOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveContactDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.contactDuration.Observe(d.Seconds())
}
