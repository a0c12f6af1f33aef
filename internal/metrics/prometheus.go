package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder with Prometheus collectors.
type PrometheusRecorder struct {
	registry      *prom.Registry
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	pagesRendered prom.Counter
	tags          prom.Gauge
	filesPruned   prom.Counter
}

// NewPrometheusRecorder constructs the collectors and registers them with reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "wikigen",
			Name:      "build_duration_seconds",
			Help:      "Total site build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "wikigen",
			Name:      "build_outcomes_total",
			Help:      "Builds by final status",
		}, []string{"outcome"}),
		pagesRendered: prom.NewCounter(prom.CounterOpts{
			Namespace: "wikigen",
			Name:      "pages_rendered_total",
			Help:      "Source pages rendered to HTML",
		}),
		tags: prom.NewGauge(prom.GaugeOpts{
			Namespace: "wikigen",
			Name:      "tags",
			Help:      "Distinct tags in the last build",
		}),
		filesPruned: prom.NewCounter(prom.CounterOpts{
			Namespace: "wikigen",
			Name:      "files_pruned_total",
			Help:      "Stale output files removed",
		}),
	}
	reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.pagesRendered, pr.tags, pr.filesPruned)
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome Outcome) {
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddPagesRendered(n int) {
	p.pagesRendered.Add(float64(n))
}

func (p *PrometheusRecorder) SetTags(n int) {
	p.tags.Set(float64(n))
}

func (p *PrometheusRecorder) AddFilesPruned(n int) {
	p.filesPruned.Add(float64(n))
}

// Gatherer exposes the underlying registry.
func (p *PrometheusRecorder) Gatherer() prom.Gatherer {
	return p.registry
}

// WriteTextfile dumps the current metrics in the text exposition format, suitable for the
// node_exporter textfile collector.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
