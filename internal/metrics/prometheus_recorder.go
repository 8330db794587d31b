package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "snippetbuilder"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry          *prom.Registry
	stageDuration     *prom.HistogramVec
	stageResults      *prom.CounterVec
	buildOutcome      *prom.CounterVec
	ingestedFiles     *prom.CounterVec
	pagesEmitted      *prom.CounterVec
	ingestConcurrency prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics. A nil
// registry gets a fresh private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		ingestedFiles: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "ingested_files_total",
			Help:      "Content files ingested by metadata source and result",
		}, []string{"source", "result"}),
		pagesEmitted: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_emitted_total",
			Help:      "Page requests registered by template",
		}, []string{"template"}),
		ingestConcurrency: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "ingest_concurrency",
			Help:      "Concurrent file reads used by the last ingestion batch",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.stageResults, pr.buildOutcome, pr.ingestedFiles, pr.pagesEmitted, pr.ingestConcurrency)
	return pr
}

// Registry returns the registry the collectors are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.registry }

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncIngestedFile(source string, result ResultLabel) {
	if p == nil {
		return
	}
	p.ingestedFiles.WithLabelValues(source, string(result)).Inc()
}

func (p *PrometheusRecorder) IncPageEmitted(template string) {
	if p == nil {
		return
	}
	p.pagesEmitted.WithLabelValues(template).Inc()
}

func (p *PrometheusRecorder) SetIngestConcurrency(n int) {
	if p == nil {
		return
	}
	p.ingestConcurrency.Set(float64(n))
}

// WriteTextfile writes the registry in the Prometheus text exposition format.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
