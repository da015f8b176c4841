// Package metrics exposes Prometheus counters for the pitch deck pipeline.
//
// Metrics:
//
//	cofoundr_health_probes_total{signal}          probe outcomes
//	cofoundr_health_probe_latency_seconds         probe round trip
//	cofoundr_server_status{status}                1 for the current believed status
//	cofoundr_generations_total{outcome,class}     generation outcomes
//	cofoundr_generation_latency_seconds           generation call duration
//	cofoundr_content_score                        validator score of exported text
//	cofoundr_exports_total{result}                export gate decisions and sink results
//
// All Record methods are safe on a nil *Collector, so components can run without metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var statuses = []string{"checking", "online", "busy", "offline"}

// Collector holds the pipeline metrics.
type Collector struct {
	probes       *prometheus.CounterVec
	probeLatency prometheus.Histogram
	serverStatus *prometheus.GaugeVec

	generations       *prometheus.CounterVec
	generationLatency prometheus.Histogram

	contentScore prometheus.Histogram
	exports      *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewCollector registers all metrics on reg. A nil reg uses a fresh registry.
func NewCollector(reg *prometheus.Registry) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	c := &Collector{
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cofoundr_health_probes_total",
			Help: "Health probes by observed signal",
		}, []string{"signal"}),
		probeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cofoundr_health_probe_latency_seconds",
			Help:    "Health probe round trip in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		serverStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cofoundr_server_status",
			Help: "Believed generation service status (1 for the current status)",
		}, []string{"status"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cofoundr_generations_total",
			Help: "Generation submissions by outcome and failure class",
		}, []string{"outcome", "class"}),
		generationLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cofoundr_generation_latency_seconds",
			Help:    "Generation call duration in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		}),
		contentScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cofoundr_content_score",
			Help:    "Content validator score of documents submitted for export",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cofoundr_exports_total",
			Help: "Export attempts by result",
		}, []string{"result"}),
		gatherer: reg,
	}

	reg.MustRegister(
		c.probes,
		c.probeLatency,
		c.serverStatus,
		c.generations,
		c.generationLatency,
		c.contentScore,
		c.exports,
	)
	return c
}

// RecordProbe counts one health probe.
func (c *Collector) RecordProbe(signal string, latency time.Duration) {
	if c == nil {
		return
	}
	c.probes.WithLabelValues(signal).Inc()
	c.probeLatency.Observe(latency.Seconds())
}

// SetServerStatus marks status as current and clears the others.
func (c *Collector) SetServerStatus(status string) {
	if c == nil {
		return
	}
	for _, s := range statuses {
		v := 0.0
		if s == status {
			v = 1
		}
		c.serverStatus.WithLabelValues(s).Set(v)
	}
}

// RecordGeneration counts one submission outcome. class is empty for successes.
func (c *Collector) RecordGeneration(outcome, class string, d time.Duration) {
	if c == nil {
		return
	}
	c.generations.WithLabelValues(outcome, class).Inc()
	if d > 0 {
		c.generationLatency.Observe(d.Seconds())
	}
}

func (c *Collector) RecordContentScore(score int) {
	if c == nil {
		return
	}
	c.contentScore.Observe(float64(score))
}

// RecordExport counts an export attempt: exported, blocked, declined or failed.
func (c *Collector) RecordExport(result string) {
	if c == nil {
		return
	}
	c.exports.WithLabelValues(result).Inc()
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
