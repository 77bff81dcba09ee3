// Package metrics declares the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SegmentRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "streetseg_segment_requests_total",
		Help: "Segment resolutions by source and outcome",
	}, []string{"source", "outcome"})
	SegmentStrategyTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "streetseg_segment_strategy_total",
		Help: "Successful segment resolutions by strategy",
	}, []string{"strategy"})
	DegradedSegmentsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streetseg_degraded_segments_total",
		Help: "Segments returned without a connected fragment path",
	})
	SegmentDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "streetseg_segment_duration_ms",
		Help:    "Segment resolution duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	StreetLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "streetseg_street_lookups_total",
		Help: "Local street index lookups by match kind (key, exact, fuzzy, miss)",
	}, []string{"match"})
	IndexStreets = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "streetseg_index_streets",
		Help: "Number of streets held by the local index",
	})
	RemoteRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "streetseg_remote_requests_total",
		Help: "Remote provider requests by provider and status",
	}, []string{"provider", "status"})
	RemoteDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "streetseg_remote_duration_ms",
		Help:    "Remote provider call duration in milliseconds",
		Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000, 10000},
	}, []string{"provider"})
	CacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "streetseg_cache_lookups_total",
		Help: "Remote response cache lookups by result (hit, miss, error)",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(SegmentRequestsTotal)
	prometheus.MustRegister(SegmentStrategyTotal)
	prometheus.MustRegister(DegradedSegmentsTotal)
	prometheus.MustRegister(SegmentDurationMs)
	prometheus.MustRegister(StreetLookupsTotal)
	prometheus.MustRegister(IndexStreets)
	prometheus.MustRegister(RemoteRequestsTotal)
	prometheus.MustRegister(RemoteDurationMs)
	prometheus.MustRegister(CacheLookupsTotal)
}

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }
