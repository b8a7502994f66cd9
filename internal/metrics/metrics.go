package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SbizRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sbiz_requests_total",
			Help: "Total number of upstream open-data requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	SbizRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sbiz_request_duration_seconds",
			Help:    "Duration of upstream open-data requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	AnalysisResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_results_total",
			Help: "Total number of analysis results by data source",
		},
		[]string{"source"},
	)

	ConsultingReplies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consulting_replies_total",
			Help: "Total number of consulting chat replies by mode",
		},
		[]string{"mode"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"route", "status"},
	)
)

const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"

	ModeModel  = "model"
	ModeCanned = "canned"
)
