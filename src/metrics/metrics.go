package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "market_analyzer"

var (
	// CacheLookups counts data cache lookups.
	// Labels: result (hit, miss, shared)
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Data cache lookups by result",
	}, []string{"result"})

	// CacheEntries is the number of live cache entries.
	CacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "entries",
		Help:      "Number of cached symbol/period results",
	})

	// FetchDuration measures provider fetches.
	// Labels: source, status (ok, error)
	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "data_source",
		Name:      "fetch_duration_seconds",
		Help:      "Provider fetch latency in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"source", "status"})

	// Forecasts counts forecast runs.
	// Labels: result (ok, partial, insufficient_history, insufficient_prepared_data, total_forecast_failure, validation_error)
	Forecasts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "forecast",
		Name:      "runs_total",
		Help:      "Forecast runs by outcome",
	}, []string{"result"})

	// HTTPRequests counts API requests.
	// Labels: route, status
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status code",
	}, []string{"route", "status"})

	// ActiveSessions is the number of unexpired login sessions.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "active_sessions",
		Help:      "Number of unexpired login sessions",
	})
)
