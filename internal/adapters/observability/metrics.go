package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ratedesk", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ratedesk", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ratedesk", Name: "external_requests_total", Help: "Outbound requests."},
		[]string{"service", "endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ratedesk", Name: "external_request_duration_seconds",
			Help:    "Outbound request duration seconds.",
			Buckets: []float64{.25, .5, 1, 2, 4, 8, 16, 32, 64},
		},
		[]string{"service", "endpoint"},
	)
	RateLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ratedesk", Name: "rate_sheet_loads_total", Help: "Rate sheet loads by result."},
		[]string{"result"}, // ok|unavailable|schema
	)
	RateRows = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "ratedesk", Name: "rate_sheet_rows", Help: "Rows in the last successfully loaded rate sheet."},
	)
	AssistantTurns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ratedesk", Name: "assistant_questions_total", Help: "Assistant questions by tool and outcome."},
		[]string{"tool", "outcome"}, // outcome: answered|failed|disabled
	)
	Sessions = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "ratedesk", Name: "sessions_active", Help: "Live browser sessions."},
	)
)

// NewMetricsServer returns a standalone /metrics server for reg.
func NewMetricsServer(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency,
		RateLoads, RateRows, AssistantTurns, Sessions)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveLoad(result string, rows int) {
	RateLoads.WithLabelValues(result).Inc()
	if result == "ok" {
		RateRows.Set(float64(rows))
	}
}

func ObserveAssistant(tool, outcome string) {
	AssistantTurns.WithLabelValues(tool, outcome).Inc()
}
