package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce     sync.Once
	requestsTotal    *prometheus.CounterVec
	latencySeconds   *prometheus.HistogramVec
	errorsTotal      *prometheus.CounterVec
	quizSubmissions  prometheus.Counter
	dashboardReloads *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the tracker API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tracker_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		quizSubmissions = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_quiz_submissions_total",
			Help: "Total number of quiz attempts recorded.",
		})

		dashboardReloads = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_dashboard_loads_total",
			Help: "Dashboard loads served, split by cache outcome.",
		}, []string{"view", "source"})

		prometheus.MustRegister(requestsTotal, latencySeconds, errorsTotal, quizSubmissions, dashboardReloads)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// Errors exposes the counter for API error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return errorsTotal
}

// QuizSubmissions exposes the counter for recorded quiz attempts.
func QuizSubmissions() prometheus.Counter {
	RegisterMetrics()
	return quizSubmissions
}

// DashboardLoads exposes the counter for dashboard loads by cache outcome.
func DashboardLoads() *prometheus.CounterVec {
	RegisterMetrics()
	return dashboardReloads
}
