package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"time"
)

// Исходы отправки формы создания товара.
const (
	OutcomeRejected   = "rejected"
	OutcomeDispatched = "dispatched"
	OutcomeCreated    = "created"
	OutcomeFailed     = "failed"
)

var (
	catalogRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_api_requests_total",
			Help: "Total number of requests sent to the catalog API.",
		},
		[]string{"method", "endpoint", "status"},
	)
	catalogRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_api_request_duration_seconds",
			Help:    "Histogram of catalog API request durations.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)
	formSubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_form_submissions_total",
			Help: "Product form submissions by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(catalogRequestsTotal)
	prometheus.MustRegister(catalogRequestDuration)
	prometheus.MustRegister(formSubmissionsTotal)
}

// RecordRequest записывает метрики для HTTP-запроса.
func RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	catalogRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	catalogRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

// RecordSubmission увеличивает счётчик отправок формы с указанным исходом.
func RecordSubmission(outcome string) {
	formSubmissionsTotal.WithLabelValues(outcome).Inc()
}

// classifyStatus классифицирует HTTP-статус код в строку.
func classifyStatus(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	case statusCode == 0:
		return "error"
	}
	return "unknown"
}

// MetricsHandler возвращает HTTP-обработчик для экспорта метрик Prometheus.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// WriteTextfile выгружает метрики в файл для textfile-коллектора node_exporter.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
