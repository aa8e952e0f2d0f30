package middleware

import (
	"gomarketplace_admin/metrics"
	"net/http"
	"time"
)

// RoundTripperFunc позволяет использовать функцию как http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// PrometheusTransport оборачивает исходящий транспорт для сбора метрик.
// Ошибки транспорта учитываются со статусом 0.
func PrometheusTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		start := time.Now()

		resp, err := next.RoundTrip(r)

		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		metrics.RecordRequest(r.Method, r.URL.Path, status, time.Since(start))
		return resp, err
	})
}
