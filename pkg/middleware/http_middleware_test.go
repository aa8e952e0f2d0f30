package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPrometheusTransportPassesResponseThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	client := &http.Client{Transport: PrometheusTransport(nil)}
	resp, err := client.Get(server.URL + "/api/brands")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusTeapot {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusTeapot)
	}
}

func TestPrometheusTransportPassesErrorThrough(t *testing.T) {
	boom := errors.New("boom")
	transport := PrometheusTransport(RoundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, boom
	}))

	req := httptest.NewRequest(http.MethodGet, "http://catalog.local/api/stores", nil)
	if _, err := transport.RoundTrip(req); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}
