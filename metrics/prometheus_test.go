package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestClassifyStatus(t *testing.T) {
	cases := map[int]string{
		0:   "error",
		200: "2xx",
		201: "2xx",
		302: "3xx",
		404: "4xx",
		503: "5xx",
		700: "unknown",
	}
	for code, want := range cases {
		if got := classifyStatus(code); got != want {
			t.Errorf("classifyStatus(%d) = %q, want %q", code, got, want)
		}
	}
}

func TestSubmissionMetricsRecord(t *testing.T) {
	var m SubmissionMetrics
	m.Record(OutcomeDispatched)
	m.Record(OutcomeDispatched)
	m.Record(OutcomeRejected)
	m.Record(OutcomeCreated)

	if got := m.Dispatched.Load(); got != 2 {
		t.Errorf("dispatched = %d, want 2", got)
	}
	if got := m.Rejected.Load(); got != 1 {
		t.Errorf("rejected = %d, want 1", got)
	}
	if got := m.Created.Load(); got != 1 {
		t.Errorf("created = %d, want 1", got)
	}
	if got := m.Failed.Load(); got != 0 {
		t.Errorf("failed = %d, want 0", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	RecordRequest("GET", "/api/categories", 200, 10*time.Millisecond)
	RecordSubmission(OutcomeCreated)

	path := filepath.Join(t.TempDir(), "catalog.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	for _, name := range []string{"catalog_api_requests_total", "product_form_submissions_total"} {
		if !strings.Contains(string(data), name) {
			t.Errorf("textfile does not contain %s", name)
		}
	}
}
