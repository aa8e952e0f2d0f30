package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"gomarketplace_admin/internal/catalog/business/mutation"

	"github.com/lib/pq"
)

type execCall struct {
	query string
	args  []interface{}
}

type fakeExecer struct {
	calls    []execCall
	affected int64
	err      error
}

func (f *fakeExecer) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	f.calls = append(f.calls, execCall{query: query, args: args})
	if f.err != nil {
		return nil, f.err
	}
	return driverResult(f.affected), nil
}

type driverResult int64

func (r driverResult) LastInsertId() (int64, error) { return 0, errors.New("not supported") }
func (r driverResult) RowsAffected() (int64, error) { return int64(r), nil }

var _ mutation.Journal = (*SubmissionRepository)(nil)

func TestStartInsertsPendingSubmission(t *testing.T) {
	db := &fakeExecer{affected: 1}
	repo := &SubmissionRepository{db: db}

	err := repo.Start(context.Background(), mutation.Submission{
		ID: "id-1", Title: "Shirt", Category: "c1", Brand: "b1", Store: "s1",
		FileNames: []string{"a.png", "b.png"},
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(db.calls) != 1 {
		t.Fatalf("calls = %d", len(db.calls))
	}
	call := db.calls[0]
	if !strings.Contains(call.query, "INSERT INTO catalog.submissions") {
		t.Errorf("query = %s", call.query)
	}
	if call.args[0] != "id-1" || call.args[6] != mutation.StatusPending {
		t.Errorf("args = %v", call.args)
	}
	arr, ok := call.args[5].(*pq.StringArray)
	if !ok || len(*arr) != 2 {
		t.Errorf("file names arg = %#v", call.args[5])
	}
}

func TestFinishUpdatesStatus(t *testing.T) {
	db := &fakeExecer{affected: 1}
	repo := &SubmissionRepository{db: db}

	if err := repo.Finish(context.Background(), "id-1", mutation.StatusFailed, "boom"); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	call := db.calls[0]
	if !strings.Contains(call.query, "UPDATE catalog.submissions") {
		t.Errorf("query = %s", call.query)
	}
	if call.args[1] != mutation.StatusFailed || call.args[2] != "boom" {
		t.Errorf("args = %v", call.args)
	}
}

func TestFinishUnknownSubmission(t *testing.T) {
	repo := &SubmissionRepository{db: &fakeExecer{affected: 0}}
	if err := repo.Finish(context.Background(), "missing", mutation.StatusCreated, ""); err == nil {
		t.Error("expected error for missing row")
	}
}

func TestExecErrorIsWrapped(t *testing.T) {
	cause := errors.New("connection refused")
	repo := &SubmissionRepository{db: &fakeExecer{err: cause}}

	err := repo.Start(context.Background(), mutation.Submission{ID: "id-2"})
	if !errors.Is(err, cause) {
		t.Errorf("err = %v, want wrapped %v", err, cause)
	}
}
