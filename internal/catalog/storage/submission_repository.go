package storage

import (
	"context"
	"database/sql"
	"fmt"
	"gomarketplace_admin/internal/catalog/business/mutation"

	"github.com/lib/pq"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SubmissionRepository журнал отправок в catalog.submissions.
type SubmissionRepository struct {
	db execer
}

func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Start(ctx context.Context, s mutation.Submission) error {
	query := `
	INSERT INTO catalog.submissions (submission_id, title, category, brand, store, file_names, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (submission_id) DO NOTHING`

	fileNames := s.FileNames
	if fileNames == nil {
		fileNames = []string{}
	}
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Title, s.Category, s.Brand, s.Store, pq.Array(fileNames), mutation.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to insert submission %s: %w", s.ID, err)
	}
	return nil
}

func (r *SubmissionRepository) Finish(ctx context.Context, id, status, errMessage string) error {
	query := `
	UPDATE catalog.submissions
	SET status = $2, error_message = NULLIF($3, ''), finished_at = current_timestamp
	WHERE submission_id = $1`

	res, err := r.db.ExecContext(ctx, query, id, status, errMessage)
	if err != nil {
		return fmt.Errorf("failed to update submission %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("submission %s not found", id)
	}
	return nil
}
