// package syncrecord contains the PostgreSQL implementation of the dedup store
package syncrecord

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/cfmirror.net/internal/core/ports/primary"
	"gitlab.com/cfmirror.net/internal/core/ports/secondary"
	"gitlab.com/cfmirror.net/internal/domain"
)

var _ secondary.SyncRecordStore = (*Store)(nil)

// Store implements the SyncRecordStore interface with PostgreSQL
type Store struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewStore creates a new PostgreSQL sync record store
func NewStore(db *sqlx.DB, logger primary.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

// IsPushed reports whether the submission is already mirrored. A missing row
// and a row with pushed=false read identically as "not yet synced".
func (s *Store) IsPushed(ctx context.Context, submissionID int64) (bool, error) {
	query := `SELECT pushed FROM synced_submissions WHERE submission_id = $1`

	var pushed bool
	err := s.db.GetContext(ctx, &pushed, query, submissionID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		s.logger.Error("Failed to read sync record", "submissionId", submissionID, "error", err)
		return false, fmt.Errorf("failed to read sync record: %w", err)
	}

	return pushed, nil
}

// MarkPushed records a submission as mirrored. Callers invoke this only after
// both file writes are confirmed.
func (s *Store) MarkPushed(ctx context.Context, record *domain.SyncRecord) error {
	query := `
		INSERT INTO synced_submissions (
			submission_id, contest_id, problem_index, problem_name, pushed, pushed_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (submission_id) DO UPDATE SET
			pushed = EXCLUDED.pushed,
			pushed_at = EXCLUDED.pushed_at
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		record.SubmissionID,
		record.ContestID,
		record.ProblemIndex,
		record.ProblemName,
		record.Pushed,
		record.PushedAt,
	)
	if err != nil {
		s.logger.Error("Failed to save sync record", "submissionId", record.SubmissionID, "error", err)
		return fmt.Errorf("failed to save sync record: %w", err)
	}

	return nil
}

// EnsureSchema creates the dedup table when it does not exist yet
func (s *Store) EnsureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS synced_submissions (
			submission_id BIGINT PRIMARY KEY,
			contest_id    BIGINT NOT NULL,
			problem_index TEXT NOT NULL,
			problem_name  TEXT NOT NULL,
			pushed        BOOLEAN NOT NULL DEFAULT FALSE,
			pushed_at     TIMESTAMPTZ
		)
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure sync record schema: %w", err)
	}
	return nil
}
