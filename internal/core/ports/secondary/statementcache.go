package secondary

import (
	"context"

	"gitlab.com/cfmirror.net/internal/domain"
)

// StatementCache caches raw problem statement HTML keyed by contest and index
type StatementCache interface {
	Get(ctx context.Context, contestID int64, index string) (string, bool)
	Set(ctx context.Context, contestID int64, index string, html string) error
	Clear(ctx context.Context) error
}

// SubmissionListCache caches the most recent submission list per handle
type SubmissionListCache interface {
	GetList(ctx context.Context, handle string) ([]*domain.Submission, bool)
	SetList(ctx context.Context, handle string, submissions []*domain.Submission) error
}
