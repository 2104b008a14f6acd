package secondary

import (
	"context"

	"gitlab.com/cfmirror.net/internal/domain"
)

// SyncRecordStore persists the dedup map of already-mirrored submissions.
// It must survive process restarts.
type SyncRecordStore interface {
	// IsPushed reports whether a submission is already mirrored. A missing
	// record and a record with pushed=false read identically as false.
	IsPushed(ctx context.Context, submissionID int64) (bool, error)

	// MarkPushed records a submission as mirrored. Called only after both
	// file writes are confirmed.
	MarkPushed(ctx context.Context, record *domain.SyncRecord) error
}
