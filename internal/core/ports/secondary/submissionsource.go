package secondary

import (
	"context"

	"gitlab.com/cfmirror.net/internal/domain"
)

// SubmissionSource reads submissions and page content from the judging platform
type SubmissionSource interface {
	// ListAccepted returns the account's accepted submissions, newest first
	// per the platform's own ordering
	ListAccepted(ctx context.Context, handle string, limit int) ([]*domain.Submission, error)

	// FetchCode retrieves the source text of a single submission by opening
	// a hidden surface on the submission page. No retries at this layer.
	FetchCode(ctx context.Context, contestID, submissionID int64) (string, error)

	// FetchStatement retrieves the raw problem statement HTML the same way
	FetchStatement(ctx context.Context, contestID int64, index string) (string, error)
}

// AccountSource reads account profile data from the judging platform
type AccountSource interface {
	// FetchUserInfo returns public profile info for a handle
	FetchUserInfo(ctx context.Context, handle string) (*domain.AccountInfo, error)

	// FetchUserInfoSigned returns profile info through the authenticated,
	// request-signed API variant
	FetchUserInfoSigned(ctx context.Context, apiKey, apiSecret, handle string) (*domain.AccountInfo, error)
}
