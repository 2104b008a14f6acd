package errs

import "errors"

// Failure taxonomy surfaced by hidden-surface fetches. The caller logs these
// without specialized handling; retries, if any, belong to the caller.
var (
	ErrNotFound        = errors.New("content not found on page")
	ErrAccessDenied    = errors.New("access denied")
	ErrTimeout         = errors.New("timeout waiting for page extraction")
	ErrSurfaceCreation = errors.New("failed to create hidden surface")
)

var (
	ErrNotConfigured = errors.New("sync not configured")
	ErrListFailed    = errors.New("failed to fetch submission list")
)
