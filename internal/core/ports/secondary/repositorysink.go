package secondary

import (
	"context"

	"gitlab.com/cfmirror.net/internal/domain"
)

// RepositorySink writes files into the linked source-control repository.
// Writes are idempotent: re-running an upsert with identical content against
// the same path is a harmless no-op.
type RepositorySink interface {
	// UpsertFile creates or updates a single file. Returns false on any
	// failure; it never panics past this boundary.
	UpsertFile(ctx context.Context, req *domain.FileWriteRequest) bool

	// UpsertFileWithRetry wraps UpsertFile in bounded retry with exponential
	// backoff. The repository existence pre-check runs once before the first
	// attempt and short-circuits all retries when the repository is missing.
	UpsertFileWithRetry(ctx context.Context, req *domain.FileWriteRequest) bool

	// RepositoryExists checks whether the target repository is accessible
	RepositoryExists(ctx context.Context, repoFullName string) (bool, error)

	// CreateRepository creates a repository under the authenticated user
	CreateRepository(ctx context.Context, name string, private bool) error

	// AuthenticatedUser returns the login of the token's owner
	AuthenticatedUser(ctx context.Context) (string, error)
}
