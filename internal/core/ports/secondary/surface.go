package secondary

import (
	"context"

	"gitlab.com/cfmirror.net/internal/domain"
)

// SurfaceBrowser opens an ephemeral hidden browsing surface on a URL, runs
// the page extractor against the rendered content, and returns its result.
// Exactly one surface is created per call and it is guaranteed closed on
// success, extractor failure, or timeout.
type SurfaceBrowser interface {
	Extract(ctx context.Context, url string, kind domain.ExtractionKind) (string, error)
}
