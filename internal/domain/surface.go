package domain

import "github.com/google/uuid"

// ExtractionKind selects what the page extractor pulls out of a rendered page
type ExtractionKind string

const (
	ExtractionSubmissionCode   ExtractionKind = "SUBMISSION_CODE"
	ExtractionProblemStatement ExtractionKind = "PROBLEM_STATEMENT"
)

// SurfaceHandle identifies one ephemeral hidden browsing surface. It is owned
// exclusively by the fetch call that created it and is never persisted.
type SurfaceHandle struct {
	PageID uuid.UUID
}

// ExtractionResult is the message a surface posts back when the extractor
// finishes, correlated to its originating surface by PageID.
type ExtractionResult struct {
	PageID    uuid.UUID
	Kind      ExtractionKind
	Data      string
	Err       error
	URL       string
	Timestamp int64
}
