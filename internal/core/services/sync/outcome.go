package sync

import "time"

// Outcome is the terminal state of one sync cycle. Terminal states never
// loop back within an invocation; only the scheduler decides to run again.
type Outcome string

const (
	// OutcomeSynced means both files were written and the dedup record saved
	OutcomeSynced Outcome = "SYNCED"
	// OutcomeAlreadySynced means the newest accepted submission was already mirrored
	OutcomeAlreadySynced Outcome = "ALREADY_SYNCED"
	// OutcomeNothingToSync means no accepted submission was found
	OutcomeNothingToSync Outcome = "NOTHING_TO_SYNC"
	// OutcomeRateLimited means the platform read window was exhausted; not an error
	OutcomeRateLimited Outcome = "RATE_LIMITED"
	// OutcomeTooSoon means the minimum interval since the last cycle had not elapsed
	OutcomeTooSoon Outcome = "TOO_SOON"
	// OutcomeBusy means another cycle was in flight; the call was dropped, not queued
	OutcomeBusy Outcome = "CYCLE_IN_PROGRESS"
	// OutcomeNotConfigured means one or more credentials are absent; silent no-op
	OutcomeNotConfigured Outcome = "NOT_CONFIGURED"
	// OutcomeAborted means an upstream fetch or repository write failed; nothing
	// was recorded, so the next cycle retries the same submission from scratch
	OutcomeAborted Outcome = "ABORTED"
)

// CycleStatus is a snapshot of the engine's most recent cycle
type CycleStatus struct {
	LastOutcome      Outcome   `json:"lastOutcome"`
	LastStartedAt    time.Time `json:"lastStartedAt"`
	LastSubmissionID int64     `json:"lastSubmissionId,omitempty"`
	LastError        string    `json:"lastError,omitempty"`
}
