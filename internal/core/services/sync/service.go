package sync

import "context"

// ISyncService defines the sync engine's public surface
type ISyncService interface {
	// RunCycle performs one sync cycle and always resolves to a terminal
	// Outcome; it never panics past this boundary
	RunCycle(ctx context.Context) Outcome

	// ClearCachesAndRun drops the content caches and immediately runs a cycle
	ClearCachesAndRun(ctx context.Context) Outcome

	// Status returns a snapshot of the most recent cycle
	Status() CycleStatus
}
