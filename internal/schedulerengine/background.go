package schedulerengine

import (
	"context"
	"time"

	"gitlab.com/cfmirror.net/internal/config"
	"gitlab.com/cfmirror.net/internal/core/ports/primary"
	"gitlab.com/cfmirror.net/internal/core/services/sync"
)

// SchedulerEngine drives the sync engine on a fixed tick. It only decides
// when to invoke a cycle; the mutual-exclusion, rate and minimum-interval
// gates all live in the engine itself.
type SchedulerEngine struct {
	SyncCfg     *config.SyncCfg
	syncService sync.ISyncService
	logger      primary.Logger
}

func NewSchedulerEngine(
	SyncCfg *config.SyncCfg,
	syncService sync.ISyncService,
	logger primary.Logger,
) *SchedulerEngine {
	return &SchedulerEngine{
		SyncCfg:     SyncCfg,
		syncService: syncService,
		logger:      logger,
	}
}

// StartSyncEngine runs an immediate first cycle, then ticks until the
// context is cancelled
func (s *SchedulerEngine) StartSyncEngine(ctx context.Context) {
	go func() {
		s.runOnce(ctx)

		ticker := time.NewTicker(s.SyncCfg.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.logger.Info("Sync scheduler stopped")
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()

	s.logger.Info("Sync scheduler started", "interval", s.SyncCfg.SyncInterval)
}

func (s *SchedulerEngine) runOnce(ctx context.Context) {
	outcome := s.syncService.RunCycle(ctx)
	switch outcome {
	case sync.OutcomeSynced:
		s.logger.Info("Cycle finished", "outcome", outcome)
	case sync.OutcomeAborted:
		s.logger.Warn("Cycle aborted", "outcome", outcome)
	default:
		s.logger.Debug("Cycle finished", "outcome", outcome)
	}
}
