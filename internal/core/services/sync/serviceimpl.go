package sync

import (
	"context"
	"fmt"
	gosync "sync"
	"sync/atomic"
	"time"

	"gitlab.com/cfmirror.net/internal/config"
	"gitlab.com/cfmirror.net/internal/core/ports/primary"
	"gitlab.com/cfmirror.net/internal/core/ports/secondary"
	"gitlab.com/cfmirror.net/internal/domain"
	"gitlab.com/cfmirror.net/internal/format"
)

var _ ISyncService = (*SyncService)(nil)

// SinkFactory builds a repository sink for the access token a cycle read
// from settings. Tokens are user-supplied and may change between cycles.
type SinkFactory func(accessToken string) secondary.RepositorySink

// SyncService orchestrates one sync cycle: list, dedup, fetch, format,
// ordered writes, record. All cycle-wide mutable state lives on the instance
// so tests can construct isolated engines.
type SyncService struct {
	settings    secondary.SettingsStore
	source      secondary.SubmissionSource
	records     secondary.SyncRecordStore
	statements  secondary.StatementCache
	lists       secondary.SubmissionListCache
	sinkFactory SinkFactory
	logger      primary.Logger
	cfg         *config.SyncCfg

	readWindow  *RateWindow
	writeWindow *RateWindow

	syncing   int32
	mu        gosync.Mutex
	lastStart time.Time
	status    CycleStatus

	now func() time.Time
}

// NewSyncService creates a new sync engine
func NewSyncService(
	settings secondary.SettingsStore,
	source secondary.SubmissionSource,
	records secondary.SyncRecordStore,
	statements secondary.StatementCache,
	lists secondary.SubmissionListCache,
	sinkFactory SinkFactory,
	logger primary.Logger,
	cfg *config.SyncCfg,
) *SyncService {
	return &SyncService{
		settings:    settings,
		source:      source,
		records:     records,
		statements:  statements,
		lists:       lists,
		sinkFactory: sinkFactory,
		logger:      logger,
		cfg:         cfg,
		readWindow:  NewRateWindow(cfg.PlatformReadsPerMinute),
		writeWindow: NewRateWindow(cfg.RepoWritesPerMinute),
		now:         time.Now,
	}
}

// RunCycle performs one sync cycle. At most one cycle is in flight at any
// time; a call arriving while another runs is dropped, not queued. Every
// internal failure resolves to OutcomeAborted rather than escaping.
func (s *SyncService) RunCycle(ctx context.Context) (outcome Outcome) {
	// The guard and both gates are evaluated synchronously, before the
	// cycle's first suspension point.
	if !atomic.CompareAndSwapInt32(&s.syncing, 0, 1) {
		s.logger.Debug("Cycle already in flight, dropping request")
		return OutcomeBusy
	}
	defer atomic.StoreInt32(&s.syncing, 0)

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Cycle panicked", "panic", r)
			outcome = OutcomeAborted
		}
		s.recordStatus(outcome)
	}()

	if !s.readWindow.Allow() {
		s.logger.Warn("Platform read window exhausted, skipping cycle")
		return OutcomeRateLimited
	}

	start := s.now()
	s.mu.Lock()
	tooSoon := !s.lastStart.IsZero() && start.Sub(s.lastStart) < s.cfg.MinCycleGap
	if !tooSoon {
		s.lastStart = start
	}
	s.mu.Unlock()
	if tooSoon {
		s.logger.Debug("Cycle requested too soon after previous, skipping")
		return OutcomeTooSoon
	}

	creds, err := s.settings.Credentials(ctx)
	if err != nil {
		s.logger.Warn("Failed to read credentials", "error", err)
		return s.abort(0, err)
	}
	if !creds.Complete() {
		s.logger.Debug("Credentials incomplete, skipping sync")
		return OutcomeNotConfigured
	}

	latest, outcome := s.selectLatest(ctx, creds.AccountHandle)
	if latest == nil {
		return outcome
	}

	pushed, err := s.records.IsPushed(ctx, latest.SubmissionID)
	if err != nil {
		s.logger.Warn("Dedup check failed", "submissionId", latest.SubmissionID, "error", err)
		return s.abort(latest.SubmissionID, err)
	}
	if pushed {
		s.logger.Debug("Already synced, skipping", "folder", latest.Folder())
		return OutcomeAlreadySynced
	}

	code, statementHTML, err := s.fetchContent(ctx, latest)
	if err != nil {
		s.logger.Warn("Code fetch failed, aborting cycle", "submissionId", latest.SubmissionID, "error", err)
		return s.abort(latest.SubmissionID, err)
	}

	if !s.writeFiles(ctx, creds, latest, code, statementHTML) {
		return s.abort(latest.SubmissionID, fmt.Errorf("repository write failed"))
	}

	if err := s.records.MarkPushed(ctx, domain.NewSyncRecord(latest)); err != nil {
		// Both files are on the remote; the idempotent upsert makes the
		// inevitable re-push harmless.
		s.logger.Error("Failed to record sync", "submissionId", latest.SubmissionID, "error", err)
	}

	s.logger.Info("Synced submission", "folder", latest.Folder(), "submissionId", latest.SubmissionID)
	s.setLastSubmission(latest.SubmissionID)
	return OutcomeSynced
}

// ClearCachesAndRun drops content caches and immediately runs a cycle
func (s *SyncService) ClearCachesAndRun(ctx context.Context) Outcome {
	if s.statements != nil {
		if err := s.statements.Clear(ctx); err != nil {
			s.logger.Warn("Failed to clear caches", "error", err)
		}
	}
	return s.RunCycle(ctx)
}

// Status returns a snapshot of the most recent cycle
func (s *SyncService) Status() CycleStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// selectLatest lists accepted submissions and picks the newest one by the
// platform's own ordering. Returns nil with a terminal outcome when there is
// nothing to do.
func (s *SyncService) selectLatest(ctx context.Context, handle string) (*domain.Submission, Outcome) {
	if s.lists != nil {
		if cached, ok := s.lists.GetList(ctx, handle); ok {
			return s.newestAccepted(cached)
		}
	}

	s.readWindow.Record()
	submissions, err := s.source.ListAccepted(ctx, handle, s.cfg.ListLimit)
	if err != nil {
		s.logger.Warn("Failed to list submissions", "handle", handle, "error", err)
		s.setLastError(err)
		return nil, OutcomeAborted
	}

	if s.lists != nil {
		if err := s.lists.SetList(ctx, handle, submissions); err != nil {
			s.logger.Debug("Failed to cache submission list", "handle", handle, "error", err)
		}
	}

	return s.newestAccepted(submissions)
}

func (s *SyncService) newestAccepted(submissions []*domain.Submission) (*domain.Submission, Outcome) {
	for _, sub := range submissions {
		if sub.Accepted() {
			return sub, ""
		}
	}
	s.logger.Debug("No accepted submissions found")
	return nil, OutcomeNothingToSync
}

// fetchContent requests code and statement concurrently. The two fetches are
// independently fallible: a code failure aborts the caller, a statement
// failure degrades to an empty statement.
func (s *SyncService) fetchContent(ctx context.Context, sub *domain.Submission) (code, statementHTML string, err error) {
	type fetchResult struct {
		data string
		err  error
	}

	codeCh := make(chan fetchResult, 1)
	stmtCh := make(chan fetchResult, 1)

	go func() {
		data, fetchErr := s.source.FetchCode(ctx, sub.ContestID, sub.SubmissionID)
		codeCh <- fetchResult{data: data, err: fetchErr}
	}()
	go func() {
		if s.statements != nil {
			if cached, ok := s.statements.Get(ctx, sub.ContestID, sub.ProblemIndex); ok {
				stmtCh <- fetchResult{data: cached}
				return
			}
		}
		data, fetchErr := s.source.FetchStatement(ctx, sub.ContestID, sub.ProblemIndex)
		if fetchErr == nil && s.statements != nil {
			if cacheErr := s.statements.Set(ctx, sub.ContestID, sub.ProblemIndex, data); cacheErr != nil {
				s.logger.Debug("Failed to cache statement", "error", cacheErr)
			}
		}
		stmtCh <- fetchResult{data: data, err: fetchErr}
	}()

	codeRes := <-codeCh
	stmtRes := <-stmtCh

	if codeRes.err != nil {
		return "", "", codeRes.err
	}
	if stmtRes.err != nil {
		s.logger.Warn("Statement fetch failed, using placeholder", "folder", sub.Folder(), "error", stmtRes.err)
		return codeRes.data, "", nil
	}
	return codeRes.data, stmtRes.data, nil
}

// writeFiles performs the ordered two-file write. The README write must
// succeed before the code write is attempted: creating the README path
// materializes the destination folder, and a README failure must leave
// nothing partially synced.
func (s *SyncService) writeFiles(ctx context.Context, creds domain.Credentials, sub *domain.Submission, code, statementHTML string) bool {
	if !s.writeWindow.Allow() {
		s.logger.Warn("Repository write window exhausted, aborting cycle")
		return false
	}

	sink := s.sinkFactory(creds.AccessToken)
	commitMessage := fmt.Sprintf("Add %s [%s] from Codeforces", sub.ProblemName, sub.ProblemIndex)

	s.writeWindow.Record()
	readmeOK := sink.UpsertFileWithRetry(ctx, &domain.FileWriteRequest{
		RepositoryFullName: creds.RepositoryFullName,
		Path:               sub.ReadmePath(),
		CommitMessage:      commitMessage + " (Problem Statement)",
		Content:            s.composeReadme(sub, statementHTML),
	})
	if !readmeOK {
		s.logger.Warn("README write failed, skipping code write", "folder", sub.Folder())
		return false
	}

	s.writeWindow.Record()
	codeOK := sink.UpsertFileWithRetry(ctx, &domain.FileWriteRequest{
		RepositoryFullName: creds.RepositoryFullName,
		Path:               sub.CodePath(),
		CommitMessage:      commitMessage,
		Content:            code,
	})
	if !codeOK {
		// The README stays behind; the next cycle re-issues it as an
		// idempotent upsert.
		s.logger.Warn("Code write failed", "folder", sub.Folder())
		return false
	}

	return true
}

// composeReadme builds the README body referencing the canonical problem URL
func (s *SyncService) composeReadme(sub *domain.Submission, statementHTML string) string {
	header := fmt.Sprintf("### [%s](%s)\n\n", sub.ProblemName, sub.ProblemURL())
	if statementHTML == "" {
		return header + format.StatementUnavailable + "\n"
	}
	return header + format.Statement(statementHTML)
}

func (s *SyncService) abort(submissionID int64, err error) Outcome {
	s.mu.Lock()
	if submissionID != 0 {
		s.status.LastSubmissionID = submissionID
	}
	s.status.LastError = err.Error()
	s.mu.Unlock()
	return OutcomeAborted
}

func (s *SyncService) setLastError(err error) {
	s.mu.Lock()
	s.status.LastError = err.Error()
	s.mu.Unlock()
}

func (s *SyncService) setLastSubmission(id int64) {
	s.mu.Lock()
	s.status.LastSubmissionID = id
	s.mu.Unlock()
}

func (s *SyncService) recordStatus(outcome Outcome) {
	s.mu.Lock()
	s.status.LastOutcome = outcome
	s.status.LastStartedAt = s.lastStart
	if outcome == OutcomeSynced {
		s.status.LastError = ""
	}
	s.mu.Unlock()
}
