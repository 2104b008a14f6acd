package config

import (
	"os"
	"strconv"
	"time"
)

// SyncCfg holds the sync engine's scheduling and throttling knobs.
// One interval policy only: the scheduler ticks every SyncInterval and a
// cycle additionally refuses to start within MinCycleGap of the previous one.
type SyncCfg struct {
	SyncInterval           time.Duration
	MinCycleGap            time.Duration
	ListLimit              int
	PlatformReadsPerMinute int
	RepoWritesPerMinute    int
	WriteRetryAttempts     int
	WriteRetryBaseDelay    time.Duration
	CodeFetchTimeout       time.Duration
	StatementFetchTimeout  time.Duration
	StatementCacheTTL      time.Duration
}

func NewSyncCfg() *SyncCfg {
	return &SyncCfg{
		SyncInterval:           durationSecEnv("SYNC_INTERVAL_SEC", 30),
		MinCycleGap:            durationSecEnv("SYNC_MIN_GAP_SEC", 2),
		ListLimit:              intEnv("SYNC_LIST_LIMIT", 100),
		PlatformReadsPerMinute: intEnv("SYNC_PLATFORM_READS_PER_MIN", 5),
		RepoWritesPerMinute:    intEnv("SYNC_REPO_WRITES_PER_MIN", 10),
		WriteRetryAttempts:     intEnv("SYNC_WRITE_RETRY_ATTEMPTS", 3),
		WriteRetryBaseDelay:    500 * time.Millisecond,
		CodeFetchTimeout:       durationSecEnv("SYNC_CODE_FETCH_TIMEOUT_SEC", 5),
		StatementFetchTimeout:  durationSecEnv("SYNC_STATEMENT_FETCH_TIMEOUT_SEC", 7),
		StatementCacheTTL:      15 * time.Minute,
	}
}

func intEnv(key string, fallback int) int {
	varInt, err := strconv.Atoi(os.Getenv(key))
	if err != nil || varInt <= 0 {
		return fallback
	}
	return varInt
}

func durationSecEnv(key string, fallbackSec int) time.Duration {
	return time.Duration(intEnv(key, fallbackSec)) * time.Second
}
