package config

import (
	"testing"
	"time"
)

func TestNewSyncCfgDefaults(t *testing.T) {
	cfg := NewSyncCfg()

	if cfg.SyncInterval != 30*time.Second {
		t.Errorf("SyncInterval = %v", cfg.SyncInterval)
	}
	if cfg.MinCycleGap != 2*time.Second {
		t.Errorf("MinCycleGap = %v", cfg.MinCycleGap)
	}
	if cfg.PlatformReadsPerMinute != 5 {
		t.Errorf("PlatformReadsPerMinute = %d", cfg.PlatformReadsPerMinute)
	}
	if cfg.RepoWritesPerMinute != 10 {
		t.Errorf("RepoWritesPerMinute = %d", cfg.RepoWritesPerMinute)
	}
	if cfg.WriteRetryAttempts != 3 {
		t.Errorf("WriteRetryAttempts = %d", cfg.WriteRetryAttempts)
	}
	if cfg.CodeFetchTimeout != 5*time.Second {
		t.Errorf("CodeFetchTimeout = %v", cfg.CodeFetchTimeout)
	}
	if cfg.StatementFetchTimeout != 7*time.Second {
		t.Errorf("StatementFetchTimeout = %v", cfg.StatementFetchTimeout)
	}
}

func TestSyncCfgEnvOverrides(t *testing.T) {
	t.Setenv("SYNC_INTERVAL_SEC", "60")
	t.Setenv("SYNC_LIST_LIMIT", "50")

	cfg := NewSyncCfg()

	if cfg.SyncInterval != time.Minute {
		t.Errorf("SyncInterval = %v", cfg.SyncInterval)
	}
	if cfg.ListLimit != 50 {
		t.Errorf("ListLimit = %d", cfg.ListLimit)
	}
}

func TestSyncCfgRejectsInvalidValues(t *testing.T) {
	t.Setenv("SYNC_INTERVAL_SEC", "not-a-number")
	t.Setenv("SYNC_PLATFORM_READS_PER_MIN", "-3")

	cfg := NewSyncCfg()

	if cfg.SyncInterval != 30*time.Second {
		t.Errorf("invalid value should fall back, got %v", cfg.SyncInterval)
	}
	if cfg.PlatformReadsPerMinute != 5 {
		t.Errorf("non-positive value should fall back, got %d", cfg.PlatformReadsPerMinute)
	}
}
