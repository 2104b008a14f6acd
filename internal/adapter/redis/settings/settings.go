// Package settings persists user-facing settings as schema-less key/value
// pairs in Redis. Settings change only through user action; the sync engine
// reads them once per cycle.
package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"gitlab.com/cfmirror.net/internal/core/ports/primary"
	"gitlab.com/cfmirror.net/internal/core/ports/secondary"
	"gitlab.com/cfmirror.net/internal/domain"
)

const settingsKeyPrefix = "settings:"

// Persisted setting keys
const (
	KeyAccountHandle = "cf_handle"
	KeyRepository    = "linked_repo"
	KeyAccessToken   = "github_token"
	KeyAPIKey        = "cf_api_key"
	KeyAPISecret     = "cf_api_secret"
	KeyTheme         = "dark_mode"
)

var _ secondary.SettingsStore = (*Store)(nil)

// Store implements the SettingsStore interface with Redis
type Store struct {
	redisClient *redis.Client
	logger      primary.Logger
}

// NewStore creates a new Redis settings store
func NewStore(redisClient *redis.Client, logger primary.Logger) *Store {
	return &Store{
		redisClient: redisClient,
		logger:      logger,
	}
}

// Get returns a setting value, empty when unset
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.redisClient.Get(ctx, settingsKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting %q: %w", key, err)
	}
	return value, nil
}

// Set stores a setting value without expiration
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.redisClient.Set(ctx, settingsKeyPrefix+key, value, 0).Err(); err != nil {
		s.logger.Error("Failed to save setting", "key", key, "error", err)
		return fmt.Errorf("failed to save setting %q: %w", key, err)
	}
	return nil
}

// Credentials reads the three fields a sync cycle needs. Absent fields are
// returned as empty strings; deciding to no-op on them is the caller's call.
func (s *Store) Credentials(ctx context.Context) (domain.Credentials, error) {
	handle, err := s.Get(ctx, KeyAccountHandle)
	if err != nil {
		return domain.Credentials{}, err
	}
	repo, err := s.Get(ctx, KeyRepository)
	if err != nil {
		return domain.Credentials{}, err
	}
	token, err := s.Get(ctx, KeyAccessToken)
	if err != nil {
		return domain.Credentials{}, err
	}

	return domain.Credentials{
		AccountHandle:      handle,
		RepositoryFullName: repo,
		AccessToken:        token,
	}, nil
}
