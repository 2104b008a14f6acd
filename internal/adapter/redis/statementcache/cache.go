// Package statementcache caches fetched page content in Redis with TTLs so a
// sync cycle does not re-open surfaces for content it has seen recently.
package statementcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"gitlab.com/cfmirror.net/internal/core/ports/primary"
	"gitlab.com/cfmirror.net/internal/core/ports/secondary"
	"gitlab.com/cfmirror.net/internal/domain"
)

const (
	statementKeyPrefix = "statement:"
	listKeyPrefix      = "submissions:"

	listExpiration = 30 * time.Second
)

var (
	_ secondary.StatementCache      = (*Cache)(nil)
	_ secondary.SubmissionListCache = (*Cache)(nil)
)

// Cache implements the statement and submission-list caches with Redis
type Cache struct {
	redisClient  *redis.Client
	logger       primary.Logger
	statementTTL time.Duration
}

// NewCache creates a new Redis content cache
func NewCache(redisClient *redis.Client, statementTTL time.Duration, logger primary.Logger) *Cache {
	return &Cache{
		redisClient:  redisClient,
		logger:       logger,
		statementTTL: statementTTL,
	}
}

func statementKey(contestID int64, index string) string {
	return fmt.Sprintf("%s%d:%s", statementKeyPrefix, contestID, index)
}

// Get returns cached statement HTML for a problem key
func (c *Cache) Get(ctx context.Context, contestID int64, index string) (string, bool) {
	html, err := c.redisClient.Get(ctx, statementKey(contestID, index)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		c.logger.Warn("Statement cache read failed", "contestId", contestID, "index", index, "error", err)
		return "", false
	}
	return html, true
}

// Set caches statement HTML with the configured TTL
func (c *Cache) Set(ctx context.Context, contestID int64, index string, html string) error {
	if err := c.redisClient.Set(ctx, statementKey(contestID, index), html, c.statementTTL).Err(); err != nil {
		c.logger.Warn("Statement cache write failed", "contestId", contestID, "index", index, "error", err)
		return fmt.Errorf("failed to cache statement: %w", err)
	}
	return nil
}

// Clear drops every cached statement and submission list
func (c *Cache) Clear(ctx context.Context) error {
	for _, prefix := range []string{statementKeyPrefix, listKeyPrefix} {
		if err := c.deleteByPrefix(ctx, prefix); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cache) deleteByPrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	for {
		keys, next, err := c.redisClient.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.redisClient.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// cachedList is the stored shape of a submission list entry
type cachedList struct {
	Submissions []*domain.Submission `json:"submissions"`
}

// GetList returns the cached submission list for a handle
func (c *Cache) GetList(ctx context.Context, handle string) ([]*domain.Submission, bool) {
	data, err := c.redisClient.Get(ctx, listKeyPrefix+handle).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("Submission list cache read failed", "handle", handle, "error", err)
		return nil, false
	}

	var entry cachedList
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.Warn("Failed to unmarshal cached submission list", "handle", handle, "error", err)
		return nil, false
	}
	return entry.Submissions, true
}

// SetList caches the submission list for a handle with a short TTL
func (c *Cache) SetList(ctx context.Context, handle string, submissions []*domain.Submission) error {
	data, err := json.Marshal(cachedList{Submissions: submissions})
	if err != nil {
		return fmt.Errorf("failed to marshal submission list: %w", err)
	}
	if err := c.redisClient.Set(ctx, listKeyPrefix+handle, data, listExpiration).Err(); err != nil {
		c.logger.Warn("Submission list cache write failed", "handle", handle, "error", err)
		return fmt.Errorf("failed to cache submission list: %w", err)
	}
	return nil
}
