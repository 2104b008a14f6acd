package secondary

import (
	"context"

	"gitlab.com/cfmirror.net/internal/domain"
)

// SettingsStore persists user-facing settings as schema-less key/value pairs.
// Settings are mutated only by user action; a sync cycle reads them once.
type SettingsStore interface {
	Credentials(ctx context.Context) (domain.Credentials, error)
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
