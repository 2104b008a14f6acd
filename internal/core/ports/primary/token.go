package primary

import (
	"context"

	"gitlab.com/cfmirror.net/internal/domain"
)

// TokenService signs and verifies the bearer tokens protecting the command API
type TokenService interface {
	GenerateTokenHMAC(ctx context.Context, method string, claims map[string]interface{}) (string, error)
	VerifyTokenHMAC(ctx context.Context, token string, method string) (bool, error)
	DecodeTokenPayload(ctx context.Context, token string) (domain.AuthPayload, error)
}
