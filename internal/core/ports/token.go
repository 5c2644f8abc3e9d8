package ports

import (
	"context"
	"time"

	"github.com/bookhive/bookstore-api/internal/core/domain"
)

// TokenIssuer signs and verifies bearer tokens.
type TokenIssuer interface {
	Issue(accountID string) (token string, expiresAt time.Time, err error)
	// Verify returns domain.ErrInvalidToken for any signature or expiry failure.
	Verify(token string) (*domain.Identity, error)
}

// TokenDenylist records revoked token ids until they would have expired anyway.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
