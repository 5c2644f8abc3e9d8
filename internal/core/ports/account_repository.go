package ports

import (
	"context"

	"github.com/bookhive/bookstore-api/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	// FindByID returns domain.ErrAccountNotFound for unknown or malformed ids.
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	// Update replaces the stored document. Returns domain.ErrAccountExists when
	// the new email collides with another account.
	Update(ctx context.Context, account *domain.Account) error
}
