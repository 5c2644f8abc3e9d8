package ports

import (
	"context"

	"github.com/bookhive/bookstore-api/internal/core/domain"
)

// BookFilter narrows a book listing. Soft-deleted books are always excluded.
type BookFilter struct {
	Seller string // empty = all sellers
}

// BookRepository defines persistence operations for books.
//
// Every write is filtered by the owning seller as well as the id, so a write
// issued for the wrong owner matches nothing and returns domain.ErrBookNotFound.
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) (*domain.Book, error)
	// FindByID returns the book even when soft-deleted.
	FindByID(ctx context.Context, id string) (*domain.Book, error)
	Update(ctx context.Context, book *domain.Book) error
	SoftDelete(ctx context.Context, id, seller string) error
	// IncrementStock atomically adds delta to the stock of a live book and
	// returns the updated document. It fails with domain.ErrValidation when the
	// result would be negative.
	IncrementStock(ctx context.Context, id, seller string, delta int) (*domain.Book, error)
	List(ctx context.Context, filter BookFilter) ([]*domain.Book, error)
	Count(ctx context.Context, filter BookFilter) (int64, error)
}
