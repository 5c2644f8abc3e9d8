package ports

import (
	"context"

	"github.com/bookhive/bookstore-api/internal/core/domain"
)

// CreateBookInput carries all data needed to list a new book.
type CreateBookInput struct {
	ISBN        string
	Title       string
	Publisher   string
	Author      string
	Language    string
	Category    string
	SearchTag   string
	Pages       string
	Edition     string
	Stock       int
	Description string
	Price       float64
}

// BookList is a page of live books plus the total live count.
type BookList struct {
	Books []*domain.Book
	Total int64
}

// BookService defines use-case operations for books. Every mutation of an
// existing book checks that sellerID owns it before changing anything.
type BookService interface {
	Create(ctx context.Context, sellerID string, input CreateBookInput, image *domain.ImageUpload) (*domain.Book, error)
	Edit(ctx context.Context, sellerID, bookID string, patch domain.BookPatch, image *domain.ImageUpload) (*domain.Book, error)
	Delete(ctx context.Context, sellerID, bookID string) error
	AddStock(ctx context.Context, sellerID, bookID string, delta int) (*domain.Book, error)
	ListBySeller(ctx context.Context, sellerID string) ([]*domain.Book, error)
	ListAll(ctx context.Context) (*BookList, error)
}
