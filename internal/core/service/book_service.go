package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
)

// BookService implements seller book management and the public catalog.
type BookService struct {
	repo   ports.BookRepository
	images *imageUploader
	log    zerolog.Logger
	now    func() time.Time
}

func NewBookService(repo ports.BookRepository, store ports.ImageStore, cleaner ports.ObjectCleaner, maxImageBytes int64, log zerolog.Logger) *BookService {
	return &BookService{
		repo:   repo,
		images: newImageUploader(store, cleaner, maxImageBytes, log),
		log:    log,
		now:    time.Now,
	}
}

// Create lists a new book owned by sellerID.
func (s *BookService) Create(ctx context.Context, sellerID string, in ports.CreateBookInput, img *domain.ImageUpload) (*domain.Book, error) {
	verr := &domain.ValidationError{}
	for field, v := range map[string]string{
		"isbn":      in.ISBN,
		"title":     in.Title,
		"publisher": in.Publisher,
		"author":    in.Author,
	} {
		if strings.TrimSpace(v) == "" {
			verr.Add(field, field+" is required")
		}
	}
	if in.Price <= 0 {
		verr.Add("price", "price is required and must be greater than 0")
	}
	if in.Stock < 0 {
		verr.Add("stock", "stock cannot be negative")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	var locator string
	if img != nil {
		var err error
		if locator, err = s.images.upload(ctx, domain.BookImagePrefix, sellerID, *img); err != nil {
			return nil, fmt.Errorf("create book: %w", err)
		}
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.Book{
		ISBN:        strings.TrimSpace(in.ISBN),
		Title:       strings.TrimSpace(in.Title),
		Publisher:   strings.TrimSpace(in.Publisher),
		Author:      strings.TrimSpace(in.Author),
		Image:       locator,
		Language:    in.Language,
		Category:    in.Category,
		SearchTag:   in.SearchTag,
		Pages:       in.Pages,
		Edition:     in.Edition,
		Stock:       in.Stock,
		Description: in.Description,
		Price:       in.Price,
		Seller:      sellerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.images.discard(ctx, locator)
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.log.Info().Str("book_id", created.ID).Str("seller", sellerID).Msg("book created")
	return created, nil
}

// Edit applies patch, and optionally a replacement image, to a book sellerID owns.
func (s *BookService) Edit(ctx context.Context, sellerID, bookID string, patch domain.BookPatch, img *domain.ImageUpload) (*domain.Book, error) {
	book, err := s.loadOwnedBook(ctx, bookID, sellerID, "edit")
	if err != nil {
		return nil, err
	}

	if patch.Empty() && img == nil {
		return nil, domain.NewValidationError("book", "at least one field or an image is required")
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	previous := book.Image
	if img != nil {
		locator, err := s.images.upload(ctx, domain.BookImagePrefix, sellerID, *img)
		if err != nil {
			return nil, fmt.Errorf("edit book: %w", err)
		}
		book.Image = locator
	}

	patch.Apply(book)
	book.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, book); err != nil {
		if img != nil {
			s.images.discard(ctx, book.Image)
		}
		return nil, fmt.Errorf("edit book: %w", err)
	}

	if img != nil {
		s.images.discard(ctx, previous)
	}
	return book, nil
}

// Delete soft-deletes a book sellerID owns. A book already deleted reports
// domain.ErrBookNotFound.
func (s *BookService) Delete(ctx context.Context, sellerID, bookID string) error {
	if _, err := s.loadOwnedBook(ctx, bookID, sellerID, "delete"); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, bookID, sellerID); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	s.log.Info().Str("book_id", bookID).Str("seller", sellerID).Msg("book soft-deleted")
	return nil
}

// AddStock adds delta to the stock of a book sellerID owns.
func (s *BookService) AddStock(ctx context.Context, sellerID, bookID string, delta int) (*domain.Book, error) {
	book, err := s.loadOwnedBook(ctx, bookID, sellerID, "add_stock")
	if err != nil {
		return nil, err
	}
	if delta == 0 {
		return nil, domain.NewValidationError("stock", "stock must be a non-zero integer")
	}
	if book.Stock+delta < 0 {
		return nil, domain.NewValidationError("stock", "stock cannot go below zero")
	}

	updated, err := s.repo.IncrementStock(ctx, bookID, sellerID, delta)
	if err != nil {
		return nil, fmt.Errorf("add stock: %w", err)
	}
	return updated, nil
}

func (s *BookService) ListBySeller(ctx context.Context, sellerID string) ([]*domain.Book, error) {
	books, err := s.repo.List(ctx, ports.BookFilter{Seller: sellerID})
	if err != nil {
		return nil, fmt.Errorf("list seller books: %w", err)
	}
	return books, nil
}

// ListAll returns every live book and the live count, fetched concurrently.
func (s *BookService) ListAll(ctx context.Context) (*ports.BookList, error) {
	var (
		books []*domain.Book
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		books, err = s.repo.List(gctx, ports.BookFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, ports.BookFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	if books == nil {
		books = []*domain.Book{}
	}
	return &ports.BookList{Books: books, Total: total}, nil
}

// loadOwnedBook is the ownership check every book mutation goes through: the
// book must exist, belong to sellerID and not be soft-deleted.
func (s *BookService) loadOwnedBook(ctx context.Context, bookID, sellerID, op string) (*domain.Book, error) {
	book, err := s.repo.FindByID(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("%s book: %w", op, err)
	}
	if !book.OwnedBy(sellerID) {
		s.log.Warn().
			Str("book_id", bookID).
			Str("requester", sellerID).
			Str("operation", op).
			Msg("ownership check failed")
		return nil, domain.ErrForbidden
	}
	if book.Deleted {
		return nil, fmt.Errorf("%s book: %w", op, domain.ErrBookNotFound)
	}
	return book, nil
}
