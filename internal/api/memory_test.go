package api

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
)

// memAccounts and memBooks are in-memory repositories with the same
// not-found and ownership semantics as the MongoDB implementations.
type memAccounts struct {
	mu   sync.Mutex
	seq  int
	byID map[string]domain.Account
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byID: map[string]domain.Account{}}
}

func (r *memAccounts) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if strings.EqualFold(existing.Email, a.Email) {
			return nil, domain.ErrAccountExists
		}
	}
	r.seq++
	a.ID = fmt.Sprintf("acc-%d", r.seq)
	r.byID[a.ID] = *a
	return a, nil
}

func (r *memAccounts) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

func (r *memAccounts) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if strings.EqualFold(a.Email, email) {
			return &a, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *memAccounts) Update(ctx context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	r.byID[a.ID] = *a
	return nil
}

type memBooks struct {
	mu   sync.Mutex
	seq  int
	byID map[string]domain.Book
}

func newMemBooks() *memBooks {
	return &memBooks{byID: map[string]domain.Book{}}
}

func (r *memBooks) Create(ctx context.Context, b *domain.Book) (*domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	b.ID = fmt.Sprintf("book-%d", r.seq)
	b.CreatedAt = time.Unix(int64(r.seq), 0)
	r.byID[b.ID] = *b
	return b, nil
}

func (r *memBooks) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	return &b, nil
}

func (r *memBooks) live(id, seller string) (domain.Book, bool) {
	b, ok := r.byID[id]
	if !ok || b.Deleted || b.Seller != seller {
		return domain.Book{}, false
	}
	return b, true
}

func (r *memBooks) Update(ctx context.Context, b *domain.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.live(b.ID, b.Seller); !ok {
		return domain.ErrBookNotFound
	}
	r.byID[b.ID] = *b
	return nil
}

func (r *memBooks) SoftDelete(ctx context.Context, id, seller string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.live(id, seller)
	if !ok {
		return domain.ErrBookNotFound
	}
	b.Deleted = true
	r.byID[id] = b
	return nil
}

func (r *memBooks) IncrementStock(ctx context.Context, id, seller string, delta int) (*domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.live(id, seller)
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	if b.Stock+delta < 0 {
		return nil, domain.NewValidationError("stock", "stock cannot go below zero")
	}
	b.Stock += delta
	r.byID[id] = b
	return &b, nil
}

func (r *memBooks) List(ctx context.Context, f ports.BookFilter) ([]*domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Book
	for _, b := range r.byID {
		if b.Deleted || (f.Seller != "" && b.Seller != f.Seller) {
			continue
		}
		b := b
		out = append(out, &b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memBooks) Count(ctx context.Context, f ports.BookFilter) (int64, error) {
	books, _ := r.List(ctx, f)
	return int64(len(books)), nil
}

type memDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (d *memDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.revoked == nil {
		d.revoked = map[string]time.Duration{}
	}
	d.revoked[tokenID] = ttl
	return nil
}

func (d *memDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.revoked[tokenID]
	return ok, nil
}
