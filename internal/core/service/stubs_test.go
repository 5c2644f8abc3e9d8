package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	seq      int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Email == a.Email {
			return nil, domain.ErrAccountExists
		}
	}
	r.seq++
	stored := cloneAccount(a)
	stored.ID = fmt.Sprintf("acc-%d", r.seq)
	r.accounts[stored.ID] = stored
	return cloneAccount(stored), nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) Update(_ context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[a.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	r.accounts[a.ID] = cloneAccount(a)
	return nil
}

// put stores a directly, bypassing Create.
func (r *stubAccountRepo) put(a *domain.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[a.ID] = cloneAccount(a)
}

type stubBookRepo struct {
	mu        sync.Mutex
	books     map[string]*domain.Book
	seq       int
	updateErr error // if set, Update returns this error
}

func newStubBookRepo() *stubBookRepo {
	return &stubBookRepo{books: make(map[string]*domain.Book)}
}

func cloneBook(b *domain.Book) *domain.Book {
	clone := *b
	return &clone
}

func (r *stubBookRepo) Create(_ context.Context, b *domain.Book) (*domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	stored := cloneBook(b)
	stored.ID = fmt.Sprintf("book-%d", r.seq)
	r.books[stored.ID] = stored
	return cloneBook(stored), nil
}

func (r *stubBookRepo) FindByID(_ context.Context, id string) (*domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	return cloneBook(b), nil
}

// live mirrors the real query filter: id, seller and is_del=false.
func (r *stubBookRepo) live(id, seller string) (*domain.Book, error) {
	b, ok := r.books[id]
	if !ok || b.Seller != seller || b.Deleted {
		return nil, domain.ErrBookNotFound
	}
	return b, nil
}

func (r *stubBookRepo) Update(_ context.Context, b *domain.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, err := r.live(b.ID, b.Seller); err != nil {
		return err
	}
	r.books[b.ID] = cloneBook(b)
	return nil
}

func (r *stubBookRepo) SoftDelete(_ context.Context, id, seller string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, err := r.live(id, seller)
	if err != nil {
		return err
	}
	b.Deleted = true
	return nil
}

func (r *stubBookRepo) IncrementStock(_ context.Context, id, seller string, delta int) (*domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, err := r.live(id, seller)
	if err != nil {
		return nil, err
	}
	if b.Stock+delta < 0 {
		return nil, domain.NewValidationError("stock", "stock cannot go below zero")
	}
	b.Stock += delta
	return cloneBook(b), nil
}

func (r *stubBookRepo) List(_ context.Context, f ports.BookFilter) ([]*domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Book
	for _, b := range r.books {
		if b.Deleted || (f.Seller != "" && b.Seller != f.Seller) {
			continue
		}
		out = append(out, cloneBook(b))
	}
	return out, nil
}

func (r *stubBookRepo) Count(ctx context.Context, f ports.BookFilter) (int64, error) {
	books, err := r.List(ctx, f)
	return int64(len(books)), err
}

// ---------------------------------------------------------------------------
// Object store, cleaner and denylist stubs
// ---------------------------------------------------------------------------

type stubImageStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newStubImageStore() *stubImageStore {
	return &stubImageStore{objects: make(map[string][]byte)}
}

func (s *stubImageStore) Upload(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	locator := "https://cdn.test/" + key
	s.objects[locator] = data
	return locator, nil
}

func (s *stubImageStore) Delete(_ context.Context, locator string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, locator)
	s.deleted = append(s.deleted, locator)
	return nil
}

func (s *stubImageStore) HealthCheck(context.Context) error { return nil }

type stubCleaner struct {
	enqueued []string
}

func (c *stubCleaner) Enqueue(locator string) {
	c.enqueued = append(c.enqueued, locator)
}

type stubDenylist struct {
	revoked map[string]time.Duration
}

func newStubDenylist() *stubDenylist {
	return &stubDenylist{revoked: make(map[string]time.Duration)}
}

func (d *stubDenylist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	d.revoked[jti] = ttl
	return nil
}

func (d *stubDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := d.revoked[jti]
	return ok, nil
}

// pngBytes is the smallest prefix mimetype recognises as image/png.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
