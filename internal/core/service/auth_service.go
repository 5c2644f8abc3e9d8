package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
)

// dummyHash is compared against when the email is unknown so that login takes
// the same time whether or not the account exists.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("bookstore-dummy-password"), bcrypt.DefaultCost)
	return h
})

// AuthService implements registration, login and logout.
type AuthService struct {
	repo     ports.AccountRepository
	tokens   ports.TokenIssuer
	denylist ports.TokenDenylist
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthService wires the credential issuer. denylist may be nil, in which
// case logout cannot revoke tokens.
func NewAuthService(repo ports.AccountRepository, tokens ports.TokenIssuer, denylist ports.TokenDenylist, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, denylist: denylist, log: log, now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	phone := strings.TrimSpace(in.Phone)

	verr := &domain.ValidationError{}
	if name == "" {
		verr.Add("name", "name is required")
	}
	if email == "" {
		verr.Add("email", "email is required")
	}
	if phone == "" {
		verr.Add("phone", "phone is required")
	}
	if in.Password == "" {
		verr.Add("password", "password is required")
	}
	role, err := domain.ParseRole(strings.ToLower(strings.TrimSpace(in.Role)))
	if err != nil {
		verr.Add("role", "role must be one of: buyer, seller")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrAccountExists
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.Account{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("account_id", created.ID).Str("role", role.String()).Msg("account registered")
	return created, nil
}

// Login verifies the credentials and issues a bearer token. An unknown email and
// a wrong password yield the same domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return &ports.LoginResult{Token: token, ExpiresAt: exp, Account: account}, nil
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, identity domain.Identity) error {
	if s.denylist == nil {
		s.log.Debug().Str("account_id", identity.AccountID).Msg("token revocation disabled, logout is client-side only")
		return nil
	}
	if identity.TokenID == "" {
		return domain.ErrInvalidToken
	}

	ttl := identity.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Revoke(ctx, identity.TokenID, ttl); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.log.Info().Str("account_id", identity.AccountID).Msg("token revoked")
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
