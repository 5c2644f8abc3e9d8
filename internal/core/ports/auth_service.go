package ports

import (
	"context"
	"time"

	"github.com/bookhive/bookstore-api/internal/core/domain"
)

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     string // "", "buyer" or "seller"
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Account   *domain.Account
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, identity domain.Identity) error
}

// ProfileInput carries a full profile update; Zip is optional.
type ProfileInput struct {
	Name  string
	Email string
	Phone string
	Zip   *string
}

// PasswordChangeInput carries a password change request.
type PasswordChangeInput struct {
	Current string
	New     string
	Confirm string
}

type AccountService interface {
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, accountID string, input ProfileInput) (*domain.Account, error)
	ChangePassword(ctx context.Context, accountID string, input PasswordChangeInput) error
	UpdatePicture(ctx context.Context, accountID string, image domain.ImageUpload) (*domain.Account, error)
	UpdateStoreInfo(ctx context.Context, accountID string, patch domain.StoreInfoPatch) (*domain.Account, error)
}
