package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
)

// AccountService implements profile, password, picture and store-info updates.
type AccountService struct {
	repo   ports.AccountRepository
	images *imageUploader
	log    zerolog.Logger
	now    func() time.Time
}

func NewAccountService(repo ports.AccountRepository, store ports.ImageStore, cleaner ports.ObjectCleaner, maxImageBytes int64, log zerolog.Logger) *AccountService {
	return &AccountService{
		repo:   repo,
		images: newImageUploader(store, cleaner, maxImageBytes, log),
		log:    log,
		now:    time.Now,
	}
}

func (s *AccountService) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return account, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, accountID string, in ports.ProfileInput) (*domain.Account, error) {
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
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	other, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil && other.ID != account.ID:
		return nil, domain.ErrAccountExists
	case err != nil && !errors.Is(err, domain.ErrAccountNotFound):
		return nil, fmt.Errorf("update profile: %w", err)
	}

	account.Name = name
	account.Email = email
	account.Phone = phone
	if in.Zip != nil {
		account.Zip = strings.TrimSpace(*in.Zip)
	}
	account.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return account, nil
}

func (s *AccountService) ChangePassword(ctx context.Context, accountID string, in ports.PasswordChangeInput) error {
	verr := &domain.ValidationError{}
	if in.Current == "" {
		verr.Add("currentPassword", "current password is required")
	}
	if in.New == "" {
		verr.Add("newPassword", "new password is required")
	}
	if in.Confirm == "" {
		verr.Add("conPassword", "confirm password is required")
	}
	if in.New != "" && in.Confirm != "" && in.New != in.Confirm {
		verr.Add("conPassword", "new password and confirm password do not match")
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(in.Current)) != nil {
		return domain.NewValidationError("currentPassword", "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.New), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("change password: hash: %w", err)
	}
	account.PasswordHash = string(hash)
	account.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, account); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	s.log.Info().Str("account_id", accountID).Msg("password changed")
	return nil
}

// UpdatePicture uploads a new profile picture and drops the previous one.
func (s *AccountService) UpdatePicture(ctx context.Context, accountID string, img domain.ImageUpload) (*domain.Account, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("update picture: %w", err)
	}

	locator, err := s.images.upload(ctx, domain.ProfilePicturePrefix, account.ID, img)
	if err != nil {
		return nil, fmt.Errorf("update picture: %w", err)
	}

	previous := account.ProfilePicture
	account.ProfilePicture = locator
	account.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, account); err != nil {
		s.images.discard(ctx, locator)
		return nil, fmt.Errorf("update picture: %w", err)
	}

	s.images.discard(ctx, previous)
	return account, nil
}

// UpdateStoreInfo merges patch into the seller's store profile.
func (s *AccountService) UpdateStoreInfo(ctx context.Context, accountID string, patch domain.StoreInfoPatch) (*domain.Account, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("update store info: %w", err)
	}
	if account.Role != domain.RoleSeller {
		return nil, domain.ErrForbidden
	}

	patch.Apply(&account.Store)
	account.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("update store info: %w", err)
	}
	return account, nil
}
