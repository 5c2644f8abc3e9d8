package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/bookstore-api/internal/api/middleware"
	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.Account, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	logoutFn   func(ctx context.Context, identity domain.Identity) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, identity domain.Identity) error {
	return s.logoutFn(ctx, identity)
}

type stubAccountService struct {
	getFn             func(ctx context.Context, id string) (*domain.Account, error)
	updateProfileFn   func(ctx context.Context, id string, in ports.ProfileInput) (*domain.Account, error)
	changePasswordFn  func(ctx context.Context, id string, in ports.PasswordChangeInput) error
	updatePictureFn   func(ctx context.Context, id string, img domain.ImageUpload) (*domain.Account, error)
	updateStoreInfoFn func(ctx context.Context, id string, patch domain.StoreInfoPatch) (*domain.Account, error)
}

func (s *stubAccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *stubAccountService) UpdateProfile(ctx context.Context, id string, in ports.ProfileInput) (*domain.Account, error) {
	return s.updateProfileFn(ctx, id, in)
}

func (s *stubAccountService) ChangePassword(ctx context.Context, id string, in ports.PasswordChangeInput) error {
	return s.changePasswordFn(ctx, id, in)
}

func (s *stubAccountService) UpdatePicture(ctx context.Context, id string, img domain.ImageUpload) (*domain.Account, error) {
	return s.updatePictureFn(ctx, id, img)
}

func (s *stubAccountService) UpdateStoreInfo(ctx context.Context, id string, patch domain.StoreInfoPatch) (*domain.Account, error) {
	return s.updateStoreInfoFn(ctx, id, patch)
}

type stubBookService struct {
	createFn       func(ctx context.Context, seller string, in ports.CreateBookInput, img *domain.ImageUpload) (*domain.Book, error)
	editFn         func(ctx context.Context, seller, id string, patch domain.BookPatch, img *domain.ImageUpload) (*domain.Book, error)
	deleteFn       func(ctx context.Context, seller, id string) error
	addStockFn     func(ctx context.Context, seller, id string, delta int) (*domain.Book, error)
	listBySellerFn func(ctx context.Context, seller string) ([]*domain.Book, error)
	listAllFn      func(ctx context.Context) (*ports.BookList, error)
}

func (s *stubBookService) Create(ctx context.Context, seller string, in ports.CreateBookInput, img *domain.ImageUpload) (*domain.Book, error) {
	return s.createFn(ctx, seller, in, img)
}

func (s *stubBookService) Edit(ctx context.Context, seller, id string, patch domain.BookPatch, img *domain.ImageUpload) (*domain.Book, error) {
	return s.editFn(ctx, seller, id, patch, img)
}

func (s *stubBookService) Delete(ctx context.Context, seller, id string) error {
	return s.deleteFn(ctx, seller, id)
}

func (s *stubBookService) AddStock(ctx context.Context, seller, id string, delta int) (*domain.Book, error) {
	return s.addStockFn(ctx, seller, id, delta)
}

func (s *stubBookService) ListBySeller(ctx context.Context, seller string) ([]*domain.Book, error) {
	return s.listBySellerFn(ctx, seller)
}

func (s *stubBookService) ListAll(ctx context.Context) (*ports.BookList, error) {
	return s.listAllFn(ctx)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// authenticated marks c as coming from accountID, as the Auth middleware would.
func authenticated(c echo.Context, accountID string) echo.Context {
	middleware.SetIdentity(c, domain.Identity{AccountID: accountID, TokenID: "jti-" + accountID})
	return c
}

// multipartContext builds a multipart request with the given form values and,
// when fileField is set, one file part.
func multipartContext(t *testing.T, e *echo.Echo, method, target string, values map[string]string, fileField, filename string, content []byte) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range values {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
