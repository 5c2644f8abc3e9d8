package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
)

func TestAccountHandler_Profile(t *testing.T) {
	e := newEcho()
	handler := NewAccountHandler(&stubAccountService{
		getFn: func(ctx context.Context, id string) (*domain.Account, error) {
			return &domain.Account{ID: id, Name: "Alice"}, nil
		},
	})

	c, rec := jsonContext(e, http.MethodGet, "/api/v1/user/actions/profile", "")
	if err := handler.Profile(authenticated(c, "acc-1")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"id":"acc-1"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAccountHandler_UpdateProfile_ZipOptional(t *testing.T) {
	e := newEcho()
	var got ports.ProfileInput
	handler := NewAccountHandler(&stubAccountService{
		updateProfileFn: func(ctx context.Context, id string, in ports.ProfileInput) (*domain.Account, error) {
			got = in
			return &domain.Account{ID: id}, nil
		},
	})

	c, _ := jsonContext(e, http.MethodPut, "/api/v1/user/actions/update", `{"name":"A","email":"a@example.com","phone":"1"}`)
	if err := handler.UpdateProfile(authenticated(c, "acc-1")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Name != "A" || got.Email != "a@example.com" || got.Phone != "1" {
		t.Fatalf("unexpected input: %+v", got)
	}
	if got.Zip != nil {
		t.Fatalf("zip absent from the request must stay nil, got %q", *got.Zip)
	}

	c, _ = jsonContext(e, http.MethodPut, "/api/v1/user/actions/update", `{"name":"A","email":"a@example.com","phone":"1","zip":"560001"}`)
	if err := handler.UpdateProfile(authenticated(c, "acc-1")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Zip == nil || *got.Zip != "560001" {
		t.Fatalf("expected zip 560001, got %v", got.Zip)
	}
}

func TestAccountHandler_UpdateProfile_FormEncoded(t *testing.T) {
	e := newEcho()
	var got ports.ProfileInput
	handler := NewAccountHandler(&stubAccountService{
		updateProfileFn: func(ctx context.Context, id string, in ports.ProfileInput) (*domain.Account, error) {
			got = in
			return &domain.Account{ID: id}, nil
		},
	})

	form := url.Values{"name": {"Form"}, "email": {"f@example.com"}, "phone": {"2"}}
	req := httptest.NewRequest(http.MethodPut, "/api/v1/user/actions/update", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	c := e.NewContext(req, httptest.NewRecorder())

	if err := handler.UpdateProfile(authenticated(c, "acc-1")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Name != "Form" || got.Email != "f@example.com" || got.Phone != "2" {
		t.Fatalf("unexpected input: %+v", got)
	}
}

func TestAccountHandler_UpdatePassword(t *testing.T) {
	e := newEcho()
	var got ports.PasswordChangeInput
	handler := NewAccountHandler(&stubAccountService{
		changePasswordFn: func(ctx context.Context, id string, in ports.PasswordChangeInput) error {
			got = in
			return nil
		},
	})

	c, rec := jsonContext(e, http.MethodPut, "/api/v1/user/actions/updatepass",
		`{"currentPassword":"old","newPassword":"new","conPassword":"new"}`)
	if err := handler.UpdatePassword(authenticated(c, "acc-1")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got != (ports.PasswordChangeInput{Current: "old", New: "new", Confirm: "new"}) {
		t.Fatalf("unexpected input: %+v", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAccountHandler_UpdatePicture_RequiresFile(t *testing.T) {
	e := newEcho()
	handler := NewAccountHandler(&stubAccountService{})

	c, _ := multipartContext(t, e, http.MethodPut, "/api/v1/user/actions/updatepic", nil, "", "", nil)
	err := handler.UpdatePicture(authenticated(c, "acc-1"))

	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Fields["profile_picture"] == "" {
		t.Fatalf("expected profile_picture validation error, got %v", err)
	}
}

func TestAccountHandler_UpdatePicture(t *testing.T) {
	e := newEcho()
	var gotName, gotBody string
	handler := NewAccountHandler(&stubAccountService{
		updatePictureFn: func(ctx context.Context, id string, img domain.ImageUpload) (*domain.Account, error) {
			gotName = img.Filename
			b, _ := io.ReadAll(img.Body)
			gotBody = string(b)
			return &domain.Account{ID: id, ProfilePicture: "https://cdn.test/profile_pictures/x.png"}, nil
		},
	})

	c, rec := multipartContext(t, e, http.MethodPut, "/api/v1/user/actions/updatepic", nil, "profile_picture", "me.png", []byte("pixels"))
	if err := handler.UpdatePicture(authenticated(c, "acc-1")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotName != "me.png" || gotBody != "pixels" {
		t.Fatalf("unexpected upload %q %q", gotName, gotBody)
	}
	if !strings.Contains(rec.Body.String(), "profile_pictures/x.png") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAccountHandler_UpdateStoreInfo_PartialPatch(t *testing.T) {
	e := newEcho()
	var got domain.StoreInfoPatch
	handler := NewAccountHandler(&stubAccountService{
		updateStoreInfoFn: func(ctx context.Context, id string, patch domain.StoreInfoPatch) (*domain.Account, error) {
			got = patch
			return &domain.Account{ID: id}, nil
		},
	})

	c, _ := jsonContext(e, http.MethodPut, "/api/v1/user/actions/updatestoreinfo", `{"outletname":"Shelf","min_amount":150}`)
	if err := handler.UpdateStoreInfo(authenticated(c, "acc-1")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.OutletName == nil || *got.OutletName != "Shelf" {
		t.Fatalf("expected outletname Shelf, got %v", got.OutletName)
	}
	if got.MinAmount == nil || *got.MinAmount != 150 {
		t.Fatalf("expected min_amount 150, got %v", got.MinAmount)
	}
	if got.Pin != nil || got.GST != nil || got.BillingAmountAnyDel != nil {
		t.Fatalf("absent keys must stay nil: %+v", got)
	}
}

func TestAccountHandler_UpdateStoreInfo_BadNumber(t *testing.T) {
	e := newEcho()
	handler := NewAccountHandler(&stubAccountService{})

	c, _ := jsonContext(e, http.MethodPut, "/api/v1/user/actions/updatestoreinfo", `{"min_amount":"lots"}`)
	err := handler.UpdateStoreInfo(authenticated(c, "acc-1"))

	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Fields["min_amount"] == "" {
		t.Fatalf("expected min_amount validation error, got %v", err)
	}
}

func TestAccountHandler_InvalidJSON(t *testing.T) {
	e := newEcho()
	handler := NewAccountHandler(&stubAccountService{})

	c, _ := jsonContext(e, http.MethodPut, "/api/v1/user/actions/update", `{"name":`)
	err := handler.UpdateProfile(authenticated(c, "acc-1"))

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAccountHandler_ResponseEnvelope(t *testing.T) {
	e := newEcho()
	handler := NewAccountHandler(&stubAccountService{
		getFn: func(ctx context.Context, id string) (*domain.Account, error) {
			return &domain.Account{ID: id}, nil
		},
	})

	c, rec := jsonContext(e, http.MethodGet, "/api/v1/user/actions/profile", "")
	if err := handler.Profile(authenticated(c, "acc-1")); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	for _, key := range []string{"success", "message", "data"} {
		if _, ok := resp[key]; !ok {
			t.Errorf("expected %q in envelope", key)
		}
	}
}
