package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhive/bookstore-api/internal/core/domain"
)

func render(t *testing.T, err error, expose bool, method string) (*httptest.ResponseRecorder, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/x", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop(), expose)(err, c)

	var body errorResponse
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestErrorHandler_Mapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantKind string
	}{
		{"missing token", domain.ErrMissingToken, http.StatusUnauthorized, "missing_or_malformed"},
		{"invalid token", domain.ErrInvalidToken, http.StatusUnauthorized, "invalid_or_expired"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"wrapped forbidden", fmt.Errorf("edit: %w", domain.ErrForbidden), http.StatusForbidden, "forbidden"},
		{"account not found", domain.ErrAccountNotFound, http.StatusNotFound, "not_found"},
		{"book not found", domain.ErrBookNotFound, http.StatusNotFound, "not_found"},
		{"duplicate email", domain.ErrAccountExists, http.StatusBadRequest, "conflict"},
		{"upload rejected", fmt.Errorf("%w: too big", domain.ErrUploadRejected), http.StatusBadRequest, "upload_rejected"},
		{"echo error", echo.NewHTTPError(http.StatusRequestEntityTooLarge, "too large"), http.StatusRequestEntityTooLarge, "too_large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := render(t, tt.err, false, http.MethodGet)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantKind, body.Error)
			assert.False(t, body.Success)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestErrorHandler_Validation(t *testing.T) {
	verr := domain.NewValidationError("price", "price must be greater than 0")
	verr.Add("title", "title is required")

	rec, body := render(t, fmt.Errorf("create: %w", verr), false, http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]string{
		"price": "price must be greater than 0",
		"title": "title is required",
	}, body.Errors)
}

func TestErrorHandler_InternalErrorsHidden(t *testing.T) {
	cause := errors.New("mongo: connection refused")

	rec, body := render(t, cause, false, http.MethodGet)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", body.Message)
	assert.NotContains(t, rec.Body.String(), "connection refused")

	_, body = render(t, cause, true, http.MethodGet)
	assert.Equal(t, "mongo: connection refused", body.Message)
}

func TestErrorHandler_Head(t *testing.T) {
	rec, _ := render(t, domain.ErrForbidden, false, http.MethodHead)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, rec.Body.Len())
}
