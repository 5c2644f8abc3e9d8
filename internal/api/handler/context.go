package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/bookstore-api/internal/api/middleware"
	"github.com/bookhive/bookstore-api/internal/core/domain"
)

// requesterID returns the authenticated account id. The Auth middleware must
// have run; without it the request is treated as unauthenticated.
func requesterID(c echo.Context) (string, error) {
	id, err := middleware.IdentityFrom(c)
	if err != nil {
		return "", err
	}
	return id.AccountID, nil
}

// fieldSet holds the request attributes that were present, as raw strings,
// whether they arrived as a JSON body or as form values. Presence matters:
// partial updates only touch the keys found here.
type fieldSet map[string]string

func readFields(c echo.Context, keys ...string) (fieldSet, error) {
	req := c.Request()
	fields := fieldSet{}

	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(req.Body).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
		}
		for _, k := range keys {
			v, ok := raw[k]
			if !ok || string(v) == "null" {
				continue
			}
			var s string
			if json.Unmarshal(v, &s) == nil {
				fields[k] = s
			} else {
				fields[k] = string(v)
			}
		}
		return fields, nil
	}

	params, err := c.FormParams()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid form payload")
	}
	for _, k := range keys {
		if vs, ok := params[k]; ok && len(vs) > 0 {
			fields[k] = vs[0]
		}
	}
	return fields, nil
}

func (f fieldSet) str(key string) *string {
	v, ok := f[key]
	if !ok {
		return nil
	}
	return &v
}

func (f fieldSet) text(key string) string {
	return f[key]
}

func (f fieldSet) integer(key string, verr *domain.ValidationError) *int {
	v, ok := f[key]
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		verr.Add(key, key+" must be an integer")
		return nil
	}
	return &n
}

func (f fieldSet) number(key string, verr *domain.ValidationError) *float64 {
	v, ok := f[key]
	if !ok {
		return nil
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		verr.Add(key, key+" must be a number")
		return nil
	}
	return &n
}

// readImage returns the uploaded file under field, or nil when the request
// carries none. The returned func closes the file.
func readImage(c echo.Context, field string) (*domain.ImageUpload, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, noop, nil
	}

	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart payload")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, noop, echo.NewHTTPError(http.StatusBadRequest, "unreadable upload")
	}
	img := &domain.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	}
	return img, func() { _ = f.Close() }, nil
}
