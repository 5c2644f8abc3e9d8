package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnauthenticated is the parent of every authentication failure.
	ErrUnauthenticated = errors.New("authentication failed")
	ErrMissingToken    = fmt.Errorf("%w: missing_or_malformed", ErrUnauthenticated)
	ErrInvalidToken    = fmt.Errorf("%w: invalid_or_expired", ErrUnauthenticated)

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("access forbidden")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountExists      = errors.New("account already exists")
	ErrBookNotFound       = errors.New("book not found")
	ErrUploadRejected     = errors.New("upload rejected")

	// ErrValidation matches any *ValidationError through errors.Is.
	ErrValidation = errors.New("validation failed")
)

// ValidationError collects per-field messages for a rejected request.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns a ValidationError carrying a single field message.
func NewValidationError(field, msg string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}

func (v *ValidationError) Add(field, msg string) {
	if v.Fields == nil {
		v.Fields = make(map[string]string)
	}
	v.Fields[field] = msg
}

// OrNil returns nil when no field was recorded, so callers can return it directly.
func (v *ValidationError) OrNil() error {
	if v == nil || len(v.Fields) == 0 {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, v.Fields[k])
	}
	return strings.Join(msgs, "; ")
}

func (v *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
