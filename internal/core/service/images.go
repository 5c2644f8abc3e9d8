package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
)

const DefaultMaxImageBytes int64 = 5 << 20

// imageUploader pushes validated images to the object store and hands replaced
// objects to the cleaner.
type imageUploader struct {
	store    ports.ImageStore
	cleaner  ports.ObjectCleaner
	maxBytes int64
	log      zerolog.Logger
}

func newImageUploader(store ports.ImageStore, cleaner ports.ObjectCleaner, maxBytes int64, log zerolog.Logger) *imageUploader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &imageUploader{store: store, cleaner: cleaner, maxBytes: maxBytes, log: log}
}

// upload validates img and stores it under prefix/<ownerID>-<uuid><ext>.
func (u *imageUploader) upload(ctx context.Context, prefix, ownerID string, img domain.ImageUpload) (string, error) {
	if u.store == nil {
		return "", fmt.Errorf("%w: image storage is not configured", domain.ErrUploadRejected)
	}
	if img.Body == nil {
		return "", domain.NewValidationError("image", "image file is required")
	}
	if img.Size > u.maxBytes {
		return "", fmt.Errorf("%w: image exceeds %d bytes", domain.ErrUploadRejected, u.maxBytes)
	}

	data, err := io.ReadAll(io.LimitReader(img.Body, u.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > u.maxBytes {
		return "", fmt.Errorf("%w: image exceeds %d bytes", domain.ErrUploadRejected, u.maxBytes)
	}
	if len(data) == 0 {
		return "", domain.NewValidationError("image", "image file is empty")
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: unsupported content type %s", domain.ErrUploadRejected, mt.String())
	}

	ext := strings.ToLower(path.Ext(img.Filename))
	if ext == "" {
		ext = mt.Extension()
	}
	key := fmt.Sprintf("%s/%s-%s%s", prefix, ownerID, uuid.NewString(), ext)

	locator, err := u.store.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), mt.String())
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return locator, nil
}

// discard removes a no-longer-referenced object. Failures are logged only.
func (u *imageUploader) discard(ctx context.Context, locator string) {
	if locator == "" || u.store == nil {
		return
	}
	if u.cleaner != nil {
		u.cleaner.Enqueue(locator)
		return
	}
	if err := u.store.Delete(ctx, locator); err != nil {
		u.log.Warn().Err(err).Str("locator", locator).Msg("failed to delete replaced image")
	}
}
