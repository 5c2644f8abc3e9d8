package ports

import (
	"context"
	"io"
)

// ImageStore is the external object store that hosts uploaded images.
type ImageStore interface {
	// Upload stores body under key and returns the locator recorded on the entity.
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	// Delete removes the object a locator points at.
	Delete(ctx context.Context, locator string) error
	HealthCheck(ctx context.Context) error
}

// ObjectCleaner deletes replaced objects in the background. Enqueue must not block.
type ObjectCleaner interface {
	Enqueue(locator string)
}
