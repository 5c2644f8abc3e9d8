package domain

import "io"

// ImageUpload is an image received from a client, ready to be pushed to the
// object store.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Object-store key prefixes.
const (
	ProfilePicturePrefix = "profile_pictures"
	BookImagePrefix      = "book_images"
)
