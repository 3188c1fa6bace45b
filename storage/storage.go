package storage

import "mime/multipart"

// Client abstracts image storage for dependency injection and testing.
// SaveImage returns the public path (e.g. "/uploads/abc.jpg") stored on
// the document; the frontend resolves it against the configured base URL.
type Client interface {
	SaveImage(file multipart.File, filename string) (string, error)
	Delete(publicPath string) error
}
