package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalClient stores uploads on the local filesystem under Dir. The
// directory is served statically at /uploads.
type LocalClient struct {
	Dir string
}

func NewLocalClient(dir string) (*LocalClient, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &LocalClient{Dir: dir}, nil
}

func (l *LocalClient) SaveImage(file multipart.File, filename string) (string, error) {
	// Random prefix avoids collisions and drops any client-supplied path.
	name := uuid.New().String() + strings.ToLower(filepath.Ext(filepath.Base(filename)))

	dst, err := os.Create(filepath.Join(l.Dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}

	return "/uploads/" + name, nil
}

func (l *LocalClient) Delete(publicPath string) error {
	name := filepath.Base(publicPath)
	if name == "." || name == "/" || name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(l.Dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
