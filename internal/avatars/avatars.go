// Package avatars stores wallet pictures and hands out stable public URLs.
package avatars

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// MaxSize is the largest accepted upload.
const MaxSize = 2 << 20

// URLPrefix is the path the avatar handler is mounted on.
const URLPrefix = "/avatars/"

var (
	ErrEmpty           = errors.New("avatar is empty")
	ErrTooLarge        = errors.New("avatar exceeds size limit")
	ErrUnsupportedType = errors.New("unsupported avatar content type")
)

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store writes avatar objects to a filesystem. Production uses the OS
// filesystem rooted at a directory; tests use an in-memory one.
type Store struct {
	fs        afero.Fs
	publicURL string
}

// NewStore creates a Store on fs. publicURL is the externally reachable base
// of the server (e.g. "http://localhost:8080").
func NewStore(fs afero.Fs, publicURL string) *Store {
	return &Store{fs: fs, publicURL: strings.TrimRight(publicURL, "/")}
}

// NewDiskStore creates a Store rooted at dir, creating it if necessary.
func NewDiskStore(dir, publicURL string) (*Store, error) {
	if err := afero.NewOsFs().MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create avatar dir: %w", err)
	}
	return NewStore(afero.NewBasePathFs(afero.NewOsFs(), dir), publicURL), nil
}

// Put stores data and returns its public URL. When contentType is empty it
// is sniffed from the data.
func (s *Store) Put(contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if len(data) > MaxSize {
		return "", ErrTooLarge
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	ext, ok := extensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	name := uuid.New().String() + ext
	if err := afero.WriteFile(s.fs, "/"+name, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write avatar: %w", err)
	}
	return s.publicURL + path.Join(URLPrefix, name), nil
}

// Handler serves stored avatars. Mount it at URLPrefix.
func (s *Store) Handler() http.Handler {
	return http.StripPrefix(URLPrefix, http.FileServer(afero.NewHttpFs(s.fs).Dir("/")))
}
