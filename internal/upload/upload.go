// Package upload stores user-submitted images on disk with validated
// types and size caps.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Kind selects the size cap and subdirectory for an upload.
type Kind string

const (
	KindAvatar   Kind = "avatar"
	KindCover    Kind = "cover"
	KindProperty Kind = "property"
	KindPost     Kind = "post"
)

// Size caps in bytes.
const (
	avatarMaxBytes = 5 << 20
	imageMaxBytes  = 10 << 20
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// MaxBytes returns the size cap for a kind.
func (k Kind) MaxBytes() int64 {
	if k == KindAvatar {
		return avatarMaxBytes
	}
	return imageMaxBytes
}

func (k Kind) valid() bool {
	switch k {
	case KindAvatar, KindCover, KindProperty, KindPost:
		return true
	}
	return false
}

// Store saves uploaded images under a base directory, one subdirectory
// per kind, with generated names so uploads never collide.
type Store struct {
	baseDir string
	baseURL string
}

// NewStore creates a store rooted at baseDir. Saved files are reported
// as URLs under baseURL (for example "/files").
func NewStore(baseDir, baseURL string) *Store {
	return &Store{baseDir: baseDir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Save validates and writes one uploaded image, returning its public
// URL path.
func (s *Store) Save(kind Kind, file multipart.File, header *multipart.FileHeader) (string, error) {
	if !kind.valid() {
		return "", fmt.Errorf("unknown upload kind %q", kind)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}
	if header.Size > kind.MaxBytes() {
		return "", fmt.Errorf("file exceeds %d MB limit", kind.MaxBytes()>>20)
	}

	dir := filepath.Join(s.baseDir, string(kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}

	name := uuid.NewString() + ext
	path := filepath.Join(dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}

	// Enforce the cap on the actual stream, not just the declared size.
	_, err = io.Copy(dst, io.LimitReader(file, kind.MaxBytes()+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("writing upload: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("checking upload: %w", err)
	}
	if info.Size() > kind.MaxBytes() {
		_ = os.Remove(path)
		return "", fmt.Errorf("file exceeds %d MB limit", kind.MaxBytes()>>20)
	}

	return fmt.Sprintf("%s/%s/%s", s.baseURL, kind, name), nil
}

// Remove deletes a previously saved file given its public URL path. An
// unknown path is not an error.
func (s *Store) Remove(url string) error {
	rel, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok {
		return nil
	}
	rel = filepath.Clean(rel)
	if strings.HasPrefix(rel, "..") {
		return fmt.Errorf("invalid upload path %q", url)
	}

	err := os.Remove(filepath.Join(s.baseDir, rel))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing upload: %w", err)
	}
	return nil
}

// Dir returns the base directory, for serving files over HTTP.
func (s *Store) Dir() string {
	return s.baseDir
}
