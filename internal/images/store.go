// Package images owns the on-disk store for uploaded files: saving
// uploads under generated names, best-effort removal, and the periodic
// sweep that reclaims files no post references anymore.
package images

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Store writes uploaded images into a single directory. Files are named
// with a generated id, never with the client-supplied filename.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory the store writes into.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the upload to disk and returns the public path for it,
// of the form "<dir>/<generated-id>".
func (s *Store) Save(src io.Reader) (string, error) {
	name := uuid.New().String()
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return path.Join(filepath.Base(s.dir), name), nil
}

// Remove deletes a previously stored file by its public path. Removal is
// best-effort: a missing file is not an error, and other failures are
// logged rather than surfaced. Paths outside the store directory are
// refused.
func (s *Store) Remove(publicPath string) {
	name, ok := s.localName(publicPath)
	if !ok {
		log.Warn().Str("path", publicPath).Msg("Refusing to remove file outside the images directory")
		return
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		log.Error().Err(err).Str("path", publicPath).Msg("Failed to remove image file")
	}
}

// localName maps a public path like "images/<id>" to the filename inside
// the store directory, rejecting anything that escapes it.
func (s *Store) localName(publicPath string) (string, bool) {
	cleaned := path.Clean(strings.ReplaceAll(publicPath, "\\", "/"))
	base := path.Base(cleaned)
	if base == "." || base == "/" || base == ".." {
		return "", false
	}
	// Accept "<id>" or "<dirbase>/<id>"; anything deeper is not ours.
	dir := path.Dir(cleaned)
	if dir != "." && dir != filepath.Base(s.dir) {
		return "", false
	}
	return base, true
}

// List returns the public paths of every stored file.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read images directory: %w", err)
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		paths = append(paths, path.Join(filepath.Base(s.dir), e.Name()))
	}
	return paths, nil
}
