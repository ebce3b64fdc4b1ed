package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"estate-market/pkg/models"
	"estate-market/pkg/pathsafe"
)

var ErrUnknownKind = errors.New("unknown media kind")

// MediaStore resolves committed files under <root>/<kind dir>/<filename>.
type MediaStore struct {
	root string
}

func NewMediaStore(root string) (*MediaStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve media root: %w", err)
	}
	for _, k := range []models.MediaKind{models.MediaVideo, models.MediaImage} {
		if err := os.MkdirAll(filepath.Join(abs, k.Dir()), 0o755); err != nil {
			return nil, fmt.Errorf("create media dir: %w", err)
		}
	}
	return &MediaStore{root: abs}, nil
}

// Dir returns the absolute directory holding files of kind.
func (m *MediaStore) Dir(kind models.MediaKind) (string, error) {
	if !kind.Valid() {
		return "", ErrUnknownKind
	}
	return pathsafe.Join(m.root, kind.Dir())
}

// Path validates filename and returns its absolute location.
func (m *MediaStore) Path(kind models.MediaKind, filename string) (string, error) {
	if !kind.Valid() {
		return "", ErrUnknownKind
	}
	return pathsafe.Join(m.root, kind.Dir(), filename)
}

// Stat returns the file info of a committed regular file.
// Dot-prefixed names are in-progress assemblies and never count as committed.
func (m *MediaStore) Stat(kind models.MediaKind, filename string) (string, fs.FileInfo, error) {
	path, err := m.Path(kind, filename)
	if err != nil {
		return "", nil, err
	}
	if strings.HasPrefix(filename, ".") {
		return "", nil, fs.ErrNotExist
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", nil, err
	}
	if !info.Mode().IsRegular() {
		return "", nil, fs.ErrNotExist
	}
	return path, info, nil
}

// Remove deletes a committed file. A missing file is not an error.
func (m *MediaStore) Remove(kind models.MediaKind, filename string) error {
	path, err := m.Path(kind, filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", filename, err)
	}
	return nil
}
