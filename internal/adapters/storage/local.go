package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"eventhub/internal/domain"
)

var extRegex = regexp.MustCompile(`^\.[a-z0-9]{1,5}$`)

type localStorage struct {
	root string
}

// NewLocalStorage returns a MediaStorage keeping files under root.
// Stored names are slash-separated and relative to root.
func NewLocalStorage(root string) domain.MediaStorage {
	return &localStorage{root: root}
}

// Save writes r to dir/<uuid><ext>, keeping the lower-cased extension of filename.
func (s *localStorage) Save(ctx context.Context, dir, filename string, r io.Reader) (string, error) {
	const op = "storage.Save"
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !extRegex.MatchString(ext) {
		ext = ""
	}
	name := path.Join(dir, uuid.New().String()+ext)
	full := s.Path(name)

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return name, nil
}

// Path resolves a stored name to a file path. Names cannot escape root.
func (s *localStorage) Path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(path.Clean("/"+name)))
}

// Remove deletes a stored file. Missing files are ignored.
func (s *localStorage) Remove(name string) error {
	if err := os.Remove(s.Path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage.Remove: %w", err)
	}
	return nil
}
