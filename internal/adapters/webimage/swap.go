package webimage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// WebPPath returns p with its extension replaced by Ext.
func WebPPath(p string) string {
	return strings.TrimSuffix(p, filepath.Ext(p)) + Ext
}

// SwapName replaces the basename of oldPath with the basename of newPath inside
// the stored reference name, keeping its directory prefix.
func SwapName(name, oldPath, newPath string) string {
	oldBase, newBase := filepath.Base(oldPath), filepath.Base(newPath)
	if strings.HasSuffix(name, oldBase) {
		return strings.TrimSuffix(name, oldBase) + newBase
	}
	return strings.Replace(name, oldBase, newBase, 1)
}

// RemoveStale deletes the original file once the encoded one is in place.
// Nothing is removed when both paths are the same file; a missing original is not an error.
func RemoveStale(oldPath, newPath string) error {
	if oldPath == newPath {
		return nil
	}
	if err := os.Remove(oldPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
