package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// DefaultFileMode is used for files that did not exist before a write
const DefaultFileMode os.FileMode = 0644

// ErrInvalidUTF8 is returned when a file's contents are not valid UTF-8 text
var ErrInvalidUTF8 = errors.New("file is not valid UTF-8")

// Store reads and writes whole text files on a filesystem
type Store struct {
	fs afero.Fs
}

// NewStore creates a store backed by fs. A nil fs means the OS filesystem.
func NewStore(fs afero.Fs) *Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Store{fs: fs}
}

// Fs returns the underlying filesystem
func (s *Store) Fs() afero.Fs {
	return s.fs
}

// ReadText reads the full contents of path as UTF-8 text
func (s *Store) ReadText(path string) (string, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("failed to read %s: %w", path, ErrInvalidUTF8)
	}
	return string(data), nil
}

// Exists reports whether path names an existing file or directory
func (s *Store) Exists(path string) bool {
	ok, err := afero.Exists(s.fs, path)
	return err == nil && ok
}

// WriteAtomic replaces path with text. The content is written to a temporary
// file in the same directory and renamed over the destination, so readers
// see either the old file or the new one.
func (s *Store) WriteAtomic(path, text string) error {
	if !utf8.ValidString(text) {
		return fmt.Errorf("failed to write %s: %w", path, ErrInvalidUTF8)
	}

	mode := DefaultFileMode
	if info, err := s.fs.Stat(path); err == nil {
		if info.IsDir() {
			return fmt.Errorf("failed to write %s: is a directory", path)
		}
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := afero.TempFile(s.fs, dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	// Any failure past this point must not leave the temp file behind
	committed := false
	defer func() {
		if !committed {
			s.fs.Remove(tmpName)
		}
	}()

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := s.fs.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("failed to set mode on %s: %w", path, err)
	}
	if err := s.fs.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	committed = true
	return nil
}
