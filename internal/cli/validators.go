package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"
)

// ValidateFilePath checks that path names an existing file on fs
func ValidateFilePath(fs afero.Fs, path string) error {
	path, info, err := statPath(fs, path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, expected file: %s", path)
	}
	return nil
}

// ValidateDirectoryPath checks that path names an existing directory on fs
func ValidateDirectoryPath(fs afero.Fs, path string) error {
	path, info, err := statPath(fs, path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}
	return nil
}

func statPath(fs afero.Fs, path string) (string, os.FileInfo, error) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	info, err := fs.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return path, nil, fmt.Errorf("path does not exist: %s", path)
	case err != nil:
		return path, nil, fmt.Errorf("error accessing path: %w", err)
	}
	return path, info, nil
}

// ValidateOutputFormat validates the value of an -o flag
func ValidateOutputFormat(format string) error {
	if slices.Contains(OutputFormats, OutputFormat(format)) {
		return nil
	}
	return fmt.Errorf("invalid output format: %s (must be: text, json, or yaml)", format)
}
