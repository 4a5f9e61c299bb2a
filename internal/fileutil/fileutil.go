// Package fileutil provides temp file, output file and filename helpers.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrOutputExists           = errors.New("output file already exists")
)

// MaxFilenameBytes bounds a sanitized base name, leaving room for an
// extension within the common 255-byte limit.
const MaxFilenameBytes = 200

// WriteTempFile creates a temporary file with the given content and extension.
// Returns the file path and a cleanup function to remove the file.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	tmpFile, err := os.CreateTemp("", "autoformat-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// WriteOutput writes data to dir/name. Unless overwrite is set, an existing
// file is left untouched and ErrOutputExists is returned.
func WriteOutput(dir, name string, data []byte, overwrite bool) (string, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, name)

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	f, err := os.OpenFile(path, flags, 0o644) // #nosec G302 G304 -- user-chosen output file
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrOutputExists, path)
		}
		return "", fmt.Errorf("creating output file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("writing output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing output file: %w", err)
	}
	return path, nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// SanitizeFilename makes name safe as a file base name and in a
// Content-Disposition header. Path separators, reserved and control
// characters become '-', runs of spaces collapse, and leading or trailing
// dots and spaces are removed. The result may be empty.
func SanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	lastSpace := false
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			r = ' '
		case r == utf8.RuneError, unicode.IsControl(r), strings.ContainsRune(`<>:"/\|?*`, r):
			r = '-'
		}
		if r == ' ' {
			if lastSpace {
				continue
			}
			lastSpace = true
		} else {
			lastSpace = false
		}
		b.WriteRune(r)
	}

	out := strings.Trim(b.String(), " .")
	if len(out) > MaxFilenameBytes {
		out = out[:MaxFilenameBytes]
		for !utf8.ValidString(out) {
			out = out[:len(out)-1]
		}
		out = strings.TrimRight(out, " .")
	}
	return out
}
