// Package sanitize guards the upload surface: filename sanitization, path
// traversal checks, extension validation, and bounded I/O helpers.
package sanitize

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// MaxResponseBody is the default cap for HTTP response body reads (1 MiB).
const MaxResponseBody int64 = 1 << 20

// ErrMissingFile is returned when a request carries no usable filename.
var ErrMissingFile = errors.New("sanitize: no file provided")

// ErrUnsupportedExtension is returned when a filename's extension is not in
// the allowed set for the requested conversion category.
var ErrUnsupportedExtension = errors.New("sanitize: unsupported file extension")

// ErrPathTraversal is returned when a user-supplied path escapes its base.
var ErrPathTraversal = errors.New("sanitize: path traversal detected")

// Extension sets per conversion category. Lowercase, without the dot.
var (
	ImageExtensions = map[string]bool{
		"png": true, "jpg": true, "jpeg": true, "gif": true, "bmp": true,
		"tiff": true, "webp": true, "heic": true, "avif": true,
	}
	AudioExtensions = map[string]bool{
		"mp3": true, "wav": true, "ogg": true, "flac": true, "m4a": true, "aac": true,
	}
	VideoExtensions = map[string]bool{
		"mp4": true, "avi": true, "mov": true, "mkv": true, "webm": true,
	}
	TextExtensions = map[string]bool{
		"txt": true, "doc": true, "docx": true, "pdf": true, "rtf": true,
		"odt": true, "md": true, "html": true,
	}
)

// SecureFilename reduces a user-supplied filename to a safe basename:
// path components are stripped, runs of characters outside [A-Za-z0-9_.-]
// collapse to a single underscore, and leading dots are removed so the
// result cannot be a hidden file or a relative path component.
// Sanitization happens BEFORE any extension check so "../../etc/passwd.png"
// cannot smuggle a traversal through a valid extension.
func SecureFilename(name string) (string, error) {
	// Strip directory components from both separator conventions.
	name = strings.ReplaceAll(name, "\\", "/")
	name = name[strings.LastIndex(name, "/")+1:]

	var b strings.Builder
	lastUnderscore := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "", ErrMissingFile
	}
	return out, nil
}

// Extension returns the lowercase extension of name without the dot, or ""
// when name has none.
func Extension(name string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return ""
	}
	return strings.ToLower(ext[1:])
}

// CheckExtension sanitizes name and verifies its extension against allowed.
// Returns the sanitized filename.
func CheckExtension(name string, allowed map[string]bool) (string, error) {
	safe, err := SecureFilename(name)
	if err != nil {
		return "", err
	}
	ext := Extension(safe)
	if ext == "" || !allowed[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedExtension, ext)
	}
	return safe, nil
}

// SafePath validates that joining base and userInput does not escape base.
// Returns the cleaned absolute path or ErrPathTraversal.
func SafePath(base, userInput string) (string, error) {
	if strings.Contains(userInput, "..") {
		return "", ErrPathTraversal
	}
	// Clean both and verify the result stays under base.
	cleaned := filepath.Join(base, filepath.Clean("/"+userInput))
	if !strings.HasPrefix(cleaned, filepath.Clean(base)+string(filepath.Separator)) &&
		cleaned != filepath.Clean(base) {
		return "", ErrPathTraversal
	}
	return cleaned, nil
}

// LimitedReadAll reads at most maxBytes from r and errors when the limit is
// exceeded. Used for external API responses (currency rates).
func LimitedReadAll(r io.Reader, maxBytes int64) ([]byte, error) {
	lr := io.LimitReader(r, maxBytes+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("sanitize: response exceeds %d bytes", maxBytes)
	}
	return data, nil
}
