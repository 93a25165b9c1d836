// Package files validates uploads before any network call is made.
package files

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
)

// MaxUploadSize is the hard cap on upload size.
const MaxUploadSize = 100 << 20 // 100 MB

var (
	ErrFileTooLarge    = errors.New("file exceeds the 100 MB limit")
	ErrUnsupportedType = errors.New("unsupported file type")
)

var allowedTypes = map[string]bool{
	"text/csv":         true,
	"application/json": true,
	"application/pdf":  true,
	"image/png":        true,
	"image/jpeg":       true,
	"text/plain":       true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

var allowedExts = map[string]bool{
	".csv": true, ".json": true, ".pdf": true, ".png": true,
	".jpg": true, ".jpeg": true, ".txt": true, ".xls": true, ".xlsx": true,
}

// Upload describes one file handed to the orchestrator.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Validate checks size and type. When the filename carries an extension, the
// extension is binding: a disallowed one rejects the file even if the
// declared content type is on the allow-list, since the declared type is
// caller-supplied and trivially spoofed. An allowed extension also accepts
// files with generic binary content types, e.g. CSV exports reported as
// application/octet-stream. Extensionless files fall back to the declared
// content type alone.
func Validate(name, contentType string, size int64) error {
	if size > MaxUploadSize {
		return fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, name, size)
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext != "" {
		if !allowedExts[ext] {
			return fmt.Errorf("%w: %s (%s)", ErrUnsupportedType, name, contentType)
		}
		return nil
	}
	if allowedTypes[mediaType(contentType)] {
		return nil
	}
	return fmt.Errorf("%w: %s (%s)", ErrUnsupportedType, name, contentType)
}

// IsTextual reports whether the file should be decoded locally and submitted
// as text rather than shipped as a multipart upload.
func IsTextual(name, contentType string) bool {
	mt := mediaType(contentType)
	if strings.Contains(mt, "text") || strings.Contains(mt, "csv") {
		return true
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".csv":
		return true
	}
	return false
}

// mediaType strips parameters like "; charset=utf-8".
func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}
