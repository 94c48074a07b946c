package upload

import (
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrFileTooLarge    = errors.New("file exceeds maximum size")
	ErrInvalidFileType = errors.New("file type not allowed")
)

// Extension whitelists per upload kind
var (
	ImageExtensions    = []string{".jpg", ".jpeg", ".png", ".webp"}
	DocumentExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".pdf", ".doc", ".docx"}
)

// Validate checks a multipart file against a size limit and extension
// whitelist
func Validate(file *multipart.FileHeader, maxSize int64, allowed []string) error {
	if file.Size > maxSize {
		return ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return ErrInvalidFileType
}

// NewFilename builds a collision-free stored filename keeping the
// original extension
func NewFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return uuid.New().String() + ext
}
