package storage

import (
	"path/filepath"
	"strings"
	"time"

	"parley/internal/pkg/errs"
)

const (
	// MaxPhotoSizeMB is the maximum allowed profile photo size in megabytes.
	MaxPhotoSizeMB = 5

	// MaxPhotoSize is the maximum allowed profile photo size in bytes.
	MaxPhotoSize = MaxPhotoSizeMB * 1024 * 1024

	// PresignedURLDuration is the fixed validity window for presigned URLs.
	PresignedURLDuration = 5 * time.Minute
)

// AllowedMIMETypes defines the set of permitted MIME types for profile photos.
var AllowedMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// ExtToMIME maps file extensions to their corresponding MIME types.
var ExtToMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// ValidatePhotoSize checks that the file size is positive and within limits.
func ValidatePhotoSize(fileSize int64) *errs.CustomError {
	if fileSize <= 0 {
		return errs.NewError(errs.ErrInvalidParams)
	}

	if fileSize > MaxPhotoSize {
		return errs.NewError(errs.ErrFileSizeTooLarge)
	}

	return nil
}

// ValidatePhotoType checks that the file name extension and MIME type agree
// and both denote an allowed image format.
func ValidatePhotoType(fileName string, mimeType string) *errs.CustomError {
	lowerMimeType := strings.ToLower(mimeType)

	if _, ok := AllowedMIMETypes[lowerMimeType]; !ok {
		return errs.NewError(errs.ErrInvalidParams)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" || len(ext) < 2 {
		return errs.NewError(errs.ErrInvalidParams)
	}

	expectedMIME, ok := ExtToMIME[ext]
	if !ok {
		return errs.NewError(errs.ErrInvalidParams)
	}

	if expectedMIME != lowerMimeType {
		return errs.NewError(errs.ErrInvalidParams)
	}

	return nil
}
