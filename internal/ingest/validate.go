// Package ingest contains the pre-write checks and naming applied to
// uploads before any blob or metadata side effect occurs.
package ingest

import (
	"errors"
	"mime"
)

var (
	// ErrInvalidType means the declared content type is not the accepted one.
	ErrInvalidType = errors.New("content type is not allowed")
	// ErrSizeLimitExceeded means the declared size is outside (0, MaxBytes].
	ErrSizeLimitExceeded = errors.New("file size exceeds the allowed limit")
)

// Validator checks the declared content type and byte size of an upload.
// A rejection here guarantees nothing was written anywhere.
type Validator struct {
	contentType string
	maxBytes    int64
}

// NewValidator builds a Validator accepting exactly contentType and sizes
// from 1 to maxBytes inclusive.
func NewValidator(contentType string, maxBytes int64) Validator {
	return Validator{contentType: contentType, maxBytes: maxBytes}
}

// Validate returns ErrInvalidType or ErrSizeLimitExceeded, or nil when the
// upload is acceptable. Media type parameters (e.g. "; charset=...") are
// ignored when comparing content types.
func (v Validator) Validate(contentType string, sizeBytes int64) error {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil || mt != v.contentType {
		return ErrInvalidType
	}
	if sizeBytes <= 0 || sizeBytes > v.maxBytes {
		return ErrSizeLimitExceeded
	}
	return nil
}
