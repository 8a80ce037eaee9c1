package services

import "errors"

// Sentinel errors mapped to HTTP statuses by the handlers.
var (
	// ErrForbidden: authenticated but failing the permission predicate.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound: the referenced document has no catalog row.
	ErrNotFound = errors.New("not found")
	// ErrNotFoundOnStorage: a catalog row exists but the blob is
	// missing (orphan case).
	ErrNotFoundOnStorage = errors.New("not found on storage")
	// ErrValidation: a required field is missing or malformed.
	ErrValidation = errors.New("validation failed")
	// ErrConflict: duplicate email on user creation.
	ErrConflict = errors.New("conflict")
	// ErrFileTooLarge: upload exceeds the configured ceiling. Checked
	// before any blob write so an oversized file never orphans a blob.
	ErrFileTooLarge = errors.New("file too large")
)
