package certificates

import "errors"

var (
	// ErrNotFound signals that no record matches the given identifier.
	ErrNotFound = errors.New("certificate not found")
	// ErrDuplicateID signals that a record with this certificate ID already exists.
	ErrDuplicateID = errors.New("certificate ID already exists")
	// ErrInvalidInput signals a missing or malformed field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized signals an upload attempted without an authenticated identity.
	ErrUnauthorized = errors.New("authentication required")
)
