package services

import "errors"

// Business-level errors shared across services; handlers map them to
// HTTP status codes.
var (
	ErrValidationFailed        = errors.New("validation failed")
	ErrInvalidStatusTransition = errors.New("invalid tournament status transition")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordTooShort   = errors.New("password is too short")

	ErrPoolNotFound = errors.New("pool not found")

	// ErrLogoStorageDisabled means no object storage is configured, so
	// logo uploads are rejected rather than silently dropped.
	ErrLogoStorageDisabled = errors.New("logo storage is not configured")
)
