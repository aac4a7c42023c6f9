// Package common defines shared constants and sentinel errors used across
// client and server layers of songkeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound        = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrReferenceNotFound = errors.New("referenced record does not exist")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrValidation     = errors.New("validation error")
	ErrOwnerNotFound  = errors.New("owner not found")

	// Cross-store write completed in the relational store only.
	ErrPartialFailure = errors.New("partial failure")

	// Access control errors.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
