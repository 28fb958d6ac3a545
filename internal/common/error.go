// Package common defines shared constants and sentinel errors used across
// buildhub components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal      = errors.New("internal error")
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrorForbidden     = errors.New("forbidden")
	ErrorRateLimited   = errors.New("rate limit exceeded")
	ErrorValidation    = errors.New("validation error")
	ErrorConfiguration = errors.New("configuration error")

	// Token errors (invalid signature, malformed, or outside the
	// validity window).
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenNotYetValid = errors.New("token not yet valid")

	// Session lifecycle errors.
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
