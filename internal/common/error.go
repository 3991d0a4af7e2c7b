// Package common defines shared constants and sentinel errors used across
// the server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Identity token errors.
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrNoSession    = errors.New("no session")

	// CSRF errors.
	ErrCsrfMissing = errors.New("csrf token missing")
	ErrCsrfInvalid = errors.New("csrf token invalid")

	// Account errors.
	ErrEmailTaken         = errors.New("email already taken")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrPasswordTooLong    = errors.New("password too long")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Task record errors.
	ErrRecordNotFound = errors.New("record not found")
)
