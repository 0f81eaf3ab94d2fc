package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrProgramNotFound    = errors.New("program not found")
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrPackageNotFound    = errors.New("wellness package not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrSessionNotFound    = errors.New("checkout session not found")
	ErrOAuthProvider      = errors.New("unsupported oauth provider")
	ErrOAuthStateMismatch = errors.New("oauth state mismatch")
)
