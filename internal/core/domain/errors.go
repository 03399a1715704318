package domain

import "errors"

// Common domain errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserDisabled       = errors.New("user account is disabled")
	ErrUsernameTaken      = errors.New("username already registered")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPhoneTaken         = errors.New("phone already registered")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
)

// Password reset errors
var (
	ErrCodeInvalid  = errors.New("verification code invalid or expired")
	ErrCodeCooldown = errors.New("verification code requested too soon")
)

// RBAC errors
var (
	ErrRoleNotFound  = errors.New("role not found")
	ErrRoleProtected = errors.New("built-in role cannot be deleted")
	ErrMenuNotFound  = errors.New("menu not found")
)
