package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrQuotaExceeded      = errors.New("quota exceeded")
	ErrProOnly            = errors.New("pro plan required")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrDuplicateOperation = errors.New("duplicate operation")
)
