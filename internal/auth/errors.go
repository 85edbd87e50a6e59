package auth

import "errors"

var (
	// ErrMissingEmail signals a registration without an email.
	ErrMissingEmail = errors.New("missing email")
	// ErrMissingPassword signals a registration without a password.
	ErrMissingPassword = errors.New("missing password")
	// ErrEmailAlreadyExists indicates the email is already registered.
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrUserNotFound signals that the user could not be located.
	ErrUserNotFound = errors.New("user not found")
	// ErrUnauthorized represents missing, invalid or expired credentials.
	ErrUnauthorized = errors.New("unauthorized")
)
