package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

var (
	ErrForbidden   = errors.New("staff privileges required")
	ErrNotProvider = errors.New("user is not a provider")
)

// Message attached to the email field when registration hits a duplicate.
const msgEmailTaken = "A user with that email already exists."
