package token

import "errors"

var (
	ErrTokenInvalid     = errors.New("token is invalid")
	ErrTokenExpired     = errors.New("token is expired")
	ErrTokenBlacklisted = errors.New("token is blacklisted")
	ErrWrongTokenType   = errors.New("wrong token type")
	ErrMissingToken     = errors.New("authentication credentials were not provided")
)
