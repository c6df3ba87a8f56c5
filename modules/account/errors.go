package account

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/campusmove/core"
	"github.com/dmitrymomot/campusmove/pkg/validator"
	"github.com/dmitrymomot/campusmove/svc/auth"
	"github.com/dmitrymomot/campusmove/svc/token"
)

var (
	errInvalidCredentials = core.ErrUnauthorized.WithMessage("invalid credentials")
	errNotAuthenticated   = core.ErrUnauthorized.WithMessage("authentication credentials were not provided")
	errTokenInvalid       = core.ErrUnauthorized.WithMessage("token is invalid or expired")
	errTokenBlacklisted   = core.ErrUnauthorized.WithMessage("token is blacklisted")
	errWrongTokenType     = core.ErrUnauthorized.WithMessage("token has wrong type")
	errStaffRequired      = core.ErrForbidden.WithMessage("staff privileges required")
	errAccountNotFound    = core.ErrNotFound.WithMessage("account not found")
	errProviderNotFound   = core.ErrNotFound.WithMessage("provider not found")
	errNotProvider        = core.ErrBadRequest.WithMessage("user is not a provider: user_type must be provider")
	errRateLimited        = core.ErrTooManyRequests.WithMessage("rate limit exceeded: too many requests")
)

// httpError attaches the client-facing HTTP error to a domain error. The
// original stays in the chain for logging. Unknown errors are returned
// unchanged and render as 500.
func httpError(err error) error {
	if validator.IsValidationError(err) {
		return err
	}

	var mapped error
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		mapped = errInvalidCredentials
	case errors.Is(err, token.ErrMissingToken):
		mapped = errNotAuthenticated
	case errors.Is(err, token.ErrTokenBlacklisted):
		mapped = errTokenBlacklisted
	case errors.Is(err, token.ErrWrongTokenType):
		mapped = errWrongTokenType
	case errors.Is(err, token.ErrTokenExpired), errors.Is(err, token.ErrTokenInvalid):
		mapped = errTokenInvalid
	case errors.Is(err, auth.ErrForbidden):
		mapped = errStaffRequired
	case errors.Is(err, auth.ErrAccountNotFound):
		mapped = errAccountNotFound
	case errors.Is(err, auth.ErrNotProvider):
		mapped = errNotProvider
	default:
		return err
	}
	return fmt.Errorf("%w: %w", mapped, err)
}
