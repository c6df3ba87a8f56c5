package token

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrymomot/campusmove/pkg/jwt"
	"github.com/dmitrymomot/campusmove/svc/auth"
)

// ErrorHandlerFunc writes the rejection for a failed authentication.
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)

// Middleware requires a valid access token in the Authorization header.
// The resolved account is stored with auth.SetAccountToContext and the
// claims with jwt.SetClaims. errorHandler receives token package errors,
// or a storage error when the subject could not be loaded.
func (s *Service) Middleware(errorHandler ErrorHandlerFunc) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		}
	}

	verify := jwt.Middleware(jwt.MiddlewareConfig[*Claims]{
		Service:   s.signer,
		NewClaims: func() *Claims { return &Claims{} },
		Extractor: jwt.BearerTokenExtractor,
		Validate: func(_ context.Context, claims *Claims) error {
			if err := claims.validate(); err != nil {
				return err
			}
			if claims.TokenType != TypeAccess {
				return ErrWrongTokenType
			}
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			errorHandler(w, r, middlewareError(err))
		},
	})

	resolve := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := jwt.GetClaims[*Claims](r.Context())
			if !ok {
				errorHandler(w, r, ErrTokenInvalid)
				return
			}
			account, err := s.resolve(r.Context(), claims)
			if err != nil {
				errorHandler(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.SetAccountToContext(r.Context(), account)))
		})
	}

	return func(next http.Handler) http.Handler {
		return verify(resolve(next))
	}
}

func middlewareError(err error) error {
	switch {
	case errors.Is(err, ErrWrongTokenType), errors.Is(err, ErrTokenInvalid):
		return err
	case errors.Is(err, jwt.ErrInvalidAuthHeader):
		return errors.Join(ErrTokenInvalid, err)
	default:
		return mapJWTError(err)
	}
}
