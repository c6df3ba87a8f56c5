package jwt

import (
	"context"
	"net/http"
	"strings"
)

// TokenExtractorFunc pulls the raw token out of a request.
type TokenExtractorFunc func(r *http.Request) (string, error)

// BearerTokenExtractor reads "Authorization: Bearer <token>".
func BearerTokenExtractor(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", ErrMissingToken
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" {
		return "", ErrInvalidAuthHeader
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.Contains(token, " ") {
		return "", ErrInvalidAuthHeader
	}
	return token, nil
}

// MiddlewareConfig configures Middleware. NewClaims must return a fresh
// pointer for every request.
type MiddlewareConfig[C Claims] struct {
	Service   *Service
	NewClaims func() C
	Extractor TokenExtractorFunc
	// Validate runs after signature and expiry checks pass.
	Validate func(ctx context.Context, claims C) error
	// ErrorHandler writes the rejection. Defaults to a plain 401.
	ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

// Middleware rejects requests without a valid token and stores the token
// and its claims in the context otherwise.
func Middleware[C Claims](cfg MiddlewareConfig[C]) func(http.Handler) http.Handler {
	if cfg.Extractor == nil {
		cfg.Extractor = BearerTokenExtractor
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := cfg.Extractor(r)
			if err != nil {
				cfg.ErrorHandler(w, r, err)
				return
			}

			claims := cfg.NewClaims()
			if err := cfg.Service.Parse(token, claims); err != nil {
				cfg.ErrorHandler(w, r, err)
				return
			}
			if cfg.Validate != nil {
				if err := cfg.Validate(r.Context(), claims); err != nil {
					cfg.ErrorHandler(w, r, err)
					return
				}
			}

			ctx := SetToken(r.Context(), token)
			ctx = SetClaims(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
