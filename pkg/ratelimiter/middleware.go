package ratelimiter

import (
	"net/http"
	"strconv"

	"github.com/dmitrymomot/campusmove/pkg/clientip"
)

// KeyFunc derives the bucket key for a request. An empty key skips limiting.
type KeyFunc func(r *http.Request) string

// ByClientIP keys buckets by scope and client address.
func ByClientIP(scope string) KeyFunc {
	return func(r *http.Request) string {
		ip := clientip.FromContext(r.Context())
		if ip == "" {
			ip = clientip.FromRequest(r)
		}
		if ip == "" {
			return ""
		}
		return scope + ":" + ip
	}
}

type middlewareOptions struct {
	denied  func(w http.ResponseWriter, r *http.Request, res Result)
	onError func(w http.ResponseWriter, r *http.Request, err error)
}

type MiddlewareOption func(*middlewareOptions)

// WithDeniedHandler renders the 429 response. Rate limit headers are
// already set when it runs.
func WithDeniedHandler(fn func(w http.ResponseWriter, r *http.Request, res Result)) MiddlewareOption {
	return func(o *middlewareOptions) { o.denied = fn }
}

// WithErrorHandler renders store failures.
func WithErrorHandler(fn func(w http.ResponseWriter, r *http.Request, err error)) MiddlewareOption {
	return func(o *middlewareOptions) { o.onError = fn }
}

func Middleware(limiter Limiter, keyFunc KeyFunc, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	o := middlewareOptions{
		denied: func(w http.ResponseWriter, _ *http.Request, _ Result) {
			http.Error(w, "rate limit exceeded: too many requests", http.StatusTooManyRequests)
		},
		onError: func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		},
	}
	for _, opt := range opts {
		opt(&o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			res, err := limiter.Allow(r.Context(), key)
			if err != nil {
				o.onError(w, r, err)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, res.Remaining)))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed() {
				if retry := int(res.RetryAfter().Seconds()); retry > 0 {
					h.Set("Retry-After", strconv.Itoa(retry))
				}
				o.denied(w, r, res)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
