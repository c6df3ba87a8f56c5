package account

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/campusmove/core"
	"github.com/dmitrymomot/campusmove/handler"
	"github.com/dmitrymomot/campusmove/pkg/binder"
	"github.com/dmitrymomot/campusmove/pkg/file"
	"github.com/dmitrymomot/campusmove/pkg/logger"
	"github.com/dmitrymomot/campusmove/pkg/ratelimiter"
	"github.com/dmitrymomot/campusmove/svc/auth"
	"github.com/dmitrymomot/campusmove/svc/token"
)

// RouterOptions wires the module. Auth and Tokens are required. A nil
// limiter disables throttling for its endpoints.
type RouterOptions struct {
	Auth           *auth.Service
	Tokens         *token.Service
	LoginLimiter   ratelimiter.Limiter
	RefreshLimiter ratelimiter.Limiter
	Logger         *slog.Logger
}

const (
	// MaxRequestBody caps bodies of every endpoint except profile updates.
	MaxRequestBody int64 = 1 << 20
	// MaxProfileBody leaves room for multipart overhead around an image.
	MaxProfileBody = file.MaxImageSize + 1<<20
)

type module struct {
	auth         *auth.Service
	tokens       *token.Service
	log          *slog.Logger
	errorHandler handler.ErrorHandler[handler.Context]
	bind         binder.Func
}

// Router builds the API router. Mount it under /api.
func Router(opts RouterOptions) chi.Router {
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}
	m := &module{
		auth:         opts.Auth,
		tokens:       opts.Tokens,
		log:          log.With(logger.Component("account")),
		errorHandler: handler.NewErrorHandler(log),
		bind:         binder.Negotiate(binder.JSON(binder.AllowUnknownFields()), binder.Form()),
	}

	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handler.RenderError(w, r, core.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handler.RenderError(w, r, core.ErrMethodNotAllowed.WithMessage("method "+r.Method+" not allowed"))
	})

	loginThrottle := m.throttle(opts.LoginLimiter, "login")
	refreshThrottle := m.throttle(opts.RefreshLimiter, "refresh")
	authenticated := m.tokens.Middleware(m.authError)
	limitBody := middleware.RequestSize(MaxRequestBody)
	limitUpload := middleware.RequestSize(MaxProfileBody)

	r.Route("/auth", func(r chi.Router) {
		r.With(limitBody).Post("/register/", wrap(m, m.register))
		r.With(loginThrottle, limitBody).Post("/login/", wrap(m, m.login))
		r.With(limitBody).Post("/logout/", wrap(m, m.blacklist))

		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.Get("/profile/", wrap(m, m.profile))
			r.With(limitUpload).Put("/profile/", wrap(m, m.updateProfile))
			r.With(limitUpload).Patch("/profile/", wrap(m, m.updateProfile))
			r.With(limitBody).Post("/verify-provider/", wrap(m, m.verifyProvider))
		})
	})

	r.Route("/token", func(r chi.Router) {
		r.Use(limitBody)
		r.With(loginThrottle).Post("/", wrap(m, m.obtainToken))
		r.With(refreshThrottle).Post("/refresh/", wrap(m, m.refresh))
		r.Post("/verify/", wrap(m, m.verifyToken))
		r.Post("/blacklist/", wrap(m, m.blacklist))
	})

	return r
}

// wrap adapts a typed handler. Requests with a body are bound with the
// module binder; bodiless requests get the zero value.
func wrap[R any](m *module, h handler.HandlerFunc[handler.Context, R]) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithErrorHandler[handler.Context, R](m.errorHandler),
		handler.WithBinder[handler.Context, R](func(r *http.Request, v any) error {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				return nil
			}
			return m.bind(r, v)
		}),
	)
}

func (m *module) throttle(limiter ratelimiter.Limiter, scope string) func(http.Handler) http.Handler {
	if limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return ratelimiter.Middleware(limiter, ratelimiter.ByClientIP(scope),
		ratelimiter.WithDeniedHandler(func(w http.ResponseWriter, r *http.Request, _ ratelimiter.Result) {
			m.log.WarnContext(r.Context(), "request throttled",
				logger.Event("rate_limited"),
				slog.String("scope", scope),
				slog.String("path", r.URL.Path),
			)
			handler.RenderError(w, r, errRateLimited)
		}),
		ratelimiter.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			m.log.ErrorContext(r.Context(), "rate limiter failed", logger.Error(err), slog.String("scope", scope))
			handler.RenderError(w, r, err)
		}),
	)
}

func (m *module) authError(w http.ResponseWriter, r *http.Request, err error) {
	mapped := httpError(err)
	status, _ := handler.Classify(mapped)
	level := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	m.log.Log(r.Context(), level, "authentication failed", logger.Error(err), slog.String("path", r.URL.Path))
	handler.RenderError(w, r, mapped)
}
