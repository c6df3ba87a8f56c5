package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/campusmove/core"
	"github.com/dmitrymomot/campusmove/pkg/binder"
	"github.com/dmitrymomot/campusmove/pkg/logger"
	"github.com/dmitrymomot/campusmove/pkg/validator"
)

// ErrorBody is the envelope every error response uses.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

// Classify maps err to a status code and envelope detail. Unknown errors
// become a generic 500 without internals.
func Classify(err error) (int, ErrorDetail) {
	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
		return http.StatusBadRequest, ErrorDetail{
			Code:    "validation_error",
			Message: "invalid input",
			Details: verrs.Map(),
		}
	}

	var httpErr core.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, ErrorDetail{Code: httpErr.Key, Message: httpErr.Text()}
	}

	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return Classify(core.ErrRequestTooLarge)
	case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
		return Classify(core.ErrUnsupportedMediaType.WithMessage(err.Error()))
	case errors.Is(err, binder.ErrFailedToParseJSON), errors.Is(err, binder.ErrFailedToParseForm):
		return Classify(core.ErrBadRequest.WithMessage("malformed request body"))
	}

	return Classify(core.ErrInternalServerError.WithMessage("internal server error"))
}

// RenderError writes the envelope for err.
func RenderError(w http.ResponseWriter, _ *http.Request, err error) {
	status, detail := Classify(err)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorBody{Error: detail})
}

// NewErrorHandler logs and renders errors. Server errors log at Error with
// the cause; client errors log at Debug.
func NewErrorHandler(log *slog.Logger) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(logger.Component("http"))

	return func(ctx Context, err error) {
		r := ctx.Request()
		status, _ := Classify(err)

		level := slog.LevelDebug
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		log.LogAttrs(ctx, level, "request failed",
			logger.Error(err),
			slog.Int("status_code", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)

		RenderError(ctx.ResponseWriter(), r, err)
	}
}
