package binder

import (
	"fmt"
	"mime"
	"net/http"
	"strings"
)

// Func binds r into v, which must be a non-nil pointer to a struct.
type Func func(r *http.Request, v any) error

// mediaType returns the lowercased media type of the request.
func mediaType(r *http.Request) (string, map[string]string, error) {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return "", nil, ErrMissingContentType
	}
	mt, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, ct)
	}
	return strings.ToLower(mt), params, nil
}

// Negotiate dispatches JSON bodies to jsonBinder and form bodies to
// formBinder. Anything else is ErrUnsupportedMediaType.
func Negotiate(jsonBinder, formBinder Func) Func {
	return func(r *http.Request, v any) error {
		mt, _, err := mediaType(r)
		if err != nil {
			return err
		}
		switch mt {
		case "application/json":
			return jsonBinder(r, v)
		case "application/x-www-form-urlencoded", "multipart/form-data":
			return formBinder(r, v)
		default:
			return fmt.Errorf("%w: got %s", ErrUnsupportedMediaType, mt)
		}
	}
}
