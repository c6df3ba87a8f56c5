package binder

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"reflect"
	"strconv"
	"strings"
)

// DefaultMaxMemory is the multipart memory threshold; larger parts spill to disk.
const DefaultMaxMemory = 10 << 20

var fileHeaderType = reflect.TypeFor[*multipart.FileHeader]()

type formOptions struct {
	maxMemory int64
}

type FormOption func(*formOptions)

func WithMaxMemory(n int64) FormOption {
	return func(o *formOptions) { o.maxMemory = n }
}

// Form binds urlencoded and multipart bodies.
func Form(opts ...FormOption) Func {
	o := formOptions{maxMemory: DefaultMaxMemory}
	for _, opt := range opts {
		opt(&o)
	}

	return func(r *http.Request, v any) error {
		mt, params, err := mediaType(r)
		if err != nil {
			return fmt.Errorf("%w: expected form data", err)
		}

		var (
			values map[string][]string
			files  map[string][]*multipart.FileHeader
		)

		switch mt {
		case "application/x-www-form-urlencoded":
			if err := r.ParseForm(); err != nil {
				return fmt.Errorf("%w: %w", ErrFailedToParseForm, err)
			}
			values = r.PostForm

		case "multipart/form-data":
			if params["boundary"] == "" {
				return fmt.Errorf("%w: missing boundary", ErrFailedToParseForm)
			}
			if err := r.ParseMultipartForm(o.maxMemory); err != nil {
				return fmt.Errorf("%w: %w", ErrFailedToParseForm, err)
			}
			values = r.MultipartForm.Value
			files = r.MultipartForm.File

		default:
			return fmt.Errorf("%w: got %s, expected form data", ErrUnsupportedMediaType, mt)
		}

		return bindFormAndFiles(v, values, files)
	}
}

func bindFormAndFiles(v any, values map[string][]string, files map[string][]*multipart.FileHeader) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: target must be a non-nil pointer", ErrFailedToParseForm)
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("%w: target must be a pointer to struct", ErrFailedToParseForm)
	}

	rt := rv.Type()
	for i := range rv.NumField() {
		field := rv.Field(i)
		sf := rt.Field(i)
		if !field.CanSet() {
			continue
		}

		if name := tagName(sf.Tag.Get("form")); name != "" {
			if vals := values[name]; len(vals) > 0 {
				if err := setFieldValue(field, sf.Type, vals); err != nil {
					return fmt.Errorf("%w: field %s: %v", ErrFailedToParseForm, name, err)
				}
			}
		}

		if name := tagName(sf.Tag.Get("file")); name != "" {
			if fhs := files[name]; len(fhs) > 0 {
				if err := setFileField(field, sf.Type, fhs); err != nil {
					return fmt.Errorf("%w: field %s: %v", ErrFailedToParseForm, name, err)
				}
			}
		}
	}
	return nil
}

func tagName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}

func setFileField(field reflect.Value, t reflect.Type, fhs []*multipart.FileHeader) error {
	switch {
	case t == fileHeaderType:
		field.Set(reflect.ValueOf(fhs[0]))
	case t.Kind() == reflect.Slice && t.Elem() == fileHeaderType:
		field.Set(reflect.ValueOf(fhs))
	default:
		return fmt.Errorf("unsupported file field type %v", t)
	}
	return nil
}

func setFieldValue(field reflect.Value, t reflect.Type, values []string) error {
	if t.Kind() == reflect.Pointer {
		if field.IsNil() {
			field.Set(reflect.New(t.Elem()))
		}
		return setFieldValue(field.Elem(), t.Elem(), values)
	}

	if t.Kind() == reflect.Slice {
		slice := reflect.MakeSlice(t, len(values), len(values))
		for i, s := range values {
			if err := setFieldValue(slice.Index(i), t.Elem(), []string{s}); err != nil {
				return err
			}
		}
		field.Set(slice)
		return nil
	}

	value := values[0]
	switch t.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid int value %q", value)
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid uint value %q", value)
		}
		field.SetUint(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			switch strings.ToLower(value) {
			case "on", "yes":
				b = true
			case "off", "no", "":
				b = false
			default:
				return fmt.Errorf("invalid bool value %q", value)
			}
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported type %s", t.Kind())
	}
	return nil
}
