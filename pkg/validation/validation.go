// Package validation checks `validate` struct tags and reports one French
// message per invalid field, keyed by the field's JSON name.
package validation

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is wrapped by every *Error.
var ErrInvalid = errors.New("validation failed")

// Messages maps "field.tag" (or just "field") to the text shown to users.
type Messages map[string]string

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Error carries one message per invalid field.
type Error struct {
	Fields map[string]string
	order  []string
}

func (e *Error) Error() string {
	keys := e.order
	if len(keys) == 0 {
		keys = make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return strings.Join(parts, ", ")
}

func (e *Error) Unwrap() error { return ErrInvalid }

// Field returns an *Error reporting a single field.
func Field(name, message string) *Error {
	return &Error{Fields: map[string]string{name: message}, order: []string{name}}
}

// Struct validates s. It returns nil when s is valid and an *Error otherwise;
// fields keep their declaration order in Error().
func Struct(s any, messages Messages) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		name := fe.Field()
		if _, seen := out.Fields[name]; seen {
			continue
		}
		out.Fields[name] = messages.lookup(name, fe.Tag())
		out.order = append(out.order, name)
	}
	return out
}

func (m Messages) lookup(field, tag string) string {
	if msg, ok := m[field+"."+tag]; ok {
		return msg
	}
	if msg, ok := m[field]; ok {
		return msg
	}
	return "Le champ " + field + " n'est pas valide"
}
