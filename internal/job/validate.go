package job

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report JSON paths ("company.contactEmail") instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError describes one rejected field.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError is returned when a Job does not satisfy the required-field
// rules. It is never returned for persistence problems.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Path+": "+f.Message)
	}
	return "Job validation failed: " + strings.Join(parts, ", ")
}

// Validate checks j against the required-field rules. It returns nil or a
// *ValidationError listing every failing field in declaration order.
func Validate(j *Job) error {
	err := validate.Struct(j)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate job: %w", err)
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		// Namespace is "Job.company.name"; drop the struct name
		path := fe.Namespace()
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:]
		}
		out.Fields = append(out.Fields, FieldError{Path: path, Message: message(path, fe.Tag())})
	}
	return out
}

func message(path, tag string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("Path `%s` is required.", path)
	default:
		return fmt.Sprintf("Path `%s` failed the %q rule.", path, tag)
	}
}

// DecodeError converts a JSON type mismatch in a request body into a
// ValidationError. ok is false for any other error (syntax errors etc).
func DecodeError(err error) (verr *ValidationError, ok bool) {
	var te *json.UnmarshalTypeError
	if !errors.As(err, &te) {
		return nil, false
	}
	path := te.Field
	if path == "" {
		path = "(root)"
	}
	msg := fmt.Sprintf("Cast to %s failed for value of type %s at path `%s`", te.Type.Kind(), te.Value, path)
	return &ValidationError{Fields: []FieldError{{Path: path, Message: msg}}}, true
}
