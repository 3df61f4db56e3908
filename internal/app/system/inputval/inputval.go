// Package inputval validates form input with waffle/pantry/validate and
// turns rule failures into French messages for display.
//
// Define an input struct with validate tags and optional label tags,
// populate it from form values, and call Validate:
//
//	type competitorInput struct {
//	    URL string `json:"url" validate:"required,httpurl" label:"URL LinkedIn"`
//	}
//
//	if res := inputval.Validate(in); res.HasErrors() {
//	    renderWithError(w, r, res.First())
//	    return
//	}
package inputval

import (
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/dalemusser/waffle/pantry/validate"
)

// Result holds validation results.
type Result struct {
	Errors []FieldError
}

// FieldError is a validation error for a single field.
type FieldError struct {
	Field   string
	Label   string
	Message string
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// First returns the first error message, or "" if none.
func (r *Result) First() string {
	if len(r.Errors) > 0 {
		return r.Errors[0].Message
	}
	return ""
}

// All returns all error messages joined with " ".
func (r *Result) All() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, " ")
}

// For returns the message for field, or "".
func (r *Result) For(field string) string {
	for _, e := range r.Errors {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

// Add appends a failure that no struct tag can express (conditional
// requirements, cross-field checks).
func (r *Result) Add(field, label, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Label: label, Message: message})
}

var (
	customValidator *validate.Validator
	validatorOnce   sync.Once
)

func getValidator() *validate.Validator {
	validatorOnce.Do(func() {
		customValidator = validate.New(validate.WithStopOnFirstError())

		// httpurl: absolute http:// or https:// URL
		customValidator.RegisterRuleFunc("httpurl", func(value any) bool {
			if s, ok := value.(string); ok {
				return IsValidHTTPURL(s)
			}
			return false
		}, "httpurl")

		// count: empty or a non-negative integer (engagement counters)
		customValidator.RegisterRuleFunc("count", func(value any) bool {
			if s, ok := value.(string); ok {
				return IsValidCount(s)
			}
			return false
		}, "count")

		// target: a strictly positive integer (monthly objectives)
		customValidator.RegisterRuleFunc("target", func(value any) bool {
			if s, ok := value.(string); ok {
				n, err := strconv.Atoi(strings.TrimSpace(s))
				return err == nil && n > 0
			}
			return false
		}, "target")
	})
	return customValidator
}

// Validate checks s against its validate tags.
//
// Rules from pantry/validate: required, oneof, min, max, email.
// Rules registered here: httpurl, count, target.
func Validate(s any) *Result {
	result := &Result{}

	err := getValidator().Struct(s)
	if err == nil {
		return result
	}

	labels := getFieldLabels(s)
	if errs, ok := err.(validate.Errors); ok {
		for _, e := range errs {
			label := labels[e.Field]
			if label == "" {
				label = e.Field
			}
			result.Errors = append(result.Errors, FieldError{
				Field:   e.Field,
				Label:   label,
				Message: formatMessage(label, e.Rule, e.Param),
			})
		}
	}
	return result
}

// getFieldLabels maps field names (json tag when present) to label tags.
func getFieldLabels(s any) map[string]string {
	labels := make(map[string]string)

	val := reflect.ValueOf(s)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return labels
	}

	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		name := field.Name
		if tag := field.Tag.Get("json"); tag != "" {
			if n, _, _ := strings.Cut(tag, ","); n != "" && n != "-" {
				name = n
			}
		}
		if label := field.Tag.Get("label"); label != "" {
			labels[name] = label
		}
	}
	return labels
}

func formatMessage(label, rule, param string) string {
	switch rule {
	case "required":
		return label + " est requis."
	case "oneof", "enum":
		return label + " doit valoir : " + strings.ReplaceAll(param, " ", ", ") + "."
	case "min":
		return label + " doit contenir au moins " + param + " caractères."
	case "max":
		return label + " doit contenir au plus " + param + " caractères."
	case "httpurl":
		return label + " doit être une URL commençant par http:// ou https://."
	case "count":
		return label + " doit être un nombre positif."
	case "target":
		return label + " doit être un entier supérieur à 0."
	default:
		return label + " est invalide."
	}
}

// IsValidHTTPURL reports whether s is an absolute http(s) URL with a host.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidCount reports whether s is empty or a non-negative integer.
func IsValidCount(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	n, err := strconv.ParseInt(s, 10, 64)
	return err == nil && n >= 0
}

// ParseCount converts an optional counter field. Empty gives nil.
func ParseCount(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}
