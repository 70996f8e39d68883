// Package validate holds the field-level payload checks shared by the
// resource handlers. Each helper returns nil when the value passes.
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"

	"github.com/saadraza/portfolio-backend/errs"
)

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
var nameRe = regexp.MustCompile(`^[a-zA-Z\s]+$`)

type Errors []errs.FieldError

func (e Errors) Error() string {
	var b strings.Builder
	for i, fe := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(fe.Field + ": " + fe.Message)
	}
	return b.String()
}

// Add appends any non-nil field errors.
func (e *Errors) Add(fieldErrs ...*errs.FieldError) {
	for _, fe := range fieldErrs {
		if fe != nil {
			*e = append(*e, *fe)
		}
	}
}

// AsApiErr converts accumulated field errors into a 400 ApiErr, or nil when
// everything passed.
func (e Errors) AsApiErr() *errs.ApiErr {
	if len(e) == 0 {
		return nil
	}
	return errs.NewValidationError(e)
}

func Required(field, value string) *errs.FieldError {
	if strings.TrimSpace(value) == "" {
		return &errs.FieldError{Field: field, Message: "is required"}
	}
	return nil
}

func Length(field, value string, min, max int) *errs.FieldError {
	n := len(strings.TrimSpace(value))
	if n < min || n > max {
		return &errs.FieldError{
			Field:   field,
			Message: fmt.Sprintf("must be between %d and %d characters", min, max),
		}
	}
	return nil
}

func MaxLength(field, value string, max int) *errs.FieldError {
	if len(strings.TrimSpace(value)) > max {
		return &errs.FieldError{
			Field:   field,
			Message: fmt.Sprintf("cannot exceed %d characters", max),
		}
	}
	return nil
}

func Email(field, value string) *errs.FieldError {
	if _, err := mail.ParseAddress(strings.TrimSpace(value)); err != nil {
		return &errs.FieldError{Field: field, Message: "must be a valid email address"}
	}
	return nil
}

// LettersAndSpaces matches the contact-form name constraint.
func LettersAndSpaces(field, value string) *errs.FieldError {
	if !nameRe.MatchString(strings.TrimSpace(value)) {
		return &errs.FieldError{Field: field, Message: "can only contain letters and spaces"}
	}
	return nil
}

func OneOf(field, value string, allowed []string) *errs.FieldError {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &errs.FieldError{
		Field:   field,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

func IntRange(field string, v, min, max int) *errs.FieldError {
	if v < min || v > max {
		return &errs.FieldError{
			Field:   field,
			Message: fmt.Sprintf("must be between %d and %d", min, max),
		}
	}
	return nil
}

func MinInt(field string, v, min int) *errs.FieldError {
	if v < min {
		return &errs.FieldError{
			Field:   field,
			Message: fmt.Sprintf("must be at least %d", min),
		}
	}
	return nil
}

func URL(field, value string) *errs.FieldError {
	u, err := url.Parse(strings.TrimSpace(value))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return &errs.FieldError{Field: field, Message: "must be a valid URL"}
	}
	return nil
}

func HexColor(field, value string) *errs.FieldError {
	if !hexColorRe.MatchString(value) {
		return &errs.FieldError{Field: field, Message: "must be a valid hex color"}
	}
	return nil
}
