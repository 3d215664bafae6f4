// Package validation holds the property field rules shared by the REST API and
// the admin console. Every failing field is reported, never only the first one.
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	namePattern = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	textPattern = regexp.MustCompile(`^[a-zA-Z0-9\s.,-]+$`)

	titleCaser = cases.Title(language.English)
)

// FieldError describes a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the full list of field failures for one payload.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Map keys messages by field name. The first message for a field wins.
func (e Errors) Map() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

// Has reports whether field failed validation.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Merge returns errs followed by the failures in extra for fields errs does
// not already report.
func Merge(errs, extra Errors) Errors {
	out := append(Errors{}, errs...)
	for _, fe := range extra {
		if !errs.Has(fe.Field) {
			out = append(out, fe)
		}
	}
	return out
}

// IsValidationError reports whether err carries field errors.
func IsValidationError(err error) bool {
	var verrs Errors
	return errors.As(err, &verrs)
}

// Validator wraps a configured go-playground validator.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the property rule tags registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})

	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "propname", matches(namePattern))
	mustRegister(v, "proptext", matches(textPattern))
	mustRegister(v, "posnumber", isPositiveNumber)
	mustRegister(v, "finite", isFinite)

	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func isPositiveNumber(fl validator.FieldLevel) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(fl.Field().String()), 64)
	if err != nil {
		return false
	}
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f > 0
}

func isFinite(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Struct validates s and converts failures into Errors.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe.Field(), fe.Tag())})
	}
	return out
}

// Label turns a json field name into the label shown to users.
func Label(field string) string {
	return titleCaser.String(strings.ReplaceAll(field, "_", " "))
}

func message(field, tag string) string {
	label := Label(field)
	switch tag {
	case "required", "notblank":
		return label + " is required"
	case "propname":
		return label + " must contain only letters and spaces"
	case "proptext":
		return label + " must not contain special characters other than . , -"
	case "numeric", "number":
		return label + " must be a number"
	case "gt", "posnumber", "finite":
		return label + " must be a positive number"
	case "oneof":
		return label + " has an invalid value"
	case "email":
		return label + " must be a valid email address"
	}
	return fmt.Sprintf("Field '%s' failed on the '%s' tag", field, tag)
}
