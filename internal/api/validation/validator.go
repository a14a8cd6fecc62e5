package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	contactNameRegex = regexp.MustCompile(`^[\p{L}\p{N}][\p{L}\p{M}\p{N} .'_-]*$`)
	phoneRegex       = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{3,30}$`)
)

// NewValidate returns a validator reading rules from `binding` tags, the same
// tag gin uses, and reporting fields by their JSON names.
func NewValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	v.RegisterTagNameFunc(jsonFieldName)
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators
func RegisterValidators(v *validator.Validate) {
	v.RegisterValidation("contact_name", validateContactName)
	v.RegisterValidation("phone", validatePhone)
}

// validateContactName accepts letters and digits of any script plus a few
// separators; the value must start with a letter or digit
func validateContactName(fl validator.FieldLevel) bool {
	return contactNameRegex.MatchString(fl.Field().String())
}

// validatePhone checks for a loosely formatted international phone number
func validatePhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

// jsonFieldName returns the JSON member name of a struct field
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// fieldMessage renders a human readable message for a failed rule
func fieldMessage(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "phone":
		return fmt.Sprintf("%s must be a valid phone number", field)
	case "contact_name":
		return fmt.Sprintf("%s contains invalid characters", field)
	default:
		return fmt.Sprintf("%s failed the %s rule", field, e.Tag())
	}
}
