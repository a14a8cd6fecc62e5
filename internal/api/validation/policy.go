package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/osa911/contact-api/internal/api/dto/common"
)

// Policy is the process-wide rule set applied to every JSON request body
// before handler dispatch.
type Policy struct {
	// Whitelist drops members that the target struct does not declare.
	Whitelist bool
	// ForbidNonWhitelisted turns undeclared members into a validation
	// failure. Only meaningful together with Whitelist.
	ForbidNonWhitelisted bool
	// Transform coerces scalar values to the declared field kind and trims
	// surrounding whitespace from strings.
	Transform bool
}

// StrictPolicy rejects undeclared members and coerces declared ones.
var StrictPolicy = Policy{
	Whitelist:            true,
	ForbidNonWhitelisted: true,
	Transform:            true,
}

var (
	ErrEmptyBody     = errors.New("request body is empty")
	ErrMalformedBody = errors.New("request body is not valid JSON")
	ErrNotObject     = errors.New("request body must be a JSON object")
)

// Sanitizer is implemented by request types that normalize their own
// fields. With Transform enabled it runs after coercion and before the
// binding rules, so the rules hold for the value handlers receive.
type Sanitizer interface {
	Sanitize()
}

// Error is returned when the body is well-formed JSON but violates the
// declared shape or its rules.
type Error struct {
	Details []common.ValidationError
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Details))
	for i, d := range e.Details {
		msgs[i] = d.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Validator applies a Policy and the struct rules to request bodies.
type Validator struct {
	policy   Policy
	validate *validator.Validate
}

// New creates a Validator enforcing policy
func New(policy Policy) *Validator {
	return &Validator{
		policy:   policy,
		validate: NewValidate(),
	}
}

// Policy returns the policy this validator enforces
func (v *Validator) Policy() Policy {
	return v.policy
}

// Decode parses body into dst, which must be a pointer to a struct, applying
// the policy and then the struct's binding rules.
func (v *Validator) Decode(body []byte, dst interface{}) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("validation: destination must be a non-nil struct pointer, got %T", dst)
	}
	target := rv.Elem()

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ErrEmptyBody
	}
	if body[0] != '{' {
		if json.Valid(body) {
			return ErrNotObject
		}
		return ErrMalformedBody
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(body, &members); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	fields := fieldsOf(target.Type())

	var unknown []string
	for name := range members {
		if _, ok := fields[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 && v.policy.Whitelist && v.policy.ForbidNonWhitelisted {
		sort.Strings(unknown)
		details := make([]common.ValidationError, len(unknown))
		for i, name := range unknown {
			details[i] = common.ValidationError{
				Field:   name,
				Message: fmt.Sprintf("property %s should not exist", name),
			}
		}
		return &Error{Details: details}
	}

	var details []common.ValidationError
	for name, raw := range members {
		idx, ok := fields[name]
		if !ok {
			continue
		}
		if err := v.assign(target.Field(idx), raw); err != nil {
			details = append(details, common.ValidationError{
				Field:   name,
				Message: fmt.Sprintf("%s %v", name, err),
				Value:   string(raw),
			})
		}
	}
	if len(details) > 0 {
		sort.Slice(details, func(i, j int) bool { return details[i].Field < details[j].Field })
		return &Error{Details: details}
	}

	if s, ok := dst.(Sanitizer); ok && v.policy.Transform {
		s.Sanitize()
	}

	if err := v.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		details := make([]common.ValidationError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, common.ValidationError{
				Field:   fe.Field(),
				Message: fieldMessage(fe),
			})
		}
		return &Error{Details: details}
	}

	return nil
}

// assign decodes one JSON member into field
func (v *Validator) assign(field reflect.Value, raw json.RawMessage) error {
	if string(raw) == "null" {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}
	if !v.policy.Transform {
		if err := json.Unmarshal(raw, field.Addr().Interface()); err != nil {
			return fmt.Errorf("must be of type %s", kindName(field.Kind()))
		}
		return nil
	}
	return coerce(field, raw)
}

// coerce converts a scalar JSON value into the field's kind
func coerce(field reflect.Value, raw json.RawMessage) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return fmt.Errorf("is not valid JSON")
	}

	fail := fmt.Errorf("must be of type %s", kindName(field.Kind()))

	switch field.Kind() {
	case reflect.String:
		switch val := value.(type) {
		case string:
			field.SetString(strings.TrimSpace(val))
		case json.Number:
			field.SetString(val.String())
		case bool:
			field.SetString(strconv.FormatBool(val))
		default:
			return fail
		}

	case reflect.Bool:
		switch val := value.(type) {
		case bool:
			field.SetBool(val)
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(val))
			if err != nil {
				return fail
			}
			field.SetBool(b)
		case json.Number:
			switch val.String() {
			case "1":
				field.SetBool(true)
			case "0":
				field.SetBool(false)
			default:
				return fail
			}
		default:
			return fail
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		text, ok := numericText(value)
		if !ok {
			return fail
		}
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil || field.OverflowInt(n) {
			return fail
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		text, ok := numericText(value)
		if !ok {
			return fail
		}
		n, err := strconv.ParseUint(text, 10, 64)
		if err != nil || field.OverflowUint(n) {
			return fail
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		text, ok := numericText(value)
		if !ok {
			return fail
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil || field.OverflowFloat(f) {
			return fail
		}
		field.SetFloat(f)

	default:
		if err := json.Unmarshal(raw, field.Addr().Interface()); err != nil {
			return fail
		}
	}

	return nil
}

func numericText(value interface{}) (string, bool) {
	switch val := value.(type) {
	case json.Number:
		return val.String(), true
	case string:
		text := strings.TrimSpace(val)
		return text, text != ""
	default:
		return "", false
	}
}

func kindName(k reflect.Kind) string {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Struct, reflect.Map:
		return "object"
	default:
		return k.String()
	}
}

var fieldCache sync.Map // reflect.Type -> map[string]int

// fieldsOf maps the JSON member names of t's exported fields to field indexes
func fieldsOf(t reflect.Type) map[string]int {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.(map[string]int)
	}
	fields := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if name := jsonFieldName(f); name != "" {
			fields[name] = i
		}
	}
	fieldCache.Store(t, fields)
	return fields
}
