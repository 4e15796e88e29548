package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validationMessages holds the message per tag; %[1]s is the field path and
// %[2]s the tag parameter.
var validationMessages = map[string]string{
	"required": "%[1]s is required",
	"email":    "%[1]s must be a valid email",
	"gt":       "%[1]s must be greater than %[2]s",
	"gte":      "%[1]s must be at least %[2]s",
	"oneof":    "%[1]s must be one of: %[2]s",
}

// echoValidator plugs go-playground/validator into echo's c.Validate.
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns a validator that names fields by their JSON key.
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &echoValidator{v: v}
}

// Validate joins every field failure into one message, e.g.
// "cliente is required; conceptos[0].cantidad must be greater than 0".
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return err
	}
	msgs := make([]string, len(fields))
	for n, fe := range fields {
		msgs[n] = describeField(fe)
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describeField(fe validator.FieldError) string {
	// Namespace starts with the struct name: "createInvoiceRequest.conceptos[0].cantidad".
	path := fe.Namespace()
	if _, rest, ok := strings.Cut(path, "."); ok {
		path = rest
	}

	if fe.Tag() == "min" {
		unit := "character(s)"
		if k := fe.Kind(); k == reflect.Slice || k == reflect.Array || k == reflect.Map {
			unit = "element(s)"
		}
		return fmt.Sprintf("%s must have at least %s %s", path, fe.Param(), unit)
	}
	if tmpl, ok := validationMessages[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, path, fe.Param())
	}
	return fmt.Sprintf("%s failed validation (%s)", path, fe.Tag())
}
