package repository

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/marshallshelly/pebble-records/pkg/runtime"
)

// newValidator reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func fieldError(fe validator.FieldError) *runtime.ValidationError {
	var msg string
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "email":
		msg = "must be a valid email address"
	case "gte":
		msg = fmt.Sprintf("must be at least %s", fe.Param())
	case "min":
		msg = fmt.Sprintf("must have at least %s entries", fe.Param())
	default:
		msg = fmt.Sprintf("failed the %s rule", fe.Tag())
	}
	// Drop the struct name: "UserProfile.addresses[0].city" -> "addresses[0].city".
	_, field, ok := strings.Cut(fe.Namespace(), ".")
	if !ok {
		field = fe.Field()
	}
	return &runtime.ValidationError{Field: field, Message: msg}
}
