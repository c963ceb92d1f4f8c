package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	serverErrors "github.com/canopyhq/canopy/pkg/server/errors"
)

var registerValidationsOnce sync.Once

// registerValidations adds the rules used by the request bodies to the validator behind gin
// bindings and makes field errors report JSON names.
func registerValidations() {
	registerValidationsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		if err := v.RegisterValidation("notblank", notBlank); err != nil {
			panic(err)
		}
		if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
			panic(err)
		}

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// notBlank fails strings made only of whitespace.
func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}

// maxBytes fails strings longer than the tag parameter in bytes. The built-in max rule
// counts runes.
func maxBytes(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		panic(fmt.Sprintf("maxbytes: invalid parameter '%s'", fl.Param()))
	}
	return len(field.String()) <= limit
}

// bindingError translates the error of a failed ShouldBindJSON into a validation error
// naming the first offending field.
func bindingError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return serverErrors.ValidationError(fieldError(validationErrors[0]))
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		return serverErrors.ValidationError(fmt.Errorf("malformed request body: %w", err))
	case errors.As(err, &typeErr):
		return serverErrors.ValidationError(fmt.Errorf("field '%s' has an invalid type", typeErr.Field))
	default:
		return serverErrors.ValidationError(fmt.Errorf("invalid request body: %w", err))
	}
}

func fieldError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Errorf("field '%s' is required", fe.Field())
	case "max":
		return fmt.Errorf("field '%s' must be at most %s characters", fe.Field(), fe.Param())
	case "maxbytes":
		return fmt.Errorf("field '%s' must be at most %s bytes", fe.Field(), fe.Param())
	case "gt":
		return fmt.Errorf("field '%s' must be greater than %s", fe.Field(), fe.Param())
	default:
		return fmt.Errorf("field '%s' failed on the '%s' rule", fe.Field(), fe.Tag())
	}
}
