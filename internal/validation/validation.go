// Package validation binds request data and checks it against
// validator struct tags, turning failures into field-level
// 400 responses the client can act on.
package validation

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/travel-bucket/internal/errs"
)

// Validatable is implemented by request payloads.
type Validatable interface {
	Validate() error
}

// CustomValidationError is a rule that struct tags cannot express.
type CustomValidationError struct {
	Field   string
	Message string
}

type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

var validate = newValidator()

// newValidator reports fields by their json name so error fields match
// what the client sent.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "param", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// Struct validates s against its validate tags.
func Struct(s any) error {
	return validate.Struct(s)
}

// BindAndValidate binds path params, query and body into payload, then runs
// payload.Validate. Both failures come back as *errs.HTTPError with status 400.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return bindError(err)
	}

	if err := payload.Validate(); err != nil {
		msg, fieldErrors := extractValidationError(err)
		if fieldErrors == nil {
			return errs.ValidationError(err)
		}
		return errs.NewBadRequestError(msg, true, nil, fieldErrors, nil)
	}

	return nil
}

func bindError(err error) error {
	var bindingErr *echo.BindingError
	if errors.As(err, &bindingErr) {
		return errs.NewBadRequestError("Invalid request parameters", true, nil, []errs.FieldError{{
			Field: bindingErr.Field,
			Error: "has an invalid value",
		}}, nil)
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if echoErr.Code == http.StatusUnsupportedMediaType {
			return errs.NewBadRequestError("Unsupported content type, expected application/json", true, nil, nil, nil)
		}
		if msg, ok := echoErr.Message.(string); ok && msg != "" {
			return errs.NewBadRequestError(msg, false, nil, nil, nil)
		}
	}

	return errs.NewBadRequestError("Invalid request body", false, nil, nil, nil)
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var custom CustomValidationErrors
	if errors.As(err, &custom) {
		for _, e := range custom {
			fieldErrors = append(fieldErrors, errs.FieldError{Field: e.Field, Error: e.Message})
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error(), nil
	}

	for _, fe := range validationErrors {
		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: fe.Field(),
			Error: fieldMessage(fe),
		})
	}

	return "Validation failed", fieldErrors
}

func fieldMessage(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "notblank":
		return "must not be blank"
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("%s: %s:%s", fe.Field(), fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s: %s", fe.Field(), fe.Tag())
	}
}
