// Package validation schema-checks request payloads before they reach the
// service layer. Each route binds one request type explicitly; no handler
// decides its schema by inspecting the URL.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Error is a schema violation with a user-facing message.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Check validates v against its struct tags. On failure it reports the first
// violated constraint only.
func Check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &Error{Message: message(verrs[0])}
	}
	return err
}

func message(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "email":
		return fmt.Sprintf("%q must be a valid email", field)
	case "min":
		return fmt.Sprintf("%q length must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%q length must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}
