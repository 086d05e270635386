package form

import (
	"errors"
	"fmt"
)

var (
	ErrSchemaInvalid = errors.New("custom field schema is invalid")

	// ErrValidationFailed is what a guest gets to see; the wrapped errors
	// below carry the detail.
	ErrValidationFailed     = errors.New("validation failed")
	ErrMissingRequiredField = fmt.Errorf("%w: missing required field", ErrValidationFailed)
	ErrUnknownField         = fmt.Errorf("%w: unknown field", ErrValidationFailed)
	ErrInvalidOption        = fmt.Errorf("%w: invalid option", ErrValidationFailed)
	ErrValueTooLong         = fmt.Errorf("%w: value too long", ErrValidationFailed)
)
