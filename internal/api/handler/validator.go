package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/identityadmin/admin-service/internal/core/domain"
	"github.com/identityadmin/admin-service/internal/pkg/validation"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
// It shares the validator instance and messages used by the domain entities.
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{v: validation.Get()}
}

// Validate satisfies the echo.Validator interface. Rule violations come back
// as a *domain.ValidationError so they render like core validation failures.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, validation.FieldMessage(fe))
	}
	return &domain.ValidationError{Fields: fields}
}
