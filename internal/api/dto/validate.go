package dto

import (
	"errors"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/artemdali21-ship-it/shef-montazh-sub002/pkg/util"
)

var validate = validator.New()

// Validate checks struct tags and reports failures as a VALIDATION_FAILED error
// with one detail entry per field.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fe.Tag()
	}
	return apperrors.NewValidationError("invalid payload", details)
}
