// internal/services/validate.go
package services

import (
	"github.com/pagecraft/pagecraft-backend/internal/utils"
)

// validateRequest runs struct-tag validation and converts the result into the
// service-level field error taxonomy.
func validateRequest(req interface{}) error {
	err := utils.ValidateStruct(req)
	if err == nil {
		return nil
	}

	fieldErrors := utils.GetValidationErrors(err)
	if len(fieldErrors) == 0 {
		return ValidationErrors{{Field: "request", Message: err.Error()}}
	}

	out := make(ValidationErrors, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		out = append(out, FieldError{Field: fe.Field, Message: fe.Message})
	}
	return out
}
