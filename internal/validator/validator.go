package validator

import (
	"fmt"

	playground "github.com/go-playground/validator/v10"
)

// ValidationError is a user-correctable input error; Message is safe to
// return verbatim.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Validator bundles struct-tag validation with the business rules.
type Validator struct {
	validate *playground.Validate
	business *BusinessValidator
}

func New() *Validator {
	return &Validator{
		validate: playground.New(),
		business: NewBusinessValidator(),
	}
}

func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}

// ValidateStruct runs tag-based validation and converts the first
// failure into a ValidationError.
func (v *Validator) ValidateStruct(s interface{}) *ValidationError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	if fieldErrors, ok := err.(playground.ValidationErrors); ok && len(fieldErrors) > 0 {
		fe := fieldErrors[0]
		return NewValidationError(fe.Field(), fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag()))
	}
	return NewValidationError("", "Invalid request payload")
}
