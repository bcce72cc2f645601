package serverutils

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation on req.
func ValidateRequest(req interface{}) error {
	return validate.Struct(req)
}

// Validator exposes the shared instance for non-HTTP callers.
func Validator() *validator.Validate {
	return validate
}
