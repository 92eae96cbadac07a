package serverutils

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation on a request DTO. The error is
// surfaced by the error handler middleware as a 400.
func ValidateRequest(req interface{}) error {
	return validate.Struct(req)
}
