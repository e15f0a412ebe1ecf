package serverutils

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// ValidateRequest runs struct tag validation on a parsed request body. The
// raw validator.ValidationErrors flows up to the error middleware, which maps
// it to a 400 response.
func ValidateRequest(req interface{}) error {
	return validate.Struct(req)
}
