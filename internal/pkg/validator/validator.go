package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/trail-recommender/internal/pkg/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate checks struct tags on a request DTO. Failures come back as an
// invalid-request error so handlers map them to 400, not 500.
func Validate(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"validation": err.Error(),
		})
	}
	return nil
}

// GetValidator exposes the underlying instance for custom rules.
func GetValidator() *validator.Validate {
	return validate
}
