package accountdelivery

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/go-petr/safebank/pkg/validatepkg"
)

// RegisterValidations installs the account binding tags on gin's validator.
func RegisterValidations() error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return validatepkg.RegisterValidations(v)
	}

	return nil
}
