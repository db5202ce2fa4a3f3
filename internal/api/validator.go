package api

import (
	"fmt"
	"strings"

	"alcyxob/fitlab/internal/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the custom binding tags to gin's validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("division_letter", validateDivisionLetter); err != nil {
		return fmt.Errorf("register division_letter: %w", err)
	}
	return nil
}

// validateDivisionLetter accepts a single letter A-Z in either case.
func validateDivisionLetter(fl validator.FieldLevel) bool {
	return domain.IsDivisionLetter(strings.ToUpper(fl.Field().String()))
}
