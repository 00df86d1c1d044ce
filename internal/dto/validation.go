package dto

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// CPFs arrive already stripped of punctuation from the admin UI.
var cpfPattern = regexp.MustCompile(`^\d{11}$`)

// RegisterCustomValidations wires the custom binding rules into gin's
// validator engine. Must be called once before any request is bound.
func RegisterCustomValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("cpf", validateCpf)
	}
}

func validateCpf(fl validator.FieldLevel) bool {
	return cpfPattern.MatchString(fl.Field().String())
}
