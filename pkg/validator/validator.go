package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Reportar errores con el nombre del campo JSON, no el del struct Go.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// Validate ejecuta la validación de struct según los tags `validate`.
func Validate(s any) error {
	return validate.Struct(s)
}

// FormatErrors convierte validator.ValidationErrors en un mapa campo → mensaje
// legible, apto para la respuesta HTTP de error.
func FormatErrors(err error) map[string]string {
	out := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return out
	}
	for _, fe := range ve {
		out[fe.Field()] = messageFor(fe)
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obligatorio"
	case "email":
		return "email inválido"
	case "uuid4", "uuid":
		return "debe ser un UUID válido"
	case "oneof":
		return "valor fuera del conjunto permitido: " + fe.Param()
	case "min":
		return "longitud mínima " + fe.Param()
	case "max":
		return "longitud máxima " + fe.Param()
	default:
		return "valor inválido (" + fe.Tag() + ")"
	}
}
