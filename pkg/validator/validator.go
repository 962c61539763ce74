// Package validator valida DTOs de entrada con etiquetas `validate`.
package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/domain"
)

// FieldError campo que falló y la regla incumplida.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// decimal.Decimal se valida como su valor numérico (gt, gte, ...).
	validate.RegisterCustomTypeFunc(func(v reflect.Value) any {
		if d, ok := v.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	validate.RegisterTagNameFunc(jsonTagName)
}

// ValidateStruct devuelve la lista de campos inválidos (vacía si todo está bien).
func ValidateStruct(data any) []*FieldError {
	var out []*FieldError
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []*FieldError{{Field: "body", Tag: "invalid"}}
	}
	for _, fe := range verrs {
		out = append(out, &FieldError{
			Field: fe.Field(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// Validate como ValidateStruct pero devuelve el primer error como domain.ValidationError.
func Validate(data any) error {
	errs := ValidateStruct(data)
	if len(errs) == 0 {
		return nil
	}
	first := errs[0]
	reason := "regla " + first.Tag
	if first.Param != "" {
		reason += "=" + first.Param
	}
	return domain.NewValidationError(first.Field, reason)
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}
