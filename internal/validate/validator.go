package validate

import (
	"reflect"
	"strings"

	"github.com/example/ydsbot/internal/apperr"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func NewValidator() *Validator {
	validator := validator.New(validator.WithRequiredStructEnabled())

	// Registering english translator
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	en_translations.RegisterDefaultTranslations(validator, trans)

	// Report fields by their json names
	validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{
		validate: validator,
		trans:    trans,
	}
}

// Struct validates v and returns an *apperr.ValidationError with one message per bad field.
func (v *Validator) Struct(item interface{}) error {
	return v.StructWithPrefix("", item)
}

// StructWithPrefix is Struct with every field name prefixed, e.g. "row 3.".
func (v *Validator) StructWithPrefix(prefix string, item interface{}) error {
	err := v.validate.Struct(item)
	if err == nil {
		return nil
	}

	errors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.NewValidationError(map[string]string{prefix + "item": err.Error()})
	}

	return apperr.NewValidationError(v.translateError(prefix, errors))
}

func (v *Validator) translateError(prefix string, errs validator.ValidationErrors) (fields map[string]string) {
	fields = make(map[string]string)
	for _, e := range errs {
		fields[prefix+e.Namespace()] = e.Translate(v.trans)
	}
	return fields
}
