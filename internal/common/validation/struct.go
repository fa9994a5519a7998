package validation

import (
	stderrors "errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Messages maps "field.tag" (or just "field") to the user-facing text.
type Messages map[string]string

// StructValidator runs struct-tag rules and reports them as FieldErrors
// keyed by JSON field name.
type StructValidator struct {
	validate *validator.Validate
}

func NewStructValidator() *StructValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &StructValidator{validate: v}
}

// Validate checks s and translates failures through messages.
func (sv *StructValidator) Validate(s interface{}, messages Messages) FieldErrors {
	out := FieldErrors{}
	err := sv.validate.Struct(s)
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		out.Add("_", err.Error())
		return out
	}
	for _, fe := range verrs {
		out.Add(fe.Field(), messageFor(fe, messages))
	}
	return out
}

func messageFor(fe validator.FieldError, messages Messages) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := messages[fe.Field()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return "Too short"
	case "max":
		return "Too long"
	case "gt", "gte":
		return "Value too small"
	case "lt", "lte":
		return "Value too large"
	default:
		return "Invalid value"
	}
}
