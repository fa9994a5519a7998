// Package machinery holds the per-unit-type machine-spec forms and the
// typed records they produce.
package machinery

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"directory-console/internal/common/errors"
	"directory-console/internal/common/validation"
	"directory-console/internal/models"
)

// Kind is how a field is entered and encoded.
type Kind string

const (
	KindText        Kind = "text"
	KindNumber      Kind = "number"
	KindInteger     Kind = "integer"
	KindSelect      Kind = "select"
	KindMultiSelect Kind = "multiselect"
	KindNumberList  Kind = "numberlist"
)

// Field describes one input of a machine-spec form.
type Field struct {
	Name     string   `json:"name" yaml:"name"`
	Label    string   `json:"label" yaml:"label"`
	Kind     Kind     `json:"kind" yaml:"kind"`
	Options  []string `json:"options,omitempty" yaml:"options,omitempty"`
	Required bool     `json:"required" yaml:"required"`
	// Custom allows free text besides Options. CustomOption is the entry
	// that asks for it ("Other", "Others").
	Custom       bool     `json:"custom,omitempty" yaml:"custom,omitempty"`
	CustomOption string   `json:"customOption,omitempty" yaml:"customOption,omitempty"`
	Min          *float64 `json:"min,omitempty" yaml:"min,omitempty"`
}

// Form captures one machine record for a unit type.
type Form interface {
	UnitType() models.UnitType
	// Implemented is false for placeholders that never emit a record.
	Implemented() bool
	Fields() []Field
	Set(field, value string) error
	Current() Record
	Load(r Record) error
	Validate() validation.FieldErrors
	// Add validates the current input. On success it hands one record to
	// emit and resets to defaults; on failure it emits nothing.
	Add(emit func(Record)) validation.FieldErrors
	Reset()
}

type formSpec[R Record] struct {
	unit     models.UnitType
	fields   []Field
	defaults func() R
}

type form[R Record] struct {
	spec  formSpec[R]
	value R
}

func newForm[R Record](spec formSpec[R]) *form[R] {
	return &form[R]{spec: spec, value: spec.defaults()}
}

func (f *form[R]) UnitType() models.UnitType { return f.spec.unit }

func (f *form[R]) Implemented() bool { return true }

func (f *form[R]) Fields() []Field {
	out := make([]Field, len(f.spec.fields))
	copy(out, f.spec.fields)
	return out
}

func (f *form[R]) Current() Record { return f.value }

func (f *form[R]) Validate() validation.FieldErrors { return f.value.Validate() }

func (f *form[R]) Reset() { f.value = f.spec.defaults() }

func (f *form[R]) Load(r Record) error {
	typed, ok := r.(R)
	if !ok {
		return fmt.Errorf("cannot load %T into %s form", r, f.spec.unit)
	}
	f.value = typed
	return nil
}

func (f *form[R]) Add(emit func(Record)) validation.FieldErrors {
	if errs := f.Validate(); !errs.OK() {
		return errs
	}
	emit(f.value)
	f.Reset()
	return nil
}

func (f *form[R]) Set(name, raw string) error {
	var field *Field
	for i := range f.spec.fields {
		if f.spec.fields[i].Name == name {
			field = &f.spec.fields[i]
			break
		}
	}
	if field == nil {
		return errors.NewValidationError(map[string]string{name: "Unknown field"})
	}

	next := f.value
	if err := setField(reflect.ValueOf(&next).Elem(), *field, strings.TrimSpace(raw)); err != nil {
		return errors.NewValidationError(map[string]string{name: err.Error()})
	}
	f.value = next
	return nil
}

// setField writes raw into the struct field tagged json:"<field.Name>".
func setField(rv reflect.Value, field Field, raw string) error {
	target, ok := fieldByJSONName(rv, field.Name)
	if !ok {
		return fmt.Errorf("field not settable")
	}

	switch target.Interface().(type) {
	case string:
		if err := checkOption(field, raw); err != nil {
			return err
		}
		target.SetString(raw)
	case int:
		if raw == "" {
			target.SetInt(0)
			return nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("must be a whole number")
		}
		target.SetInt(int64(n))
	case float64:
		if raw == "" {
			target.SetFloat(0)
			return nil
		}
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("must be a number")
		}
		target.SetFloat(n)
	case *float64:
		if raw == "" {
			target.Set(reflect.Zero(target.Type()))
			return nil
		}
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("must be a number")
		}
		target.Set(reflect.ValueOf(&n))
	case *int:
		if raw == "" {
			target.Set(reflect.Zero(target.Type()))
			return nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("must be a whole number")
		}
		target.Set(reflect.ValueOf(&n))
	case []string:
		items := splitList(raw)
		for _, item := range items {
			if err := checkOption(field, item); err != nil {
				return err
			}
		}
		target.Set(reflect.ValueOf(items))
	case []float64:
		items := splitList(raw)
		nums := make([]float64, 0, len(items))
		for _, item := range items {
			n, err := strconv.ParseFloat(item, 64)
			if err != nil {
				return fmt.Errorf("%q is not a number", item)
			}
			nums = append(nums, n)
		}
		target.Set(reflect.ValueOf(nums))
	default:
		return fmt.Errorf("unsupported field type %s", target.Type())
	}
	return nil
}

func fieldByJSONName(rv reflect.Value, name string) (reflect.Value, bool) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		tag := strings.SplitN(rt.Field(i).Tag.Get("json"), ",", 2)[0]
		if tag == name {
			return rv.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func checkOption(field Field, value string) error {
	if value == "" || len(field.Options) == 0 || field.Custom {
		return nil
	}
	for _, opt := range field.Options {
		if opt == value {
			return nil
		}
	}
	return fmt.Errorf("must be one of: %s", strings.Join(field.Options, ", "))
}

// splitList accepts "a, b, c" and drops blanks.
func splitList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// placeholderForm stands in for unit types whose machine setup does not
// exist yet. It never emits.
type placeholderForm struct {
	unit models.UnitType
}

// PlaceholderMessage is shown instead of fields for placeholder forms.
const PlaceholderMessage = "Machine Setup under development"

func (p *placeholderForm) UnitType() models.UnitType { return p.unit }

func (p *placeholderForm) Implemented() bool { return false }

func (p *placeholderForm) Fields() []Field { return nil }

func (p *placeholderForm) Set(string, string) error {
	return errors.NewFormUnavailableError(string(p.unit))
}

func (p *placeholderForm) Current() Record { return nil }

func (p *placeholderForm) Load(Record) error {
	return errors.NewFormUnavailableError(string(p.unit))
}

func (p *placeholderForm) Validate() validation.FieldErrors { return validation.FieldErrors{} }

func (p *placeholderForm) Add(func(Record)) validation.FieldErrors { return nil }

func (p *placeholderForm) Reset() {}
