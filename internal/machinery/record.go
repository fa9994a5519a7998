package machinery

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"directory-console/internal/common/validation"
	"directory-console/internal/models"
)

// Record is one machine entry. The concrete type is fixed by the unit
// type whose form produced it; RawRecord carries data no form owns.
type Record interface {
	UnitType() models.UnitType
	Validate() validation.FieldErrors
	machineRecord()
}

// RawRecord keeps machine data verbatim for unit types without a form, or
// stored data that no longer matches the form's schema.
type RawRecord struct {
	Unit models.UnitType
	Data json.RawMessage
}

func (r RawRecord) UnitType() models.UnitType { return r.Unit }

func (r RawRecord) Validate() validation.FieldErrors { return validation.FieldErrors{} }

func (r RawRecord) machineRecord() {}

func (r RawRecord) MarshalJSON() ([]byte, error) {
	if len(r.Data) == 0 {
		return []byte("{}"), nil
	}
	return r.Data, nil
}

// PreviewField is a label/value pair for compact machine listings.
type PreviewField struct {
	Label string
	Value string
}

// Preview returns up to limit non-empty fields of r in declaration order.
func Preview(r Record, limit int) []PreviewField {
	if raw, ok := r.(RawRecord); ok {
		return previewRaw(raw, limit)
	}

	rv := reflect.ValueOf(r)
	rt := rv.Type()
	out := make([]PreviewField, 0, limit)
	for i := 0; i < rt.NumField() && len(out) < limit; i++ {
		name := strings.SplitN(rt.Field(i).Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		value, ok := formatValue(rv.Field(i).Interface())
		if !ok {
			continue
		}
		out = append(out, PreviewField{Label: Humanize(name), Value: value})
	}
	return out
}

func previewRaw(raw RawRecord, limit int) []PreviewField {
	var m map[string]interface{}
	if err := json.Unmarshal(raw.Data, &m); err != nil {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]PreviewField, 0, limit)
	for _, k := range keys {
		if len(out) == limit {
			break
		}
		if value, ok := formatValue(m[k]); ok {
			out = append(out, PreviewField{Label: Humanize(k), Value: value})
		}
	}
	return out
}

func formatValue(v interface{}) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, x != ""
	case int:
		return strconv.Itoa(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case *float64:
		if x == nil {
			return "", false
		}
		return strconv.FormatFloat(*x, 'f', -1, 64), true
	case *int:
		if x == nil {
			return "", false
		}
		return strconv.Itoa(*x), true
	case []string:
		return strings.Join(x, ", "), len(x) > 0
	case []float64:
		parts := make([]string, len(x))
		for i, n := range x {
			parts[i] = strconv.FormatFloat(n, 'f', -1, 64)
		}
		return strings.Join(parts, ", "), len(x) > 0
	case []interface{}:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if s, ok := formatValue(item); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", "), len(parts) > 0
	default:
		return fmt.Sprint(x), true
	}
}

// Humanize turns "noOfMachines" or "max_width" into "No Of Machines" /
// "Max Width".
func Humanize(key string) string {
	var b strings.Builder
	for i, r := range key {
		switch {
		case r == '_':
			b.WriteRune(' ')
		case unicode.IsUpper(r) && i > 0:
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	words := strings.Fields(b.String())
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
