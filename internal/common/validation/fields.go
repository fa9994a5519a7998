package validation

import (
	"sort"

	"directory-console/internal/common/errors"
)

// FieldErrors maps a form field to the message rendered next to it.
// The first message recorded for a field wins.
type FieldErrors map[string]string

// Add records msg for field unless the field already has one.
func (f FieldErrors) Add(field, msg string) {
	if _, exists := f[field]; !exists {
		f[field] = msg
	}
}

// OK reports whether no field failed.
func (f FieldErrors) OK() bool {
	return len(f) == 0
}

// Fields returns the failing fields in sorted order.
func (f FieldErrors) Fields() []string {
	out := make([]string, 0, len(f))
	for k := range f {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Err converts the map into a VALIDATION_FAILED error, or nil when empty.
func (f FieldErrors) Err() error {
	if f.OK() {
		return nil
	}
	return errors.NewValidationError(f)
}

// Merge copies other's entries that f does not already have.
func (f FieldErrors) Merge(other FieldErrors) {
	for k, v := range other {
		f.Add(k, v)
	}
}
