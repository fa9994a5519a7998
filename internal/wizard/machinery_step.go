package wizard

import (
	"strings"

	"directory-console/internal/common/errors"
	"directory-console/internal/common/validation"
	"directory-console/internal/machinery"
)

// NoUnitTypeMessage is shown on the machinery screen before a unit type
// is chosen.
const NoUnitTypeMessage = "Select a unit type first"

// PreviewLimit is how many fields a machine summary shows.
const PreviewLimit = 4

// MachineryStep collects machine records through the unit type's form.
type MachineryStep struct {
	draft    *Draft
	registry *machinery.Registry
	form     machinery.Form
}

// Form returns the form for the draft's unit type, building a fresh one
// when the unit type changed since the last call.
func (s *MachineryStep) Form() (machinery.Form, error) {
	if s.draft.UnitType == "" {
		return nil, errors.NewValidationError(map[string]string{"unitType": NoUnitTypeMessage})
	}
	if s.form != nil && s.form.UnitType() == s.draft.UnitType {
		return s.form, nil
	}
	f, ok := s.registry.Lookup(s.draft.UnitType)
	if !ok {
		return nil, errors.NewUnknownUnitTypeError(string(s.draft.UnitType))
	}
	s.form = f
	return f, nil
}

// Set writes one field of the pending machine.
func (s *MachineryStep) Set(field, value string) error {
	f, err := s.Form()
	if err != nil {
		return err
	}
	return f.Set(field, value)
}

// Add validates the pending machine and appends it on success.
func (s *MachineryStep) Add() (validation.FieldErrors, error) {
	f, err := s.Form()
	if err != nil {
		return nil, err
	}
	if !f.Implemented() {
		return nil, errors.NewFormUnavailableError(string(s.draft.UnitType))
	}
	errs := f.Add(func(r machinery.Record) {
		s.draft.Machinery = append(s.draft.Machinery, r)
	})
	return errs, nil
}

// Cancel discards the pending machine.
func (s *MachineryStep) Cancel() {
	if s.form != nil {
		s.form.Reset()
	}
}

// Remove deletes the machine at i; out-of-range is a no-op.
func (s *MachineryStep) Remove(i int) {
	if i < 0 || i >= len(s.draft.Machinery) {
		return
	}
	s.draft.Machinery = append(s.draft.Machinery[:i:i], s.draft.Machinery[i+1:]...)
}

// Records returns the machines added so far.
func (s *MachineryStep) Records() []machinery.Record {
	return s.draft.Machinery
}

// Preview renders a one-line machine summary.
func Preview(r machinery.Record) string {
	fields := machinery.Preview(r, PreviewLimit)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Label + ": " + f.Value
	}
	return strings.Join(parts, " • ")
}

// forget drops the cached form, e.g. after the unit type changed.
func (s *MachineryStep) forget() {
	s.form = nil
}
