package machinery

import (
	"encoding/json"
	"fmt"

	"directory-console/internal/common/validation"
	"directory-console/internal/models"
)

// Entry registers one unit type.
type Entry struct {
	Unit   models.UnitType
	New    func() Form
	Schema *validation.JSONSchema
	decode func(json.RawMessage) (Record, error)
}

// formEntry registers a real form whose records are of type R.
func formEntry[R Record](spec formSpec[R]) Entry {
	schema := schemaFor(spec.fields)
	return Entry{
		Unit:   spec.unit,
		New:    func() Form { return newForm(spec) },
		Schema: &schema,
		decode: func(raw json.RawMessage) (Record, error) {
			var rec R
			if err := json.Unmarshal(raw, &rec); err != nil {
				return nil, err
			}
			return rec, nil
		},
	}
}

// PlaceholderEntry registers a unit type whose machine setup is not built.
func PlaceholderEntry(unit models.UnitType) Entry {
	return Entry{
		Unit: unit,
		New:  func() Form { return &placeholderForm{unit: unit} },
	}
}

// Registry maps every unit type to its form.
type Registry struct {
	entries map[models.UnitType]Entry
}

// NewRegistry fails unless entries cover every unit type exactly once.
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{entries: make(map[models.UnitType]Entry, len(entries))}
	for _, e := range entries {
		if !e.Unit.Valid() {
			return nil, fmt.Errorf("unknown unit type %q", e.Unit)
		}
		if e.New == nil {
			return nil, fmt.Errorf("unit type %s has no form factory", e.Unit)
		}
		if _, dup := r.entries[e.Unit]; dup {
			return nil, fmt.Errorf("unit type %s registered twice", e.Unit)
		}
		r.entries[e.Unit] = e
	}
	for _, u := range models.UnitTypes() {
		if _, ok := r.entries[u]; !ok {
			return nil, fmt.Errorf("unit type %s has no form", u)
		}
	}
	return r, nil
}

// Lookup returns a fresh form for unitType. Unknown keys return false;
// placeholder unit types return a form with Implemented() == false.
func (r *Registry) Lookup(unitType models.UnitType) (Form, bool) {
	e, ok := r.entries[unitType]
	if !ok {
		return nil, false
	}
	return e.New(), true
}

// Implemented reports whether unitType has a working form.
func (r *Registry) Implemented(unitType models.UnitType) bool {
	e, ok := r.entries[unitType]
	return ok && e.decode != nil
}

// Schema returns the JSON schema of unitType's records.
func (r *Registry) Schema(unitType models.UnitType) (validation.JSONSchema, bool) {
	e, ok := r.entries[unitType]
	if !ok || e.Schema == nil {
		return validation.JSONSchema{}, false
	}
	return *e.Schema, true
}

// Units lists registered unit types in display order.
func (r *Registry) Units() []models.UnitType {
	out := make([]models.UnitType, 0, len(r.entries))
	for _, u := range models.UnitTypes() {
		if _, ok := r.entries[u]; ok {
			out = append(out, u)
		}
	}
	return out
}

// DefaultEntries lists every unit type in display order.
func DefaultEntries() []Entry {
	return []Entry{
		PlaceholderEntry(models.UnitYarnSpinning),
		formEntry(yarnProcessingSpec),
		formEntry(weavingSpec),
		formEntry(knittingSpec),
		formEntry(dyeingSpec),
		formEntry(fabricProcessingSpec),
		formEntry(fabricFinishingSpec),
		PlaceholderEntry(models.UnitWashing),
		formEntry(cuttingSpec),
		formEntry(embroiderySpec),
		PlaceholderEntry(models.UnitManualEmbroidery),
		PlaceholderEntry(models.UnitFusing),
		formEntry(printingSpec),
		formEntry(stitchingSpec),
		PlaceholderEntry(models.UnitChecking),
		PlaceholderEntry(models.UnitIroningPacking),
		PlaceholderEntry(models.UnitKajaButton),
		PlaceholderEntry(models.UnitMultiNeedleDoubleChain),
		PlaceholderEntry(models.UnitOilRemovingMendingCenter),
		PlaceholderEntry(models.UnitPatternMakingCenter),
		PlaceholderEntry(models.UnitFilmScreenMakingCenter),
	}
}

var defaultRegistry = mustRegistry(DefaultEntries()...)

func mustRegistry(entries ...Entry) *Registry {
	r, err := NewRegistry(entries...)
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns the registry of built-in forms.
func Default() *Registry { return defaultRegistry }
