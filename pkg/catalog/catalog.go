// Package catalog exports the machine-spec form registry as a document
// that other tools and the backend team can diff against.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"directory-console/internal/common/validation"
	"directory-console/internal/machinery"
	"directory-console/internal/models"
)

type Catalog struct {
	Version     string `json:"version" yaml:"version"`
	GeneratedAt string `json:"generatedAt" yaml:"generatedAt"`
	Units       []Unit `json:"units" yaml:"units"`
}

// Unit is one unit type. Placeholders carry no fields and no schema.
type Unit struct {
	UnitType    models.UnitType        `json:"unitType" yaml:"unitType"`
	Label       string                 `json:"label" yaml:"label"`
	Implemented bool                   `json:"implemented" yaml:"implemented"`
	Fields      []machinery.Field      `json:"fields,omitempty" yaml:"fields,omitempty"`
	Schema      *validation.JSONSchema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Build snapshots reg.
func Build(reg *machinery.Registry, version string) *Catalog {
	c := &Catalog{
		Version:     version,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	for _, u := range reg.Units() {
		unit := Unit{
			UnitType:    u,
			Label:       u.Label(),
			Implemented: reg.Implemented(u),
		}
		if form, ok := reg.Lookup(u); ok {
			unit.Fields = form.Fields()
		}
		if schema, ok := reg.Schema(u); ok {
			unit.Schema = &schema
		}
		c.Units = append(c.Units, unit)
	}
	return c
}

// Find returns the entry for u.
func (c *Catalog) Find(u models.UnitType) (Unit, bool) {
	for _, unit := range c.Units {
		if unit.UnitType == u {
			return unit, true
		}
	}
	return Unit{}, false
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads a catalog file. Files ending in .yaml or .yml are YAML,
// anything else is JSON.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Catalog
	if isYAML(path) {
		err = yaml.Unmarshal(data, &c)
	} else {
		err = json.Unmarshal(data, &c)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return &c, nil
}

// Save writes c to path, creating parent directories.
func Save(path string, c *Catalog) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate compares c with reg and returns one problem per line item.
// An empty result means the catalog is current.
func (c *Catalog) Validate(reg *machinery.Registry) []string {
	var problems []string
	seen := make(map[models.UnitType]bool, len(c.Units))

	for _, unit := range c.Units {
		if !unit.UnitType.Valid() {
			problems = append(problems, fmt.Sprintf("%s: unknown unit type", unit.UnitType))
			continue
		}
		if seen[unit.UnitType] {
			problems = append(problems, fmt.Sprintf("%s: listed twice", unit.UnitType))
			continue
		}
		seen[unit.UnitType] = true

		implemented := reg.Implemented(unit.UnitType)
		if unit.Implemented != implemented {
			problems = append(problems, fmt.Sprintf("%s: implemented is %t, registry has %t",
				unit.UnitType, unit.Implemented, implemented))
			continue
		}
		if !implemented {
			continue
		}

		if len(unit.Fields) == 0 {
			problems = append(problems, fmt.Sprintf("%s: no fields", unit.UnitType))
		} else if form, ok := reg.Lookup(unit.UnitType); ok && !sameFields(unit.Fields, form.Fields()) {
			problems = append(problems, fmt.Sprintf("%s: fields differ from registry", unit.UnitType))
		}

		schema, _ := reg.Schema(unit.UnitType)
		if unit.Schema == nil {
			problems = append(problems, fmt.Sprintf("%s: no schema", unit.UnitType))
		} else if !sameSchema(*unit.Schema, schema) {
			problems = append(problems, fmt.Sprintf("%s: schema differs from registry", unit.UnitType))
		}
	}

	for _, u := range models.UnitTypes() {
		if !seen[u] {
			problems = append(problems, fmt.Sprintf("%s: missing", u))
		}
	}
	return problems
}

func sameFields(a, b []machinery.Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].Kind != b[i].Kind || a[i].Required != b[i].Required {
			return false
		}
		if !reflect.DeepEqual(nonNil(a[i].Options), nonNil(b[i].Options)) {
			return false
		}
	}
	return true
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// sameSchema compares through JSON so a catalog read from YAML or JSON
// matches the in-memory schema regardless of number types.
func sameSchema(a, b validation.JSONSchema) bool {
	ja, err := json.Marshal(a)
	if err != nil {
		return false
	}
	jb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	var va, vb interface{}
	if json.Unmarshal(ja, &va) != nil || json.Unmarshal(jb, &vb) != nil {
		return false
	}
	return reflect.DeepEqual(va, vb)
}
