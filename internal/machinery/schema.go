package machinery

import (
	"encoding/json"

	"directory-console/internal/common/errors"
	"directory-console/internal/common/validation"
	"directory-console/internal/models"
)

// schemaFor derives a JSON schema from a form's field declarations.
// Option lists become enums only for closed string choices.
func schemaFor(fields []Field) validation.JSONSchema {
	schema := validation.JSONSchema{
		Type:       "object",
		Properties: make(map[string]validation.Property, len(fields)),
	}
	for _, f := range fields {
		p := validation.Property{Description: f.Label}
		switch f.Kind {
		case KindText:
			p.Type = "string"
		case KindSelect:
			p.Type = "string"
			if !f.Custom {
				p.Enum = f.Options
			}
		case KindNumber:
			p.Type = "number"
			p.Minimum = f.Min
		case KindInteger:
			p.Type = "integer"
			p.Minimum = f.Min
		case KindMultiSelect:
			item := validation.Property{Type: "string"}
			if !f.Custom {
				item.Enum = f.Options
			}
			p.Type = "array"
			p.Items = &item
		case KindNumberList:
			p.Type = "array"
			p.Items = &validation.Property{Type: "number"}
		}
		schema.Properties[f.Name] = p
		if f.Required {
			schema.Required = append(schema.Required, f.Name)
		}
	}
	return schema
}

// DecodeRecord turns raw machine data into the unit type's record. Data
// for unit types without a form comes back as RawRecord. Data that breaks
// the schema fails with VALIDATION_FAILED.
func (r *Registry) DecodeRecord(unitType models.UnitType, raw json.RawMessage) (Record, error) {
	e, ok := r.entries[unitType]
	if !ok || e.decode == nil {
		return RawRecord{Unit: unitType, Data: raw}, nil
	}

	result, err := validation.ValidateInput(raw, *e.Schema)
	if err != nil {
		return nil, errors.NewDecodeError("machinery."+string(unitType), err)
	}
	if !result.Valid {
		fields := make(map[string]string, len(result.Errors))
		for _, ve := range result.Errors {
			if _, seen := fields[ve.Field]; !seen {
				fields[ve.Field] = ve.Message
			}
		}
		return nil, errors.NewValidationError(fields)
	}

	rec, err := e.decode(raw)
	if err != nil {
		return nil, errors.NewDecodeError("machinery."+string(unitType), err)
	}
	return rec, nil
}

// DecodeStored decodes machine data read back from the backend. Anything
// the local schema rejects is kept verbatim so it survives a round trip.
func (r *Registry) DecodeStored(unitType models.UnitType, raw json.RawMessage) Record {
	rec, err := r.DecodeRecord(unitType, raw)
	if err != nil {
		return RawRecord{Unit: unitType, Data: raw}
	}
	return rec
}
