package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema is the subset of JSON Schema the console declares in Go.
type JSONSchema struct {
	Type                 string              `json:"type" yaml:"type"`
	Properties           map[string]Property `json:"properties" yaml:"properties"`
	Required             []string            `json:"required,omitempty" yaml:"required,omitempty"`
	AdditionalProperties *bool               `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`
}

type Property struct {
	Type        string      `json:"type,omitempty" yaml:"type,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Default     interface{} `json:"default,omitempty" yaml:"default,omitempty"`
	Minimum     *float64    `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum     *float64    `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	Enum        []string    `json:"enum,omitempty" yaml:"enum,omitempty"`
	MinLength   *int        `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength   *int        `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	MinItems    *int        `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	Items       *Property   `json:"items,omitempty" yaml:"items,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidateInput checks document against schema with gojsonschema.
// document may be any JSON-marshalable Go value or a json.RawMessage.
func ValidateInput(document interface{}, schema JSONSchema) (*ValidationResult, error) {
	var docLoader gojsonschema.JSONLoader
	switch d := document.(type) {
	case json.RawMessage:
		docLoader = gojsonschema.NewBytesLoader(d)
	case []byte:
		docLoader = gojsonschema.NewBytesLoader(d)
	default:
		docLoader = gojsonschema.NewGoLoader(document)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), docLoader)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   fieldOf(desc),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out, nil
}

// fieldOf reports required-property errors against the missing property
// rather than its parent object.
func fieldOf(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if desc.Type() == "required" {
		if prop, ok := desc.Details()["property"].(string); ok {
			if field == "(root)" {
				return prop
			}
			return field + "." + prop
		}
	}
	return field
}

// GetErrorMessages returns "field: message" lines.
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for a specific field.
func (vr *ValidationResult) HasErrors(field string) bool {
	return len(vr.GetErrorsForField(field)) > 0
}

// GetErrorsForField returns errors for a field and its children.
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}

// Float64Ptr and IntPtr help declare schema bounds inline.
func Float64Ptr(v float64) *float64 { return &v }

func IntPtr(v int) *int { return &v }

func BoolPtr(v bool) *bool { return &v }
