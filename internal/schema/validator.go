package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jenian/envguard/internal/analyzer"
)

const maskedValue = "********"

// SchemaValidationError describes one schema finding for a key
type SchemaValidationError struct {
	Key          string `json:"key"`
	Value        string `json:"value,omitempty"`
	ExpectedType Type   `json:"expectedType"`
	ActualType   string `json:"actualType"`
	Issue        string `json:"issue"`
	Description  string `json:"description,omitempty"`
	IsSensitive  bool   `json:"isSensitive,omitempty"`
}

// SchemaValidationResult extends the reconciliation result with schema
// findings. Missing holds required keys without a value and Unused holds
// keys the schema does not declare.
type SchemaValidationResult struct {
	analyzer.ValidationResult
	InvalidType       []SchemaValidationError `json:"invalidType"`
	InvalidFormat     []SchemaValidationError `json:"invalidFormat"`
	InvalidEnum       []SchemaValidationError `json:"invalidEnum"`
	SensitiveDefaults []SchemaValidationError `json:"sensitiveDefaults"`
	SchemaErrors      []SchemaValidationError `json:"schemaErrors"`
}

// HasIssues reports whether any category is non-empty
func (r *SchemaValidationResult) HasIssues() bool {
	return r.Summary.TotalIssues > 0
}

// Validator checks env values against a schema
type Validator struct {
	schema *Schema
}

// NewValidator returns a validator for s. A nil schema validates nothing.
func NewValidator(s *Schema) *Validator {
	if s == nil {
		s = New()
	}
	return &Validator{schema: s}
}

// Validate checks env against every declared field. A key absent from env
// is not the same as a key present with an empty value.
func (v *Validator) Validate(env map[string]string) *SchemaValidationResult {
	res := &SchemaValidationResult{
		ValidationResult: analyzer.ValidationResult{
			Missing:    []string{},
			Unused:     []string{},
			Empty:      []string{},
			Duplicates: []string{},
			Uncertain:  []string{},
		},
		InvalidType:       []SchemaValidationError{},
		InvalidFormat:     []SchemaValidationError{},
		InvalidEnum:       []SchemaValidationError{},
		SensitiveDefaults: []SchemaValidationError{},
		SchemaErrors:      []SchemaValidationError{},
	}

	for _, key := range v.schema.keys {
		f := v.schema.fields[key]
		c := f.Attrs()
		value, present := env[key]

		if c.Required && value == "" {
			res.Missing = append(res.Missing, key)
			continue
		}
		if !present {
			continue
		}

		finding := func(issue string) SchemaValidationError {
			return SchemaValidationError{
				Key:          key,
				Value:        MaskValue(value, f),
				ExpectedType: f.Type(),
				ActualType:   "string",
				Issue:        issue,
				Description:  c.Description,
				IsSensitive:  c.Sensitive,
			}
		}

		if c.Sensitive && c.Default != nil {
			res.SensitiveDefaults = append(res.SensitiveDefaults, finding("Sensitive field cannot have default value"))
		}

		if f.Type() == TypeEnum || len(c.AllowedValues) > 0 {
			if !contains(c.AllowedValues, value) {
				res.InvalidEnum = append(res.InvalidEnum, finding("Not in allowed values: "+strings.Join(c.AllowedValues, ", ")))
				continue
			}
		}

		if f.Type() != TypeEnum {
			converted, ok := f.convert(value)
			if !ok {
				res.InvalidType = append(res.InvalidType, finding(fmt.Sprintf("Invalid %s format", f.Type())))
				continue
			}
			if issue := f.checkBounds(converted); issue != "" {
				res.InvalidType = append(res.InvalidType, finding(issue))
				continue
			}
		}

		if sf, ok := f.(*StringField); ok && !sf.matchesPattern(value) {
			res.InvalidFormat = append(res.InvalidFormat, finding("Does not match pattern: "+sf.Pattern))
		}
	}

	for key := range env {
		if _, ok := v.schema.fields[key]; !ok {
			res.Unused = append(res.Unused, key)
		}
	}
	sort.Strings(res.Unused)

	res.Summary = analyzer.Summary{
		KeysInCode: v.schema.Len(),
		KeysInEnv:  len(env),
		TotalIssues: len(res.Missing) + len(res.Unused) + len(res.InvalidType) +
			len(res.InvalidFormat) + len(res.InvalidEnum) + len(res.SensitiveDefaults) +
			len(res.SchemaErrors),
	}
	return res
}

// GetValidatedEnv returns every declared key converted to its typed value.
// Absent or empty values fall back to a non-sensitive default. It fails on
// the first required key that cannot be resolved or value that does not
// convert, returning no partial result.
func (v *Validator) GetValidatedEnv(env map[string]string) (map[string]any, error) {
	out := make(map[string]any, v.schema.Len())
	for _, key := range v.schema.keys {
		f := v.schema.fields[key]
		c := f.Attrs()

		value := env[key]
		if value == "" {
			if c.Default != nil && !c.Sensitive {
				out[key] = c.Default
				continue
			}
			if c.Required {
				return nil, &MissingRequiredError{Key: key}
			}
			continue
		}

		converted, ok := f.convert(value)
		if !ok {
			return nil, &ConversionError{Key: key, Type: f.Type(), Value: MaskValue(value, f)}
		}
		out[key] = converted
	}
	return out, nil
}

// MaskValue hides the value of a sensitive field
func MaskValue(value string, f Field) string {
	if value == "" {
		return ""
	}
	if f != nil && f.Attrs().Sensitive {
		return maskedValue
	}
	return value
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
