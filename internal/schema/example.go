package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GenerateEnvExample renders a commented .env.example for the schema.
// Sensitive fields and fields without a default get an empty value.
func (v *Validator) GenerateEnvExample() string {
	lines := []string{
		"# Generated from schema by envguard",
		"# Copy this file to .env and fill in the values",
		"",
	}

	for _, key := range v.schema.keys {
		f := v.schema.fields[key]
		c := f.Attrs()

		if c.Description != "" {
			lines = append(lines, "# "+c.Description)
		}

		var parts []string
		if f.Type() != TypeString {
			parts = append(parts, "type: "+string(f.Type()))
		}
		if len(c.AllowedValues) > 0 {
			parts = append(parts, "choices: "+strings.Join(c.AllowedValues, " | "))
		}
		parts = append(parts, f.constraints()...)
		if c.Sensitive {
			parts = append(parts, "sensitive")
		}
		if !c.Required {
			parts = append(parts, "optional")
		}
		if len(parts) > 0 {
			lines = append(lines, "# ("+strings.Join(parts, ", ")+")")
		}

		if c.Sensitive || c.Default == nil {
			lines = append(lines, key+"=")
		} else {
			lines = append(lines, key+"="+formatDefault(c.Default))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func formatDefault(v any) string {
	switch d := v.(type) {
	case string:
		return d
	case float64:
		return formatNumber(d)
	case bool:
		return fmt.Sprint(d)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
