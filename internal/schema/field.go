package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Type is the declared type of a schema field
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeURL     Type = "url"
	TypeEmail   Type = "email"
	TypeEnum    Type = "enum"
	TypeJSON    Type = "json"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Definition is a field as written in a schema document
type Definition struct {
	Type          Type     `json:"type" yaml:"type"`
	Description   string   `json:"description,omitempty" yaml:"description,omitempty"`
	Required      *bool    `json:"required,omitempty" yaml:"required,omitempty"`
	Default       any      `json:"default,omitempty" yaml:"default,omitempty"`
	AllowedValues []string `json:"allowedValues,omitempty" yaml:"allowedValues,omitempty"`
	Pattern       string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Min           *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max           *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	IsSensitive   bool     `json:"isSensitive,omitempty" yaml:"isSensitive,omitempty"`
}

// Common holds the attributes every field kind shares
type Common struct {
	Required      bool
	Default       any // nil when not declared
	AllowedValues []string
	Sensitive     bool
	Description   string
}

// Field is the contract for one key. The set of implementations is closed:
// StringField, NumberField, BooleanField, URLField, EmailField, EnumField
// and JSONField.
type Field interface {
	Type() Type
	Attrs() *Common
	// Definition returns the field in document form
	Definition() Definition

	convert(raw string) (any, bool)
	checkBounds(v any) string
	constraints() []string
}

// StringField accepts any text, optionally bounded in length and matched
// against a pattern
type StringField struct {
	Common
	Pattern string
	Min     *int
	Max     *int

	re *regexp.Regexp
}

// NumberField accepts decimal numbers, optionally bounded
type NumberField struct {
	Common
	Min *float64
	Max *float64
}

// BooleanField accepts true/1/yes/on and false/0/no/off in any case
type BooleanField struct{ Common }

// URLField accepts absolute URLs
type URLField struct{ Common }

// EmailField accepts local@domain.tld addresses
type EmailField struct{ Common }

// EnumField accepts only its allowed values
type EnumField struct{ Common }

// JSONField accepts any JSON document
type JSONField struct{ Common }

func (f *StringField) Type() Type  { return TypeString }
func (f *NumberField) Type() Type  { return TypeNumber }
func (f *BooleanField) Type() Type { return TypeBoolean }
func (f *URLField) Type() Type     { return TypeURL }
func (f *EmailField) Type() Type   { return TypeEmail }
func (f *EnumField) Type() Type    { return TypeEnum }
func (f *JSONField) Type() Type    { return TypeJSON }

func (c *Common) Attrs() *Common { return c }

// NewField builds a field from its document form. An enum needs allowed
// values, a pattern is only valid on strings and must compile, min/max only
// apply to strings and numbers, and a declared default must convert under
// the field's type.
func NewField(def Definition) (Field, error) {
	common := Common{
		Required:      def.Required == nil || *def.Required,
		AllowedValues: def.AllowedValues,
		Sensitive:     def.IsSensitive,
		Description:   def.Description,
	}

	typ := def.Type
	if typ == "" {
		typ = TypeString
	}

	if def.Pattern != "" && typ != TypeString {
		return nil, fmt.Errorf("pattern is only supported on string fields, not %s", typ)
	}
	if (def.Min != nil || def.Max != nil) && typ != TypeString && typ != TypeNumber {
		return nil, fmt.Errorf("min/max are only supported on string and number fields, not %s", typ)
	}
	if def.Min != nil && def.Max != nil && *def.Min > *def.Max {
		return nil, fmt.Errorf("min (%v) is greater than max (%v)", *def.Min, *def.Max)
	}

	var f Field
	switch typ {
	case TypeString:
		sf := &StringField{Common: common, Pattern: def.Pattern}
		var err error
		if sf.Min, err = lengthBound("min", def.Min); err != nil {
			return nil, err
		}
		if sf.Max, err = lengthBound("max", def.Max); err != nil {
			return nil, err
		}
		if def.Pattern != "" {
			re, err := regexp.Compile(def.Pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", def.Pattern, err)
			}
			sf.re = re
		}
		f = sf
	case TypeNumber:
		f = &NumberField{Common: common, Min: def.Min, Max: def.Max}
	case TypeBoolean:
		f = &BooleanField{Common: common}
	case TypeURL:
		f = &URLField{Common: common}
	case TypeEmail:
		f = &EmailField{Common: common}
	case TypeEnum:
		if len(def.AllowedValues) == 0 {
			return nil, errors.New("enum fields require allowedValues")
		}
		f = &EnumField{Common: common}
	case TypeJSON:
		f = &JSONField{Common: common}
	default:
		return nil, fmt.Errorf("unknown type %q", def.Type)
	}

	if def.Default != nil {
		d, err := normalizeDefault(f, def.Default)
		if err != nil {
			return nil, err
		}
		f.Attrs().Default = d
	}
	return f, nil
}

func lengthBound(name string, v *float64) (*int, error) {
	if v == nil {
		return nil, nil
	}
	if *v < 0 || *v != math.Trunc(*v) {
		return nil, fmt.Errorf("%s must be a non-negative integer on string fields, got %v", name, *v)
	}
	n := int(*v)
	return &n, nil
}

// normalizeDefault checks a declared default against the field type and
// returns it in the form conversion produces
func normalizeDefault(f Field, v any) (any, error) {
	invalid := fmt.Errorf("default %v is not a valid %s", v, f.Type())

	if f.Type() == TypeJSON {
		return v, nil
	}

	switch d := v.(type) {
	case string:
		converted, ok := f.convert(d)
		if !ok {
			return nil, invalid
		}
		return converted, nil
	case bool:
		if f.Type() != TypeBoolean {
			return nil, invalid
		}
		return d, nil
	case int:
		return numberDefault(f, float64(d), invalid)
	case int64:
		return numberDefault(f, float64(d), invalid)
	case uint64:
		return numberDefault(f, float64(d), invalid)
	case float64:
		return numberDefault(f, d, invalid)
	default:
		return nil, invalid
	}
}

func numberDefault(f Field, n float64, invalid error) (any, error) {
	if f.Type() != TypeNumber {
		return nil, invalid
	}
	return n, nil
}

func (f *StringField) convert(raw string) (any, bool) { return raw, true }

func (f *NumberField) convert(raw string) (any, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(n) {
		return nil, false
	}
	return n, true
}

func (f *BooleanField) convert(raw string) (any, bool) {
	switch strings.ToLower(raw) {
	case "true", "1", "yes", "on":
		return true, true
	case "false", "0", "no", "off":
		return false, true
	}
	return nil, false
}

func (f *URLField) convert(raw string) (any, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return nil, false
	}
	if u.Host == "" && u.Opaque == "" && u.Path == "" {
		return nil, false
	}
	return raw, true
}

func (f *EmailField) convert(raw string) (any, bool) {
	if !emailRegex.MatchString(raw) {
		return nil, false
	}
	return raw, true
}

func (f *EnumField) convert(raw string) (any, bool) {
	for _, v := range f.AllowedValues {
		if v == raw {
			return raw, true
		}
	}
	return nil, false
}

func (f *JSONField) convert(raw string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false
	}
	return v, true
}

func (f *StringField) checkBounds(v any) string {
	n := len(v.(string))
	if f.Min != nil && n < *f.Min {
		return fmt.Sprintf("String too short (min: %d)", *f.Min)
	}
	if f.Max != nil && n > *f.Max {
		return fmt.Sprintf("String too long (max: %d)", *f.Max)
	}
	return ""
}

func (f *NumberField) checkBounds(v any) string {
	n := v.(float64)
	if f.Min != nil && n < *f.Min {
		return fmt.Sprintf("Number too small (min: %s)", formatNumber(*f.Min))
	}
	if f.Max != nil && n > *f.Max {
		return fmt.Sprintf("Number too large (max: %s)", formatNumber(*f.Max))
	}
	return ""
}

func (c *Common) checkBounds(any) string { return "" }

// matchesPattern reports whether a string value satisfies the pattern
func (f *StringField) matchesPattern(value string) bool {
	return f.re == nil || f.re.MatchString(value)
}

// constraints lists the kind-specific parts of the example comment
func (f *StringField) constraints() []string {
	var out []string
	if f.Min != nil {
		out = append(out, fmt.Sprintf("min: %d", *f.Min))
	}
	if f.Max != nil {
		out = append(out, fmt.Sprintf("max: %d", *f.Max))
	}
	if f.Pattern != "" {
		out = append(out, "pattern: "+f.Pattern)
	}
	return out
}

func (f *NumberField) constraints() []string {
	var out []string
	if f.Min != nil {
		out = append(out, "min: "+formatNumber(*f.Min))
	}
	if f.Max != nil {
		out = append(out, "max: "+formatNumber(*f.Max))
	}
	return out
}

func (c *Common) constraints() []string { return nil }

func (c *Common) definition(t Type) Definition {
	def := Definition{
		Type:          t,
		Description:   c.Description,
		Default:       c.Default,
		AllowedValues: c.AllowedValues,
		IsSensitive:   c.Sensitive,
	}
	required := c.Required
	def.Required = &required
	return def
}

func (f *StringField) Definition() Definition {
	def := f.definition(TypeString)
	def.Pattern = f.Pattern
	if f.Min != nil {
		v := float64(*f.Min)
		def.Min = &v
	}
	if f.Max != nil {
		v := float64(*f.Max)
		def.Max = &v
	}
	return def
}

func (f *NumberField) Definition() Definition {
	def := f.definition(TypeNumber)
	def.Min, def.Max = f.Min, f.Max
	return def
}

func (f *BooleanField) Definition() Definition { return f.definition(TypeBoolean) }
func (f *URLField) Definition() Definition     { return f.definition(TypeURL) }
func (f *EmailField) Definition() Definition   { return f.definition(TypeEmail) }
func (f *EnumField) Definition() Definition    { return f.definition(TypeEnum) }
func (f *JSONField) Definition() Definition    { return f.definition(TypeJSON) }

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
