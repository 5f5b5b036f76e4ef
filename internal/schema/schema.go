package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFiles are probed in order by LoadDefault
var DefaultFiles = []string{".envschema.json", "envschema.json", ".envschema.yaml", ".envschema.yml"}

// Schema maps keys to fields and remembers document order
type Schema struct {
	keys   []string
	fields map[string]Field
}

// New returns an empty schema
func New() *Schema {
	return &Schema{fields: make(map[string]Field)}
}

// Add appends a field. Keys must be unique.
func (s *Schema) Add(key string, f Field) error {
	if key == "" {
		return &FieldError{Key: key, Err: errors.New("empty key")}
	}
	if _, ok := s.fields[key]; ok {
		return &FieldError{Key: key, Err: errors.New("duplicate key")}
	}
	s.keys = append(s.keys, key)
	s.fields[key] = f
	return nil
}

// Keys returns the declared keys in document order
func (s *Schema) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Field looks up the field declared for key
func (s *Schema) Field(key string) (Field, bool) {
	f, ok := s.fields[key]
	return f, ok
}

func (s *Schema) Len() int {
	return len(s.keys)
}

// Load reads a schema document from path
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	s, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return s, nil
}

// LoadDefault looks for a schema document in dir. It returns the schema and
// the path it came from, or an empty schema and "" when none exists.
func LoadDefault(dir string) (*Schema, string, error) {
	for _, name := range DefaultFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		s, err := Load(path)
		if err != nil {
			return nil, path, err
		}
		return s, path, nil
	}
	return New(), "", nil
}

// Parse decodes a JSON or YAML schema document. The top level must be a
// mapping from key to field definition.
func Parse(data []byte) (*Schema, error) {
	s := New()

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return s, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: schema must be a mapping of keys to fields", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]

		var def Definition
		if err := valueNode.Decode(&def); err != nil {
			return nil, &FieldError{Key: keyNode.Value, Err: err}
		}
		f, err := NewField(def)
		if err != nil {
			return nil, &FieldError{Key: keyNode.Value, Err: err}
		}
		if err := s.Add(keyNode.Value, f); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MarshalJSON writes the schema as an object in document order
func (s *Schema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(s.fields[key].Definition())
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML writes the schema as a mapping in document order
func (s *Schema) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range s.keys {
		var value yaml.Node
		if err := value.Encode(s.fields[key].Definition()); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&value,
		)
	}
	return node, nil
}

// Encode renders the schema for writing to path: YAML for .yaml/.yml,
// indented JSON otherwise
func (s *Schema) Encode(path string) ([]byte, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return yaml.Marshal(s)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
