package schema

import "fmt"

// Template names accepted by Template
const (
	TemplateBasic         = "basic"
	TemplateComprehensive = "comprehensive"
)

type templateField struct {
	key string
	def Definition
}

func ptr[T any](v T) *T { return &v }

var templates = map[string][]templateField{
	TemplateBasic: {
		{"NODE_ENV", Definition{Type: TypeEnum, AllowedValues: []string{"development", "production", "test"}, Default: "development", Required: ptr(true), Description: "Application environment"}},
		{"PORT", Definition{Type: TypeNumber, Default: 3000, Required: ptr(false), Description: "Server port number"}},
		{"DATABASE_URL", Definition{Type: TypeString, Required: ptr(true), IsSensitive: true, Description: "Database connection URL"}},
	},
	TemplateComprehensive: {
		{"NODE_ENV", Definition{Type: TypeEnum, AllowedValues: []string{"development", "production", "test"}, Default: "development", Required: ptr(true), Description: "Application environment"}},
		{"PORT", Definition{Type: TypeNumber, Min: ptr(1.0), Max: ptr(65535.0), Default: 3000, Required: ptr(false), Description: "Server port number"}},
		{"DATABASE_URL", Definition{Type: TypeURL, Required: ptr(true), IsSensitive: true, Description: "Database connection URL"}},
		{"JWT_SECRET", Definition{Type: TypeString, Min: ptr(32.0), Required: ptr(true), IsSensitive: true, Description: "Secret key for JWT token signing"}},
		{"API_KEY", Definition{Type: TypeString, Pattern: "^[a-zA-Z0-9]{32}$", Required: ptr(true), IsSensitive: true, Description: "External API key"}},
		{"DEBUG", Definition{Type: TypeBoolean, Default: false, Required: ptr(false), Description: "Enable debug mode"}},
		{"REDIS_CONFIG", Definition{Type: TypeJSON, Required: ptr(false), Description: "Redis configuration object"}},
		{"ADMIN_EMAIL", Definition{Type: TypeEmail, Required: ptr(true), Description: "Administrator email address"}},
		{"MAX_CONNECTIONS", Definition{Type: TypeNumber, Min: ptr(1.0), Max: ptr(100.0), Default: 10, Required: ptr(false), Description: "Maximum number of database connections"}},
		{"LOG_LEVEL", Definition{Type: TypeEnum, AllowedValues: []string{"error", "warn", "info", "debug"}, Default: "info", Required: ptr(false), Description: "Logging level"}},
	},
}

// TemplateNames lists the starter schemas in display order
func TemplateNames() []string {
	return []string{TemplateBasic, TemplateComprehensive}
}

// Template builds one of the starter schemas written by init
func Template(name string) (*Schema, error) {
	fields, ok := templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %q (available: basic, comprehensive)", name)
	}
	s := New()
	for _, tf := range fields {
		f, err := NewField(tf.def)
		if err != nil {
			return nil, &FieldError{Key: tf.key, Err: err}
		}
		if err := s.Add(tf.key, f); err != nil {
			return nil, err
		}
	}
	return s, nil
}
