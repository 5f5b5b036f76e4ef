package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Report formats accepted by ReportFormat
const (
	FormatTable   = "table"
	FormatJSON    = "json"
	FormatMinimal = "minimal"
)

// Config is the policy for a single check. It is loaded once per invocation
// and not modified while a check runs.
type Config struct {
	Paths           []string // Glob patterns to scan, relative to the scan root
	EnvFiles        []string // Env files in load order, later files override earlier ones
	AllowOptional   []string // Keys that may be absent from env files when code supplies a fallback
	IgnoreKeys      []string // Keys excluded from missing, unused and empty checks
	ExcludeDirs     []string // Directory names or root-relative paths skipped while scanning
	ReportFormat    string
	ExitOnError     bool
	IncludeOptional bool   // Include optional keys in generated .env.example files
	Schema          string // Schema document path, empty means auto-detect
}

// fileConfig mirrors Config as it appears in a config file. Pointers tell
// "not set" apart from a zero value so Merge can leave base values alone.
type fileConfig struct {
	Paths           []string `json:"paths,omitempty" yaml:"paths,omitempty" toml:"paths,omitempty"`
	EnvFiles        []string `json:"envFiles,omitempty" yaml:"envFiles,omitempty" toml:"envFiles,omitempty"`
	AllowOptional   []string `json:"allowOptional" yaml:"allowOptional" toml:"allowOptional"`
	IgnoreKeys      []string `json:"ignoreKeys" yaml:"ignoreKeys" toml:"ignoreKeys"`
	ExcludeDirs     []string `json:"excludeDirs" yaml:"excludeDirs" toml:"excludeDirs"`
	ReportFormat    *string  `json:"reportFormat,omitempty" yaml:"reportFormat,omitempty" toml:"reportFormat,omitempty"`
	ExitOnError     *bool    `json:"exitOnError,omitempty" yaml:"exitOnError,omitempty" toml:"exitOnError,omitempty"`
	IncludeOptional *bool    `json:"includeOptional,omitempty" yaml:"includeOptional,omitempty" toml:"includeOptional,omitempty"`
	Schema          *string  `json:"schema,omitempty" yaml:"schema,omitempty" toml:"schema,omitempty"`
}

// rcFiles are probed in order; the first one found is used
var rcFiles = []string{".envguardrc.json", ".envguardrc.yaml", ".envguardrc.yml", ".envguardrc.toml"}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Paths:        []string{"src/**/*.{js,ts,mjs,cjs}", "lib/**/*.{js,ts,mjs,cjs}"},
		EnvFiles:     []string{".env"},
		IgnoreKeys:   []string{"NODE_ENV"},
		ReportFormat: FormatTable,
		ExitOnError:  true,
	}
}

// Load builds the configuration for rootPath. An explicit configPath is read
// instead of the rc file probe. The envguard key of package.json is merged
// on top of either.
func Load(rootPath, configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		fc, err := readFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg = Merge(cfg, fc)
	} else {
		for _, name := range rcFiles {
			path := filepath.Join(rootPath, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			fc, err := readFile(path)
			if err != nil {
				return nil, err
			}
			cfg = Merge(cfg, fc)
			break
		}
	}

	pkg, err := readPackageJSON(filepath.Join(rootPath, "package.json"))
	if err != nil {
		return nil, err
	}
	if pkg != nil {
		cfg = Merge(cfg, pkg)
	}

	return cfg, nil
}

// readFile decodes a config file, choosing the decoder by extension.
// Anything that is not JSON or TOML is read as YAML.
func readFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &fc); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	return &fc, nil
}

// readPackageJSON returns the envguard section of package.json, or nil when
// the file or the section is absent
func readPackageJSON(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read package.json: %w", err)
	}

	var pkg struct {
		Envguard *fileConfig `json:"envguard"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse package.json: %w", err)
	}
	return pkg.Envguard, nil
}

// Validate reports every problem with the configuration at once
func (c *Config) Validate() error {
	var errs []error
	if len(c.Paths) == 0 {
		errs = append(errs, errors.New("config must specify at least one path to scan"))
	}
	if len(c.EnvFiles) == 0 {
		errs = append(errs, errors.New("config must specify at least one env file"))
	}
	switch c.ReportFormat {
	case FormatTable, FormatJSON, FormatMinimal:
	default:
		errs = append(errs, fmt.Errorf("reportFormat must be one of: table, json, minimal (got %q)", c.ReportFormat))
	}
	return errors.Join(errs...)
}

// ShouldIgnore checks if a key is excluded from reconciliation
func (c *Config) ShouldIgnore(key string) bool {
	return contains(c.IgnoreKeys, key)
}

// IsAllowedOptional checks if a key is listed in allowOptional
func (c *Config) IsAllowedOptional(key string) bool {
	return contains(c.AllowOptional, key)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Encode renders c as a config file for path, choosing the encoding by
// extension the same way Load does
func (c *Config) Encode(path string) ([]byte, error) {
	fc := fileConfig{
		Paths:           c.Paths,
		EnvFiles:        c.EnvFiles,
		AllowOptional:   orEmpty(c.AllowOptional),
		IgnoreKeys:      orEmpty(c.IgnoreKeys),
		ExcludeDirs:     orEmpty(c.ExcludeDirs),
		ReportFormat:    &c.ReportFormat,
		ExitOnError:     &c.ExitOnError,
		IncludeOptional: &c.IncludeOptional,
	}
	if c.Schema != "" {
		fc.Schema = &c.Schema
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := json.MarshalIndent(fc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case ".toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(fc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return yaml.Marshal(fc)
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
