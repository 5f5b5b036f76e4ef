package analyzer

import (
	"fmt"
	"strings"
)

// DynamicPrefix marks code keys whose real name could not be determined
const DynamicPrefix = "DYNAMIC_KEY_"

// UsageKind classifies how a key was read
type UsageKind string

const (
	UsageDirect  UsageKind = "direct"
	UsageBracket UsageKind = "bracket"
	UsageDynamic UsageKind = "dynamic"
)

// Usage is one place in code where a key is read
type Usage struct {
	File   string    `json:"file"`
	Line   int       `json:"line"`   // 1-based
	Column int       `json:"column"` // 1-based byte column of the access
	Kind   UsageKind `json:"kind"`
	Raw    string    `json:"raw"` // Source text of the access
}

// CodeKey is a key referenced in code with every site that reads it
type CodeKey struct {
	Name       string  `json:"name"`
	Usages     []Usage `json:"usages"`
	IsOptional bool    `json:"isOptional"` // True if any usage supplies a fallback
}

// IsDynamic reports whether the key name is synthetic
func (k CodeKey) IsDynamic() bool {
	return IsDynamicName(k.Name)
}

// IsDynamicName reports whether name was produced by DynamicKeyName
func IsDynamicName(name string) bool {
	return strings.HasPrefix(name, DynamicPrefix)
}

// DynamicKeyName names a dynamic read by its position, so two dynamic reads
// never share a key
func DynamicKeyName(file string, line, column int) string {
	return fmt.Sprintf("%s%d_%d@%s", DynamicPrefix, line, column, file)
}

// Summary holds the counts of a check
type Summary struct {
	KeysInCode     int `json:"keysInCode"`
	KeysInEnv      int `json:"keysInEnv"`
	TotalIssues    int `json:"totalIssues"`
	IgnoredMissing int `json:"ignoredMissing"` // Missing keys suppressed by ignoreKeys
}

// ValidationResult is the outcome of reconciling code keys against env
// entries. Every list is sorted.
type ValidationResult struct {
	Missing    []string `json:"missing"`
	Unused     []string `json:"unused"`
	Empty      []string `json:"empty"`
	Duplicates []string `json:"duplicates"`
	Uncertain  []string `json:"uncertain"`
	Summary    Summary  `json:"summary"`
}

// HasIssues reports whether the result would fail a check
func (r *ValidationResult) HasIssues() bool {
	return r.Summary.TotalIssues > 0
}
