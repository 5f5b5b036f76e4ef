package analyzer

import (
	"sort"

	"github.com/jenian/envguard/internal/config"
	"github.com/jenian/envguard/internal/envfile"
)

// Reconcile compares keys read in code with the merged env entries.
//
// A static key with no entry is missing unless it is listed in
// allowOptional and read with a fallback somewhere. Keys in ignoreKeys are
// never missing, unused or empty; suppressed missing keys are counted in
// Summary.IgnoredMissing. Dynamic keys are reported as uncertain by the
// source text of their first usage. Duplicates are never populated here;
// they are reported by the env file parser.
func Reconcile(codeKeys []CodeKey, entries map[string]envfile.Entry, cfg *config.Config) ValidationResult {
	if cfg == nil {
		cfg = &config.Config{}
	}

	result := ValidationResult{
		Missing:    []string{},
		Unused:     []string{},
		Empty:      []string{},
		Duplicates: []string{},
		Uncertain:  []string{},
	}

	static := make(map[string]bool, len(codeKeys))
	missing := make(map[string]bool)

	for _, key := range codeKeys {
		if key.IsDynamic() {
			if len(key.Usages) > 0 {
				result.Uncertain = append(result.Uncertain, key.Usages[0].Raw)
			}
			continue
		}

		static[key.Name] = true
		if _, ok := entries[key.Name]; ok {
			continue
		}
		if key.IsOptional && cfg.IsAllowedOptional(key.Name) {
			continue
		}
		if missing[key.Name] {
			continue
		}
		if cfg.ShouldIgnore(key.Name) {
			result.Summary.IgnoredMissing++
			missing[key.Name] = true
			continue
		}
		missing[key.Name] = true
		result.Missing = append(result.Missing, key.Name)
	}

	for name, entry := range entries {
		if cfg.ShouldIgnore(name) {
			continue
		}
		if !static[name] {
			result.Unused = append(result.Unused, name)
		}
		if entry.IsEmpty {
			result.Empty = append(result.Empty, name)
		}
	}

	sort.Strings(result.Missing)
	sort.Strings(result.Unused)
	sort.Strings(result.Empty)
	sort.Strings(result.Uncertain)

	result.Summary.KeysInCode = len(codeKeys)
	result.Summary.KeysInEnv = len(entries)
	result.Summary.TotalIssues = len(result.Missing) + len(result.Unused) + len(result.Empty) + len(result.Duplicates)

	return result
}

// MissingDetails returns the code keys named in missing, in the order of
// missing
func MissingDetails(codeKeys []CodeKey, missing []string) []CodeKey {
	byName := make(map[string]CodeKey, len(codeKeys))
	for _, k := range codeKeys {
		if _, ok := byName[k.Name]; !ok {
			byName[k.Name] = k
		}
	}

	details := make([]CodeKey, 0, len(missing))
	for _, name := range missing {
		if k, ok := byName[name]; ok {
			details = append(details, k)
		}
	}
	return details
}

// UnusedDetails returns the entries named in unused, in the order of unused
func UnusedDetails(entries map[string]envfile.Entry, unused []string) []envfile.Entry {
	details := make([]envfile.Entry, 0, len(unused))
	for _, name := range unused {
		if e, ok := entries[name]; ok {
			details = append(details, e)
		}
	}
	return details
}
