package config

// Merge returns a new Config with override applied on top of base. base is
// not modified.
//
// Rules per field:
//   - paths, envFiles, excludeDirs: replaced when override sets them
//   - allowOptional, ignoreKeys: override entries not already in base are appended
//   - reportFormat, exitOnError, includeOptional, schema: replaced when set
func Merge(base *Config, override *fileConfig) *Config {
	merged := &Config{
		Paths:           clone(base.Paths),
		EnvFiles:        clone(base.EnvFiles),
		AllowOptional:   clone(base.AllowOptional),
		IgnoreKeys:      clone(base.IgnoreKeys),
		ExcludeDirs:     clone(base.ExcludeDirs),
		ReportFormat:    base.ReportFormat,
		ExitOnError:     base.ExitOnError,
		IncludeOptional: base.IncludeOptional,
		Schema:          base.Schema,
	}
	if override == nil {
		return merged
	}

	if len(override.Paths) > 0 {
		merged.Paths = clone(override.Paths)
	}
	if len(override.EnvFiles) > 0 {
		merged.EnvFiles = clone(override.EnvFiles)
	}
	if len(override.ExcludeDirs) > 0 {
		merged.ExcludeDirs = clone(override.ExcludeDirs)
	}

	merged.AllowOptional = appendUnique(merged.AllowOptional, override.AllowOptional)
	merged.IgnoreKeys = appendUnique(merged.IgnoreKeys, override.IgnoreKeys)

	if override.ReportFormat != nil {
		merged.ReportFormat = *override.ReportFormat
	}
	if override.ExitOnError != nil {
		merged.ExitOnError = *override.ExitOnError
	}
	if override.IncludeOptional != nil {
		merged.IncludeOptional = *override.IncludeOptional
	}
	if override.Schema != nil {
		merged.Schema = *override.Schema
	}

	return merged
}

func clone(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func appendUnique(base, extra []string) []string {
	for _, s := range extra {
		if !contains(base, s) {
			base = append(base, s)
		}
	}
	return base
}
