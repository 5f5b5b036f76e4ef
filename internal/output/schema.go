package output

import (
	"io"

	"github.com/jenian/envguard/internal/schema"
)

// FormatSchema renders a schema validation result
func FormatSchema(w io.Writer, result *schema.SchemaValidationResult, opts Options) error {
	if opts.Format == FormatJSON {
		return writeJSON(w, result)
	}

	p := newPrinter(w, opts.Colors)
	p.printf("\n%s📋 Schema Validation Report%s\n\n", p.c(colorBold), p.c(colorReset))

	if !result.HasIssues() {
		p.printf("%s✅ All environment variables are valid!%s\n", p.c(colorGreen), p.c(colorReset))
	} else {
		p.printf("%s⚠️  Found %d issues:%s\n\n", p.c(colorYellow), result.Summary.TotalIssues, p.c(colorReset))

		if len(result.Missing) > 0 {
			p.printf("%sMissing required variables:%s\n", p.c(colorRed), p.c(colorReset))
			for _, key := range result.Missing {
				p.printf("  %s✗%s %s\n", p.c(colorRed), p.c(colorReset), key)
			}
			p.println()
		}

		writeFindings(p, "Type validation errors:", result.InvalidType, opts.Verbose)
		writeFindings(p, "Format validation errors:", result.InvalidFormat, opts.Verbose)
		writeFindings(p, "Enum validation errors:", result.InvalidEnum, opts.Verbose)
		writeFindings(p, "Schema errors:", result.SchemaErrors, opts.Verbose)

		if len(result.SensitiveDefaults) > 0 {
			p.printf("%sSecurity warnings:%s\n", p.c(colorYellow), p.c(colorReset))
			for _, e := range result.SensitiveDefaults {
				p.printf("  %s⚠%s %s: %s\n", p.c(colorYellow), p.c(colorReset), e.Key, e.Issue)
			}
			p.println()
		}

		if len(result.Unused) > 0 {
			p.printf("%sUnused variables (not in schema):%s\n", p.c(colorYellow), p.c(colorReset))
			for _, key := range result.Unused {
				p.printf("  %s?%s %s\n", p.c(colorYellow), p.c(colorReset), key)
			}
			p.println()
		}
	}

	p.printf("%sSummary:%s\n", p.c(colorBold), p.c(colorReset))
	p.printf("  Variables in schema: %d\n", result.Summary.KeysInCode)
	p.printf("  Variables in env: %d\n", result.Summary.KeysInEnv)
	p.printf("  Total issues: %d\n", result.Summary.TotalIssues)
	return p.err
}

func writeFindings(p *printer, title string, findings []schema.SchemaValidationError, verbose bool) {
	if len(findings) == 0 {
		return
	}
	p.printf("%s%s%s\n", p.c(colorRed), title, p.c(colorReset))
	for _, e := range findings {
		p.printf("  %s✗%s %s: %s\n", p.c(colorRed), p.c(colorReset), e.Key, e.Issue)
		if verbose && e.Description != "" {
			p.printf("    %s%s%s\n", p.c(colorGray), e.Description, p.c(colorReset))
		}
	}
	p.println()
}
