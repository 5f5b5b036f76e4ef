package output

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jenian/envguard/internal/analyzer"
	"github.com/jenian/envguard/internal/envfile"
)

const maxSnippetWidth = 80

// FormatDetailed renders missing keys with every usage site and unused keys
// with their redacted values. JSON output carries the same details.
func FormatDetailed(w io.Writer, result analyzer.ValidationResult, missing []analyzer.CodeKey, unused []envfile.Entry, opts Options) error {
	if opts.Format == FormatJSON {
		return writeJSON(w, struct {
			analyzer.ValidationResult
			MissingDetails []analyzer.CodeKey `json:"missingDetails"`
			UnusedDetails  []envfile.Entry    `json:"unusedDetails"`
		}{result, nonNil(missing), nonNil(unused)})
	}

	p := newPrinter(w, opts.Colors)

	if len(missing) > 0 {
		p.printf("%s%sMissing environment variables:%s\n\n", p.c(colorBold), p.c(colorRed), p.c(colorReset))
		for _, key := range missing {
			p.printf("  %s%s%s\n", p.c(colorRed), key.Name, p.c(colorReset))
			writeUsages(p, key.Usages)
			p.println()
		}
	}

	if len(result.Uncertain) > 0 {
		p.printf("%s%sDynamic patterns (runtime-evaluated expressions):%s\n", p.c(colorBold), p.c(colorYellow), p.c(colorReset))
		for _, raw := range result.Uncertain {
			p.printf("  %s%s%s\n", p.c(colorYellow), truncate(raw), p.c(colorReset))
		}
		p.println()
	}

	if len(unused) > 0 {
		p.printf("%s%sUnused variables:%s\n\n", p.c(colorBold), p.c(colorYellow), p.c(colorReset))
		for _, e := range unused {
			source := e.Source
			if source == "" {
				source = ".env"
			}
			p.printf("  %s%s%s=%s%s%s %s(in %s:%d)%s\n", p.c(colorYellow), e.Key, p.c(colorReset), p.c(colorGray), redactValue(e.Value), p.c(colorReset), p.c(colorGray), source, e.Line, p.c(colorReset))
		}
		p.println()
	}

	if len(result.Empty) > 0 {
		p.printf("%s%sEmpty variables:%s\n", p.c(colorBold), p.c(colorYellow), p.c(colorReset))
		for _, key := range result.Empty {
			p.printf("  %s%s%s\n", p.c(colorYellow), key, p.c(colorReset))
		}
		p.println()
	}

	if !result.HasIssues() {
		writeClean(p, result)
	}
	writeSummary(p, result)
	return p.err
}

func writeUsages(p *printer, usages []analyzer.Usage) {
	for _, usage := range usages {
		filePath := usage.File
		if filePath == "" {
			filePath = "<unknown>"
		}
		p.printf("    %sused in:%s %s%s%s:%s%d%s", p.c(colorGray), p.c(colorReset), p.c(colorCyan), filePath, p.c(colorReset), p.c(colorYellow), usage.Line, p.c(colorReset))
		if usage.Raw != "" {
			p.printf(" %s%s%s", p.c(colorGray), truncate(usage.Raw), p.c(colorReset))
		}
		p.println()
	}
}

// truncate shortens s to the snippet width, counting display columns
func truncate(s string) string {
	s = strings.TrimSpace(s)
	return runewidth.Truncate(s, maxSnippetWidth, "...")
}

// redactValue redacts sensitive values while showing the type
func redactValue(value string) string {
	if value == "" {
		return `""`
	}
	// Long, random-looking values are treated as secrets
	if len(value) > 20 {
		return "[REDACTED]"
	}
	if strings.ContainsAny(value, "=+/") && len(value) > 10 {
		return "[REDACTED]"
	}
	// For short values, show first and last char
	if r := []rune(value); len(r) > 4 {
		return string(r[0]) + "..." + string(r[len(r)-1])
	}
	return "***"
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
