package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"

	"github.com/jenian/envguard/internal/analyzer"
)

// Report formats
const (
	FormatTable   = "table"
	FormatJSON    = "json"
	FormatMinimal = "minimal"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// Options controls how a report is rendered
type Options struct {
	Format  string
	Colors  bool
	Verbose bool
}

// ColorSupported reports whether w is a terminal that accepts ANSI codes
func ColorSupported(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false
	}
	return enableANSI(f.Fd())
}

// printer writes colored text and keeps the first write error
type printer struct {
	w      io.Writer
	colors bool
	err    error
}

func newPrinter(w io.Writer, colors bool) *printer {
	return &printer{w: w, colors: colors}
}

// c returns the color code if colors are enabled, empty string otherwise
func (p *printer) c(code string) string {
	if p.colors {
		return code
	}
	return ""
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) println() {
	p.printf("\n")
}

// Format renders a reconciliation result
func Format(w io.Writer, result analyzer.ValidationResult, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatMinimal:
		return formatMinimal(w, result)
	case FormatTable, "":
		return formatTable(w, result, opts)
	default:
		return fmt.Errorf("unknown report format %q", opts.Format)
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// formatMinimal prints one "category: key" line per finding
func formatMinimal(w io.Writer, result analyzer.ValidationResult) error {
	p := newPrinter(w, false)
	for _, c := range categories(result) {
		for _, key := range c.keys {
			p.printf("%s: %s\n", c.id, key)
		}
	}
	return p.err
}

type category struct {
	id    string
	title string
	color string
	keys  []string
}

func categories(result analyzer.ValidationResult) []category {
	return []category{
		{"missing", "Missing", colorRed, result.Missing},
		{"unused", "Unused", colorYellow, result.Unused},
		{"empty", "Empty", colorYellow, result.Empty},
		{"duplicate", "Duplicate", colorYellow, result.Duplicates},
		{"uncertain", "Dynamic", colorCyan, result.Uncertain},
	}
}

func formatTable(w io.Writer, result analyzer.ValidationResult, opts Options) error {
	p := newPrinter(w, opts.Colors)

	if !result.HasIssues() {
		writeClean(p, result)
		writeSummary(p, result)
		return p.err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Issue", "Key"})
	for _, c := range categories(result) {
		for _, key := range c.keys {
			t.AppendRow(table.Row{p.c(c.color) + c.title + p.c(colorReset), key})
		}
	}
	t.Render()
	p.println()

	writeSummary(p, result)
	return p.err
}

func writeClean(p *printer, result analyzer.ValidationResult) {
	if result.Summary.IgnoredMissing > 0 {
		p.printf("%s%s✓ No issues found (excluding %d ignored via config).%s\n\n", p.c(colorGreen), p.c(colorBold), result.Summary.IgnoredMissing, p.c(colorReset))
		return
	}
	p.printf("%s%s✓ No issues found. All environment variables are properly configured.%s\n\n", p.c(colorGreen), p.c(colorBold), p.c(colorReset))
}

func writeSummary(p *printer, result analyzer.ValidationResult) {
	p.printf("%sSummary:%s\n", p.c(colorBold), p.c(colorReset))
	p.printf("  Keys in code: %d\n", result.Summary.KeysInCode)
	p.printf("  Keys in env: %d\n", result.Summary.KeysInEnv)
	p.printf("  Total issues: %d\n", result.Summary.TotalIssues)
	if result.Summary.IgnoredMissing > 0 {
		p.printf("%s%sNote:%s %d missing variable(s) were ignored (configured in ignoreKeys)\n", p.c(colorGray), p.c(colorBold), p.c(colorReset), result.Summary.IgnoredMissing)
	}
}

// FormatError formats an error message
func FormatError(err error) string {
	return fmt.Sprintf("Error: %s\n", err)
}
