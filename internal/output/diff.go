package output

import (
	"io"
	"strings"

	"github.com/jenian/envguard/internal/envfile"
)

const maxCommonListed = 10

// FormatDiff renders the comparison of file1 and file2
func FormatDiff(w io.Writer, file1, file2 string, d *envfile.Diff, opts Options) error {
	if opts.Format == FormatJSON {
		return writeJSON(w, struct {
			File1 string `json:"file1"`
			File2 string `json:"file2"`
			*envfile.Diff
		}{file1, file2, d})
	}

	p := newPrinter(w, opts.Colors)
	p.printf("Comparing %s and %s\n", file1, file2)
	p.printf("%s\n\n", strings.Repeat("=", 50))

	if len(d.OnlyInFirst) > 0 {
		p.printf("%sKeys only in %s:%s\n", p.c(colorRed), file1, p.c(colorReset))
		for _, key := range d.OnlyInFirst {
			p.printf("%s  - %s%s\n", p.c(colorRed), key, p.c(colorReset))
		}
		p.println()
	}

	if len(d.OnlyInSecond) > 0 {
		p.printf("%sKeys only in %s:%s\n", p.c(colorGreen), file2, p.c(colorReset))
		for _, key := range d.OnlyInSecond {
			p.printf("%s  + %s%s\n", p.c(colorGreen), key, p.c(colorReset))
		}
		p.println()
	}

	if len(d.Different) > 0 {
		p.printf("%sKeys with different values:%s\n", p.c(colorYellow), p.c(colorReset))
		for _, v := range d.Different {
			p.printf("%s  ~ %s%s\n", p.c(colorYellow), v.Key, p.c(colorReset))
			p.printf("    %s: %q\n", file1, v.Value1)
			p.printf("    %s: %q\n", file2, v.Value2)
		}
		p.println()
	}

	if len(d.Common) > 0 {
		p.printf("%sCommon keys (%d):%s\n", p.c(colorCyan), len(d.Common), p.c(colorReset))
		if len(d.Common) <= maxCommonListed {
			for _, key := range d.Common {
				p.printf("%s  ✓ %s%s\n", p.c(colorCyan), key, p.c(colorReset))
			}
		} else {
			p.printf("%s  ✓ %s, ... and %d more%s\n", p.c(colorCyan), strings.Join(d.Common[:5], ", "), len(d.Common)-5, p.c(colorReset))
		}
		p.println()
	}

	if changes := d.Changes(); changes == 0 {
		p.printf("%s✅ Files are identical%s\n", p.c(colorGreen), p.c(colorReset))
	} else {
		p.printf("%s⚠️  Found %d differences%s\n", p.c(colorYellow), changes, p.c(colorReset))
	}
	return p.err
}
