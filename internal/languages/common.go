package languages

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Kind classifies how a key was read
type Kind string

const (
	KindDirect  Kind = "direct"  // env.KEY
	KindBracket Kind = "bracket" // env['KEY'] or a call with a literal key
	KindDynamic Kind = "dynamic" // env[expr], key not known statically
)

// identPattern is the shape of a statically detectable key
const identPattern = `[A-Z_][A-Z0-9_]*`

// EnvVarMatch is one environment read found on a line
type EnvVarMatch struct {
	Key      string // Empty for dynamic matches
	Kind     Kind
	Start    int    // Byte offset of the match in the line
	End      int    // Byte offset just past the access expression
	Raw      string // Source text of the access expression
	Optional bool   // A fallback value is supplied at this site
}

// Accessor is one way a language reads the environment: Object is a regex
// fragment naming it, Dotted allows Object.KEY, and Open/Close delimit an
// index or call argument.
type Accessor struct {
	Object     string
	Dotted     bool
	Open       string
	Close      string
	DefaultArg bool // Extra call arguments supply a default, e.g. getenv("K", "d")
}

// Dialect describes how one language reads the process environment
type Dialect struct {
	Name       string
	Extensions []string
	Accessors  []Accessor
	Fallback   string // Regex matched at the start of the text after an access

	compiled []compiledAccessor
	fallback *regexp.Regexp
}

type compiledAccessor struct {
	Accessor
	direct  *regexp.Regexp
	literal *regexp.Regexp
	open    *regexp.Regexp
}

func newDialect(d Dialect) *Dialect {
	for _, a := range d.Accessors {
		c := compiledAccessor{Accessor: a}
		if a.Dotted {
			c.direct = regexp.MustCompile(`\b` + a.Object + `\.(` + identPattern + `)\b`)
		}
		if a.Open != "" {
			args := ""
			if a.DefaultArg {
				args = `(,[^` + regexp.QuoteMeta(a.Close) + `]*)?`
			}
			c.literal = regexp.MustCompile(`\b` + a.Object + `\s*` + regexp.QuoteMeta(a.Open) +
				`\s*(?:'(` + identPattern + `)'|"(` + identPattern + `)"|` + "`(" + identPattern + ")`" + `)\s*` +
				args + regexp.QuoteMeta(a.Close))
			c.open = regexp.MustCompile(`\b` + a.Object + `\s*` + regexp.QuoteMeta(a.Open))
		}
		d.compiled = append(d.compiled, c)
	}
	if d.Fallback != "" {
		d.fallback = regexp.MustCompile(`^\s*(?:` + d.Fallback + `)`)
	}
	return &d
}

// MatchLine returns every environment read on a single line, ordered by
// position. Literal index reads are never reported again as dynamic.
func (d *Dialect) MatchLine(line string) []EnvVarMatch {
	var matches []EnvVarMatch

	for _, a := range d.compiled {
		if a.direct != nil {
			for _, loc := range a.direct.FindAllStringSubmatchIndex(line, -1) {
				matches = append(matches, d.newMatch(line, line[loc[2]:loc[3]], KindDirect, loc[0], loc[1], false))
			}
		}
		if a.literal == nil {
			continue
		}

		literalStarts := make(map[int]bool)
		for _, loc := range a.literal.FindAllStringSubmatchIndex(line, -1) {
			literalStarts[loc[0]] = true
			var key string
			for g := 1; g <= 3; g++ {
				if loc[2*g] >= 0 {
					key = line[loc[2*g]:loc[2*g+1]]
					break
				}
			}
			// group 4 holds extra call arguments
			hasDefault := a.DefaultArg && loc[8] >= 0 && loc[9] > loc[8]
			matches = append(matches, d.newMatch(line, key, KindBracket, loc[0], loc[1], hasDefault))
		}

		for _, loc := range a.open.FindAllStringIndex(line, -1) {
			if literalStarts[loc[0]] {
				continue
			}
			closeIdx := strings.Index(line[loc[1]:], a.Close)
			if closeIdx < 0 {
				continue
			}
			contents := line[loc[1] : loc[1]+closeIdx]
			if strings.TrimSpace(contents) == "" {
				continue
			}
			end := loc[1] + closeIdx + len(a.Close)
			matches = append(matches, d.newMatch(line, "", KindDynamic, loc[0], end, false))
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Start < matches[j].Start
	})
	return matches
}

func (d *Dialect) newMatch(line, key string, kind Kind, start, end int, optional bool) EnvVarMatch {
	if !optional && d.fallback != nil {
		optional = d.fallback.MatchString(line[end:])
	}
	return EnvVarMatch{
		Key:      key,
		Kind:     kind,
		Start:    start,
		End:      end,
		Raw:      line[start:end],
		Optional: optional,
	}
}

var dialects = []*Dialect{JavaScript, Go, Python, Rust, Java}

// GetDialect returns the dialect registered under name, or nil
func GetDialect(name string) *Dialect {
	if name == "typescript" {
		name = JavaScript.Name
	}
	for _, d := range dialects {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// Supported reports whether a dialect claims the file's extension
func Supported(path string) bool {
	return lookup(path) != nil
}

func lookup(path string) *Dialect {
	ext := strings.ToLower(filepath.Ext(path))
	for _, d := range dialects {
		for _, e := range d.Extensions {
			if e == ext {
				return d
			}
		}
	}
	return nil
}

// ForFile picks the dialect from the file extension. Unknown extensions
// are read as JavaScript.
func ForFile(path string) *Dialect {
	if d := lookup(path); d != nil {
		return d
	}
	return JavaScript
}
