package envfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Entry is one key/value pair read from an env file
type Entry struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	IsEmpty bool   `json:"isEmpty"`
	Line    int    `json:"line"`
	Source  string `json:"source,omitempty"` // Path of the file the entry came from
}

// Diagnostic describes a line that could not be used. Diagnostics never
// abort a parse.
type Diagnostic struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("Line %d: %s", d.Line, d.Message)
}

// File is the parsed content of a single env file
type File struct {
	Path        string
	Keys        map[string]Entry
	Diagnostics []Diagnostic
}

func newFile(path string) *File {
	return &File{
		Path: path,
		Keys: make(map[string]Entry),
	}
}

func (f *File) diag(line int, format string, args ...any) {
	f.Diagnostics = append(f.Diagnostics, Diagnostic{Line: line, Message: fmt.Sprintf(format, args...)})
}

// set stores an entry, replacing any earlier one with the same key
func (f *File) set(key, value string, line int) {
	f.Keys[key] = Entry{Key: key, Value: value, IsEmpty: value == "", Line: line, Source: f.Path}
}

// Values returns the plain key/value view of the file
func (f *File) Values() map[string]string {
	return Values(f.Keys)
}

// Values flattens entries into a key/value map
func Values(entries map[string]Entry) map[string]string {
	out := make(map[string]string, len(entries))
	for k, e := range entries {
		out[k] = e.Value
	}
	return out
}

// ParseFile parses an env file, choosing the reader by file name. A missing
// or unreadable file yields no entries and a diagnostic on line 0.
func ParseFile(path string) *File {
	data, err := os.ReadFile(path)
	if err != nil {
		f := newFile(path)
		if errors.Is(err, os.ErrNotExist) {
			f.diag(0, "File not found: %s", path)
		} else {
			f.diag(0, "Failed to read file: %v", err)
		}
		return f
	}

	switch detectFileType(path) {
	case typeEnvrc, typeShell:
		return parseExports(path, data)
	case typeDockerCompose:
		return parseDockerCompose(path, data)
	case typeK8s:
		return parseK8s(path, data)
	case typeSystemd:
		return parseSystemd(path, data)
	default:
		f, err := Parse(strings.NewReader(string(data)), path)
		if err != nil {
			f.diag(0, "Failed to read file: %v", err)
		}
		return f
	}
}

// Parse reads dotenv text. Blank lines and # comments are skipped, the
// first '=' splits key from value, and a later duplicate replaces the
// earlier entry after recording a diagnostic. Values lose one matching
// pair of surrounding quotes; escapes are not processed.
func Parse(r io.Reader, path string) (*File, error) {
	f := newFile(path)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			f.diag(lineNum, "Invalid format: missing '=' on line %d", lineNum)
			continue
		}

		key = strings.TrimSpace(key)
		if key == "" {
			f.diag(lineNum, "Invalid format: empty key on line %d", lineNum)
			continue
		}

		if _, exists := f.Keys[key]; exists {
			f.diag(lineNum, "Duplicate key '%s' found on line %d", key, lineNum)
		}

		f.set(key, trimQuotes(value), lineNum)
	}

	if err := scanner.Err(); err != nil {
		return f, fmt.Errorf("error reading %s: %w", path, err)
	}
	return f, nil
}

// ParseMultipleEnvFiles merges files in order; a key in a later file
// replaces the same key from an earlier one. Diagnostics are dropped, use
// LoadAll to keep them.
func ParseMultipleEnvFiles(paths []string) map[string]Entry {
	merged, _ := LoadAll(paths)
	return merged
}

// LoadAll merges files like ParseMultipleEnvFiles and also returns every
// parsed file so callers can surface per-file diagnostics.
func LoadAll(paths []string) (map[string]Entry, []*File) {
	merged := make(map[string]Entry)
	files := make([]*File, 0, len(paths))

	for _, path := range paths {
		f := ParseFile(path)
		files = append(files, f)
		for k, e := range f.Keys {
			merged[k] = e
		}
	}
	return merged, files
}

// trimQuotes removes one matching pair of surrounding single or double quotes
func trimQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') ||
			(s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
