package envfile

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Serialize renders entries as KEY=value lines sorted by key, in a form
// Parse reads back unchanged. Values are single-quoted when they carry
// edge whitespace, surrounding quotes or characters dotenv loaders expand.
func Serialize(entries map[string]Entry) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v := entries[k].Value
		if strings.ContainsAny(v, "\r\n") {
			return "", fmt.Errorf("failed to serialize %s: multi-line values are not supported", k)
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(quoteValue(v))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// quoteValue wraps v in single quotes when Parse would otherwise trim or
// unquote it, or when it holds characters a dotenv loader interprets
func quoteValue(v string) string {
	if v == "" {
		return v
	}
	needsQuotes := strings.TrimSpace(v) != v ||
		trimQuotes(v) != v ||
		(!strings.Contains(v, "'") && strings.ContainsAny(v, " \t#$\\\"`"))
	if needsQuotes {
		return "'" + v + "'"
	}
	return v
}

// RemoveKeys rewrites the dotenv file at path without the assignment lines
// of the given keys, including earlier duplicates. Comments, blank lines
// and malformed lines are left in place. It returns the number of lines
// removed; the file is not touched when that number is zero.
func RemoveKeys(path string, keys []string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	drop := make(map[string]bool, len(keys))
	for _, k := range keys {
		drop[k] = true
	}

	lines := strings.Split(string(data), "\n")
	kept := make([]string, 0, len(lines))
	removed := 0
	for _, line := range lines {
		if drop[assignedKey(line)] {
			removed++
			continue
		}
		kept = append(kept, line)
	}

	if removed == 0 {
		return 0, nil
	}

	if err := os.WriteFile(path, []byte(strings.Join(kept, "\n")), info.Mode().Perm()); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return removed, nil
}

// assignedKey returns the key a dotenv line assigns, or "" for comments,
// blank and malformed lines
func assignedKey(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return ""
	}
	key, _, ok := strings.Cut(trimmed, "=")
	if !ok {
		return ""
	}
	return strings.TrimSpace(key)
}
