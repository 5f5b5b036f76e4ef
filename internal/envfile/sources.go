package envfile

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	typeEnv           = "env"
	typeEnvrc         = "envrc"
	typeShell         = "shell"
	typeDockerCompose = "docker-compose"
	typeK8s           = "k8s"
	typeSystemd       = "systemd"
)

var (
	exportRegex  = regexp.MustCompile(`^\s*export\s+([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.*)$`)
	systemdRegex = regexp.MustCompile(`^\s*Environment\s*=\s*(.+)$`)
)

// IsDotenv reports whether path is read as a plain KEY=value file, the
// only kind RemoveKeys may rewrite
func IsDotenv(path string) bool {
	return detectFileType(path) == typeEnv
}

// detectFileType determines the reader for a file from its name
func detectFileType(path string) string {
	filename := filepath.Base(path)

	// direnv
	if filename == ".envrc" {
		return typeEnvrc
	}

	if strings.HasPrefix(filename, ".env") {
		return typeEnv
	}

	isYAML := strings.HasSuffix(filename, ".yml") || strings.HasSuffix(filename, ".yaml")

	if isYAML && strings.HasPrefix(filename, "docker-compose") {
		return typeDockerCompose
	}

	if isYAML && (strings.Contains(filename, "configmap") || strings.Contains(filename, "secret")) {
		return typeK8s
	}

	if strings.HasSuffix(filename, ".service") {
		return typeSystemd
	}

	if strings.HasSuffix(filename, ".sh") || strings.HasSuffix(filename, ".bash") {
		return typeShell
	}

	return typeEnv
}

// Discover lists env sources in dir that are not plain dotenv files:
// .envrc, shell scripts, docker-compose files, Kubernetes ConfigMaps and
// Secrets, and systemd units. Results are sorted by name.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if detectFileType(path) != typeEnv {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}

// parseExports reads `export KEY=value` lines from .envrc and shell
// scripts. Any other line is shell code and is ignored.
func parseExports(path string, data []byte) *File {
	f := newFile(path)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		matches := exportRegex.FindStringSubmatch(line)
		if len(matches) == 3 {
			f.set(matches[1], trimQuotes(matches[2]), lineNum)
		}
	}
	if err := scanner.Err(); err != nil {
		f.diag(0, "Failed to read file: %v", err)
	}
	return f
}

// parseSystemd reads Environment= directives from a systemd unit
func parseSystemd(path string, data []byte) *File {
	f := newFile(path)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		matches := systemdRegex.FindStringSubmatch(line)
		if len(matches) != 2 {
			continue
		}

		// Environment="KEY=value"
		assignment := trimQuotes(matches[1])
		key, value, ok := strings.Cut(assignment, "=")
		if !ok {
			f.diag(lineNum, "Invalid format: missing '=' on line %d", lineNum)
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			f.diag(lineNum, "Invalid format: empty key on line %d", lineNum)
			continue
		}
		f.set(key, strings.TrimSpace(value), lineNum)
	}
	if err := scanner.Err(); err != nil {
		f.diag(0, "Failed to read file: %v", err)
	}
	return f
}

// parseDockerCompose reads the environment section of every service. Both
// the map form and the KEY=value list form are accepted.
func parseDockerCompose(path string, data []byte) *File {
	f := newFile(path)

	docs, err := decodeYAML(data)
	if err != nil {
		f.diag(0, "Invalid YAML: %v", err)
		return f
	}

	for _, doc := range docs {
		services := mappingValue(doc, "services")
		if services == nil || services.Kind != yaml.MappingNode {
			continue
		}
		for i := 1; i < len(services.Content); i += 2 {
			env := mappingValue(services.Content[i], "environment")
			if env == nil {
				continue
			}
			switch env.Kind {
			case yaml.MappingNode:
				for j := 0; j+1 < len(env.Content); j += 2 {
					k, v := env.Content[j], env.Content[j+1]
					f.set(k.Value, v.Value, k.Line)
				}
			case yaml.SequenceNode:
				for _, item := range env.Content {
					key, value, ok := strings.Cut(item.Value, "=")
					if !ok {
						// `- KEY` passes the host value through
						continue
					}
					f.set(strings.TrimSpace(key), strings.TrimSpace(value), item.Line)
				}
			}
		}
	}
	return f
}

// parseK8s reads ConfigMap and Secret manifests. Secret data is base64
// encoded; values that fail to decode are kept as written.
func parseK8s(path string, data []byte) *File {
	f := newFile(path)

	docs, err := decodeYAML(data)
	if err != nil {
		f.diag(0, "Invalid YAML: %v", err)
		return f
	}

	for _, doc := range docs {
		var kind string
		if n := mappingValue(doc, "kind"); n != nil {
			kind = n.Value
		}

		switch kind {
		case "ConfigMap":
			setMapping(f, mappingValue(doc, "data"), nil)
		case "Secret":
			setMapping(f, mappingValue(doc, "data"), func(v string) string {
				decoded, err := base64.StdEncoding.DecodeString(v)
				if err != nil {
					return v
				}
				return string(decoded)
			})
			setMapping(f, mappingValue(doc, "stringData"), nil)
		}
	}
	return f
}

func setMapping(f *File, n *yaml.Node, transform func(string) string) {
	if n == nil || n.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		value := v.Value
		if transform != nil {
			value = transform(value)
		}
		f.set(k.Value, value, k.Line)
	}
}

// decodeYAML returns the root node of every document in data
func decodeYAML(data []byte) ([]*yaml.Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs []*yaml.Node
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return docs, nil
			}
			return nil, err
		}
		if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
			docs = append(docs, doc.Content[0])
		}
	}
}

// mappingValue returns the value node for key in a mapping node
func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}
