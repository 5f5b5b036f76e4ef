package e2e

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/bradleyjkemp/cupaloy/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jenian/envguard/internal/cli"
)

var snapshotter = cupaloy.New(cupaloy.FailOnUpdate(false))

var ansiPattern = regexp.MustCompile("\x1b\\[[0-9;]*m")

func setupMockRepo(t *testing.T, repoName string) string {
	t.Helper()
	absPath, err := filepath.Abs(filepath.Join("testdata", repoName))
	require.NoError(t, err)
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		t.Fatalf("Testdata directory not found: %s", absPath)
	}
	return absPath
}

// copyRepo copies a testdata repo into a temp dir for commands that write
func copyRepo(t *testing.T, repoName string) string {
	t.Helper()
	src := setupMockRepo(t, repoName)
	dst := t.TempDir()
	err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(src, path)
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0644)
	})
	require.NoError(t, err)
	return dst
}

// run executes envguard in-process and returns stdout, stderr and the exit code
func run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	cmd := cli.NewRootCmd("test")
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	code := 0
	if err := cmd.Execute(); err != nil {
		var exitErr *cli.ExitError
		require.True(t, errors.As(err, &exitErr), "unexpected error: %v", err)
		code = exitErr.Code
		if exitErr.Err != nil {
			stderr.WriteString("Error: " + exitErr.Err.Error() + "\n")
		}
	}
	return normalizeOutput(stdout.String()), normalizeOutput(stderr.String()), code
}

func normalizeOutput(output string) string {
	return ansiPattern.ReplaceAllString(output, "")
}

func TestE2E_CheckNodeApp(t *testing.T) {
	repo := setupMockRepo(t, "node-app")

	stdout, stderr, code := run(t, "check", repo, "--format", "minimal")

	assert.Equal(t, 1, code, "missing keys exit with 1")
	assert.Equal(t, "missing: FEATURE_FLAGS\n"+
		"unused: LEGACY_TOKEN\n"+
		"unused: UNUSED_LOCAL\n"+
		"empty: JWT_SECRET\n"+
		"uncertain: process.env[`OAUTH_${process.env.REGION}_ID`]\n", stdout)
	assert.NotContains(t, stderr, "Scanning", "progress lines only accompany the table report")
}

func TestE2E_CheckNodeAppJSON(t *testing.T) {
	repo := setupMockRepo(t, "node-app")

	stdout, _, code := run(t, "check", repo, "--json")
	assert.Equal(t, 1, code)

	var result struct {
		Missing []string `json:"missing"`
		Summary struct {
			KeysInCode  int `json:"keysInCode"`
			KeysInEnv   int `json:"keysInEnv"`
			TotalIssues int `json:"totalIssues"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, []string{"FEATURE_FLAGS"}, result.Missing)
	assert.Equal(t, 9, result.Summary.KeysInCode)
	assert.Equal(t, 7, result.Summary.KeysInEnv)
	assert.Equal(t, 4, result.Summary.TotalIssues)
}

func TestE2E_CheckNodeAppVerbose(t *testing.T) {
	repo := setupMockRepo(t, "node-app")

	stdout, stderr, code := run(t, "check", repo, "--verbose", "--no-colors")
	assert.Equal(t, 1, code)

	assert.Contains(t, stdout, "  FEATURE_FLAGS\n    used in: src/index.js:10 process.env.FEATURE_FLAGS\n    used in: src/index.js:11 process.env.FEATURE_FLAGS\n")
	assert.Contains(t, stdout, "LEGACY_TOKEN=a...6 (in .env:6)")
	assert.Contains(t, stdout, "UNUSED_LOCAL=*** (in .env.local:2)")
	assert.Contains(t, stderr, "Found 3 files (javascript: 3)")
	assert.NotContains(t, stdout, "SHOULD_NOT_BE_SCANNED")
	snapshotter.SnapshotT(t, stdout)
}

func TestE2E_CheckEnvOverride(t *testing.T) {
	repo := setupMockRepo(t, "node-app")

	stdout, _, code := run(t, "check", repo, "--format", "minimal", "--env", ".env.local")
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "missing: DATABASE_URL\n")
	assert.Contains(t, stdout, "missing: JWT_SECRET\n")
	assert.NotContains(t, stdout, "LEGACY_TOKEN")
}

func TestE2E_CheckPolyglot(t *testing.T) {
	repo := setupMockRepo(t, "polyglot")

	stdout, _, code := run(t, "check", repo, "--format", "minimal")
	assert.Equal(t, 2, code, "issues without missing keys exit with 2")
	assert.Equal(t, "empty: SENTRY_DSN\n", stdout)
}

func TestE2E_ConfigIgnores(t *testing.T) {
	repo := setupMockRepo(t, "ignores")

	stdout, stderr, code := run(t, "check", repo, "--no-colors")
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "API_KEY")
	assert.Contains(t, stdout, "UNRELATED")
	assert.NotContains(t, stdout, "CUSTOM_API_KEY")
	assert.NotContains(t, stdout, "SECRET_KEY", "files in excluded directories are not scanned")
	assert.Contains(t, stdout, "2 missing variable(s) were ignored")
	assert.Contains(t, stderr, "Version: test")
	snapshotter.SnapshotT(t, stdout)
}

func TestE2E_CheckExitOnErrorDisabled(t *testing.T) {
	repo := copyRepo(t, "polyglot")
	require.NoError(t, os.WriteFile(filepath.Join(repo, ".envguardrc.yaml"), []byte("paths: [\"src/**/*.{go,py}\"]\nexitOnError: false\n"), 0644))

	_, _, code := run(t, "check", repo, "--format", "minimal")
	assert.Equal(t, 0, code)
}

func TestE2E_CheckMissingPath(t *testing.T) {
	_, stderr, code := run(t, "check", filepath.Join(t.TempDir(), "nope"))
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "path does not exist")
}

func TestE2E_Validate(t *testing.T) {
	t.Chdir(setupMockRepo(t, "schema-app"))

	stdout, _, code := run(t, "validate", "--no-colors")
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "Found 4 issues")
	assert.Contains(t, stdout, "  ✗ PORT: Number too large (max: 65535)\n")
	assert.Contains(t, stdout, "  ✗ DATABASE_URL: Invalid url format\n")
	assert.Contains(t, stdout, "  ✗ NODE_ENV: Not in allowed values: development, production, test\n")
	assert.Contains(t, stdout, "  ? STRAY\n")
	snapshotter.SnapshotT(t, stdout)
}

func TestE2E_ValidateJSONMasksSecrets(t *testing.T) {
	t.Chdir(setupMockRepo(t, "schema-app"))

	stdout, _, code := run(t, "validate", "--json")
	assert.Equal(t, 1, code)
	assert.NotContains(t, stdout, "not-a-url")
	assert.Contains(t, stdout, `"value": "********"`)
}

func TestE2E_ValidateClean(t *testing.T) {
	t.Chdir(setupMockRepo(t, "schema-app"))

	stdout, _, code := run(t, "validate", "--env", ".env.valid")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "All environment variables are valid!")
}

func TestE2E_ValidateNoSchema(t *testing.T) {
	t.Chdir(t.TempDir())

	_, stderr, code := run(t, "validate")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "No schema found")
}

func TestE2E_InitGenerateValidate(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	stdout, _, code := run(t, "init", "--template", "comprehensive")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "✅ Created .envschema.json with comprehensive template")
	assert.Contains(t, stdout, "10 environment variables defined")

	_, stderr, code := run(t, "init")
	assert.Equal(t, 1, code, "existing file without --force")
	assert.Contains(t, stderr, "already exists")

	stdout, _, code = run(t, "generate")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "✅ Generated .env.example from schema")

	example, err := os.ReadFile(filepath.Join(dir, ".env.example"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(example), "# Generated from schema by envguard\n"))
	assert.Contains(t, string(example), "MAX_CONNECTIONS=10\n")
	assert.Contains(t, string(example), "JWT_SECRET=\n")

	_, _, code = run(t, "generate")
	assert.Equal(t, 1, code, "generate refuses to overwrite")

	_, _, code = run(t, "generate", "--force")
	assert.Equal(t, 0, code)
}

func TestE2E_InitYAML(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, code := run(t, "init", "--output", ".envschema.yaml")
	require.Equal(t, 0, code)

	require.NoError(t, os.WriteFile(".env", []byte("NODE_ENV=test\nDATABASE_URL=postgres://db\n"), 0644))
	stdout, _, code := run(t, "validate")
	assert.Equal(t, 0, code, stdout)
}

func TestE2E_InitConfig(t *testing.T) {
	for _, name := range []string{".envguardrc.json", ".envguardrc.yaml", ".envguardrc.toml"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)

			stdout, _, code := run(t, "init-config", "--output", name)
			require.Equal(t, 0, code)
			assert.Equal(t, "Created "+name+" in the current directory\n", stdout)

			_, _, code = run(t, "init-config", "--output", name)
			assert.Equal(t, 1, code)

			// the written config is loadable by check
			_, stderr, code := run(t, "check", dir, "--format", "json")
			assert.Equal(t, 0, code, stderr)
		})
	}
}

func TestE2E_Export(t *testing.T) {
	repo := setupMockRepo(t, "node-app")
	out := filepath.Join(t.TempDir(), ".env.example")

	stdout, _, code := run(t, "export", repo, "--output", out)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "✅ Generated "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "DATABASE_URL=\n")
	assert.Contains(t, content, "REGION=\n")
	assert.NotContains(t, content, "PORT", "optional keys are left out by default")
	assert.NotContains(t, content, "DYNAMIC_KEY")

	_, _, code = run(t, "export", repo, "--output", out, "--include-optional")
	require.Equal(t, 0, code)
	data, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "PORT=\n")
	assert.Contains(t, string(data), "HOST=\n")
}

func TestE2E_Clean(t *testing.T) {
	repo := copyRepo(t, "node-app")
	envPath := filepath.Join(repo, ".env")
	before, err := os.ReadFile(envPath)
	require.NoError(t, err)

	stdout, _, code := run(t, "clean", repo, "--dry-run")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Found 2 unused keys:\n  - LEGACY_TOKEN\n  - UNUSED_LOCAL\n")
	assert.Contains(t, stdout, "Dry run mode")

	stdout, _, _ = run(t, "clean", repo)
	assert.Contains(t, stdout, "Use --force")
	after, err := os.ReadFile(envPath)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after), "nothing is removed without --force")

	stdout, _, code = run(t, "clean", repo, "--force")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "✅ Cleaned .env\n")
	assert.Contains(t, stdout, "✅ Cleaned .env.local\n")

	after, err = os.ReadFile(envPath)
	require.NoError(t, err)
	assert.NotContains(t, string(after), "LEGACY_TOKEN")
	assert.Contains(t, string(after), "# Local development\n")

	stdout, _, _ = run(t, "clean", repo)
	assert.Contains(t, stdout, "No unused keys found")
}

func TestE2E_Diff(t *testing.T) {
	repo := setupMockRepo(t, "node-app")

	stdout, _, code := run(t, "diff", filepath.Join(repo, ".env"), filepath.Join(repo, ".env.local"), "--no-colors")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Found 7 differences")

	stdout, _, code = run(t, "diff", filepath.Join(repo, ".env"), filepath.Join(repo, ".env"), "--json")
	assert.Equal(t, 0, code)
	var decoded struct {
		Common []string `json:"common"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &decoded))
	assert.Len(t, decoded.Common, 5)
}

func TestE2E_DiffArgs(t *testing.T) {
	var stdout bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetArgs([]string{"diff", "only-one"})
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	assert.Error(t, cmd.Execute())
}

func TestE2E_Version(t *testing.T) {
	stdout, _, code := run(t, "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "test\n", stdout)
}
