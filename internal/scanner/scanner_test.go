package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

func mkfile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", rel, err)
	}
	return path
}

func relPaths(t *testing.T, root string, files []string) []string {
	t.Helper()
	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestScanner_Resolve(t *testing.T) {
	tmpDir := t.TempDir()

	mkfile(t, tmpDir, "src/app.js", "console.log('test');")
	mkfile(t, tmpDir, "src/app.go", "package main")
	mkfile(t, tmpDir, "src/app.py", "print('test')")
	mkfile(t, tmpDir, "node_modules/lib.js", "module.exports = {};")
	mkfile(t, tmpDir, "src/readme.txt", "readme content")
	mkfile(t, tmpDir, "src/logo.png", "")

	files, err := NewScanner().Resolve(tmpDir)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := []string{"src/app.go", "src/app.js", "src/app.py"}
	if got := relPaths(t, tmpDir, files); !equalStrings(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestScanner_IncludeGlobs(t *testing.T) {
	tmpDir := t.TempDir()

	mkfile(t, tmpDir, "src/index.ts", "")
	mkfile(t, tmpDir, "src/deep/nested/util.mjs", "")
	mkfile(t, tmpDir, "src/style.css", "")
	mkfile(t, tmpDir, "lib/helper.cjs", "")
	mkfile(t, tmpDir, "scripts/build.js", "")
	mkfile(t, tmpDir, "main.go", "")

	s := NewScanner()
	s.SetIncludeGlobs([]string{"src/**/*.{js,ts,mjs,cjs}", "./lib/**/*.{js,ts,mjs,cjs}"})

	files, err := s.Resolve(tmpDir)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := []string{"lib/helper.cjs", "src/deep/nested/util.mjs", "src/index.ts"}
	if got := relPaths(t, tmpDir, files); !equalStrings(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestScanner_ExcludeGlobs(t *testing.T) {
	tmpDir := t.TempDir()

	mkfile(t, tmpDir, "test.js", "test")
	mkfile(t, tmpDir, "test.go", "test")
	mkfile(t, tmpDir, "app.test.js", "test")

	s := NewScanner()
	s.SetExcludeGlobs([]string{"*.go", "**/*.test.js"})

	files, err := s.Resolve(tmpDir)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := []string{"test.js"}
	if got := relPaths(t, tmpDir, files); !equalStrings(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestScanner_AddExcludeDirs(t *testing.T) {
	tmpDir := t.TempDir()

	mkfile(t, tmpDir, "src/app.js", "")
	mkfile(t, tmpDir, "src/config/secrets.js", "")
	mkfile(t, tmpDir, "fixtures/data.js", "")
	mkfile(t, tmpDir, "other/fixtures/more.js", "")

	s := NewScanner()
	s.AddExcludeDirs([]string{"fixtures", "src/config"})

	files, err := s.Resolve(tmpDir)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := []string{"src/app.js"}
	if got := relPaths(t, tmpDir, files); !equalStrings(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestScanner_ResolveMissingRoot(t *testing.T) {
	if _, err := NewScanner().Resolve(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected an error for a missing root")
	}
}

func TestScanner_SkipDirAndMatches(t *testing.T) {
	root := t.TempDir()
	s := NewScanner()
	s.AddExcludeDirs([]string{"src/generated"})
	s.SetIncludeGlobs([]string{"src/**/*.js"})

	if !s.SkipDir(root, filepath.Join(root, "node_modules")) {
		t.Error("node_modules should be skipped")
	}
	if !s.SkipDir(root, filepath.Join(root, "src", "generated")) {
		t.Error("src/generated should be skipped")
	}
	if s.SkipDir(root, filepath.Join(root, "src")) {
		t.Error("src should not be skipped")
	}

	if !s.Matches(root, filepath.Join(root, "src", "a", "app.js")) {
		t.Error("src/a/app.js should match")
	}
	if s.Matches(root, filepath.Join(root, "lib", "app.js")) {
		t.Error("lib/app.js is outside the include globs")
	}
	if s.Matches(root, filepath.Join(filepath.Dir(root), "other.js")) {
		t.Error("files outside the root never match")
	}
}
