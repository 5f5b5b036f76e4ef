package scanner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jenian/envguard/internal/analyzer"
)

func names(keys []analyzer.CodeKey) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.Name)
	}
	sort.Strings(out)
	return out
}

func find(keys []analyzer.CodeKey, name string) *analyzer.CodeKey {
	for i := range keys {
		if keys[i].Name == name {
			return &keys[i]
		}
	}
	return nil
}

func TestScan_DirectAccess(t *testing.T) {
	keys := Scan(`
const port = process.env.PORT;
const apiKey = process.env.API_KEY;
console.log(process.env.NODE_ENV);
`, "test1.js")

	assert.Equal(t, []string{"API_KEY", "NODE_ENV", "PORT"}, names(keys))
	for _, k := range keys {
		require.Len(t, k.Usages, 1)
		assert.Equal(t, analyzer.UsageDirect, k.Usages[0].Kind)
	}
}

func TestScan_BracketAccess(t *testing.T) {
	keys := Scan(`
const apiKey = process.env["API_KEY"];
const dbUrl = process.env['DATABASE_URL'];
`, "test2.js")

	assert.Equal(t, []string{"API_KEY", "DATABASE_URL"}, names(keys))
	assert.Equal(t, analyzer.UsageBracket, find(keys, "DATABASE_URL").Usages[0].Kind)
}

func TestScan_OptionalKeys(t *testing.T) {
	keys := Scan(`
const port = process.env.PORT || 3000;
const debug = process.env.DEBUG_MODE ?? false;
const host = process.env.HOST;
`, "test3.js")

	require.Len(t, keys, 3)
	assert.True(t, find(keys, "PORT").IsOptional)
	assert.True(t, find(keys, "DEBUG_MODE").IsOptional)
	assert.False(t, find(keys, "HOST").IsOptional)
}

func TestScan_OptionalIfAnyUsageIsOptional(t *testing.T) {
	keys := Scan("a(process.env.PORT)\nb(process.env.PORT || 80)\nc(process.env.PORT)\n", "app.js")

	require.Len(t, keys, 1)
	assert.True(t, keys[0].IsOptional)
	assert.Len(t, keys[0].Usages, 3)
}

func TestScan_DynamicAccess(t *testing.T) {
	keys := Scan(`
const prefix = 'API_';
const token = process.env[prefix + 'TOKEN'];
const dynamicKey = process.env[someVariable]; const port = process.env.PORT;
const again = process.env[someVariable];
`, "test4.js")

	var dynamic []analyzer.CodeKey
	for _, k := range keys {
		if k.IsDynamic() {
			dynamic = append(dynamic, k)
		}
	}
	require.Len(t, dynamic, 3, "each dynamic read is its own key")
	assert.Equal(t, `process.env[prefix + 'TOKEN']`, dynamic[0].Usages[0].Raw)
	assert.Equal(t, analyzer.UsageDynamic, dynamic[0].Usages[0].Kind)

	port := find(keys, "PORT")
	require.NotNil(t, port, "static key next to a dynamic read")
	assert.Len(t, port.Usages, 1)
}

func TestScan_TypeScript(t *testing.T) {
	keys := Scan(`
interface Config {
  port: number;
  apiKey: string;
}

const config: Config = {
  port: parseInt(process.env.PORT || '3000'),
  apiKey: process.env.API_KEY!
};
`, "test5.ts")

	assert.Equal(t, []string{"API_KEY", "PORT"}, names(keys))
}

func TestScan_UsageLocations(t *testing.T) {
	keys := Scan(`
const port = process.env.PORT;
if (process.env.PORT) {
  console.log('Port is set');
}
`, "test6.js")

	require.Len(t, keys, 1)
	port := keys[0]
	assert.Equal(t, "PORT", port.Name)
	require.Len(t, port.Usages, 2)
	assert.Equal(t, analyzer.Usage{File: "test6.js", Line: 2, Column: 14, Kind: analyzer.UsageDirect, Raw: "process.env.PORT"}, port.Usages[0])
	assert.Equal(t, 3, port.Usages[1].Line)
	assert.Equal(t, 5, port.Usages[1].Column)
}

func TestScan_UsageCountsMatchAccesses(t *testing.T) {
	// 6 static reads of 3 distinct keys
	text := strings.Join([]string{
		"process.env.A; process.env['B']",
		`process.env["A"]`,
		"x = process.env.C || process.env.A",
		"process.env.B",
	}, "\n")

	keys := Scan(text, "count.js")
	require.Len(t, keys, 3)

	total := 0
	for _, k := range keys {
		total += len(k.Usages)
	}
	assert.Equal(t, 6, total)
	assert.Len(t, find(keys, "A").Usages, 3)
}

func TestScan_CRLF(t *testing.T) {
	keys := Scan("const a = process.env.A\r\nconst b = process.env.B || 1\r\n", "crlf.js")
	require.Len(t, keys, 2)
	assert.Equal(t, "process.env.A", find(keys, "A").Usages[0].Raw)
	assert.True(t, find(keys, "B").IsOptional)
}

func TestScan_OtherLanguages(t *testing.T) {
	goKeys := Scan(`dsn := os.Getenv("DATABASE_URL")`, "main.go")
	assert.Equal(t, []string{"DATABASE_URL"}, names(goKeys))

	pyKeys := Scan(`port = os.environ.get("PORT", "8000")`, "settings.py")
	require.Len(t, pyKeys, 1)
	assert.True(t, pyKeys[0].IsOptional)
}

func TestScanFiles_MergesAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	a := mkfile(t, dir, "a.js", "process.env.PORT\nprocess.env.HOST")
	b := mkfile(t, dir, "b.js", "const p = process.env.PORT || 80")

	keys, warnings := ScanFiles(context.Background(), []string{a, b})
	assert.Empty(t, warnings)
	require.Len(t, keys, 2)

	port := find(keys, "PORT")
	require.NotNil(t, port)
	assert.True(t, port.IsOptional)
	require.Len(t, port.Usages, 2)
	assert.Equal(t, a, port.Usages[0].File)
	assert.Equal(t, b, port.Usages[1].File)
	assert.Equal(t, "PORT", keys[0].Name, "keys keep first-seen order")
}

func TestScanFiles_OrderIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 25; i++ {
		name := filepath.Join("pkg", string(rune('a'+i))+".js")
		paths = append(paths, mkfile(t, dir, name, "process.env.SHARED\nprocess.env.KEY_"+string(rune('A'+i))))
	}

	first, _ := ScanFiles(context.Background(), paths)
	for i := 0; i < 5; i++ {
		again, _ := ScanFiles(context.Background(), paths)
		assert.Equal(t, first, again)
	}

	shared := find(first, "SHARED")
	require.NotNil(t, shared)
	require.Len(t, shared.Usages, 25)
	for i, u := range shared.Usages {
		assert.Equal(t, paths[i], u.File)
	}
}

func TestScanFiles_UnreadableFile(t *testing.T) {
	dir := t.TempDir()
	good := mkfile(t, dir, "good.js", "process.env.PORT")
	missing := filepath.Join(dir, "missing.js")

	keys, warnings := ScanFiles(context.Background(), []string{missing, good})
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], os.ErrNotExist)
	assert.Equal(t, []string{"PORT"}, names(keys))
}

func TestScanFiles_PermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced")
	}
	dir := t.TempDir()
	locked := mkfile(t, dir, "locked.js", "process.env.SECRET")
	require.NoError(t, os.Chmod(locked, 0))

	keys, warnings := ScanFiles(context.Background(), []string{locked})
	assert.Empty(t, keys)
	assert.Len(t, warnings, 1)
}

func TestScanFiles_Cancelled(t *testing.T) {
	dir := t.TempDir()
	path := mkfile(t, dir, "a.js", "process.env.PORT")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, warnings := ScanFiles(ctx, []string{path})
	require.NotEmpty(t, warnings)
	assert.ErrorIs(t, warnings[0], context.Canceled)
}

func TestScanMany(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, dir, "src/index.js", "const port = process.env.PORT || 3000")
	mkfile(t, dir, "src/db.ts", "connect(process.env.DATABASE_URL)")
	mkfile(t, dir, "test/setup.js", "process.env.TEST_ONLY")

	s := NewScanner()
	s.SetIncludeGlobs([]string{"src/**/*.{js,ts}"})

	result, err := s.ScanMany(context.Background(), dir)
	require.NoError(t, err)
	assert.Len(t, result.Files, 2)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, []string{"DATABASE_URL", "PORT"}, names(result.Keys))
}
