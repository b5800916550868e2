package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svcaudit/pkg/config"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("export class StubService {}\n"), 0644))
}

func TestScanDir_IncludeGlobs(t *testing.T) {
	tmpDir := t.TempDir()

	included := filepath.Join(tmpDir, "server", "services", "user.service.ts")
	nested := filepath.Join(tmpDir, "client", "src", "services", "api", "api.service.ts")
	outside := filepath.Join(tmpDir, "server", "routes", "routes.ts")
	writeFile(t, included)
	writeFile(t, nested)
	writeFile(t, outside)

	s := NewScanner(config.DefaultConfig())
	files, err := s.ScanDir(tmpDir)
	require.NoError(t, err)

	assert.Contains(t, files, included)
	assert.Contains(t, files, nested)
	assert.NotContains(t, files, outside)
}

func TestScanDir_ExcludedDirs(t *testing.T) {
	tmpDir := t.TempDir()

	vendored := filepath.Join(tmpDir, "server", "services", "node_modules", "lib", "lib.service.ts")
	kept := filepath.Join(tmpDir, "server", "services", "data.service.ts")
	writeFile(t, vendored)
	writeFile(t, kept)

	s := NewScanner(config.DefaultConfig())
	files, err := s.ScanDir(tmpDir)
	require.NoError(t, err)

	assert.Contains(t, files, kept)
	assert.NotContains(t, files, vendored)
}

func TestScanDir_ExcludePatterns(t *testing.T) {
	tmpDir := t.TempDir()

	spec := filepath.Join(tmpDir, "server", "services", "user.service.spec.ts")
	impl := filepath.Join(tmpDir, "server", "services", "user.service.ts")
	writeFile(t, spec)
	writeFile(t, impl)

	s := NewScanner(config.DefaultConfig())
	files, err := s.ScanDir(tmpDir)
	require.NoError(t, err)

	assert.Contains(t, files, impl)
	assert.NotContains(t, files, spec)
}

func TestScanDir_AllFiles(t *testing.T) {
	tmpDir := t.TempDir()

	anywhere := filepath.Join(tmpDir, "lib", "helper.ts")
	other := filepath.Join(tmpDir, "lib", "readme.md")
	writeFile(t, anywhere)
	writeFile(t, other)

	s := NewScanner(config.DefaultConfig()).WithAllFiles()
	files, err := s.ScanDir(tmpDir)
	require.NoError(t, err)

	assert.Contains(t, files, anywhere)
	assert.NotContains(t, files, other)
}

func TestScanDir_Deterministic(t *testing.T) {
	tmpDir := t.TempDir()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		writeFile(t, filepath.Join(tmpDir, "server", "services", name+".service.ts"))
	}

	s := NewScanner(config.DefaultConfig())
	first, err := s.ScanDir(tmpDir)
	require.NoError(t, err)

	second, err := NewScanner(config.DefaultConfig()).ScanDir(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, sortIsAscending(first))
}

func sortIsAscending(paths []string) bool {
	for i := 1; i < len(paths); i++ {
		if paths[i-1] > paths[i] {
			return false
		}
	}
	return true
}

func TestScanFile(t *testing.T) {
	tmpDir := t.TempDir()

	impl := filepath.Join(tmpDir, "server", "services", "user.service.ts")
	writeFile(t, impl)

	s := NewScanner(config.DefaultConfig())
	ok, err := s.ScanFile(tmpDir, impl)
	require.NoError(t, err)
	assert.True(t, ok)

	readme := filepath.Join(tmpDir, "README.md")
	require.NoError(t, os.WriteFile(readme, []byte("# x"), 0644))
	ok, err = s.ScanFile(tmpDir, readme)
	require.NoError(t, err)
	assert.False(t, ok)
}
