package shaderbuild

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveIncludesFlattensOneLevel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "common.wgsl"), []byte("fn helper() {}\n"), 0o644))
	source := "#include \"common.wgsl\"\n@fragment fn main() {}\n"

	resolved, err := ResolveIncludes(dir, nil, source, 0)
	require.NoError(t, err)
	assert.Contains(t, resolved, "fn helper() {}")
	assert.Contains(t, resolved, "@fragment fn main() {}")
}

func TestResolveIncludesMissingFileErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := ResolveIncludes(dir, nil, "#include \"missing.wgsl\"\n", 0)
	assert.Error(t, err)
}

func TestResolveIncludesStandardFormUsesIncludeMap(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "common"), 0o755))
	commonPath := filepath.Join(dir, "common", "noise.wgsl")
	require.NoError(t, os.WriteFile(commonPath, []byte("fn noise() {}\n"), 0o644))

	includeMap, err := buildIncludeMap(dir)
	require.NoError(t, err)
	require.Equal(t, commonPath, includeMap["noise.wgsl"])

	source := "#include <noise.wgsl>\n@fragment fn main() {}\n"
	resolved, err := ResolveIncludes(dir, includeMap, source, 0)
	require.NoError(t, err)
	assert.Contains(t, resolved, "fn noise() {}")
}

func TestResolveIncludesStandardFormMissingNameErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := ResolveIncludes(dir, nil, "#include <missing.wgsl>\n", 0)
	assert.Error(t, err)
}

func TestChecksumsSkipUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shader_checksums.txt")
	c := LoadChecksums(path)
	assert.True(t, c.RegisterNew("a.wgsl", "source"))
	assert.False(t, c.RegisterNew("a.wgsl", "source"))
	assert.True(t, c.RegisterNew("a.wgsl", "different"))
	require.NoError(t, c.WriteFile())

	reloaded := LoadChecksums(path)
	assert.False(t, reloaded.RegisterNew("a.wgsl", "different"))
}

func TestProcessDirWritesOnlyChangedFiles(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.wgsl"), []byte("fn a() {}\n"), 0o644))

	checksumsPath := filepath.Join(t.TempDir(), "shader_checksums.txt")
	written, err := ProcessDir(srcDir, outDir, checksumsPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.wgsl"}, written)

	written, err = ProcessDir(srcDir, outDir, checksumsPath)
	require.NoError(t, err)
	assert.Empty(t, written)
}
