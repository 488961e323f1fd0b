// Package shaderbuild is a shader-preprocessing step run ahead of time
// rather than inside the render loop: it resolves `#include` directives
// the way the reference pipeline's build-time shader compiler resolved
// GLSL includes, in both its relative `"file.wgsl"` form and its standard
// `<file.wgsl>` form, and skips re-processing a shader whose source
// checksum has not changed since the last run. Unlike that reference
// pipeline, there is no SPIR-V compile step here: wgpu compiles WGSL
// directly when the pipeline creates its shader modules, so this tool's job ends at producing
// flattened, include-free WGSL sources plus the checksum cache.
package shaderbuild

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// includeDirective matches both include forms: a quoted path resolved
// relative to the shader source directory, or an angle-bracketed name
// resolved against the standard include map.
var includeDirective = regexp.MustCompile(`(?m)^\s*#include\s+(?:"([^"]+)"|<([^>]+)>)\s*$`)

// Checksums caches a source checksum per shader path, relative to the
// shader source directory, keyed exactly like the reference tool's
// shader_checksums.txt.
type Checksums struct {
	path    string
	entries map[string]string
}

// LoadChecksums reads path if it exists; a missing or unreadable file is
// treated as an empty cache rather than an error, matching the reference
// tool's first-build behavior.
func LoadChecksums(path string) *Checksums {
	c := &Checksums{path: path, entries: map[string]string{}}
	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		c.entries[fields[0]] = fields[1]
	}
	return c
}

// RegisterNew reports whether source's checksum differs from what was
// cached for name, updating the cache either way.
func (c *Checksums) RegisterNew(name, source string) bool {
	sum := md5.Sum([]byte(source))
	digest := hex.EncodeToString(sum[:])
	if old, ok := c.entries[name]; ok && old == digest {
		return false
	}
	c.entries[name] = digest
	return true
}

// WriteFile persists the cache in the same "name digest" per line format
// the reference tool used, sorted for a stable diff.
func (c *Checksums) WriteFile() error {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s", name, c.entries[name])
	}
	return os.WriteFile(c.path, []byte(b.String()), 0o644)
}

// buildIncludeMap collects every *.wgsl file under srcDir that sits in a
// subdirectory (not a top-level shader meant to be compiled on its own),
// keyed by base filename, mirroring the reference build script's
// include_map used to resolve standard-form includes.
func buildIncludeMap(srcDir string) (map[string]string, error) {
	includeMap := map[string]string{}
	err := filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".wgsl" {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if !strings.ContainsRune(rel, filepath.Separator) {
			return nil
		}
		includeMap[filepath.Base(path)] = path
		return nil
	})
	if err != nil {
		return nil, err
	}
	return includeMap, nil
}

// ResolveIncludes replaces every `#include` line in source with the
// included file's contents: a quoted `"file.wgsl"` form is read relative
// to srcDir, an angle-bracketed `<file.wgsl>` form is looked up in
// includeMap. depth guards against include cycles, mirroring the
// reference tool's depth-100 bail.
func ResolveIncludes(srcDir string, includeMap map[string]string, source string, depth int) (string, error) {
	if depth >= 100 {
		return "", fmt.Errorf("shaderbuild: include depth exceeded 100, likely a cycle")
	}
	var resolveErr error
	resolved := includeDirective.ReplaceAllStringFunc(source, func(match string) string {
		if resolveErr != nil {
			return ""
		}
		groups := includeDirective.FindStringSubmatch(match)
		relative, standard := groups[1], groups[2]

		var includedPath, name string
		if relative != "" {
			name = relative
			includedPath = filepath.Join(srcDir, relative)
		} else {
			name = standard
			path, ok := includeMap[standard]
			if !ok {
				resolveErr = fmt.Errorf("shaderbuild: standard include <%s> not found", standard)
				return ""
			}
			includedPath = path
		}

		contents, err := os.ReadFile(includedPath)
		if err != nil {
			resolveErr = fmt.Errorf("shaderbuild: resolve include %q: %w", name, err)
			return ""
		}
		nested, err := ResolveIncludes(srcDir, includeMap, string(contents), depth+1)
		if err != nil {
			resolveErr = err
			return ""
		}
		return nested
	})
	if resolveErr != nil {
		return "", resolveErr
	}
	return resolved, nil
}

// ProcessDir walks srcDir for *.wgsl files, resolves includes in each,
// and writes the result under outDir (mirroring the relative path),
// skipping any file whose post-resolution checksum is unchanged from the
// cache at checksumsPath. It returns the list of paths it wrote.
func ProcessDir(srcDir, outDir, checksumsPath string) ([]string, error) {
	checksums := LoadChecksums(checksumsPath)
	var written []string

	includeMap, err := buildIncludeMap(srcDir)
	if err != nil {
		return nil, err
	}

	err = filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".wgsl" {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		source, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		resolved, err := ResolveIncludes(srcDir, includeMap, string(source), 0)
		if err != nil {
			return err
		}
		if !checksums.RegisterNew(rel, resolved) {
			return nil
		}
		outPath := filepath.Join(outDir, rel)
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(outPath, []byte(resolved), 0o644); err != nil {
			return err
		}
		written = append(written, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return written, checksums.WriteFile()
}
