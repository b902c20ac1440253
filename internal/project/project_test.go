package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethanolivertroy/incgraph/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return root
}

var sampleSources = map[string]string{
	"src/apps/app.cc":                 "",
	"src/apps/test_app.cc":            "",
	"src/lib.cc":                      "",
	"src/lib.h":                       "",
	"src/gen/gen.h":                   "",
	"src/notes.txt":                   "",
	"third-party/vendor/vendor.h":     "",
	"third-party/vendor/sub/deep.h":   "",
	"third-party/vendor/.hidden/x.h":  "",
	"third-party/vendor/build/x.h":    "",
	"third-party/vendor/docs/x.hpp":   "",
	"third-party/vendor/docs/x.hpp.1": "",
}

const sampleTOML = `
name = "sample"
version = "1.2"

[discover]
apps_root = "src/apps"
src_root = "src"
library = "Lib"

[[package]]
name = "Vendor"
kind = "third-party"
dirs = ["third-party/vendor"]
root = true

[[package]]
name = "gen"
dirs = ["src/gen"]
optional = true

[resolution]
toolchain = ["iostream"]
standard_headers = true
internal_roots = ["src", "third-party"]

[[resolution.third_party]]
prefix = "vendor/"
package = "Vendor"
`

const sampleYAML = `
name: sample
version: "1.2"
discover:
  apps_root: src/apps
  src_root: src
  library: Lib
packages:
  - name: Vendor
    kind: third-party
    dirs: [third-party/vendor]
    root: true
  - name: gen
    dirs: [src/gen]
    optional: true
resolution:
  toolchain: [iostream]
  standard_headers: true
  internal_roots: [src, third-party]
  third_party:
    - prefix: vendor/
      package: Vendor
`

const sampleHCL = `
name    = "sample"
version = "1.2"

discover {
  apps_root = "src/apps"
  src_root  = "src"
  library   = "Lib"
}

package "Vendor" {
  kind = "third-party"
  dirs = ["third-party/vendor"]
  root = true
}

package "gen" {
  dirs     = ["src/gen"]
  optional = true
}

resolution {
  toolchain        = ["iostream"]
  standard_headers = true
  internal_roots   = ["src", "third-party"]

  third_party {
    prefix  = "vendor/"
    package = "Vendor"
  }
}
`

func sampleTree(t *testing.T) string {
	files := map[string]string{
		"incgraph.toml": sampleTOML,
		"incgraph.yaml": sampleYAML,
		"incgraph.hcl":  sampleHCL,
	}
	for k, v := range sampleSources {
		files[k] = v
	}
	return writeTree(t, files)
}

func expectedSample(root string) *models.Project {
	return &models.Project{
		Name:    "sample",
		Version: "v1.2.0",
		Root:    root,
		Packages: []*models.PackageSpec{
			{Name: "Lib", Kind: models.KindInternalLibrary, Modules: []string{"src/lib.cc", "src/lib.h"}},
			{
				Name:    "Vendor",
				Kind:    models.KindThirdParty,
				Modules: []string{"third-party/vendor/docs/x.hpp", "third-party/vendor/sub/deep.h", "third-party/vendor/vendor.h"},
				Dirs:    []string{"third-party/vendor"},
				Root:    true,
			},
			{Name: "app", Kind: models.KindApplication, Modules: []string{"src/apps/app.cc"}},
			{Name: "gen", Kind: models.KindInternalLibrary, Modules: []string{"src/gen/gen.h"}, Dirs: []string{"src/gen"}, Optional: true},
			{Name: "test_app", Kind: models.KindApplication, Modules: []string{"src/apps/test_app.cc"}},
		},
		Resolution: models.ResolutionConfig{
			Toolchain:       []string{"iostream"},
			StandardHeaders: true,
			ThirdParty:      []models.ThirdPartyRoot{{Prefix: "vendor/", Package: "Vendor"}},
			InternalRoots:   []string{"src", "third-party"},
		},
	}
}

func TestLoad_AllFormatsAgree(t *testing.T) {
	root := sampleTree(t)
	abs, err := filepath.Abs(root)
	require.NoError(t, err)

	for _, name := range []string{"incgraph.toml", "incgraph.yaml", "incgraph.hcl"} {
		t.Run(name, func(t *testing.T) {
			p, err := Load(filepath.Join(root, name))
			require.NoError(t, err)
			if diff := cmp.Diff(expectedSample(abs), p); diff != "" {
				t.Fatalf("project mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFind(t *testing.T) {
	t.Run("directory prefers toml", func(t *testing.T) {
		root := sampleTree(t)
		file, err := Find(root)
		require.NoError(t, err)
		assert.Equal(t, "incgraph.toml", filepath.Base(file))
	})

	t.Run("directory falls back to hcl", func(t *testing.T) {
		root := writeTree(t, map[string]string{"incgraph.hcl": `name = "x"`})
		file, err := Find(root)
		require.NoError(t, err)
		assert.Equal(t, "incgraph.hcl", filepath.Base(file))
	})

	t.Run("directory without description", func(t *testing.T) {
		_, err := Find(t.TempDir())
		assert.ErrorContains(t, err, "no project description")
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := Find(filepath.Join(t.TempDir(), "nope"))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{name: "unsupported format", file: "project.json", content: "{}", want: "unsupported project description format"},
		{name: "toml syntax", file: "p.toml", content: "name = ", want: "failed to parse"},
		{name: "toml unknown key", file: "p.toml", content: "nmae = \"x\"", want: "unknown keys nmae"},
		{name: "yaml unknown key", file: "p.yaml", content: "nmae: x", want: "failed to parse"},
		{name: "hcl syntax", file: "p.hcl", content: "package {", want: "failed to parse HCL file"},
		{name: "hcl missing label", file: "p.hcl", content: "package {\n}\n", want: "failed to decode HCL file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeTree(t, map[string]string{tt.file: tt.content})
			_, err := Read(filepath.Join(root, tt.file))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestProject_Membership(t *testing.T) {
	t.Run("deepest directory wins", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"incgraph.toml": `
[[package]]
name = "outer"
dirs = ["src"]

[[package]]
name = "inner"
dirs = ["src/inner"]
`,
			"src/a.c":       "",
			"src/inner/b.c": "",
		})
		p, err := Load(root)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"src/a.c": "outer", "src/inner/b.c": "inner"}, p.Membership())
	})

	t.Run("listed source walked by another package", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"incgraph.toml": `
[[package]]
name = "all"
dirs = ["."]

[[package]]
name = "one"
sources = ["./src/../src/a.c"]
`,
			"src/a.c": "",
			"src/b.c": "",
		})
		_, err := Load(root)

		var dup *models.DuplicatePackageDefinitionError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "src/a.c", dup.Module)
		assert.Equal(t, []string{"all", "one"}, dup.Packages)
	})

	t.Run("listed source inside its own walk", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"incgraph.toml": `
[[package]]
name = "one"
dirs = ["src"]
sources = ["src/a.c"]
`,
			"src/a.c": "",
		})
		p, err := Load(root)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"src/a.c": "one"}, p.Membership())
	})

	t.Run("discovered application beats directory", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"incgraph.toml": `
[discover]
apps_root = "src/apps"

[[package]]
name = "all"
dirs = ["src"]
`,
			"src/apps/tool.cc": "",
			"src/b.c":          "",
		})
		p, err := Load(root)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"src/apps/tool.cc": "tool", "src/b.c": "all"}, p.Membership())
	})

	t.Run("generated directories", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"incgraph.toml": `
[[package]]
name = "gen"
generated = ["out/gen/", "out/gen"]

[[package]]
name = "bad"
generated = ["."]
`,
		})
		_, err := Load(root)
		assert.ErrorContains(t, err, "config package.bad.generated: the project root cannot be generated")

		require.NoError(t, os.WriteFile(filepath.Join(root, "incgraph.toml"), []byte("[[package]]\nname = \"gen\"\ngenerated = [\"out/gen/\", \"out/gen\"]\n"), 0644))
		p, err := Load(root)
		require.NoError(t, err)
		gen, ok := p.Package("gen")
		require.True(t, ok)
		assert.Equal(t, []string{"out/gen"}, gen.Generated)
		assert.Empty(t, gen.Modules)
	})

	t.Run("recurse disabled", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"incgraph.toml": `
[[package]]
name = "flat"
dirs = ["src"]
recurse = false
`,
			"src/a.c":     "",
			"src/sub/b.c": "",
		})
		p, err := Load(root)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"src/a.c": "flat"}, p.Membership())
	})

	t.Run("module claimed twice", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"incgraph.toml": `
[[package]]
name = "b"
sources = ["src/a.c"]

[[package]]
name = "a"
sources = ["src/a.c"]

[[package]]
name = "c"
dirs = ["src"]

[[package]]
name = "d"
dirs = ["src"]
`,
			"src/a.c": "",
			"src/z.c": "",
		})
		_, err := Load(root)

		var dup *models.DuplicatePackageDefinitionError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "src/a.c", dup.Module)
		assert.Equal(t, []string{"a", "b", "c", "d"}, dup.Packages)
		assert.ErrorContains(t, err, "module src/z.c claimed by packages c, d")
	})
}

func TestProject_Discovery(t *testing.T) {
	t.Run("duplicate application name", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"incgraph.toml":         "[discover]\napps_root = \"apps\"\n",
			"apps/one/tool.cc":      "",
			"apps/two/tool.cpp":     "",
			"apps/two/helper.h":     "",
			"apps/three/another.cc": "",
		})
		_, err := Load(root)

		var cfgErr *models.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "discover.apps_root", cfgErr.Field)
		assert.Contains(t, cfgErr.Reason, `duplicate application name "tool"`)
	})

	t.Run("application shadows declared package", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"incgraph.toml": "[discover]\napps_root = \"apps\"\n\n[[package]]\nname = \"tool\"\n",
			"apps/tool.cc":  "",
		})
		_, err := Load(root)
		assert.ErrorContains(t, err, "duplicate package id")
	})

	t.Run("library collects unclaimed sources", func(t *testing.T) {
		root := writeTree(t, map[string]string{
			"incgraph.toml":   "[discover]\napps_root = \"src/apps\"\nsrc_root = \"src\"\nlibrary = \"common\"\n",
			"src/apps/main.c": "",
			"src/util.c":      "",
			"src/util.h":      "",
			"other/skip.c":    "",
		})
		p, err := Load(root)
		require.NoError(t, err)

		common, ok := p.Package("common")
		require.True(t, ok)
		assert.Equal(t, models.KindInternalLibrary, common.Kind)
		assert.Equal(t, []string{"src/util.c", "src/util.h"}, common.Modules)

		main, ok := p.Package("main")
		require.True(t, ok)
		assert.Equal(t, models.KindApplication, main.Kind)
	})
}

func TestProject_ValidationErrors(t *testing.T) {
	root := writeTree(t, map[string]string{
		"incgraph.toml": `
version = "one"

[[package]]
name = "odd"
kind = "plugin"

[[package]]
name = "ok"
sources = ["a.c"]
optional_sources = ["b.c"]

[[package]]
name = "ok"

[[package]]
name = "escape"
sources = ["../outside.c"]

[resolution]
[[resolution.third_party]]
prefix = "vendor/"
package = "ghost"

[[resolution.third_party]]
prefix = "/"
package = "ok"
`,
		"a.c": "",
	})
	_, err := Load(root)
	require.Error(t, err)

	for _, want := range []string{
		`config version: "one" is not a semantic version`,
		`config package.odd.kind: unknown package kind "plugin"`,
		`config package.ok: duplicate package id`,
		`config package.escape.sources: path ../outside.c is outside the project root`,
		`config package.ok.optional_sources: b.c is not a module of the package`,
		`config resolution.third_party[0].package: prefix "vendor/" names undeclared package "ghost"`,
		`config resolution.third_party[1].prefix: prefix is required`,
	} {
		assert.ErrorContains(t, err, want)
	}
}

func TestProject_Defaults(t *testing.T) {
	root := writeTree(t, map[string]string{
		"sub/incgraph.yaml": "root: ..\npackages:\n  - name: lib\n    sources: [src/a.c]\n",
		"src/a.c":           "",
	})
	p, err := Load(filepath.Join(root, "sub"))
	require.NoError(t, err)

	abs, err := filepath.Abs(root)
	require.NoError(t, err)
	assert.Equal(t, abs, p.Root)
	assert.Equal(t, filepath.Base(abs), p.Name)
	assert.Empty(t, p.Version)
	assert.Equal(t, map[string]string{"src/a.c": "lib"}, p.Membership())
}
