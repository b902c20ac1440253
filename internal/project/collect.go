package project

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethanolivertroy/incgraph/internal/models"
	"github.com/ethanolivertroy/incgraph/internal/parsers"
)

// skipDirs are never descended into below a declared directory
var skipDirs = map[string]bool{
	".git":         true,
	"build":        true,
	"node_modules": true,
	"vendor":       true,
}

// collect returns the canonical paths of every source and header under dir.
// The walk starts at dir itself, so a package may point inside a directory
// that would otherwise be skipped.
func collect(root, dir string, recurse bool) ([]string, error) {
	start := filepath.Join(root, filepath.FromSlash(dir))

	var files []string
	err := filepath.WalkDir(start, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if p == start {
				return nil
			}
			name := d.Name()
			if !recurse || skipDirs[name] || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !parsers.IsSource(p) && !parsers.IsHeader(p) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// canonical turns a project-relative (or absolute, below root) path into its
// slash-separated, cleaned form.
func canonical(root, field, p string) (string, error) {
	if p == "" {
		return "", &models.ConfigError{Field: field, Reason: "empty path"}
	}
	if filepath.IsAbs(p) {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return "", &models.ConfigError{Field: field, Reason: err.Error()}
		}
		p = rel
	}
	c := path.Clean(filepath.ToSlash(p))
	if c == ".." || strings.HasPrefix(c, "../") {
		return "", &models.ConfigError{Field: field, Reason: "path " + p + " is outside the project root"}
	}
	return c, nil
}

// segments is the directory depth of a canonical directory
func segments(dir string) int {
	if dir == "." {
		return 0
	}
	return strings.Count(dir, "/") + 1
}
