package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethanolivertroy/incgraph/internal/models"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"
)

// FileNames are probed, in order, when a directory is given
var FileNames = []string{"incgraph.toml", "incgraph.yaml", "incgraph.yml", "incgraph.hcl"}

// File is a decoded but not yet validated project description
type File struct {
	Path string
	raw  rawProject
}

// Find returns the project description for path. A file is returned as is;
// a directory is searched for the first of FileNames.
func Find(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat path %s: %w", path, err)
	}
	if !info.IsDir() {
		return path, nil
	}

	for _, name := range FileNames {
		candidate := filepath.Join(path, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no project description (%s) in %s", strings.Join(FileNames, ", "), path)
}

// Read locates and decodes the project description at path. The format is
// chosen by file extension.
func Read(path string) (*File, error) {
	file, err := Find(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading project description: %w", err)
	}

	f := &File{Path: file}
	if err := decode(file, data, &f.raw); err != nil {
		return nil, err
	}
	return f, nil
}

// Load reads and validates the project description at path
func Load(path string) (*models.Project, error) {
	f, err := Read(path)
	if err != nil {
		return nil, err
	}
	return f.Project()
}

func decode(file string, data []byte, raw *rawProject) error {
	switch ext := strings.ToLower(filepath.Ext(file)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), raw)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", file, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			sort.Strings(keys)
			return fmt.Errorf("failed to parse %s: unknown keys %s", file, strings.Join(keys, ", "))
		}

	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(raw); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to parse %s: %w", file, err)
		}

	case ".hcl":
		hclFile, diags := hclparse.NewParser().ParseHCL(data, file)
		if diags.HasErrors() {
			return fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		diags = gohcl.DecodeBody(hclFile.Body, nil, raw)
		if diags.HasErrors() {
			return fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

	default:
		return fmt.Errorf("unsupported project description format %q", ext)
	}
	return nil
}
