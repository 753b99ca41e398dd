// Package yaml provides YAML-based manifest parsing and report writing.
package yaml

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ochairo/denyfilter/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// yamlManifest represents the raw YAML structure
type yamlManifest struct {
	DenyList    string          `yaml:"denylist"`
	SearchPaths []string        `yaml:"search_paths"`
	References  []yamlReference `yaml:"references"`
}

type yamlReference struct {
	Include  string            `yaml:"include"`
	HintPath string            `yaml:"hint_path"`
	Metadata map[string]string `yaml:"metadata"`
}

// ManifestParser parses YAML reference manifests
type ManifestParser struct{}

// NewManifestParser creates a new YAML manifest parser
func NewManifestParser() *ManifestParser {
	return &ManifestParser{}
}

// ParseFile parses a manifest file. Relative paths inside it resolve
// against the manifest's own directory.
func (p *ManifestParser) ParseFile(filePath string) (*entities.Manifest, error) {
	//nolint:gosec // G304: filePath is the manifest given on the command line
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	baseDir, err := filepath.Abs(filepath.Dir(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest directory: %w", err)
	}

	return p.Parse(data, baseDir)
}

// Parse parses YAML bytes into a Manifest entity
func (p *ManifestParser) Parse(data []byte, baseDir string) (*entities.Manifest, error) {
	var raw yamlManifest
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	manifest := &entities.Manifest{
		DenyList:    resolve(baseDir, raw.DenyList),
		SearchPaths: make([]string, 0, len(raw.SearchPaths)),
		References:  make([]entities.Reference, 0, len(raw.References)),
	}

	for _, dir := range raw.SearchPaths {
		if dir == "" {
			continue
		}
		manifest.SearchPaths = append(manifest.SearchPaths, resolve(baseDir, dir))
	}

	for i, ref := range raw.References {
		if ref.Include == "" {
			return nil, fmt.Errorf("reference %d must have an include", i+1)
		}
		manifest.References = append(manifest.References, convertReference(baseDir, ref))
	}

	return manifest, nil
}

func convertReference(baseDir string, yr yamlReference) entities.Reference {
	ref := entities.Reference{
		ItemSpec: yr.Include,
		FullPath: resolve(baseDir, yr.Include),
		HintPath: resolve(baseDir, yr.HintPath),
	}
	for k, v := range yr.Metadata {
		ref.SetMetadata(k, v)
	}
	return ref
}

func resolve(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}
