// Package manifest reads the dependency manifest of a project.
//
// Only the "require" mapping is consulted. Keys are "<vendor>/<package>"
// names, values are version constraints. Declaration order is preserved.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// DefaultFileName is the manifest looked up in the project root.
const DefaultFileName = "composer.json"

// ErrInvalidManifest is returned when the manifest is not valid JSON.
var ErrInvalidManifest = errors.New("invalid manifest")

// Dependency is one entry of the manifest's require mapping.
type Dependency struct {
	Name       string // Full "<vendor>/<package>" key.
	Constraint string // Version constraint as declared.
}

// Vendor returns the vendor segment of the dependency name, or the whole
// name when it has no vendor prefix (platform requirements such as "php").
func (d Dependency) Vendor() string {
	vendor, _, found := strings.Cut(d.Name, "/")
	if !found {
		return d.Name
	}
	return vendor
}

// Package returns the package segment of the dependency name.
func (d Dependency) Package() string {
	_, pkg, found := strings.Cut(d.Name, "/")
	if !found {
		return ""
	}
	return pkg
}

// Version returns the constraint with any ":"-separated suffix removed.
func (d Dependency) Version() string {
	v, _, _ := strings.Cut(d.Constraint, ":")
	return v
}

// Manifest is a parsed dependency manifest.
type Manifest struct {
	Path         string
	Dependencies []Dependency
}

// Load reads and parses the manifest at path.
func Load(path string, logger *zap.Logger) (*Manifest, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = path

	logger.Debug("Loaded manifest", zap.String("path", path), zap.Int("dependencies", len(m.Dependencies)))
	return m, nil
}

// Parse parses manifest content.
func Parse(data []byte) (*Manifest, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidManifest
	}

	m := &Manifest{}
	require := gjson.GetBytes(data, "require")
	if !require.IsObject() {
		return m, nil
	}

	require.ForEach(func(key, value gjson.Result) bool {
		m.Dependencies = append(m.Dependencies, Dependency{
			Name:       key.String(),
			Constraint: value.String(),
		})
		return true
	})
	return m, nil
}
