package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentx-labs/trybuild/internal/dependencies"
	"github.com/pelletier/go-toml/v2"
)

// Defaults for generated projects.
const (
	DefaultName    = "trybuild-tests"
	DefaultEdition = "2021"
	packageVersion = "0.0.0"
)

// Options describes the generated test project.
type Options struct {
	// Name is the package name of the generated project.
	Name string
	// Edition is the language edition. Empty means DefaultEdition.
	Edition string
	// HostName and HostDir add the project under test as a path dependency.
	// Both must be set for the entry to be added.
	HostName     string
	HostDir      string
	HostFeatures []string
}

// Package is the [package] table of a generated project.
type Package struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Edition string `toml:"edition"`
	Publish bool   `toml:"publish"`
}

// Project is a self-contained manifest for compiling isolated test cases
// against the host's development dependencies.
type Project struct {
	Package      Package
	Dependencies dependencies.Set
}

// document fixes the table order of the encoded manifest.
type document struct {
	Package      Package        `toml:"package"`
	Dependencies map[string]any `toml:"dependencies"`
	Workspace    map[string]any `toml:"workspace"`
}

// Synthesize builds a Project from opts and the normalized dev-dependencies
// of the host. deps is copied; the caller's set is not modified.
func Synthesize(opts Options, deps dependencies.Set) *Project {
	name := opts.Name
	if name == "" {
		name = DefaultName
	}
	edition := opts.Edition
	if edition == "" {
		edition = DefaultEdition
	}

	all := make(dependencies.Set, len(deps)+1)
	for n, dep := range deps {
		all[n] = dep.Clone()
	}

	if opts.HostName != "" && opts.HostDir != "" {
		hostDir := opts.HostDir
		host := dependencies.Dependency{Path: &hostDir, Rest: map[string]any{}}
		if len(opts.HostFeatures) > 0 {
			features := make([]any, len(opts.HostFeatures))
			for i, f := range opts.HostFeatures {
				features[i] = f
			}
			host.Rest["features"] = features
		}
		all[opts.HostName] = host
	}

	return &Project{
		Package: Package{
			Name:    name,
			Version: packageVersion,
			Edition: edition,
			Publish: false,
		},
		Dependencies: all,
	}
}

// Encode renders the project as Cargo.toml text. The empty [workspace]
// table keeps the project out of any enclosing workspace.
func (p *Project) Encode() ([]byte, error) {
	doc := document{
		Package:      p.Package,
		Dependencies: p.Dependencies.Tables(),
		Workspace:    map[string]any{},
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding manifest for %s: %w", p.Package.Name, err)
	}
	return data, nil
}

// Write encodes the project into <dir>/Cargo.toml, creating dir if needed,
// and returns the written path.
func (p *Project) Write(dir string) (string, error) {
	data, err := p.Encode()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating project directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, dependencies.ManifestName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return path, nil
}
