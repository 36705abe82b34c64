package dependencies

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

// Defaults for the manifest this package reads.
const (
	ManifestName = "Cargo.toml"
	SelfName     = "trybuild"
)

// Set maps dependency names to their declarations.
type Set map[string]Dependency

// Names returns the dependency names in sorted order.
func (s Set) Names() []string {
	return slices.Sorted(maps.Keys(s))
}

// Tables returns the table form of every declaration, keyed by name.
func (s Set) Tables() map[string]any {
	out := make(map[string]any, len(s))
	for name, dep := range s {
		out[name] = dep.Table()
	}
	return out
}

// manifest is the subset of Cargo.toml this package understands. Every other
// section is ignored by the decoder.
type manifest struct {
	DevDependencies map[string]any `toml:"dev-dependencies"`
}

// Loader reads and normalizes the dev-dependencies of a project manifest.
// The zero value uses ManifestName and SelfName.
type Loader struct {
	ManifestName string
	SelfName     string
}

// DefaultLoader is the Loader used by Get, Load, and Normalize.
var DefaultLoader = Loader{ManifestName: ManifestName, SelfName: SelfName}

func (l Loader) manifestName() string {
	if l.ManifestName == "" {
		return ManifestName
	}
	return l.ManifestName
}

func (l Loader) selfName() string {
	if l.SelfName == "" {
		return SelfName
	}
	return l.SelfName
}

// Get returns the normalized dev-dependencies of the manifest in projectDir.
// It never fails: any read or decode error yields an empty Set.
func (l Loader) Get(projectDir string) Set {
	deps, err := l.Load(projectDir)
	if err != nil {
		return Set{}
	}
	return deps
}

// Load reads the manifest in projectDir, decodes its dev-dependencies, and
// normalizes them. Either the whole table is returned or an *Error.
func (l Loader) Load(projectDir string) (Set, error) {
	deps, err := l.Decode(projectDir)
	if err != nil {
		return nil, err
	}
	return l.Normalize(deps, projectDir), nil
}

// Decode reads and decodes the dev-dependencies of the manifest in
// projectDir without normalizing them.
func (l Loader) Decode(projectDir string) (Set, error) {
	path := filepath.Join(projectDir, l.manifestName())
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError(path, err)
	}

	deps, err := DecodeManifest(data)
	if err != nil {
		return nil, parseError(path, err)
	}
	return deps, nil
}

// DecodeManifest decodes the dev-dependencies table of raw manifest text.
func DecodeManifest(data []byte) (Set, error) {
	var m manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	deps := make(Set, len(m.DevDependencies))
	for name, raw := range m.DevDependencies {
		dep, err := Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("dev-dependencies.%s: %w", name, err)
		}
		deps[name] = dep
	}
	return deps, nil
}

// Normalize removes the loader's own entry from deps and joins every
// declared path onto manifestDir with JoinPath. Paths are neither cleaned
// nor checked for existence. deps is modified in place and
// returned.
func (l Loader) Normalize(deps Set, manifestDir string) Set {
	delete(deps, l.selfName())

	for name, dep := range deps {
		if dep.Path == nil {
			continue
		}
		joined := JoinPath(manifestDir, *dep.Path)
		dep.Path = &joined
		deps[name] = dep
	}
	return deps
}

// JoinPath appends rel to base the way a path join does without cleaning:
// "." and ".." segments survive. An absolute rel replaces base.
func JoinPath(base, rel string) string {
	switch {
	case rel == "":
		return base
	case base == "" || filepath.IsAbs(rel):
		return rel
	case os.IsPathSeparator(base[len(base)-1]):
		return base + rel
	default:
		return base + string(filepath.Separator) + rel
	}
}

// Get runs DefaultLoader.Get.
func Get(projectDir string) Set {
	return DefaultLoader.Get(projectDir)
}

// Load runs DefaultLoader.Load.
func Load(projectDir string) (Set, error) {
	return DefaultLoader.Load(projectDir)
}

// Normalize runs DefaultLoader.Normalize.
func Normalize(deps Set, manifestDir string) Set {
	return DefaultLoader.Normalize(deps, manifestDir)
}
