package dependencies

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"go.yaml.in/yaml/v3"
)

// Keys routed into typed fields. Everything else lands in Rest.
const (
	keyVersion = "version"
	keyPath    = "path"
)

const expecting = `a version string like "0.9.8" or a dependency like { version = "0.9.8" }`

// Dependency is one entry of a [dev-dependencies] table.
//
// A declaration authored as a bare string decodes to a Dependency whose only
// attribute is Version. Table declarations have version and path routed into
// their typed fields; every other key is kept verbatim in Rest so it can be
// written back out unchanged.
type Dependency struct {
	Version *string
	Path    *string
	Rest    map[string]any
}

// Decode builds a Dependency from a raw decoded value. The value must be a
// string or a table; any other shape wraps ErrInvalidDeclaration.
func Decode(raw any) (Dependency, error) {
	switch v := raw.(type) {
	case string:
		return Dependency{Version: &v, Rest: map[string]any{}}, nil
	case map[string]any:
		return decodeTable(v)
	default:
		return Dependency{}, fmt.Errorf("%w: invalid type %s, expected %s", ErrInvalidDeclaration, describe(raw), expecting)
	}
}

func decodeTable(table map[string]any) (Dependency, error) {
	dep := Dependency{Rest: make(map[string]any, len(table))}
	for key, value := range table {
		switch key {
		case keyVersion:
			s, ok := value.(string)
			if !ok {
				return Dependency{}, fmt.Errorf("%w: %q must be a string, got %s", ErrInvalidDeclaration, key, describe(value))
			}
			dep.Version = &s
		case keyPath:
			s, ok := value.(string)
			if !ok {
				return Dependency{}, fmt.Errorf("%w: %q must be a string, got %s", ErrInvalidDeclaration, key, describe(value))
			}
			dep.Path = &s
		default:
			dep.Rest[key] = value
		}
	}
	return dep, nil
}

// Table returns the table form of d. Absent version and path are omitted and
// Rest keys are spliced in at the same level.
func (d Dependency) Table() map[string]any {
	table := make(map[string]any, len(d.Rest)+2)
	for key, value := range d.Rest {
		table[key] = value
	}
	if d.Version != nil {
		table[keyVersion] = *d.Version
	}
	if d.Path != nil {
		table[keyPath] = *d.Path
	}
	return table
}

// Keys returns the sorted attribute names of d's table form.
func (d Dependency) Keys() []string {
	return slices.Sorted(maps.Keys(d.Table()))
}

// Clone returns a deep-enough copy of d: the pointers and the Rest map are
// fresh, nested Rest values are shared.
func (d Dependency) Clone() Dependency {
	out := Dependency{Rest: maps.Clone(d.Rest)}
	if out.Rest == nil {
		out.Rest = map[string]any{}
	}
	if d.Version != nil {
		v := *d.Version
		out.Version = &v
	}
	if d.Path != nil {
		p := *d.Path
		out.Path = &p
	}
	return out
}

// MarshalJSON encodes d in table form.
func (d Dependency) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Table())
}

// UnmarshalJSON accepts either a version string or an object.
func (d *Dependency) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	dep, err := Decode(raw)
	if err != nil {
		return err
	}
	*d = dep
	return nil
}

// MarshalYAML encodes d in table form.
func (d Dependency) MarshalYAML() (interface{}, error) {
	return d.Table(), nil
}

// UnmarshalYAML accepts either a version string or a mapping.
func (d *Dependency) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	dep, err := Decode(raw)
	if err != nil {
		return err
	}
	*d = dep
	return nil
}

// describe names the shape of a decoded value for error messages.
func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case int, int64, uint64:
		return "integer"
	case float64:
		return "float"
	case []any:
		return "array"
	case string:
		return "string"
	case map[string]any:
		return "table"
	default:
		return fmt.Sprintf("%T", v)
	}
}
