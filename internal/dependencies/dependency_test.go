package dependencies

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"go.yaml.in/yaml/v3"
)

func TestDecode_BareString(t *testing.T) {
	dep, err := Decode("1.0.140")
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if dep.Version == nil || *dep.Version != "1.0.140" {
		t.Errorf("Version = %v, want 1.0.140", dep.Version)
	}
	if dep.Path != nil {
		t.Errorf("Path = %q, want nil", *dep.Path)
	}
	if len(dep.Rest) != 0 {
		t.Errorf("Rest = %v, want empty", dep.Rest)
	}
}

func TestDecode_Table(t *testing.T) {
	raw := map[string]any{
		"version":          "0.4",
		"path":             "../helper",
		"features":         []any{"derive", "std"},
		"optional":         true,
		"default-features": false,
		"registry":         "internal",
	}

	dep, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if dep.Version == nil || *dep.Version != "0.4" {
		t.Errorf("Version = %v, want 0.4", dep.Version)
	}
	if dep.Path == nil || *dep.Path != "../helper" {
		t.Errorf("Path = %v, want ../helper", dep.Path)
	}
	if _, ok := dep.Rest["version"]; ok {
		t.Error("Rest must not contain version")
	}
	if _, ok := dep.Rest["path"]; ok {
		t.Error("Rest must not contain path")
	}
	if len(dep.Rest) != 4 {
		t.Fatalf("Rest len = %d, want 4: %v", len(dep.Rest), dep.Rest)
	}
	if dep.Rest["registry"] != "internal" {
		t.Errorf("Rest[registry] = %v, want internal", dep.Rest["registry"])
	}
	if dep.Rest["optional"] != true {
		t.Errorf("Rest[optional] = %v, want true", dep.Rest["optional"])
	}
}

func TestDecode_TableWithoutVersion(t *testing.T) {
	dep, err := Decode(map[string]any{"git": "https://example.com/repo.git", "branch": "main"})
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if dep.Version != nil {
		t.Errorf("Version = %q, want nil", *dep.Version)
	}
	if dep.Path != nil {
		t.Errorf("Path = %q, want nil", *dep.Path)
	}
	if len(dep.Rest) != 2 {
		t.Errorf("Rest len = %d, want 2", len(dep.Rest))
	}
}

func TestDecode_InvalidShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"integer", int64(1)},
		{"float", 1.5},
		{"boolean", true},
		{"array", []any{"1.0"}},
		{"nil", nil},
		{"version not string", map[string]any{"version": int64(1)}},
		{"path not string", map[string]any{"path": []any{"a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidDeclaration) {
				t.Errorf("error %v does not wrap ErrInvalidDeclaration", err)
			}
		})
	}
}

func TestTable_OmitsAbsentFields(t *testing.T) {
	dep := Dependency{Rest: map[string]any{"git": "https://example.com/x.git"}}
	table := dep.Table()
	if _, ok := table["version"]; ok {
		t.Error("table contains version, want omitted")
	}
	if _, ok := table["path"]; ok {
		t.Error("table contains path, want omitted")
	}
	if table["git"] != "https://example.com/x.git" {
		t.Errorf("git = %v", table["git"])
	}
}

func TestTable_RoundTripKeySet(t *testing.T) {
	raw := map[string]any{
		"version":  "1",
		"path":     "crates/a",
		"features": []any{"x"},
		"package":  "renamed",
		"tag":      "v1.0.0",
	}

	dep, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}

	got := dep.Keys()
	want := []string{"features", "package", "path", "tag", "version"}
	if !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}

	again, err := Decode(dep.Table())
	if err != nil {
		t.Fatalf("re-Decode error: %v", err)
	}
	if !slices.Equal(again.Keys(), want) {
		t.Errorf("re-decoded Keys() = %v, want %v", again.Keys(), want)
	}
	if again.Rest["package"] != "renamed" || again.Rest["tag"] != "v1.0.0" {
		t.Errorf("Rest values changed: %v", again.Rest)
	}
}

func TestClone_Independent(t *testing.T) {
	v, p := "1", "a"
	dep := Dependency{Version: &v, Path: &p, Rest: map[string]any{"k": "v"}}

	c := dep.Clone()
	*c.Path = "b"
	c.Rest["k2"] = "v2"

	if *dep.Path != "a" {
		t.Errorf("original Path changed to %q", *dep.Path)
	}
	if _, ok := dep.Rest["k2"]; ok {
		t.Error("original Rest changed")
	}
}

func TestJSON_StringAndObject(t *testing.T) {
	var deps map[string]Dependency
	input := `{"serde": "1.0", "local": {"path": "../local", "features": ["a"]}}`
	if err := json.Unmarshal([]byte(input), &deps); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if v := deps["serde"].Version; v == nil || *v != "1.0" {
		t.Errorf("serde version = %v, want 1.0", v)
	}
	local := deps["local"]
	if local.Path == nil || *local.Path != "../local" {
		t.Errorf("local path = %v, want ../local", local.Path)
	}

	out, err := json.Marshal(local)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(out) != `{"features":["a"],"path":"../local"}` {
		t.Errorf("Marshal = %s", out)
	}
}

func TestJSON_InvalidShape(t *testing.T) {
	var dep Dependency
	err := json.Unmarshal([]byte(`42`), &dep)
	if !errors.Is(err, ErrInvalidDeclaration) {
		t.Errorf("error = %v, want ErrInvalidDeclaration", err)
	}
}

func TestYAML_StringAndMapping(t *testing.T) {
	input := `
serde: "1.0"
local:
  path: ../local
  optional: true
`
	var deps map[string]Dependency
	if err := yaml.Unmarshal([]byte(input), &deps); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if v := deps["serde"].Version; v == nil || *v != "1.0" {
		t.Errorf("serde version = %v, want 1.0", v)
	}
	if deps["local"].Rest["optional"] != true {
		t.Errorf("local optional = %v, want true", deps["local"].Rest["optional"])
	}

	out, err := yaml.Marshal(deps["local"])
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	var back Dependency
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("re-Unmarshal error: %v", err)
	}
	if back.Path == nil || *back.Path != "../local" {
		t.Errorf("round-tripped path = %v", back.Path)
	}
}
