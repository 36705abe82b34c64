//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // TRYBUILD_HOME, holds config.yaml
	Workspace  string // Parent of the host project and its path dependencies
	ProjectDir string // Host project containing Cargo.toml
	OutDir     string // Where generated test projects are written
}

// setupTestEnv creates isolated temp directories and points TRYBUILD_HOME at
// one of them. The env var is restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ws := t.TempDir()
	env := &testEnv{
		HomeDir:    t.TempDir(),
		Workspace:  ws,
		ProjectDir: filepath.Join(ws, "host"),
		OutDir:     t.TempDir(),
	}
	t.Setenv("TRYBUILD_HOME", env.HomeDir)

	if err := os.MkdirAll(env.ProjectDir, 0755); err != nil {
		t.Fatalf("creating project dir: %v", err)
	}
	return env
}

// setupHostCrate writes a host crate with a sibling path dependency and a
// mix of string and table dev-dependencies.
func setupHostCrate(t *testing.T, env *testEnv) {
	t.Helper()

	writeFile(t, filepath.Join(env.ProjectDir, "Cargo.toml"), `[package]
name = "host"
version = "0.1.0"
edition = "2021"

[lib]
path = "src/lib.rs"

[dev-dependencies]
helper = { path = "../helper" }
trybuild = "1.0"
`)
	writeFile(t, filepath.Join(env.ProjectDir, "src", "lib.rs"), "pub fn answer() -> u32 { 42 }\n")

	helperDir := filepath.Join(env.Workspace, "helper")
	writeFile(t, filepath.Join(helperDir, "Cargo.toml"), `[package]
name = "helper"
version = "0.1.0"
edition = "2021"
`)
	writeFile(t, filepath.Join(helperDir, "src", "lib.rs"), "pub fn help() {}\n")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s", path)
	}
}

func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q:\n%s", path, substr, data)
	}
}
