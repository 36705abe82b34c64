// Package target captures the compilation target identifier once so the
// tool can embed it as a constant.
package target

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvVar is the environment variable the target is read from.
const EnvVar = "TARGET"

// FileName is the name of the file Write produces inside the output dir.
const FileName = "target"

// Detect returns the target identifier from the environment, if set.
func Detect() (string, bool) {
	v, ok := os.LookupEnv(EnvVar)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Literal renders the captured value as a source literal:
// Some("<target>") when present, None otherwise.
func Literal(target string, ok bool) string {
	if !ok {
		return "None"
	}
	return fmt.Sprintf(`Some("%s")`, escape(target))
}

// Write captures the current target and writes its literal to
// <outDir>/target. Any failure is returned to the caller.
func Write(outDir string) (string, error) {
	path := filepath.Join(outDir, FileName)
	value := Literal(Detect())
	if err := os.WriteFile(path, []byte(value), 0644); err != nil {
		return "", fmt.Errorf("writing target file %s: %w", path, err)
	}
	return path, nil
}

func escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
