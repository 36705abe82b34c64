package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/agentx-labs/trybuild/internal/config"
	"github.com/agentx-labs/trybuild/internal/dependencies"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

// Output formats accepted by --format.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatTOML  = "toml"
)

var (
	depsFormat string
	depsStrict bool
)

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "List normalized dev-dependencies",
	Long: `List the [dev-dependencies] of the project manifest with local paths anchored
at the project directory. The tool's own entry is omitted.

A missing or unreadable manifest yields an empty list unless --strict is set.`,
	Args: cobra.NoArgs,
	RunE: runDeps,
}

func init() {
	depsCmd.Flags().StringVarP(&depsFormat, "format", "f", formatTable, "Output format (table, json, yaml, toml)")
	depsCmd.Flags().BoolVar(&depsStrict, "strict", false, "Fail instead of printing an empty list when the manifest cannot be read")
	rootCmd.AddCommand(depsCmd)
}

func runDeps(cmd *cobra.Command, args []string) error {
	dir, err := resolveProjectDir(projectDir)
	if err != nil {
		return err
	}

	deps, err := loadDeps(config.Current().Loader(), dir, depsStrict)
	if err != nil {
		return err
	}
	return writeDeps(cmd.OutOrStdout(), deps, depsFormat)
}

// loadDeps extracts the dev-dependencies of dir. Unless strict, failures are
// logged and an empty set is returned.
func loadDeps(loader dependencies.Loader, dir string, strict bool) (dependencies.Set, error) {
	deps, err := loader.Load(dir)
	if err != nil {
		if strict {
			return nil, fmt.Errorf("loading dev-dependencies from %s: %w", dir, err)
		}
		slog.Debug("dev-dependencies unavailable, continuing without", "dir", dir, "error", err)
		return dependencies.Set{}, nil
	}
	slog.Debug("loaded dev-dependencies", "dir", dir, "count", len(deps))
	return deps, nil
}

func writeDeps(w io.Writer, deps dependencies.Set, format string) error {
	switch format {
	case formatTable:
		return printDepsTable(w, deps)
	case formatJSON:
		data, err := json.MarshalIndent(deps, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case formatYAML:
		data, err := yaml.Marshal(deps)
		if err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case formatTOML:
		data, err := toml.Marshal(map[string]any{"dev-dependencies": deps.Tables()})
		if err != nil {
			return fmt.Errorf("encoding TOML: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported format %q (want %s, %s, %s, or %s)", format, formatTable, formatJSON, formatYAML, formatTOML)
	}
}

func printDepsTable(w io.Writer, deps dependencies.Set) error {
	if len(deps) == 0 {
		_, err := fmt.Fprintln(w, "No dev-dependencies found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVERSION\tPATH\tOTHER")
	for _, name := range deps.Names() {
		dep := deps[name]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, orDash(dep.Version), orDash(dep.Path), otherKeys(dep))
	}
	return tw.Flush()
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func otherKeys(dep dependencies.Dependency) string {
	if len(dep.Rest) == 0 {
		return "-"
	}
	return strings.Join(slices.Sorted(maps.Keys(dep.Rest)), ",")
}
