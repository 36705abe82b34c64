package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/agentx-labs/trybuild/internal/config"
	"github.com/agentx-labs/trybuild/internal/dependencies"
	"github.com/agentx-labs/trybuild/internal/manifest"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the project's dev-dependency declarations",
	Long: `Load the project manifest strictly and check every dev-dependency against the
declaration schema. Version requirements must parse as semver constraints and
path dependencies should point at an existing directory.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	dir, err := resolveProjectDir(projectDir)
	if err != nil {
		return err
	}

	deps, err := loadDeps(config.Current().Loader(), dir, true)
	if err != nil {
		return err
	}

	issues, err := diagnose(deps)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(issues) == 0 {
		fmt.Fprintf(out, "✓ %d dev-dependencies OK\n", len(deps))
		return nil
	}

	printIssues(out, issues)
	return fmt.Errorf("%d issue(s) found in %s", len(issues), dir)
}

// diagnose runs schema validation and checks that path dependencies exist.
func diagnose(deps dependencies.Set) ([]manifest.ValidationIssue, error) {
	result, err := manifest.Validate(deps)
	if err != nil {
		return nil, fmt.Errorf("validating dev-dependencies: %w", err)
	}

	issues := result.Issues
	for _, name := range deps.Names() {
		dep := deps[name]
		if dep.Path == nil {
			continue
		}
		info, err := os.Stat(*dep.Path)
		switch {
		case err != nil:
			issues = append(issues, manifest.ValidationIssue{
				Dependency: name,
				Path:       "/path",
				Message:    fmt.Sprintf("%s: %v", *dep.Path, err),
				Keyword:    "exists",
			})
		case !info.IsDir():
			issues = append(issues, manifest.ValidationIssue{
				Dependency: name,
				Path:       "/path",
				Message:    fmt.Sprintf("%s is not a directory", *dep.Path),
				Keyword:    "exists",
			})
		}
	}
	return issues, nil
}

func printIssues(w io.Writer, issues []manifest.ValidationIssue) {
	for _, issue := range issues {
		loc := issue.Dependency
		if issue.Path != "" {
			loc += issue.Path
		}
		fmt.Fprintf(w, "✗ %s: %s\n", loc, issue.Message)
	}
}
