package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentx-labs/trybuild/internal/branding"
	"github.com/agentx-labs/trybuild/internal/config"
	"github.com/agentx-labs/trybuild/internal/logging"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	projectDir string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` reads the [dev-dependencies] of a Cargo.toml, anchors local path
dependencies at the manifest's directory, and generates standalone test
projects that build against the same dependency set.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		level := config.Current().LogLevel
		if verbose {
			level = "debug"
		}
		logging.Setup(cmd.ErrOrStderr(), level)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "dir", "C", ".", "Project directory containing the manifest")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// resolveProjectDir makes dir absolute so normalized paths are absolute too.
func resolveProjectDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving project directory %s: %w", dir, err)
	}
	return abs, nil
}
