package cli

import (
	"fmt"

	"github.com/agentx-labs/trybuild/internal/config"
	"github.com/agentx-labs/trybuild/internal/manifest"
	"github.com/spf13/cobra"
)

var (
	synthName     string
	synthHostName string
	synthEdition  string
	synthFeatures []string
	synthOut      string
)

var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Generate a standalone test project manifest",
	Long: `Generate the Cargo.toml of a standalone project that depends on the host's
dev-dependencies and, with --host-name, on the host crate itself.

The manifest is printed to stdout unless --out names a directory to write
it into.`,
	Args: cobra.NoArgs,
	RunE: runSynth,
}

func init() {
	synthCmd.Flags().StringVar(&synthName, "name", manifest.DefaultName, "Package name of the generated project")
	synthCmd.Flags().StringVar(&synthHostName, "host-name", "", "Add the project under test as a path dependency with this name")
	synthCmd.Flags().StringVar(&synthEdition, "edition", manifest.DefaultEdition, "Language edition of the generated project")
	synthCmd.Flags().StringSliceVar(&synthFeatures, "features", nil, "Features to enable on the host dependency")
	synthCmd.Flags().StringVarP(&synthOut, "out", "o", "", "Directory to write Cargo.toml into")
	rootCmd.AddCommand(synthCmd)
}

func runSynth(cmd *cobra.Command, args []string) error {
	dir, err := resolveProjectDir(projectDir)
	if err != nil {
		return err
	}

	// Missing dev-dependencies are not fatal: the project just gets none.
	deps, err := loadDeps(config.Current().Loader(), dir, false)
	if err != nil {
		return err
	}

	project := manifest.Synthesize(manifest.Options{
		Name:         synthName,
		Edition:      synthEdition,
		HostName:     synthHostName,
		HostDir:      dir,
		HostFeatures: synthFeatures,
	}, deps)

	if synthOut != "" {
		path, err := project.Write(synthOut)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d dependencies)\n", path, len(project.Dependencies))
		return nil
	}

	data, err := project.Encode()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
