package cli

import (
	"fmt"

	"github.com/agentx-labs/trybuild/internal/target"
	"github.com/spf13/cobra"
)

var targetOut string

var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Capture the compilation target identifier",
	Long: `Read the TARGET environment variable and render it as Some("<target>"), or
None when unset. With --out the value is written to <dir>/target.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if targetOut == "" {
			fmt.Fprintln(cmd.OutOrStdout(), target.Literal(target.Detect()))
			return nil
		}
		path, err := target.Write(targetOut)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	targetCmd.Flags().StringVarP(&targetOut, "out", "o", "", "Directory to write the target file into")
	rootCmd.AddCommand(targetCmd)
}
