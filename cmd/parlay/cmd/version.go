package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the parlay CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "parlay version %s\n", version)
		fmt.Fprintln(out, "Deterministic fragility scoring for parlay bet slips")
		fmt.Fprintln(out, "https://github.com/rustyeddy/parlay")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
