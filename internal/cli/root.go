package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the gridexec operator CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gridexec",
		Short: "Inspect gridexec worker daemons",
		Long: `Operator tooling for gridexec worker daemons.

Queries a running daemon over gRPC and reports its identity, uptime,
task counters, and the jobs registered in its binary.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
				color.NoColor = true
			}
		},
	}

	cmd.PersistentFlags().StringP("address", "a", "localhost:7070", "worker daemon address")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format (table|yaml)")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newJobsCmd())

	return cmd
}
