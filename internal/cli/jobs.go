package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newJobsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List jobs registered in a worker daemon's binary",
		RunE: func(cmd *cobra.Command, args []string) error {
			address, _ := cmd.Flags().GetString("address")
			format, _ := cmd.Flags().GetString("output")

			resp, err := fetchStatus(address)
			if err != nil {
				return err
			}

			if format == "yaml" {
				data, err := yaml.Marshal(map[string][]string{"jobs": resp.Jobs})
				if err != nil {
					return err
				}
				fmt.Print(string(data))
				return nil
			}

			if len(resp.Jobs) == 0 {
				fmt.Println("No jobs registered")
				return nil
			}

			header := color.New(color.FgCyan, color.Bold).SprintFunc()
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{header("NAME")})
			for _, name := range resp.Jobs {
				table.Append([]string{name})
			}
			table.Render()
			return nil
		},
	}
}
