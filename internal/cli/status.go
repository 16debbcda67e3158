package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type statusOutput struct {
	NodeID         string `yaml:"node_id"`
	Address        string `yaml:"address"`
	Uptime         string `yaml:"uptime"`
	ActiveTasks    int    `yaml:"active_tasks"`
	CompletedTasks int    `yaml:"completed_tasks"`
	FailedTasks    int    `yaml:"failed_tasks"`
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show a worker daemon's identity and task counters",
		Example: `  # Query the default daemon
  gridexec status

  # Query a specific daemon in YAML
  gridexec status -a 10.0.0.5:7070 -o yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			address, _ := cmd.Flags().GetString("address")
			format, _ := cmd.Flags().GetString("output")

			resp, err := fetchStatus(address)
			if err != nil {
				return err
			}

			out := statusOutput{
				NodeID:         resp.NodeID,
				Address:        resp.Address,
				Uptime:         time.Since(resp.StartedAt).Round(time.Second).String(),
				ActiveTasks:    resp.ActiveTasks,
				CompletedTasks: resp.CompletedTasks,
				FailedTasks:    resp.FailedTasks,
			}

			if format == "yaml" {
				data, err := yaml.Marshal(out)
				if err != nil {
					return err
				}
				fmt.Print(string(data))
				return nil
			}

			header := color.New(color.FgCyan, color.Bold).SprintFunc()
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{
				header("NODE"), header("ADDRESS"), header("UPTIME"),
				header("ACTIVE"), header("COMPLETED"), header("FAILED"),
			})
			table.Append([]string{
				out.NodeID,
				out.Address,
				out.Uptime,
				fmt.Sprintf("%d", out.ActiveTasks),
				fmt.Sprintf("%d", out.CompletedTasks),
				fmt.Sprintf("%d", out.FailedTasks),
			})
			table.Render()
			return nil
		},
	}
}
