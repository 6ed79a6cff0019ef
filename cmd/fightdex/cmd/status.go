package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/fightdex/fightdex/pkg/pipeline"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show data freshness, pending retries, and table sizes",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		status, err := client.Status(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "snapshots:")
		for _, stage := range pipeline.Stages() {
			if stage == pipeline.StageReconcile || stage == pipeline.StageLoad {
				continue
			}
			age, ok := status.Snapshots[stage]
			if !ok {
				fmt.Fprintf(out, "  %-16s missing\n", stage)
				continue
			}
			fmt.Fprintf(out, "  %-16s %s old\n", stage, age.Round(time.Minute))
		}

		if len(status.Ledger) > 0 {
			fmt.Fprintln(out, "pending retries:")
			queues := make([]string, 0, len(status.Ledger))
			for queue := range status.Ledger {
				queues = append(queues, queue)
			}
			sort.Strings(queues)
			for _, queue := range queues {
				fmt.Fprintf(out, "  %-16s %d\n", queue, status.Ledger[queue])
			}
		} else {
			fmt.Fprintln(out, "pending retries: none")
		}

		if status.Tables != nil {
			fmt.Fprintln(out, "tables:")
			tables := make([]string, 0, len(status.Tables))
			for table := range status.Tables {
				tables = append(tables, table)
			}
			sort.Strings(tables)
			for _, table := range tables {
				fmt.Fprintf(out, "  %-16s %d rows\n", table, status.Tables[table])
			}
		}
		return nil
	},
}
