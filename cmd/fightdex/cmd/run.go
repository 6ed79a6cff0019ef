package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fightdex/fightdex/pkg/errors"
	"github.com/fightdex/fightdex/pkg/logging"
	"github.com/fightdex/fightdex/pkg/pipeline"
)

var (
	runMode     string
	runStages   []string
	runSkipLoad bool
	runWorkers  int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a pipeline run",
	Long: `Execute a pipeline run.

A full-refresh run refetches everything from scratch. An incremental run
reuses snapshots left by earlier runs, fetching only what is missing and
retrying what the ledger recorded as failed. A targeted run executes only
the stages named with --stage.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		command := pipeline.Command{
			Mode:     pipeline.Mode(runMode),
			SkipLoad: runSkipLoad,
			Workers:  runWorkers,
		}
		for _, name := range runStages {
			command.Targets = append(command.Targets, pipeline.Stage(name))
		}
		if len(command.Targets) > 0 && command.Mode != pipeline.ModeTargeted {
			command.Mode = pipeline.ModeTargeted
		}

		ctx := logging.WithLogger(cmd.Context(), logging.Default())
		summary, err := client.Run(ctx, command)
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), summary.Render())
		if !summary.OK() {
			return errors.New("run finished with failed stages")
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runMode, "mode", string(pipeline.ModeFull),
		"run mode (full-refresh, incremental, targeted)")
	runCmd.Flags().StringSliceVar(&runStages, "stage", nil,
		"stage to run in targeted mode, repeatable")
	runCmd.Flags().BoolVar(&runSkipLoad, "skip-load", false,
		"reconcile and snapshot without touching the database")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0,
		"override the configured fetch worker count")
}
