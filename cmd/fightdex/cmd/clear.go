package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearAll bool

var clearCmd = &cobra.Command{
	Use:   "clear [queue]",
	Short: "Clear persisted failure queues",
	Long: `Clear persisted failure queues.

Entries normally leave a queue only when a retry succeeds. Clearing is
for the cases where that will never happen: a fighter removed from the
roster, or a name that will be fixed through the override table instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		led := client.Ledger()
		switch {
		case clearAll:
			led.ClearAll()
			fmt.Fprintln(cmd.OutOrStdout(), "cleared all queues")
		case len(args) == 1:
			queue := args[0]
			size := led.Size(queue)
			led.Clear(queue)
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %d entries from %s\n", size, queue)
		default:
			return cmd.Help()
		}
		return led.Flush()
	},
}

func init() {
	clearCmd.Flags().BoolVar(&clearAll, "all", false, "clear every queue")
}
