package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ca",
		Short:         "Cashier CLI (ca): reconstruct and review player trades",
		Long:          "ca (Cashier CLI) replays trade notification journals, records every finished trade per character, and lets you review, filter and export that history from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newReplayCmd(app),
		newHistoryCmd(app),
		newPlayerCmd(app),
		newItemCmd(app),
	)

	return rootCmd
}
