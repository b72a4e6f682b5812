package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	historyrender "github.com/bnema/cashier-cli/internal/adapters/render/history"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Review recorded trades",
	}

	cmd.AddCommand(
		newHistoryListCmd(app),
		newHistoryTargetsCmd(app),
		newHistoryDeleteCmd(app),
		newHistoryExportCmd(app),
		newHistoryDismissCmd(app),
	)

	return cmd
}

func newHistoryListCmd(app *app) *cobra.Command {
	var target string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded trades",
		RunE: func(cmd *cobra.Command, _ []string) error {
			history, err := app.openHistory(cmd.Context())
			if err != nil {
				return err
			}

			target = strings.TrimSpace(target)
			entries := history.Entries(target)

			if asJSON {
				encoded, err := json.MarshalIndent(entries, "", "  ")
				if err != nil {
					return fmt.Errorf("encode history json: %w", err)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
				return nil
			}

			rendered, err := app.renderer(historyrender.Log{Owner: history.Owner(), Target: target, Entries: entries})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Only trades with this counterparty (Name@World)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print entries as JSON")

	return cmd
}

func newHistoryTargetsCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List every counterparty in the history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			history, err := app.openHistory(cmd.Context())
			if err != nil {
				return err
			}

			rendered, err := app.renderer(historyrender.Targets{Owner: history.Owner(), Targets: history.Targets()})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
}

func newHistoryDeleteCmd(app *app) *cobra.Command {
	var target string
	var all bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete trades with one counterparty, or all of them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			target = strings.TrimSpace(target)
			if target == "" && !all {
				return errors.New("pass --target or --all")
			}

			history, err := app.openHistory(cmd.Context())
			if err != nil {
				return err
			}

			removed := history.Delete(target)
			if err := history.Flush(cmd.Context()); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d entries\n", removed)
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Counterparty whose trades are deleted (Name@World)")
	cmd.Flags().BoolVar(&all, "all", false, "Delete the whole history")
	cmd.MarkFlagsMutuallyExclusive("target", "all")

	return cmd
}

func newHistoryExportCmd(app *app) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Export trades to a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := app.openHistory(cmd.Context())
			if err != nil {
				return err
			}

			path, err := history.Export(cmd.Context(), args[0], strings.TrimSpace(target))
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported history to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Only trades with this counterparty (Name@World)")

	return cmd
}

func newHistoryDismissCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss <id>",
		Short: "Remove one trade from the history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := app.openHistory(cmd.Context())
			if err != nil {
				return err
			}

			if err := history.Dismiss(strings.TrimSpace(args[0])); err != nil {
				return err
			}
			if err := history.Flush(cmd.Context()); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Dismissed %s\n", args[0])
			return nil
		},
	}
}
