package cmd

import (
	"fmt"

	"github.com/bnema/cashier-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newPlayerCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Manage the player directory used to resolve trade partners",
	}

	cmd.AddCommand(
		newPlayerAddCmd(app),
		newPlayerListCmd(app),
	)

	return cmd
}

func newPlayerAddCmd(app *app) *cobra.Command {
	var identity domain.Identity

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or replace a player by object reference",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.players.Save(cmd.Context(), identity); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved player %s (ref %d)\n", identity.Key(), identity.ObjectRef)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&identity.ObjectRef, "ref", 0, "Host object reference")
	cmd.Flags().StringVar(&identity.DisplayName, "name", "", "Character name")
	cmd.Flags().StringVar(&identity.WorldName, "world", "", "Home world name")
	cmd.Flags().Uint32Var(&identity.WorldID, "world-id", 0, "Home world id")
	_ = cmd.MarkFlagRequired("ref")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("world")

	return cmd
}

func newPlayerListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known players",
		RunE: func(cmd *cobra.Command, _ []string) error {
			players, err := app.players.List(cmd.Context())
			if err != nil {
				return err
			}

			for _, player := range players {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", player.ObjectRef, player.Key())
			}

			return nil
		},
	}
}
