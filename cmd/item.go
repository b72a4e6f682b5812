package cmd

import (
	"fmt"

	"github.com/bnema/cashier-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newItemCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage the item catalog used to name traded items",
	}

	cmd.AddCommand(
		newItemAddCmd(app),
		newItemListCmd(app),
	)

	return cmd
}

func newItemAddCmd(app *app) *cobra.Command {
	var item domain.ItemInfo

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or replace an item by id",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.items.Save(cmd.Context(), item); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved item %d (%s)\n", item.ID, item.Name)
			return nil
		},
	}

	cmd.Flags().Uint32Var(&item.ID, "id", 0, "Item id")
	cmd.Flags().StringVar(&item.Name, "name", "", "Display name")
	cmd.Flags().Uint32Var(&item.IconID, "icon", 0, "Icon id")
	cmd.Flags().Uint32Var(&item.StackSize, "stack", 1, "Maximum stack size")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newItemListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog items",
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := app.items.List(cmd.Context())
			if err != nil {
				return err
			}

			for _, item := range items {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\tstack %d\n", item.ID, item.Name, item.StackSize)
			}

			return nil
		},
	}
}
