package cli

import (
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"menucli/internal/model"
	"menucli/internal/orderedlist"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List and reorder a category's items",
	}
	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsMoveCmd(app))
	return cmd
}

func newItemsListCmd(app *App) *cobra.Command {
	var categoryID int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a category's items in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if categoryID == 0 {
				return writeErr(cmd, errors.New("missing --category"))
			}
			client, _, _, err := newSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			items, err := client.ItemsByCategory(cmd.Context(), categoryID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": items})
		},
	}
	cmd.Flags().Int64Var(&categoryID, "category", 0, "Category id")
	return cmd
}

func newItemsMoveCmd(app *App) *cobra.Command {
	var categoryID int64
	var overID int64
	cmd := &cobra.Command{
		Use:   "move <item-id>",
		Short: "Move an item onto another item's position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return writeErr(cmd, errors.New("item id must be a number"))
			}
			if categoryID == 0 {
				return writeErr(cmd, errors.New("missing --category"))
			}
			if overID == 0 {
				return writeErr(cmd, errors.New("missing --over"))
			}

			client, _, _, err := newSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			items, err := client.ItemsByCategory(cmd.Context(), categoryID)
			if err != nil {
				return writeErr(cmd, err)
			}
			if orderedlist.IndexOf(items, id) < 0 {
				return writeErr(cmd, errNotFound("item", args[0]))
			}
			if orderedlist.IndexOf(items, overID) < 0 {
				return writeErr(cmd, errNotFound("item", strconv.FormatInt(overID, 10)))
			}

			sync := orderedlist.NewSynchronizer[model.Item](items, client.UpdateItemOrder, app.logger())
			sync.Lift(id)
			if err := sync.Drop(cmd.Context(), overID); err != nil {
				return writeErr(cmd, errCommitFailed("item", err))
			}
			return writeOut(cmd, app, map[string]any{"data": sync.List()})
		},
	}
	cmd.Flags().Int64Var(&categoryID, "category", 0, "Category id")
	cmd.Flags().Int64Var(&overID, "over", 0, "Target item id whose position the moved one takes")
	return cmd
}
