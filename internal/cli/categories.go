package cli

import (
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"menucli/internal/model"
	"menucli/internal/orderedlist"
)

func newCategoriesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List and reorder a store's categories",
	}
	cmd.AddCommand(newCategoriesListCmd(app))
	cmd.AddCommand(newCategoriesMoveCmd(app))
	return cmd
}

func newCategoriesListCmd(app *App) *cobra.Command {
	var storeID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if storeID == "" {
				return writeErr(cmd, errors.New("missing --store"))
			}
			client, _, _, err := newSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			cats, err := client.Categories(cmd.Context(), storeID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cats})
		},
	}
	cmd.Flags().StringVar(&storeID, "store", "", "Store id")
	return cmd
}

// newCategoriesMoveCmd replays a drag gesture from the command line: the
// moved category takes the position of --over, the change applies locally
// first, and the server's ack re-sorts the final order.
func newCategoriesMoveCmd(app *App) *cobra.Command {
	var storeID string
	var overID int64
	cmd := &cobra.Command{
		Use:   "move <category-id>",
		Short: "Move a category onto another category's position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return writeErr(cmd, errors.New("category id must be a number"))
			}
			if storeID == "" {
				return writeErr(cmd, errors.New("missing --store"))
			}
			if overID == 0 {
				return writeErr(cmd, errors.New("missing --over"))
			}

			client, _, _, err := newSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			cats, err := client.Categories(cmd.Context(), storeID)
			if err != nil {
				return writeErr(cmd, err)
			}
			if orderedlist.IndexOf(cats, id) < 0 {
				return writeErr(cmd, errNotFound("category", args[0]))
			}
			if orderedlist.IndexOf(cats, overID) < 0 {
				return writeErr(cmd, errNotFound("category", strconv.FormatInt(overID, 10)))
			}

			sync := orderedlist.NewSynchronizer[model.Category](cats, client.UpdateCategoryOrder, app.logger())
			sync.Lift(id)
			if err := sync.Drop(cmd.Context(), overID); err != nil {
				// Optimistic order is kept; report the failed confirmation.
				return writeErr(cmd, errCommitFailed("category", err))
			}
			return writeOut(cmd, app, map[string]any{"data": sync.List()})
		},
	}
	cmd.Flags().StringVar(&storeID, "store", "", "Store id")
	cmd.Flags().Int64Var(&overID, "over", 0, "Target category id whose position the moved one takes")
	return cmd
}
