package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"menucli/internal/api"
	"menucli/internal/menu"
	"menucli/internal/menucache"
)

func newMenuCmd(app *App) *cobra.Command {
	var filter string
	var raw bool
	var style string
	var width int
	cmd := &cobra.Command{
		Use:   "menu <store-id>",
		Short: "Browse a store's menu (storefront view)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storeID := args[0]
			client, _, _, err := newSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			cache := menucache.Cache{}
			snap, fetchErr := fetchMenu(cmd.Context(), client, storeID)
			if fetchErr == nil {
				if err := cache.Save(cmd.Context(), *snap); err != nil {
					app.logger().Warn("menu cache write failed: " + err.Error())
				}
			} else {
				cached, cacheErr := cache.Load(cmd.Context(), storeID)
				if cacheErr != nil {
					return writeErr(cmd, fetchErr)
				}
				snap = cached
				fmt.Fprintf(cmd.ErrOrStderr(), "backend unreachable; showing menu cached at %s\n",
					snap.FetchedAt.Local().Format("2006-01-02 15:04"))
			}

			cats := menu.Filter(snap.Categories, filter)
			md := menu.Markdown(snap.Store, cats)
			if raw {
				fmt.Fprint(cmd.OutOrStdout(), md)
				return nil
			}
			rendered, err := menu.Render(md, style, width)
			if err != nil {
				return writeErr(cmd, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "Only show items matching this text")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print plain markdown instead of rendering")
	cmd.Flags().StringVar(&style, "style", "auto", "Render style (auto|dark|light)")
	cmd.Flags().IntVar(&width, "width", 80, "Render width")
	return cmd
}

// fetchMenu pulls the store plus its full category/item tree.
func fetchMenu(ctx context.Context, client *api.Client, storeID string) (*menucache.Snapshot, error) {
	st, err := client.Store(ctx, storeID)
	if err != nil {
		return nil, err
	}
	cats, err := client.Categories(ctx, storeID)
	if err != nil {
		return nil, err
	}
	for i := range cats {
		items, err := client.ItemsByCategory(ctx, cats[i].ID)
		if err != nil {
			return nil, err
		}
		cats[i].Items = items
	}
	return &menucache.Snapshot{
		Store:      *st,
		Categories: cats,
		FetchedAt:  time.Now(),
	}, nil
}
