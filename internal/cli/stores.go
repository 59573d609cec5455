package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"menucli/internal/api"
	"menucli/internal/model"
)

func newStoresCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stores",
		Short: "Inspect and manage a store",
	}
	cmd.AddCommand(newStoresShowCmd(app))
	cmd.AddCommand(newStoresEditCmd(app))
	cmd.AddCommand(newStoresStatusCmd(app))
	cmd.AddCommand(newStoresImagesCmd(app))
	return cmd
}

func newStoresShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <store-id>",
		Short: "Show a store's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, _, err := newSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := client.Store(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": st})
		},
	}
}

func newStoresEditCmd(app *App) *cobra.Command {
	var name, address, instagram, ifood, slug string
	cmd := &cobra.Command{
		Use:   "edit <store-id>",
		Short: "Edit a store's name, address, links or slug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var upd api.StoreUpdate
			// Changed, not non-empty: --address "" clears the field.
			for _, f := range []struct {
				flag string
				val  *string
				dst  **string
			}{
				{"name", &name, &upd.Name},
				{"address", &address, &upd.Address},
				{"instagram", &instagram, &upd.InstagramURL},
				{"ifood", &ifood, &upd.IfoodURL},
				{"slug", &slug, &upd.Slug},
			} {
				if cmd.Flags().Changed(f.flag) {
					*f.dst = f.val
				}
			}
			if upd == (api.StoreUpdate{}) {
				return writeErr(cmd, errors.New("provide at least one of --name, --address, --instagram, --ifood, --slug"))
			}
			client, _, _, err := newSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := client.UpdateStore(cmd.Context(), args[0], upd)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": st})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Store display name")
	cmd.Flags().StringVar(&address, "address", "", "Street address")
	cmd.Flags().StringVar(&instagram, "instagram", "", "Instagram profile URL")
	cmd.Flags().StringVar(&ifood, "ifood", "", "iFood page URL")
	cmd.Flags().StringVar(&slug, "slug", "", "Public storefront slug")
	return cmd
}

func newStoresStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status <store-id> <open|closed|maintenance>",
		Short: "Change a store's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := model.StoreStatus(args[1])
			if !status.Valid() {
				return writeErr(cmd, errors.New("status must be one of: open, closed, maintenance"))
			}
			client, _, _, err := newSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := client.UpdateStoreStatus(cmd.Context(), args[0], status)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": st})
		},
	}
}

func newStoresImagesCmd(app *App) *cobra.Command {
	var bannerPath string
	var photoPath string
	cmd := &cobra.Command{
		Use:   "images <store-id>",
		Short: "Upload a new banner and/or logo image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if bannerPath == "" && photoPath == "" {
				return writeErr(cmd, errors.New("provide --banner and/or --photo"))
			}
			client, _, _, err := newSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			var uploads []api.ImageUpload
			for _, spec := range []struct {
				field, path string
			}{
				{"banner", bannerPath},
				{"photo", photoPath},
			} {
				if spec.path == "" {
					continue
				}
				f, err := os.Open(spec.path)
				if err != nil {
					return writeErr(cmd, err)
				}
				defer f.Close()
				uploads = append(uploads, api.ImageUpload{Field: spec.field, Name: spec.path, Data: f})
			}

			st, err := client.UpdateStoreImages(cmd.Context(), args[0], uploads)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": st})
		},
	}
	cmd.Flags().StringVar(&bannerPath, "banner", "", "Banner image file")
	cmd.Flags().StringVar(&photoPath, "photo", "", "Logo image file")
	return cmd
}
