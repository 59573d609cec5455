package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"menucli/internal/api"
	"menucli/internal/config"
	"menucli/internal/format"
	"menucli/internal/session"
	"menucli/internal/state"
	"menucli/internal/tui"
)

type App struct {
	APIURL     string
	PrettyJSON bool
	Format     string
	Verbose    bool

	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "menucli",
		Short:        "Digital-menu storefront + back-office console",
		SilenceUsage: true,
		Example: `
  # Interactive console (storefront + management)
  menucli

  # Browse a store's menu in the terminal
  menucli menu <store-id>

  # Scriptable management commands
  menucli login --email you@example.com
  menucli categories move 3 --over 1 --store <store-id>`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// The TUI owns the screen; logging stays quiet there.
		if cmd == cmd.Root() && len(args) == 0 {
			app.log = zap.NewNop()
			return nil
		}
		logCfg := zap.NewProductionConfig()
		logCfg.OutputPaths = []string{"stderr"}
		if app.Verbose {
			logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			logCfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		log, err := logCfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		app.log = log
		return nil
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if app.log != nil {
			_ = app.log.Sync()
		}
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", envOr("MENUCLI_API_URL", ""), "Backend base URL (default: config, then http://localhost:3333)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("MENUCLI_FORMAT", "json"), "Output format (json|text)")
	cmd.PersistentFlags().BoolVar(&app.Verbose, "verbose", false, "Debug logging to stderr")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newStoresCmd(app))
	cmd.AddCommand(newCategoriesCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newMenuCmd(app))

	return cmd
}

func runTUI(app *App) error {
	apiURL, err := config.ResolveAPIURL(app.APIURL)
	if err != nil {
		return err
	}
	return tui.Run(apiURL)
}

// newSession builds the API client, state container and session manager the
// non-interactive commands share.
func newSession(app *App) (*api.Client, *session.Manager, *state.Container, error) {
	apiURL, err := config.ResolveAPIURL(app.APIURL)
	if err != nil {
		return nil, nil, nil, err
	}
	client := api.NewClient(apiURL, api.WithLogger(app.logger()))
	container := state.NewContainer()
	mgr := session.NewManager(client, container, session.CredentialFile{}, state.Persistor{},
		session.WithLogger(app.logger()))
	return client, mgr, container, nil
}

func (a *App) logger() *zap.Logger {
	if a.log == nil {
		return zap.NewNop()
	}
	return a.log
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
