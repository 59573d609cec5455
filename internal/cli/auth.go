package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"menucli/internal/session"
)

func newLoginCmd(app *App) *cobra.Command {
	var email string
	var password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the backend and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, mgr, _, err := newSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(email) == "" {
				return writeErr(cmd, errors.New("missing --email"))
			}
			if password == "" {
				password = os.Getenv("MENUCLI_PASSWORD")
			}
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil {
					return writeErr(cmd, err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			user, err := mgr.Login(cmd.Context(), email, password, false)
			if err != nil {
				var loginErr *session.LoginError
				if errors.As(err, &loginErr) && loginErr.InvalidCredentials {
					return writeErr(cmd, errors.New("invalid email or password"))
				}
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": user})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompts if omitted; MENUCLI_PASSWORD also works)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session (server best-effort, local always)",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, mgr, _, err := newSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			// Hydrate state so the server notification fires when a user
			// is actually logged in.
			_, _ = mgr.Verify(cmd.Context(), session.VerifyOptions{})
			if err := mgr.Logout(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": "logged out"})
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Verify the stored session and print the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, mgr, container, err := newSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ok, err := mgr.Verify(cmd.Context(), session.VerifyOptions{})
			if err != nil {
				return writeErr(cmd, err)
			}
			if !ok {
				return writeErr(cmd, errors.New("not logged in"))
			}
			return writeOut(cmd, app, map[string]any{"data": container.User()})
		},
	}
}
