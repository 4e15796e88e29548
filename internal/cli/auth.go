package cli

import (
	"errors"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sactel/admin-console/internal/core/domain"
)

var errLoginFailed = errors.New("login failed: check the credentials or the auth service")

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:         "login",
		Short:       "Sign in and keep the session for later runs",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSession: "replace"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)

			var err error
			if strings.TrimSpace(email) == "" {
				if email, err = pterm.DefaultInteractiveTextInput.Show("Email"); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password"); err != nil {
					return err
				}
			}

			if !app.Session.Login(cmd.Context(), strings.TrimSpace(email), password) {
				return errLoginFailed
			}

			out := outputOf(cmd)
			snap := app.Session.Current()
			out.success("Signed in as %s <%s> (%s)", snap.Identity.Nombre, snap.Identity.Email, snap.Identity.Role)
			if snap.Source == domain.SourceFallback {
				out.warning("Auth service unreachable: signed in with local credentials, data requests carry no token")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email (prompted when empty)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when empty)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "logout",
		Short:       "Forget the stored session",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSession: "replace"},
		RunE: func(cmd *cobra.Command, args []string) error {
			appFrom(cmd).Session.Logout(cmd.Context())
			outputOf(cmd).success("Signed out")
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd)
			out := outputOf(cmd)
			snap := app.Session.Current()
			if !snap.Authenticated() {
				out.info("Not signed in")
				return nil
			}

			token := "no"
			if app.Session.Token() != "" {
				token = "yes"
			}
			return out.table([][]string{
				{"Email", snap.Identity.Email},
				{"Name", snap.Identity.Nombre},
				{"Role", string(snap.Identity.Role)},
				{"Source", string(snap.Source)},
				{"Profile", app.Config.Profile},
				{"Token", token},
			}, false)
		},
	}
}
