// Package cli is the cobra command tree of the sactel console.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sactel/admin-console/internal/console"
	"github.com/sactel/admin-console/internal/pkg/config"
	"github.com/sactel/admin-console/pkg/logger"
)

// annotationSession marks commands that replace or drop the stored session
// and so skip its restore, which would revalidate the token remotely.
const annotationSession = "session"

type rootOptions struct {
	dataURL string
	authURL string
	timeout time.Duration
	profile string

	app *console.App
}

func (o *rootOptions) close() {
	if o.app != nil {
		o.app.Close()
		o.app = nil
	}
}

// Execute runs the console and exits non-zero on failure.
func Execute() {
	if err := Run(context.Background(), os.Args[1:]); err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(err)
		os.Exit(1)
	}
}

// Run executes the command line args against a fresh command tree.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdin, os.Stdout)
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	o := &rootOptions{}
	defer o.close()

	cmd := newRootCmd(o)
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(out)
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "console",
		Short: "sactel accounting console",
		Long: `console is the command-line client of the sactel accounting backend.
Sign in with "console login", then browse the dashboard, rooms, invoices and
ledger movements. The session is kept between runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.LoadConsole(ctx)
			if err != nil {
				return err
			}
			if err := o.apply(cmd, cfg); err != nil {
				return err
			}

			log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Service: "console"})
			app, err := console.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			o.app = app
			if cmd.Annotations[annotationSession] != "replace" {
				app.Start(ctx)
			}

			cmd.SetContext(withApp(ctx, app))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&o.dataURL, "data-url", "", "Data service base URL (overrides CONSOLE_DATA_URL)")
	cmd.PersistentFlags().StringVar(&o.authURL, "auth-url", "", "Auth service base URL (overrides CONSOLE_AUTH_URL)")
	cmd.PersistentFlags().DurationVar(&o.timeout, "timeout", 0, "Per-request timeout (overrides CONSOLE_REQUEST_TIMEOUT)")
	cmd.PersistentFlags().StringVar(&o.profile, "profile", "", "Session profile name (overrides CONSOLE_PROFILE)")

	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newDashboardCmd())
	cmd.AddCommand(newRoomsCmd())
	cmd.AddCommand(newInvoicesCmd())
	cmd.AddCommand(newTransactionsCmd())
	cmd.AddCommand(newUsersCmd())
	cmd.AddCommand(newActivityCmd())

	return cmd
}

// apply lets explicit flags win over the environment.
func (o *rootOptions) apply(cmd *cobra.Command, cfg *config.ConsoleConfig) error {
	flags := cmd.Flags()
	if flags.Changed("data-url") {
		cfg.DataURL = o.dataURL
	}
	if flags.Changed("auth-url") {
		cfg.AuthURL = o.authURL
	}
	if flags.Changed("profile") {
		cfg.Profile = o.profile
	}
	if flags.Changed("timeout") {
		if o.timeout <= 0 {
			return fmt.Errorf("--timeout must be positive")
		}
		cfg.RequestTimeout = o.timeout
	}
	return nil
}
