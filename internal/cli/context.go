package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sactel/admin-console/internal/console"
	"github.com/sactel/admin-console/internal/core/domain"
)

type contextKey string

const appKey contextKey = "sactel-console-app"

func withApp(ctx context.Context, app *console.App) context.Context {
	return context.WithValue(ctx, appKey, app)
}

// appFrom returns the App injected by the root command.
func appFrom(cmd *cobra.Command) *console.App {
	app, ok := cmd.Context().Value(appKey).(*console.App)
	if !ok {
		panic("console: app not found in context - this is a bug in the console")
	}
	return app
}

var errNotSignedIn = errors.New(`not signed in; run "console login"`)

func requireSession(app *console.App) error {
	if !app.Session.Current().Authenticated() {
		return errNotSignedIn
	}
	return nil
}

// requireRole gates a command on the current user's role.
func requireRole(app *console.App, roles ...domain.Role) error {
	if err := requireSession(app); err != nil {
		return err
	}
	if app.Session.HasRole(roles...) {
		return nil
	}
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return fmt.Errorf("permission denied: requires role %s", strings.Join(names, " or "))
}
