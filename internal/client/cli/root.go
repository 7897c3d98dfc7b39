package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) getStatus() string {
	var parts []string
	if a.isLoggedIn() {
		if sub := a.session.Subject(); sub != "" {
			parts = append(parts, sub)
		}
		if a.ledger.Known() {
			parts = append(parts, fmt.Sprintf("%d tokens", a.ledger.Balance()))
		}
	}
	if a.Mode != "" {
		parts = append(parts, string(a.Mode))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Root prints the banner, checks connectivity and runs the REPL until the
// user exits.
func (a *App) Root(ctx context.Context) {
	a.println("Welcome to recipekeeper (type 'help' for commands)")

	a.checkOnline(ctx)
	if a.Mode == ModeOffline {
		a.printf("Backend %s is not reachable; cached recipes are still available after login.\n", a.config.BackendURL)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
