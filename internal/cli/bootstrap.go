// Package cli provides CLI commands for the shiptrack application.
package cli

import (
	gocontext "context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	coreerrors "github.com/example/shiptrack/internal/core/errors"
	"github.com/example/shiptrack/internal/core/policy"
	"github.com/example/shiptrack/internal/ctxutil"
	"github.com/example/shiptrack/internal/ports/primary"
	"github.com/example/shiptrack/internal/wire"
)

// capabilityAnnotation names the cobra annotation holding the capability a
// command requires.
const capabilityAnnotation = "shiptrack/capability"

// globalSession stores the session resolved for the current CLI invocation.
// Set once at startup by Authorize.
var globalSession *primary.Session

// requires annotates cmd with the capability it needs and returns it.
func requires(capability policy.Capability, cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[capabilityAnnotation] = string(capability)
	return cmd
}

// Authorize resolves the logged-in session and checks the capability the
// command declares. Commands without one run without a session check.
// It is the root command's PersistentPreRunE.
func Authorize(cmd *cobra.Command, args []string) error {
	capability := cmd.Annotations[capabilityAnnotation]
	if capability == "" {
		if sess, err := wire.AuthService().CurrentSession(gocontext.Background()); err == nil {
			globalSession = sess
		}
		return nil
	}

	sess, err := wire.AuthService().Authorize(gocontext.Background(), capability)
	switch {
	case errors.Is(err, coreerrors.ErrNotLoggedIn):
		return fmt.Errorf("%w\nHint: run 'shiptrack login admin' or 'shiptrack login user'", err)
	case err != nil:
		return err
	}
	globalSession = sess
	return nil
}

// NewContext creates a context.Background() with the logged-in operator
// embedded. CLI commands should use this instead of context.Background()
// directly.
func NewContext() gocontext.Context {
	ctx := gocontext.Background()
	if globalSession != nil {
		return ctxutil.WithActor(ctx, globalSession.Username, globalSession.Role)
	}
	return ctx
}

// isAdmin reports whether the session may see every operator's records.
func isAdmin() bool {
	return globalSession != nil && policy.Can(policy.Role(globalSession.Role), policy.CapViewAdmin)
}

// Shutdown releases wired resources. Call once after the root command returns.
func Shutdown() {
	wire.Close()
}
