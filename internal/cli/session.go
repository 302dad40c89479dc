package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/shiptrack/internal/wire"
)

// LoginCmd returns the login command
func LoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "login <admin|user>",
		Short:     "Log in as one of the demo users",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"admin", "user"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SessionAdapter().Login(NewContext(), args[0])
		},
	}
}

// LogoutCmd returns the logout command
func LogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SessionAdapter().Logout(NewContext())
		},
	}
}

// WhoAmICmd returns the whoami command
func WhoAmICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user and their capabilities",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SessionAdapter().WhoAmI(NewContext())
		},
	}
}
