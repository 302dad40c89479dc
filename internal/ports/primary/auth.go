package primary

import "context"

// AuthService defines the primary port for the demo login switch.
type AuthService interface {
	// Login starts a session for one of the demo users.
	Login(ctx context.Context, username string) (*Session, error)

	// Logout ends the current session.
	Logout(ctx context.Context) error

	// CurrentSession returns the logged-in session.
	CurrentSession(ctx context.Context) (*Session, error)

	// Authorize returns the current session if its role holds capability.
	Authorize(ctx context.Context, capability string) (*Session, error)
}

// Session represents the logged-in operator.
type Session struct {
	Username     string
	Role         string
	LoggedInAt   string
	Capabilities []string
}
