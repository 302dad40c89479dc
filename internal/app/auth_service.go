package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	coreerrors "github.com/example/shiptrack/internal/core/errors"
	"github.com/example/shiptrack/internal/core/policy"
	"github.com/example/shiptrack/internal/ports/primary"
	"github.com/example/shiptrack/internal/ports/secondary"
)

// demoUsers are the only accounts the login switch accepts. There is no
// password: this is a role toggle, not authentication.
var demoUsers = map[string]policy.Role{
	"admin": policy.RoleAdmin,
	"user":  policy.RoleUser,
}

// session is the auth document persisted under the auth key.
type session struct {
	Username   string `json:"username"`
	Role       string `json:"role"`
	LoggedInAt string `json:"loggedInAt"`
}

// AuthServiceImpl implements the AuthService interface.
type AuthServiceImpl struct {
	stateRepo secondary.StateRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService creates a new AuthService with injected dependencies.
func NewAuthService(stateRepo secondary.StateRepository, logger *zap.Logger) *AuthServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthServiceImpl{
		stateRepo: stateRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// Login starts a session for one of the demo users.
func (s *AuthServiceImpl) Login(ctx context.Context, username string) (*primary.Session, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	role, ok := demoUsers[username]
	if !ok {
		s.logger.Warn("login refused", zap.String("username", username))
		return nil, fmt.Errorf("%w: %q (want admin or user)", coreerrors.ErrUnknownUser, username)
	}

	sess := session{
		Username:   username,
		Role:       string(role),
		LoggedInAt: s.now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.stateRepo.Save(ctx, secondary.StateKeyAuth, data); err != nil {
		return nil, err
	}

	s.logger.Info("logged in", zap.String("username", username), zap.String("role", string(role)))
	return toPrimarySession(sess), nil
}

// Logout ends the current session.
func (s *AuthServiceImpl) Logout(ctx context.Context) error {
	if err := s.stateRepo.Delete(ctx, secondary.StateKeyAuth); err != nil {
		return err
	}
	s.logger.Info("logged out")
	return nil
}

// CurrentSession returns the logged-in session.
func (s *AuthServiceImpl) CurrentSession(ctx context.Context) (*primary.Session, error) {
	data, found, err := s.stateRepo.Load(ctx, secondary.StateKeyAuth)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, coreerrors.ErrNotLoggedIn
	}

	var sess session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if _, ok := demoUsers[sess.Username]; !ok {
		return nil, coreerrors.ErrNotLoggedIn
	}
	return toPrimarySession(sess), nil
}

// Authorize returns the current session if its role holds capability.
func (s *AuthServiceImpl) Authorize(ctx context.Context, capability string) (*primary.Session, error) {
	sess, err := s.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}
	if !policy.Can(policy.Role(sess.Role), policy.Capability(capability)) {
		s.logger.Warn("capability denied", zap.String("username", sess.Username), zap.String("capability", capability))
		return nil, fmt.Errorf("%w: %s cannot %s", coreerrors.ErrForbidden, sess.Role, capability)
	}
	return sess, nil
}

func toPrimarySession(sess session) *primary.Session {
	caps := policy.Capabilities(policy.Role(sess.Role))
	names := make([]string, len(caps))
	for i, c := range caps {
		names[i] = string(c)
	}
	return &primary.Session{
		Username:     sess.Username,
		Role:         sess.Role,
		LoggedInAt:   sess.LoggedInAt,
		Capabilities: names,
	}
}

// Ensure AuthServiceImpl implements the interface
var _ primary.AuthService = (*AuthServiceImpl)(nil)
