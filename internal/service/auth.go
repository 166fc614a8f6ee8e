package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	domainauth "github.com/target/crewboard/internal/domain/auth"
	apperrors "github.com/target/crewboard/internal/errors"
	"github.com/target/crewboard/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Roles  ports.RoleMapper
	Logger *slog.Logger
}

// AuthService turns the identity forwarded by the upstream proxy into a
// browsing session. It makes no authentication decisions of its own.
type AuthService struct {
	roles  ports.RoleMapper
	logger *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{roles: opts.Roles, logger: logger.With("component", "auth_service")}
}

// ResolveSessionInput groups parameters for ResolveSession.
type ResolveSessionInput struct {
	Identity domainauth.Identity
	// SessionID is the id carried by the browser, if any.
	SessionID string
}

// ResolveSession maps the identity's groups to a role and attaches a session
// id, minting a new one when the browser has none or an unparsable one.
func (s *AuthService) ResolveSession(ctx context.Context, in ResolveSessionInput) (domainauth.Session, error) {
	userID := strings.TrimSpace(in.Identity.UserID)
	if userID == "" {
		return domainauth.Session{}, apperrors.Unauthorized("missing user identity")
	}

	role := domainauth.RoleEmployee
	if s.roles != nil {
		role = s.roles.Map(in.Identity.Groups)
	}

	sessionID := in.SessionID
	if _, err := uuid.Parse(sessionID); err != nil {
		sessionID = uuid.NewString()
		s.logger.DebugContext(ctx, "issued session", "user_id", userID, "role", role)
	}

	return domainauth.Session{ID: sessionID, UserID: userID, Role: role}, nil
}
