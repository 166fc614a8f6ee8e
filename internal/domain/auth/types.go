package auth

// Package auth contains domain-level types for request identity and sessions.
// It is pure and free of framework/adapter concerns.

// Role represents a user's real application role, as decided upstream.
// Keep string form for easy persistence and headers.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Valid reports whether the role is one of the known constants.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	default:
		return false
	}
}

// Identity represents the authenticated principal forwarded by the upstream proxy.
type Identity struct {
	UserID string
	Groups []string
}

// Session is the per-browser record the server keys view modes by.
// ID is an opaque identifier carried in a cookie.
type Session struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// IsAdmin reports whether the session belongs to an administrator.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

// CanSimulateManager reports whether the session may preview the manager view.
// Only administrators have a broader view to restrict.
func (s Session) CanSimulateManager() bool { return s.Role == RoleAdmin }
