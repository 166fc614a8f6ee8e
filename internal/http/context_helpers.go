package httpx

import (
	"context"

	domainauth "github.com/target/crewboard/internal/domain/auth"
)

type sessionKey struct{}

// withSession attaches the session Identity resolved for the request.
func withSession(ctx context.Context, s domainauth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session Identity attached to ctx.
func SessionFrom(ctx context.Context) (domainauth.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(domainauth.Session)
	return s, ok
}
