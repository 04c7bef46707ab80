package api

import (
	"context"

	"github.com/terra-clan/nebula-guide/internal/session"
)

type contextKey string

const sessionContextKey contextKey = "wizard_session"

// SessionFromContext extracts the wizard session loaded for the request
func SessionFromContext(ctx context.Context) *session.Session {
	s, ok := ctx.Value(sessionContextKey).(*session.Session)
	if !ok {
		return nil
	}
	return s
}

// ContextWithSession adds a wizard session to context
func ContextWithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}
