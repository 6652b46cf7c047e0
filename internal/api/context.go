package api

import (
	"context"

	"shopauth/internal/session"
)

type ctxKey string

const ctxKeySession ctxKey = "session"

func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, ctxKeySession, s)
}

func SessionFromContext(ctx context.Context) *session.Session {
	s, _ := ctx.Value(ctxKeySession).(*session.Session)
	return s
}
