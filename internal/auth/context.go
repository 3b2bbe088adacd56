package auth

import "context"

type contextKey string

const (
	contextKeySubject contextKey = "auth.subject"
	contextKeyScopes  contextKey = "auth.scopes"
)

// WithIdentity stores auth identity details in context.
func WithIdentity(ctx context.Context, subject string, scopes []Scope) context.Context {
	ctx = context.WithValue(ctx, contextKeySubject, subject)
	ctx = context.WithValue(ctx, contextKeyScopes, scopes)
	return ctx
}

// SubjectFromContext extracts subject from context.
func SubjectFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if subject, ok := ctx.Value(contextKeySubject).(string); ok {
		return subject
	}
	return ""
}

// ScopesFromContext extracts granted scopes from context.
func ScopesFromContext(ctx context.Context) []Scope {
	if ctx == nil {
		return nil
	}
	if scopes, ok := ctx.Value(contextKeyScopes).([]Scope); ok {
		return scopes
	}
	return nil
}
