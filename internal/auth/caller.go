package auth

import "context"

// Caller is the authenticated account behind a request.
type Caller struct {
	AccountID int
	Email     string
	IsStaff   bool

	// set only when authenticated with a session token
	SessionToken string
}

type callerCtxKey struct{}

func WithCaller(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, callerCtxKey{}, caller)
}

func CallerFromContext(ctx context.Context) (*Caller, bool) {
	caller, ok := ctx.Value(callerCtxKey{}).(*Caller)
	return caller, ok && caller != nil
}
