// Package identity carries the current user through a request or CLI
// session and verifies the bearer tokens that establish it.
package identity

import (
	"context"
	"strings"
)

// User is the authenticated caller.
type User struct {
	ID    string
	Email string
}

// Provider resolves the current user, reporting false when nobody is signed in.
type Provider interface {
	CurrentUser(ctx context.Context) (User, bool)
}

type userContextKey struct{}

// WithUser stores u in ctx.
func WithUser(ctx context.Context, u User) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, userContextKey{}, u)
}

// FromContext returns the user stored in ctx. A user with a blank id counts
// as absent.
func FromContext(ctx context.Context) (User, bool) {
	if ctx == nil {
		return User{}, false
	}
	u, ok := ctx.Value(userContextKey{}).(User)
	if !ok || strings.TrimSpace(u.ID) == "" {
		return User{}, false
	}
	return u, true
}

// ContextProvider reads the user placed in the context by WithUser.
type ContextProvider struct{}

func (ContextProvider) CurrentUser(ctx context.Context) (User, bool) {
	return FromContext(ctx)
}

// Static always reports the same user; an empty id means signed out.
type Static User

func (s Static) CurrentUser(context.Context) (User, bool) {
	if strings.TrimSpace(s.ID) == "" {
		return User{}, false
	}
	return User(s), true
}
