package auth

import (
	"context"
	"errors"
)

// UserContext carries the authenticated caller through the request context
type UserContext struct {
	UserID string
	Email  string
	Roles  []string
}

type contextKey string

const userContextKey contextKey = "user_context"

// ErrNoUserInContext is returned when no authenticated user is present
var ErrNoUserInContext = errors.New("no user in context")

// SetUserInContext stores the user context on the request context
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext retrieves the authenticated user from the context
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, ErrNoUserInContext
	}
	return user, nil
}

// IsPrivileged reports whether the caller holds the admin role
func (u *UserContext) IsPrivileged() bool {
	for _, r := range u.Roles {
		if r == "admin" {
			return true
		}
	}
	return false
}
