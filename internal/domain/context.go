// Package domain provides the order lifecycle types, the state machine, the
// store and collaborator interfaces, and the error taxonomy for Stitchwork.
package domain

import "context"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	principalContextKey contextKey = iota
)

// Role values carried by the identity token.
const (
	RoleCustomer = "customer"
	RoleDesigner = "designer"
	RoleAdmin    = "admin"
)

// Principal is the verified caller. UserID is opaque and issued by the identity subsystem.
type Principal struct {
	UserID string
	Role   string
}

// NewContextWithPrincipal returns a new context with the principal attached.
func NewContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// PrincipalFromContext retrieves the principal from context.
// Returns nil if no principal is present.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey).(*Principal)
	return p
}

// UserIDFromContext returns the caller's user id, or "" when unauthenticated.
func UserIDFromContext(ctx context.Context) string {
	if p := PrincipalFromContext(ctx); p != nil {
		return p.UserID
	}
	return ""
}

// IsAdmin returns true if the caller holds the admin role.
func IsAdmin(ctx context.Context) bool {
	p := PrincipalFromContext(ctx)
	return p != nil && p.Role == RoleAdmin
}
