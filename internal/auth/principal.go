package auth

import "context"

// Role is the user_type claim.
type Role string

const (
	RoleUser      Role = "user"
	RoleTradesman Role = "tradesman"
)

// Principal is the authenticated caller.
type Principal struct {
	ID    int64
	Email string
	Role  Role
}

func (p Principal) IsUser() bool      { return p.Role == RoleUser }
func (p Principal) IsTradesman() bool { return p.Role == RoleTradesman }

type ctxKey struct{}

// WithPrincipal attaches p to ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the principal attached by Authenticate, if any.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}
