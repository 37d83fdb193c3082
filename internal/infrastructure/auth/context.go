package auth

import "context"

type contextKey string

const claimsKey contextKey = "auth_claims"

// WithClaims attaches validated claims to the context. The JWT middleware is
// the only writer.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the validated claims, or nil for an
// unauthenticated context.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey).(*Claims)
	return claims
}

// RolesFromContext returns the roles of the authenticated actor. Empty for an
// unauthenticated context.
func RolesFromContext(ctx context.Context) []string {
	if claims := ClaimsFromContext(ctx); claims != nil {
		return claims.Roles
	}
	return nil
}
