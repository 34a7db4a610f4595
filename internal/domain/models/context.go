package models

import "context"

type claimsKeyStruct struct{}

var claimsKey = &claimsKeyStruct{}

// WithClaims attaches the decoded access-token claims to the request context.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the decoded access-token claims, or nil if the
// request did not pass the access guard.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	if !ok {
		return nil
	}
	return claims
}
