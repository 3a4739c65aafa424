// Package ctxkeys holds the shared context keys for the API layer. A leaf
// package so api, middleware, and handlers can share keys without import
// cycles.
package ctxkeys

import "context"

// Key is the unexported named type for all API context keys. context.Value
// compares type and value, so a named type cannot collide with plain string
// keys from other packages.
type Key string

// Subject is the authenticated operator subject, injected by the auth
// middleware from JWT claims.
const Subject Key = "subject"

// WithValue adds a ctxkeys.Key value to the context.
func WithValue(ctx context.Context, key Key, value string) context.Context {
	return context.WithValue(ctx, key, value)
}

// Value reads a ctxkeys.Key string value from the context.
func Value(ctx context.Context, key Key) (string, bool) {
	v, ok := ctx.Value(key).(string)
	return v, ok
}
