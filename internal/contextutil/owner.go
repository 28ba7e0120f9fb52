package contextutil

import "context"

const ownerKey contextKey = "owner"

// OwnerFromContext returns the owner ID stored by the owner middleware, or "".
func OwnerFromContext(ctx context.Context) string {
	if owner, ok := ctx.Value(ownerKey).(string); ok {
		return owner
	}
	return ""
}

// OwnerKey returns the context key used for storing the owner ID in context.
func OwnerKey() contextKey {
	return ownerKey
}
