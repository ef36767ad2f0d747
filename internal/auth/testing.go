package auth

import "context"

// WithTestUserID returns a context carrying userID as if the request had
// already cleared the auth middleware. Handler tests use it to skip token
// minting.
func WithTestUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
