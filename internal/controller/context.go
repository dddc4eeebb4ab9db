package controller

import "context"

type contextKey int

const (
	connectionIdCtxKey contextKey = iota
	usernameCtxKey
)

func (c controller) getConnectionIdFromCtx(ctx context.Context) string {
	connectionId, ok := ctx.Value(connectionIdCtxKey).(string)
	if !ok {
		return ""
	}

	return connectionId
}

// getUsernameFromCtx returns the username of a token presented at upgrade,
// or "" for anonymous connections.
func (c controller) getUsernameFromCtx(ctx context.Context) string {
	username, ok := ctx.Value(usernameCtxKey).(string)
	if !ok {
		return ""
	}

	return username
}
