package handler

import (
	"context"
	"net/http"

	"github.com/bookbuddy/api/data"
)

// contextKey is a custom key type to prevent collisions with context
// values set by external packages.
type contextKey string

const userContextKey = contextKey("user")

// contextSetUser returns a copy of the request with the given user
// added to its context.
func (h *Handler) contextSetUser(r *http.Request, user *data.User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

// contextGetUser retrieves the user from the request context. The
// authenticate middleware always sets one, so a missing value is a
// programming error.
func (h *Handler) contextGetUser(r *http.Request) *data.User {
	user, ok := r.Context().Value(userContextKey).(*data.User)
	if !ok {
		panic("missing user value in request context")
	}
	return user
}
