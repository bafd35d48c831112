package httputil

import (
	"context"
	"net/http"
)

type contextKey string

const (
	userIDKey   contextKey = "userID"
	clientIDKey contextKey = "clientID"
)

// WithUserID adds the authenticated user to the request context
func WithUserID(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	return r.WithContext(ctx)
}

// GetUserID retrieves userID from context, returns empty string if not found
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}

// WithClientID records which collaboration connection issued the request
func WithClientID(r *http.Request, clientID string) *http.Request {
	ctx := context.WithValue(r.Context(), clientIDKey, clientID)
	return r.WithContext(ctx)
}

// GetClientID returns the originating client ID, or ""
func GetClientID(r *http.Request) string {
	clientID, _ := r.Context().Value(clientIDKey).(string)
	return clientID
}
