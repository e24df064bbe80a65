package middlewares

import (
	"context"
	"net/http"
)

// Middleware wraps an http.Handler with extra behaviour
type Middleware interface {
	Handle(next http.Handler) http.Handler
}

type contextKey string

const (
	requestIDContextKey contextKey = "request_id"
	subjectContextKey   contextKey = "subject"
	roleContextKey      contextKey = "role"
)

// GetRequestIDFromContext returns the id assigned to the request by RequestIDMiddleware
func GetRequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey).(string)
	return id, ok
}

// GetSubjectFromContext returns the token subject of an authorized request
func GetSubjectFromContext(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(subjectContextKey).(string)
	return sub, ok
}

// GetRoleFromContext returns the role of an authorized request
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleContextKey).(string)
	return role, ok
}
