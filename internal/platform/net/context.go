// Package net provides utilities for working with request contexts
package net

import (
	"context"

	"atelier/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const (
	keyUserID ctxKey = "user_id"
	keyRole   ctxKey = "role"
)

// WithRequest annotates context with the request id so chi and the logger both see it
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	return logger.WithRequest(ctx, reqID, "")
}

// WithUser annotates context with the authenticated user id and the role claimed by the token
// the role is a hint for logging only; admin gates re-read it from the user store
func WithUser(ctx context.Context, userID, role string) context.Context {
	if userID == "" {
		return ctx
	}
	ctx = context.WithValue(ctx, keyUserID, userID)
	if role != "" {
		ctx = context.WithValue(ctx, keyRole, role)
	}
	return logger.WithRole(logger.WithRequest(ctx, RequestID(ctx), userID), role)
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// UserID returns the user id on the context if present
func UserID(ctx context.Context) string {
	if v, ok := ctx.Value(keyUserID).(string); ok {
		return v
	}
	return ""
}

// Role returns the token role on the context if present
func Role(ctx context.Context) string {
	if v, ok := ctx.Value(keyRole).(string); ok {
		return v
	}
	return ""
}
