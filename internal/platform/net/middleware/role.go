package middleware

import (
	"context"
	"net/http"
	"strings"

	perr "atelier/internal/platform/errors"
	"atelier/internal/platform/logger"
	pnet "atelier/internal/platform/net"
)

// RoleLookup resolves the current role of a user from the system of record
type RoleLookup interface {
	Role(ctx context.Context, userID string) (string, error)
}

// RequireRole admits only authenticated users whose stored role is one of roles
// the role claimed by the token is ignored so demotions apply immediately
func RequireRole(l RoleLookup, write func(w http.ResponseWriter, status int, body any), roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			fail := func(err error) {
				status, body := pnet.Error(err, pnet.RequestID(ctx))
				write(w, status, body)
			}
			uid := pnet.UserID(ctx)
			if uid == "" {
				fail(perr.New(perr.ErrorCodeUnauthorized, "authentication required"))
				return
			}
			if l == nil {
				fail(perr.New(perr.ErrorCodeForbidden, "role lookup not configured"))
				return
			}
			role, err := l.Role(ctx, uid)
			if err != nil {
				if perr.IsCode(err, perr.ErrorCodeNotFound) {
					fail(perr.New(perr.ErrorCodeUnauthorized, "unknown user"))
					return
				}
				fail(err)
				return
			}
			for _, want := range roles {
				if strings.EqualFold(role, want) {
					next.ServeHTTP(w, r.WithContext(logger.WithRole(ctx, role)))
					return
				}
			}
			logger.C(ctx).Warn().Str("stored_role", role).Strs("required", roles).Msg("role check denied")
			fail(perr.New(perr.ErrorCodeForbidden, "insufficient role"))
		})
	}
}
