package httpkit

import (
	"net/http"
	"strings"

	perr "atelier/internal/platform/errors"
	pnet "atelier/internal/platform/net"
)

// TokenFunc parses a bearer token into the user id and the role it claims
type TokenFunc func(token string) (userID string, role string, err error)

// port is the middleware.AuthPort behind every Gate
type port struct{ parse TokenFunc }

// Parse reads the caller off Authorization: Bearer
// a missing header and a bad token are both unauthorized; expiry keeps its own message
func (p port) Parse(r *http.Request) (string, string, error) {
	scheme, tok, _ := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	tok = strings.TrimSpace(tok)
	if !strings.EqualFold(scheme, "bearer") || tok == "" {
		return "", "", perr.Unauthorizedf("missing bearer token")
	}
	if p.parse == nil {
		return "", "", perr.Unauthorizedf("invalid bearer token")
	}
	uid, role, err := p.parse(tok)
	switch {
	case perr.IsCode(err, perr.ErrorCodeUnauthorized):
		return "", "", err
	case err != nil:
		return "", "", perr.Unauthorizedf("invalid bearer token")
	}
	return uid, role, nil
}

// MustUser is the authenticated user id; it panics off a Protected or Admin route
func MustUser(r *http.Request) string {
	uid := pnet.UserID(r.Context())
	if uid == "" {
		panic(perr.Unauthorizedf("missing bearer token"))
	}
	return uid
}
