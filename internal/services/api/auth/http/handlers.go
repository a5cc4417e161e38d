// Package http provides http transport for auth
package http

import (
	"encoding/json"
	"fmt"
	stdhttp "net/http"
	"time"

	"atelier/internal/modkit/httpkit"
	"atelier/internal/platform/logger"
	"atelier/internal/platform/net/middleware"
	"atelier/internal/services/api/auth/domain"
	svc "atelier/internal/services/api/auth/service"
)

// Options tune the auth endpoints
type Options struct {
	// Limiter guards the credential endpoints per client ip; nil disables it
	Limiter *middleware.RateLimiter
	// Heartbeat is the idle comment interval of the event stream, default 25s
	Heartbeat time.Duration
}

// Register mounts auth endpoints on the given router
func Register(r httpkit.Router, s svc.Service, gate httpkit.Gate, opt Options) {
	if opt.Heartbeat <= 0 {
		opt.Heartbeat = 25 * time.Second
	}
	h := &handlers{svc: s, heartbeat: opt.Heartbeat}

	r.Group(func(cr httpkit.Router) {
		if opt.Limiter != nil {
			cr.Use(httpkit.RateLimit(opt.Limiter))
		}
		httpkit.PostJSON[domain.SignUpInput](cr, "/signup", h.signUp)
		httpkit.PostJSON[domain.SignInInput](cr, "/signin", h.signIn)
		httpkit.PostJSON[domain.ResetRequestInput](cr, "/password/reset", h.requestReset)
		httpkit.PostJSON[domain.ResetConfirmInput](cr, "/password/reset/confirm", h.confirmReset)
	})
	httpkit.PostJSON[domain.RefreshInput](r, "/refresh", h.refresh)
	httpkit.PostJSON[domain.RefreshInput](r, "/signout", h.signOut)

	gate.Protected(r, func(pr httpkit.Router) {
		httpkit.Get(pr, "/me", h.me)
		pr.Get("/events", h.events)
	})
}

type handlers struct {
	svc       svc.Service
	heartbeat time.Duration
}

// swagger:route POST /auth/signup Auth authSignUp
// @Summary Create an account
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body domain.SignUpInput true "Account"
// @Success 201 {object} domain.Session "created"
// @Failure 409 {object} ErrorResponse "email taken"
// @Failure 429 {object} ErrorResponse "rate limited"
// @Router /auth/signup [post]
func (h *handlers) signUp(r *stdhttp.Request, in domain.SignUpInput) (any, error) {
	s, err := h.svc.SignUp(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(s), nil
}

// swagger:route POST /auth/signin Auth authSignIn
// @Summary Sign in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body domain.SignInInput true "Credentials"
// @Success 200 {object} domain.Session "ok"
// @Failure 401 {object} ErrorResponse "invalid email or password"
// @Failure 429 {object} ErrorResponse "rate limited"
// @Router /auth/signin [post]
func (h *handlers) signIn(r *stdhttp.Request, in domain.SignInInput) (any, error) {
	return h.svc.SignIn(r.Context(), in)
}

// swagger:route POST /auth/refresh Auth authRefresh
// @Summary Rotate a refresh token
// @Description The presented refresh token stops working
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body domain.RefreshInput true "Refresh token"
// @Success 200 {object} domain.Session "ok"
// @Failure 401 {object} ErrorResponse "expired, revoked or invalid"
// @Router /auth/refresh [post]
func (h *handlers) refresh(r *stdhttp.Request, in domain.RefreshInput) (any, error) {
	return h.svc.Refresh(r.Context(), in.RefreshToken)
}

// swagger:route POST /auth/signout Auth authSignOut
// @Summary Revoke a refresh token
// @Tags Auth
// @Accept json
// @Param payload body domain.RefreshInput true "Refresh token"
// @Success 204 "signed out"
// @Router /auth/signout [post]
func (h *handlers) signOut(r *stdhttp.Request, in domain.RefreshInput) (any, error) {
	if err := h.svc.SignOut(r.Context(), in.RefreshToken); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

// swagger:route POST /auth/password/reset Auth authResetRequest
// @Summary Mail a password reset link
// @Description Always accepted, whether or not the address has an account
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body domain.ResetRequestInput true "Address"
// @Success 202 {object} map[string]string "accepted"
// @Router /auth/password/reset [post]
func (h *handlers) requestReset(r *stdhttp.Request, in domain.ResetRequestInput) (any, error) {
	if err := h.svc.RequestPasswordReset(r.Context(), in.Email); err != nil {
		// a store outage is logged, never reported; the answer must not depend on the address
		logger.C(r.Context()).Error().Err(err).Msg("password reset request failed")
	}
	return httpkit.Accepted(map[string]string{"message": "if that address has an account, a reset link is on its way"}), nil
}

// swagger:route POST /auth/password/reset/confirm Auth authResetConfirm
// @Summary Choose a new password
// @Tags Auth
// @Accept json
// @Param payload body domain.ResetConfirmInput true "Token and password"
// @Success 204 "password changed"
// @Failure 422 {object} ErrorResponse "invalid or expired token"
// @Router /auth/password/reset/confirm [post]
func (h *handlers) confirmReset(r *stdhttp.Request, in domain.ResetConfirmInput) (any, error) {
	if err := h.svc.ConfirmPasswordReset(r.Context(), in); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

// swagger:route GET /auth/me Auth authMe
// @Summary Verify the bearer token
// @Tags Auth
// @Produce json
// @Security bearerAuth
// @Success 200 {object} domain.User "ok"
// @Failure 401 {object} ErrorResponse "missing or invalid token"
// @Router /auth/me [get]
func (h *handlers) me(r *stdhttp.Request) (any, error) {
	return h.svc.Me(r.Context(), httpkit.MustUser(r))
}

// swagger:route GET /auth/events Auth authEvents
// @Summary Stream auth state changes
// @Description Server-Sent Events. Each event is named by its kind and carries the event as JSON
// @Tags Auth
// @Produce text/event-stream
// @Security bearerAuth
// @Success 200 {string} string "event stream"
// @Router /auth/events [get]
func (h *handlers) events(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	uid := httpkit.MustUser(r)
	rc := stdhttp.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(stdhttp.StatusOK)

	ch, cancel := h.svc.Subscribe(uid)
	defer cancel()

	if _, err := fmt.Fprint(w, "retry: 5000\n: connected\n\n"); err != nil {
		return
	}
	_ = rc.Flush()

	tick := time.NewTicker(h.heartbeat)
	defer tick.Stop()
	log := logger.C(r.Context())
	for {
		select {
		case <-r.Context().Done():
			return
		case <-tick.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		case ev, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				log.Error().Err(err).Msg("encode auth event")
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, data); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			log.Debug().Err(err).Msg("event stream flush")
			return
		}
	}
}
