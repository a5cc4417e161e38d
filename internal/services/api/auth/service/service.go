// Package service contains the sign up, sign in, session and password reset workflows
package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"atelier/internal/platform/auth"
	perr "atelier/internal/platform/errors"
	"atelier/internal/platform/events"
	"atelier/internal/platform/logger"
	"atelier/internal/platform/mail"
	"atelier/internal/platform/metrics"
	"atelier/internal/platform/store/kv"
	pstrings "atelier/internal/platform/strings"
	"atelier/internal/services/api/auth/domain"
	users "atelier/internal/services/api/users/domain"

	"github.com/google/uuid"
)

// Service defines the auth service contract
type Service interface {
	domain.ServicePort
}

// DefaultResetTTL is how long a mailed reset link works
const DefaultResetTTL = time.Hour

const (
	revokedKey = "revoked:"
	resetKey   = "reset:"
	// cutoffKey holds the unix second before which a user's refresh tokens are void
	cutoffKey = "cutoff:"
)

var (
	errRevoked    = perr.Unauthorizedf("session has ended; sign in again")
	errResetToken = perr.WithField(perr.New(perr.ErrorCodeInvalidArgument, "reset link is invalid or has expired"), "token")
)

// Options tune the auth service
type Options struct {
	// ResetURL is the page the mailed link opens; the token is added as ?token=
	ResetURL string
	ResetTTL time.Duration
}

// Svc implements the auth service
type Svc struct {
	accounts domain.Accounts
	tokens   *auth.Tokens
	kv       kv.Store
	mailer   mail.Mailer
	hub      *events.Hub
	metrics  *metrics.Registry
	opt      Options

	newToken func() string
	now      func() time.Time
}

// New constructs the auth service; hub and metrics may be nil
func New(accounts domain.Accounts, tokens *auth.Tokens, store kv.Store, mailer mail.Mailer, hub *events.Hub, reg *metrics.Registry, opt Options) *Svc {
	if accounts == nil || tokens == nil || store == nil {
		panic("auth.Service requires accounts, tokens and a kv store")
	}
	if mailer == nil {
		mailer = mail.Log{}
	}
	if opt.ResetTTL <= 0 {
		opt.ResetTTL = DefaultResetTTL
	}
	return &Svc{
		accounts: accounts,
		tokens:   tokens,
		kv:       store,
		mailer:   mailer,
		hub:      hub,
		metrics:  reg,
		opt:      opt,
		newToken: uuid.NewString,
		now:      time.Now,
	}
}

func (s *Svc) publish(kind events.Kind, u users.User) {
	s.hub.Publish(events.Event{Kind: kind, UserID: u.ID, Role: u.Role})
	s.metrics.AuthEvent(string(kind))
}

func (s *Svc) session(u users.User) (domain.Session, error) {
	p, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return domain.Session{}, perr.Wrap(err, perr.ErrorCodeUnknown, "issue tokens")
	}
	return domain.Session{User: u, Pair: p}, nil
}

// SignUp creates the account and opens its first session
func (s *Svc) SignUp(ctx context.Context, in domain.SignUpInput) (domain.Session, error) {
	u, err := s.accounts.Register(ctx, users.Account{Email: in.Email, Password: in.Password, Name: in.Name})
	if err != nil {
		return domain.Session{}, err
	}
	logger.C(ctx).Info().Str("user_id", u.ID).Msg("signed up")
	s.publish(events.SignedUp, u)
	return s.session(u)
}

// SignIn checks credentials; every failure answers the same 401
func (s *Svc) SignIn(ctx context.Context, in domain.SignInInput) (domain.Session, error) {
	u, err := s.accounts.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeUnauthorized) {
			s.metrics.AuthEvent("sign_in_failed")
		}
		return domain.Session{}, err
	}
	s.publish(events.SignedIn, u)
	return s.session(u)
}

// revoke marks the jti of c as spent until c would have expired
// it reports false when the jti was already spent
func (s *Svc) revoke(ctx context.Context, c *auth.Claims) (bool, error) {
	ttl := time.Minute
	if c.ExpiresAt != nil {
		if left := c.ExpiresAt.Sub(s.now()); left > ttl {
			ttl = left
		}
	}
	ok, err := s.kv.SetNX(ctx, revokedKey+c.ID, c.Subject, ttl)
	if err != nil {
		return false, perr.Wrap(err, perr.ErrorCodeUnavailable, "session store unavailable")
	}
	return ok, nil
}

// Refresh rotates a refresh token: the presented one is spent and a new pair issued
// the role in the new access token is read from the account, not carried over
func (s *Svc) Refresh(ctx context.Context, refreshToken string) (domain.Session, error) {
	c, err := s.tokens.Parse(refreshToken, auth.KindRefresh)
	if err != nil {
		return domain.Session{}, err
	}
	if err := s.checkCutoff(ctx, c); err != nil {
		return domain.Session{}, err
	}
	fresh, err := s.revoke(ctx, c)
	if err != nil {
		return domain.Session{}, err
	}
	if !fresh {
		logger.C(ctx).Warn().Str("user_id", c.Subject).Str("jti", c.ID).Msg("refresh token replayed")
		return domain.Session{}, errRevoked
	}
	u, err := s.accounts.Profile(ctx, c.Subject)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.Session{}, errRevoked
		}
		return domain.Session{}, err
	}
	s.metrics.AuthEvent("refreshed")
	return s.session(u)
}

// checkCutoff rejects refresh tokens issued before the user's last password reset
// precision is one second, the resolution of iat
func (s *Svc) checkCutoff(ctx context.Context, c *auth.Claims) error {
	v, err := s.kv.Get(ctx, cutoffKey+c.Subject)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "session store unavailable")
	}
	cutoff, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		logger.C(ctx).Warn().Str("user_id", c.Subject).Str("cutoff", v).Msg("ignoring malformed session cutoff")
		return nil
	}
	if c.IssuedAt == nil || c.IssuedAt.Unix() < cutoff {
		return errRevoked
	}
	return nil
}

// SignOut spends the refresh token; signing out twice is not an error
func (s *Svc) SignOut(ctx context.Context, refreshToken string) error {
	c, err := s.tokens.Parse(refreshToken, auth.KindRefresh)
	if err != nil {
		return err
	}
	fresh, err := s.revoke(ctx, c)
	if err != nil {
		return err
	}
	if fresh {
		s.hub.Publish(events.Event{Kind: events.SignedOut, UserID: c.Subject})
		s.metrics.AuthEvent(string(events.SignedOut))
	}
	return nil
}

// RequestPasswordReset mails a reset link when email has an account
// the caller cannot tell whether it did
func (s *Svc) RequestPasswordReset(ctx context.Context, email string) error {
	email = pstrings.Email(email)
	u, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			logger.C(ctx).Debug().Msg("password reset for unknown address")
			return nil
		}
		return err
	}
	token := s.newToken()
	if err := s.kv.Set(ctx, resetKey+token, email, s.opt.ResetTTL); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "session store unavailable")
	}
	msg := mail.Message{
		To:      email,
		Subject: "Reset your password",
		Body: fmt.Sprintf("Hi %s,\n\nOpen this link to choose a new password:\n\n%s\n\nIt stops working in %s. If you did not ask for this you can ignore this mail.\n",
			u.Name, s.resetLink(token), s.opt.ResetTTL),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		// the token stays valid; the user can ask again
		logger.C(ctx).Error().Err(err).Str("user_id", u.ID).Msg("reset mail not sent")
	}
	return nil
}

func (s *Svc) resetLink(token string) string {
	u, err := url.Parse(s.opt.ResetURL)
	if err != nil || s.opt.ResetURL == "" {
		return token
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// ConfirmPasswordReset consumes the token, ends every open session and replaces the password
// the cutoff outlives the longest refresh token, so tokens minted before it never refresh again
func (s *Svc) ConfirmPasswordReset(ctx context.Context, in domain.ResetConfirmInput) error {
	email, err := s.kv.Take(ctx, resetKey+in.Token)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return errResetToken
		}
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "session store unavailable")
	}
	owner, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return errResetToken
		}
		return err
	}
	cutoff := strconv.FormatInt(s.now().Unix(), 10)
	if err := s.kv.Set(ctx, cutoffKey+owner.ID, cutoff, s.tokens.RefreshTTL()); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "session store unavailable")
	}
	u, err := s.accounts.SetPassword(ctx, email, in.Password)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return errResetToken
		}
		return err
	}
	logger.C(ctx).Info().Str("user_id", u.ID).Msg("password reset")
	s.publish(events.PasswordReset, u)
	return nil
}

// Me returns the account behind the current access token
func (s *Svc) Me(ctx context.Context, userID string) (users.User, error) {
	u, err := s.accounts.Profile(ctx, userID)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return users.User{}, perr.Unauthorizedf("account no longer exists")
	}
	return u, err
}

// Subscribe streams auth state changes of userID until cancel is called
func (s *Svc) Subscribe(userID string) (<-chan events.Event, func()) {
	if s.hub == nil {
		ch := make(chan events.Event)
		close(ch)
		return ch, func() {}
	}
	return s.hub.Subscribe(userID)
}
