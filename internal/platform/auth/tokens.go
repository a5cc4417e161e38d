// Package auth issues and verifies session tokens and hashes passwords
package auth

import (
	"errors"
	"time"

	perr "atelier/internal/platform/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind separates access tokens from refresh tokens so one cannot stand in for the other
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// MinSecretLen is the shortest HS256 secret accepted
const MinSecretLen = 32

// Claims is the JWT body; Subject is the user id and ID the jti
type Claims struct {
	Role string `json:"role,omitempty"`
	Kind Kind   `json:"kind"`
	jwt.RegisteredClaims
}

// Config configures token lifetimes
type Config struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration // default 15m
	RefreshTTL time.Duration // default 30 days
}

// Pair is what a successful sign in hands back
type Pair struct {
	Access         string    `json:"access_token"`
	Refresh        string    `json:"refresh_token"`
	AccessExpires  time.Time `json:"access_expires_at"`
	RefreshExpires time.Time `json:"refresh_expires_at"`
	TokenType      string    `json:"token_type"`

	// RefreshID is the jti of Refresh, kept server side for revocation
	RefreshID string `json:"-"`
}

// Tokens signs and parses HS256 session tokens
type Tokens struct {
	cfg Config
	now func() time.Time
}

// NewTokens validates cfg and applies defaults
func NewTokens(cfg Config) (*Tokens, error) {
	if len(cfg.Secret) < MinSecretLen {
		return nil, errors.New("auth: jwt secret must be at least 32 bytes")
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "atelier"
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 30 * 24 * time.Hour
	}
	return &Tokens{cfg: cfg, now: time.Now}, nil
}

// SetClock swaps the time source; tests only
func (t *Tokens) SetClock(now func() time.Time) { t.now = now }

// RefreshTTL reports how long refresh tokens live
func (t *Tokens) RefreshTTL() time.Duration { return t.cfg.RefreshTTL }

func (t *Tokens) sign(userID, role string, kind Kind, ttl time.Duration) (string, string, time.Time, error) {
	now := t.now()
	exp := now.Add(ttl)
	jti := uuid.NewString()
	claims := Claims{
		Role: role,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			Issuer:    t.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.cfg.Secret)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return s, jti, exp, nil
}

// Issue mints an access and refresh token for userID
func (t *Tokens) Issue(userID, role string) (Pair, error) {
	if userID == "" {
		return Pair{}, errors.New("auth: empty subject")
	}
	access, _, aexp, err := t.sign(userID, role, KindAccess, t.cfg.AccessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, rid, rexp, err := t.sign(userID, "", KindRefresh, t.cfg.RefreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{
		Access:         access,
		Refresh:        refresh,
		AccessExpires:  aexp,
		RefreshExpires: rexp,
		TokenType:      "Bearer",
		RefreshID:      rid,
	}, nil
}

// Parse verifies signature, issuer, expiry and kind
// every failure is an Unauthorized error with a generic message
func (t *Tokens) Parse(raw string, kind Kind) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return t.cfg.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !tok.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, perr.Wrap(err, perr.ErrorCodeUnauthorized, "token expired")
		}
		return nil, perr.Wrap(err, perr.ErrorCodeUnauthorized, "invalid token")
	}
	if claims.Kind != kind || claims.Subject == "" || claims.ID == "" {
		return nil, perr.Unauthorizedf("invalid token")
	}
	return claims, nil
}

// ParseAccess adapts Parse to the bearer port: user id and role hint
func (t *Tokens) ParseAccess(raw string) (string, string, error) {
	c, err := t.Parse(raw, KindAccess)
	if err != nil {
		return "", "", err
	}
	return c.Subject, c.Role, nil
}
