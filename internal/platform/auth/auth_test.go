package auth

import (
	"strings"
	"testing"
	"time"

	"atelier/internal/platform/config"
	perr "atelier/internal/platform/errors"

	"golang.org/x/crypto/bcrypt"
)

var secret = []byte(strings.Repeat("k", MinSecretLen))

func newTokens(t *testing.T, now *time.Time) *Tokens {
	t.Helper()
	tk, err := NewTokens(Config{Secret: secret})
	if err != nil {
		t.Fatal(err)
	}
	tk.SetClock(func() time.Time { return *now })
	return tk
}

func TestNewTokensRejectsShortSecret(t *testing.T) {
	t.Parallel()
	if _, err := NewTokens(Config{Secret: []byte("short")}); err == nil {
		t.Fatal("expected error for short secret")
	}
}

func TestIssueAndParse(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	tk := newTokens(t, &now)

	p, err := tk.Issue("u-1", "admin")
	if err != nil {
		t.Fatal(err)
	}
	if p.RefreshID == "" || p.TokenType != "Bearer" {
		t.Fatalf("pair = %+v", p)
	}
	if got := p.AccessExpires.Sub(now); got != 15*time.Minute {
		t.Fatalf("access ttl = %v", got)
	}
	if got := p.RefreshExpires.Sub(now); got != 30*24*time.Hour {
		t.Fatalf("refresh ttl = %v", got)
	}

	uid, role, err := tk.ParseAccess(p.Access)
	if err != nil || uid != "u-1" || role != "admin" {
		t.Fatalf("ParseAccess = %q %q %v", uid, role, err)
	}
	c, err := tk.Parse(p.Refresh, KindRefresh)
	if err != nil || c.ID != p.RefreshID || c.Role != "" {
		t.Fatalf("refresh claims = %+v, %v", c, err)
	}
}

func TestParseRejects(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	tk := newTokens(t, &now)
	p, err := tk.Issue("u-1", "user")
	if err != nil {
		t.Fatal(err)
	}
	other, _ := NewTokens(Config{Secret: []byte(strings.Repeat("z", MinSecretLen))})
	forged, _ := other.Issue("u-1", "admin")

	tests := []struct {
		name string
		raw  string
		kind Kind
	}{
		{"refresh used as access", p.Refresh, KindAccess},
		{"access used as refresh", p.Access, KindRefresh},
		{"wrong secret", forged.Access, KindAccess},
		{"garbage", "not.a.jwt", KindAccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tk.Parse(tt.raw, tt.kind); perr.CodeOf(err) != perr.ErrorCodeUnauthorized {
				t.Fatalf("err = %v", err)
			}
		})
	}
}

func TestParseExpired(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	tk := newTokens(t, &now)
	p, err := tk.Issue("u-1", "user")
	if err != nil {
		t.Fatal(err)
	}
	now = now.Add(16 * time.Minute)
	_, err = tk.Parse(p.Access, KindAccess)
	if perr.CodeOf(err) != perr.ErrorCodeUnauthorized || !strings.Contains(err.Error(), "expired") {
		t.Fatalf("err = %v", err)
	}
	if _, err := tk.Parse(p.Refresh, KindRefresh); err != nil {
		t.Fatalf("refresh should still be valid: %v", err)
	}
}

func TestPasswords(t *testing.T) {
	Cost = bcrypt.MinCost
	t.Cleanup(func() { Cost = bcrypt.DefaultCost })

	h, err := HashPassword("correct horse")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(h, "correct horse") || CheckPassword(h, "wrong horse") {
		t.Fatal("password check mismatch")
	}
	if _, err := HashPassword("short"); perr.CodeOf(err) != perr.ErrorCodeValidation {
		t.Fatalf("short err = %v", err)
	}
	if _, err := HashPassword(strings.Repeat("p", 80)); perr.CodeOf(err) != perr.ErrorCodeValidation {
		t.Fatalf("long err = %v", err)
	}
}

func TestFromConfig(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", string(secret))
	t.Setenv("AUTH_ACCESS_TTL", "5m")

	cfg := FromConfig(config.New())
	if string(cfg.Secret) != string(secret) || cfg.AccessTTL != 5*time.Minute || cfg.RefreshTTL != 30*24*time.Hour || cfg.Issuer != "atelier" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if _, err := NewTokens(cfg); err != nil {
		t.Fatal(err)
	}
}
