package service

import (
	"context"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"atelier/internal/platform/auth"
	perr "atelier/internal/platform/errors"
	"atelier/internal/platform/events"
	"atelier/internal/platform/mail"
	"atelier/internal/platform/store/docs"
	"atelier/internal/platform/store/kv"
	"atelier/internal/services/api/auth/domain"
	users "atelier/internal/services/api/users/domain"
	usersrepo "atelier/internal/services/api/users/repo"
	userssvc "atelier/internal/services/api/users/service"

	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	auth.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}

type outbox struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (o *outbox) Send(_ context.Context, m mail.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, m)
	return nil
}

func (o *outbox) last(t *testing.T) mail.Message {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.sent) == 0 {
		t.Fatal("no mail sent")
	}
	return o.sent[len(o.sent)-1]
}

type fixture struct {
	svc   *Svc
	users *userssvc.Svc
	kv    *kv.Memory
	mail  *outbox
	hub   *events.Hub
	now   *time.Time
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	hub := events.NewHub(0)
	ctx, cancel := context.WithCancel(context.Background())
	hub.Start(ctx)
	t.Cleanup(func() {
		cancel()
		hub.Wait()
	})

	tokens, err := auth.NewTokens(auth.Config{Secret: []byte("0123456789abcdef0123456789abcdef")})
	if err != nil {
		t.Fatal(err)
	}
	tokens.SetClock(clock)
	store := kv.NewMemory()
	store.SetClock(clock)

	us := userssvc.New(usersrepo.New(docs.NewMemory()), nil, hub, nil)
	box := &outbox{}
	s := New(us, tokens, store, box, hub, nil, Options{ResetURL: "https://atelier.test/reset?from=mail"})
	s.now = clock
	return fixture{svc: s, users: us, kv: store, mail: box, hub: hub, now: &now}
}

func (f fixture) signUp(t *testing.T, email string) domain.Session {
	t.Helper()
	s, err := f.svc.SignUp(context.Background(), domain.SignUpInput{Email: email, Password: "correct horse", Name: "Ada"})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSignUpAndSignIn(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	s := f.signUp(t, "Ada@Example.com ")
	if s.User.Email != "ada@example.com" || s.User.Role != users.RoleUser || s.Access == "" || s.Refresh == "" {
		t.Fatalf("session = %+v", s)
	}
	uid, role, err := f.svc.tokens.ParseAccess(s.Access)
	if err != nil || uid != s.User.ID || role != users.RoleUser {
		t.Fatalf("access = %q %q %v", uid, role, err)
	}

	if _, err := f.svc.SignUp(ctx, domain.SignUpInput{Email: "ada@example.com", Password: "another one", Name: "Ada"}); !perr.IsCode(err, perr.ErrorCodeDuplicateKey) {
		t.Fatalf("duplicate sign up = %v", err)
	}

	if _, err := f.svc.SignIn(ctx, domain.SignInInput{Email: "ada@example.com", Password: "correct horse"}); err != nil {
		t.Fatal(err)
	}
	_, wrongPass := f.svc.SignIn(ctx, domain.SignInInput{Email: "ada@example.com", Password: "wrong horse"})
	_, unknown := f.svc.SignIn(ctx, domain.SignInInput{Email: "bob@example.com", Password: "correct horse"})
	if !perr.IsCode(wrongPass, perr.ErrorCodeUnauthorized) || !perr.IsCode(unknown, perr.ErrorCodeUnauthorized) {
		t.Fatalf("failures = %v / %v", wrongPass, unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Fatalf("messages differ: %q vs %q", wrongPass, unknown)
	}
}

func TestRefreshRotates(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	first := f.signUp(t, "ada@example.com")

	second, err := f.svc.Refresh(ctx, first.Refresh)
	if err != nil {
		t.Fatal(err)
	}
	if second.Refresh == first.Refresh || second.RefreshID == first.RefreshID {
		t.Fatal("refresh token not rotated")
	}
	if _, err := f.svc.Refresh(ctx, first.Refresh); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("replayed refresh = %v", err)
	}
	if _, err := f.svc.Refresh(ctx, second.Access); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("access token used as refresh = %v", err)
	}

	// the stored role wins over the one the old session saw
	if _, err := f.users.SetRole(ctx, "someone-else", second.User.ID, users.RoleAdmin); err != nil {
		t.Fatal(err)
	}
	third, err := f.svc.Refresh(ctx, second.Refresh)
	if err != nil {
		t.Fatal(err)
	}
	if _, role, _ := f.svc.tokens.ParseAccess(third.Access); role != users.RoleAdmin {
		t.Fatalf("role after refresh = %q", role)
	}
}

func TestRefreshAfterAccountDeleted(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	s := f.signUp(t, "ada@example.com")

	if err := f.users.Delete(ctx, "admin", s.User.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Refresh(ctx, s.Refresh); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("refresh for deleted account = %v", err)
	}
	if _, err := f.svc.Me(ctx, s.User.ID); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("me for deleted account = %v", err)
	}
}

func TestSignOut(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	s := f.signUp(t, "ada@example.com")

	if err := f.svc.SignOut(ctx, s.Refresh); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.SignOut(ctx, s.Refresh); err != nil {
		t.Fatalf("second sign out = %v", err)
	}
	if _, err := f.svc.Refresh(ctx, s.Refresh); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("refresh after sign out = %v", err)
	}
	if err := f.svc.SignOut(ctx, "garbage"); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("garbage sign out = %v", err)
	}
}

func resetToken(t *testing.T, m mail.Message) string {
	t.Helper()
	for _, line := range strings.Split(m.Body, "\n") {
		if !strings.HasPrefix(line, "https://") {
			continue
		}
		u, err := url.Parse(line)
		if err != nil {
			t.Fatal(err)
		}
		if u.Query().Get("from") != "mail" {
			t.Fatalf("reset url lost its query: %s", line)
		}
		return u.Query().Get("token")
	}
	t.Fatalf("no link in %q", m.Body)
	return ""
}

func TestPasswordReset(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.signUp(t, "ada@example.com")

	if err := f.svc.RequestPasswordReset(ctx, "nobody@example.com"); err != nil {
		t.Fatalf("unknown address = %v", err)
	}
	if len(f.mail.sent) != 0 {
		t.Fatal("mail sent for an unknown address")
	}

	if err := f.svc.RequestPasswordReset(ctx, " ADA@example.com"); err != nil {
		t.Fatal(err)
	}
	m := f.mail.last(t)
	if m.To != "ada@example.com" {
		t.Fatalf("to = %q", m.To)
	}
	token := resetToken(t, m)

	if err := f.svc.ConfirmPasswordReset(ctx, domain.ResetConfirmInput{Token: token, Password: "battery staple"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.SignIn(ctx, domain.SignInInput{Email: "ada@example.com", Password: "battery staple"}); err != nil {
		t.Fatalf("new password = %v", err)
	}
	if _, err := f.svc.SignIn(ctx, domain.SignInInput{Email: "ada@example.com", Password: "correct horse"}); err == nil {
		t.Fatal("old password still works")
	}
	err := f.svc.ConfirmPasswordReset(ctx, domain.ResetConfirmInput{Token: token, Password: "third password"})
	if e, ok := perr.As(err); !ok || e.Code() != perr.ErrorCodeInvalidArgument || e.Field() != "token" {
		t.Fatalf("reused token = %v", err)
	}
}

func TestPasswordResetExpires(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.signUp(t, "ada@example.com")

	if err := f.svc.RequestPasswordReset(ctx, "ada@example.com"); err != nil {
		t.Fatal(err)
	}
	token := resetToken(t, f.mail.last(t))
	*f.now = f.now.Add(DefaultResetTTL + time.Second)

	if err := f.svc.ConfirmPasswordReset(ctx, domain.ResetConfirmInput{Token: token, Password: "battery staple"}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("expired token = %v", err)
	}
}

func TestPasswordResetEndsSessions(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	before := f.signUp(t, "ada@example.com")
	other := f.signUp(t, "bob@example.com")

	*f.now = f.now.Add(time.Minute)
	if err := f.svc.RequestPasswordReset(ctx, "ada@example.com"); err != nil {
		t.Fatal(err)
	}
	token := resetToken(t, f.mail.last(t))
	if err := f.svc.ConfirmPasswordReset(ctx, domain.ResetConfirmInput{Token: token, Password: "battery staple"}); err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.Refresh(ctx, before.Refresh); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("refresh from before the reset = %v", err)
	}
	if _, err := f.svc.Refresh(ctx, other.Refresh); err != nil {
		t.Fatalf("another account's session = %v", err)
	}

	after, err := f.svc.SignIn(ctx, domain.SignInInput{Email: "ada@example.com", Password: "battery staple"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Refresh(ctx, after.Refresh); err != nil {
		t.Fatalf("refresh after the reset = %v", err)
	}
}

func TestSubscribeSeesOwnEvents(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	ada := f.signUp(t, "ada@example.com")
	bob := f.signUp(t, "bob@example.com")

	ch, cancel := f.svc.Subscribe(ada.User.ID)
	defer cancel()

	if _, err := f.svc.SignIn(ctx, domain.SignInInput{Email: "bob@example.com", Password: "correct horse"}); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.SignOut(ctx, ada.Refresh); err != nil {
		t.Fatal(err)
	}

	// ada's own sign up may still be in flight; bob's events must never arrive
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-ch:
			if ev.UserID != ada.User.ID {
				t.Fatalf("event for %s (bob is %s)", ev.UserID, bob.User.ID)
			}
			if ev.Kind == events.SignedOut {
				return
			}
		case <-timeout:
			t.Fatal("no signed_out event")
		}
	}
}
