package module_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"atelier/internal/modkit"
	"atelier/internal/modkit/modtest"
	"atelier/internal/platform/auth"
	perr "atelier/internal/platform/errors"
	"atelier/internal/platform/events"
	"atelier/internal/platform/mail"
	authmod "atelier/internal/services/api/auth/module"
	"atelier/internal/services/api/auth/domain"
	usersmod "atelier/internal/services/api/users/module"

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

func (o *outbox) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.sent)
}

func newEnv(t *testing.T) (*modtest.Env, *outbox) {
	t.Helper()
	env := modtest.New(t, nil)
	box := &outbox{}
	env.Deps.Mail = box

	users := usersmod.New(env.Deps)
	env.Deps.Gate = users.Gate()
	am := authmod.New(env.Deps, modkit.WithPorts(authmod.Ports{Accounts: users.Ports().(usersmod.Ports).Accounts}))
	t.Cleanup(am.Close)
	env.Mount(users, am)
	return env, box
}

func signUp(t *testing.T, env *modtest.Env, email string) domain.Session {
	t.Helper()
	r := env.Do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{"email": email, "password": "correct horse", "name": "Ada"})
	if r.Code != http.StatusCreated {
		t.Fatalf("signup = %d %s", r.Code, r.Raw)
	}
	var s domain.Session
	r.Decode(t, &s)
	return s
}

func TestModuleRequiresAccounts(t *testing.T) {
	t.Parallel()
	env := modtest.New(t, nil)
	defer func() {
		if recover() == nil {
			t.Fatal("want panic without the accounts port")
		}
	}()
	authmod.New(env.Deps)
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()
	env, _ := newEnv(t)

	s := signUp(t, env, "ada@example.com")
	if s.Access == "" || s.Refresh == "" || s.TokenType != "Bearer" {
		t.Fatalf("session = %+v", s)
	}

	r := env.Do(t, http.MethodGet, "/api/v1/auth/me", s.Access, nil)
	var me domain.User
	r.Decode(t, &me)
	if r.Code != http.StatusOK || me.ID != s.User.ID {
		t.Fatalf("me = %d %s", r.Code, r.Raw)
	}
	if r := env.Do(t, http.MethodGet, "/api/v1/auth/me", s.Refresh, nil); r.Code != http.StatusUnauthorized {
		t.Fatalf("refresh token as bearer = %d", r.Code)
	}

	r = env.Do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": s.Refresh})
	if r.Code != http.StatusOK {
		t.Fatalf("refresh = %d %s", r.Code, r.Raw)
	}
	var next domain.Session
	r.Decode(t, &next)
	if r := env.Do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": s.Refresh}); r.Code != http.StatusUnauthorized {
		t.Fatalf("replay = %d", r.Code)
	}

	if r := env.Do(t, http.MethodPost, "/api/v1/auth/signout", "", map[string]string{"refresh_token": next.Refresh}); r.Code != http.StatusNoContent {
		t.Fatalf("signout = %d %s", r.Code, r.Raw)
	}
	if r := env.Do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": next.Refresh}); r.Code != http.StatusUnauthorized {
		t.Fatalf("refresh after signout = %d", r.Code)
	}
}

func TestSignInFailuresLookAlike(t *testing.T) {
	t.Parallel()
	env, _ := newEnv(t)
	signUp(t, env, "ada@example.com")

	wrong := env.Do(t, http.MethodPost, "/api/v1/auth/signin", "", map[string]string{"email": "ada@example.com", "password": "wrong horse"})
	unknown := env.Do(t, http.MethodPost, "/api/v1/auth/signin", "", map[string]string{"email": "bob@example.com", "password": "correct horse"})
	if wrong.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("codes = %d %d", wrong.Code, unknown.Code)
	}
	if wrong.Error != unknown.Error || wrong.ErrCode != perr.ErrorCodeUnauthorized {
		t.Fatalf("errors = %q %q", wrong.Error, unknown.Error)
	}

	if r := env.Do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{"email": "not-an-email", "password": "correct horse", "name": "X"}); r.Code != http.StatusBadRequest {
		t.Fatalf("bad email = %d", r.Code)
	}
}

func TestCredentialEndpointsAreRateLimited(t *testing.T) {
	t.Parallel()
	env, _ := newEnv(t)

	body := map[string]string{"email": "ada@example.com", "password": "wrong horse"}
	last := 0
	for i := 0; i < 8; i++ {
		last = env.Do(t, http.MethodPost, "/api/v1/auth/signin", "", body).Code
		if last == http.StatusTooManyRequests {
			break
		}
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("last = %d, want 429", last)
	}
	// the limiter does not cover token rotation
	if r := env.Do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": "x"}); r.Code != http.StatusUnauthorized {
		t.Fatalf("refresh = %d", r.Code)
	}
}

func TestPasswordResetAnswersAlike(t *testing.T) {
	t.Parallel()
	env, box := newEnv(t)
	signUp(t, env, "ada@example.com")

	known := env.Do(t, http.MethodPost, "/api/v1/auth/password/reset", "", map[string]string{"email": "ada@example.com"})
	unknown := env.Do(t, http.MethodPost, "/api/v1/auth/password/reset", "", map[string]string{"email": "bob@example.com"})
	if known.Code != http.StatusAccepted || unknown.Code != http.StatusAccepted || string(known.Data) != string(unknown.Data) {
		t.Fatalf("answers differ: %d %s / %d %s", known.Code, known.Data, unknown.Code, unknown.Data)
	}
	if box.count() != 1 {
		t.Fatalf("mails = %d", box.count())
	}

	r := env.Do(t, http.MethodPost, "/api/v1/auth/password/reset/confirm", "", map[string]string{"token": "nope", "password": "battery staple"})
	if r.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad token = %d %s", r.Code, r.Raw)
	}
}

func TestEventStream(t *testing.T) {
	t.Parallel()
	env, _ := newEnv(t)
	s := signUp(t, env, "ada@example.com")

	srv := httptest.NewServer(env.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/auth/events", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+s.Access)
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream") {
		t.Fatalf("stream = %d %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	rd := bufio.NewReader(resp.Body)
	readLine := func() string {
		line, err := rd.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		return strings.TrimRight(line, "\n")
	}
	for readLine() != ": connected" {
	}

	env.Hub.Publish(events.Event{Kind: events.RoleChanged, UserID: "someone-else"})
	env.Hub.Publish(events.Event{Kind: events.RoleChanged, UserID: s.User.ID, Role: "admin"})

	for {
		line := readLine()
		data, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}
		var ev events.Event
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			t.Fatal(err)
		}
		if ev.UserID != s.User.ID {
			t.Fatalf("foreign event %+v", ev)
		}
		if ev.Kind == events.RoleChanged {
			if ev.Role != "admin" {
				t.Fatalf("event = %+v", ev)
			}
			return
		}
	}
}

func TestEventStreamNeedsToken(t *testing.T) {
	t.Parallel()
	env, _ := newEnv(t)
	if r := env.Do(t, http.MethodGet, "/api/v1/auth/events", "", nil); r.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous stream = %d", r.Code)
	}
}
