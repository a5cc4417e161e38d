package module

import (
	"context"
	"testing"

	phttp "atelier/internal/platform/net/http"
)

type RoleLookup interface {
	Role(ctx context.Context, uid string) (string, error)
}

type lookup struct{}

func (lookup) Role(context.Context, string) (string, error) { return "admin", nil }

type usersPorts struct {
	Roles  RoleLookup
	hidden RoleLookup
}

type stub struct{ ports any }

func (s stub) MountRoutes(phttp.Router) {}
func (s stub) Ports() any               { return s.ports }
func (s stub) Name() string             { return "users" }

func TestPortsOf(t *testing.T) {
	t.Parallel()

	direct := stub{ports: lookup{}}
	if _, ok := PortsOf[RoleLookup](direct); !ok {
		t.Fatal("direct implementation should match")
	}

	field := stub{ports: usersPorts{Roles: lookup{}}}
	got, ok := PortsOf[RoleLookup](field)
	if !ok {
		t.Fatal("exported field should match")
	}
	if r, _ := got.Role(context.Background(), "u1"); r != "admin" {
		t.Fatalf("role = %q", r)
	}

	unexported := stub{ports: usersPorts{hidden: lookup{}}}
	if _, ok := PortsOf[RoleLookup](unexported); ok {
		t.Fatal("unexported fields must be skipped")
	}
	if _, ok := PortsOf[RoleLookup](stub{}); ok {
		t.Fatal("nil ports should not match")
	}
}

func TestMustPortsOfPanics(t *testing.T) {
	t.Parallel()
	defer func() {
		if r := recover(); r != "module users exports no module.RoleLookup" {
			t.Fatalf("recovered %v", r)
		}
	}()
	_ = MustPortsOf[RoleLookup](stub{ports: 42})
}

func TestRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register(stub{ports: usersPorts{Roles: lookup{}}})
	p, ok := PortsAs[usersPorts]("users")
	if !ok || p.Roles == nil {
		t.Fatalf("PortsAs = %+v, %v", p, ok)
	}
	if _, ok := PortsAs[int]("users"); ok {
		t.Fatal("type mismatch should report false")
	}
	if _, ok := PortsAs[usersPorts]("art"); ok {
		t.Fatal("unknown module should report false")
	}
	if _, ok := PortsAs[any]("art"); ok {
		t.Fatal("unknown module should report false for any")
	}
	if names := Names(); len(names) != 1 || names[0] != "users" {
		t.Fatalf("names = %v", names)
	}
}
