package domain

import (
	"context"

	"atelier/internal/core/listing"
)

// ServicePort is the users workflow surface the http layer calls
type ServicePort interface {
	SaveProfile(ctx context.Context, id string, in ProfileInput) (User, error)
	PatchProfile(ctx context.Context, id string, in ProfilePatch) (User, error)
	SetAvatar(ctx context.Context, id, filename string, data []byte) (User, error)
	Preferences(ctx context.Context, id string) (Preferences, error)
	SetPreferences(ctx context.Context, id string, in Preferences) (Preferences, error)

	List(ctx context.Context, q ListQuery) (listing.Page[User], []User, error)
	Create(ctx context.Context, in CreateInput) (User, error)
	SetRole(ctx context.Context, actor, id, role string) (User, error)
	Delete(ctx context.Context, actor, id string) error

	AccountsPort
}

// AccountsPort is what other modules may use: auth signs people up and in
// through it and the admin gate reads stored roles from it
type AccountsPort interface {
	Register(ctx context.Context, a Account) (User, error)
	Authenticate(ctx context.Context, email, password string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	SetPassword(ctx context.Context, email, password string) (User, error)
	Profile(ctx context.Context, id string) (User, error)
	Role(ctx context.Context, id string) (string, error)
}
