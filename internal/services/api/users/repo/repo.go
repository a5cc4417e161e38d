// Package repo persists profiles and credentials in the document store
package repo

import (
	"context"

	"atelier/internal/core/listing"
	"atelier/internal/modkit/repokit"
	perr "atelier/internal/platform/errors"
	"atelier/internal/platform/store/docs"
	pstrings "atelier/internal/platform/strings"
	"atelier/internal/services/api/users/domain"
)

// Collection names
const (
	ProfilesCollection    = "users"
	CredentialsCollection = "credentials"
)

// Repo is the users persistence surface
type Repo struct {
	Profiles    *repokit.Collection[domain.User]
	Credentials *repokit.Collection[domain.Credential]
}

// New binds both collections to s
func New(s docs.Store) *Repo {
	return &Repo{
		Profiles:    repokit.NewCollection[domain.User](s, ProfilesCollection),
		Credentials: repokit.NewCollection[domain.Credential](s, CredentialsCollection),
	}
}

// profileDoc is the stored form of a profile; id and created_at live in columns
type profileDoc struct {
	Email              string             `json:"email"`
	Name               string             `json:"name"`
	DOB                string             `json:"dob,omitempty"`
	Bio                string             `json:"bio,omitempty"`
	Interests          []string           `json:"interests,omitempty"`
	SocialLinks        domain.SocialLinks `json:"social_links"`
	ProfilePicturePath string             `json:"profile_picture_path,omitempty"`
	ProfilePictureURL  string             `json:"profile_picture_url,omitempty"`
	Role               string             `json:"role"`
	Theme              string             `json:"theme,omitempty"`
}

func toDoc(u domain.User) profileDoc {
	return profileDoc{
		Email:              u.Email,
		Name:               u.Name,
		DOB:                u.DOB,
		Bio:                u.Bio,
		Interests:          u.Interests,
		SocialLinks:        u.SocialLinks,
		ProfilePicturePath: u.ProfilePicturePath,
		ProfilePictureURL:  u.ProfilePictureURL,
		Role:               u.Role,
		Theme:              u.Theme,
	}
}

// CreateProfile stores u under u.ID
func (r *Repo) CreateProfile(ctx context.Context, u domain.User) (domain.User, error) {
	return r.Profiles.Create(ctx, u.ID, toDoc(u))
}

// SaveProfile replaces the stored profile of u.ID
func (r *Repo) SaveProfile(ctx context.Context, u domain.User) (domain.User, error) {
	if _, err := r.Profiles.Get(ctx, u.ID); err != nil {
		return domain.User{}, err
	}
	return r.Profiles.Set(ctx, u.ID, toDoc(u))
}

// Patch merges top level fields into a profile
func (r *Repo) Patch(ctx context.Context, id string, fields map[string]any) (domain.User, error) {
	return r.Profiles.Update(ctx, id, fields)
}

// Credential looks up the sign in record of email
func (r *Repo) Credential(ctx context.Context, email string) (domain.Credential, error) {
	c, err := r.Credentials.Get(ctx, pstrings.Email(email))
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return c, perr.NotFoundf("no account for %s", pstrings.Email(email))
	}
	return c, err
}

// CreateCredential claims email for userID; DuplicateKey when the address is taken
func (r *Repo) CreateCredential(ctx context.Context, email, userID, hash string) error {
	_, err := r.Credentials.Create(ctx, pstrings.Email(email), map[string]any{"user_id": userID, "hash": hash})
	if perr.IsCode(err, perr.ErrorCodeDuplicateKey) {
		return perr.WithField(perr.DuplicateKeyf("an account with this email already exists"), "email")
	}
	return err
}

// SetHash replaces the password hash of email
func (r *Repo) SetHash(ctx context.Context, email, hash string) (domain.Credential, error) {
	return r.Credentials.Update(ctx, pstrings.Email(email), map[string]any{"hash": hash})
}

// DeleteCredential forgets email; a missing record is not an error
func (r *Repo) DeleteCredential(ctx context.Context, email string) error {
	err := r.Credentials.Delete(ctx, pstrings.Email(email))
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return nil
	}
	return err
}

// Source pages profiles for the admin list
func (r *Repo) Source() listing.Source[domain.User] { return r.Profiles.Source() }
