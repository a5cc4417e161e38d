// Package service contains users workflows
package service

import (
	"bytes"
	"context"
	"path"
	"strings"

	"atelier/internal/core/fold"
	"atelier/internal/core/imagery"
	"atelier/internal/core/listing"
	"atelier/internal/platform/auth"
	perr "atelier/internal/platform/errors"
	"atelier/internal/platform/events"
	"atelier/internal/platform/logger"
	"atelier/internal/platform/store/blob"
	pstrings "atelier/internal/platform/strings"
	"atelier/internal/services/api/users/domain"
	"atelier/internal/services/api/users/repo"

	"github.com/google/uuid"
)

// Service defines the users service contract
type Service interface {
	domain.ServicePort
}

// AvatarPrefix is the blob prefix of profile pictures
const AvatarPrefix = "avatars"

// DefaultOrder lists the newest accounts first
var DefaultOrder = listing.Order{Field: domain.FieldCreatedAt, Dir: listing.Desc}

// Svc implements the users service
type Svc struct {
	repo *repo.Repo
	blob blob.Store
	hub  *events.Hub
	acc  *listing.Accessor[domain.User]

	newID func() string
}

// New constructs a users service; blob and hub may be nil, which disables
// avatar uploads and event publishing
func New(r *repo.Repo, b blob.Store, hub *events.Hub, obs listing.Observer) *Svc {
	if r == nil {
		panic("users.Service requires a non nil Repo")
	}
	opts := []listing.Option{listing.WithName(repo.ProfilesCollection)}
	if obs != nil {
		opts = append(opts, listing.WithObserver(obs))
	}
	return &Svc{
		repo:  r,
		blob:  b,
		hub:   hub,
		acc:   listing.NewAccessor(r.Source(), opts...),
		newID: uuid.NewString,
	}
}

func (s *Svc) publish(kind events.Kind, u domain.User) {
	s.hub.Publish(events.Event{Kind: kind, UserID: u.ID, Role: u.Role})
}

// Profile returns the stored profile of id
func (s *Svc) Profile(ctx context.Context, id string) (domain.User, error) {
	return s.repo.Profiles.Get(ctx, id)
}

// Role returns the stored role of id; profiles without one are users
func (s *Svc) Role(ctx context.Context, id string) (string, error) {
	u, err := s.repo.Profiles.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if u.Role == "" {
		return domain.RoleUser, nil
	}
	return u.Role, nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(fold.Clean(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// SaveProfile replaces the editable fields of a profile
func (s *Svc) SaveProfile(ctx context.Context, id string, in domain.ProfileInput) (domain.User, error) {
	u, err := s.repo.Profiles.Get(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	u.Name = strings.TrimSpace(fold.Clean(in.Name))
	u.DOB = in.DOB
	u.Bio = strings.TrimSpace(fold.Clean(in.Bio))
	u.Interests = cleanList(in.Interests)
	u.SocialLinks = in.SocialLinks
	return s.repo.SaveProfile(ctx, u)
}

// PatchProfile updates only the fields set in in
func (s *Svc) PatchProfile(ctx context.Context, id string, in domain.ProfilePatch) (domain.User, error) {
	if in.Empty() {
		return s.repo.Profiles.Get(ctx, id)
	}
	fields := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(fold.Clean(*in.Name))
		if name == "" {
			return domain.User{}, perr.WithField(perr.New(perr.ErrorCodeValidation, "name is required"), "name")
		}
		fields["name"] = name
	}
	if in.DOB != nil {
		fields["dob"] = *in.DOB
	}
	if in.Bio != nil {
		fields["bio"] = strings.TrimSpace(fold.Clean(*in.Bio))
	}
	if in.Interests != nil {
		fields["interests"] = cleanList(*in.Interests)
	}
	if in.SocialLinks != nil {
		fields["social_links"] = *in.SocialLinks
	}
	return s.repo.Patch(ctx, id, fields)
}

// SetAvatar stores a profile picture under avatars/<id>/ and points the profile at it
// the previous picture is removed once the profile is updated
func (s *Svc) SetAvatar(ctx context.Context, id, filename string, data []byte) (domain.User, error) {
	if s.blob == nil {
		return domain.User{}, perr.Unavailablef("file storage is not configured")
	}
	u, err := s.repo.Profiles.Get(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	ct, _, err := imagery.Sniff(data)
	if err != nil {
		return domain.User{}, perr.WithField(err, "avatar")
	}
	key, err := blob.CleanKey(path.Join(AvatarPrefix, id, pstrings.FileName(filename)))
	if err != nil {
		return domain.User{}, perr.WithField(perr.InvalidArgf("invalid file name"), "avatar")
	}
	if err := s.blob.Put(ctx, key, bytes.NewReader(data), int64(len(data)), ct); err != nil {
		return domain.User{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "store avatar")
	}
	url, err := s.blob.URL(ctx, key)
	if err != nil {
		return domain.User{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "avatar url")
	}
	out, err := s.repo.Patch(ctx, id, map[string]any{"profile_picture_path": key, "profile_picture_url": url})
	if err != nil {
		return domain.User{}, err
	}
	if old := u.ProfilePicturePath; old != "" && old != key {
		if err := s.blob.Delete(ctx, old); err != nil {
			logger.C(ctx).Warn().Err(err).Str("key", old).Msg("previous avatar not removed")
		}
	}
	return out, nil
}

// Preferences returns the display settings of id
func (s *Svc) Preferences(ctx context.Context, id string) (domain.Preferences, error) {
	u, err := s.repo.Profiles.Get(ctx, id)
	if err != nil {
		return domain.Preferences{}, err
	}
	if u.Theme == "" {
		u.Theme = domain.ThemeSystem
	}
	return domain.Preferences{Theme: u.Theme}, nil
}

// SetPreferences stores the display settings of id
func (s *Svc) SetPreferences(ctx context.Context, id string, in domain.Preferences) (domain.Preferences, error) {
	u, err := s.repo.Patch(ctx, id, map[string]any{"theme": in.Theme})
	if err != nil {
		return domain.Preferences{}, err
	}
	return domain.Preferences{Theme: u.Theme}, nil
}

// List fetches one page of accounts and narrows it in memory
// the raw page drives pagination; the second result is what the filter kept
func (s *Svc) List(ctx context.Context, q domain.ListQuery) (listing.Page[domain.User], []domain.User, error) {
	p, err := listing.Serve(ctx, s.acc, q.Params, DefaultOrder, domain.FieldCreatedAt, domain.FieldName, domain.FieldEmail)
	if err != nil {
		return p, nil, err
	}
	return p, listing.Apply(p.Items, q.Filter(q.Role)), nil
}

// Register creates the credential and the profile of a new account
// the credential is claimed first so a taken address never leaves a profile behind
func (s *Svc) Register(ctx context.Context, a domain.Account) (domain.User, error) {
	email := pstrings.Email(a.Email)
	if email == "" {
		return domain.User{}, perr.WithField(perr.New(perr.ErrorCodeValidation, "email is required"), "email")
	}
	hash, err := auth.HashPassword(a.Password)
	if err != nil {
		return domain.User{}, perr.WithField(err, "password")
	}
	role := a.Role
	if role == "" {
		role = domain.RoleUser
	}
	id := s.newID()
	if err := s.repo.CreateCredential(ctx, email, id, hash); err != nil {
		return domain.User{}, err
	}
	u, err := s.repo.CreateProfile(ctx, domain.User{
		ID:    id,
		Email: email,
		Name:  strings.TrimSpace(fold.Clean(a.Name)),
		Role:  role,
		Theme: domain.ThemeSystem,
	})
	if err != nil {
		if cerr := s.repo.DeleteCredential(ctx, email); cerr != nil {
			logger.C(ctx).Error().Err(cerr).Str("email", email).Msg("orphan credential left after failed sign up")
		}
		return domain.User{}, err
	}
	return u, nil
}

// errBadCredentials is the single answer to every failed sign in
var errBadCredentials = perr.Unauthorizedf("invalid email or password")

// Authenticate checks a password and returns the account it opens
func (s *Svc) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	c, err := s.repo.Credential(ctx, email)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.User{}, errBadCredentials
		}
		return domain.User{}, err
	}
	if !auth.CheckPassword(c.Hash, password) {
		return domain.User{}, errBadCredentials
	}
	u, err := s.repo.Profiles.Get(ctx, c.UserID)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return domain.User{}, errBadCredentials
	}
	return u, err
}

// FindByEmail returns the account registered under email
func (s *Svc) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	c, err := s.repo.Credential(ctx, email)
	if err != nil {
		return domain.User{}, err
	}
	return s.repo.Profiles.Get(ctx, c.UserID)
}

// SetPassword replaces the password of the account registered under email
func (s *Svc) SetPassword(ctx context.Context, email, password string) (domain.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, perr.WithField(err, "password")
	}
	c, err := s.repo.SetHash(ctx, email, hash)
	if err != nil {
		return domain.User{}, err
	}
	return s.repo.Profiles.Get(ctx, c.UserID)
}

// Create registers an account on behalf of an admin
func (s *Svc) Create(ctx context.Context, in domain.CreateInput) (domain.User, error) {
	u, err := s.Register(ctx, domain.Account{Email: in.Email, Password: in.Password, Name: in.Name, Role: in.Role})
	if err != nil {
		return domain.User{}, err
	}
	s.publish(events.SignedUp, u)
	return u, nil
}

// SetRole changes the role of id; an empty role toggles between user and admin
// admins cannot change their own role
func (s *Svc) SetRole(ctx context.Context, actor, id, role string) (domain.User, error) {
	if actor == id {
		return domain.User{}, perr.Conflictf("you cannot change your own role")
	}
	u, err := s.repo.Profiles.Get(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if role == "" {
		role = domain.RoleAdmin
		if u.IsAdmin() {
			role = domain.RoleUser
		}
	}
	if role == u.Role {
		return u, nil
	}
	out, err := s.repo.Patch(ctx, id, map[string]any{"role": role})
	if err != nil {
		return domain.User{}, err
	}
	logger.C(ctx).Info().Str("target", id).Str("from", u.Role).Str("to", role).Msg("role changed")
	s.publish(events.RoleChanged, out)
	return out, nil
}

// Delete removes an account: profile, credential and avatar
func (s *Svc) Delete(ctx context.Context, actor, id string) error {
	if actor == id {
		return perr.Conflictf("you cannot delete your own account")
	}
	u, err := s.repo.Profiles.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteCredential(ctx, u.Email); err != nil {
		return err
	}
	if err := s.repo.Profiles.Delete(ctx, id); err != nil {
		return err
	}
	if s.blob != nil && u.ProfilePicturePath != "" {
		if err := s.blob.Delete(ctx, u.ProfilePicturePath); err != nil {
			logger.C(ctx).Warn().Err(err).Str("key", u.ProfilePicturePath).Msg("avatar not removed; the janitor will sweep it")
		}
	}
	s.publish(events.AccountDelete, u)
	return nil
}
