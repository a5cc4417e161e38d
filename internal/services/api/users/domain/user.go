// Package domain holds the users model and the DTOs of its http and service contracts
package domain

import (
	"time"

	"atelier/internal/modkit/repokit"
)

// Roles a stored profile can carry
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Themes a user can pick
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// SocialLinks are optional profile links
type SocialLinks struct {
	LinkedIn string `json:"linkedin,omitempty" validate:"omitempty,url,max=300" example:"https://linkedin.com/in/ada"`
	Twitter  string `json:"twitter,omitempty" validate:"omitempty,url,max=300" example:"https://twitter.com/ada"`
	Facebook string `json:"facebook,omitempty" validate:"omitempty,url,max=300"`
}

// User is a stored profile
type User struct {
	ID                 string      `json:"id" example:"5b1c8f0e-7f7e-4a43-9d55-3a8a1d9b2f10"`
	Email              string      `json:"email" example:"ada@example.com"`
	Name               string      `json:"name" example:"Ada"`
	DOB                string      `json:"dob,omitempty" example:"1990-12-10"`
	Bio                string      `json:"bio,omitempty"`
	Interests          []string    `json:"interests,omitempty"`
	SocialLinks        SocialLinks `json:"social_links"`
	ProfilePicturePath string      `json:"profile_picture_path,omitempty"`
	ProfilePictureURL  string      `json:"profile_picture_url,omitempty"`
	Role               string      `json:"role" example:"user"`
	Theme              string      `json:"theme,omitempty" example:"system"`
	CreatedAt          time.Time   `json:"created_at"`
}

// IsAdmin reports whether u holds the admin role
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// RecordID implements listing.Record
func (u User) RecordID() string { return u.ID }

// SearchText implements listing.Record
func (u User) SearchText() []string { return []string{u.Name, u.Email} }

// Categories implements listing.Record; users are grouped by role
func (u User) Categories() []string { return []string{u.Role} }

// SortKey implements listing.Record
func (u User) SortKey(field string) (string, bool) {
	switch field {
	case FieldCreatedAt:
		return repokit.TimeKey(u.CreatedAt), true
	case FieldName:
		return u.Name, u.Name != ""
	case FieldEmail:
		return u.Email, u.Email != ""
	}
	return "", false
}

// Orderable fields of the users collection
const (
	FieldCreatedAt = "created_at"
	FieldName      = "name"
	FieldEmail     = "email"
)

// Credential is the sign in record of one account, keyed by normalized email
type Credential struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Hash      string    `json:"hash"`
	CreatedAt time.Time `json:"created_at"`
}
