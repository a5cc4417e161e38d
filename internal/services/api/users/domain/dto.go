package domain

import "atelier/internal/core/listing"

// ProfileInput replaces the editable profile fields; role and email never change here
type ProfileInput struct {
	Name        string      `json:"name" validate:"required,min=1,max=100" example:"Ada"`
	DOB         string      `json:"dob,omitempty" validate:"omitempty,datetime=2006-01-02" example:"1990-12-10"`
	Bio         string      `json:"bio,omitempty" validate:"omitempty,max=2000"`
	Interests   []string    `json:"interests,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
	SocialLinks SocialLinks `json:"social_links"`
}

// ProfilePatch updates only the fields that are set
type ProfilePatch struct {
	Name        *string      `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	DOB         *string      `json:"dob,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Bio         *string      `json:"bio,omitempty" validate:"omitempty,max=2000"`
	Interests   *[]string    `json:"interests,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
	SocialLinks *SocialLinks `json:"social_links,omitempty"`
}

// Empty reports whether p changes nothing
func (p ProfilePatch) Empty() bool {
	return p.Name == nil && p.DOB == nil && p.Bio == nil && p.Interests == nil && p.SocialLinks == nil
}

// Preferences are per user display settings
type Preferences struct {
	Theme string `json:"theme" validate:"required,oneof=light dark system" example:"dark"`
}

// ListQuery lists users for admins
// q, role and sort narrow the fetched page only
type ListQuery struct {
	listing.Params `query:",squash"`
	Role           string `query:"role" validate:"omitempty,oneof=user admin"`
}

// CreateInput is an admin created account
type CreateInput struct {
	Email    string `json:"email" validate:"required,email,max=254" example:"grace@example.com"`
	Password string `json:"password" validate:"required,min=8,max=72" example:"correct horse"`
	Name     string `json:"name" validate:"required,min=1,max=100" example:"Grace"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=user admin" example:"user"`
}

// RoleInput sets a role; an empty role toggles between user and admin
type RoleInput struct {
	Role string `json:"role" validate:"omitempty,oneof=user admin" example:"admin"`
}

// Account is what auth registers on sign up
type Account struct {
	Email    string
	Password string
	Name     string
	Role     string
}
