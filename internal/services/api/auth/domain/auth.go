// Package domain holds auth request bodies and the ports auth depends on
package domain

import (
	"context"

	"atelier/internal/platform/auth"
	"atelier/internal/platform/events"
	users "atelier/internal/services/api/users/domain"
)

// Accounts is the users port auth signs people up and in through
type Accounts = users.AccountsPort

// User is the account a session belongs to
type User = users.User

// SignUpInput registers a new account
type SignUpInput struct {
	Email    string `json:"email" validate:"required,email,max=254" example:"ada@example.com"`
	Password string `json:"password" validate:"required,min=8,max=72" example:"correct horse"`
	Name     string `json:"name" validate:"required,min=1,max=100" example:"Ada"`
}

// SignInInput exchanges credentials for a session
type SignInInput struct {
	Email    string `json:"email" validate:"required,max=254" example:"ada@example.com"`
	Password string `json:"password" validate:"required,max=72" example:"correct horse"`
}

// RefreshInput carries a refresh token to rotate or revoke
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required,max=2048"`
}

// ResetRequestInput asks for a reset link
type ResetRequestInput struct {
	Email string `json:"email" validate:"required,email,max=254" example:"ada@example.com"`
}

// ResetConfirmInput sets a new password with a mailed token
type ResetConfirmInput struct {
	Token    string `json:"token" validate:"required,max=128"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Session is what sign up, sign in and refresh answer
type Session struct {
	User User `json:"user"`
	auth.Pair
}

// ServicePort is the auth workflow surface the http layer calls
type ServicePort interface {
	SignUp(ctx context.Context, in SignUpInput) (Session, error)
	SignIn(ctx context.Context, in SignInInput) (Session, error)
	Refresh(ctx context.Context, refreshToken string) (Session, error)
	SignOut(ctx context.Context, refreshToken string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, in ResetConfirmInput) error
	Me(ctx context.Context, userID string) (User, error)
	Subscribe(userID string) (<-chan events.Event, func())
}
