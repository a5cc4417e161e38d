package auth

import (
	"errors"

	perr "atelier/internal/platform/errors"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLen mirrors the validate tag on sign up bodies
const MinPasswordLen = 8

// Cost is the bcrypt work factor; tests lower it
var Cost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash of password
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLen {
		return "", perr.Newf(perr.ErrorCodeValidation, "password must be at least %d characters", MinPasswordLen)
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", perr.New(perr.ErrorCodeValidation, "password must be at most 72 bytes")
	}
	return string(b), err
}

// CheckPassword reports whether password matches hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
