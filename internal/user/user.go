package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalid            = errors.New("invalid user data")
)

// User is either a registered account or a guest. Guests have neither an
// email nor a password hash.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        *string
	PasswordHash *string
	IsGuest      bool
	CreatedAt    time.Time
}

// EmailAddress returns the email or an empty string for guests.
func (u *User) EmailAddress() string {
	if u.Email == nil {
		return ""
	}

	return *u.Email
}
