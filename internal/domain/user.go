package domain

import (
	"regexp"
	"time"
)

type UserRole string

const (
	UserRoleUser      UserRole = "user"
	UserRoleAdmin     UserRole = "admin"
	UserRoleSuperuser UserRole = "superuser"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,64}$`)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleUser, UserRoleAdmin, UserRoleSuperuser:
		return true
	}
	return false
}

// Rank orders roles so that a higher rank includes the lower ones.
func (r UserRole) Rank() int {
	switch r {
	case UserRoleUser:
		return 1
	case UserRoleAdmin:
		return 2
	case UserRoleSuperuser:
		return 3
	}
	return 0
}

type User struct {
	ID           int32     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	Active       bool      `json:"active"`
	CreatedOn    time.Time `json:"created_on"`
	UpdatedOn    time.Time `json:"updated_on"`
}

func (u *User) Validate() error {
	if !usernameRe.MatchString(u.Username) {
		return NewValidationError("username must be 3-64 characters of letters, digits, '.', '_' or '-'")
	}
	if !u.Role.Valid() {
		return NewValidationError("invalid role %q", u.Role)
	}
	if len(u.Email) > 255 {
		return NewValidationError("email too long")
	}
	return nil
}

const MinPasswordLength = 8

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return NewValidationError("password must be at least %d characters", MinPasswordLength)
	}
	if len(password) > 72 {
		// bcrypt ignores anything past 72 bytes
		return NewValidationError("password must be at most 72 characters")
	}
	return nil
}
