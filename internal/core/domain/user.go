package domain

import (
	"errors"
	"time"
)

// Role is the closed set of privilege levels a user can hold.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleStandard  Role = "standard"
)

// rolePrivilege orders roles from least to most privileged. Authorization
// decisions compare privilege levels instead of matching role strings at
// call sites.
var rolePrivilege = map[Role]int{
	RoleStandard:  0,
	RoleModerator: 1,
	RoleAdmin:     2,
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := rolePrivilege[r]
	return ok
}

// AtLeast reports whether r carries at least the privilege of other.
func (r Role) AtLeast(other Role) bool {
	return rolePrivilege[r] >= rolePrivilege[other]
}

var (
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrCouldNotValidate   = errors.New("could not validate credentials")
	ErrInvalidScope       = errors.New("invalid scope")
	ErrLogInAgain         = errors.New("you need to log in again")

	ErrUserBanned       = errors.New("user is banned")
	ErrForbidden        = errors.New("operation forbidden")
	ErrOperationOnAdmin = errors.New("only admin can perform operations on users with admin role")

	ErrUserNotFound  = errors.New("user not found")
	ErrTokenNotFound = errors.New("token not found")

	ErrUsernameExists = errors.New("user with this username already exists")
	ErrEmailExists    = errors.New("user with this email already exists")

	// ErrCacheMiss signals an absent cache entry, as opposed to an
	// unreachable cache, which surfaces as a plain infrastructure error.
	ErrCacheMiss = errors.New("user not cached")
)

// User is the identity record backing every authenticated request.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	AvatarURL    string    `json:"avatar_url"`
	IsActive     bool      `json:"is_active"`
}
