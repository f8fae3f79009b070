package handler

import (
	"time"

	"github.com/photoshare/photoshare-api/internal/core/domain"
	"github.com/photoshare/photoshare-api/internal/core/policy"
)

// The three disjoint user projections. Which one a caller receives is a pure
// policy decision; handlers never assemble shapes ad hoc.

// userResponse is the full record: admin view, or the user's own.
type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	AvatarURL string    `json:"avatar_url"`
	IsActive  bool      `json:"is_active"`
}

// userModeratorResponse adds the activity status to the public shape but
// exposes no role or security fields.
type userModeratorResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	AvatarURL string    `json:"avatar_url"`
	IsActive  bool      `json:"is_active"`
}

// userPublicResponse carries identity fields only.
type userPublicResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	AvatarURL string    `json:"avatar_url"`
}

// userInfoResponse wraps a full record with a human-readable outcome, used
// by mutations that confirm what they did.
type userInfoResponse struct {
	User   userResponse `json:"user"`
	Detail string       `json:"detail"`
}

// tokenResponse is the login/refresh envelope.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func fullUser(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		AvatarURL: u.AvatarURL,
		IsActive:  u.IsActive,
	}
}

func moderatorUser(u *domain.User) userModeratorResponse {
	return userModeratorResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		AvatarURL: u.AvatarURL,
		IsActive:  u.IsActive,
	}
}

func publicUser(u *domain.User) userPublicResponse {
	return userPublicResponse{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
		AvatarURL: u.AvatarURL,
	}
}

// shapeUser projects target through the view the policy grants caller.
func shapeUser(caller, target *domain.User) any {
	switch policy.ViewFor(caller, target) {
	case policy.ViewFull:
		return fullUser(target)
	case policy.ViewModerator:
		return moderatorUser(target)
	default:
		return publicUser(target)
	}
}

func newTokenResponse(pair *domain.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	}
}
