package domain

import "time"

// Token scopes embedded in signed credentials.
const (
	ScopeAccess  = "access_token"
	ScopeRefresh = "refresh_token"
)

// RefreshToken is a live session credential. The existence of a row is the
// authorization for a refresh operation; deleting it is the act of
// revocation.
type RefreshToken struct {
	Token     string
	UserID    int64
	SessionID string
	ExpiresAt time.Time
}

// LogoutAccessToken marks a still-unexpired access token as revoked.
// ExpiresAt is copied from the token's own expiry claim so the entry never
// outlives the token it blocks.
type LogoutAccessToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}
