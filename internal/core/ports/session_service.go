package ports

import (
	"context"

	"github.com/photoshare/photoshare-api/internal/core/domain"
)

// SessionService orchestrates login, refresh, logout and caller resolution.
type SessionService interface {
	// Login exchanges credentials for a fresh access/refresh pair bound to
	// a new session id.
	Login(ctx context.Context, email, password string) (*domain.TokenPair, error)
	// Refresh redeems a refresh token for a new pair. A refresh token can
	// be redeemed at most once.
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	// Logout revokes the caller's session and blacklists the presented
	// access token. Returns the caller's record for confirmation.
	Logout(ctx context.Context, accessToken string, caller *domain.User) (*domain.User, error)
	// Resolve is the gate every protected operation calls first: it turns a
	// bearer access token into the caller's principal.
	Resolve(ctx context.Context, accessToken string) (*domain.User, error)
	// Sweep removes expired refresh and blacklist rows.
	Sweep(ctx context.Context) error
}
