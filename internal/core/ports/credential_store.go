package ports

import (
	"context"
	"time"

	"github.com/photoshare/photoshare-api/internal/core/domain"
)

// CredentialStore is the persistence contract for the three auth records:
// users, refresh tokens and the logout blacklist. Absence is reported with
// the domain sentinels (ErrUserNotFound and friends); any other error is an
// infrastructure failure and must be propagated as such, never coerced into
// a not-found.
type CredentialStore interface {
	// User records.
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	FindUserByID(ctx context.Context, id int64) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	// DeleteUser removes the user and, by cascade, its refresh tokens.
	DeleteUser(ctx context.Context, id int64) (*domain.User, error)

	// Session credentials.
	InsertRefreshToken(ctx context.Context, token *domain.RefreshToken) error
	// DeleteRefreshToken atomically removes the row matching (token, userID)
	// and reports whether a row was actually deleted. The conditional delete
	// is the serialization point that makes refresh redemption single-use.
	DeleteRefreshToken(ctx context.Context, token string, userID int64) (bool, error)
	DeleteRefreshTokenBySession(ctx context.Context, sessionID string, userID int64) (bool, error)

	// Logout blacklist.
	InsertLogoutToken(ctx context.Context, token *domain.LogoutAccessToken) error
	IsLoggedOut(ctx context.Context, token string) (bool, error)

	// SweepExpired removes refresh and blacklist rows whose expiry has
	// passed. Periodic maintenance, not latency-critical.
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}
