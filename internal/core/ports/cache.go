package ports

import (
	"context"

	"github.com/photoshare/photoshare-api/internal/core/domain"
)

// UserCache is a best-effort accelerator over the credential store. Entries
// may be stale by at most the configured TTL and the cache is never a source
// of truth for existence. Get returns domain.ErrCacheMiss for an absent
// entry; every other error means the cache itself is unhealthy.
type UserCache interface {
	Get(ctx context.Context, email string) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, email string) error
}
