package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/photoshare/photoshare-api/internal/core/domain"
)

// UserCache stores JSON-serialized user snapshots under user:<email> with a
// fixed TTL. It is a best-effort accelerator over the credential store:
// entries may be stale by at most the TTL and existence decisions are never
// made from the cache alone.
type UserCache struct {
	client *redis.Client
	ttl    time.Duration
}

// cachedUser round-trips every User field exactly, including the password
// hash, which the public JSON tags on domain.User deliberately omit.
type cachedUser struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	AvatarURL    string    `json:"avatar_url"`
	IsActive     bool      `json:"is_active"`
}

// NewUserCache wraps client with the given snapshot TTL.
func NewUserCache(client *redis.Client, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &UserCache{client: client, ttl: ttl}
}

func (c *UserCache) Get(ctx context.Context, email string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, userKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("user cache get: %w", err)
	}

	var cu cachedUser
	if err := json.Unmarshal(raw, &cu); err != nil {
		// A corrupt entry behaves like a miss; the next Set overwrites it.
		return nil, domain.ErrCacheMiss
	}
	return &domain.User{
		ID:           cu.ID,
		Username:     cu.Username,
		Email:        cu.Email,
		PasswordHash: cu.PasswordHash,
		Role:         domain.Role(cu.Role),
		CreatedAt:    cu.CreatedAt,
		AvatarURL:    cu.AvatarURL,
		IsActive:     cu.IsActive,
	}, nil
}

func (c *UserCache) Set(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(cachedUser{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		CreatedAt:    user.CreatedAt,
		AvatarURL:    user.AvatarURL,
		IsActive:     user.IsActive,
	})
	if err != nil {
		return fmt.Errorf("user cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, userKey(user.Email), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("user cache set: %w", err)
	}
	return nil
}

func (c *UserCache) Delete(ctx context.Context, email string) error {
	if err := c.client.Del(ctx, userKey(email)).Err(); err != nil {
		return fmt.Errorf("user cache delete: %w", err)
	}
	return nil
}

func userKey(email string) string {
	return "user:" + email
}
