package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/photoshare/photoshare-api/internal/core/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) (*UserCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewUserCache(client, ttl), mr
}

func testUser() *domain.User {
	return &domain.User{
		ID:           7,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Role:         domain.RoleModerator,
		CreatedAt:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		AvatarURL:    "https://www.gravatar.com/avatar/abc?s=255",
		IsActive:     true,
	}
}

func TestUserCache_SetGetDelete(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()
	want := testUser()

	if err := cache.Set(ctx, want); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	got, err := cache.Get(ctx, want.Email)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if *got != *want {
		t.Fatalf("snapshot mismatch:\n got %+v\nwant %+v", got, want)
	}

	if err := cache.Delete(ctx, want.Email); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := cache.Get(ctx, want.Email); !errors.Is(err, domain.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestUserCache_MissForUnknownEmail(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	if _, err := cache.Get(context.Background(), "nobody@example.com"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestUserCache_EntryExpires(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	user := testUser()

	if err := cache.Set(ctx, user); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if got := mr.TTL(userKey(user.Email)); got != time.Minute {
		t.Fatalf("expected 1m ttl, got %v", got)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := cache.Get(ctx, user.Email); !errors.Is(err, domain.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss after ttl, got %v", err)
	}
}

func TestUserCache_CorruptEntryBehavesLikeMiss(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	if err := mr.Set(userKey("alice@example.com"), "{not json"); err != nil {
		t.Fatalf("seed corrupt entry: %v", err)
	}
	if _, err := cache.Get(context.Background(), "alice@example.com"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss for corrupt entry, got %v", err)
	}
}

func TestUserCache_InfrastructureErrorIsNotAMiss(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	mr.Close()

	_, err := cache.Get(context.Background(), "alice@example.com")
	if err == nil || errors.Is(err, domain.ErrCacheMiss) {
		t.Fatalf("expected infrastructure error, got %v", err)
	}
}
