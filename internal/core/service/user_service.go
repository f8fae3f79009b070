package service

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/photoshare/photoshare-api/internal/core/domain"
	"github.com/photoshare/photoshare-api/internal/core/policy"
	"github.com/photoshare/photoshare-api/internal/core/ports"
)

const gravatarBase = "https://www.gravatar.com/avatar/"

type userService struct {
	store  ports.CredentialStore
	cache  ports.UserCache
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

// NewUserService returns a UserService implementation.
func NewUserService(
	store ports.CredentialStore,
	cache ports.UserCache,
	hasher ports.PasswordHasher,
	log zerolog.Logger,
) ports.UserService {
	return &userService{store: store, cache: cache, hasher: hasher, log: log}
}

// Signup creates an account. Email and username uniqueness are checked up
// front so the caller gets a precise conflict message; new accounts start as
// active standard users with a gravatar-derived avatar.
func (s *userService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	if _, err := s.store.FindUserByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("signup: %w", err)
	}
	if _, err := s.store.FindUserByUsername(ctx, in.Username); err == nil {
		return nil, domain.ErrUsernameExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("signup: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}

	created, err := s.store.CreateUser(ctx, &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleStandard,
		AvatarURL:    gravatarURL(in.Email),
		IsActive:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	return created, nil
}

// GetUser loads one user record; the transport layer shapes it per caller
// role via policy.ViewFor.
func (s *userService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.store.FindUserByID(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.store.ListUsers(ctx)
}

// UpdateSelf changes the caller's own profile. Username and email stay
// unique across the system; the cached snapshot is rewritten so stale
// profile data never outlives the cache TTL.
func (s *userService) UpdateSelf(ctx context.Context, caller *domain.User, in ports.UpdateInput) (*domain.User, error) {
	if in.Username != caller.Username {
		if _, err := s.store.FindUserByUsername(ctx, in.Username); err == nil {
			return nil, domain.ErrUsernameExists
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}
	if in.Email != caller.Email {
		if _, err := s.store.FindUserByEmail(ctx, in.Email); err == nil {
			return nil, domain.ErrEmailExists
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("update user: hash password: %w", err)
	}

	updated := *caller
	updated.Username = in.Username
	updated.Email = in.Email
	updated.PasswordHash = hash

	user, err := s.store.UpdateUser(ctx, &updated)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	// The email is part of the cache key: drop the old entry, refresh the
	// new one.
	s.invalidate(ctx, caller.Email)
	s.refresh(ctx, user)
	return user, nil
}

// DeleteUser removes an account (admin or self per policy) together with its
// refresh tokens, and drops the cached snapshot.
func (s *userService) DeleteUser(ctx context.Context, caller *domain.User, id int64) (*domain.User, error) {
	target, err := s.store.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanDeleteUser(caller, target); err != nil {
		return nil, err
	}

	deleted, err := s.store.DeleteUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete user: %w", err)
	}
	s.invalidate(ctx, deleted.Email)
	return deleted, nil
}

// SetActiveStatus bans or unbans an account. The cache entry is dropped so a
// ban takes effect on the next resolve, not after the TTL.
func (s *userService) SetActiveStatus(ctx context.Context, caller *domain.User, id int64, active bool) (*domain.User, error) {
	target, err := s.store.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanSetActiveStatus(caller, target); err != nil {
		return nil, err
	}

	target.IsActive = active
	user, err := s.store.UpdateUser(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("set active status: %w", err)
	}
	s.invalidate(ctx, user.Email)
	return user, nil
}

// SetRole changes an account's role, admin only.
func (s *userService) SetRole(ctx context.Context, caller *domain.User, id int64, role domain.Role) (*domain.User, error) {
	if err := policy.CanSetRole(caller); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, domain.ErrForbidden
	}

	target, err := s.store.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	target.Role = role
	user, err := s.store.UpdateUser(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("set role: %w", err)
	}
	s.invalidate(ctx, user.Email)
	return user, nil
}

func (s *userService) invalidate(ctx context.Context, email string) {
	if err := s.cache.Delete(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("user cache delete failed")
	}
}

func (s *userService) refresh(ctx context.Context, user *domain.User) {
	if err := s.cache.Set(ctx, user); err != nil {
		s.log.Warn().Err(err).Str("email", user.Email).Msg("user cache write failed")
	}
}

// gravatarURL derives the default avatar from the account email, the same
// scheme gravatar uses: md5 of the trimmed, lowercased address.
func gravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("%s%x?s=255", gravatarBase, sum)
}
