// Package memory implements the credential store on in-process maps. It
// backs the service tests and local development; the mutex gives it the same
// atomic conditional-delete semantics the Mongo adapter gets from DeleteOne.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/photoshare/photoshare-api/internal/core/domain"
)

type CredentialStore struct {
	mu sync.Mutex

	nextID  int64
	users   map[int64]*domain.User
	refresh map[string]*domain.RefreshToken // keyed by token
	logout  map[string]time.Time            // token -> expires_at
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{
		users:   make(map[int64]*domain.User),
		refresh: make(map[string]*domain.RefreshToken),
		logout:  make(map[string]time.Time),
	}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

func (s *CredentialStore) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return nil, domain.ErrEmailExists
		}
		if existing.Username == user.Username {
			return nil, domain.ErrUsernameExists
		}
	}

	s.nextID++
	created := cloneUser(user)
	created.ID = s.nextID
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	s.users[created.ID] = created
	return cloneUser(created), nil
}

func (s *CredentialStore) FindUserByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (s *CredentialStore) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *CredentialStore) FindUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *CredentialStore) ListUsers(_ context.Context) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]*domain.User, 0, len(s.users))
	for id := int64(1); id <= s.nextID; id++ {
		if u, ok := s.users[id]; ok {
			users = append(users, cloneUser(u))
		}
	}
	return users, nil
}

func (s *CredentialStore) UpdateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	updated := cloneUser(user)
	updated.CreatedAt = existing.CreatedAt
	s.users[user.ID] = updated
	return cloneUser(updated), nil
}

func (s *CredentialStore) DeleteUser(_ context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	delete(s.users, id)
	for token, rt := range s.refresh {
		if rt.UserID == id {
			delete(s.refresh, token)
		}
	}
	return cloneUser(user), nil
}

func (s *CredentialStore) InsertRefreshToken(_ context.Context, token *domain.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *token
	s.refresh[token.Token] = &clone
	return nil
}

func (s *CredentialStore) DeleteRefreshToken(_ context.Context, token string, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rt, ok := s.refresh[token]
	if !ok || rt.UserID != userID {
		return false, nil
	}
	delete(s.refresh, token)
	return true, nil
}

func (s *CredentialStore) DeleteRefreshTokenBySession(_ context.Context, sessionID string, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, rt := range s.refresh {
		if rt.SessionID == sessionID && rt.UserID == userID {
			delete(s.refresh, token)
			return true, nil
		}
	}
	return false, nil
}

func (s *CredentialStore) InsertLogoutToken(_ context.Context, token *domain.LogoutAccessToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logout[token.Token] = token.ExpiresAt
	return nil
}

func (s *CredentialStore) IsLoggedOut(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.logout[token]
	return ok, nil
}

func (s *CredentialStore) SweepExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for token, rt := range s.refresh {
		if rt.ExpiresAt.Before(now) {
			delete(s.refresh, token)
			n++
		}
	}
	for token, expiresAt := range s.logout {
		if expiresAt.Before(now) {
			delete(s.logout, token)
			n++
		}
	}
	return n, nil
}

// RefreshTokenBySession exposes the stored row for a session id. Test helper.
func (s *CredentialStore) RefreshTokenBySession(sessionID string) *domain.RefreshToken {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rt := range s.refresh {
		if rt.SessionID == sessionID {
			clone := *rt
			return &clone
		}
	}
	return nil
}
