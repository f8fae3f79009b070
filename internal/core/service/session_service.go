package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/photoshare/photoshare-api/internal/api/metrics"
	"github.com/photoshare/photoshare-api/internal/core/domain"
	"github.com/photoshare/photoshare-api/internal/core/ports"
)

// sessionService owns the session state machine: a session is Issued at
// login, Refreshed when its refresh row is atomically replaced, Revoked when
// logout deletes the row and blacklists the access token, and Expired once
// the timestamps pass. One instance is constructed at process start and
// injected into every handler.
type sessionService struct {
	store  ports.CredentialStore
	cache  ports.UserCache
	hasher ports.PasswordHasher
	codec  *TokenCodec
	log    zerolog.Logger
}

// NewSessionService returns a SessionService implementation. The cache
// adapter owns its TTL; the session manager only decides when entries are
// written or dropped.
func NewSessionService(
	store ports.CredentialStore,
	cache ports.UserCache,
	hasher ports.PasswordHasher,
	codec *TokenCodec,
	log zerolog.Logger,
) ports.SessionService {
	return &sessionService{
		store:  store,
		cache:  cache,
		hasher: hasher,
		codec:  codec,
		log:    log,
	}
}

// Login authenticates email/password and issues a fresh session. The failure
// message never distinguishes an unknown email from a wrong password.
func (s *sessionService) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		metrics.LoginsTotal.WithLabelValues("banned").Inc()
		return nil, domain.ErrUserBanned
	}

	pair, err := s.mintSession(ctx, user)
	if err != nil {
		return nil, err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return pair, nil
}

// Refresh redeems a refresh token for a new pair. The conditional delete of
// the presented row is the serialization point: under concurrent redemption
// of the same token exactly one caller wins, everyone else sees
// ErrTokenNotFound.
func (s *sessionService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		metrics.RefreshesTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	user, err := s.store.FindUserByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Stay as vague as resolve: a signed token for a deleted
			// account must not confirm the account ever existed.
			metrics.RefreshesTotal.WithLabelValues("invalid").Inc()
			return nil, domain.ErrCouldNotValidate
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}

	deleted, err := s.store.DeleteRefreshToken(ctx, refreshToken, user.ID)
	if err != nil {
		return nil, fmt.Errorf("refresh: revoke old token: %w", err)
	}
	if !deleted {
		// Already redeemed, revoked by logout, or swept. Doubles as the
		// anti-replay check.
		metrics.RefreshesTotal.WithLabelValues("replayed").Inc()
		return nil, domain.ErrTokenNotFound
	}

	pair, err := s.mintSession(ctx, user)
	if err != nil {
		return nil, err
	}
	metrics.RefreshesTotal.WithLabelValues("success").Inc()
	return pair, nil
}

// Logout revokes the caller's current session: the refresh row dies and the
// presented access token lands on the blacklist with its own expiry, so the
// entry never outlives the token it blocks.
func (s *sessionService) Logout(ctx context.Context, accessToken string, caller *domain.User) (*domain.User, error) {
	claims, err := s.codec.VerifyAccess(accessToken)
	if err != nil {
		return nil, err
	}
	if claims.Subject != caller.Email {
		return nil, domain.ErrCouldNotValidate
	}

	deleted, err := s.store.DeleteRefreshTokenBySession(ctx, claims.SessionID, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("logout: revoke session: %w", err)
	}
	if !deleted {
		return nil, domain.ErrTokenNotFound
	}

	if err := s.store.InsertLogoutToken(ctx, &domain.LogoutAccessToken{
		Token:     accessToken,
		ExpiresAt: claims.ExpiresAt.Time,
	}); err != nil {
		return nil, fmt.Errorf("logout: blacklist access token: %w", err)
	}

	s.dropFromCache(ctx, caller.Email)
	metrics.LogoutsTotal.Inc()
	return caller, nil
}

// Resolve turns a bearer access token into the caller's principal: verify
// the signature and scope, load the user (cache first, store of record on a
// miss), reject blacklisted tokens and banned accounts.
func (s *sessionService) Resolve(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.codec.VerifyAccess(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.lookupUser(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	loggedOut, err := s.store.IsLoggedOut(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("resolve: blacklist check: %w", err)
	}
	if loggedOut {
		metrics.BlacklistHitsTotal.Inc()
		return nil, domain.ErrLogInAgain
	}

	if !user.IsActive {
		return nil, domain.ErrUserBanned
	}
	return user, nil
}

// Sweep deletes expired refresh and blacklist rows.
func (s *sessionService) Sweep(ctx context.Context) error {
	n, err := s.store.SweepExpired(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("sweep expired tokens: %w", err)
	}
	if n > 0 {
		metrics.SweptRowsTotal.Add(float64(n))
		s.log.Info().Int64("rows", n).Msg("swept expired token rows")
	}
	return nil
}

// mintSession creates a new session id, signs both tokens against it and
// persists the refresh row. Shared by login and refresh so rotation issues
// credentials exactly the way login does.
func (s *sessionService) mintSession(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	sessionID := uuid.NewString()

	access, accessExp, err := s.codec.IssueAccess(user.Email, sessionID)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, refreshExp, err := s.codec.IssueRefresh(user.Email, sessionID)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := s.store.InsertRefreshToken(ctx, &domain.RefreshToken{
		Token:     refresh,
		UserID:    user.ID,
		SessionID: sessionID,
		ExpiresAt: refreshExp,
	}); err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// lookupUser reads through the cache. A cache infrastructure failure
// degrades to a store read; a store miss is reported vaguely because resolve
// must not reveal account existence.
func (s *sessionService) lookupUser(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.cache.Get(ctx, email)
	switch {
	case err == nil:
		metrics.ResolveCacheTotal.WithLabelValues("hit").Inc()
		return user, nil
	case !errors.Is(err, domain.ErrCacheMiss):
		s.log.Warn().Err(err).Msg("user cache read failed, falling back to store")
	default:
		metrics.ResolveCacheTotal.WithLabelValues("miss").Inc()
	}

	user, err = s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrCouldNotValidate
		}
		return nil, fmt.Errorf("resolve: load user: %w", err)
	}

	// Best effort: a failed cache write only costs the next reader a
	// store round-trip.
	if err := s.cache.Set(ctx, user); err != nil {
		s.log.Warn().Err(err).Msg("user cache write failed")
	}
	return user, nil
}

func (s *sessionService) dropFromCache(ctx context.Context, email string) {
	if err := s.cache.Delete(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("user cache delete failed")
	}
}
