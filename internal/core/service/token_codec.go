package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/photoshare/photoshare-api/internal/core/domain"
)

// Claims is the payload carried by both access and refresh tokens. Subject
// is the user's email; SessionID correlates an access token with its paired
// refresh token.
type Claims struct {
	Scope     string `json:"scope"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies the compact tokens used as session
// credentials. It holds no mutable state and is safe for unlimited
// concurrent use.
type TokenCodec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenCodec builds a codec signing with HS256.
func NewTokenCodec(secret string, accessTTL, refreshTTL time.Duration) *TokenCodec {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenCodec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssueAccess signs a short-lived access token for email bound to sessionID.
func (c *TokenCodec) IssueAccess(email, sessionID string) (string, time.Time, error) {
	return c.issue(email, sessionID, domain.ScopeAccess, c.accessTTL)
}

// IssueRefresh signs a long-lived refresh token for email bound to sessionID.
func (c *TokenCodec) IssueRefresh(email, sessionID string) (string, time.Time, error) {
	return c.issue(email, sessionID, domain.ScopeRefresh, c.refreshTTL)
}

func (c *TokenCodec) issue(email, sessionID, scope string, ttl time.Duration) (string, time.Time, error) {
	now := c.now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		Scope:     scope,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// VerifyAccess validates token and requires the access scope.
func (c *TokenCodec) VerifyAccess(token string) (*Claims, error) {
	return c.verify(token, domain.ScopeAccess)
}

// VerifyRefresh validates token and requires the refresh scope.
func (c *TokenCodec) VerifyRefresh(token string) (*Claims, error) {
	return c.verify(token, domain.ScopeRefresh)
}

// verify treats bad signature, malformed structure and past expiry
// identically: the caller only learns that the credentials could not be
// validated. A valid token with the wrong scope is its own failure.
func (c *TokenCodec) verify(token, wantScope string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return c.secret, nil
		},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrCouldNotValidate
	}
	if claims.Subject == "" {
		return nil, domain.ErrCouldNotValidate
	}
	if claims.Scope != wantScope {
		return nil, domain.ErrInvalidScope
	}
	return claims, nil
}
