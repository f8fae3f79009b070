package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/photoshare/photoshare-api/internal/core/domain"
)

const (
	usersCollection    = "users"
	refreshCollection  = "refresh_tokens"
	logoutCollection   = "logout_access_tokens"
	countersCollection = "counters"
)

// CredentialStore is the MongoDB adapter for the auth persistence contract.
// User ids are stable int64 keys drawn from a counters document, matching
// the relational shape the rest of the system expects.
type CredentialStore struct {
	users    *mongo.Collection
	refresh  *mongo.Collection
	logout   *mongo.Collection
	counters *mongo.Collection
}

// NewCredentialStore wires the adapter onto db.
func NewCredentialStore(db *mongo.Database) *CredentialStore {
	return &CredentialStore{
		users:    db.Collection(usersCollection),
		refresh:  db.Collection(refreshCollection),
		logout:   db.Collection(logoutCollection),
		counters: db.Collection(countersCollection),
	}
}

type userDoc struct {
	ID           int64     `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"created_at"`
	AvatarURL    string    `bson:"avatar_url"`
	IsActive     bool      `bson:"is_active"`
}

type refreshDoc struct {
	Token     string    `bson:"refresh_token"`
	UserID    int64     `bson:"user_id"`
	SessionID string    `bson:"session_id"`
	ExpiresAt time.Time `bson:"expires_at"`
}

type logoutDoc struct {
	Token     string    `bson:"logout_access_token"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// EnsureIndexes creates the unique and sweep indexes. Call once at startup.
func (s *CredentialStore) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	if _, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
	}); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	if _, err := s.refresh.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "refresh_token", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "session_id", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "expires_at", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("refresh token indexes: %w", err)
	}
	if _, err := s.logout.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "logout_access_token", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "expires_at", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("logout token indexes: %w", err)
	}
	return nil
}

// nextID draws the next value from the named counter atomically.
func (s *CredentialStore) nextID(ctx context.Context, name string) (int64, error) {
	var counter struct {
		Value int64 `bson:"value"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next id for %s: %w", name, err)
	}
	return counter.Value, nil
}

func (s *CredentialStore) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	id, err := s.nextID(ctx, usersCollection)
	if err != nil {
		return nil, err
	}

	doc := userDoc{
		ID:           id,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		CreatedAt:    time.Now().UTC(),
		AvatarURL:    user.AvatarURL,
		IsActive:     user.IsActive,
	}
	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *CredentialStore) FindUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *CredentialStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *CredentialStore) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.findUser(ctx, bson.M{"username": username})
}

func (s *CredentialStore) findUser(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *CredentialStore) ListUsers(ctx context.Context) ([]*domain.User, error) {
	cur, err := s.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []*domain.User
	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *CredentialStore) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	update := bson.M{"$set": bson.M{
		"username":      user.Username,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"role":          string(user.Role),
		"avatar_url":    user.AvatarURL,
		"is_active":     user.IsActive,
	}}
	var doc userDoc
	err := s.users.FindOneAndUpdate(ctx,
		bson.M{"_id": user.ID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return doc.toDomain(), nil
}

// DeleteUser removes the account and cascades to its refresh tokens.
func (s *CredentialStore) DeleteUser(ctx context.Context, id int64) (*domain.User, error) {
	var doc userDoc
	if err := s.users.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("delete user: %w", err)
	}
	if _, err := s.refresh.DeleteMany(ctx, bson.M{"user_id": id}); err != nil {
		return nil, fmt.Errorf("delete user refresh tokens: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *CredentialStore) InsertRefreshToken(ctx context.Context, token *domain.RefreshToken) error {
	doc := refreshDoc{
		Token:     token.Token,
		UserID:    token.UserID,
		SessionID: token.SessionID,
		ExpiresAt: token.ExpiresAt,
	}
	if _, err := s.refresh.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

// DeleteRefreshToken is the single conditional delete that serializes
// refresh redemption: DeletedCount tells racing callers apart.
func (s *CredentialStore) DeleteRefreshToken(ctx context.Context, token string, userID int64) (bool, error) {
	res, err := s.refresh.DeleteOne(ctx, bson.M{"refresh_token": token, "user_id": userID})
	if err != nil {
		return false, fmt.Errorf("delete refresh token: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (s *CredentialStore) DeleteRefreshTokenBySession(ctx context.Context, sessionID string, userID int64) (bool, error) {
	res, err := s.refresh.DeleteOne(ctx, bson.M{"session_id": sessionID, "user_id": userID})
	if err != nil {
		return false, fmt.Errorf("delete refresh token by session: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (s *CredentialStore) InsertLogoutToken(ctx context.Context, token *domain.LogoutAccessToken) error {
	doc := logoutDoc{Token: token.Token, ExpiresAt: token.ExpiresAt}
	if _, err := s.logout.InsertOne(ctx, doc); err != nil {
		// The same token blacklisted twice is still logged out.
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("insert logout token: %w", err)
	}
	return nil
}

func (s *CredentialStore) IsLoggedOut(ctx context.Context, token string) (bool, error) {
	n, err := s.logout.CountDocuments(ctx, bson.M{"logout_access_token": token}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("blacklist lookup: %w", err)
	}
	return n > 0, nil
}

func (s *CredentialStore) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	filter := bson.M{"expires_at": bson.M{"$lt": now}}

	refreshRes, err := s.refresh.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("sweep refresh tokens: %w", err)
	}
	logoutRes, err := s.logout.DeleteMany(ctx, filter)
	if err != nil {
		return refreshRes.DeletedCount, fmt.Errorf("sweep logout tokens: %w", err)
	}
	return refreshRes.DeletedCount + logoutRes.DeletedCount, nil
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         domain.Role(d.Role),
		CreatedAt:    d.CreatedAt,
		AvatarURL:    d.AvatarURL,
		IsActive:     d.IsActive,
	}
}
