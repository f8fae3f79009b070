package ports

import (
	"context"

	"github.com/photoshare/photoshare-api/internal/core/domain"
)

// SignupInput carries the fields of a new account request. The password is
// still plain text at this point; the service hashes it before persisting.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// UpdateInput carries a self-service profile update.
type UpdateInput struct {
	Username string
	Email    string
	Password string
}

// UserService covers account lifecycle operations. Every mutation keeps the
// user cache consistent: the entry is refreshed or dropped so readers never
// observe a revoked role or ban for longer than the cache TTL.
type UserService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	UpdateSelf(ctx context.Context, caller *domain.User, in UpdateInput) (*domain.User, error)
	DeleteUser(ctx context.Context, caller *domain.User, id int64) (*domain.User, error)
	SetActiveStatus(ctx context.Context, caller *domain.User, id int64, active bool) (*domain.User, error)
	SetRole(ctx context.Context, caller *domain.User, id int64, role domain.Role) (*domain.User, error)
}
