package repository

import (
	"context"
	"time"

	"storefront/internal/model"
)

// UserRepository covers auth_users and profiles.
type UserRepository interface {
	// Create returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, email, passwordHash string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	SetPasswordHash(ctx context.Context, id, passwordHash string) error
	CreateProfile(ctx context.Context, p *model.Profile) (*model.Profile, error)
	FindProfile(ctx context.Context, id string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, id string, fullName, phone *string) (*model.Profile, error)
	// ListProfiles returns profiles newest first with their roles aggregated.
	ListProfiles(ctx context.Context) ([]model.ProfileWithRoles, error)
	CountProfiles(ctx context.Context) (int, error)
}

// RoleRepository covers user_roles.
type RoleRepository interface {
	// Grant is idempotent.
	Grant(ctx context.Context, userID string, role model.Role) error
	// Revoke reports whether a row was deleted.
	Revoke(ctx context.Context, userID string, role model.Role) (bool, error)
	Has(ctx context.Context, userID string, role model.Role) (bool, error)
	List(ctx context.Context, userID string) ([]model.Role, error)
}

// TokenRepository records revoked access tokens.
type TokenRepository interface {
	Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// PurgeExpired deletes revocations whose token has expired anyway.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
