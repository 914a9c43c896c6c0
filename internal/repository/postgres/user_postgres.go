package postgres

import (
	"context"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db DBTX
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db DBTX) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

// Create inserts an auth user. A taken email yields repository.ErrDuplicate.
func (r *UserPostgres) Create(ctx context.Context, email, passwordHash string) (*model.User, error) {
	const q = `
		INSERT INTO auth_users (email, password_hash) VALUES ($1, $2)
		RETURNING id, email, password_hash, created_at
	`
	var u model.User
	if err := r.db.QueryRowContext(ctx, q, email, passwordHash).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, err
	}
	return &u, nil
}

// FindByEmail fetches an auth user by case-insensitive email.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT id, email, password_hash, created_at FROM auth_users WHERE lower(email) = lower($1)`
	var u model.User
	if err := r.db.QueryRowContext(ctx, q, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// SetPasswordHash replaces a user's password hash.
func (r *UserPostgres) SetPasswordHash(ctx context.Context, id, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE auth_users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	return err
}

const profileColumns = `id, email, full_name, phone, created_at, updated_at`

func scanProfile(s scanner, p *model.Profile) error {
	return s.Scan(&p.ID, &p.Email, &p.FullName, &p.Phone, &p.CreatedAt, &p.UpdatedAt)
}

// CreateProfile inserts the profile row of a new user.
func (r *UserPostgres) CreateProfile(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	const q = `
		INSERT INTO profiles (id, email, full_name, phone) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, updated_at = now()
		RETURNING ` + profileColumns
	var out model.Profile
	if err := scanProfile(r.db.QueryRowContext(ctx, q, p.ID, p.Email, p.FullName, p.Phone), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindProfile fetches a profile by user id.
func (r *UserPostgres) FindProfile(ctx context.Context, id string) (*model.Profile, error) {
	var out model.Profile
	if err := scanProfile(r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile sets full name and phone.
func (r *UserPostgres) UpdateProfile(ctx context.Context, id string, fullName, phone *string) (*model.Profile, error) {
	const q = `
		UPDATE profiles SET full_name = $2, phone = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + profileColumns
	var out model.Profile
	if err := scanProfile(r.db.QueryRowContext(ctx, q, id, fullName, phone), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListProfiles returns every profile, newest first, with roles aggregated in the same query.
func (r *UserPostgres) ListProfiles(ctx context.Context) ([]model.ProfileWithRoles, error) {
	const q = `
		SELECT p.id, p.email, p.full_name, p.phone, p.created_at, p.updated_at,
			COALESCE(array_agg(r.role ORDER BY r.role) FILTER (WHERE r.role IS NOT NULL), '{}') AS roles
		FROM profiles p
		LEFT JOIN user_roles r ON r.user_id = p.id
		GROUP BY p.id
		ORDER BY p.created_at DESC, p.id
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ProfileWithRoles, 0)
	for rows.Next() {
		var (
			p     model.ProfileWithRoles
			roles model.StringList
		)
		if err := rows.Scan(&p.ID, &p.Email, &p.FullName, &p.Phone, &p.CreatedAt, &p.UpdatedAt, &roles); err != nil {
			return nil, err
		}
		p.Roles = make([]model.Role, 0, len(roles))
		for _, role := range roles {
			p.Roles = append(p.Roles, model.Role(role))
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CountProfiles counts registered users.
func (r *UserPostgres) CountProfiles(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n)
	return n, err
}

// RolePostgres is a PostgreSQL implementation of repository.RoleRepository.
type RolePostgres struct {
	db DBTX
}

// NewRolePostgres creates a new RolePostgres repository.
func NewRolePostgres(db DBTX) *RolePostgres {
	return &RolePostgres{db: db}
}

var _ repository.RoleRepository = (*RolePostgres)(nil)

// Grant assigns role to the user; granting an existing role is a no-op.
func (r *RolePostgres) Grant(ctx context.Context, userID string, role model.Role) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_roles (user_id, role) VALUES ($1, $2) ON CONFLICT (user_id, role) DO NOTHING`,
		userID, string(role))
	return err
}

// Revoke removes role from the user.
func (r *RolePostgres) Revoke(ctx context.Context, userID string, role model.Role) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = $1 AND role = $2`, userID, string(role))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Has reports whether the user holds role.
func (r *RolePostgres) Has(ctx context.Context, userID string, role model.Role) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`, userID, string(role)).Scan(&ok)
	return ok, err
}

// List returns the user's roles in name order.
func (r *RolePostgres) List(ctx context.Context, userID string) ([]model.Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT role FROM user_roles WHERE user_id = $1 ORDER BY role`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]model.Role, 0)
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, model.Role(role))
	}
	return roles, rows.Err()
}

// TokenPostgres is a PostgreSQL implementation of repository.TokenRepository.
type TokenPostgres struct {
	db DBTX
}

// NewTokenPostgres creates a new TokenPostgres repository.
func NewTokenPostgres(db DBTX) *TokenPostgres {
	return &TokenPostgres{db: db}
}

var _ repository.TokenRepository = (*TokenPostgres)(nil)

// Revoke records jti as revoked until expiresAt.
func (r *TokenPostgres) Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO revoked_tokens (jti, user_id, expires_at) VALUES ($1, $2, $3) ON CONFLICT (jti) DO NOTHING`,
		jti, userID, expiresAt)
	return err
}

// IsRevoked reports whether jti was revoked.
func (r *TokenPostgres) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`, jti).Scan(&ok)
	return ok, err
}

// PurgeExpired deletes revocations of tokens that expired before now.
func (r *TokenPostgres) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
