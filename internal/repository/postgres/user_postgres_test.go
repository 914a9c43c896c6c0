package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/model"
	"storefront/internal/repository"
)

func TestUserPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("INSERT INTO auth_users").
		WithArgs("a@b.co", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).AddRow("u1", "a@b.co", "hash", time.Now()))
	u, err := repo.Create(ctx, "a@b.co", "hash")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	mock.ExpectQuery("INSERT INTO auth_users").
		WithArgs("a@b.co", "hash").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "auth_users_email_key"})
	u, err = repo.Create(ctx, "a@b.co", "hash")
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.Nil(t, u)

	mock.ExpectQuery("INSERT INTO auth_users").WillReturnError(errors.New("conn reset"))
	_, err = repo.Create(ctx, "c@d.co", "hash")
	assert.EqualError(t, err, "conn reset")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_ListProfiles(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	name := "Asha"
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN user_roles r ON r.user_id = p.id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "full_name", "phone", "created_at", "updated_at", "roles"}).
			AddRow("u2", "b@b.co", name, nil, now, now, "{admin,user}").
			AddRow("u1", "a@b.co", nil, nil, now.Add(-time.Hour), now, "{}"))

	out, err := NewUserPostgres(db).ListProfiles(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, []model.Role{model.RoleAdmin, model.RoleUser}, out[0].Roles)
	assert.True(t, out[0].IsAdmin())
	assert.Equal(t, "Asha", *out[0].FullName)
	assert.Empty(t, out[1].Roles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRolePostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRolePostgres(db)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (user_id, role) DO NOTHING")).
		WithArgs("u1", "admin").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.NoError(t, repo.Grant(ctx, "u1", model.RoleAdmin))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM user_roles")).
		WithArgs("u1", "admin").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	ok, err := repo.Has(ctx, "u1", model.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM user_roles")).
		WithArgs("u1", "admin").
		WillReturnResult(sqlmock.NewResult(0, 1))
	removed, err := repo.Revoke(ctx, "u1", model.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, removed)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT role FROM user_roles")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("user"))
	roles, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []model.Role{model.RoleUser}, roles)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTokenPostgres(db)
	ctx := context.Background()
	exp := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO revoked_tokens").
		WithArgs("jti-1", "u1", exp).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Revoke(ctx, "jti-1", "u1", exp))

	mock.ExpectQuery(regexp.QuoteMeta("FROM revoked_tokens WHERE jti = $1")).
		WithArgs("jti-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	revoked, err := repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM revoked_tokens WHERE expires_at < $1")).
		WithArgs(exp).
		WillReturnResult(sqlmock.NewResult(0, 4))
	n, err := repo.PurgeExpired(ctx, exp)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items WHERE user_id = $1")).
			WithArgs("u1").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		err = NewTransactionManager(db).Execute(ctx, func(repos repository.RepositoryFactory) error {
			return repos.Cart().Clear(ctx, "u1")
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		boom := errors.New("boom")
		mock.ExpectBegin()
		mock.ExpectRollback()

		err = NewTransactionManager(db).Execute(ctx, func(repository.RepositoryFactory) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin().WillReturnError(errors.New("no conn"))

		called := false
		err = NewTransactionManager(db).Execute(ctx, func(repository.RepositoryFactory) error {
			called = true
			return nil
		})
		assert.ErrorContains(t, err, "begin transaction")
		assert.False(t, called)
	})

	t.Run("rolls back and repanics", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.Panics(t, func() {
			_ = NewTransactionManager(db).Execute(ctx, func(repository.RepositoryFactory) error {
				panic("bad state")
			})
		})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
