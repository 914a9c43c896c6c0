package postgres

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"storefront/internal/repository"
)

// TransactionManager implements repository.TransactionManager on a *sql.DB pool.
type TransactionManager struct {
	db *sql.DB
}

// NewTransactionManager creates a TransactionManager.
func NewTransactionManager(db *sql.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

var _ repository.TransactionManager = (*TransactionManager)(nil)

// Execute runs fn with repositories bound to a single transaction.
func (tm *TransactionManager) Execute(ctx context.Context, fn func(repos repository.RepositoryFactory) error) error {
	tx, err := tm.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(&txFactory{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Wrapf(err, "transaction rollback failed: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	return nil
}

type txFactory struct {
	tx *sql.Tx
}

func (f *txFactory) Catalog() repository.CatalogRepository   { return NewCatalogPostgres(f.tx) }
func (f *txFactory) Cart() repository.CartRepository         { return NewCartPostgres(f.tx) }
func (f *txFactory) Addresses() repository.AddressRepository { return NewAddressPostgres(f.tx) }
func (f *txFactory) Coupons() repository.CouponRepository    { return NewCouponPostgres(f.tx) }
func (f *txFactory) Orders() repository.OrderRepository      { return NewOrderPostgres(f.tx) }
func (f *txFactory) Users() repository.UserRepository        { return NewUserPostgres(f.tx) }
func (f *txFactory) Roles() repository.RoleRepository        { return NewRolePostgres(f.tx) }
