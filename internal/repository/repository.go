// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres) inside this directory.
package repository

import (
	"context"

	"github.com/pkg/errors"
)

// ErrDuplicate is returned when an insert hits a unique constraint the caller can act on.
var ErrDuplicate = errors.New("duplicate key")

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

// TransactionManager runs work inside one database transaction.
// If fn returns an error the transaction is rolled back, otherwise it is committed.
type TransactionManager interface {
	Execute(ctx context.Context, fn func(repos RepositoryFactory) error) error
}

// RepositoryFactory hands out repositories bound to the current transaction.
type RepositoryFactory interface {
	Catalog() CatalogRepository
	Cart() CartRepository
	Addresses() AddressRepository
	Coupons() CouponRepository
	Orders() OrderRepository
	Users() UserRepository
	Roles() RoleRepository
}
