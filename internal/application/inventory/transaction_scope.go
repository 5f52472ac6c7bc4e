package inventory

import (
	"context"

	"github.com/vclothes/backend/internal/domain/catalog"
	"github.com/vclothes/backend/internal/domain/order"
	"github.com/vclothes/backend/internal/domain/supply"
)

// TransactionScope provides transactional access to the repositories touched
// by a stock mutation. When a function is executed within a scope, all
// repository operations are part of one database transaction and commit or
// roll back together — this is what makes multi-item supplies and orders
// all-or-nothing.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a
// transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// SupplyRepo returns the supply repository scoped to the current transaction
	SupplyRepo() supply.Repository
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() order.Repository
}

// NoOpTransactionScope runs the function without a real transaction. Used in
// tests and as the per-item scope when atomic multi-item mutations are
// disabled by configuration.
type NoOpTransactionScope struct {
	productRepo catalog.ProductRepository
	supplyRepo  supply.Repository
	orderRepo   order.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	supplyRepo supply.Repository,
	orderRepo order.Repository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo: productRepo,
		supplyRepo:  supplyRepo,
		orderRepo:   orderRepo,
	}
}

// Execute runs the function without transactional guarantees
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// SupplyRepo returns the supply repository
func (s *NoOpTransactionScope) SupplyRepo() supply.Repository {
	return s.supplyRepo
}

// OrderRepo returns the order repository
func (s *NoOpTransactionScope) OrderRepo() order.Repository {
	return s.orderRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
