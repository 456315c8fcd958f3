package trade

import (
	"context"

	"github.com/menswear/backend/internal/domain/catalog"
	"github.com/menswear/backend/internal/domain/trade"
)

// TransactionScope runs order work in one database transaction. Stock
// decrements and the order insert commit or roll back together.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are repositories bound to the current transaction
type TransactionalRepositories interface {
	OrderRepo() trade.OrderRepository
	ProductRepo() catalog.ProductRepository
	VariantRepo() catalog.VariantRepository
}

// NoOpTransactionScope runs fn against plain repositories. Used in tests.
type NoOpTransactionScope struct {
	orders   trade.OrderRepository
	products catalog.ProductRepository
	variants catalog.VariantRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(orders trade.OrderRepository, products catalog.ProductRepository, variants catalog.VariantRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{orders: orders, products: products, variants: variants}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) OrderRepo() trade.OrderRepository       { return s.orders }
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository { return s.products }
func (s *NoOpTransactionScope) VariantRepo() catalog.VariantRepository { return s.variants }
