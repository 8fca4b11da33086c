package trade

import (
	"context"

	"github.com/phonestore/backend/internal/domain/catalog"
	"github.com/phonestore/backend/internal/domain/partner"
	"github.com/phonestore/backend/internal/domain/trade"
	"github.com/phonestore/backend/internal/domain/warranty"
)

// TransactionScope runs order workflows in one database transaction.
// If fn returns an error the transaction is rolled back, otherwise committed.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to the repositories an order
// workflow touches. All of them share the same underlying transaction.
type TransactionalRepositories interface {
	OrderRepo() trade.OrderRepository
	ProductRepo() catalog.ProductRepository
	AddressRepo() partner.AddressRepository
	WarrantyRepo() warranty.WarrantyRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Used by unit tests.
type NoOpTransactionScope struct {
	orderRepo    trade.OrderRepository
	productRepo  catalog.ProductRepository
	addressRepo  partner.AddressRepository
	warrantyRepo warranty.WarrantyRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	orderRepo trade.OrderRepository,
	productRepo catalog.ProductRepository,
	addressRepo partner.AddressRepository,
	warrantyRepo warranty.WarrantyRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		addressRepo:  addressRepo,
		warrantyRepo: warrantyRepo,
	}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository
func (s *NoOpTransactionScope) OrderRepo() trade.OrderRepository { return s.orderRepo }

// ProductRepo returns the product repository
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository { return s.productRepo }

// AddressRepo returns the shipping address repository
func (s *NoOpTransactionScope) AddressRepo() partner.AddressRepository { return s.addressRepo }

// WarrantyRepo returns the warranty repository
func (s *NoOpTransactionScope) WarrantyRepo() warranty.WarrantyRepository { return s.warrantyRepo }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
