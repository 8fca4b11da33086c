package trade

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/catalog"
	"github.com/phonestore/backend/internal/domain/partner"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/domain/trade"
	"github.com/phonestore/backend/internal/domain/warranty"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of trade.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForCustomer(ctx context.Context, customerID, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, customerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter trade.OrderFilter) ([]trade.Order, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]trade.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) FindRecent(ctx context.Context, limit int) ([]trade.Order, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindDetail(ctx context.Context, detailID uuid.UUID) (*trade.OrderDetail, error) {
	args := m.Called(ctx, detailID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.OrderDetail), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) UpdateHeader(ctx context.Context, order *trade.Order, expectedVersion int) error {
	return m.Called(ctx, order, expectedVersion).Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductRepository embeds the interface so only the methods used by
// order workflows need stubs
type MockProductRepository struct {
	mock.Mock
	catalog.ProductRepository
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	args := m.Called(ctx, id, qty)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) IncrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	return m.Called(ctx, id, qty).Error(0)
}

// MockAddressRepository is a mock implementation of partner.AddressRepository
type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]partner.ShippingAddress, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]partner.ShippingAddress), args.Error(1)
}

func (m *MockAddressRepository) FindByIDForCustomer(ctx context.Context, customerID, id uuid.UUID) (*partner.ShippingAddress, error) {
	args := m.Called(ctx, customerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.ShippingAddress), args.Error(1)
}

func (m *MockAddressRepository) Create(ctx context.Context, address *partner.ShippingAddress) error {
	return m.Called(ctx, address).Error(0)
}

// MockWarrantyRepository embeds the interface so only the methods used by
// order workflows need stubs
type MockWarrantyRepository struct {
	mock.Mock
	warranty.WarrantyRepository
}

func (m *MockWarrantyRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockWarrantyRepository) Create(ctx context.Context, w *warranty.Warranty) error {
	return m.Called(ctx, w).Error(0)
}

func (m *MockWarrantyRepository) VoidActiveByOrder(ctx context.Context, orderID uuid.UUID, reason string) (int64, error) {
	args := m.Called(ctx, orderID, reason)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWarrantyRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWarrantyRepository) DeleteByOrder(ctx context.Context, orderID uuid.UUID) error {
	return m.Called(ctx, orderID).Error(0)
}

func (m *MockWarrantyRepository) OrderHasClaims(ctx context.Context, orderID uuid.UUID) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

// recordingPublisher collects published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

// memoryKeys is a minimal idempotency store
type memoryKeys struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newMemoryKeys() *memoryKeys {
	return &memoryKeys{keys: make(map[string]bool)}
}

func (k *memoryKeys) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.keys[key] {
		return false, nil
	}
	k.keys[key] = true
	return true, nil
}

func (k *memoryKeys) IsProcessed(_ context.Context, key string) (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.keys[key], nil
}

func (k *memoryKeys) Release(_ context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.keys, key)
	return nil
}

func (k *memoryKeys) Close() error { return nil }
