package warranty

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/catalog"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/domain/trade"
	"github.com/phonestore/backend/internal/domain/warranty"
	"github.com/stretchr/testify/mock"
)

// MockWarrantyRepository is a mock implementation of warranty.WarrantyRepository
type MockWarrantyRepository struct {
	mock.Mock
}

func (m *MockWarrantyRepository) FindByID(ctx context.Context, id uuid.UUID) (*warranty.Warranty, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warranty.Warranty), args.Error(1)
}

func (m *MockWarrantyRepository) FindByIDForCustomer(ctx context.Context, customerID, id uuid.UUID) (*warranty.Warranty, error) {
	args := m.Called(ctx, customerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warranty.Warranty), args.Error(1)
}

func (m *MockWarrantyRepository) FindByCode(ctx context.Context, code string) (*warranty.Warranty, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warranty.Warranty), args.Error(1)
}

func (m *MockWarrantyRepository) FindAll(ctx context.Context, filter warranty.Filter) ([]warranty.Warranty, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]warranty.Warranty), args.Get(1).(int64), args.Error(2)
}

func (m *MockWarrantyRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]warranty.Warranty, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]warranty.Warranty), args.Error(1)
}

func (m *MockWarrantyRepository) FindNeedingService(ctx context.Context, limit int) ([]warranty.Warranty, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]warranty.Warranty), args.Error(1)
}

func (m *MockWarrantyRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockWarrantyRepository) ExistsForOrderDetail(ctx context.Context, orderDetailID uuid.UUID) (bool, error) {
	args := m.Called(ctx, orderDetailID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWarrantyRepository) Stats(ctx context.Context, customerID *uuid.UUID, now time.Time) (*warranty.Stats, error) {
	args := m.Called(ctx, customerID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warranty.Stats), args.Error(1)
}

func (m *MockWarrantyRepository) Create(ctx context.Context, w *warranty.Warranty) error {
	return m.Called(ctx, w).Error(0)
}

func (m *MockWarrantyRepository) Save(ctx context.Context, w *warranty.Warranty) error {
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

// MockClaimRepository is a mock implementation of warranty.ClaimRepository
type MockClaimRepository struct {
	mock.Mock
}

func (m *MockClaimRepository) FindByID(ctx context.Context, id uuid.UUID) (*warranty.Claim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warranty.Claim), args.Error(1)
}

func (m *MockClaimRepository) FindByIDForCustomer(ctx context.Context, customerID, id uuid.UUID) (*warranty.Claim, error) {
	args := m.Called(ctx, customerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warranty.Claim), args.Error(1)
}

func (m *MockClaimRepository) FindAll(ctx context.Context, filter warranty.ClaimFilter) ([]warranty.Claim, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]warranty.Claim), args.Get(1).(int64), args.Error(2)
}

func (m *MockClaimRepository) FindByWarranty(ctx context.Context, warrantyID uuid.UUID) ([]warranty.Claim, error) {
	args := m.Called(ctx, warrantyID)
	return args.Get(0).([]warranty.Claim), args.Error(1)
}

func (m *MockClaimRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockClaimRepository) CountByStatus(ctx context.Context, status warranty.ClaimStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClaimRepository) Create(ctx context.Context, c *warranty.Claim) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockClaimRepository) Save(ctx context.Context, c *warranty.Claim) error {
	return m.Called(ctx, c).Error(0)
}

// MockOrderRepository embeds the interface so only the lookups used by
// warranty issuing need stubs
type MockOrderRepository struct {
	mock.Mock
	trade.OrderRepository
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindDetail(ctx context.Context, detailID uuid.UUID) (*trade.OrderDetail, error) {
	args := m.Called(ctx, detailID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.OrderDetail), args.Error(1)
}

// MockProductRepository embeds the interface so only FindByID needs a stub
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

// stubQR returns the encoded content as bytes
type stubQR struct{}

func (stubQR) EncodePNG(content string, _ int) ([]byte, error) {
	return []byte(content), nil
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
