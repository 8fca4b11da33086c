package warranty

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/shared"
)

// Filter narrows warranty listings.
// Search matches warranty code, customer name or email, or product name.
type Filter struct {
	shared.Filter
	Status     Status
	CustomerID *uuid.UUID
}

// ClaimFilter narrows claim listings.
// Search matches claim code, warranty code or customer name.
type ClaimFilter struct {
	shared.Filter
	Status     ClaimStatus
	CustomerID *uuid.UUID
}

// Stats summarizes warranties for a dashboard or a customer's overview
type Stats struct {
	Total            int64 `json:"total"`
	Active           int64 `json:"active"`
	Expired          int64 `json:"expired"`
	ExpiringSoon     int64 `json:"expiring_soon"`
	Claimed          int64 `json:"claimed"`
	PendingClaims    int64 `json:"pending_claims"`
	NeedingAttention int64 `json:"needing_attention"`
}

// WarrantyRepository defines the interface for warranty persistence
type WarrantyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Warranty, error)
	FindByIDForCustomer(ctx context.Context, customerID, id uuid.UUID) (*Warranty, error)
	FindByCode(ctx context.Context, code string) (*Warranty, error)
	FindAll(ctx context.Context, filter Filter) ([]Warranty, int64, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]Warranty, error)

	// FindNeedingService lists warranties with open claims
	FindNeedingService(ctx context.Context, limit int) ([]Warranty, error)

	ExistsByCode(ctx context.Context, code string) (bool, error)
	ExistsForOrderDetail(ctx context.Context, orderDetailID uuid.UUID) (bool, error)

	// Stats computes counters at now, optionally scoped to one customer
	Stats(ctx context.Context, customerID *uuid.UUID, now time.Time) (*Stats, error)

	Create(ctx context.Context, w *Warranty) error
	Save(ctx context.Context, w *Warranty) error

	// VoidActiveByOrder voids every active warranty of the order's lines
	VoidActiveByOrder(ctx context.Context, orderID uuid.UUID, reason string) (int64, error)

	// ExpireOverdue marks active warranties whose end date is before now as expired
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)

	// DeleteByOrder removes the warranties of the order's lines
	DeleteByOrder(ctx context.Context, orderID uuid.UUID) error

	// OrderHasClaims reports whether any warranty of the order has claims
	OrderHasClaims(ctx context.Context, orderID uuid.UUID) (bool, error)
}

// ClaimRepository defines the interface for warranty claim persistence
type ClaimRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Claim, error)
	FindByIDForCustomer(ctx context.Context, customerID, id uuid.UUID) (*Claim, error)
	FindAll(ctx context.Context, filter ClaimFilter) ([]Claim, int64, error)
	FindByWarranty(ctx context.Context, warrantyID uuid.UUID) ([]Claim, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	CountByStatus(ctx context.Context, status ClaimStatus) (int64, error)
	Create(ctx context.Context, c *Claim) error
	Save(ctx context.Context, c *Claim) error
}
