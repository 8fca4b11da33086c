package warranty

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/shared"
)

// Status represents the lifecycle status of a warranty
type Status string

const (
	StatusActive      Status = "Active"
	StatusExpired     Status = "Expired"
	StatusVoid        Status = "Void"
	StatusTransferred Status = "Transferred"
)

// AllStatuses lists every warranty status
var AllStatuses = []Status{StatusActive, StatusExpired, StatusVoid, StatusTransferred}

// IsValid checks if the status is a known warranty status
func (s Status) IsValid() bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether an admin may move a warranty from s to target
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusActive:
		return target == StatusExpired || target == StatusVoid || target == StatusTransferred
	case StatusExpired:
		return target == StatusActive || target == StatusVoid
	case StatusVoid, StatusTransferred:
		return false
	}
	return false
}

// ExpiringWindow is how far ahead a warranty counts as expiring soon
const ExpiringWindow = 30 * 24 * time.Hour

// Warranty covers one purchased order line for a number of months
type Warranty struct {
	shared.BaseAggregateRoot
	OrderDetailID        uuid.UUID
	CustomerID           uuid.UUID
	WarrantyCode         string
	StartDate            time.Time
	EndDate              time.Time
	WarrantyPeriodMonths int
	Status               Status
	Notes                string

	// Read-side projections
	OrderID       uuid.UUID
	ProductID     uuid.UUID
	ProductName   string
	ColorName     string
	CustomerName  string
	CustomerEmail string
	ClaimCount    int
}

// NewWarranty issues a warranty starting at start for the given number of months
func NewWarranty(orderDetailID, customerID uuid.UUID, code string, months int, start time.Time) (*Warranty, error) {
	if orderDetailID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Order detail is required")
	}
	if months <= 0 || months > 60 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Warranty period must be between 1 and 60 months")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Warranty code is required")
	}

	w := &Warranty{
		BaseAggregateRoot:    shared.NewBaseAggregateRoot(),
		OrderDetailID:        orderDetailID,
		CustomerID:           customerID,
		WarrantyCode:         code,
		StartDate:            start,
		EndDate:              start.AddDate(0, months, 0),
		WarrantyPeriodMonths: months,
		Status:               StatusActive,
	}
	w.Record(NewWarrantyIssuedEvent(w))
	return w, nil
}

// IsActiveAt reports whether the warranty covers the given instant.
// Expiry is derived from the end date and needs no status change.
func (w *Warranty) IsActiveAt(now time.Time) bool {
	return w.Status == StatusActive && !now.After(w.EndDate)
}

// IsExpiredAt reports whether the warranty is expired by status or by date
func (w *Warranty) IsExpiredAt(now time.Time) bool {
	return w.Status == StatusExpired || now.After(w.EndDate)
}

// IsExpiringSoon reports whether an active warranty ends within ExpiringWindow
func (w *Warranty) IsExpiringSoon(now time.Time) bool {
	return w.IsActiveAt(now) && !w.EndDate.After(now.Add(ExpiringWindow))
}

// DaysRemaining returns whole days of coverage left, 0 when not active
func (w *Warranty) DaysRemaining(now time.Time) int {
	if !w.IsActiveAt(now) {
		return 0
	}
	return int(w.EndDate.Sub(now).Hours() / 24)
}

// EffectiveStatus reports Expired for active warranties past their end date
func (w *Warranty) EffectiveStatus(now time.Time) Status {
	if w.Status == StatusActive && now.After(w.EndDate) {
		return StatusExpired
	}
	return w.Status
}

// ChangeStatus moves the warranty to target, optionally replacing the notes
func (w *Warranty) ChangeStatus(target Status, notes string) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown warranty status %q", target))
	}
	if w.Status != target && !w.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change warranty status from %s to %s", w.Status, target))
	}
	notes = strings.TrimSpace(notes)
	if len([]rune(notes)) > 500 {
		return shared.NewDomainError("INVALID_INPUT", "Notes cannot exceed 500 characters")
	}

	w.Status = target
	if notes != "" {
		w.Notes = notes
	}
	w.MarkModified()
	return nil
}

// Void cancels an active warranty. Other statuses are left untouched.
func (w *Warranty) Void(reason string) bool {
	if w.Status != StatusActive {
		return false
	}
	w.Status = StatusVoid
	if reason != "" {
		w.Notes = reason
	}
	w.MarkModified()
	return true
}
