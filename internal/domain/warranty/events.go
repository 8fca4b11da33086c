package warranty

import (
	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeWarranty = "Warranty"
	AggregateTypeClaim    = "WarrantyClaim"
)

// Event type constants
const (
	EventTypeWarrantyIssued     = "WarrantyIssued"
	EventTypeClaimSubmitted     = "ClaimSubmitted"
	EventTypeClaimStatusChanged = "ClaimStatusChanged"
)

// WarrantyIssuedEvent is raised when a warranty is created for an order line
type WarrantyIssuedEvent struct {
	shared.BaseDomainEvent
	WarrantyID    uuid.UUID `json:"warranty_id"`
	WarrantyCode  string    `json:"warranty_code"`
	OrderDetailID uuid.UUID `json:"order_detail_id"`
	CustomerID    uuid.UUID `json:"customer_id"`
	PeriodMonths  int       `json:"period_months"`
}

// NewWarrantyIssuedEvent creates a new WarrantyIssuedEvent
func NewWarrantyIssuedEvent(w *Warranty) *WarrantyIssuedEvent {
	return &WarrantyIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWarrantyIssued, AggregateTypeWarranty, w.ID),
		WarrantyID:      w.ID,
		WarrantyCode:    w.WarrantyCode,
		OrderDetailID:   w.OrderDetailID,
		CustomerID:      w.CustomerID,
		PeriodMonths:    w.WarrantyPeriodMonths,
	}
}

// ClaimSubmittedEvent is raised when a customer opens a claim
type ClaimSubmittedEvent struct {
	shared.BaseDomainEvent
	ClaimID    uuid.UUID `json:"claim_id"`
	ClaimCode  string    `json:"claim_code"`
	WarrantyID uuid.UUID `json:"warranty_id"`
	IssueType  IssueType `json:"issue_type"`
}

// NewClaimSubmittedEvent creates a new ClaimSubmittedEvent
func NewClaimSubmittedEvent(c *Claim) *ClaimSubmittedEvent {
	return &ClaimSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClaimSubmitted, AggregateTypeClaim, c.ID),
		ClaimID:         c.ID,
		ClaimCode:       c.ClaimCode,
		WarrantyID:      c.WarrantyID,
		IssueType:       c.IssueType,
	}
}

// ClaimStatusChangedEvent is raised when staff move a claim to a new status
type ClaimStatusChangedEvent struct {
	shared.BaseDomainEvent
	ClaimID     uuid.UUID   `json:"claim_id"`
	FromStatus  ClaimStatus `json:"from_status"`
	ToStatus    ClaimStatus `json:"to_status"`
	ProcessedBy string      `json:"processed_by"`
}

// NewClaimStatusChangedEvent creates a new ClaimStatusChangedEvent
func NewClaimStatusChangedEvent(c *Claim, from ClaimStatus) *ClaimStatusChangedEvent {
	return &ClaimStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClaimStatusChanged, AggregateTypeClaim, c.ID),
		ClaimID:         c.ID,
		FromStatus:      from,
		ToStatus:        c.Status,
		ProcessedBy:     c.ProcessedBy,
	}
}
