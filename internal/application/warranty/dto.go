package warranty

import (
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/domain/warranty"
)

// =============================================================================
// Warranty DTOs
// =============================================================================

// ListFilter is the warranty search used by both tiers
type ListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CreateWarrantyRequest issues a warranty for an order line by hand.
// A zero period falls back to the product's warranty period.
type CreateWarrantyRequest struct {
	OrderDetailID        uuid.UUID  `json:"order_detail_id" binding:"required"`
	WarrantyPeriodMonths int        `json:"warranty_period_months" binding:"omitempty,min=1,max=60"`
	StartDate            *time.Time `json:"start_date"`
	Notes                string     `json:"notes" binding:"max=500"`
}

// UpdateStatusRequest changes a warranty's status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes" binding:"max=500"`
}

// Response represents a warranty in API responses
type Response struct {
	ID                   uuid.UUID       `json:"id"`
	WarrantyCode         string          `json:"warranty_code"`
	OrderID              uuid.UUID       `json:"order_id"`
	OrderDetailID        uuid.UUID       `json:"order_detail_id"`
	ProductID            uuid.UUID       `json:"product_id"`
	ProductName          string          `json:"product_name"`
	ColorName            string          `json:"color_name,omitempty"`
	CustomerID           uuid.UUID       `json:"customer_id"`
	CustomerName         string          `json:"customer_name,omitempty"`
	CustomerEmail        string          `json:"customer_email,omitempty"`
	StartDate            time.Time       `json:"start_date"`
	EndDate              time.Time       `json:"end_date"`
	WarrantyPeriodMonths int             `json:"warranty_period_months"`
	Status               string          `json:"status"`
	EffectiveStatus      string          `json:"effective_status"`
	IsActive             bool            `json:"is_active"`
	IsExpiringSoon       bool            `json:"is_expiring_soon"`
	DaysRemaining        int             `json:"days_remaining"`
	Notes                string          `json:"notes,omitempty"`
	ClaimCount           int             `json:"claim_count"`
	Claims               []ClaimResponse `json:"claims,omitempty"`
}

// InfoResponse is the public summary shown by a code lookup or a QR scan
type InfoResponse struct {
	WarrantyCode    string    `json:"warranty_code"`
	ProductName     string    `json:"product_name"`
	ColorName       string    `json:"color_name,omitempty"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	Status          string    `json:"status"`
	EffectiveStatus string    `json:"effective_status"`
	IsActive        bool      `json:"is_active"`
	DaysRemaining   int       `json:"days_remaining"`
}

// CustomerListResponse is a customer's warranties with their counters
type CustomerListResponse struct {
	shared.Paginated[Response]
	Stats warranty.Stats `json:"stats"`
}

// AutoCreateResponse reports the warranties issued for an order
type AutoCreateResponse struct {
	OrderID uuid.UUID  `json:"order_id"`
	Created int        `json:"created"`
	Skipped int        `json:"skipped"`
	Items   []Response `json:"items"`
}

// ToResponse converts a warranty to a response evaluated at now
func ToResponse(w *warranty.Warranty, now time.Time) Response {
	return Response{
		ID:                   w.ID,
		WarrantyCode:         w.WarrantyCode,
		OrderID:              w.OrderID,
		OrderDetailID:        w.OrderDetailID,
		ProductID:            w.ProductID,
		ProductName:          w.ProductName,
		ColorName:            w.ColorName,
		CustomerID:           w.CustomerID,
		CustomerName:         w.CustomerName,
		CustomerEmail:        w.CustomerEmail,
		StartDate:            w.StartDate,
		EndDate:              w.EndDate,
		WarrantyPeriodMonths: w.WarrantyPeriodMonths,
		Status:               string(w.Status),
		EffectiveStatus:      string(w.EffectiveStatus(now)),
		IsActive:             w.IsActiveAt(now),
		IsExpiringSoon:       w.IsExpiringSoon(now),
		DaysRemaining:        w.DaysRemaining(now),
		Notes:                w.Notes,
		ClaimCount:           w.ClaimCount,
	}
}

// ToInfoResponse converts a warranty to its public summary
func ToInfoResponse(w *warranty.Warranty, now time.Time) InfoResponse {
	return InfoResponse{
		WarrantyCode:    w.WarrantyCode,
		ProductName:     w.ProductName,
		ColorName:       w.ColorName,
		StartDate:       w.StartDate,
		EndDate:         w.EndDate,
		Status:          string(w.Status),
		EffectiveStatus: string(w.EffectiveStatus(now)),
		IsActive:        w.IsActiveAt(now),
		DaysRemaining:   w.DaysRemaining(now),
	}
}

// =============================================================================
// Claim DTOs
// =============================================================================

// SubmitClaimRequest opens a claim
type SubmitClaimRequest struct {
	IssueType        string `json:"issue_type" binding:"required"`
	IssueDescription string `json:"issue_description" binding:"required,max=500"`
}

// ProcessClaimRequest is an admin decision on a claim
type ProcessClaimRequest struct {
	Status         string `json:"status" binding:"required"`
	AdminNotes     string `json:"admin_notes" binding:"max=1000"`
	Resolution     string `json:"resolution" binding:"max=1000"`
	ResolutionType string `json:"resolution_type"`
}

// ClaimStatusRequest changes only a claim's status
type ClaimStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ClaimListFilter is the claim search
type ClaimListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ClaimResponse represents a claim in API responses
type ClaimResponse struct {
	ID               uuid.UUID  `json:"id"`
	ClaimCode        string     `json:"claim_code"`
	WarrantyID       uuid.UUID  `json:"warranty_id"`
	WarrantyCode     string     `json:"warranty_code,omitempty"`
	CustomerName     string     `json:"customer_name,omitempty"`
	ProductName      string     `json:"product_name,omitempty"`
	IssueType        string     `json:"issue_type"`
	IssueDescription string     `json:"issue_description"`
	Status           string     `json:"status"`
	AdminNotes       string     `json:"admin_notes,omitempty"`
	Resolution       string     `json:"resolution,omitempty"`
	ResolutionType   string     `json:"resolution_type,omitempty"`
	SubmittedAt      time.Time  `json:"submitted_at"`
	ProcessedAt      *time.Time `json:"processed_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	ProcessedBy      string     `json:"processed_by,omitempty"`
}

// ToClaimResponse converts a claim to a response
func ToClaimResponse(c *warranty.Claim) ClaimResponse {
	return ClaimResponse{
		ID:               c.ID,
		ClaimCode:        c.ClaimCode,
		WarrantyID:       c.WarrantyID,
		WarrantyCode:     c.WarrantyCode,
		CustomerName:     c.CustomerName,
		ProductName:      c.ProductName,
		IssueType:        string(c.IssueType),
		IssueDescription: c.IssueDescription,
		Status:           string(c.Status),
		AdminNotes:       c.AdminNotes,
		Resolution:       c.Resolution,
		ResolutionType:   string(c.ResolutionType),
		SubmittedAt:      c.SubmittedAt,
		ProcessedAt:      c.ProcessedAt,
		CompletedAt:      c.CompletedAt,
		ProcessedBy:      c.ProcessedBy,
	}
}

func toClaimResponses(claims []warranty.Claim) []ClaimResponse {
	out := make([]ClaimResponse, 0, len(claims))
	for i := range claims {
		out = append(out, ToClaimResponse(&claims[i]))
	}
	return out
}

func toFilter(search string, page, pageSize int) shared.Filter {
	return shared.Filter{
		Page:     page,
		PageSize: pageSize,
		Search:   search,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}.Normalize()
}
