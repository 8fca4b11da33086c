package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/warranty"
)

// WarrantyModel is the persistence model for warranties
type WarrantyModel struct {
	AggregateModel
	OrderDetailID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	CustomerID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	WarrantyCode         string          `gorm:"type:varchar(20);not null;uniqueIndex"`
	StartDate            time.Time       `gorm:"not null"`
	EndDate              time.Time       `gorm:"not null;index"`
	WarrantyPeriodMonths int             `gorm:"not null"`
	Status               warranty.Status `gorm:"type:varchar(20);not null;default:'Active';index"`
	Notes                string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (WarrantyModel) TableName() string {
	return "warranties"
}

// ToDomain converts the persistence model to a domain Warranty
func (m *WarrantyModel) ToDomain() *warranty.Warranty {
	return &warranty.Warranty{
		BaseAggregateRoot:    m.Aggregate(),
		OrderDetailID:        m.OrderDetailID,
		CustomerID:           m.CustomerID,
		WarrantyCode:         m.WarrantyCode,
		StartDate:            m.StartDate,
		EndDate:              m.EndDate,
		WarrantyPeriodMonths: m.WarrantyPeriodMonths,
		Status:               m.Status,
		Notes:                m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Warranty
func (m *WarrantyModel) FromDomain(w *warranty.Warranty) {
	m.SetAggregate(w.BaseAggregateRoot)
	m.OrderDetailID = w.OrderDetailID
	m.CustomerID = w.CustomerID
	m.WarrantyCode = w.WarrantyCode
	m.StartDate = w.StartDate
	m.EndDate = w.EndDate
	m.WarrantyPeriodMonths = w.WarrantyPeriodMonths
	m.Status = w.Status
	m.Notes = w.Notes
}

// ClaimModel is the persistence model for warranty claims
type ClaimModel struct {
	AggregateModel
	WarrantyID       uuid.UUID               `gorm:"type:uuid;not null;index"`
	ClaimCode        string                  `gorm:"type:varchar(20);not null;uniqueIndex"`
	IssueDescription string                  `gorm:"type:varchar(500);not null"`
	IssueType        warranty.IssueType      `gorm:"type:varchar(30);not null"`
	Status           warranty.ClaimStatus    `gorm:"type:varchar(20);not null;default:'Pending';index"`
	AdminNotes       string                  `gorm:"type:text"`
	Resolution       string                  `gorm:"type:text"`
	ResolutionType   warranty.ResolutionType `gorm:"type:varchar(20)"`
	SubmittedAt      time.Time               `gorm:"not null"`
	ProcessedAt      *time.Time
	CompletedAt      *time.Time
	ProcessedBy      string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (ClaimModel) TableName() string {
	return "warranty_claims"
}

// ToDomain converts the persistence model to a domain Claim
func (m *ClaimModel) ToDomain() *warranty.Claim {
	return &warranty.Claim{
		BaseAggregateRoot: m.Aggregate(),
		WarrantyID:        m.WarrantyID,
		ClaimCode:         m.ClaimCode,
		IssueDescription:  m.IssueDescription,
		IssueType:         m.IssueType,
		Status:            m.Status,
		AdminNotes:        m.AdminNotes,
		Resolution:        m.Resolution,
		ResolutionType:    m.ResolutionType,
		SubmittedAt:       m.SubmittedAt,
		ProcessedAt:       m.ProcessedAt,
		CompletedAt:       m.CompletedAt,
		ProcessedBy:       m.ProcessedBy,
	}
}

// FromDomain populates the persistence model from a domain Claim
func (m *ClaimModel) FromDomain(c *warranty.Claim) {
	m.SetAggregate(c.BaseAggregateRoot)
	m.WarrantyID = c.WarrantyID
	m.ClaimCode = c.ClaimCode
	m.IssueDescription = c.IssueDescription
	m.IssueType = c.IssueType
	m.Status = c.Status
	m.AdminNotes = c.AdminNotes
	m.Resolution = c.Resolution
	m.ResolutionType = c.ResolutionType
	m.SubmittedAt = c.SubmittedAt
	m.ProcessedAt = c.ProcessedAt
	m.CompletedAt = c.CompletedAt
	m.ProcessedBy = c.ProcessedBy
}
