package warranty

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/shared"
)

// ClaimStatus represents the processing status of a warranty claim
type ClaimStatus string

const (
	ClaimPending    ClaimStatus = "Pending"
	ClaimInProgress ClaimStatus = "InProgress"
	ClaimApproved   ClaimStatus = "Approved"
	ClaimRejected   ClaimStatus = "Rejected"
	ClaimCompleted  ClaimStatus = "Completed"
	ClaimCancelled  ClaimStatus = "Cancelled"
)

// AllClaimStatuses lists every claim status
var AllClaimStatuses = []ClaimStatus{
	ClaimPending, ClaimInProgress, ClaimApproved, ClaimRejected, ClaimCompleted, ClaimCancelled,
}

// IsValid checks if the status is a known claim status
func (s ClaimStatus) IsValid() bool {
	for _, st := range AllClaimStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// IsOpen reports whether the claim still needs staff attention
func (s ClaimStatus) IsOpen() bool {
	return s == ClaimPending || s == ClaimInProgress
}

// CanTransitionTo checks if the claim can move from s to target
func (s ClaimStatus) CanTransitionTo(target ClaimStatus) bool {
	switch s {
	case ClaimPending:
		return target == ClaimInProgress || target == ClaimApproved ||
			target == ClaimRejected || target == ClaimCancelled
	case ClaimInProgress:
		return target == ClaimApproved || target == ClaimRejected || target == ClaimCancelled
	case ClaimApproved:
		return target == ClaimCompleted || target == ClaimCancelled
	case ClaimRejected:
		return target == ClaimCompleted
	case ClaimCompleted, ClaimCancelled:
		return false
	}
	return false
}

// IssueType classifies the reported problem
type IssueType string

const (
	IssueHardware     IssueType = "hardware"
	IssueSoftware     IssueType = "software"
	IssueScreen       IssueType = "screen"
	IssueBattery      IssueType = "battery"
	IssueCamera       IssueType = "camera"
	IssueAudio        IssueType = "audio"
	IssueConnectivity IssueType = "connectivity"
	IssueOther        IssueType = "other"
)

// AllIssueTypes lists every issue type
var AllIssueTypes = []IssueType{
	IssueHardware, IssueSoftware, IssueScreen, IssueBattery,
	IssueCamera, IssueAudio, IssueConnectivity, IssueOther,
}

// IsValid checks if the issue type is known
func (t IssueType) IsValid() bool {
	for _, it := range AllIssueTypes {
		if t == it {
			return true
		}
	}
	return false
}

// ResolutionType classifies how a claim was settled
type ResolutionType string

const (
	ResolutionRepair   ResolutionType = "repair"
	ResolutionReplace  ResolutionType = "replace"
	ResolutionRefund   ResolutionType = "refund"
	ResolutionNoAction ResolutionType = "no_action"
)

// AllResolutionTypes lists every resolution type
var AllResolutionTypes = []ResolutionType{ResolutionRepair, ResolutionReplace, ResolutionRefund, ResolutionNoAction}

// IsValid checks if the resolution type is known
func (t ResolutionType) IsValid() bool {
	for _, rt := range AllResolutionTypes {
		if t == rt {
			return true
		}
	}
	return false
}

// MaxIssueDescriptionLength bounds the customer's problem description
const MaxIssueDescriptionLength = 500

// Claim is a customer's request for service under a warranty
type Claim struct {
	shared.BaseAggregateRoot
	WarrantyID       uuid.UUID
	ClaimCode        string
	IssueDescription string
	IssueType        IssueType
	Status           ClaimStatus
	AdminNotes       string
	Resolution       string
	ResolutionType   ResolutionType
	SubmittedAt      time.Time
	ProcessedAt      *time.Time
	CompletedAt      *time.Time
	ProcessedBy      string

	// Read-side projections
	WarrantyCode string
	CustomerID   uuid.UUID
	CustomerName string
	ProductName  string
}

// NewClaim opens a claim against a warranty that is active at now
func NewClaim(w *Warranty, code string, issueType IssueType, description string, now time.Time) (*Claim, error) {
	if w == nil || !w.IsActiveAt(now) {
		return nil, shared.NewDomainError("NOT_FOUND", "Warranty not found or expired")
	}
	if !issueType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Please select a valid issue type")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Please describe the issue")
	}
	if len([]rune(description)) > MaxIssueDescriptionLength {
		return nil, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Issue description cannot exceed %d characters", MaxIssueDescriptionLength))
	}

	c := &Claim{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		WarrantyID:        w.ID,
		ClaimCode:         code,
		IssueDescription:  description,
		IssueType:         issueType,
		Status:            ClaimPending,
		SubmittedAt:       now,
		WarrantyCode:      w.WarrantyCode,
		CustomerID:        w.CustomerID,
	}
	c.Record(NewClaimSubmittedEvent(c))
	return c, nil
}

// ClaimDecision is an admin's processing of a claim
type ClaimDecision struct {
	Status         ClaimStatus
	AdminNotes     string
	Resolution     string
	ResolutionType ResolutionType
}

// Process applies an admin decision, stamping who processed it and when
func (c *Claim) Process(d ClaimDecision, adminUsername string, now time.Time) error {
	if d.ResolutionType != "" && !d.ResolutionType.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Please select a valid resolution type")
	}
	if err := c.transition(d.Status, adminUsername, now); err != nil {
		return err
	}
	c.AdminNotes = strings.TrimSpace(d.AdminNotes)
	c.Resolution = strings.TrimSpace(d.Resolution)
	c.ResolutionType = d.ResolutionType
	return nil
}

// ChangeStatus moves the claim to target without touching its resolution
func (c *Claim) ChangeStatus(target ClaimStatus, adminUsername string, now time.Time) error {
	return c.transition(target, adminUsername, now)
}

func (c *Claim) transition(target ClaimStatus, adminUsername string, now time.Time) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown claim status %q", target))
	}
	from := c.Status
	if from != target && !from.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change claim status from %s to %s", from, target))
	}
	if adminUsername == "" {
		adminUsername = "Admin"
	}

	c.Status = target
	processed := now
	c.ProcessedAt = &processed
	c.ProcessedBy = adminUsername
	if target == ClaimCompleted && c.CompletedAt == nil {
		completed := now
		c.CompletedAt = &completed
	}
	c.MarkModified()
	if from != target {
		c.Record(NewClaimStatusChangedEvent(c, from))
	}
	return nil
}
