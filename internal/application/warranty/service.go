package warranty

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/domain/warranty"
	"go.uber.org/zap"
)

// QRCodeSize is the edge length in pixels of generated QR images
const QRCodeSize = 256

// QRCodeEncoder renders text as a PNG QR code
type QRCodeEncoder interface {
	EncodePNG(content string, size int) ([]byte, error)
}

// Service is the customer-facing warranty and claim service
type Service struct {
	warrantyRepo   warranty.WarrantyRepository
	claimRepo      warranty.ClaimRepository
	codes          *warranty.CodeGenerator
	qr             QRCodeEncoder
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewService creates a new warranty Service
func NewService(
	warrantyRepo warranty.WarrantyRepository,
	claimRepo warranty.ClaimRepository,
	codes *warranty.CodeGenerator,
	qr QRCodeEncoder,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if codes == nil {
		codes = warranty.NewCodeGenerator()
	}
	return &Service{
		warrantyRepo: warrantyRepo,
		claimRepo:    claimRepo,
		codes:        codes,
		qr:           qr,
		logger:       logger,
		now:          time.Now,
	}
}

// SetEventPublisher sets the publisher for claim events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// List returns a customer's warranties with their counters
func (s *Service) List(ctx context.Context, customerID uuid.UUID, filter ListFilter) (*CustomerListResponse, error) {
	status, err := parseStatus(filter.Status)
	if err != nil {
		return nil, err
	}
	now := s.now()
	f := warranty.Filter{
		Filter:     toFilter(filter.Search, filter.Page, filter.PageSize),
		Status:     status,
		CustomerID: &customerID,
	}
	warranties, total, err := s.warrantyRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	stats, err := s.warrantyRepo.Stats(ctx, &customerID, now)
	if err != nil {
		return nil, err
	}

	items := make([]Response, 0, len(warranties))
	for i := range warranties {
		items = append(items, ToResponse(&warranties[i], now))
	}
	return &CustomerListResponse{
		Paginated: shared.NewPaginated(items, total, f.Page, f.PageSize),
		Stats:     *stats,
	}, nil
}

// Get returns one of the customer's warranties with its claims
func (s *Service) Get(ctx context.Context, customerID, id uuid.UUID) (*Response, error) {
	w, err := s.warrantyRepo.FindByIDForCustomer(ctx, customerID, id)
	if err != nil {
		return nil, err
	}
	claims, err := s.claimRepo.FindByWarranty(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	resp := ToResponse(w, s.now())
	resp.Claims = toClaimResponses(claims)
	resp.ClaimCount = len(claims)
	return &resp, nil
}

// SubmitClaim opens a claim on an active warranty owned by the customer
func (s *Service) SubmitClaim(ctx context.Context, customerID, warrantyID uuid.UUID, req SubmitClaimRequest) (*ClaimResponse, error) {
	w, err := s.warrantyRepo.FindByIDForCustomer(ctx, customerID, warrantyID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	now := s.now()
	code, err := s.codes.UniqueClaimCode(ctx, s.claimRepo.ExistsByCode, now)
	if err != nil {
		return nil, err
	}
	c, err := warranty.NewClaim(w, code, warranty.IssueType(req.IssueType), req.IssueDescription, now)
	if err != nil {
		return nil, err
	}
	c.ProductName = w.ProductName
	if err := s.claimRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("Warranty claim submitted",
		zap.String("claim_code", c.ClaimCode),
		zap.String("warranty_id", w.ID.String()))
	s.publish(ctx, c)
	resp := ToClaimResponse(c)
	return &resp, nil
}

// GetClaim returns one of the customer's claims
func (s *Service) GetClaim(ctx context.Context, customerID, claimID uuid.UUID) (*ClaimResponse, error) {
	c, err := s.claimRepo.FindByIDForCustomer(ctx, customerID, claimID)
	if err != nil {
		return nil, err
	}
	resp := ToClaimResponse(c)
	return &resp, nil
}

// CheckByCode looks up the public summary of any warranty by its code
func (s *Service) CheckByCode(ctx context.Context, code string) (*InfoResponse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Please enter a warranty code")
	}
	w, err := s.warrantyRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("No warranty found with code %s", code))
		}
		return nil, err
	}
	info := ToInfoResponse(w, s.now())
	return &info, nil
}

// Info returns the public summary of one of the customer's warranties
func (s *Service) Info(ctx context.Context, customerID, id uuid.UUID) (*InfoResponse, error) {
	w, err := s.warrantyRepo.FindByIDForCustomer(ctx, customerID, id)
	if err != nil {
		return nil, err
	}
	info := ToInfoResponse(w, s.now())
	return &info, nil
}

// QRCode renders the warranty code of one of the customer's warranties
func (s *Service) QRCode(ctx context.Context, customerID, id uuid.UUID) ([]byte, error) {
	w, err := s.warrantyRepo.FindByIDForCustomer(ctx, customerID, id)
	if err != nil {
		return nil, err
	}
	png, err := s.qr.EncodePNG(w.WarrantyCode, QRCodeSize)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code for %s: %w", w.WarrantyCode, err)
	}
	return png, nil
}

func (s *Service) publish(ctx context.Context, agg shared.EventSource) {
	events := agg.PullEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish warranty events", zap.Error(err))
	}
}

func parseStatus(raw string) (warranty.Status, error) {
	status := warranty.Status(raw)
	if status != "" && !status.IsValid() {
		return "", shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown warranty status %q", raw))
	}
	return status, nil
}

func parseClaimStatus(raw string) (warranty.ClaimStatus, error) {
	status := warranty.ClaimStatus(raw)
	if status != "" && !status.IsValid() {
		return "", shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown claim status %q", raw))
	}
	return status, nil
}
