package warranty

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	tradeapp "github.com/phonestore/backend/internal/application/trade"
	"github.com/phonestore/backend/internal/domain/catalog"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/domain/trade"
	"github.com/phonestore/backend/internal/domain/warranty"
	"go.uber.org/zap"
)

// AdminService is the back-office warranty and claim service
type AdminService struct {
	warrantyRepo   warranty.WarrantyRepository
	claimRepo      warranty.ClaimRepository
	orderRepo      trade.OrderRepository
	productRepo    catalog.ProductRepository
	txScope        tradeapp.TransactionScope
	codes          *warranty.CodeGenerator
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewAdminService creates a new AdminService
func NewAdminService(
	warrantyRepo warranty.WarrantyRepository,
	claimRepo warranty.ClaimRepository,
	orderRepo trade.OrderRepository,
	productRepo catalog.ProductRepository,
	txScope tradeapp.TransactionScope,
	codes *warranty.CodeGenerator,
	logger *zap.Logger,
) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if codes == nil {
		codes = warranty.NewCodeGenerator()
	}
	return &AdminService{
		warrantyRepo: warrantyRepo,
		claimRepo:    claimRepo,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		txScope:      txScope,
		codes:        codes,
		logger:       logger,
		now:          time.Now,
	}
}

// SetEventPublisher sets the publisher for warranty and claim events
func (s *AdminService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// List searches all warranties
func (s *AdminService) List(ctx context.Context, filter ListFilter) (*shared.Paginated[Response], error) {
	status, err := parseStatus(filter.Status)
	if err != nil {
		return nil, err
	}
	f := warranty.Filter{
		Filter: toFilter(filter.Search, filter.Page, filter.PageSize),
		Status: status,
	}
	warranties, total, err := s.warrantyRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	now := s.now()
	items := make([]Response, 0, len(warranties))
	for i := range warranties {
		items = append(items, ToResponse(&warranties[i], now))
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Stats returns store-wide warranty counters
func (s *AdminService) Stats(ctx context.Context) (*warranty.Stats, error) {
	return s.warrantyRepo.Stats(ctx, nil, s.now())
}

// Get returns a warranty with its claims
func (s *AdminService) Get(ctx context.Context, id uuid.UUID) (*Response, error) {
	w, err := s.warrantyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	claims, err := s.claimRepo.FindByWarranty(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToResponse(w, s.now())
	resp.Claims = toClaimResponses(claims)
	resp.ClaimCount = len(claims)
	return &resp, nil
}

// Create issues a warranty for an order line that has none
func (s *AdminService) Create(ctx context.Context, req CreateWarrantyRequest) (*Response, error) {
	detail, err := s.orderRepo.FindDetail(ctx, req.OrderDetailID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_INPUT", "Order line not found")
		}
		return nil, err
	}
	exists, err := s.warrantyRepo.ExistsForOrderDetail(ctx, detail.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "This order line already has a warranty")
	}
	order, err := s.orderRepo.FindByID(ctx, detail.OrderID)
	if err != nil {
		return nil, err
	}
	if order.IsCancelled() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot issue a warranty for a cancelled order")
	}

	months := req.WarrantyPeriodMonths
	if months == 0 {
		p, err := s.productRepo.FindByID(ctx, detail.ProductID)
		if err != nil {
			return nil, err
		}
		if !p.HasWarranty() {
			return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("%s carries no warranty", p.Name))
		}
		months = p.WarrantyPeriodMonths
	}

	now := s.now()
	start := now
	if req.StartDate != nil {
		start = *req.StartDate
	}
	code, err := s.codes.UniqueWarrantyCode(ctx, s.warrantyRepo.ExistsByCode, now)
	if err != nil {
		return nil, err
	}
	w, err := warranty.NewWarranty(detail.ID, order.CustomerID, code, months, start)
	if err != nil {
		return nil, err
	}
	w.Notes = strings.TrimSpace(req.Notes)
	if err := s.warrantyRepo.Create(ctx, w); err != nil {
		return nil, err
	}
	w.OrderID = order.ID
	w.ProductID = detail.ProductID
	w.ProductName = detail.ProductName
	w.ColorName = detail.ColorName
	w.CustomerName = order.CustomerName
	w.CustomerEmail = order.CustomerEmail

	s.logger.Info("Warranty issued manually",
		zap.String("warranty_code", w.WarrantyCode),
		zap.String("order_detail_id", detail.ID.String()))
	s.publish(ctx, w)
	resp := ToResponse(w, now)
	return &resp, nil
}

// UpdateStatus moves a warranty to a new status
func (s *AdminService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*Response, error) {
	w, err := s.warrantyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := w.ChangeStatus(warranty.Status(req.Status), req.Notes); err != nil {
		return nil, err
	}
	if err := s.warrantyRepo.Save(ctx, w); err != nil {
		return nil, err
	}
	resp := ToResponse(w, s.now())
	return &resp, nil
}

// ExpireOverdue persists the Expired status of active warranties whose end
// date has passed. Effective status is already derived from the date, so
// this only keeps the stored status and the status filter in step.
func (s *AdminService) ExpireOverdue(ctx context.Context) (int64, error) {
	n, err := s.warrantyRepo.ExpireOverdue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("Expired overdue warranties", zap.Int64("count", n))
	}
	return n, nil
}

// AutoCreate issues warranties for every line of a delivered order whose
// product carries one. Lines that already have a warranty are skipped, so
// running it twice is harmless. Either every warranty is issued or none is.
func (s *AdminService) AutoCreate(ctx context.Context, orderID uuid.UUID) (*AutoCreateResponse, error) {
	now := s.now()
	var (
		result *AutoCreateResponse
		issued []*warranty.Warranty
	)
	err := s.txScope.Execute(ctx, func(repos tradeapp.TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status != trade.OrderStatusDelivered {
			return shared.NewDomainError("INVALID_STATE", "Warranties can only be issued for delivered orders")
		}
		result = &AutoCreateResponse{OrderID: order.ID, Items: make([]Response, 0)}
		issued, err = s.issueForOrder(ctx, repos, order, result, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	for _, w := range issued {
		s.publish(ctx, w)
	}
	s.logger.Info("Warranties issued for order",
		zap.String("order_id", orderID.String()),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

func (s *AdminService) issueForOrder(ctx context.Context, repos tradeapp.TransactionalRepositories, order *trade.Order, result *AutoCreateResponse, now time.Time) ([]*warranty.Warranty, error) {
	warranties := repos.WarrantyRepo()
	var issued []*warranty.Warranty
	for _, d := range order.Details {
		exists, err := warranties.ExistsForOrderDetail(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			result.Skipped++
			continue
		}
		p, err := repos.ProductRepo().FindByID(ctx, d.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				result.Skipped++
				continue
			}
			return nil, err
		}
		if !p.HasWarranty() {
			result.Skipped++
			continue
		}
		code, err := s.codes.UniqueWarrantyCode(ctx, warranties.ExistsByCode, now)
		if err != nil {
			return nil, err
		}
		w, err := warranty.NewWarranty(d.ID, order.CustomerID, code, p.WarrantyPeriodMonths, now)
		if err != nil {
			return nil, err
		}
		if err := warranties.Create(ctx, w); err != nil {
			return nil, err
		}
		w.OrderID = order.ID
		w.ProductID = p.ID
		w.ProductName = p.Name
		issued = append(issued, w)
		result.Items = append(result.Items, ToResponse(w, now))
		result.Created++
	}
	return issued, nil
}

// ListClaims searches all claims
func (s *AdminService) ListClaims(ctx context.Context, filter ClaimListFilter) (*shared.Paginated[ClaimResponse], error) {
	status, err := parseClaimStatus(filter.Status)
	if err != nil {
		return nil, err
	}
	f := warranty.ClaimFilter{
		Filter: toFilter(filter.Search, filter.Page, filter.PageSize),
		Status: status,
	}
	f.OrderBy = "submitted_at"
	claims, total, err := s.claimRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(toClaimResponses(claims), total, f.Page, f.PageSize)
	return &page, nil
}

// PendingClaimCount counts claims awaiting a first decision
func (s *AdminService) PendingClaimCount(ctx context.Context) (int64, error) {
	return s.claimRepo.CountByStatus(ctx, warranty.ClaimPending)
}

// GetClaim returns any claim
func (s *AdminService) GetClaim(ctx context.Context, id uuid.UUID) (*ClaimResponse, error) {
	c, err := s.claimRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToClaimResponse(c)
	return &resp, nil
}

// ProcessClaim records a staff decision on a claim
func (s *AdminService) ProcessClaim(ctx context.Context, id uuid.UUID, adminUsername string, req ProcessClaimRequest) (*ClaimResponse, error) {
	return s.mutateClaim(ctx, id, func(c *warranty.Claim, now time.Time) error {
		return c.Process(warranty.ClaimDecision{
			Status:         warranty.ClaimStatus(req.Status),
			AdminNotes:     req.AdminNotes,
			Resolution:     req.Resolution,
			ResolutionType: warranty.ResolutionType(req.ResolutionType),
		}, adminUsername, now)
	})
}

// UpdateClaimStatus moves a claim to a new status
func (s *AdminService) UpdateClaimStatus(ctx context.Context, id uuid.UUID, adminUsername string, req ClaimStatusRequest) (*ClaimResponse, error) {
	return s.mutateClaim(ctx, id, func(c *warranty.Claim, now time.Time) error {
		return c.ChangeStatus(warranty.ClaimStatus(req.Status), adminUsername, now)
	})
}

func (s *AdminService) mutateClaim(ctx context.Context, id uuid.UUID, change func(*warranty.Claim, time.Time) error) (*ClaimResponse, error) {
	c, err := s.claimRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := change(c, s.now()); err != nil {
		return nil, err
	}
	if err := s.claimRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("Warranty claim updated",
		zap.String("claim_code", c.ClaimCode),
		zap.String("status", string(c.Status)),
		zap.String("processed_by", c.ProcessedBy))
	s.publish(ctx, c)
	resp := ToClaimResponse(c)
	return &resp, nil
}

func (s *AdminService) publish(ctx context.Context, agg shared.EventSource) {
	events := agg.PullEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish warranty events", zap.Error(err))
	}
}
