package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/partner"
	"github.com/phonestore/backend/internal/domain/shared"
)

// CouponService manages one-time coupons
type CouponService struct {
	couponRepo partner.CouponRepository
	now        func() time.Time
}

// NewCouponService creates a new CouponService
func NewCouponService(couponRepo partner.CouponRepository) *CouponService {
	return &CouponService{couponRepo: couponRepo, now: time.Now}
}

// List searches coupons by code and derived status
func (s *CouponService) List(ctx context.Context, filter CouponListFilter) (*shared.Paginated[CouponResponse], error) {
	now := s.now()
	f := partner.CouponFilter{
		Filter: pageFilter(partner.NormalizeCouponCode(filter.Search), filter.Page, filter.PageSize),
		Status: partner.CouponStatus(filter.Status),
		Now:    now,
	}
	coupons, total, err := s.couponRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]CouponResponse, 0, len(coupons))
	for i := range coupons {
		items = append(items, ToCouponResponse(&coupons[i], now))
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// GetByID returns a coupon
func (s *CouponService) GetByID(ctx context.Context, id uuid.UUID) (*CouponResponse, error) {
	c, err := s.couponRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCouponResponse(c, s.now())
	return &resp, nil
}

// Create creates a coupon with a unique code
func (s *CouponService) Create(ctx context.Context, req CouponRequest) (*CouponResponse, error) {
	c, err := partner.NewCoupon(req.Code, req.DiscountAmount, req.ExpiryDate)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCode(ctx, c.Code, nil); err != nil {
		return nil, err
	}
	if err := s.couponRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCouponResponse(c, s.now())
	return &resp, nil
}

// Update edits a coupon
func (s *CouponService) Update(ctx context.Context, id uuid.UUID, req CouponRequest) (*CouponResponse, error) {
	c, err := s.couponRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Update(req.Code, req.DiscountAmount, req.ExpiryDate); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCode(ctx, c.Code, &id); err != nil {
		return nil, err
	}
	if err := s.couponRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCouponResponse(c, s.now())
	return &resp, nil
}

// Delete removes a coupon
func (s *CouponService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.couponRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.couponRepo.Delete(ctx, id)
}

func (s *CouponService) ensureUniqueCode(ctx context.Context, code string, excludeID *uuid.UUID) error {
	exists, err := s.couponRepo.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "A coupon with this code already exists")
	}
	return nil
}
