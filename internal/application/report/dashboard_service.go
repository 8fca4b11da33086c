package report

import (
	"context"
	"time"

	"github.com/phonestore/backend/internal/domain/catalog"
	"github.com/phonestore/backend/internal/domain/partner"
	"github.com/phonestore/backend/internal/domain/report"
	"github.com/phonestore/backend/internal/domain/trade"
	"github.com/phonestore/backend/internal/domain/warranty"
	"golang.org/x/sync/errgroup"
)

const (
	lowStockLimit     = 10
	recentOrdersLimit = 5
)

// DashboardService aggregates the admin landing page figures
type DashboardService struct {
	productRepo  catalog.ProductRepository
	orderRepo    trade.OrderRepository
	customerRepo partner.CustomerRepository
	claimRepo    warranty.ClaimRepository
	revenueRepo  report.RevenueRepository
	now          func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	productRepo catalog.ProductRepository,
	orderRepo trade.OrderRepository,
	customerRepo partner.CustomerRepository,
	claimRepo warranty.ClaimRepository,
	revenueRepo report.RevenueRepository,
) *DashboardService {
	return &DashboardService{
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		claimRepo:    claimRepo,
		revenueRepo:  revenueRepo,
		now:          time.Now,
	}
}

// Dashboard loads the counters, revenue, low-stock products and recent
// orders. The queries are independent and run concurrently.
func (s *DashboardService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var (
		resp     DashboardResponse
		total    *report.Totals
		month    *report.Totals
		lowStock []catalog.Product
		recent   []trade.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		resp.ProductCount, err = s.productRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.OrderCount, err = s.orderRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.CustomerCount, err = s.customerRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.PendingClaims, err = s.claimRepo.CountByStatus(gctx, warranty.ClaimPending)
		return err
	})
	g.Go(func() (err error) {
		total, err = s.revenueRepo.Totals(gctx, report.RangeFilter{})
		return err
	})
	g.Go(func() (err error) {
		month, err = s.revenueRepo.Totals(gctx, report.RangeFilter{From: &monthStart})
		return err
	})
	g.Go(func() (err error) {
		lowStock, err = s.productRepo.FindLowStock(gctx, catalog.LowStockThreshold, lowStockLimit)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.orderRepo.FindRecent(gctx, recentOrdersLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp.TotalRevenue = total.Revenue
	resp.MonthRevenue = month.Revenue
	resp.LowStock = make([]LowStockProduct, 0, len(lowStock))
	for _, p := range lowStock {
		resp.LowStock = append(resp.LowStock, LowStockProduct{ID: p.ID, Name: p.Name, Stock: p.Stock})
	}
	resp.RecentOrders = make([]RecentOrder, 0, len(recent))
	for _, o := range recent {
		resp.RecentOrders = append(resp.RecentOrders, RecentOrder{
			ID:           o.ID,
			OrderDate:    o.OrderDate,
			CustomerName: o.CustomerName,
			Status:       string(o.Status),
			TotalAmount:  o.TotalAmount,
		})
	}
	return &resp, nil
}
