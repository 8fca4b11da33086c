package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phonestore/backend/internal/domain/report"
	"github.com/phonestore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	// XLSXContentType is the MIME type of the revenue export
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	dateLayout        = "2006-01-02"
	topLimit          = 10
	monthlyPoints     = 12
	dailyPoints       = 30
	defaultExportDays = 30
	maxExportDays     = 366
)

// Exporter renders export data into a spreadsheet
type Exporter interface {
	Write(data *ExportData) ([]byte, error)
}

// ReportService provides the revenue overview and its spreadsheet export
type ReportService struct {
	revenueRepo report.RevenueRepository
	exporter    Exporter
	logger      *zap.Logger
	now         func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(revenueRepo report.RevenueRepository, exporter Exporter, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		revenueRepo: revenueRepo,
		exporter:    exporter,
		logger:      logger,
		now:         time.Now,
	}
}

// Overview builds the revenue report. Cancelled orders never count as revenue.
// The status breakdown covers the same twelve months as the monthly series.
func (s *ReportService) Overview(ctx context.Context) (*OverviewResponse, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	last30 := today.AddDate(0, 0, -(dailyPoints - 1))
	seriesStart := monthStart.AddDate(0, -(monthlyPoints - 1), 0)

	total, err := s.revenueRepo.Totals(ctx, report.RangeFilter{})
	if err != nil {
		return nil, fmt.Errorf("total revenue: %w", err)
	}
	month, err := s.revenueRepo.Totals(ctx, report.RangeFilter{From: &monthStart})
	if err != nil {
		return nil, fmt.Errorf("month revenue: %w", err)
	}
	year, err := s.revenueRepo.Totals(ctx, report.RangeFilter{From: &yearStart})
	if err != nil {
		return nil, fmt.Errorf("year revenue: %w", err)
	}
	recent, err := s.revenueRepo.Totals(ctx, report.RangeFilter{From: &last30})
	if err != nil {
		return nil, fmt.Errorf("last 30 days revenue: %w", err)
	}

	rows, err := s.revenueRepo.Orders(ctx, report.RangeFilter{From: &seriesStart})
	if err != nil {
		return nil, fmt.Errorf("orders: %w", err)
	}
	products, err := s.revenueRepo.TopProducts(ctx, report.RangeFilter{Limit: topLimit})
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	categories, err := s.revenueRepo.RevenueByCategory(ctx, report.RangeFilter{})
	if err != nil {
		return nil, fmt.Errorf("revenue by category: %w", err)
	}
	customers, err := s.revenueRepo.TopCustomers(ctx, report.RangeFilter{Limit: topLimit})
	if err != nil {
		return nil, fmt.Errorf("top customers: %w", err)
	}

	return &OverviewResponse{
		GeneratedAt:       now,
		TotalRevenue:      total.Revenue,
		MonthRevenue:      month.Revenue,
		YearRevenue:       year.Revenue,
		Last30DaysRevenue: recent.Revenue,
		TotalOrders:       total.OrderCount,
		MonthOrders:       month.OrderCount,
		YearOrders:        year.OrderCount,
		Monthly:           report.MonthlySeries(rows, now, monthlyPoints),
		Daily:             report.DailySeries(rows, now, dailyPoints),
		TopProducts:       products,
		ByCategory:        categories,
		TopCustomers:      customers,
		ByStatus:          report.BreakdownByStatus(rows),
	}, nil
}

// Export writes the revenue workbook for an inclusive date range.
// Without dates it covers the last 30 days including today.
func (s *ReportService) Export(ctx context.Context, req ExportRequest) (*ExportFile, error) {
	from, to, err := s.exportRange(req)
	if err != nil {
		return nil, err
	}
	// The repository treats To as exclusive
	end := to.AddDate(0, 0, 1)
	filter := report.RangeFilter{From: &from, To: &end}

	rows, err := s.revenueRepo.Orders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("orders: %w", err)
	}
	products, err := s.revenueRepo.TopProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("products: %w", err)
	}
	customers, err := s.revenueRepo.TopCustomers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("customers: %w", err)
	}

	months := monthsBetween(from, to)
	data := &ExportData{
		From:      from,
		To:        to,
		Totals:    report.SummarizeRows(rows),
		ByStatus:  report.BreakdownByStatus(rows),
		Orders:    rows,
		Products:  products,
		Customers: customers,
		Monthly:   report.MonthlySeries(rows, to, months),
	}
	body, err := s.exporter.Write(data)
	if err != nil {
		s.logger.Error("Failed to render revenue export", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Revenue export generated",
		zap.String("from", from.Format(dateLayout)),
		zap.String("to", to.Format(dateLayout)),
		zap.Int("orders", len(rows)),
		zap.Int("bytes", len(body)))

	return &ExportFile{
		FileName:    fmt.Sprintf("revenue_%s_%s.xlsx", from.Format("20060102"), to.Format("20060102")),
		ContentType: XLSXContentType,
		Data:        body,
	}, nil
}

func (s *ReportService) exportRange(req ExportRequest) (time.Time, time.Time, error) {
	now := s.now()
	loc := now.Location()
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	from := to.AddDate(0, 0, -(defaultExportDays - 1))

	if v := strings.TrimSpace(req.EndDate); v != "" {
		d, err := time.ParseInLocation(dateLayout, v, loc)
		if err != nil {
			return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_INPUT", "End date must use the yyyy-MM-dd format")
		}
		to = d
		if strings.TrimSpace(req.StartDate) == "" {
			from = to.AddDate(0, 0, -(defaultExportDays - 1))
		}
	}
	if v := strings.TrimSpace(req.StartDate); v != "" {
		d, err := time.ParseInLocation(dateLayout, v, loc)
		if err != nil {
			return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_INPUT", "Start date must use the yyyy-MM-dd format")
		}
		from = d
	}

	if from.After(to) {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_INPUT", "Start date must not be after end date")
	}
	if to.Sub(from) > maxExportDays*24*time.Hour {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_INPUT", "Export range cannot exceed one year")
	}
	return from, to, nil
}

// monthsBetween counts calendar months touched by [from, to]
func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month()) + 1
}
