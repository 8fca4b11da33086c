package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/report"
	"github.com/shopspring/decimal"
)

// OverviewResponse is the revenue report page
type OverviewResponse struct {
	GeneratedAt       time.Time                `json:"generated_at"`
	TotalRevenue      decimal.Decimal          `json:"total_revenue"`
	MonthRevenue      decimal.Decimal          `json:"month_revenue"`
	YearRevenue       decimal.Decimal          `json:"year_revenue"`
	Last30DaysRevenue decimal.Decimal          `json:"last_30_days_revenue"`
	TotalOrders       int64                    `json:"total_orders"`
	MonthOrders       int64                    `json:"month_orders"`
	YearOrders        int64                    `json:"year_orders"`
	Monthly           []report.MonthlyRevenue  `json:"monthly"`
	Daily             []report.DailyRevenue    `json:"daily"`
	TopProducts       []report.ProductRevenue  `json:"top_products"`
	ByCategory        []report.CategoryRevenue `json:"by_category"`
	TopCustomers      []report.CustomerRevenue `json:"top_customers"`
	ByStatus          []report.StatusBreakdown `json:"by_status"`
}

// ExportRequest bounds the spreadsheet export. Dates use yyyy-MM-dd and
// both ends are inclusive.
type ExportRequest struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

// ExportData is everything written to the revenue workbook
type ExportData struct {
	From      time.Time
	To        time.Time
	Totals    report.Totals
	ByStatus  []report.StatusBreakdown
	Orders    []report.OrderRow
	Products  []report.ProductRevenue
	Customers []report.CustomerRevenue
	Monthly   []report.MonthlyRevenue
}

// ExportFile is a generated download
type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// DashboardResponse is the admin landing page
type DashboardResponse struct {
	ProductCount  int64             `json:"product_count"`
	OrderCount    int64             `json:"order_count"`
	CustomerCount int64             `json:"customer_count"`
	TotalRevenue  decimal.Decimal   `json:"total_revenue"`
	MonthRevenue  decimal.Decimal   `json:"month_revenue"`
	PendingClaims int64             `json:"pending_claims"`
	LowStock      []LowStockProduct `json:"low_stock"`
	RecentOrders  []RecentOrder     `json:"recent_orders"`
}

// LowStockProduct is a product that needs restocking
type LowStockProduct struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Stock int       `json:"stock"`
}

// RecentOrder is an order header shown on the dashboard
type RecentOrder struct {
	ID           uuid.UUID       `json:"id"`
	OrderDate    time.Time       `json:"order_date"`
	CustomerName string          `json:"customer_name"`
	Status       string          `json:"status"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}
