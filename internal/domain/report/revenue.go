package report

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RangeFilter bounds a revenue query by order date. From is inclusive,
// To is exclusive and nil bounds are open.
type RangeFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

// Totals is revenue and order count over a range
type Totals struct {
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int64           `json:"order_count"`
}

// Average returns revenue per order, zero when there are no orders
func (t Totals) Average() decimal.Decimal {
	if t.OrderCount == 0 {
		return decimal.Zero
	}
	return t.Revenue.Div(decimal.NewFromInt(t.OrderCount)).Round(2)
}

// OrderRow is a flattened order used for series and exports
type OrderRow struct {
	OrderID       uuid.UUID       `json:"order_id"`
	OrderDate     time.Time       `json:"order_date"`
	CustomerName  string          `json:"customer_name"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	ItemCount     int64           `json:"item_count"`
}

// ProductRevenue ranks a product by revenue, where revenue is the sum of
// quantity times captured unit price.
type ProductRevenue struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
	OrderCount  int64           `json:"order_count"`
}

// CategoryRevenue is revenue grouped by product category
type CategoryRevenue struct {
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Quantity     int64           `json:"quantity"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// CustomerRevenue ranks a customer by spend
type CustomerRevenue struct {
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	TotalSpent   decimal.Decimal `json:"total_spent"`
	OrderCount   int64           `json:"order_count"`
	Average      decimal.Decimal `json:"average_order_value"`
	FirstOrder   *time.Time      `json:"first_order,omitempty"`
	LastOrder    *time.Time      `json:"last_order,omitempty"`
}

// StatusBreakdown counts orders and revenue per status
type StatusBreakdown struct {
	Status     string          `json:"status"`
	OrderCount int64           `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// MonthlyRevenue is one point of the monthly series
type MonthlyRevenue struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	Label      string          `json:"label"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int64           `json:"order_count"`
	Average    decimal.Decimal `json:"average_order_value"`
}

// DailyRevenue is one point of the daily series
type DailyRevenue struct {
	Date       time.Time       `json:"date"`
	Label      string          `json:"label"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int64           `json:"order_count"`
}

// RevenueRepository defines the aggregate queries behind revenue reports.
// Cancelled orders never count as revenue.
type RevenueRepository interface {
	// Totals sums revenue and counts orders in the range
	Totals(ctx context.Context, filter RangeFilter) (*Totals, error)

	// Orders lists every order in the range, oldest first, cancelled included
	Orders(ctx context.Context, filter RangeFilter) ([]OrderRow, error)

	// TopProducts ranks products by revenue
	TopProducts(ctx context.Context, filter RangeFilter) ([]ProductRevenue, error)

	// RevenueByCategory groups revenue by category, highest first
	RevenueByCategory(ctx context.Context, filter RangeFilter) ([]CategoryRevenue, error)

	// TopCustomers ranks customers by spend
	TopCustomers(ctx context.Context, filter RangeFilter) ([]CustomerRevenue, error)
}

// CountsAsRevenue reports whether an order status contributes to revenue
func CountsAsRevenue(status string) bool {
	return status != "Cancelled"
}

// MonthlySeries buckets orders into the last n calendar months ending with
// the month of now, filling months without orders with zeros.
func MonthlySeries(rows []OrderRow, now time.Time, n int) []MonthlyRevenue {
	type key struct{ y, m int }
	buckets := make(map[key]*MonthlyRevenue, n)
	series := make([]MonthlyRevenue, 0, n)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(n - 1), 0)
	for i := 0; i < n; i++ {
		d := first.AddDate(0, i, 0)
		series = append(series, MonthlyRevenue{
			Year:    d.Year(),
			Month:   int(d.Month()),
			Label:   d.Format("01/2006"),
			Revenue: decimal.Zero,
			Average: decimal.Zero,
		})
	}
	for i := range series {
		buckets[key{series[i].Year, series[i].Month}] = &series[i]
	}
	for _, r := range rows {
		if !CountsAsRevenue(r.Status) {
			continue
		}
		d := r.OrderDate.In(now.Location())
		if b, ok := buckets[key{d.Year(), int(d.Month())}]; ok {
			b.Revenue = b.Revenue.Add(r.TotalAmount)
			b.OrderCount++
		}
	}
	for i := range series {
		series[i].Average = Totals{Revenue: series[i].Revenue, OrderCount: series[i].OrderCount}.Average()
	}
	return series
}

// DailySeries buckets orders into the last n days ending today
func DailySeries(rows []OrderRow, now time.Time, n int) []DailyRevenue {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	series := make([]DailyRevenue, 0, n)
	index := make(map[string]int, n)
	for i := n - 1; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		index[d.Format("2006-01-02")] = len(series)
		series = append(series, DailyRevenue{Date: d, Label: d.Format("02/01"), Revenue: decimal.Zero})
	}
	for _, r := range rows {
		if !CountsAsRevenue(r.Status) {
			continue
		}
		if i, ok := index[r.OrderDate.In(now.Location()).Format("2006-01-02")]; ok {
			series[i].Revenue = series[i].Revenue.Add(r.TotalAmount)
			series[i].OrderCount++
		}
	}
	return series
}

// BreakdownByStatus groups orders by status, largest count first
func BreakdownByStatus(rows []OrderRow) []StatusBreakdown {
	byStatus := make(map[string]*StatusBreakdown)
	var order []string
	for _, r := range rows {
		status := r.Status
		if status == "" {
			status = "Unknown"
		}
		b, ok := byStatus[status]
		if !ok {
			b = &StatusBreakdown{Status: status, Revenue: decimal.Zero}
			byStatus[status] = b
			order = append(order, status)
		}
		b.OrderCount++
		b.Revenue = b.Revenue.Add(r.TotalAmount)
	}
	out := make([]StatusBreakdown, 0, len(order))
	for _, s := range order {
		out = append(out, *byStatus[s])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderCount > out[j].OrderCount })
	return out
}

// SummarizeRows totals the revenue-bearing orders among rows
func SummarizeRows(rows []OrderRow) Totals {
	t := Totals{Revenue: decimal.Zero}
	for _, r := range rows {
		if !CountsAsRevenue(r.Status) {
			continue
		}
		t.Revenue = t.Revenue.Add(r.TotalAmount)
		t.OrderCount++
	}
	return t
}
