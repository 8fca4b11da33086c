package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned by NewBusinessMetrics without a meter
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

const defaultCollectInterval = 5 * time.Minute

// StockMetricsProvider reports catalog stock health for the gauges
type StockMetricsProvider interface {
	LowStockCount(ctx context.Context) (int64, error)
	OutOfStockCount(ctx context.Context) (int64, error)
}

// BusinessMetrics counts orders, checkouts and warranty activity and
// samples stock gauges on an interval.
type BusinessMetrics struct {
	logger *zap.Logger
	stock  StockMetricsProvider

	ordersPlaced       *Counter
	orderLines         *Counter
	orderAmount        *Histogram
	orderTransitions   *Counter
	checkoutFailures   *Counter
	warrantiesIssued   *Counter
	claimsSubmitted    *Counter
	claimTransitions   *Counter
	lowStockProducts   *Gauge
	outOfStockProducts *Gauge

	stopCh      chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
}

// BusinessMetricsConfig configures NewBusinessMetrics
type BusinessMetricsConfig struct {
	Meter         metric.Meter
	Logger        *zap.Logger
	StockProvider StockMetricsProvider
}

// NewBusinessMetrics registers the store's business instruments
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	bm := &BusinessMetrics{
		logger: logger.Named("business_metrics"),
		stock:  cfg.StockProvider,
		stopCh: make(chan struct{}),
	}

	counters := []struct {
		dst              **Counter
		name, desc, unit string
	}{
		{&bm.ordersPlaced, "phonestore_orders_placed_total", "Orders placed through checkout", "{orders}"},
		{&bm.orderLines, "phonestore_order_lines_total", "Order lines sold", "{lines}"},
		{&bm.orderTransitions, "phonestore_order_status_changes_total", "Order status transitions", "{changes}"},
		{&bm.checkoutFailures, "phonestore_checkout_failures_total", "Checkouts rolled back, by reason", "{checkouts}"},
		{&bm.warrantiesIssued, "phonestore_warranties_issued_total", "Warranties issued for order lines", "{warranties}"},
		{&bm.claimsSubmitted, "phonestore_warranty_claims_total", "Warranty claims submitted", "{claims}"},
		{&bm.claimTransitions, "phonestore_warranty_claim_status_changes_total", "Warranty claim status transitions", "{changes}"},
	}
	var err error
	for _, c := range counters {
		if *c.dst, err = NewCounter(cfg.Meter, c.name, c.desc, c.unit); err != nil {
			return nil, err
		}
	}

	if bm.orderAmount, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "phonestore_order_amount",
		Description: "Order totals",
		Unit:        "VND",
		Boundaries:  OrderAmountBuckets,
	}); err != nil {
		return nil, err
	}
	if bm.lowStockProducts, err = NewGauge(cfg.Meter, "phonestore_low_stock_products", "Products at or below the low stock threshold", "{products}"); err != nil {
		return nil, err
	}
	if bm.outOfStockProducts, err = NewGauge(cfg.Meter, "phonestore_out_of_stock_products", "Products with no stock", "{products}"); err != nil {
		return nil, err
	}
	return bm, nil
}

// RecordOrderPlaced counts one committed checkout
func (bm *BusinessMetrics) RecordOrderPlaced(ctx context.Context, paymentMethod string, byAdmin bool, amount float64, lines int) {
	channel := "storefront"
	if byAdmin {
		channel = "admin"
	}
	attrs := []attribute.KeyValue{AttrPaymentMethod.String(paymentMethod), AttrOrderChannel.String(channel)}
	bm.ordersPlaced.Inc(ctx, attrs...)
	bm.orderLines.Add(ctx, int64(lines), attrs...)
	bm.orderAmount.Record(ctx, amount, attrs...)
}

// RecordOrderStatusChanged counts one order transition
func (bm *BusinessMetrics) RecordOrderStatusChanged(ctx context.Context, from, to string) {
	bm.orderTransitions.Inc(ctx, AttrFromStatus.String(from), AttrToStatus.String(to))
}

// RecordCheckoutFailed counts one rolled back checkout
func (bm *BusinessMetrics) RecordCheckoutFailed(ctx context.Context, reason string) {
	bm.checkoutFailures.Inc(ctx, AttrFailureReason.String(reason))
}

// RecordWarrantyIssued counts one issued warranty
func (bm *BusinessMetrics) RecordWarrantyIssued(ctx context.Context, periodMonths int) {
	bm.warrantiesIssued.Inc(ctx, AttrPeriodMonths.Int(periodMonths))
}

// RecordClaimSubmitted counts one new claim
func (bm *BusinessMetrics) RecordClaimSubmitted(ctx context.Context, issueType string) {
	bm.claimsSubmitted.Inc(ctx, AttrIssueType.String(issueType))
}

// RecordClaimStatusChanged counts one claim transition
func (bm *BusinessMetrics) RecordClaimStatusChanged(ctx context.Context, from, to string) {
	bm.claimTransitions.Inc(ctx, AttrFromStatus.String(from), AttrToStatus.String(to))
}

// StartPeriodicCollection samples the stock gauges until Stop or ctx ends.
// Only the first call starts a collector.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = defaultCollectInterval
		}
		go bm.runCollection(ctx, interval)
	})
}

func (bm *BusinessMetrics) runCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.CollectStock(ctx)
	for {
		select {
		case <-bm.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			bm.CollectStock(ctx)
		}
	}
}

// CollectStock samples the stock gauges once
func (bm *BusinessMetrics) CollectStock(ctx context.Context) {
	if bm.stock == nil {
		return
	}
	if n, err := bm.stock.LowStockCount(ctx); err != nil {
		bm.logger.Warn("Failed to count low stock products", zap.Error(err))
	} else {
		bm.lowStockProducts.Record(ctx, n)
	}
	if n, err := bm.stock.OutOfStockCount(ctx); err != nil {
		bm.logger.Warn("Failed to count out of stock products", zap.Error(err))
	} else {
		bm.outOfStockProducts.Record(ctx, n)
	}
}

// Stop ends periodic collection
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopCh)
	})
}
