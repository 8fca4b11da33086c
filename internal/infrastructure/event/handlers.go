package event

import (
	"context"

	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/domain/trade"
	"github.com/phonestore/backend/internal/domain/warranty"
	"go.uber.org/zap"
)

// MetricsRecorder receives business counters derived from domain events
type MetricsRecorder interface {
	RecordOrderPlaced(ctx context.Context, paymentMethod string, byAdmin bool, amount float64, lines int)
	RecordOrderStatusChanged(ctx context.Context, from, to string)
	RecordCheckoutFailed(ctx context.Context, reason string)
	RecordWarrantyIssued(ctx context.Context, periodMonths int)
	RecordClaimSubmitted(ctx context.Context, issueType string)
	RecordClaimStatusChanged(ctx context.Context, from, to string)
}

// BusinessMetricsHandler turns order and warranty events into metrics
type BusinessMetricsHandler struct {
	recorder MetricsRecorder
}

// NewBusinessMetricsHandler creates a handler feeding the recorder
func NewBusinessMetricsHandler(recorder MetricsRecorder) *BusinessMetricsHandler {
	return &BusinessMetricsHandler{recorder: recorder}
}

// EventTypes implements shared.EventHandler
func (h *BusinessMetricsHandler) EventTypes() []string {
	return []string{
		trade.EventTypeOrderPlaced,
		trade.EventTypeOrderStatusChanged,
		trade.EventTypeCheckoutFailed,
		warranty.EventTypeWarrantyIssued,
		warranty.EventTypeClaimSubmitted,
		warranty.EventTypeClaimStatusChanged,
	}
}

// Handle implements shared.EventHandler
func (h *BusinessMetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *trade.OrderPlacedEvent:
		h.recorder.RecordOrderPlaced(ctx, string(e.PaymentMethod), e.PlacedByAdmin, e.TotalAmount.InexactFloat64(), e.LineCount)
	case *trade.OrderStatusChangedEvent:
		h.recorder.RecordOrderStatusChanged(ctx, string(e.FromStatus), string(e.ToStatus))
	case *trade.CheckoutFailedEvent:
		h.recorder.RecordCheckoutFailed(ctx, e.Reason)
	case *warranty.WarrantyIssuedEvent:
		h.recorder.RecordWarrantyIssued(ctx, e.PeriodMonths)
	case *warranty.ClaimSubmittedEvent:
		h.recorder.RecordClaimSubmitted(ctx, string(e.IssueType))
	case *warranty.ClaimStatusChangedEvent:
		h.recorder.RecordClaimStatusChanged(ctx, string(e.FromStatus), string(e.ToStatus))
	}
	return nil
}

// AuditLogHandler writes one structured log line per domain event
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates an audit handler
func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{logger: logger.Named("audit")}
}

// EventTypes returns nil so the handler sees every event
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}

// Handle implements shared.EventHandler
func (h *AuditLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}
	switch e := event.(type) {
	case *trade.OrderPlacedEvent:
		fields = append(fields, zap.String("customer_id", e.CustomerID.String()), zap.String("total", e.TotalAmount.String()))
	case *trade.OrderStatusChangedEvent:
		fields = append(fields, zap.String("from", string(e.FromStatus)), zap.String("to", string(e.ToStatus)))
	case *trade.CheckoutFailedEvent:
		fields = append(fields, zap.String("customer_id", e.CustomerID.String()), zap.String("reason", e.Reason))
	case *warranty.ClaimStatusChangedEvent:
		fields = append(fields,
			zap.String("from", string(e.FromStatus)),
			zap.String("to", string(e.ToStatus)),
			zap.String("processed_by", e.ProcessedBy))
	}
	h.logger.Info("Domain event", fields...)
	return nil
}

var (
	_ shared.EventHandler = (*BusinessMetricsHandler)(nil)
	_ shared.EventHandler = (*AuditLogHandler)(nil)
)
