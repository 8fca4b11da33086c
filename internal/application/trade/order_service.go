package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/catalog"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/domain/trade"
	"go.uber.org/zap"
)

const cancelledWarrantyNote = "Order cancelled"

// OrderService handles back-office order management and the customer's
// order history
type OrderService struct {
	orderRepo      trade.OrderRepository
	productRepo    catalog.ProductRepository
	txScope        TransactionScope
	checkout       *CheckoutService
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo trade.OrderRepository,
	productRepo catalog.ProductRepository,
	txScope TransactionScope,
	checkout *CheckoutService,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		txScope:     txScope,
		checkout:    checkout,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for status changes
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// List searches orders by customer, status and date range
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	return s.list(ctx, filter, nil)
}

// ListForCustomer returns one customer's order history
func (s *OrderService) ListForCustomer(ctx context.Context, customerID uuid.UUID, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	return s.list(ctx, filter, &customerID)
}

func (s *OrderService) list(ctx context.Context, filter OrderListFilter, customerID *uuid.UUID) (*shared.Paginated[OrderResponse], error) {
	status := trade.OrderStatus(filter.Status)
	if status != "" && !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown order status %q", filter.Status))
	}
	f := trade.OrderFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   filter.Search,
			OrderBy:  "order_date",
			OrderDir: "desc",
		}.Normalize(),
		CustomerID: customerID,
		Status:     status,
		From:       filter.From,
		To:         filter.To,
	}
	orders, total, err := s.orderRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, ToOrderResponse(&orders[i]))
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// GetByID returns an order with its lines
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// GetForCustomer returns one of the signed-in customer's orders
func (s *OrderService) GetForCustomer(ctx context.Context, customerID, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByIDForCustomer(ctx, customerID, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// CancelForCustomer cancels one of the signed-in customer's orders through
// the same transaction as a back-office cancel
func (s *OrderService) CancelForCustomer(ctx context.Context, customerID, id uuid.UUID) (*OrderResponse, error) {
	return s.mutateWith(ctx, func(repos TransactionalRepositories) (*trade.Order, error) {
		return repos.OrderRepo().FindByIDForCustomer(ctx, customerID, id)
	}, (*trade.Order).CancelByCustomer)
}

// Create enters an order on behalf of a customer. Lines are priced from the
// live catalog and placed through the checkout transaction.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	lines := make([]trade.PlacementLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		p, err := s.productRepo.FindByID(ctx, l.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Product %s not found", l.ProductID))
			}
			return nil, err
		}
		lines = append(lines, trade.PlacementLine{
			ProductID:   p.ID,
			ProductName: p.Name,
			ColorID:     l.ColorID,
			Quantity:    l.Quantity,
			UnitPrice:   p.SalePrice(),
		})
	}

	order, err := s.checkout.Place(ctx, trade.PlaceOrderCommand{
		CustomerID:        req.CustomerID,
		ShippingAddressID: req.ShippingAddressID,
		NewAddress:        req.NewAddress.toInput(),
		PaymentMethod:     trade.PaymentMethod(req.PaymentMethod),
		Notes:             req.Notes,
		Lines:             lines,
		PlacedByAdmin:     true,
	})
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// Update edits the status, payment method and notes of an order
func (s *OrderService) Update(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	return s.mutate(ctx, id, func(o *trade.Order) error {
		if err := o.UpdateDetails(trade.PaymentMethod(req.PaymentMethod), req.Notes); err != nil {
			return err
		}
		return o.ChangeStatus(trade.OrderStatus(req.Status))
	})
}

// ChangeStatus moves an order to a new status. Cancelling restores stock
// and voids the order's active warranties in the same transaction.
func (s *OrderService) ChangeStatus(ctx context.Context, id uuid.UUID, req ChangeStatusRequest) (*OrderResponse, error) {
	return s.mutate(ctx, id, func(o *trade.Order) error {
		return o.ChangeStatus(trade.OrderStatus(req.Status))
	})
}

func (s *OrderService) mutate(ctx context.Context, id uuid.UUID, change func(*trade.Order) error) (*OrderResponse, error) {
	return s.mutateWith(ctx, func(repos TransactionalRepositories) (*trade.Order, error) {
		return repos.OrderRepo().FindByID(ctx, id)
	}, change)
}

func (s *OrderService) mutateWith(ctx context.Context, load func(TransactionalRepositories) (*trade.Order, error), change func(*trade.Order) error) (*OrderResponse, error) {
	var order *trade.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := load(repos)
		if err != nil {
			return err
		}
		if err := applyChange(ctx, repos, o, change); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)
	resp := ToOrderResponse(order)
	return &resp, nil
}

// applyChange writes the header first so only the transaction that wins the
// version check restores stock on a cancel
func applyChange(ctx context.Context, repos TransactionalRepositories, o *trade.Order, change func(*trade.Order) error) error {
	loadedVersion := o.Version
	wasCancelled := o.IsCancelled()
	if err := change(o); err != nil {
		return err
	}
	if err := repos.OrderRepo().UpdateHeader(ctx, o, loadedVersion); err != nil {
		return err
	}
	if o.IsCancelled() && !wasCancelled {
		return cancelOrder(ctx, repos, o)
	}
	return nil
}

func cancelOrder(ctx context.Context, repos TransactionalRepositories, o *trade.Order) error {
	for _, d := range o.Details {
		if err := repos.ProductRepo().IncrementStock(ctx, d.ProductID, d.Quantity); err != nil {
			return err
		}
	}
	_, err := repos.WarrantyRepo().VoidActiveByOrder(ctx, o.ID, cancelledWarrantyNote)
	return err
}

// Delete removes an order, its lines and their warranties. Orders whose
// warranties have claims are kept.
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.OrderRepo().FindByID(ctx, id); err != nil {
			return err
		}
		hasClaims, err := repos.WarrantyRepo().OrderHasClaims(ctx, id)
		if err != nil {
			return err
		}
		if hasClaims {
			return shared.NewDomainError("HAS_REFERENCES", "Cannot delete an order with warranty claims")
		}
		if err := repos.WarrantyRepo().DeleteByOrder(ctx, id); err != nil {
			return err
		}
		return repos.OrderRepo().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Order deleted", zap.String("order_id", id.String()))
	return nil
}

func (s *OrderService) publishEvents(ctx context.Context, o *trade.Order) {
	events := o.PullEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish order events",
			zap.String("order_id", o.ID.String()),
			zap.Error(err))
	}
}
