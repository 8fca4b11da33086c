package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	cartapp "github.com/phonestore/backend/internal/application/cart"
	partnerapp "github.com/phonestore/backend/internal/application/partner"
	"github.com/phonestore/backend/internal/domain/catalog"
	"github.com/phonestore/backend/internal/domain/partner"
	"github.com/phonestore/backend/internal/domain/session"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/domain/trade"
	"github.com/phonestore/backend/internal/domain/warranty"
	"go.uber.org/zap"
)

// IdempotencyTTL is how long a place-order key stays claimed
const IdempotencyTTL = 24 * time.Hour

const orderPlacedMessage = "Your order has been placed successfully"

// CheckoutService places orders from the session cart. The whole placement
// (address, header, stock, lines and warranties) runs in one transaction.
type CheckoutService struct {
	txScope        TransactionScope
	addressRepo    partner.AddressRepository
	orderRepo      trade.OrderRepository
	codes          *warranty.CodeGenerator
	idempotency    shared.IdempotencyStore
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	txScope TransactionScope,
	addressRepo partner.AddressRepository,
	orderRepo trade.OrderRepository,
	codes *warranty.CodeGenerator,
	logger *zap.Logger,
) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if codes == nil {
		codes = warranty.NewCodeGenerator()
	}
	return &CheckoutService{
		txScope:     txScope,
		addressRepo: addressRepo,
		orderRepo:   orderRepo,
		codes:       codes,
		logger:      logger,
		now:         time.Now,
	}
}

// SetEventPublisher sets the publisher for OrderPlaced and warranty events
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyStore enables the double-submit guard
func (s *CheckoutService) SetIdempotencyStore(store shared.IdempotencyStore) {
	s.idempotency = store
}

// View returns the cart, saved addresses and payment methods for checkout
func (s *CheckoutService) View(ctx context.Context, sess *session.Session) (*CheckoutView, error) {
	if !sess.IsAuthenticated() {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Please sign in to check out")
	}
	if sess.Cart.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_STATE", "Your cart is empty")
	}
	addresses, err := s.addressRepo.FindByCustomer(ctx, *sess.CustomerID)
	if err != nil {
		return nil, err
	}
	return &CheckoutView{
		CustomerName:   sess.CustomerName,
		Cart:           cartapp.ToResponse(sess.Cart),
		Addresses:      partnerapp.ToAddressResponses(addresses),
		PaymentMethods: trade.PaymentMethods,
	}, nil
}

// PlaceOrder places the session cart as an order. A non-empty
// idempotencyKey is claimed first; a replayed key is rejected before any
// transaction starts. On success the cart is cleared.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sess *session.Session, req PlaceOrderRequest, idempotencyKey string) (*PlaceOrderResult, error) {
	cmd := trade.PlaceOrderCommand{
		ShippingAddressID: req.ShippingAddressID,
		NewAddress:        req.NewAddress.toInput(),
		PaymentMethod:     trade.PaymentMethod(req.PaymentMethod),
		Notes:             req.Notes,
		Lines:             cartLines(sess),
	}
	if sess.CustomerID != nil {
		cmd.CustomerID = *sess.CustomerID
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	claimed, err := s.claim(ctx, cmd.CustomerID, idempotencyKey)
	if err != nil {
		return nil, err
	}

	order, err := s.Place(ctx, cmd)
	if err != nil {
		if claimed != "" {
			s.release(ctx, claimed)
		}
		return nil, err
	}

	sess.Cart.Clear()
	sess.MarkDirty()

	return &PlaceOrderResult{
		Success:            true,
		Message:            orderPlacedMessage,
		OrderID:            order.ID,
		RedirectToWarranty: true,
	}, nil
}

// Place runs the placement transaction for cmd and publishes the resulting
// events after commit. Shared by the storefront and admin order entry.
func (s *CheckoutService) Place(ctx context.Context, cmd trade.PlaceOrderCommand) (*trade.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	var (
		order  *trade.Order
		issued []*warranty.Warranty
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, issued, err = s.placeInTx(ctx, repos, cmd, now)
		return err
	})
	if err != nil {
		s.logger.Warn("Checkout failed",
			zap.String("customer_id", cmd.CustomerID.String()),
			zap.Error(err))
		s.publish(ctx, trade.NewCheckoutFailedEvent(cmd.CustomerID, failureReason(err)))
		return nil, err
	}

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("customer_id", order.CustomerID.String()),
		zap.String("total", order.TotalAmount.String()),
		zap.Int("warranties", len(issued)),
		zap.Bool("by_admin", cmd.PlacedByAdmin))

	events := []shared.DomainEvent{trade.NewOrderPlacedEvent(order, len(issued), cmd.PlacedByAdmin)}
	for _, w := range issued {
		events = append(events, w.PullEvents()...)
	}
	s.publish(ctx, events...)
	return order, nil
}

// Confirmation returns an order of the signed-in customer
func (s *CheckoutService) Confirmation(ctx context.Context, customerID, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByIDForCustomer(ctx, customerID, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

func (s *CheckoutService) placeInTx(ctx context.Context, repos TransactionalRepositories, cmd trade.PlaceOrderCommand, now time.Time) (*trade.Order, []*warranty.Warranty, error) {
	addressID, err := resolveAddress(ctx, repos.AddressRepo(), cmd)
	if err != nil {
		return nil, nil, err
	}

	order, err := trade.NewOrder(cmd.CustomerID, addressID, cmd.Total(), cmd.PaymentMethod, cmd.Notes, now)
	if err != nil {
		return nil, nil, err
	}

	products := make(map[uuid.UUID]*catalog.Product, len(cmd.Lines))
	for _, line := range cmd.Lines {
		detail := trade.NewOrderDetail(line.ProductID, line.ColorID, line.Quantity, line.UnitPrice)
		p, err := reserveStock(ctx, repos.ProductRepo(), line.ProductID, line.ProductName, detail.Quantity)
		if err != nil {
			return nil, nil, err
		}
		detail.ProductName = p.Name
		order.AddDetail(detail)
		products[p.ID] = p
	}

	if err := repos.OrderRepo().Create(ctx, order); err != nil {
		return nil, nil, err
	}

	var issued []*warranty.Warranty
	for _, d := range order.Details {
		p := products[d.ProductID]
		if !p.HasWarranty() {
			continue
		}
		w, err := issueWarranty(ctx, repos.WarrantyRepo(), s.codes, d.ID, order.CustomerID, p.WarrantyPeriodMonths, now)
		if err != nil {
			return nil, nil, err
		}
		issued = append(issued, w)
	}
	return order, issued, nil
}

// reserveStock re-reads the product and decrements its stock with a
// conditional update so concurrent checkouts cannot oversell.
func reserveStock(ctx context.Context, products catalog.ProductRepository, id uuid.UUID, name string, qty int) (*catalog.Product, error) {
	p, err := products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Product %s no longer exists", name))
		}
		return nil, err
	}
	if !p.IsPublished {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Product %s is not available", p.Name))
	}

	ok, err := products.DecrementStock(ctx, p.ID, qty)
	if err != nil {
		return nil, err
	}
	if !ok {
		remaining := p.Stock
		if current, err := products.FindByID(ctx, p.ID); err == nil {
			remaining = current.Stock
		}
		return nil, catalog.InsufficientStockError(p.Name, remaining)
	}
	p.Stock -= qty
	return p, nil
}

func resolveAddress(ctx context.Context, addresses partner.AddressRepository, cmd trade.PlaceOrderCommand) (uuid.UUID, error) {
	if cmd.UsesExistingAddress() {
		a, err := addresses.FindByIDForCustomer(ctx, cmd.CustomerID, *cmd.ShippingAddressID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return uuid.Nil, shared.NewDomainError("INVALID_INPUT", "The selected shipping address was not found")
			}
			return uuid.Nil, err
		}
		return a.ID, nil
	}

	a, err := partner.NewShippingAddress(cmd.CustomerID, *cmd.NewAddress)
	if err != nil {
		return uuid.Nil, err
	}
	if err := addresses.Create(ctx, a); err != nil {
		return uuid.Nil, err
	}
	return a.ID, nil
}

func issueWarranty(ctx context.Context, repo warranty.WarrantyRepository, codes *warranty.CodeGenerator, detailID, customerID uuid.UUID, months int, now time.Time) (*warranty.Warranty, error) {
	code, err := codes.UniqueWarrantyCode(ctx, repo.ExistsByCode, now)
	if err != nil {
		return nil, err
	}
	w, err := warranty.NewWarranty(detailID, customerID, code, months, now)
	if err != nil {
		return nil, err
	}
	if err := repo.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func cartLines(sess *session.Session) []trade.PlacementLine {
	lines := make([]trade.PlacementLine, 0, len(sess.Cart.Items))
	for _, it := range sess.Cart.Items {
		lines = append(lines, trade.PlacementLine{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.Price,
		})
	}
	return lines
}

func (s *CheckoutService) claim(ctx context.Context, customerID uuid.UUID, key string) (string, error) {
	if key == "" || s.idempotency == nil {
		return "", nil
	}
	scoped := fmt.Sprintf("checkout:%s:%s", customerID, key)
	ok, err := s.idempotency.MarkProcessed(ctx, scoped, IdempotencyTTL)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", shared.NewDomainError("DUPLICATE_REQUEST", "This order has already been submitted")
	}
	return scoped, nil
}

func (s *CheckoutService) release(ctx context.Context, key string) {
	if err := s.idempotency.Release(ctx, key); err != nil {
		s.logger.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(err))
	}
}

func (s *CheckoutService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish checkout events", zap.Error(err))
	}
}

func failureReason(err error) string {
	if de, ok := shared.AsDomainError(err); ok {
		return de.Code
	}
	return "INTERNAL_ERROR"
}
