package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	tradeapp "github.com/phonestore/backend/internal/application/trade"
	"github.com/phonestore/backend/internal/infrastructure/telemetry"
	"github.com/phonestore/backend/internal/interfaces/http/middleware"
)

// CheckoutHandler serves the checkout page and order placement
type CheckoutHandler struct {
	BaseHandler
	checkoutService *tradeapp.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *tradeapp.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// View godoc
// @Summary      Checkout data
// @Description  Cart, saved addresses and payment methods for the signed-in customer
// @Tags         store-checkout
// @Produce      json
// @Success      200 {object} dto.Response{data=tradeapp.CheckoutView}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/checkout [get]
func (h *CheckoutHandler) View(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	view, err := h.checkoutService.View(c.Request.Context(), sess)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// PlaceOrder godoc
// @Summary      Place the order
// @Description  Places the cart as one order in a single transaction. Stock is decremented
// @Description  atomically per line and warranties are issued for covered products. A replayed
// @Description  Idempotency-Key is rejected with 409.
// @Tags         store-checkout
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client generated key for double-submit protection"
// @Param        request body tradeapp.PlaceOrderRequest true "Checkout form"
// @Success      201 {object} dto.Response{data=tradeapp.PlaceOrderResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/checkout/orders [post]
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req tradeapp.PlaceOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	var (
		result *tradeapp.PlaceOrderResult
		err    error
	)
	telemetry.WithProfilingLabels(c.Request.Context(), telemetry.OperationLabels("checkout.place_order", nil), func(ctx context.Context) {
		result, err = h.checkoutService.PlaceOrder(ctx, sess, req, middleware.GetIdempotencyKey(c))
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.CreatedMessage(c, result.Message, result)
}

// Confirmation godoc
// @Summary      Order confirmation
// @Tags         store-checkout
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/checkout/orders/{id}/confirmation [get]
func (h *CheckoutHandler) Confirmation(c *gin.Context) {
	customerID, ok := h.currentCustomer(c)
	if !ok {
		return
	}
	orderID, ok := h.paramUUID(c, "id", "order")
	if !ok {
		return
	}
	order, err := h.checkoutService.Confirmation(c.Request.Context(), customerID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
