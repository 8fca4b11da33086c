package handler

import (
	"github.com/gin-gonic/gin"
	cartapp "github.com/phonestore/backend/internal/application/cart"
)

// CartHandler serves the session cart
type CartHandler struct {
	BaseHandler
	cartService *cartapp.Service
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.Service) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// CountResponse carries the cart badge count
type CountResponse struct {
	Count int `json:"count" example:"3"`
}

// View godoc
// @Summary      View the cart
// @Tags         store-cart
// @Produce      json
// @Success      200 {object} dto.Response{data=cartapp.Response}
// @Router       /store/cart [get]
func (h *CartHandler) View(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	h.Success(c, h.cartService.View(sess))
}

// AddItem godoc
// @Summary      Add a product to the cart
// @Description  Adding a product already in the cart merges the quantities
// @Tags         store-cart
// @Accept       json
// @Produce      json
// @Param        request body cartapp.AddItemRequest true "Item"
// @Success      200 {object} dto.Response{data=cartapp.Response}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req cartapp.AddItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.cartService.Add(c.Request.Context(), sess, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Added to cart", resp)
}

// UpdateItem godoc
// @Summary      Change a cart line quantity
// @Description  A quantity of zero or less removes the line
// @Tags         store-cart
// @Accept       json
// @Produce      json
// @Param        productId path string true "Product ID" format(uuid)
// @Param        request body cartapp.UpdateItemRequest true "Quantity"
// @Success      200 {object} dto.Response{data=cartapp.Response}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/cart/items/{productId} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	productID, ok := h.paramUUID(c, "productId", "product")
	if !ok {
		return
	}
	var req cartapp.UpdateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.cartService.Update(sess, productID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Cart updated", resp)
}

// RemoveItem godoc
// @Summary      Remove a cart line
// @Tags         store-cart
// @Produce      json
// @Param        productId path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=cartapp.Response}
// @Router       /store/cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	productID, ok := h.paramUUID(c, "productId", "product")
	if !ok {
		return
	}
	h.SuccessMessage(c, "Removed from cart", h.cartService.Remove(sess, productID))
}

// Clear godoc
// @Summary      Empty the cart
// @Tags         store-cart
// @Produce      json
// @Success      200 {object} dto.Response{data=cartapp.Response}
// @Router       /store/cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	h.SuccessMessage(c, "Cart cleared", h.cartService.Clear(sess))
}

// Count godoc
// @Summary      Cart item count
// @Tags         store-cart
// @Produce      json
// @Success      200 {object} dto.Response{data=CountResponse}
// @Router       /store/cart/count [get]
func (h *CartHandler) Count(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	h.Success(c, CountResponse{Count: h.cartService.Count(sess)})
}
