package handler

import (
	"github.com/gin-gonic/gin"
	partnerapp "github.com/phonestore/backend/internal/application/partner"
	tradeapp "github.com/phonestore/backend/internal/application/trade"
)

// StoreCustomerHandler serves customer sign-up, sign-in and the "my account" pages
type StoreCustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
	orderService    *tradeapp.OrderService
}

// NewStoreCustomerHandler creates a new StoreCustomerHandler
func NewStoreCustomerHandler(customerService *partnerapp.CustomerService, orderService *tradeapp.OrderService) *StoreCustomerHandler {
	return &StoreCustomerHandler{
		customerService: customerService,
		orderService:    orderService,
	}
}

// Register godoc
// @Summary      Register a customer account
// @Description  Create a customer account and sign the current session in
// @Tags         store-customers
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.RegisterCustomerRequest true "Registration"
// @Success      201 {object} dto.Response{data=partnerapp.CustomerResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/customers/register [post]
func (h *StoreCustomerHandler) Register(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req partnerapp.RegisterCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	sess.SignIn(customer.ID, customer.Name)
	h.CreatedMessage(c, "Registration successful", customer)
}

// Login godoc
// @Summary      Customer sign-in
// @Description  Verify email and password and bind the session to the customer. The cart is kept.
// @Tags         store-customers
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.LoginCustomerRequest true "Credentials"
// @Success      200 {object} dto.Response{data=partnerapp.CustomerResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/customers/login [post]
func (h *StoreCustomerHandler) Login(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req partnerapp.LoginCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.Authenticate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	sess.SignIn(customer.ID, customer.Name)
	h.SuccessMessage(c, "Welcome back, "+customer.Name, customer)
}

// Logout godoc
// @Summary      Customer sign-out
// @Description  Forget the signed-in customer and empty the cart
// @Tags         store-customers
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /store/customers/logout [post]
func (h *StoreCustomerHandler) Logout(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.SignOut()
	h.SuccessMessage(c, "You have been signed out", nil)
}

// Me godoc
// @Summary      Current customer
// @Tags         store-customers
// @Produce      json
// @Success      200 {object} dto.Response{data=partnerapp.CustomerResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/customers/me [get]
func (h *StoreCustomerHandler) Me(c *gin.Context) {
	customerID, ok := h.currentCustomer(c)
	if !ok {
		return
	}
	customer, err := h.customerService.GetByID(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// UpdateProfile godoc
// @Summary      Edit my profile
// @Tags         store-customers
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.ProfileRequest true "Profile"
// @Success      200 {object} dto.Response{data=partnerapp.CustomerResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/customers/me [put]
func (h *StoreCustomerHandler) UpdateProfile(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	customerID, ok := h.currentCustomer(c)
	if !ok {
		return
	}
	var req partnerapp.ProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}
	customer, err := h.customerService.UpdateProfile(c.Request.Context(), customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	sess.SignIn(customer.ID, customer.Name)
	h.SuccessMessage(c, "Profile updated", customer)
}

// ChangePassword godoc
// @Summary      Change my password
// @Tags         store-customers
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.ChangePasswordRequest true "Passwords"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/customers/me/password [put]
func (h *StoreCustomerHandler) ChangePassword(c *gin.Context) {
	customerID, ok := h.currentCustomer(c)
	if !ok {
		return
	}
	var req partnerapp.ChangePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.customerService.ChangePassword(c.Request.Context(), customerID, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Password changed", nil)
}

// ListAddresses godoc
// @Summary      List my shipping addresses
// @Tags         store-customers
// @Produce      json
// @Success      200 {object} dto.Response{data=[]partnerapp.AddressResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/customers/me/addresses [get]
func (h *StoreCustomerHandler) ListAddresses(c *gin.Context) {
	customerID, ok := h.currentCustomer(c)
	if !ok {
		return
	}
	addresses, err := h.customerService.ListAddresses(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, addresses)
}

// AddAddress godoc
// @Summary      Add a shipping address
// @Tags         store-customers
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.AddressRequest true "Address"
// @Success      201 {object} dto.Response{data=partnerapp.AddressResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/customers/me/addresses [post]
func (h *StoreCustomerHandler) AddAddress(c *gin.Context) {
	customerID, ok := h.currentCustomer(c)
	if !ok {
		return
	}
	var req partnerapp.AddressRequest
	if !h.bindJSON(c, &req) {
		return
	}
	address, err := h.customerService.AddAddress(c.Request.Context(), customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.CreatedMessage(c, "Address saved", address)
}

// ListOrders godoc
// @Summary      My order history
// @Tags         store-customers
// @Produce      json
// @Param        status query string false "Order status"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=[]tradeapp.OrderResponse,meta=dto.Meta}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/customers/me/orders [get]
func (h *StoreCustomerHandler) ListOrders(c *gin.Context) {
	customerID, ok := h.currentCustomer(c)
	if !ok {
		return
	}
	var filter tradeapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.orderService.ListForCustomer(c.Request.Context(), customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// GetOrder godoc
// @Summary      One of my orders
// @Tags         store-customers
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/customers/me/orders/{id} [get]
func (h *StoreCustomerHandler) GetOrder(c *gin.Context) {
	customerID, ok := h.currentCustomer(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id", "order")
	if !ok {
		return
	}
	order, err := h.orderService.GetForCustomer(c.Request.Context(), customerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// CancelOrder godoc
// @Summary      Cancel one of my orders
// @Description  Only orders that have not shipped yet can be cancelled. Stock is restored and warranties are voided.
// @Tags         store-customers
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/customers/me/orders/{id}/cancel [post]
func (h *StoreCustomerHandler) CancelOrder(c *gin.Context) {
	customerID, ok := h.currentCustomer(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id", "order")
	if !ok {
		return
	}
	order, err := h.orderService.CancelForCustomer(c.Request.Context(), customerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Order cancelled", order)
}
