package handler

import (
	"github.com/gin-gonic/gin"
	partnerapp "github.com/phonestore/backend/internal/application/partner"
)

// CustomerHandler serves admin customer management
type CustomerHandler struct {
	BaseHandler
	service *partnerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(service *partnerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// List godoc
// @Summary      List customers
// @Tags         admin-customers
// @Produce      json
// @Param        search query string false "Name, email or phone"
// @Param        membership_id query string false "Membership ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=[]partnerapp.CustomerResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /admin/customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var filter partnerapp.CustomerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Get godoc
// @Summary      Customer details
// @Description  Customer with addresses and order totals
// @Tags         admin-customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.CustomerDetailResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := h.paramUUID(c, "id", "customer")
	if !ok {
		return
	}
	detail, err := h.service.GetDetail(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}

// Create godoc
// @Summary      Create a customer
// @Tags         admin-customers
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CustomerRequest true "Customer"
// @Success      201 {object} dto.Response{data=partnerapp.CustomerResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	createOne[partnerapp.CustomerRequest, partnerapp.CustomerResponse](&h.BaseHandler, c, h.service)
}

// Update godoc
// @Summary      Update a customer
// @Description  An empty password keeps the current one
// @Tags         admin-customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body partnerapp.CustomerRequest true "Customer"
// @Success      200 {object} dto.Response{data=partnerapp.CustomerResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	updateOne[partnerapp.CustomerRequest, partnerapp.CustomerResponse](&h.BaseHandler, c, h.service, "customer")
}

// Delete godoc
// @Summary      Delete a customer
// @Description  Refused while the customer has orders
// @Tags         admin-customers
// @Param        id path string true "Customer ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	deleteOne[partnerapp.CustomerRequest, partnerapp.CustomerResponse](&h.BaseHandler, c, h.service, "customer")
}

// Report godoc
// @Summary      Customer report
// @Description  Customer totals and spend per membership tier
// @Tags         admin-customers
// @Produce      json
// @Success      200 {object} dto.Response{data=partnerapp.CustomerReportResponse}
// @Security     BearerAuth
// @Router       /admin/customers/report [get]
func (h *CustomerHandler) Report(c *gin.Context) {
	report, err := h.service.Report(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
