package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/phonestore/backend/internal/application/catalog"
)

// DiscountHandler serves admin discount management
type DiscountHandler struct {
	BaseHandler
	service *catalogapp.DiscountService
}

// NewDiscountHandler creates a new DiscountHandler
func NewDiscountHandler(service *catalogapp.DiscountService) *DiscountHandler {
	return &DiscountHandler{service: service}
}

// List godoc
// @Summary      List discounts
// @Tags         admin-discounts
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalogapp.DiscountResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/discounts [get]
func (h *DiscountHandler) List(c *gin.Context) {
	listAll(&h.BaseHandler, c, h.service.List)
}

// Get godoc
// @Summary      Get a discount
// @Tags         admin-discounts
// @Produce      json
// @Param        id path string true "Discount ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.DiscountResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/discounts/{id} [get]
func (h *DiscountHandler) Get(c *gin.Context) {
	getOne[catalogapp.DiscountRequest, catalogapp.DiscountResponse](&h.BaseHandler, c, h.service, "discount")
}

// Create godoc
// @Summary      Create a discount
// @Description  Percent is between 0 and 100
// @Tags         admin-discounts
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.DiscountRequest true "Discount"
// @Success      201 {object} dto.Response{data=catalogapp.DiscountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/discounts [post]
func (h *DiscountHandler) Create(c *gin.Context) {
	createOne[catalogapp.DiscountRequest, catalogapp.DiscountResponse](&h.BaseHandler, c, h.service)
}

// Update godoc
// @Summary      Update a discount
// @Tags         admin-discounts
// @Accept       json
// @Produce      json
// @Param        id path string true "Discount ID" format(uuid)
// @Param        request body catalogapp.DiscountRequest true "Discount"
// @Success      200 {object} dto.Response{data=catalogapp.DiscountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/discounts/{id} [put]
func (h *DiscountHandler) Update(c *gin.Context) {
	updateOne[catalogapp.DiscountRequest, catalogapp.DiscountResponse](&h.BaseHandler, c, h.service, "discount")
}

// Delete godoc
// @Summary      Delete a discount
// @Description  Refused while products still reference the discount
// @Tags         admin-discounts
// @Produce      json
// @Param        id path string true "Discount ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/discounts/{id} [delete]
func (h *DiscountHandler) Delete(c *gin.Context) {
	deleteOne[catalogapp.DiscountRequest, catalogapp.DiscountResponse](&h.BaseHandler, c, h.service, "discount")
}
