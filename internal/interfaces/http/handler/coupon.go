package handler

import (
	"github.com/gin-gonic/gin"
	partnerapp "github.com/phonestore/backend/internal/application/partner"
)

// CouponHandler serves admin coupon management
type CouponHandler struct {
	BaseHandler
	service *partnerapp.CouponService
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(service *partnerapp.CouponService) *CouponHandler {
	return &CouponHandler{service: service}
}

// List godoc
// @Summary      List coupons
// @Tags         admin-coupons
// @Produce      json
// @Param        search query string false "Code search"
// @Param        status query string false "Status" Enums(active, used, expired)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=[]partnerapp.CouponResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /admin/coupons [get]
func (h *CouponHandler) List(c *gin.Context) {
	var filter partnerapp.CouponListFilter
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
// @Summary      Get a coupon
// @Tags         admin-coupons
// @Produce      json
// @Param        id path string true "Coupon ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.CouponResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/coupons/{id} [get]
func (h *CouponHandler) Get(c *gin.Context) {
	getOne[partnerapp.CouponRequest, partnerapp.CouponResponse](&h.BaseHandler, c, h.service, "coupon")
}

// Create godoc
// @Summary      Create a coupon
// @Tags         admin-coupons
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CouponRequest true "Coupon"
// @Success      201 {object} dto.Response{data=partnerapp.CouponResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/coupons [post]
func (h *CouponHandler) Create(c *gin.Context) {
	createOne[partnerapp.CouponRequest, partnerapp.CouponResponse](&h.BaseHandler, c, h.service)
}

// Update godoc
// @Summary      Update a coupon
// @Tags         admin-coupons
// @Accept       json
// @Produce      json
// @Param        id path string true "Coupon ID" format(uuid)
// @Param        request body partnerapp.CouponRequest true "Coupon"
// @Success      200 {object} dto.Response{data=partnerapp.CouponResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/coupons/{id} [put]
func (h *CouponHandler) Update(c *gin.Context) {
	updateOne[partnerapp.CouponRequest, partnerapp.CouponResponse](&h.BaseHandler, c, h.service, "coupon")
}

// Delete godoc
// @Summary      Delete a coupon
// @Tags         admin-coupons
// @Param        id path string true "Coupon ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/coupons/{id} [delete]
func (h *CouponHandler) Delete(c *gin.Context) {
	deleteOne[partnerapp.CouponRequest, partnerapp.CouponResponse](&h.BaseHandler, c, h.service, "coupon")
}
