package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	warrantyapp "github.com/phonestore/backend/internal/application/warranty"
	"github.com/phonestore/backend/internal/interfaces/http/middleware"
)

// WarrantyHandler serves admin warranty and warranty claim management
type WarrantyHandler struct {
	BaseHandler
	warrantyService *warrantyapp.AdminService
}

// NewWarrantyHandler creates a new WarrantyHandler
func NewWarrantyHandler(warrantyService *warrantyapp.AdminService) *WarrantyHandler {
	return &WarrantyHandler{warrantyService: warrantyService}
}

// List godoc
// @Summary      List warranties
// @Tags         admin-warranties
// @Produce      json
// @Param        search query string false "Warranty code, product or customer"
// @Param        status query string false "Status" Enums(Active, Expired, Void, Transferred)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=[]warrantyapp.Response,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /admin/warranties [get]
func (h *WarrantyHandler) List(c *gin.Context) {
	var filter warrantyapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.warrantyService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Stats godoc
// @Summary      Warranty counters
// @Tags         admin-warranties
// @Produce      json
// @Success      200 {object} dto.Response{data=warranty.Stats}
// @Security     BearerAuth
// @Router       /admin/warranties/stats [get]
func (h *WarrantyHandler) Stats(c *gin.Context) {
	stats, err := h.warrantyService.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Get godoc
// @Summary      Get a warranty with its claims
// @Tags         admin-warranties
// @Produce      json
// @Param        id path string true "Warranty ID" format(uuid)
// @Success      200 {object} dto.Response{data=warrantyapp.Response}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/warranties/{id} [get]
func (h *WarrantyHandler) Get(c *gin.Context) {
	id, ok := h.paramUUID(c, "id", "warranty")
	if !ok {
		return
	}
	w, err := h.warrantyService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, w)
}

// Create godoc
// @Summary      Issue a warranty for an order line
// @Tags         admin-warranties
// @Accept       json
// @Produce      json
// @Param        request body warrantyapp.CreateWarrantyRequest true "Warranty"
// @Success      201 {object} dto.Response{data=warrantyapp.Response}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/warranties [post]
func (h *WarrantyHandler) Create(c *gin.Context) {
	var req warrantyapp.CreateWarrantyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	w, err := h.warrantyService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, w)
}

// UpdateStatus godoc
// @Summary      Change a warranty's status
// @Tags         admin-warranties
// @Accept       json
// @Produce      json
// @Param        id path string true "Warranty ID" format(uuid)
// @Param        request body warrantyapp.UpdateStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=warrantyapp.Response}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/warranties/{id}/status [put]
func (h *WarrantyHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.paramUUID(c, "id", "warranty")
	if !ok {
		return
	}
	var req warrantyapp.UpdateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	w, err := h.warrantyService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, w)
}

// AutoCreate godoc
// @Summary      Issue warranties for every eligible line of an order
// @Description  Lines that already carry a warranty or whose product has no warranty period are skipped
// @Tags         admin-warranties
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=warrantyapp.AutoCreateResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/warranties [post]
func (h *WarrantyHandler) AutoCreate(c *gin.Context) {
	orderID, ok := h.paramUUID(c, "id", "order")
	if !ok {
		return
	}
	result, err := h.warrantyService.AutoCreate(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListClaims godoc
// @Summary      List warranty claims
// @Tags         admin-warranty-claims
// @Produce      json
// @Param        search query string false "Claim or warranty code"
// @Param        status query string false "Status" Enums(Pending, InProgress, Approved, Rejected, Completed, Cancelled)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=[]warrantyapp.ClaimResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /admin/warranty-claims [get]
func (h *WarrantyHandler) ListClaims(c *gin.Context) {
	var filter warrantyapp.ClaimListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.warrantyService.ListClaims(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// PendingClaimCount godoc
// @Summary      Number of claims awaiting review
// @Tags         admin-warranty-claims
// @Produce      json
// @Success      200 {object} dto.Response{data=CountResponse}
// @Security     BearerAuth
// @Router       /admin/warranty-claims/pending-count [get]
func (h *WarrantyHandler) PendingClaimCount(c *gin.Context) {
	n, err := h.warrantyService.PendingClaimCount(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CountResponse{Count: int(n)})
}

// GetClaim godoc
// @Summary      Get a warranty claim
// @Tags         admin-warranty-claims
// @Produce      json
// @Param        id path string true "Claim ID" format(uuid)
// @Success      200 {object} dto.Response{data=warrantyapp.ClaimResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/warranty-claims/{id} [get]
func (h *WarrantyHandler) GetClaim(c *gin.Context) {
	id, ok := h.paramUUID(c, "id", "claim")
	if !ok {
		return
	}
	claim, err := h.warrantyService.GetClaim(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, claim)
}

// ProcessClaim godoc
// @Summary      Record the resolution of a warranty claim
// @Description  Sets status, resolution, notes and cost. The acting admin is recorded as processor.
// @Tags         admin-warranty-claims
// @Accept       json
// @Produce      json
// @Param        id path string true "Claim ID" format(uuid)
// @Param        request body warrantyapp.ProcessClaimRequest true "Resolution"
// @Success      200 {object} dto.Response{data=warrantyapp.ClaimResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/warranty-claims/{id}/process [put]
func (h *WarrantyHandler) ProcessClaim(c *gin.Context) {
	var req warrantyapp.ProcessClaimRequest
	h.claimAction(c, &req, func(ctx context.Context, id uuid.UUID, admin string) (*warrantyapp.ClaimResponse, error) {
		return h.warrantyService.ProcessClaim(ctx, id, admin, req)
	})
}

// UpdateClaimStatus godoc
// @Summary      Move a warranty claim to another status
// @Tags         admin-warranty-claims
// @Accept       json
// @Produce      json
// @Param        id path string true "Claim ID" format(uuid)
// @Param        request body warrantyapp.ClaimStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=warrantyapp.ClaimResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/warranty-claims/{id}/status [put]
func (h *WarrantyHandler) UpdateClaimStatus(c *gin.Context) {
	var req warrantyapp.ClaimStatusRequest
	h.claimAction(c, &req, func(ctx context.Context, id uuid.UUID, admin string) (*warrantyapp.ClaimResponse, error) {
		return h.warrantyService.UpdateClaimStatus(ctx, id, admin, req)
	})
}

// claimAction binds req into the body, then runs action as the signed-in admin
func (h *WarrantyHandler) claimAction(c *gin.Context, req any, action func(context.Context, uuid.UUID, string) (*warrantyapp.ClaimResponse, error)) {
	id, ok := h.paramUUID(c, "id", "claim")
	if !ok {
		return
	}
	if !h.bindJSON(c, req) {
		return
	}
	admin := middleware.GetAdmin(c)
	if admin == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	claim, err := action(c.Request.Context(), id, admin.Username)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, claim)
}
