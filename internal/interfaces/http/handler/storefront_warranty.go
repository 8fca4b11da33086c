package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	warrantyapp "github.com/phonestore/backend/internal/application/warranty"
)

// StoreWarrantyHandler serves "my warranties" and warranty claims for customers
type StoreWarrantyHandler struct {
	BaseHandler
	warrantyService *warrantyapp.Service
}

// NewStoreWarrantyHandler creates a new StoreWarrantyHandler
func NewStoreWarrantyHandler(warrantyService *warrantyapp.Service) *StoreWarrantyHandler {
	return &StoreWarrantyHandler{warrantyService: warrantyService}
}

// List godoc
// @Summary      My warranties
// @Description  Paginated warranties of the signed-in customer with active, expired and pending-claim counts
// @Tags         store-warranties
// @Produce      json
// @Param        search query string false "Warranty code or product name"
// @Param        status query string false "Status" Enums(Active, Expired, Void, Transferred)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=warrantyapp.CustomerListResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/warranties [get]
func (h *StoreWarrantyHandler) List(c *gin.Context) {
	customerID, ok := h.currentCustomer(c)
	if !ok {
		return
	}
	var filter warrantyapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	list, err := h.warrantyService.List(c.Request.Context(), customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// Get godoc
// @Summary      Warranty details with claims
// @Tags         store-warranties
// @Produce      json
// @Param        id path string true "Warranty ID" format(uuid)
// @Success      200 {object} dto.Response{data=warrantyapp.Response}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/warranties/{id} [get]
func (h *StoreWarrantyHandler) Get(c *gin.Context) {
	customerID, ok := h.currentCustomer(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id", "warranty")
	if !ok {
		return
	}
	w, err := h.warrantyService.Get(c.Request.Context(), customerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, w)
}

// SubmitClaim godoc
// @Summary      Submit a warranty claim
// @Description  Only active warranties accept claims
// @Tags         store-warranties
// @Accept       json
// @Produce      json
// @Param        id path string true "Warranty ID" format(uuid)
// @Param        request body warrantyapp.SubmitClaimRequest true "Claim"
// @Success      201 {object} dto.Response{data=warrantyapp.ClaimResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/warranties/{id}/claims [post]
func (h *StoreWarrantyHandler) SubmitClaim(c *gin.Context) {
	customerID, ok := h.currentCustomer(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id", "warranty")
	if !ok {
		return
	}
	var req warrantyapp.SubmitClaimRequest
	if !h.bindJSON(c, &req) {
		return
	}
	claim, err := h.warrantyService.SubmitClaim(c.Request.Context(), customerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.CreatedMessage(c, "Claim "+claim.ClaimCode+" submitted", claim)
}

// GetClaim godoc
// @Summary      Claim details
// @Tags         store-warranties
// @Produce      json
// @Param        id path string true "Claim ID" format(uuid)
// @Success      200 {object} dto.Response{data=warrantyapp.ClaimResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/claims/{id} [get]
func (h *StoreWarrantyHandler) GetClaim(c *gin.Context) {
	customerID, ok := h.currentCustomer(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id", "claim")
	if !ok {
		return
	}
	claim, err := h.warrantyService.GetClaim(c.Request.Context(), customerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, claim)
}

// Check godoc
// @Summary      Check a warranty by code
// @Description  Public lookup used by the QR code landing page
// @Tags         store-warranties
// @Produce      json
// @Param        code query string true "Warranty code"
// @Success      200 {object} dto.Response{data=warrantyapp.InfoResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/warranties/check [get]
func (h *StoreWarrantyHandler) Check(c *gin.Context) {
	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		h.BadRequest(c, "Warranty code is required")
		return
	}
	info, err := h.warrantyService.CheckByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// Info godoc
// @Summary      Warranty summary
// @Tags         store-warranties
// @Produce      json
// @Param        id path string true "Warranty ID" format(uuid)
// @Success      200 {object} dto.Response{data=warrantyapp.InfoResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/warranties/{id}/info [get]
func (h *StoreWarrantyHandler) Info(c *gin.Context) {
	customerID, ok := h.currentCustomer(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id", "warranty")
	if !ok {
		return
	}
	info, err := h.warrantyService.Info(c.Request.Context(), customerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// QRCode godoc
// @Summary      Warranty QR code
// @Description  PNG encoding of the warranty code
// @Tags         store-warranties
// @Produce      image/png
// @Param        id path string true "Warranty ID" format(uuid)
// @Success      200 {file} binary
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/warranties/{id}/qrcode [get]
func (h *StoreWarrantyHandler) QRCode(c *gin.Context) {
	customerID, ok := h.currentCustomer(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id", "warranty")
	if !ok {
		return
	}
	png, err := h.warrantyService.QRCode(c.Request.Context(), customerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
}
