package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/phonestore/backend/internal/application/catalog"
)

// ColorHandler serves admin color management
type ColorHandler struct {
	BaseHandler
	service *catalogapp.ColorService
}

// NewColorHandler creates a new ColorHandler
func NewColorHandler(service *catalogapp.ColorService) *ColorHandler {
	return &ColorHandler{service: service}
}

// List godoc
// @Summary      List colors
// @Tags         admin-colors
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalogapp.ColorResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/colors [get]
func (h *ColorHandler) List(c *gin.Context) {
	listAll(&h.BaseHandler, c, h.service.List)
}

// Get godoc
// @Summary      Get a color
// @Tags         admin-colors
// @Produce      json
// @Param        id path string true "Color ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ColorResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/colors/{id} [get]
func (h *ColorHandler) Get(c *gin.Context) {
	getOne[catalogapp.ColorRequest, catalogapp.ColorResponse](&h.BaseHandler, c, h.service, "color")
}

// Create godoc
// @Summary      Create a color
// @Description  Color names are unique
// @Tags         admin-colors
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.ColorRequest true "Color"
// @Success      201 {object} dto.Response{data=catalogapp.ColorResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/colors [post]
func (h *ColorHandler) Create(c *gin.Context) {
	createOne[catalogapp.ColorRequest, catalogapp.ColorResponse](&h.BaseHandler, c, h.service)
}

// Update godoc
// @Summary      Update a color
// @Tags         admin-colors
// @Accept       json
// @Produce      json
// @Param        id path string true "Color ID" format(uuid)
// @Param        request body catalogapp.ColorRequest true "Color"
// @Success      200 {object} dto.Response{data=catalogapp.ColorResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/colors/{id} [put]
func (h *ColorHandler) Update(c *gin.Context) {
	updateOne[catalogapp.ColorRequest, catalogapp.ColorResponse](&h.BaseHandler, c, h.service, "color")
}

// Delete godoc
// @Summary      Delete a color
// @Description  Refused while product images still reference the color
// @Tags         admin-colors
// @Produce      json
// @Param        id path string true "Color ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/colors/{id} [delete]
func (h *ColorHandler) Delete(c *gin.Context) {
	deleteOne[catalogapp.ColorRequest, catalogapp.ColorResponse](&h.BaseHandler, c, h.service, "color")
}
