package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/phonestore/backend/internal/application/catalog"
)

// CategoryHandler serves admin category management
type CategoryHandler struct {
	BaseHandler
	service *catalogapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(service *catalogapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// List godoc
// @Summary      List categorys
// @Tags         admin-categories
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalogapp.CategoryResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	listAll(&h.BaseHandler, c, h.service.List)
}

// Get godoc
// @Summary      Get a category
// @Tags         admin-categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	getOne[catalogapp.CategoryRequest, catalogapp.CategoryResponse](&h.BaseHandler, c, h.service, "category")
}

// Create godoc
// @Summary      Create a category
// @Description  Category names are unique
// @Tags         admin-categories
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CategoryRequest true "Category"
// @Success      201 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	createOne[catalogapp.CategoryRequest, catalogapp.CategoryResponse](&h.BaseHandler, c, h.service)
}

// Update godoc
// @Summary      Update a category
// @Tags         admin-categories
// @Accept       json
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Param        request body catalogapp.CategoryRequest true "Category"
// @Success      200 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	updateOne[catalogapp.CategoryRequest, catalogapp.CategoryResponse](&h.BaseHandler, c, h.service, "category")
}

// Delete godoc
// @Summary      Delete a category
// @Description  Refused while products still reference the category
// @Tags         admin-categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	deleteOne[catalogapp.CategoryRequest, catalogapp.CategoryResponse](&h.BaseHandler, c, h.service, "category")
}
