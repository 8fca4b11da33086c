package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/phonestore/backend/internal/application/catalog"
)

// StoreCatalogHandler serves the public catalogue
type StoreCatalogHandler struct {
	BaseHandler
	productService  *catalogapp.ProductService
	categoryService *catalogapp.CategoryService
	imageService    *catalogapp.ImageService
}

// NewStoreCatalogHandler creates a new StoreCatalogHandler
func NewStoreCatalogHandler(
	productService *catalogapp.ProductService,
	categoryService *catalogapp.CategoryService,
	imageService *catalogapp.ImageService,
) *StoreCatalogHandler {
	return &StoreCatalogHandler{
		productService:  productService,
		categoryService: categoryService,
		imageService:    imageService,
	}
}

// ListProducts godoc
// @Summary      List published products
// @Tags         store-catalog
// @Produce      json
// @Param        search query string false "Search keyword"
// @Param        category_id query string false "Category ID" format(uuid)
// @Param        color_id query string false "Color ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Param        sort_by query string false "Sort field" Enums(name, price, stock, created_at)
// @Param        sort_desc query bool false "Sort descending"
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/products [get]
func (h *StoreCatalogHandler) ListProducts(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.productService.ListPublished(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// GetProduct godoc
// @Summary      Get a published product
// @Tags         store-catalog
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/products/{id} [get]
func (h *StoreCatalogHandler) GetProduct(c *gin.Context) {
	id, ok := h.paramUUID(c, "id", "product")
	if !ok {
		return
	}
	product, err := h.productService.GetPublished(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// ListCategories godoc
// @Summary      List categories
// @Tags         store-catalog
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalogapp.CategoryResponse}
// @Router       /store/categories [get]
func (h *StoreCatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// GetImage godoc
// @Summary      Product image bytes
// @Description  Returns the stored image with its stored MIME type
// @Tags         store-catalog
// @Produce      image/jpeg,image/png,image/webp,image/gif
// @Param        id path string true "Image ID" format(uuid)
// @Success      200 {file} binary
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /store/images/{id} [get]
func (h *StoreCatalogHandler) GetImage(c *gin.Context) {
	id, ok := h.paramUUID(c, "id", "image")
	if !ok {
		return
	}
	image, err := h.imageService.Open(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, image.MimeType, image.Data)
}
