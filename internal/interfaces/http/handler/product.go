package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/phonestore/backend/internal/application/catalog"
	"github.com/phonestore/backend/internal/domain/catalog"
)

// ProductHandler serves admin product and product image management
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	imageService   *catalogapp.ImageService
	maxImageSize   int64
}

// NewProductHandler creates a new ProductHandler. A zero maxImageSize uses
// the catalogue default.
func NewProductHandler(productService *catalogapp.ProductService, imageService *catalogapp.ImageService, maxImageSize int64) *ProductHandler {
	if maxImageSize <= 0 {
		maxImageSize = catalog.MaxImageSizeBytes
	}
	return &ProductHandler{
		productService: productService,
		imageService:   imageService,
		maxImageSize:   maxImageSize,
	}
}

// List godoc
// @Summary      List products
// @Tags         admin-products
// @Produce      json
// @Param        search query string false "Search keyword"
// @Param        category_id query string false "Category ID" format(uuid)
// @Param        color_id query string false "Color ID" format(uuid)
// @Param        published query bool false "Publication filter"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Param        sort_by query string false "Sort field" Enums(name, price, stock, created_at)
// @Param        sort_desc query bool false "Sort descending"
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /admin/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Get godoc
// @Summary      Get a product
// @Tags         admin-products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	getOne[catalogapp.ProductRequest, catalogapp.ProductResponse](&h.BaseHandler, c, h.productService, "product")
}

// Create godoc
// @Summary      Create a product
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.ProductRequest true "Product"
// @Success      201 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	createOne[catalogapp.ProductRequest, catalogapp.ProductResponse](&h.BaseHandler, c, h.productService)
}

// Update godoc
// @Summary      Update a product
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.ProductRequest true "Product"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	updateOne[catalogapp.ProductRequest, catalogapp.ProductResponse](&h.BaseHandler, c, h.productService, "product")
}

// Delete godoc
// @Summary      Delete a product
// @Description  Refused while order lines reference the product. Stored images are removed.
// @Tags         admin-products
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	deleteOne[catalogapp.ProductRequest, catalogapp.ProductResponse](&h.BaseHandler, c, h.productService, "product")
}

func (h *ProductHandler) publication(c *gin.Context, change func(context.Context, uuid.UUID) (*catalogapp.ProductResponse, error)) {
	id, ok := h.paramUUID(c, "id", "product")
	if !ok {
		return
	}
	product, err := change(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Publish godoc
// @Summary      Publish a product
// @Tags         admin-products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products/{id}/publish [post]
func (h *ProductHandler) Publish(c *gin.Context) {
	h.publication(c, h.productService.Publish)
}

// Unpublish godoc
// @Summary      Unpublish a product
// @Tags         admin-products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products/{id}/unpublish [post]
func (h *ProductHandler) Unpublish(c *gin.Context) {
	h.publication(c, h.productService.Unpublish)
}

// TogglePublish godoc
// @Summary      Toggle product publication
// @Tags         admin-products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products/{id}/toggle-publish [post]
func (h *ProductHandler) TogglePublish(c *gin.Context) {
	h.publication(c, h.productService.TogglePublish)
}

// UploadImages godoc
// @Summary      Upload product images
// @Description  Multipart upload. Each group i sends its color in groups[i].colorId
// @Description  (optional) and its files in groups[i].images.
// @Tags         admin-products
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        groups[0].colorId formData string false "Color of group 0" format(uuid)
// @Param        groups[0].images formData file true "Images of group 0"
// @Success      201 {object} dto.Response{data=[]catalogapp.ProductImageResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products/{id}/images [post]
func (h *ProductHandler) UploadImages(c *gin.Context) {
	id, ok := h.paramUUID(c, "id", "product")
	if !ok {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		h.BadRequest(c, "Expected a multipart form")
		return
	}
	groups, err := parseImageGroups(form, h.maxImageSize)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	images, err := h.imageService.Upload(c.Request.Context(), id, groups)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.CreatedMessage(c, "Images uploaded", images)
}

// DeleteImage godoc
// @Summary      Delete a product image
// @Tags         admin-products
// @Param        imageId path string true "Image ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products/images/{imageId} [delete]
func (h *ProductHandler) DeleteImage(c *gin.Context) {
	imageID, ok := h.paramUUID(c, "imageId", "image")
	if !ok {
		return
	}
	if err := h.imageService.Delete(c.Request.Context(), imageID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListImagesByColor godoc
// @Summary      Product images of one color
// @Tags         admin-products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        colorId path string true "Color ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductImageResponse}
// @Security     BearerAuth
// @Router       /admin/products/{id}/colors/{colorId}/images [get]
func (h *ProductHandler) ListImagesByColor(c *gin.Context) {
	productID, ok := h.paramUUID(c, "id", "product")
	if !ok {
		return
	}
	colorID, ok := h.paramUUID(c, "colorId", "color")
	if !ok {
		return
	}
	images, err := h.imageService.ListByColor(c.Request.Context(), productID, colorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, images)
}
