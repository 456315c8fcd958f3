package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/menswear/backend/internal/application/catalog"
	"github.com/menswear/backend/internal/domain/catalog"
	"github.com/menswear/backend/internal/domain/identity"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/menswear/backend/internal/interfaces/http/middleware"
)

// ProductService is the slice of the catalog service used by ProductHandler
type ProductService interface {
	Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error)
	List(ctx context.Context, filter catalogapp.ProductListFilter) (*catalogapp.ProductPage, error)
	Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListVariants(ctx context.Context, productID uuid.UUID) ([]catalogapp.VariantResponse, error)
	AddVariant(ctx context.Context, productID uuid.UUID, req catalogapp.CreateVariantRequest) (*catalogapp.VariantResponse, error)
	UpdateVariant(ctx context.Context, productID, variantID uuid.UUID, req catalogapp.UpdateVariantRequest) (*catalogapp.VariantResponse, error)
	DeleteVariant(ctx context.Context, productID, variantID uuid.UUID) error
	AdjustStock(ctx context.Context, productID, variantID uuid.UUID, req catalogapp.AdjustStockRequest) (*catalogapp.VariantResponse, error)

	CreateImageUpload(ctx context.Context, productID uuid.UUID, req catalogapp.ImageUploadRequest) (*catalogapp.UploadTarget, error)
	AddImage(ctx context.Context, productID uuid.UUID, req catalogapp.ImageRequest) (*catalogapp.ProductResponse, error)
	RemoveImage(ctx context.Context, productID uuid.UUID, req catalogapp.ImageRequest) (*catalogapp.ProductResponse, error)
}

// ProductHandler handles catalog endpoints. Reads are public; anonymous and
// customer callers only see active products.
type ProductHandler struct {
	BaseHandler
	productService ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func isStaff(c *gin.Context) bool {
	return middleware.HasRole(c, identity.RoleStaff, identity.RoleAdmin)
}

// Create godoc
// @ID           createProduct
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product with optional variants"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// GetByID godoc
// @ID           getProduct
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if product.Status != string(catalog.ProductStatusActive) && !isStaff(c) {
		h.HandleError(c, shared.ErrNotFound)
		return
	}
	h.Success(c, product)
}

// List godoc
// @ID           listProducts
// @Summary      List products
// @Description  Staff may filter by status; everyone else sees active products only
// @Tags         products
// @Produce      json
// @Param        search query string false "Search name, brand or description"
// @Param        category query string false "Category" Enums(suits, blazers, shirts, trousers, knitwear, outerwear, shoes, accessories)
// @Param        status query string false "Status (staff only)" Enums(draft, active, archived, all)
// @Param        brand query string false "Brand"
// @Param        featured query bool false "Featured only"
// @Param        min_price query string false "Minimum base price"
// @Param        max_price query string false "Maximum base price"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        order_by query string false "Sort field"
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if !isStaff(c) {
		filter.Status = ""
	}

	page, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateProduct
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.UpdateProductRequest true "Changes"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req catalogapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete godoc
// @ID           deleteProduct
// @Summary      Delete a product
// @Tags         products
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListVariants godoc
// @ID           listProductVariants
// @Summary      List a product's variants
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[[]catalogapp.VariantResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/variants [get]
func (h *ProductHandler) ListVariants(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	variants, err := h.productService.ListVariants(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, variants)
}

// AddVariant godoc
// @ID           addProductVariant
// @Summary      Add a variant
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.CreateVariantRequest true "Variant"
// @Success      201 {object} APIResponse[catalogapp.VariantResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/variants [post]
func (h *ProductHandler) AddVariant(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req catalogapp.CreateVariantRequest
	if !h.bindJSON(c, &req) {
		return
	}

	variant, err := h.productService.AddVariant(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, variant)
}

// UpdateVariant godoc
// @ID           updateProductVariant
// @Summary      Update a variant
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        variant_id path string true "Variant ID" format(uuid)
// @Param        request body catalogapp.UpdateVariantRequest true "Changes"
// @Success      200 {object} APIResponse[catalogapp.VariantResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/variants/{variant_id} [put]
func (h *ProductHandler) UpdateVariant(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	variantID, ok := h.parseID(c, "variant_id")
	if !ok {
		return
	}

	var req catalogapp.UpdateVariantRequest
	if !h.bindJSON(c, &req) {
		return
	}

	variant, err := h.productService.UpdateVariant(c.Request.Context(), id, variantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, variant)
}

// DeleteVariant godoc
// @ID           deleteProductVariant
// @Summary      Delete a variant
// @Tags         products
// @Param        id path string true "Product ID" format(uuid)
// @Param        variant_id path string true "Variant ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/variants/{variant_id} [delete]
func (h *ProductHandler) DeleteVariant(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	variantID, ok := h.parseID(c, "variant_id")
	if !ok {
		return
	}

	if err := h.productService.DeleteVariant(c.Request.Context(), id, variantID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AdjustStock godoc
// @ID           adjustVariantStock
// @Summary      Adjust variant stock
// @Description  Applies a signed delta. Stock never goes below zero.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        variant_id path string true "Variant ID" format(uuid)
// @Param        request body catalogapp.AdjustStockRequest true "Delta"
// @Success      200 {object} APIResponse[catalogapp.VariantResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/variants/{variant_id}/stock [post]
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	variantID, ok := h.parseID(c, "variant_id")
	if !ok {
		return
	}

	var req catalogapp.AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	variant, err := h.productService.AdjustStock(c.Request.Context(), id, variantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, variant)
}

// CreateImageUpload godoc
// @ID           createProductImageUpload
// @Summary      Presign an image upload
// @Description  Returns a presigned PUT URL; attach the public URL afterwards with POST /products/{id}/images
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.ImageUploadRequest true "Content type"
// @Success      200 {object} APIResponse[catalogapp.UploadTarget]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/images/upload-url [post]
func (h *ProductHandler) CreateImageUpload(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req catalogapp.ImageUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	target, err := h.productService.CreateImageUpload(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, target)
}

// AddImage godoc
// @ID           addProductImage
// @Summary      Attach an image URL
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.ImageRequest true "Image URL"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/images [post]
func (h *ProductHandler) AddImage(c *gin.Context) {
	h.changeImage(c, h.productService.AddImage)
}

// RemoveImage godoc
// @ID           removeProductImage
// @Summary      Detach an image URL
// @Description  Objects held in the configured bucket are deleted as well
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.ImageRequest true "Image URL"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/images [delete]
func (h *ProductHandler) RemoveImage(c *gin.Context) {
	h.changeImage(c, h.productService.RemoveImage)
}

func (h *ProductHandler) changeImage(c *gin.Context, apply func(context.Context, uuid.UUID, catalogapp.ImageRequest) (*catalogapp.ProductResponse, error)) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req catalogapp.ImageRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := apply(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
