package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	legacyapp "github.com/menswear/backend/internal/application/legacy"
)

// LegacyService adapts the camelCase storefront contract
type LegacyService interface {
	ListProducts(ctx context.Context, q legacyapp.ProductQuery) (*legacyapp.ProductList, error)
	GetProduct(ctx context.Context, slug string) (*legacyapp.Product, error)
	LookupCustomer(ctx context.Context, q legacyapp.LookupQuery) (*legacyapp.Customer, error)
	BookAppointment(ctx context.Context, req legacyapp.BookingRequest) (*legacyapp.Booking, error)
	SubmitContact(ctx context.Context, req legacyapp.ContactRequest) (*legacyapp.ContactReceipt, error)
}

// LegacyHandler serves /api/legacy for older storefront clients
type LegacyHandler struct {
	BaseHandler
	legacyService LegacyService
}

// NewLegacyHandler creates a new LegacyHandler
func NewLegacyHandler(legacyService LegacyService) *LegacyHandler {
	return &LegacyHandler{legacyService: legacyService}
}

// ListProducts godoc
// @ID           legacyListProducts
// @Summary      List products (legacy)
// @Tags         legacy
// @Produce      json
// @Param        category query string false "Category"
// @Param        featured query bool false "Featured only"
// @Param        search query string false "Search"
// @Param        limit query int false "Limit" default(20)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} APIResponse[legacyapp.ProductList]
// @Failure      400 {object} dto.ErrorResponse
// @Router       /legacy/products [get]
func (h *LegacyHandler) ListProducts(c *gin.Context) {
	var q legacyapp.ProductQuery
	if !h.bindQuery(c, &q) {
		return
	}
	list, err := h.legacyService.ListProducts(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// GetProduct godoc
// @ID           legacyGetProduct
// @Summary      Get a product by slug (legacy)
// @Tags         legacy
// @Produce      json
// @Param        slug path string true "Product slug"
// @Success      200 {object} APIResponse[legacyapp.Product]
// @Failure      404 {object} dto.ErrorResponse
// @Router       /legacy/products/{slug} [get]
func (h *LegacyHandler) GetProduct(c *gin.Context) {
	product, err := h.legacyService.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// LookupCustomer godoc
// @ID           legacyLookupCustomer
// @Summary      Find a customer by email (legacy)
// @Tags         legacy
// @Produce      json
// @Param        email query string true "Email"
// @Success      200 {object} APIResponse[legacyapp.Customer]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /legacy/customers/lookup [get]
func (h *LegacyHandler) LookupCustomer(c *gin.Context) {
	var q legacyapp.LookupQuery
	if !h.bindQuery(c, &q) {
		return
	}
	customer, err := h.legacyService.LookupCustomer(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Book godoc
// @ID           legacyBookAppointment
// @Summary      Book an appointment (legacy)
// @Tags         legacy
// @Accept       json
// @Produce      json
// @Param        request body legacyapp.BookingRequest true "Booking"
// @Success      201 {object} APIResponse[legacyapp.Booking]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Router       /legacy/appointments/book [post]
func (h *LegacyHandler) Book(c *gin.Context) {
	var req legacyapp.BookingRequest
	if !h.bindJSON(c, &req) {
		return
	}
	booking, err := h.legacyService.BookAppointment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, booking)
}

// Contact godoc
// @ID           legacyContact
// @Summary      Submit the contact form (legacy)
// @Tags         legacy
// @Accept       json
// @Produce      json
// @Param        request body legacyapp.ContactRequest true "Contact form"
// @Success      201 {object} APIResponse[legacyapp.ContactReceipt]
// @Failure      400 {object} dto.ErrorResponse
// @Router       /legacy/contact [post]
func (h *LegacyHandler) Contact(c *gin.Context) {
	var req legacyapp.ContactRequest
	if !h.bindJSON(c, &req) {
		return
	}
	receipt, err := h.legacyService.SubmitContact(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, receipt)
}
