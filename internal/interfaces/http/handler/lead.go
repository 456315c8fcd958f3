package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	partnerapp "github.com/menswear/backend/internal/application/partner"
)

// LeadService is the slice of the partner service used by LeadHandler
type LeadService interface {
	Create(ctx context.Context, req partnerapp.CreateLeadRequest) (*partnerapp.LeadResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*partnerapp.LeadResponse, error)
	List(ctx context.Context, filter partnerapp.LeadListFilter) ([]partnerapp.LeadResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req partnerapp.UpdateLeadRequest) (*partnerapp.LeadResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Convert(ctx context.Context, id uuid.UUID, req partnerapp.ConvertLeadRequest) (*partnerapp.ConvertLeadResponse, error)
}

// LeadHandler handles sales lead endpoints
type LeadHandler struct {
	BaseHandler
	leadService LeadService
}

// NewLeadHandler creates a new LeadHandler
func NewLeadHandler(leadService LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// Create godoc
// @ID           createLead
// @Summary      Create a lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateLeadRequest true "Lead"
// @Success      201 {object} APIResponse[partnerapp.LeadResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /leads [post]
func (h *LeadHandler) Create(c *gin.Context) {
	var req partnerapp.CreateLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lead, err := h.leadService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, lead)
}

// GetByID godoc
// @ID           getLead
// @Summary      Get a lead
// @Tags         leads
// @Produce      json
// @Param        id path string true "Lead ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.LeadResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /leads/{id} [get]
func (h *LeadHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	lead, err := h.leadService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lead)
}

// List godoc
// @ID           listLeads
// @Summary      List leads
// @Tags         leads
// @Produce      json
// @Param        search query string false "Search name or email"
// @Param        status query string false "Status" Enums(new, contacted, qualified, converted, lost)
// @Param        source query string false "Source" Enums(website, instagram, referral, walk_in, event, other)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]partnerapp.LeadResponse]
// @Security     BearerAuth
// @Router       /leads [get]
func (h *LeadHandler) List(c *gin.Context) {
	var filter partnerapp.LeadListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	leads, total, err := h.leadService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, leads, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateLead
// @Summary      Update a lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        id path string true "Lead ID" format(uuid)
// @Param        request body partnerapp.UpdateLeadRequest true "Changes"
// @Success      200 {object} APIResponse[partnerapp.LeadResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /leads/{id} [put]
func (h *LeadHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req partnerapp.UpdateLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lead, err := h.leadService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lead)
}

// Delete godoc
// @ID           deleteLead
// @Summary      Delete a lead
// @Tags         leads
// @Param        id path string true "Lead ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /leads/{id} [delete]
func (h *LeadHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.leadService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Convert godoc
// @ID           convertLead
// @Summary      Convert a lead into a customer
// @Description  Links an existing customer with the same email, otherwise creates one
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        id path string true "Lead ID" format(uuid)
// @Param        request body partnerapp.ConvertLeadRequest false "Customer name override"
// @Success      200 {object} APIResponse[partnerapp.ConvertLeadResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /leads/{id}/convert [post]
func (h *LeadHandler) Convert(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req partnerapp.ConvertLeadRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	result, err := h.leadService.Convert(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
