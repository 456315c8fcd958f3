package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	schedulingapp "github.com/menswear/backend/internal/application/scheduling"
)

// AppointmentService is the slice of the scheduling service used by AppointmentHandler
type AppointmentService interface {
	Create(ctx context.Context, req schedulingapp.CreateAppointmentRequest) (*schedulingapp.AppointmentResponse, error)
	Book(ctx context.Context, req schedulingapp.BookAppointmentRequest) (*schedulingapp.AppointmentResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*schedulingapp.AppointmentResponse, error)
	List(ctx context.Context, filter schedulingapp.AppointmentListFilter) ([]schedulingapp.AppointmentResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req schedulingapp.UpdateAppointmentRequest) (*schedulingapp.AppointmentResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req schedulingapp.UpdateAppointmentStatusRequest) (*schedulingapp.AppointmentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AppointmentHandler handles fitting and consultation bookings
type AppointmentHandler struct {
	BaseHandler
	appointmentService AppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler
func NewAppointmentHandler(appointmentService AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

// Create godoc
// @ID           createAppointment
// @Summary      Create an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        request body schedulingapp.CreateAppointmentRequest true "Appointment"
// @Success      201 {object} APIResponse[schedulingapp.AppointmentResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /appointments [post]
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req schedulingapp.CreateAppointmentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	appointment, err := h.appointmentService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, appointment)
}

// Book godoc
// @ID           bookAppointment
// @Summary      Book an appointment
// @Description  Public booking form. The slot must be free and inside opening hours.
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        request body schedulingapp.BookAppointmentRequest true "Booking"
// @Success      201 {object} APIResponse[schedulingapp.AppointmentResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Router       /appointments/book [post]
func (h *AppointmentHandler) Book(c *gin.Context) {
	var req schedulingapp.BookAppointmentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	appointment, err := h.appointmentService.Book(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, appointment)
}

// GetByID godoc
// @ID           getAppointment
// @Summary      Get an appointment
// @Tags         appointments
// @Produce      json
// @Param        id path string true "Appointment ID" format(uuid)
// @Success      200 {object} APIResponse[schedulingapp.AppointmentResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /appointments/{id} [get]
func (h *AppointmentHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	appointment, err := h.appointmentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appointment)
}

// List godoc
// @ID           listAppointments
// @Summary      List appointments
// @Tags         appointments
// @Produce      json
// @Param        search query string false "Search name or email"
// @Param        status query string false "Status" Enums(scheduled, confirmed, completed, cancelled, no_show)
// @Param        type query string false "Type" Enums(fitting, consultation, alteration, wedding, pickup)
// @Param        staff_id query string false "Staff user ID" format(uuid)
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        from query string false "On or after (YYYY-MM-DD)"
// @Param        to query string false "On or before (YYYY-MM-DD)"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]schedulingapp.AppointmentResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /appointments [get]
func (h *AppointmentHandler) List(c *gin.Context) {
	var filter schedulingapp.AppointmentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	appointments, total, err := h.appointmentService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, appointments, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateAppointment
// @Summary      Reschedule or edit an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        id path string true "Appointment ID" format(uuid)
// @Param        request body schedulingapp.UpdateAppointmentRequest true "Changes"
// @Success      200 {object} APIResponse[schedulingapp.AppointmentResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /appointments/{id} [put]
func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req schedulingapp.UpdateAppointmentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	appointment, err := h.appointmentService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appointment)
}

// UpdateStatus godoc
// @ID           updateAppointmentStatus
// @Summary      Change appointment status
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        id path string true "Appointment ID" format(uuid)
// @Param        request body schedulingapp.UpdateAppointmentStatusRequest true "Target status"
// @Success      200 {object} APIResponse[schedulingapp.AppointmentResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /appointments/{id}/status [post]
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req schedulingapp.UpdateAppointmentStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	appointment, err := h.appointmentService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appointment)
}

// Delete godoc
// @ID           deleteAppointment
// @Summary      Delete an appointment
// @Tags         appointments
// @Param        id path string true "Appointment ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /appointments/{id} [delete]
func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.appointmentService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
