package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/identity"
	"github.com/menswear/backend/internal/domain/partner"
	"github.com/menswear/backend/internal/domain/scheduling"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/menswear/backend/internal/infrastructure/cache"
	"github.com/menswear/backend/internal/infrastructure/sanitize"
	"go.uber.org/zap"
)

// AppointmentService books and manages store appointments
type AppointmentService struct {
	appointmentRepo scheduling.AppointmentRepository
	scope           StaffScope
	customerRepo    partner.CustomerRepository
	userRepo        identity.UserRepository
	cache           *cache.Service
	logger          *zap.Logger
	now             func() time.Time
}

// NewAppointmentService creates a new AppointmentService
func NewAppointmentService(
	appointmentRepo scheduling.AppointmentRepository,
	scope StaffScope,
	customerRepo partner.CustomerRepository,
	userRepo identity.UserRepository,
	cacheService *cache.Service,
	logger *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		appointmentRepo: appointmentRepo,
		scope:           scope,
		customerRepo:    customerRepo,
		userRepo:        userRepo,
		cache:           cacheService,
		logger:          logger,
		now:             time.Now,
	}
}

// Create books an appointment from the back office
func (s *AppointmentService) Create(ctx context.Context, req CreateAppointmentRequest) (*AppointmentResponse, error) {
	appointment, err := scheduling.NewAppointment(req.Name, req.Email,
		scheduling.AppointmentType(req.Type), req.ScheduledAt, req.DurationMinutes)
	if err != nil {
		return nil, err
	}
	appointment.SetContact(req.Phone, sanitize.Text(req.Notes))

	if req.CustomerID != nil {
		if _, err := s.customerRepo.FindByID(ctx, *req.CustomerID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer does not exist")
			}
			return nil, err
		}
		appointment.LinkCustomer(req.CustomerID)
	} else {
		s.linkCustomerByEmail(ctx, appointment)
	}

	if req.StaffID != nil {
		if err := s.checkStaff(ctx, *req.StaffID); err != nil {
			return nil, err
		}
		appointment.AssignStaff(req.StaffID)
	}

	err = s.save(ctx, appointment, appointment.StaffID != nil, func(repo scheduling.AppointmentRepository) error {
		return repo.Create(ctx, appointment)
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	response := ToAppointmentResponse(appointment)
	return &response, nil
}

// Book handles the public booking form. The slot must be in the future
// and the visit is linked to an existing customer with the same email.
func (s *AppointmentService) Book(ctx context.Context, req BookAppointmentRequest) (*AppointmentResponse, error) {
	if !req.ScheduledAt.After(s.now()) {
		return nil, shared.NewDomainError("INVALID_SCHEDULE", "Appointments must be booked in the future")
	}
	resp, err := s.Create(ctx, CreateAppointmentRequest{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Type:        req.Type,
		ScheduledAt: req.ScheduledAt,
		Notes:       req.Notes,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Appointment booked",
		zap.String("appointment_id", resp.ID.String()),
		zap.String("type", resp.Type),
		zap.Time("scheduled_at", resp.ScheduledAt),
	)
	return resp, nil
}

// GetByID retrieves an appointment
func (s *AppointmentService) GetByID(ctx context.Context, id uuid.UUID) (*AppointmentResponse, error) {
	appointment, err := s.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToAppointmentResponse(appointment)
	return &response, nil
}

// List retrieves a page of appointments
func (s *AppointmentService) List(ctx context.Context, filter AppointmentListFilter) ([]AppointmentResponse, int64, error) {
	domainFilter := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	for key, raw := range map[string]string{"staff_id": filter.StaffID, "customer_id": filter.CustomerID} {
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", key+" must be a UUID")
		}
		domainFilter.Filters[key] = id
	}
	if filter.From != "" {
		from, err := time.Parse(time.DateOnly, filter.From)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_DATE", "from must be YYYY-MM-DD")
		}
		domainFilter.Filters["from"] = from
	}
	if filter.To != "" {
		to, err := time.Parse(time.DateOnly, filter.To)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_DATE", "to must be YYYY-MM-DD")
		}
		domainFilter.Filters["to"] = to.AddDate(0, 0, 1)
	}

	appointments, err := s.appointmentRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.appointmentRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToAppointmentResponses(appointments), total, nil
}

// Update reschedules an appointment or changes its staff and contact details
func (s *AppointmentService) Update(ctx context.Context, id uuid.UUID, req UpdateAppointmentRequest) (*AppointmentResponse, error) {
	appointment, err := s.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	slotChanged := false
	if req.ScheduledAt != nil || req.DurationMinutes != nil {
		scheduledAt, duration := appointment.ScheduledAt, appointment.DurationMinutes
		if req.ScheduledAt != nil {
			scheduledAt = *req.ScheduledAt
		}
		if req.DurationMinutes != nil {
			duration = *req.DurationMinutes
		}
		if err := appointment.Reschedule(scheduledAt, duration); err != nil {
			return nil, err
		}
		slotChanged = true
	}

	switch {
	case req.ClearStaff:
		appointment.AssignStaff(nil)
	case req.StaffID != nil:
		if err := s.checkStaff(ctx, *req.StaffID); err != nil {
			return nil, err
		}
		appointment.AssignStaff(req.StaffID)
		slotChanged = true
	}

	if req.Phone != nil || req.Notes != nil {
		phone, notes := appointment.Phone, appointment.Notes
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Notes != nil {
			notes = sanitize.Text(*req.Notes)
		}
		appointment.SetContact(phone, notes)
	}

	checkSlot := slotChanged && appointment.StaffID != nil && appointment.Status.IsActive()
	err = s.save(ctx, appointment, checkSlot, func(repo scheduling.AppointmentRepository) error {
		return repo.Update(ctx, appointment)
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	response := ToAppointmentResponse(appointment)
	return &response, nil
}

// UpdateStatus moves an appointment to a new status
func (s *AppointmentService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateAppointmentStatusRequest) (*AppointmentResponse, error) {
	appointment, err := s.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := appointment.TransitionTo(scheduling.AppointmentStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.appointmentRepo.Update(ctx, appointment); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	response := ToAppointmentResponse(appointment)
	return &response, nil
}

// Delete soft-deletes an appointment
func (s *AppointmentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.appointmentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// save writes a through write. When checkSlot is set the staff calendar is
// checked and the write happens under that staff member's lock.
func (s *AppointmentService) save(ctx context.Context, a *scheduling.Appointment, checkSlot bool, write func(repo scheduling.AppointmentRepository) error) error {
	if !checkSlot {
		return write(s.appointmentRepo)
	}
	return s.scope.WithStaffLock(ctx, *a.StaffID, func(repo scheduling.AppointmentRepository) error {
		if err := s.checkSlot(ctx, repo, a); err != nil {
			return err
		}
		return write(repo)
	})
}

// checkSlot rejects a booking that overlaps another live appointment of the same staff member
func (s *AppointmentService) checkSlot(ctx context.Context, repo scheduling.AppointmentRepository, a *scheduling.Appointment) error {
	overlaps, err := repo.FindStaffOverlaps(ctx, *a.StaffID, a.ScheduledAt, a.EndsAt(), &a.ID)
	if err != nil {
		return err
	}
	if len(overlaps) > 0 {
		clash := overlaps[0]
		return shared.NewDomainError("SLOT_UNAVAILABLE", fmt.Sprintf(
			"Staff member is already booked from %s to %s",
			clash.ScheduledAt.Format(time.RFC3339), clash.EndsAt().Format(time.RFC3339)))
	}
	return nil
}

func (s *AppointmentService) checkStaff(ctx context.Context, staffID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_STAFF", "Staff member does not exist")
		}
		return err
	}
	if !user.IsStaff() || !user.Active {
		return shared.NewDomainError("INVALID_STAFF", "User cannot take appointments")
	}
	return nil
}

// linkCustomerByEmail attaches an existing customer record; a lookup
// failure only leaves the appointment unlinked
func (s *AppointmentService) linkCustomerByEmail(ctx context.Context, a *scheduling.Appointment) {
	customer, err := s.customerRepo.FindByEmail(ctx, a.Email)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Customer lookup failed", zap.String("email", a.Email), zap.Error(err))
		}
		return
	}
	a.LinkCustomer(&customer.ID)
}

func (s *AppointmentService) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, cache.NSAppointments, cache.NSDashboard)
}
