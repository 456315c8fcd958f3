package partner

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/partner"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/menswear/backend/internal/infrastructure/cache"
	"github.com/menswear/backend/internal/infrastructure/sanitize"
	"go.uber.org/zap"
)

// LeadService handles the lead pipeline and conversion into customers
type LeadService struct {
	leadRepo     partner.LeadRepository
	customerRepo partner.CustomerRepository
	cache        *cache.Service
	logger       *zap.Logger
}

// NewLeadService creates a new LeadService
func NewLeadService(
	leadRepo partner.LeadRepository,
	customerRepo partner.CustomerRepository,
	cacheService *cache.Service,
	logger *zap.Logger,
) *LeadService {
	return &LeadService{
		leadRepo:     leadRepo,
		customerRepo: customerRepo,
		cache:        cacheService,
		logger:       logger,
	}
}

// Create captures a new lead
func (s *LeadService) Create(ctx context.Context, req CreateLeadRequest) (*LeadResponse, error) {
	lead, err := partner.NewLead(req.Name, req.Email, partner.LeadSource(req.Source))
	if err != nil {
		return nil, err
	}
	lead.SetDetails(req.Phone, sanitize.Text(req.Interest), sanitize.Text(req.Message))

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.NSDashboard)
	s.logger.Info("Lead captured", zap.String("lead_id", lead.ID.String()), zap.String("source", string(lead.Source)))

	response := ToLeadResponse(lead)
	return &response, nil
}

// GetByID retrieves a lead by ID
func (s *LeadService) GetByID(ctx context.Context, id uuid.UUID) (*LeadResponse, error) {
	lead, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToLeadResponse(lead)
	return &response, nil
}

// List retrieves a page of leads
func (s *LeadService) List(ctx context.Context, filter LeadListFilter) ([]LeadResponse, int64, error) {
	domainFilter := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Source != "" {
		domainFilter.Filters["source"] = filter.Source
	}

	leads, err := s.leadRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.leadRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToLeadResponses(leads), total, nil
}

// Update applies a partial update to a lead
func (s *LeadService) Update(ctx context.Context, id uuid.UUID, req UpdateLeadRequest) (*LeadResponse, error) {
	lead, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Phone != nil || req.Interest != nil || req.Message != nil {
		phone, interest, message := lead.Phone, lead.Interest, lead.Message
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Interest != nil {
			interest = sanitize.Text(*req.Interest)
		}
		if req.Message != nil {
			message = sanitize.Text(*req.Message)
		}
		lead.SetDetails(phone, interest, message)
	}
	if req.Status != nil {
		if err := lead.ChangeStatus(partner.LeadStatus(*req.Status)); err != nil {
			return nil, err
		}
	}

	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.NSDashboard)

	response := ToLeadResponse(lead)
	return &response, nil
}

// Delete soft-deletes a lead
func (s *LeadService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.leadRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.NSDashboard)
	return nil
}

// Convert links the lead to the customer with the same email, creating the
// customer when none exists, and marks the lead converted
func (s *LeadService) Convert(ctx context.Context, id uuid.UUID, req ConvertLeadRequest) (*ConvertLeadResponse, error) {
	lead, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead.Status == partner.LeadStatusConverted {
		return nil, shared.NewDomainError("INVALID_STATUS_TRANSITION", "Lead is already converted")
	}

	created := false
	customer, err := s.customerRepo.FindByEmail(ctx, lead.Email)
	switch {
	case err == nil:
	case errors.Is(err, shared.ErrNotFound):
		customer, err = newCustomerFromLead(lead, req)
		if err != nil {
			return nil, err
		}
		if err := s.customerRepo.Create(ctx, customer); err != nil {
			return nil, err
		}
		created = true
	default:
		return nil, err
	}

	if err := lead.MarkConverted(customer.ID); err != nil {
		return nil, err
	}
	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.NSCustomers, cache.NSDashboard)
	s.logger.Info("Lead converted",
		zap.String("lead_id", lead.ID.String()),
		zap.String("customer_id", customer.ID.String()),
		zap.Bool("customer_created", created),
	)

	return &ConvertLeadResponse{
		Lead:            ToLeadResponse(lead),
		Customer:        ToCustomerResponse(customer),
		CustomerCreated: created,
	}, nil
}

func newCustomerFromLead(lead *partner.Lead, req ConvertLeadRequest) (*partner.Customer, error) {
	first, last := splitName(lead.Name)
	if req.FirstName != "" {
		first = req.FirstName
	}
	if req.LastName != "" {
		last = req.LastName
	}
	if last == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Last name is required to convert this lead")
	}
	customer, err := partner.NewCustomer(lead.Email, first, last)
	if err != nil {
		return nil, err
	}
	if lead.Phone != "" {
		if err := customer.Update(customer.FirstName, customer.LastName, lead.Phone); err != nil {
			return nil, err
		}
	}
	return customer, nil
}

// splitName splits "Jane van Dyke" into "Jane" and "van Dyke"
func splitName(name string) (string, string) {
	first, last, _ := strings.Cut(strings.TrimSpace(name), " ")
	return first, strings.TrimSpace(last)
}
