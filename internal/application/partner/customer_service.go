package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/partner"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/menswear/backend/internal/infrastructure/cache"
	"github.com/menswear/backend/internal/infrastructure/sanitize"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	cache        *cache.Service
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, cacheService *cache.Service) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		cache:        cacheService,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(req.Email, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}

	exists, err := s.customerRepo.ExistsByEmail(ctx, customer.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
	}

	if req.Phone != "" {
		if err := customer.Update(customer.FirstName, customer.LastName, req.Phone); err != nil {
			return nil, err
		}
	}
	if req.Address != nil {
		customer.SetAddress(req.Address.toDomain())
	}
	if req.Measurements != nil {
		if err := customer.SetMeasurements(partner.Measurements(*req.Measurements)); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		customer.SetNotes(sanitize.Text(req.Notes))
	}
	customer.SetMarketingOptIn(req.MarketingOptIn)

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.NSCustomers, cache.NSDashboard)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByEmail retrieves a customer by email
func (s *CustomerService) GetByEmail(ctx context.Context, email string) (*CustomerResponse, error) {
	normalized, err := shared.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.FindByEmail(ctx, normalized)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves a page of customers
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	domainFilter := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.City != "" {
		domainFilter.Filters["city"] = filter.City
	}
	if filter.Country != "" {
		domainFilter.Filters["country"] = filter.Country
	}
	if filter.MarketingOptIn != nil {
		domainFilter.Filters["marketing_opt_in"] = *filter.MarketingOptIn
	}

	customers, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToCustomerResponses(customers), total, nil
}

// Update applies a partial update to a customer
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		normalized, err := shared.NormalizeEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		if normalized != customer.Email {
			exists, err := s.customerRepo.ExistsByEmail(ctx, normalized)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
			}
			if err := customer.ChangeEmail(normalized); err != nil {
				return nil, err
			}
		}
	}

	if req.FirstName != nil || req.LastName != nil || req.Phone != nil {
		firstName, lastName, phone := customer.FirstName, customer.LastName, customer.Phone
		if req.FirstName != nil {
			firstName = *req.FirstName
		}
		if req.LastName != nil {
			lastName = *req.LastName
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if err := customer.Update(firstName, lastName, phone); err != nil {
			return nil, err
		}
	}

	if req.Address != nil {
		customer.SetAddress(req.Address.toDomain())
	}
	if req.Measurements != nil {
		if err := customer.SetMeasurements(partner.Measurements(*req.Measurements)); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		customer.SetNotes(sanitize.Text(*req.Notes))
	}
	if req.MarketingOptIn != nil {
		customer.SetMarketingOptIn(*req.MarketingOptIn)
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.NSCustomers, cache.NSDashboard)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete soft-deletes a customer
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.NSCustomers, cache.NSDashboard)
	return nil
}
