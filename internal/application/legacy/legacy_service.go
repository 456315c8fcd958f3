// Package legacy serves the older camelCase storefront contract by
// translating it onto the current application services.
package legacy

import (
	"context"
	"strconv"
	"time"

	appcatalog "github.com/menswear/backend/internal/application/catalog"
	apppartner "github.com/menswear/backend/internal/application/partner"
	appscheduling "github.com/menswear/backend/internal/application/scheduling"
	"github.com/menswear/backend/internal/domain/catalog"
	"github.com/menswear/backend/internal/domain/partner"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/menswear/backend/internal/infrastructure/cache"
	"go.uber.org/zap"
)

const defaultLimit = 20

// ProductReader is the catalog surface the legacy layer needs
type ProductReader interface {
	List(ctx context.Context, filter appcatalog.ProductListFilter) (*appcatalog.ProductPage, error)
	GetBySlug(ctx context.Context, slug string) (*appcatalog.ProductResponse, error)
}

// CustomerFinder looks customers up by email
type CustomerFinder interface {
	GetByEmail(ctx context.Context, email string) (*apppartner.CustomerResponse, error)
}

// LeadCreator captures contact form submissions
type LeadCreator interface {
	Create(ctx context.Context, req apppartner.CreateLeadRequest) (*apppartner.LeadResponse, error)
}

// AppointmentBooker books public appointments
type AppointmentBooker interface {
	Book(ctx context.Context, req appscheduling.BookAppointmentRequest) (*appscheduling.AppointmentResponse, error)
}

// Service adapts legacy payloads to the current services
type Service struct {
	products     ProductReader
	customers    CustomerFinder
	leads        LeadCreator
	appointments AppointmentBooker
	cache        *cache.Service
	logger       *zap.Logger
}

// NewService creates a new legacy Service
func NewService(
	products ProductReader,
	customers CustomerFinder,
	leads LeadCreator,
	appointments AppointmentBooker,
	cacheService *cache.Service,
	logger *zap.Logger,
) *Service {
	return &Service{
		products:     products,
		customers:    customers,
		leads:        leads,
		appointments: appointments,
		cache:        cacheService,
		logger:       logger,
	}
}

// ListProducts returns active products in the legacy shape
func (s *Service) ListProducts(ctx context.Context, q ProductQuery) (*ProductList, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	page := q.Offset/limit + 1

	params := map[string]string{
		"category": q.Category,
		"search":   q.Search,
		"limit":    strconv.Itoa(limit),
		"page":     strconv.Itoa(page),
	}
	if q.Featured != nil {
		params["featured"] = strconv.FormatBool(*q.Featured)
	}
	key := s.cache.Keys().ListKey(cache.NSLegacy, params)

	return cache.GetOrSet(ctx, s.cache.Cache(), key, s.cache.TTL(cache.TierMedium),
		func(ctx context.Context) (*ProductList, error) {
			result, err := s.products.List(ctx, appcatalog.ProductListFilter{
				Search:   q.Search,
				Category: q.Category,
				Featured: q.Featured,
				Page:     page,
				PageSize: limit,
				OrderBy:  "created_at",
				OrderDir: "desc",
			})
			if err != nil {
				return nil, err
			}
			out := &ProductList{
				Products: make([]Product, len(result.Items)),
				Total:    result.Total,
				Limit:    limit,
				Offset:   (page - 1) * limit,
			}
			for i := range result.Items {
				out.Products[i] = toProduct(&result.Items[i])
			}
			return out, nil
		})
}

// GetProduct returns one active product by slug
func (s *Service) GetProduct(ctx context.Context, slug string) (*Product, error) {
	p, err := s.products.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if p.Status != string(catalog.ProductStatusActive) {
		return nil, shared.ErrNotFound
	}
	out := toProduct(p)
	return &out, nil
}

// LookupCustomer finds a customer by email
func (s *Service) LookupCustomer(ctx context.Context, q LookupQuery) (*Customer, error) {
	c, err := s.customers.GetByEmail(ctx, q.Email)
	if err != nil {
		return nil, err
	}
	out := toCustomer(c)
	return &out, nil
}

// BookAppointment books from the legacy form
func (s *Service) BookAppointment(ctx context.Context, req BookingRequest) (*Booking, error) {
	scheduledAt, err := time.Parse("2006-01-02 15:04", req.PreferredDate+" "+req.PreferredTime)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_SCHEDULE", "preferredDate and preferredTime must be YYYY-MM-DD and HH:MM")
	}
	appt, err := s.appointments.Book(ctx, appscheduling.BookAppointmentRequest{
		Name:        req.CustomerName,
		Email:       req.CustomerEmail,
		Phone:       req.CustomerPhone,
		Type:        req.AppointmentType,
		ScheduledAt: scheduledAt,
		Notes:       req.Notes,
	})
	if err != nil {
		return nil, err
	}
	return &Booking{
		ID:              appt.ID,
		Status:          appt.Status,
		AppointmentType: appt.Type,
		ScheduledAt:     appt.ScheduledAt,
		DurationMinutes: appt.DurationMinutes,
	}, nil
}

// SubmitContact records the contact form as a website lead
func (s *Service) SubmitContact(ctx context.Context, req ContactRequest) (*ContactReceipt, error) {
	lead, err := s.leads.Create(ctx, apppartner.CreateLeadRequest{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Source:   string(partner.LeadSourceWebsite),
		Interest: req.Subject,
		Message:  req.Message,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Contact form received", zap.String("lead_id", lead.ID.String()))
	return &ContactReceipt{ID: lead.ID, Received: true}, nil
}
