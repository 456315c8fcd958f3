package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/partner"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCustomer(t *testing.T) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer("john@example.com", "John", "Doe")
	require.NoError(t, err)
	return c
}

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates customer with normalized email", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo, newTestCache(t))

		repo.On("ExistsByEmail", ctx, "john@example.com").Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)

		resp, err := svc.Create(ctx, CreateCustomerRequest{
			Email:          " John@Example.com ",
			FirstName:      "John",
			LastName:       "Doe",
			Phone:          "555-0100",
			Address:        &AddressDTO{City: "Boston", Country: "US"},
			Measurements:   &MeasurementsDTO{Chest: 102, Waist: 86},
			Notes:          "<b>Prefers</b> slim fit",
			MarketingOptIn: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "john@example.com", resp.Email)
		assert.Equal(t, "John Doe", resp.FullName)
		assert.Equal(t, "555-0100", resp.Phone)
		assert.Equal(t, "Boston", resp.Address.City)
		assert.Equal(t, 102.0, resp.Measurements.Chest)
		assert.Equal(t, "Prefers slim fit", resp.Notes)
		assert.True(t, resp.MarketingOptIn)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo, newTestCache(t))
		repo.On("ExistsByEmail", ctx, "john@example.com").Return(true, nil)

		_, err := svc.Create(ctx, CreateCustomerRequest{Email: "john@example.com", FirstName: "John", LastName: "Doe"})
		assert.True(t, shared.HasCode(err, "ALREADY_EXISTS"))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("invalid email", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo, newTestCache(t))

		_, err := svc.Create(ctx, CreateCustomerRequest{Email: "nope", FirstName: "John", LastName: "Doe"})
		assert.True(t, shared.HasCode(err, "INVALID_EMAIL"))
	})
}

func TestCustomerService_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo, newTestCache(t))
	id := uuid.New()
	repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	_, err := svc.GetByID(ctx, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCustomerService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo, newTestCache(t))
	optIn := true

	matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 2 && f.PageSize == 10 && f.Search == "doe" &&
			f.Filters["city"] == "Boston" && f.Filters["marketing_opt_in"] == true
	})
	repo.On("FindAll", ctx, matchFilter).Return([]partner.Customer{*newCustomer(t)}, nil)
	repo.On("Count", ctx, matchFilter).Return(int64(11), nil)

	items, total, err := svc.List(ctx, CustomerListFilter{
		Search: "doe", City: "Boston", MarketingOptIn: &optIn, Page: 2, PageSize: 10,
	})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(11), total)
}

func TestCustomerService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("changes email when free", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo, newTestCache(t))
		customer := newCustomer(t)
		email := "Johnny@Example.com"
		last := "Smith"

		repo.On("FindByID", ctx, customer.ID).Return(customer, nil)
		repo.On("ExistsByEmail", ctx, "johnny@example.com").Return(false, nil)
		repo.On("Update", ctx, customer).Return(nil)

		resp, err := svc.Update(ctx, customer.ID, UpdateCustomerRequest{Email: &email, LastName: &last})
		require.NoError(t, err)
		assert.Equal(t, "johnny@example.com", resp.Email)
		assert.Equal(t, "John", resp.FirstName)
		assert.Equal(t, "Smith", resp.LastName)
	})

	t.Run("email taken", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo, newTestCache(t))
		customer := newCustomer(t)
		email := "taken@example.com"

		repo.On("FindByID", ctx, customer.ID).Return(customer, nil)
		repo.On("ExistsByEmail", ctx, email).Return(true, nil)

		_, err := svc.Update(ctx, customer.ID, UpdateCustomerRequest{Email: &email})
		assert.True(t, shared.HasCode(err, "ALREADY_EXISTS"))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("same email skips uniqueness check", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo, newTestCache(t))
		customer := newCustomer(t)
		email := "JOHN@example.com"

		repo.On("FindByID", ctx, customer.ID).Return(customer, nil)
		repo.On("Update", ctx, customer).Return(nil)

		_, err := svc.Update(ctx, customer.ID, UpdateCustomerRequest{Email: &email})
		require.NoError(t, err)
		repo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
	})
}

func TestCustomerService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo, newTestCache(t))
	id := uuid.New()
	repo.On("Delete", ctx, id).Return(shared.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, id), shared.ErrNotFound)
}
