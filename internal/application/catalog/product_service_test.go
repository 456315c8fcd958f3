package catalog

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/catalog"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	svc      *ProductService
	products *MockProductRepository
	variants *MockVariantRepository
	storage  *MockImageStorage
}

func newFixture(t *testing.T, withStorage bool) *fixture {
	t.Helper()
	f := &fixture{
		products: new(MockProductRepository),
		variants: new(MockVariantRepository),
		storage:  new(MockImageStorage),
	}
	var storage ImageStorage
	if withStorage {
		storage = f.storage
	}
	f.svc = NewProductService(f.products, f.variants, newTestCache(t), storage, zap.NewNop())
	return f
}

func newProduct(t *testing.T) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("Navy Wool Blazer", catalog.CategoryBlazers, decimal.NewFromInt(395))
	require.NoError(t, err)
	v, err := catalog.NewProductVariant(p.ID, "nb-40r", "40R", "Navy", 4)
	require.NoError(t, err)
	p.Variants = append(p.Variants, *v)
	return p
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("derives slug and uppercases SKUs", func(t *testing.T) {
		f := newFixture(t, false)
		f.products.On("ExistsBySlug", ctx, "navy-wool-blazer").Return(false, nil)
		f.variants.On("ExistsBySKU", ctx, "NB-40R").Return(false, nil)
		f.products.On("Create", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		override := decimal.NewFromInt(425)
		resp, err := f.svc.Create(ctx, CreateProductRequest{
			Name:        "Navy Wool Blazer",
			Description: "<p>Half canvas</p><script>x()</script>",
			Category:    "blazers",
			BasePrice:   decimal.NewFromInt(395),
			Status:      "active",
			Variants: []CreateVariantRequest{
				{SKU: "nb-40r", Size: "40R", Color: "Navy", Stock: 3, Price: &override},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "navy-wool-blazer", resp.Slug)
		assert.Equal(t, "active", resp.Status)
		assert.Equal(t, "<p>Half canvas</p>", resp.Description)
		require.Len(t, resp.Variants, 1)
		assert.Equal(t, "NB-40R", resp.Variants[0].SKU)
		assert.True(t, resp.Variants[0].EffectivePrice.Equal(override))
		assert.Equal(t, 3, resp.TotalStock)
	})

	t.Run("slug taken", func(t *testing.T) {
		f := newFixture(t, false)
		f.products.On("ExistsBySlug", ctx, "navy-wool-blazer").Return(true, nil)

		_, err := f.svc.Create(ctx, CreateProductRequest{Name: "Navy Wool Blazer", Category: "blazers", BasePrice: decimal.NewFromInt(1)})
		assert.True(t, shared.HasCode(err, "ALREADY_EXISTS"))
	})

	t.Run("duplicate SKU in request", func(t *testing.T) {
		f := newFixture(t, false)
		f.products.On("ExistsBySlug", ctx, "tie").Return(false, nil)
		f.variants.On("ExistsBySKU", ctx, "TIE-1").Return(false, nil)

		_, err := f.svc.Create(ctx, CreateProductRequest{
			Name: "Tie", Category: "accessories", BasePrice: decimal.NewFromInt(40),
			Variants: []CreateVariantRequest{{SKU: "tie-1", Size: "OS"}, {SKU: "TIE-1", Size: "OS"}},
		})
		assert.True(t, shared.HasCode(err, "ALREADY_EXISTS"))
		f.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("negative price", func(t *testing.T) {
		f := newFixture(t, false)
		_, err := f.svc.Create(ctx, CreateProductRequest{Name: "Tie", Category: "accessories", BasePrice: decimal.NewFromInt(-1)})
		assert.True(t, shared.HasCode(err, "INVALID_PRICE"))
	})
}

func TestProductService_GetByID_CacheHitSkipsRepository(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	product := newProduct(t)
	f.products.On("FindByID", ctx, product.ID).Return(product, nil).Once()

	first, err := f.svc.GetByID(ctx, product.ID)
	require.NoError(t, err)
	second, err := f.svc.GetByID(ctx, product.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Slug, second.Slug)
	f.products.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestProductService_UpdateInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	product := newProduct(t)
	f.products.On("FindByID", ctx, product.ID).Return(product, nil)
	f.products.On("Update", ctx, product).Return(nil)

	_, err := f.svc.GetByID(ctx, product.ID)
	require.NoError(t, err)

	name := "Midnight Wool Blazer"
	_, err = f.svc.Update(ctx, product.ID, UpdateProductRequest{Name: &name})
	require.NoError(t, err)

	resp, err := f.svc.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Midnight Wool Blazer", resp.Name)
	f.products.AssertNumberOfCalls(t, "FindByID", 3)
}

func TestProductService_GetByID_NotFoundIsNotCached(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	id := uuid.New()
	f.products.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	_, err := f.svc.GetByID(ctx, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = f.svc.GetByID(ctx, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	f.products.AssertNumberOfCalls(t, "FindByID", 2)
}

func TestProductService_List_DefaultsToActive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	active := mock.MatchedBy(func(fl shared.Filter) bool { return fl.Filters["status"] == "active" })
	f.products.On("FindAll", ctx, active).Return([]catalog.Product{*newProduct(t)}, nil).Once()
	f.products.On("Count", ctx, active).Return(int64(1), nil).Once()

	page, err := f.svc.List(ctx, ProductListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	_, err = f.svc.List(ctx, ProductListFilter{})
	require.NoError(t, err)
	f.products.AssertNumberOfCalls(t, "FindAll", 1)
}

func TestProductService_List_AllStatusesAndPrices(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	match := mock.MatchedBy(func(fl shared.Filter) bool {
		_, hasStatus := fl.Filters["status"]
		minPrice, ok := fl.Filters["min_price"].(decimal.Decimal)
		return !hasStatus && ok && minPrice.Equal(decimal.NewFromInt(100))
	})
	f.products.On("FindAll", ctx, match).Return([]catalog.Product{}, nil)
	f.products.On("Count", ctx, match).Return(int64(0), nil)

	page, err := f.svc.List(ctx, ProductListFilter{Status: "all", MinPrice: "100"})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestProductService_AdjustStock(t *testing.T) {
	ctx := context.Background()

	t.Run("applies delta", func(t *testing.T) {
		f := newFixture(t, false)
		product := newProduct(t)
		variant := product.Variants[0]
		f.products.On("FindByID", ctx, product.ID).Return(product, nil)
		f.variants.On("FindByID", ctx, variant.ID).Return(&variant, nil)
		f.variants.On("AdjustStock", ctx, variant.ID, 6).Return(10, nil)

		resp, err := f.svc.AdjustStock(ctx, product.ID, variant.ID, AdjustStockRequest{Delta: 6})
		require.NoError(t, err)
		assert.Equal(t, 10, resp.Stock)
	})

	t.Run("insufficient stock", func(t *testing.T) {
		f := newFixture(t, false)
		product := newProduct(t)
		variant := product.Variants[0]
		f.products.On("FindByID", ctx, product.ID).Return(product, nil)
		f.variants.On("FindByID", ctx, variant.ID).Return(&variant, nil)
		f.variants.On("AdjustStock", ctx, variant.ID, -50).Return(0, shared.ErrInsufficientStock)

		_, err := f.svc.AdjustStock(ctx, product.ID, variant.ID, AdjustStockRequest{Delta: -50})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("variant of another product", func(t *testing.T) {
		f := newFixture(t, false)
		product := newProduct(t)
		other := newProduct(t).Variants[0]
		f.products.On("FindByID", ctx, product.ID).Return(product, nil)
		f.variants.On("FindByID", ctx, other.ID).Return(&other, nil)

		_, err := f.svc.AdjustStock(ctx, product.ID, other.ID, AdjustStockRequest{Delta: 1})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.variants.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProductService_AddVariant_DuplicateSKU(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	product := newProduct(t)
	f.products.On("FindByID", ctx, product.ID).Return(product, nil)
	f.variants.On("ExistsBySKU", ctx, "NB-42R").Return(true, nil)

	_, err := f.svc.AddVariant(ctx, product.ID, CreateVariantRequest{SKU: "nb-42r", Size: "42R"})
	assert.True(t, shared.HasCode(err, "ALREADY_EXISTS"))
}

func TestProductService_CreateImageUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("storage disabled", func(t *testing.T) {
		f := newFixture(t, false)
		_, err := f.svc.CreateImageUpload(ctx, uuid.New(), ImageUploadRequest{ContentType: "image/png"})
		assert.True(t, shared.HasCode(err, "STORAGE_DISABLED"))
	})

	t.Run("presigns product scoped key", func(t *testing.T) {
		f := newFixture(t, true)
		product := newProduct(t)
		pattern := regexp.MustCompile(`^products/` + product.ID.String() + `/[0-9a-f-]{36}\.webp$`)

		f.products.On("FindByID", ctx, product.ID).Return(product, nil)
		f.storage.On("PresignUpload", ctx, mock.MatchedBy(pattern.MatchString), "image/webp").
			Return(&UploadTarget{UploadURL: "https://s3/upload", Method: "PUT"}, nil)

		target, err := f.svc.CreateImageUpload(ctx, product.ID, ImageUploadRequest{ContentType: "image/webp"})
		require.NoError(t, err)
		assert.Equal(t, "PUT", target.Method)
		f.storage.AssertExpectations(t)
	})

	t.Run("unsupported type", func(t *testing.T) {
		f := newFixture(t, true)
		_, err := f.svc.CreateImageUpload(ctx, uuid.New(), ImageUploadRequest{ContentType: "image/gif"})
		assert.True(t, shared.HasCode(err, "INVALID_CONTENT_TYPE"))
	})
}

func TestProductService_RemoveImage_DeletesOwnedObject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	product := newProduct(t)
	url := "https://cdn.example.com/products/x/a.jpg"
	require.NoError(t, product.AddImage(url))

	f.products.On("FindByID", ctx, product.ID).Return(product, nil)
	f.products.On("Update", ctx, product).Return(nil)
	f.storage.On("KeyFromURL", url).Return("products/x/a.jpg", true)
	f.storage.On("DeleteObject", ctx, "products/x/a.jpg").Return(nil)

	resp, err := f.svc.RemoveImage(ctx, product.ID, ImageRequest{URL: url})
	require.NoError(t, err)
	assert.Empty(t, resp.ImageURLs)
	f.storage.AssertExpectations(t)
}
