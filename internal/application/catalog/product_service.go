package catalog

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/catalog"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/menswear/backend/internal/infrastructure/cache"
	"github.com/menswear/backend/internal/infrastructure/sanitize"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService handles catalog operations. Reads served to the storefront
// are cached; every write drops the products namespace.
type ProductService struct {
	productRepo catalog.ProductRepository
	variantRepo catalog.VariantRepository
	cache       *cache.Service
	storage     ImageStorage
	logger      *zap.Logger
}

// NewProductService creates a new ProductService. storage may be nil when
// object storage is not configured.
func NewProductService(
	productRepo catalog.ProductRepository,
	variantRepo catalog.VariantRepository,
	cacheService *cache.Service,
	storage ImageStorage,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		variantRepo: variantRepo,
		cache:       cacheService,
		storage:     storage,
		logger:      logger,
	}
}

// Create creates a product and its initial variants
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.Name, catalog.Category(req.Category), req.BasePrice)
	if err != nil {
		return nil, err
	}
	if req.Slug != "" {
		if err := product.SetSlug(req.Slug); err != nil {
			return nil, err
		}
	}
	if err := s.ensureSlugFree(ctx, product.Slug, uuid.Nil); err != nil {
		return nil, err
	}

	if err := product.Update(product.Name, sanitize.RichText(req.Description), req.Brand, product.Category); err != nil {
		return nil, err
	}
	if req.Status != "" {
		if err := product.SetStatus(catalog.ProductStatus(req.Status)); err != nil {
			return nil, err
		}
	}
	product.SetFeatured(req.Featured)
	for _, url := range req.ImageURLs {
		if err := product.AddImage(url); err != nil {
			return nil, err
		}
	}

	seen := make(map[string]bool, len(req.Variants))
	for _, vr := range req.Variants {
		variant, err := newVariant(product.ID, vr)
		if err != nil {
			return nil, err
		}
		if seen[variant.SKU] {
			return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("SKU %s is listed twice", variant.SKU))
		}
		seen[variant.SKU] = true
		if err := s.ensureSKUFree(ctx, variant.SKU); err != nil {
			return nil, err
		}
		product.Variants = append(product.Variants, *variant)
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.logger.Info("Product created", zap.String("product_id", product.ID.String()), zap.String("slug", product.Slug))

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product with its variants. Results are cached.
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return cache.Fetch(ctx, s.cache, cache.TierMedium, cache.NSProducts, []string{"id", id.String()},
		func(ctx context.Context) (*ProductResponse, error) {
			product, err := s.productRepo.FindByID(ctx, id)
			if err != nil {
				return nil, err
			}
			response := ToProductResponse(product)
			return &response, nil
		})
}

// GetBySlug retrieves a product by slug. Results are cached.
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*ProductResponse, error) {
	return cache.Fetch(ctx, s.cache, cache.TierMedium, cache.NSProducts, []string{"slug", slug},
		func(ctx context.Context) (*ProductResponse, error) {
			product, err := s.productRepo.FindBySlug(ctx, slug)
			if err != nil {
				return nil, err
			}
			response := ToProductResponse(product)
			return &response, nil
		})
}

// List retrieves a page of products. An empty status lists active products
// only; "all" lists every status. Results are cached per query.
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (*ProductPage, error) {
	domainFilter := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	switch filter.Status {
	case "":
		domainFilter.Filters["status"] = string(catalog.ProductStatusActive)
	case "all":
	default:
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.Brand != "" {
		domainFilter.Filters["brand"] = filter.Brand
	}
	if filter.Featured != nil {
		domainFilter.Filters["featured"] = *filter.Featured
	}
	for name, raw := range map[string]string{"min_price": filter.MinPrice, "max_price": filter.MaxPrice} {
		if raw == "" {
			continue
		}
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PRICE", fmt.Sprintf("%s must be a number", name))
		}
		domainFilter.Filters[name] = price
	}

	key := s.cache.Keys().ListKey(cache.NSProducts, listParams(domainFilter))
	return cache.GetOrSet(ctx, s.cache.Cache(), key, s.cache.TTL(cache.TierMedium),
		func(ctx context.Context) (*ProductPage, error) {
			products, err := s.productRepo.FindAll(ctx, domainFilter)
			if err != nil {
				return nil, err
			}
			total, err := s.productRepo.Count(ctx, domainFilter)
			if err != nil {
				return nil, err
			}
			return &ProductPage{Items: ToProductResponses(products), Total: total}, nil
		})
}

// Update applies a partial product update
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil || req.Brand != nil || req.Category != nil {
		name, description, brand, category := product.Name, product.Description, product.Brand, product.Category
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = sanitize.RichText(*req.Description)
		}
		if req.Brand != nil {
			brand = *req.Brand
		}
		if req.Category != nil {
			category = catalog.Category(*req.Category)
		}
		if err := product.Update(name, description, brand, category); err != nil {
			return nil, err
		}
	}
	if req.Slug != nil {
		if err := product.SetSlug(*req.Slug); err != nil {
			return nil, err
		}
		if err := s.ensureSlugFree(ctx, product.Slug, product.ID); err != nil {
			return nil, err
		}
	}
	if req.BasePrice != nil {
		if err := product.SetBasePrice(*req.BasePrice); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		if err := product.SetStatus(catalog.ProductStatus(*req.Status)); err != nil {
			return nil, err
		}
	}
	if req.Featured != nil {
		product.SetFeatured(*req.Featured)
	}
	if req.ImageURLs != nil {
		product.ImageURLs = []string{}
		for _, url := range req.ImageURLs {
			if err := product.AddImage(url); err != nil {
				return nil, err
			}
		}
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	response := ToProductResponse(product)
	return &response, nil
}

// Delete soft-deletes a product together with its variants
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}

// =============================================================================
// Variants
// =============================================================================

// ListVariants lists a product's variants
func (s *ProductService) ListVariants(ctx context.Context, productID uuid.UUID) ([]VariantResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product).Variants, nil
}

// AddVariant adds a variant to a product
func (s *ProductService) AddVariant(ctx context.Context, productID uuid.UUID, req CreateVariantRequest) (*VariantResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	variant, err := newVariant(product.ID, req)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSKUFree(ctx, variant.SKU); err != nil {
		return nil, err
	}
	if err := s.variantRepo.Create(ctx, variant); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	response := ToVariantResponse(variant, product.BasePrice)
	return &response, nil
}

// UpdateVariant applies a partial variant update
func (s *ProductService) UpdateVariant(ctx context.Context, productID, variantID uuid.UUID, req UpdateVariantRequest) (*VariantResponse, error) {
	product, variant, err := s.loadVariant(ctx, productID, variantID)
	if err != nil {
		return nil, err
	}

	if req.Size != nil || req.Color != nil {
		size, color := variant.Size, variant.Color
		if req.Size != nil {
			size = *req.Size
		}
		if req.Color != nil {
			color = *req.Color
		}
		if err := variant.Update(size, color); err != nil {
			return nil, err
		}
	}
	switch {
	case req.ClearPrice:
		if err := variant.SetPrice(nil); err != nil {
			return nil, err
		}
	case req.Price != nil:
		if err := variant.SetPrice(req.Price); err != nil {
			return nil, err
		}
	}

	if err := s.variantRepo.Update(ctx, variant); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	response := ToVariantResponse(variant, product.BasePrice)
	return &response, nil
}

// DeleteVariant soft-deletes a variant
func (s *ProductService) DeleteVariant(ctx context.Context, productID, variantID uuid.UUID) error {
	if _, _, err := s.loadVariant(ctx, productID, variantID); err != nil {
		return err
	}
	if err := s.variantRepo.Delete(ctx, variantID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// AdjustStock applies a signed delta to a variant's stock. The update is
// conditional, so a decrement below zero fails with INSUFFICIENT_STOCK.
func (s *ProductService) AdjustStock(ctx context.Context, productID, variantID uuid.UUID, req AdjustStockRequest) (*VariantResponse, error) {
	product, variant, err := s.loadVariant(ctx, productID, variantID)
	if err != nil {
		return nil, err
	}

	stock, err := s.variantRepo.AdjustStock(ctx, variantID, req.Delta)
	if err != nil {
		return nil, err
	}
	variant.Stock = stock
	s.invalidate(ctx)
	s.logger.Info("Stock adjusted",
		zap.String("variant_id", variantID.String()),
		zap.String("sku", variant.SKU),
		zap.Int("delta", req.Delta),
		zap.Int("stock", stock),
		zap.String("reason", req.Reason),
	)

	response := ToVariantResponse(variant, product.BasePrice)
	return &response, nil
}

// =============================================================================
// Images
// =============================================================================

// CreateImageUpload presigns a direct upload for a new product image. The
// client PUTs the file and then attaches the returned public URL.
func (s *ProductService) CreateImageUpload(ctx context.Context, productID uuid.UUID, req ImageUploadRequest) (*UploadTarget, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "Image storage is not configured")
	}
	ext, ok := imageExtensions[req.ContentType]
	if !ok {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", "Images must be JPEG, PNG or WebP")
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(product.ImageURLs) >= 12 {
		return nil, shared.NewDomainError("INVALID_IMAGE", "A product can have at most 12 images")
	}

	key := fmt.Sprintf("products/%s/%s%s", product.ID, uuid.New(), ext)
	return s.storage.PresignUpload(ctx, key, req.ContentType)
}

// AddImage attaches an uploaded image URL to a product
func (s *ProductService) AddImage(ctx context.Context, productID uuid.UUID, req ImageRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := product.AddImage(req.URL); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	response := ToProductResponse(product)
	return &response, nil
}

// RemoveImage detaches an image and deletes the object when it lives in our bucket
func (s *ProductService) RemoveImage(ctx context.Context, productID uuid.UUID, req ImageRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	product.RemoveImage(req.URL)
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	if s.storage != nil {
		if key, ok := s.storage.KeyFromURL(req.URL); ok {
			if err := s.storage.DeleteObject(ctx, key); err != nil {
				s.logger.Warn("Failed to delete image object", zap.String("key", key), zap.Error(err))
			}
		}
	}

	response := ToProductResponse(product)
	return &response, nil
}

// =============================================================================
// helpers
// =============================================================================

func newVariant(productID uuid.UUID, req CreateVariantRequest) (*catalog.ProductVariant, error) {
	variant, err := catalog.NewProductVariant(productID, req.SKU, req.Size, req.Color, req.Stock)
	if err != nil {
		return nil, err
	}
	if req.Price != nil {
		if err := variant.SetPrice(req.Price); err != nil {
			return nil, err
		}
	}
	return variant, nil
}

func (s *ProductService) loadVariant(ctx context.Context, productID, variantID uuid.UUID) (*catalog.Product, *catalog.ProductVariant, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	variant, err := s.variantRepo.FindByID(ctx, variantID)
	if err != nil {
		return nil, nil, err
	}
	if variant.ProductID != product.ID {
		return nil, nil, shared.ErrNotFound
	}
	return product, variant, nil
}

func (s *ProductService) ensureSlugFree(ctx context.Context, slug string, self uuid.UUID) error {
	if self != uuid.Nil {
		existing, err := s.productRepo.FindBySlug(ctx, slug)
		if err == nil && existing.ID == self {
			return nil
		}
	}
	exists, err := s.productRepo.ExistsBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Product slug %q is already used", slug))
	}
	return nil
}

func (s *ProductService) ensureSKUFree(ctx context.Context, sku string) error {
	exists, err := s.variantRepo.ExistsBySKU(ctx, sku)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("SKU %s already exists", sku))
	}
	return nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, cache.NSProducts, cache.NSLegacy, cache.NSDashboard)
}

func listParams(f shared.Filter) map[string]string {
	params := map[string]string{
		"page":      strconv.Itoa(f.Page),
		"page_size": strconv.Itoa(f.PageSize),
		"order_by":  f.OrderBy,
		"order_dir": f.OrderDir,
		"search":    f.Search,
	}
	for k, v := range f.Filters {
		params[k] = fmt.Sprint(v)
	}
	return params
}
