package trade

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/partner"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/menswear/backend/internal/domain/trade"
	"github.com/menswear/backend/internal/infrastructure/cache"
	"github.com/menswear/backend/internal/infrastructure/sanitize"
	"go.uber.org/zap"
)

// OrderServiceConfig holds store-wide order settings
type OrderServiceConfig struct {
	Currency string
	Pricing  trade.Pricing
}

// OrderService places orders, drives their lifecycle and hands payment to the gateway
type OrderService struct {
	scope        TransactionScope
	orderRepo    trade.OrderRepository
	customerRepo partner.CustomerRepository
	gateway      PaymentGateway
	cache        *cache.Service
	config       OrderServiceConfig
	logger       *zap.Logger
	now          func() time.Time
}

// NewOrderService creates a new OrderService. gateway may be nil when
// payments are not configured.
func NewOrderService(
	scope TransactionScope,
	orderRepo trade.OrderRepository,
	customerRepo partner.CustomerRepository,
	gateway PaymentGateway,
	cacheService *cache.Service,
	config OrderServiceConfig,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		scope:        scope,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		gateway:      gateway,
		cache:        cacheService,
		config:       config,
		logger:       logger,
		now:          time.Now,
	}
}

// Create places an order. Each variant's stock is decremented with a
// conditional update in the same transaction as the order insert, so an
// oversold variant rolls the whole order back with INSUFFICIENT_STOCK.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	if _, err := s.customerRepo.FindByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer does not exist")
		}
		return nil, err
	}

	order, err := trade.NewOrder(trade.NewOrderNumber(s.now()), req.CustomerID, s.config.Currency)
	if err != nil {
		return nil, err
	}
	if req.ShippingAddress != nil {
		order.SetShippingAddress(trade.ShippingAddress(*req.ShippingAddress))
	}
	if req.Notes != "" {
		order.SetNotes(sanitize.Text(req.Notes))
	}

	quantities := mergeQuantities(req.Items)
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, line := range quantities {
			variant, err := repos.VariantRepo().FindByID(ctx, line.VariantID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewDomainError("INVALID_ITEM", fmt.Sprintf("Variant %s does not exist", line.VariantID))
				}
				return err
			}
			product, err := repos.ProductRepo().FindByID(ctx, variant.ProductID)
			if err != nil {
				return err
			}
			if !product.IsPurchasable() {
				return shared.NewDomainError("INVALID_ITEM", fmt.Sprintf("%s is not available for purchase", product.Name))
			}

			if _, err := repos.VariantRepo().AdjustStock(ctx, variant.ID, -line.Quantity); err != nil {
				if errors.Is(err, shared.ErrInsufficientStock) {
					return shared.NewDomainError("INSUFFICIENT_STOCK",
						fmt.Sprintf("Only %d of %s left in stock", variant.Stock, variant.SKU))
				}
				return err
			}

			if _, err := order.AddItem(trade.LineInput{
				ProductID: product.ID,
				VariantID: variant.ID,
				SKU:       variant.SKU,
				Name:      product.Name,
				Size:      variant.Size,
				Color:     variant.Color,
				Quantity:  line.Quantity,
				UnitPrice: variant.EffectivePrice(product.BasePrice),
			}); err != nil {
				return err
			}
		}

		order.ApplyPricing(s.config.Pricing)
		if err := order.Validate(); err != nil {
			return err
		}
		return repos.OrderRepo().Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("total", order.Total.StringFixed(2)),
		zap.Int("items", len(order.Items)),
	)

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order with its items
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves a page of orders
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.CustomerID != "" {
		id, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_CUSTOMER", "customer_id must be a UUID")
		}
		domainFilter.Filters["customer_id"] = id
	}
	if err := addDateFilters(domainFilter.Filters, filter.From, filter.To); err != nil {
		return nil, 0, err
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToOrderResponses(orders), total, nil
}

// ListByCustomer retrieves a customer's order history
func (s *OrderService) ListByCustomer(ctx context.Context, customerID uuid.UUID, page, pageSize int) ([]OrderResponse, int64, error) {
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return nil, 0, err
	}
	filter := shared.NewFilter(page, pageSize, "", "", "")
	orders, err := s.orderRepo.FindByCustomer(ctx, customerID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.CountByCustomer(ctx, customerID)
	if err != nil {
		return nil, 0, err
	}
	return ToOrderResponses(orders), total, nil
}

// Update changes notes or shipping address while the order is still open
func (s *OrderService) Update(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.CanModify() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Order in %s status can no longer be edited", order.Status))
	}
	if req.ShippingAddress != nil {
		order.SetShippingAddress(trade.ShippingAddress(*req.ShippingAddress))
	}
	if req.Notes != nil {
		order.SetNotes(sanitize.Text(*req.Notes))
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.NSOrders)

	response := ToOrderResponse(order)
	return &response, nil
}

// UpdateStatus moves an order to a new status. Cancelling returns every
// line's quantity to stock in the same transaction.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	var order *trade.Order
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		return s.transition(ctx, repos, order, trade.OrderStatus(req.Status), sanitize.Text(req.Reason))
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	response := ToOrderResponse(order)
	return &response, nil
}

// Delete soft-deletes an order. Only pending or cancelled orders may be
// deleted; a pending order's stock is released first.
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		switch order.Status {
		case trade.OrderStatusPending:
			if err := s.restoreStock(ctx, repos, order); err != nil {
				return err
			}
		case trade.OrderStatusCancelled:
		default:
			return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Order in %s status cannot be deleted", order.Status))
		}
		return repos.OrderRepo().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// CreatePaymentIntent starts payment for a pending order. Calling it again
// returns the existing intent.
func (s *OrderService) CreatePaymentIntent(ctx context.Context, id uuid.UUID) (*PaymentIntentResponse, error) {
	if s.gateway == nil {
		return nil, shared.NewDomainError("PAYMENTS_DISABLED", "Payments are not configured")
	}
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != trade.OrderStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Payment can only be started for pending orders")
	}

	if order.PaymentIntentID != "" {
		intent, err := s.gateway.GetPaymentIntent(ctx, order.PaymentIntentID)
		if err != nil {
			return nil, err
		}
		return toPaymentIntentResponse(order.ID, intent), nil
	}

	input := PaymentIntentInput{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		AmountMinor: order.AmountInMinorUnits(),
		Currency:    order.Currency,
	}
	if customer, err := s.customerRepo.FindByID(ctx, order.CustomerID); err == nil {
		input.CustomerEmail = customer.Email
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := order.SetPaymentIntent(intent.ID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.NSOrders)

	return toPaymentIntentResponse(order.ID, intent), nil
}

// HandlePaymentWebhook verifies a provider webhook and marks the order
// paid on success. Redelivered events are harmless.
func (s *OrderService) HandlePaymentWebhook(ctx context.Context, payload []byte, signature string) (*PaymentEvent, error) {
	if s.gateway == nil {
		return nil, shared.NewDomainError("PAYMENTS_DISABLED", "Payments are not configured")
	}
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_WEBHOOK", err.Error())
	}

	log := s.logger.With(
		zap.String("event_id", event.EventID),
		zap.String("kind", string(event.Kind)),
		zap.String("payment_intent_id", event.PaymentIntentID),
	)

	switch event.Kind {
	case PaymentEventSucceeded:
	case PaymentEventFailed, PaymentEventCanceled:
		log.Warn("Payment did not complete")
		return event, nil
	default:
		return event, nil
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := s.findPaymentOrder(ctx, repos.OrderRepo(), event)
		if err != nil {
			return err
		}
		if order.Status != trade.OrderStatusPending {
			log.Info("Order already settled", zap.String("order_status", string(order.Status)))
			return nil
		}
		if event.AmountMinor != 0 && event.AmountMinor != order.AmountInMinorUnits() {
			log.Error("Payment amount does not match order total",
				zap.Int64("paid", event.AmountMinor),
				zap.Int64("expected", order.AmountInMinorUnits()))
			return shared.NewDomainError("CONFLICT", "Payment amount does not match order total")
		}
		if err := order.TransitionTo(trade.OrderStatusPaid, ""); err != nil {
			return err
		}
		if order.PaymentIntentID == "" {
			order.PaymentIntentID = event.PaymentIntentID
		}
		if err := repos.OrderRepo().Update(ctx, order); err != nil {
			return err
		}
		log.Info("Order paid", zap.String("order_number", order.OrderNumber))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return event, nil
}

func (s *OrderService) findPaymentOrder(ctx context.Context, repo trade.OrderRepository, event *PaymentEvent) (*trade.Order, error) {
	order, err := repo.FindByPaymentIntent(ctx, event.PaymentIntentID)
	if err == nil || !errors.Is(err, shared.ErrNotFound) || event.OrderID == "" {
		return order, err
	}
	id, parseErr := uuid.Parse(event.OrderID)
	if parseErr != nil {
		return nil, shared.ErrNotFound
	}
	return repo.FindByID(ctx, id)
}

func (s *OrderService) transition(ctx context.Context, repos TransactionalRepositories, order *trade.Order, target trade.OrderStatus, reason string) error {
	releases := order.ReleasesStock(target)
	if err := order.TransitionTo(target, reason); err != nil {
		return err
	}
	if releases {
		if err := s.restoreStock(ctx, repos, order); err != nil {
			return err
		}
	}
	if err := repos.OrderRepo().Update(ctx, order); err != nil {
		return err
	}
	s.logger.Info("Order status changed",
		zap.String("order_number", order.OrderNumber),
		zap.String("status", string(target)),
		zap.Bool("stock_released", releases),
	)
	return nil
}

func (s *OrderService) restoreStock(ctx context.Context, repos TransactionalRepositories, order *trade.Order) error {
	for _, item := range order.Items {
		if _, err := repos.VariantRepo().AdjustStock(ctx, item.VariantID, item.Quantity); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				s.logger.Warn("Variant gone, stock not restored",
					zap.String("variant_id", item.VariantID.String()),
					zap.Int("quantity", item.Quantity))
				continue
			}
			return err
		}
	}
	return nil
}

func (s *OrderService) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, cache.NSOrders, cache.NSProducts, cache.NSLegacy, cache.NSDashboard)
}

func toPaymentIntentResponse(orderID uuid.UUID, intent *PaymentIntent) *PaymentIntentResponse {
	return &PaymentIntentResponse{
		OrderID:         orderID,
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Status:          intent.Status,
		Amount:          intent.AmountMinor,
		Currency:        intent.Currency,
	}
}

// mergeQuantities sums quantities per variant in a stable order so
// concurrent orders lock variant rows in the same sequence
func mergeQuantities(items []OrderItemRequest) []OrderItemRequest {
	totals := make(map[uuid.UUID]int, len(items))
	for _, item := range items {
		totals[item.VariantID] += item.Quantity
	}
	merged := make([]OrderItemRequest, 0, len(totals))
	for id, qty := range totals {
		merged = append(merged, OrderItemRequest{VariantID: id, Quantity: qty})
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].VariantID.String() < merged[j].VariantID.String()
	})
	return merged
}

func addDateFilters(filters map[string]any, from, to string) error {
	if from != "" {
		t, err := time.Parse(time.DateOnly, from)
		if err != nil {
			return shared.NewDomainError("INVALID_DATE", "from must be YYYY-MM-DD")
		}
		filters["from"] = t
	}
	if to != "" {
		t, err := time.Parse(time.DateOnly, to)
		if err != nil {
			return shared.NewDomainError("INVALID_DATE", "to must be YYYY-MM-DD")
		}
		filters["to"] = t.AddDate(0, 0, 1)
	}
	return nil
}
