package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfilment status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusPaid || target == OrderStatusCancelled
	case OrderStatusPaid:
		return target == OrderStatusProcessing || target == OrderStatusRefunded || target == OrderStatusCancelled
	case OrderStatusProcessing:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered:
		return target == OrderStatusRefunded
	case OrderStatusCancelled, OrderStatusRefunded:
		return false // Terminal states
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusRefunded
}

// CountsAsRevenue reports whether orders in this status contribute to sales figures
func (s OrderStatus) CountsAsRevenue() bool {
	switch s {
	case OrderStatusPaid, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}

// RevenueStatuses lists the statuses counted by sales analytics
func RevenueStatuses() []string {
	return []string{
		string(OrderStatusPaid),
		string(OrderStatusProcessing),
		string(OrderStatusShipped),
		string(OrderStatusDelivered),
	}
}

// ShippingAddress is the delivery address captured on the order
type ShippingAddress struct {
	Name       string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// Order is a customer purchase with its line items
type Order struct {
	shared.BaseEntity
	OrderNumber     string
	CustomerID      uuid.UUID
	Status          OrderStatus
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Shipping        decimal.Decimal
	Total           decimal.Decimal
	Currency        string
	PaymentIntentID string
	ShippingAddress ShippingAddress
	Notes           string
	CancelReason    string
	Items           []OrderItem
	PaidAt          *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
}

// NewOrder creates a pending order without items
func NewOrder(orderNumber string, customerID uuid.UUID, currency string) (*Order, error) {
	if strings.TrimSpace(orderNumber) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "USD"
	}
	if len(currency) != 3 {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO code")
	}

	return &Order{
		BaseEntity:  shared.NewBaseEntity(),
		OrderNumber: orderNumber,
		CustomerID:  customerID,
		Status:      OrderStatusPending,
		Subtotal:    decimal.Zero,
		Tax:         decimal.Zero,
		Shipping:    decimal.Zero,
		Total:       decimal.Zero,
		Currency:    currency,
		Items:       make([]OrderItem, 0),
	}, nil
}

// AddItem adds a line for a variant, merging with an existing line for the same variant
func (o *Order) AddItem(line LineInput) (*OrderItem, error) {
	if o.Status != OrderStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot add items to order in %s status", o.Status))
	}

	for i := range o.Items {
		if o.Items[i].VariantID == line.VariantID {
			if err := o.Items[i].SetQuantity(o.Items[i].Quantity + line.Quantity); err != nil {
				return nil, err
			}
			return &o.Items[i], nil
		}
	}

	item, err := NewOrderItem(o.ID, line)
	if err != nil {
		return nil, err
	}
	o.Items = append(o.Items, *item)
	return &o.Items[len(o.Items)-1], nil
}

// ApplyPricing recomputes subtotal, tax, shipping and total from the items
func (o *Order) ApplyPricing(p Pricing) {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.LineTotal)
	}
	o.Subtotal = subtotal
	o.Tax = p.TaxFor(subtotal)
	o.Shipping = p.ShippingFor(subtotal)
	o.Total = o.Subtotal.Add(o.Tax).Add(o.Shipping)
	o.Touch()
}

// Validate checks the order is complete enough to be persisted
func (o *Order) Validate() error {
	if len(o.Items) == 0 {
		return shared.NewDomainError("INVALID_ITEMS", "Order must contain at least one item")
	}
	return nil
}

// TransitionTo moves the order to the target status and stamps the matching timestamp
func (o *Order) TransitionTo(target OrderStatus, reason string) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}

	now := time.Now().UTC()
	switch target {
	case OrderStatusPaid:
		o.PaidAt = &now
	case OrderStatusShipped:
		o.ShippedAt = &now
	case OrderStatusDelivered:
		o.DeliveredAt = &now
	case OrderStatusCancelled:
		o.CancelledAt = &now
		o.CancelReason = strings.TrimSpace(reason)
	}
	o.Status = target
	o.UpdatedAt = now
	return nil
}

// ReleasesStock reports whether moving to target returns reserved stock to the shelf
func (o *Order) ReleasesStock(target OrderStatus) bool {
	return target == OrderStatusCancelled && o.Status.CanTransitionTo(OrderStatusCancelled)
}

// SetPaymentIntent records the payment provider's intent id
func (o *Order) SetPaymentIntent(id string) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Payment can only be started for pending orders")
	}
	o.PaymentIntentID = id
	o.Touch()
	return nil
}

// SetShippingAddress replaces the delivery address
func (o *Order) SetShippingAddress(addr ShippingAddress) {
	o.ShippingAddress = addr
	o.Touch()
}

// SetNotes replaces the order notes
func (o *Order) SetNotes(notes string) {
	o.Notes = notes
	o.Touch()
}

// CanModify reports whether details like notes and address may still change
func (o *Order) CanModify() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusPaid || o.Status == OrderStatusProcessing
}

// TotalQuantity sums item quantities
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// AmountInMinorUnits returns the total in cents for payment providers
func (o *Order) AmountInMinorUnits() int64 {
	return o.Total.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// NewOrderNumber builds a human-readable order number such as MW-20260101-3F9A2C
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("MW-%s-%s", now.UTC().Format("20060102"), suffix)
}
