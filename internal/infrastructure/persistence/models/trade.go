package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/menswear/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order domain entity.
type OrderModel struct {
	SoftDeleteModel
	OrderNumber     string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	Status          trade.OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Subtotal        decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0"`
	Tax             decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0"`
	Shipping        decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0"`
	Total           decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0"`
	Currency        string            `gorm:"type:varchar(3);not null;default:'USD'"`
	PaymentIntentID string            `gorm:"type:varchar(100);index"`
	ShipName        string            `gorm:"type:varchar(200)"`
	ShipLine1       string            `gorm:"type:varchar(255)"`
	ShipLine2       string            `gorm:"type:varchar(255)"`
	ShipCity        string            `gorm:"type:varchar(100)"`
	ShipState       string            `gorm:"type:varchar(100)"`
	ShipPostalCode  string            `gorm:"type:varchar(20)"`
	ShipCountry     string            `gorm:"type:varchar(100)"`
	Notes           string            `gorm:"type:text"`
	CancelReason    string            `gorm:"type:varchar(500)"`
	PaidAt          *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	Items           []OrderItemModel `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *trade.Order {
	o := &trade.Order{
		BaseEntity:      shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		OrderNumber:     m.OrderNumber,
		CustomerID:      m.CustomerID,
		Status:          m.Status,
		Subtotal:        m.Subtotal,
		Tax:             m.Tax,
		Shipping:        m.Shipping,
		Total:           m.Total,
		Currency:        m.Currency,
		PaymentIntentID: m.PaymentIntentID,
		ShippingAddress: trade.ShippingAddress{
			Name:       m.ShipName,
			Line1:      m.ShipLine1,
			Line2:      m.ShipLine2,
			City:       m.ShipCity,
			State:      m.ShipState,
			PostalCode: m.ShipPostalCode,
			Country:    m.ShipCountry,
		},
		Notes:        m.Notes,
		CancelReason: m.CancelReason,
		PaidAt:       m.PaidAt,
		ShippedAt:    m.ShippedAt,
		DeliveredAt:  m.DeliveredAt,
		CancelledAt:  m.CancelledAt,
		Items:        make([]trade.OrderItem, 0, len(m.Items)),
	}
	for _, item := range m.Items {
		o.Items = append(o.Items, item.ToDomain())
	}
	return o
}

// OrderModelFromDomain creates a persistence model. Items are included only when withItems is set.
func OrderModelFromDomain(o *trade.Order, withItems bool) *OrderModel {
	m := &OrderModel{
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		Status:          o.Status,
		Subtotal:        o.Subtotal,
		Tax:             o.Tax,
		Shipping:        o.Shipping,
		Total:           o.Total,
		Currency:        o.Currency,
		PaymentIntentID: o.PaymentIntentID,
		ShipName:        o.ShippingAddress.Name,
		ShipLine1:       o.ShippingAddress.Line1,
		ShipLine2:       o.ShippingAddress.Line2,
		ShipCity:        o.ShippingAddress.City,
		ShipState:       o.ShippingAddress.State,
		ShipPostalCode:  o.ShippingAddress.PostalCode,
		ShipCountry:     o.ShippingAddress.Country,
		Notes:           o.Notes,
		CancelReason:    o.CancelReason,
		PaidAt:          o.PaidAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
	}
	m.FromDomainBaseEntity(o.BaseEntity)
	if withItems {
		m.Items = make([]OrderItemModel, 0, len(o.Items))
		for _, item := range o.Items {
			m.Items = append(m.Items, OrderItemModelFromDomain(item, o.CreatedAt))
		}
	}
	return m
}

// OrderItemModel is the persistence model for an order line
type OrderItemModel struct {
	BaseModel
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariantID uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU       string          `gorm:"column:sku;type:varchar(64);not null"`
	Name      string          `gorm:"type:varchar(200);not null"`
	Size      string          `gorm:"type:varchar(20)"`
	Color     string          `gorm:"type:varchar(50)"`
	Quantity  int             `gorm:"not null;check:chk_order_items_quantity,quantity > 0"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem
func (m OrderItemModel) ToDomain() trade.OrderItem {
	return trade.OrderItem{
		ID:        m.ID,
		OrderID:   m.OrderID,
		ProductID: m.ProductID,
		VariantID: m.VariantID,
		SKU:       m.SKU,
		Name:      m.Name,
		Size:      m.Size,
		Color:     m.Color,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
		LineTotal: m.LineTotal,
	}
}

// OrderItemModelFromDomain creates a persistence model for an order line
func OrderItemModelFromDomain(i trade.OrderItem, createdAt time.Time) OrderItemModel {
	return OrderItemModel{
		BaseModel: BaseModel{ID: i.ID, CreatedAt: createdAt, UpdatedAt: createdAt},
		OrderID:   i.OrderID,
		ProductID: i.ProductID,
		VariantID: i.VariantID,
		SKU:       i.SKU,
		Name:      i.Name,
		Size:      i.Size,
		Color:     i.Color,
		Quantity:  i.Quantity,
		UnitPrice: i.UnitPrice,
		LineTotal: i.LineTotal,
	}
}
