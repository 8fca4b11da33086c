package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for order headers
type OrderModel struct {
	AggregateModel
	CustomerID        uuid.UUID           `gorm:"type:uuid;not null;index"`
	ShippingAddressID uuid.UUID           `gorm:"type:uuid;not null"`
	CouponID          *uuid.UUID          `gorm:"type:uuid"`
	OrderDate         time.Time           `gorm:"not null;index"`
	TotalAmount       decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	Status            trade.OrderStatus   `gorm:"type:varchar(20);not null;default:'Processing';index"`
	PaymentMethod     trade.PaymentMethod `gorm:"type:varchar(30);not null"`
	Notes             string              `gorm:"type:varchar(500)"`
	Details           []OrderDetailModel  `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
// Details are converted when they were preloaded.
func (m *OrderModel) ToDomain() *trade.Order {
	o := &trade.Order{
		BaseAggregateRoot: m.Aggregate(),
		CustomerID:        m.CustomerID,
		ShippingAddressID: m.ShippingAddressID,
		CouponID:          m.CouponID,
		OrderDate:         m.OrderDate,
		TotalAmount:       m.TotalAmount,
		Status:            m.Status,
		PaymentMethod:     m.PaymentMethod,
		Notes:             m.Notes,
		Details:           make([]trade.OrderDetail, 0, len(m.Details)),
	}
	for i := range m.Details {
		o.Details = append(o.Details, *m.Details[i].ToDomain())
	}
	return o
}

// FromDomain populates the persistence model from a domain Order, details included
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.SetAggregate(o.BaseAggregateRoot)
	m.CustomerID = o.CustomerID
	m.ShippingAddressID = o.ShippingAddressID
	m.CouponID = o.CouponID
	m.OrderDate = o.OrderDate
	m.TotalAmount = o.TotalAmount
	m.Status = o.Status
	m.PaymentMethod = o.PaymentMethod
	m.Notes = o.Notes
	m.Details = make([]OrderDetailModel, len(o.Details))
	for i := range o.Details {
		m.Details[i].FromDomain(&o.Details[i])
		m.Details[i].OrderID = o.ID
	}
}

// OrderDetailModel is the persistence model for order lines
type OrderDetailModel struct {
	BaseModel
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ColorID    *uuid.UUID      `gorm:"type:uuid"`
	Quantity   int             `gorm:"not null;default:1"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderDetailModel) TableName() string {
	return "order_details"
}

// ToDomain converts the persistence model to a domain OrderDetail
func (m *OrderDetailModel) ToDomain() *trade.OrderDetail {
	return &trade.OrderDetail{
		BaseEntity: m.Entity(),
		OrderID:    m.OrderID,
		ProductID:  m.ProductID,
		ColorID:    m.ColorID,
		Quantity:   m.Quantity,
		UnitPrice:  m.UnitPrice,
		TotalPrice: m.TotalPrice,
	}
}

// FromDomain populates the persistence model from a domain OrderDetail
func (m *OrderDetailModel) FromDomain(d *trade.OrderDetail) {
	m.SetEntity(d.BaseEntity)
	m.OrderID = d.OrderID
	m.ProductID = d.ProductID
	m.ColorID = d.ColorID
	m.Quantity = d.Quantity
	m.UnitPrice = d.UnitPrice
	m.TotalPrice = d.TotalPrice
}
