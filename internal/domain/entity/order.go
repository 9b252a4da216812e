package entity

import (
	"time"

	"github.com/eazyque/eazyque-api/internal/domain/enum"
	"github.com/eazyque/eazyque-api/pkg/gst"
	"github.com/eazyque/eazyque-api/pkg/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order represents a sale. Items and tax lines are written with it and never change.
type Order struct {
	ID              uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	OrderNumber     string             `gorm:"size:40;uniqueIndex;not null" json:"order_number"`
	ShopID          uuid.UUID          `gorm:"type:uuid;not null;index:idx_orders_shop_created" json:"shop_id"`
	CashierID       *uuid.UUID         `gorm:"type:uuid;index" json:"cashier_id,omitempty"`
	CustomerID      *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CustomerName    string             `gorm:"size:255;not null" json:"customer_name"`
	CustomerPhone   *string            `gorm:"size:20" json:"customer_phone,omitempty"`
	PlaceOfSupply   string             `gorm:"size:100" json:"place_of_supply"`
	SupplyType      gst.SupplyType     `gorm:"size:20" json:"supply_type"`
	Subtotal        money.Money        `gorm:"type:bigint;not null" json:"subtotal"`
	TaxAmount       money.Money        `gorm:"type:bigint;not null" json:"tax_amount"`
	DiscountAmount  money.Money        `gorm:"type:bigint;not null;default:0" json:"discount_amount"`
	TotalAmount     money.Money        `gorm:"type:bigint;not null" json:"total_amount"`
	Status          enum.OrderStatus   `gorm:"size:20;not null;index" json:"status"`
	PaymentMethod   enum.PaymentMethod `gorm:"size:20;not null" json:"payment_method"`
	PaymentStatus   enum.PaymentStatus `gorm:"size:20;not null" json:"payment_status"`
	LoyaltyPoints   int                `gorm:"not null;default:0" json:"loyalty_points"` // points credited at creation
	IsDelivery      bool               `gorm:"default:false" json:"is_delivery"`
	DeliveryAddress *string            `gorm:"type:text" json:"delivery_address,omitempty"`
	Notes           *string            `gorm:"type:text" json:"notes,omitempty"`
	CancelledAt     *time.Time         `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time          `gorm:"index:idx_orders_shop_created" json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`

	Items    []OrderItem    `gorm:"foreignKey:OrderID" json:"items"`
	TaxLines []OrderTaxLine `gorm:"foreignKey:OrderID" json:"tax_lines"`
	Customer *Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Cashier  *User          `gorm:"foreignKey:CashierID" json:"cashier,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// TotalsBalance checks totalAmount == subtotal − discountAmount + taxAmount.
func (o *Order) TotalsBalance() bool {
	return o.TotalAmount == o.Subtotal-o.DiscountAmount+o.TaxAmount
}

// OrderItem is a line of an order with product details snapshotted at sale time
type OrderItem struct {
	ID             uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	OrderID        uuid.UUID   `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID      uuid.UUID   `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName    string      `gorm:"size:255;not null" json:"product_name"`
	HSNCode        string      `gorm:"size:8;column:hsn_code" json:"hsn_code"`
	GSTRate        gst.Rate    `gorm:"not null" json:"gst_rate"`
	Quantity       int         `gorm:"not null;check:chk_order_items_quantity,quantity > 0" json:"quantity"`
	UnitPrice      money.Money `gorm:"type:bigint;not null" json:"unit_price"`
	DiscountAmount money.Money `gorm:"type:bigint;not null;default:0" json:"discount_amount"`
	TaxAmount      money.Money `gorm:"type:bigint;not null" json:"tax_amount"`
	TotalPrice     money.Money `gorm:"type:bigint;not null" json:"total_price"`
	CreatedAt      time.Time   `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new order item
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// LineNet is quantity × unit price less the item discount
func (i *OrderItem) LineNet() money.Money {
	return i.UnitPrice.Mul(i.Quantity) - i.DiscountAmount
}

// OrderTaxLine is one row of an order's GST breakdown, grouped by kind and rate.
type OrderTaxLine struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	Kind          gst.Kind        `gorm:"size:10;not null" json:"kind"`
	Rate          decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"rate"`
	TaxableAmount money.Money     `gorm:"type:bigint;not null" json:"taxable_amount"`
	Amount        money.Money     `gorm:"type:bigint;not null" json:"amount"`
}

// BeforeCreate generates a UUID before creating a new tax line
func (l *OrderTaxLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderTaxLine model
func (OrderTaxLine) TableName() string {
	return "order_tax_lines"
}
