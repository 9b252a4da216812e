package entity

import (
	"time"

	"github.com/eazyque/eazyque-api/pkg/gst"
	"github.com/eazyque/eazyque-api/pkg/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a catalog item of a shop
type Product struct {
	ID                uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ShopID            uuid.UUID      `gorm:"type:uuid;not null;index" json:"shop_id"`
	Name              string         `gorm:"size:255;not null" json:"name"`
	HSNCode           string         `gorm:"size:8;not null;column:hsn_code" json:"hsn_code"`
	Category          string         `gorm:"size:100;index" json:"category"`
	UnitOfMeasurement string         `gorm:"size:20;default:'pcs'" json:"unit_of_measurement"`
	BasePrice         money.Money    `gorm:"type:bigint;not null" json:"base_price"`    // paise, tax exclusive
	SellingPrice      money.Money    `gorm:"type:bigint;not null" json:"selling_price"` // paise
	GSTRate           gst.Rate       `gorm:"not null;default:0" json:"gst_rate"`
	IsActive          bool           `gorm:"not null" json:"is_active"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Inventory []Inventory `gorm:"foreignKey:ProductID" json:"inventory,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// Sellable reports whether the product can appear on a new order
func (p *Product) Sellable() bool {
	return p != nil && p.IsActive && !p.DeletedAt.Valid
}
