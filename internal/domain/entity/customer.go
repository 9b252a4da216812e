package entity

import (
	"time"

	"github.com/eazyque/eazyque-api/pkg/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a loyalty customer of a shop
type Customer struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ShopID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_customers_shop_phone" json:"shop_id"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Phone         string         `gorm:"size:20;not null;uniqueIndex:idx_customers_shop_phone" json:"phone"` // E.164
	Email         *string        `gorm:"size:255" json:"email,omitempty"`
	Address       *string        `gorm:"type:text" json:"address,omitempty"`
	LoyaltyPoints int            `gorm:"not null;default:0;check:chk_customers_loyalty,loyalty_points >= 0" json:"loyalty_points"`
	TotalSpent    money.Money    `gorm:"type:bigint;not null;default:0" json:"total_spent"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
