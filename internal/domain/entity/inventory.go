package entity

import (
	"time"

	"github.com/eazyque/eazyque-api/internal/domain/enum"
	"github.com/eazyque/eazyque-api/pkg/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Inventory is a stock row for a product in a shop. A product may have
// several rows when stock is tracked per batch.
type Inventory struct {
	ID            uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	ProductID     uuid.UUID   `gorm:"type:uuid;not null;index:idx_inventory_product_shop" json:"product_id"`
	ShopID        uuid.UUID   `gorm:"type:uuid;not null;index:idx_inventory_product_shop" json:"shop_id"`
	Quantity      int         `gorm:"not null;default:0;check:chk_inventory_quantity,quantity >= 0" json:"quantity"`
	MinStockLevel int         `gorm:"not null;default:10" json:"min_stock_level"`
	MaxStockLevel int         `gorm:"not null;default:1000" json:"max_stock_level"`
	CostPrice     money.Money `gorm:"type:bigint;default:0" json:"cost_price"`
	BatchNumber   *string     `gorm:"size:100" json:"batch_number,omitempty"`
	ExpiryDate    *time.Time  `gorm:"type:date" json:"expiry_date,omitempty"`
	LastUpdated   time.Time   `json:"last_updated"`
	CreatedAt     time.Time   `json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new inventory row
func (i *Inventory) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Inventory model
func (Inventory) TableName() string {
	return "inventory"
}

// IsLowStock reports whether quantity is at or below the reorder level
func (i *Inventory) IsLowStock() bool {
	return i.Quantity <= i.MinStockLevel
}

// InventoryAudit is an append-only record of one quantity change.
type InventoryAudit struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	ShopID      uuid.UUID        `gorm:"type:uuid;not null;index:idx_audit_shop_created" json:"shop_id"`
	ProductID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"product_id"`
	InventoryID *uuid.UUID       `gorm:"type:uuid" json:"inventory_id,omitempty"`
	OldQuantity int              `gorm:"not null" json:"old_quantity"`
	NewQuantity int              `gorm:"not null" json:"new_quantity"`
	Delta       int              `gorm:"not null" json:"delta"`
	Reason      enum.AuditReason `gorm:"size:20;not null;index" json:"reason"`
	ReferenceID *uuid.UUID       `gorm:"type:uuid;index" json:"reference_id,omitempty"` // order for SALE and CANCELLATION
	ActorID     *uuid.UUID       `gorm:"type:uuid" json:"actor_id,omitempty"`
	Note        *string          `gorm:"type:text" json:"note,omitempty"`
	CreatedAt   time.Time        `gorm:"index:idx_audit_shop_created" json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new audit row
func (a *InventoryAudit) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InventoryAudit model
func (InventoryAudit) TableName() string {
	return "inventory_audits"
}
