package repository

import (
	"context"
	"errors"
	"time"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	"github.com/eazyque/eazyque-api/internal/domain/enum"
	"github.com/eazyque/eazyque-api/pkg/money"
	"github.com/google/uuid"
)

// ErrTxDone is returned when a finished transaction is used again
var ErrTxDone = errors.New("transaction already committed or rolled back")

// ErrDuplicateKey is returned when a write violates a unique constraint
var ErrDuplicateKey = errors.New("duplicate key")

// Reader is the read side shared by Store and Tx.
type Reader interface {
	// FindProductByIDAndShop returns nil, nil when the product is not in the shop.
	FindProductByIDAndShop(ctx context.Context, id, shopID uuid.UUID) (*entity.Product, error)
	// SumInventoryQuantity totals quantity over every inventory row of the product.
	SumInventoryQuantity(ctx context.Context, productID, shopID uuid.UUID) (int, error)
}

// Store is the transactional store used by order processing and inventory adjustment.
type Store interface {
	Reader
	FindShop(ctx context.Context, id uuid.UUID) (*entity.Shop, error)
	// Begin opens a transaction. Callers must defer Rollback; it is a no-op after Commit.
	Begin(ctx context.Context) (Tx, error)
}

// OrderStatusUpdate is the set of columns changed by a status transition
type OrderStatusUpdate struct {
	Status        enum.OrderStatus
	PaymentStatus *enum.PaymentStatus
	CancelledAt   *time.Time
}

// StockLevels are the reorder thresholds of a newly created stock row
type StockLevels struct {
	Min int
	Max int
}

// Tx is an open transaction. Nothing written through it is visible to
// others until Commit.
type Tx interface {
	Reader

	// ConditionalDecrementInventory removes amount units across the product's
	// rows, earliest expiry first. It returns 0 and changes nothing when the
	// rows hold fewer than amount units.
	ConditionalDecrementInventory(ctx context.Context, productID, shopID uuid.UUID, amount int) (int64, error)
	// IncrementInventory puts units back, creating a row with the given
	// levels when none exists.
	IncrementInventory(ctx context.Context, productID, shopID uuid.UUID, amount int, levels StockLevels) error

	// FindInventoryForUpdate locks and returns the row for the product, or the
	// batch row when batchNumber is set. nil, nil when absent.
	FindInventoryForUpdate(ctx context.Context, productID, shopID uuid.UUID, batchNumber *string) (*entity.Inventory, error)
	CreateInventory(ctx context.Context, inv *entity.Inventory) error
	UpdateInventory(ctx context.Context, inv *entity.Inventory) error
	AppendInventoryAudit(ctx context.Context, audit *entity.InventoryAudit) error

	// CreateOrderWithItems writes the order with its items and tax lines.
	CreateOrderWithItems(ctx context.Context, order *entity.Order) error
	// GetOrderForUpdate locks the order row and loads its items.
	GetOrderForUpdate(ctx context.Context, shopID, id uuid.UUID) (*entity.Order, error)
	// UpdateOrderStatus applies the update only while the order is still in
	// status from, and reports the rows changed.
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, from enum.OrderStatus, update OrderStatusUpdate) (int64, error)

	GetCustomer(ctx context.Context, shopID, id uuid.UUID) (*entity.Customer, error)
	// IncrementCustomerLoyalty adds the deltas; results are clamped at zero.
	IncrementCustomerLoyalty(ctx context.Context, customerID uuid.UUID, pointsDelta int, spentDelta money.Money) error

	Commit() error
	Rollback() error
}
