package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	"github.com/eazyque/eazyque-api/internal/domain/enum"
	domainRepo "github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/eazyque/eazyque-api/pkg/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// stockOrder drains the batch that expires first
const stockOrder = "expiry_date ASC NULLS LAST, created_at ASC, id ASC"

type store struct {
	db *gorm.DB
}

// NewStore creates the transactional store backed by PostgreSQL
func NewStore(db *gorm.DB) domainRepo.Store {
	return &store{db: db}
}

func (s *store) FindProductByIDAndShop(ctx context.Context, id, shopID uuid.UUID) (*entity.Product, error) {
	return findProduct(s.db.WithContext(ctx), id, shopID)
}

func (s *store) SumInventoryQuantity(ctx context.Context, productID, shopID uuid.UUID) (int, error) {
	return sumInventory(s.db.WithContext(ctx), productID, shopID)
}

func (s *store) FindShop(ctx context.Context, id uuid.UUID) (*entity.Shop, error) {
	var shop entity.Shop
	err := s.db.WithContext(ctx).First(&shop, "id = ?", id).Error
	return firstOrNil(&shop, err)
}

func (s *store) Begin(ctx context.Context) (domainRepo.Tx, error) {
	db := s.db.WithContext(ctx).Begin()
	if db.Error != nil {
		return nil, db.Error
	}
	return &tx{db: db}, nil
}

func findProduct(db *gorm.DB, id, shopID uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := db.Scopes(ShopScope(shopID)).First(&product, "id = ?", id).Error
	return firstOrNil(&product, err)
}

func sumInventory(db *gorm.DB, productID, shopID uuid.UUID) (int, error) {
	var total int
	err := db.Model(&entity.Inventory{}).
		Scopes(ShopScope(shopID)).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

// tx wraps a GORM transaction. Row locks are taken with SELECT ... FOR UPDATE.
type tx struct {
	db   *gorm.DB
	done bool
}

func (t *tx) FindProductByIDAndShop(_ context.Context, id, shopID uuid.UUID) (*entity.Product, error) {
	if t.done {
		return nil, domainRepo.ErrTxDone
	}
	return findProduct(t.db, id, shopID)
}

func (t *tx) SumInventoryQuantity(_ context.Context, productID, shopID uuid.UUID) (int, error) {
	if t.done {
		return 0, domainRepo.ErrTxDone
	}
	return sumInventory(t.db, productID, shopID)
}

// lockStock locks every stock row of the product in drain order
func (t *tx) lockStock(productID, shopID uuid.UUID) ([]entity.Inventory, error) {
	var rows []entity.Inventory
	err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(ShopScope(shopID)).
		Where("product_id = ?", productID).
		Order(stockOrder).
		Find(&rows).Error
	return rows, err
}

func (t *tx) ConditionalDecrementInventory(_ context.Context, productID, shopID uuid.UUID, amount int) (int64, error) {
	if t.done {
		return 0, domainRepo.ErrTxDone
	}
	if amount <= 0 {
		return 0, fmt.Errorf("decrement amount must be positive, got %d", amount)
	}
	rows, err := t.lockStock(productID, shopID)
	if err != nil {
		return 0, err
	}
	available := 0
	for _, r := range rows {
		available += r.Quantity
	}
	if available < amount {
		return 0, nil
	}

	var affected int64
	remaining := amount
	for _, r := range rows {
		if remaining == 0 {
			break
		}
		take := min(r.Quantity, remaining)
		if take == 0 {
			continue
		}
		// The guard repeats the stock check at row level
		result := t.db.Model(&entity.Inventory{}).
			Where("id = ? AND quantity >= ?", r.ID, take).
			Updates(map[string]any{
				"quantity":     gorm.Expr("quantity - ?", take),
				"last_updated": time.Now(),
			})
		if result.Error != nil {
			return 0, result.Error
		}
		if result.RowsAffected == 0 {
			return 0, fmt.Errorf("inventory row %s changed under lock", r.ID)
		}
		affected += result.RowsAffected
		remaining -= take
	}
	return affected, nil
}

func (t *tx) IncrementInventory(_ context.Context, productID, shopID uuid.UUID, amount int, levels domainRepo.StockLevels) error {
	if t.done {
		return domainRepo.ErrTxDone
	}
	rows, err := t.lockStock(productID, shopID)
	if err != nil {
		return err
	}
	now := time.Now()
	if len(rows) == 0 {
		return t.db.Create(&entity.Inventory{
			ProductID:     productID,
			ShopID:        shopID,
			Quantity:      amount,
			MinStockLevel: levels.Min,
			MaxStockLevel: levels.Max,
			LastUpdated:   now,
		}).Error
	}
	return t.db.Model(&entity.Inventory{}).
		Where("id = ?", rows[0].ID).
		Updates(map[string]any{
			"quantity":     gorm.Expr("quantity + ?", amount),
			"last_updated": now,
		}).Error
}

func (t *tx) FindInventoryForUpdate(_ context.Context, productID, shopID uuid.UUID, batchNumber *string) (*entity.Inventory, error) {
	if t.done {
		return nil, domainRepo.ErrTxDone
	}
	query := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(ShopScope(shopID)).
		Where("product_id = ?", productID)
	if batchNumber != nil {
		query = query.Where("batch_number = ?", *batchNumber)
	}
	var inv entity.Inventory
	err := query.Order(stockOrder).First(&inv).Error
	return firstOrNil(&inv, err)
}

func (t *tx) CreateInventory(_ context.Context, inv *entity.Inventory) error {
	if t.done {
		return domainRepo.ErrTxDone
	}
	return translate(t.db.Omit(clause.Associations).Create(inv).Error)
}

func (t *tx) UpdateInventory(_ context.Context, inv *entity.Inventory) error {
	if t.done {
		return domainRepo.ErrTxDone
	}
	return t.db.Model(inv).
		Select("quantity", "cost_price", "expiry_date", "last_updated").
		Updates(inv).Error
}

func (t *tx) AppendInventoryAudit(_ context.Context, audit *entity.InventoryAudit) error {
	if t.done {
		return domainRepo.ErrTxDone
	}
	return t.db.Create(audit).Error
}

func (t *tx) CreateOrderWithItems(_ context.Context, order *entity.Order) error {
	if t.done {
		return domainRepo.ErrTxDone
	}
	// Items and tax lines are created through the has-many associations
	err := t.db.Omit("Customer", "Cashier").Create(order).Error
	return translate(err)
}

func (t *tx) GetOrderForUpdate(_ context.Context, shopID, id uuid.UUID) (*entity.Order, error) {
	if t.done {
		return nil, domainRepo.ErrTxDone
	}
	var order entity.Order
	err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(ShopScope(shopID)).
		First(&order, "id = ?", id).Error
	if err != nil {
		return firstOrNil(&order, err)
	}
	if err := t.db.Where("order_id = ?", order.ID).Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (t *tx) UpdateOrderStatus(_ context.Context, id uuid.UUID, from enum.OrderStatus, update domainRepo.OrderStatusUpdate) (int64, error) {
	if t.done {
		return 0, domainRepo.ErrTxDone
	}
	values := map[string]any{
		"status":     update.Status,
		"updated_at": time.Now(),
	}
	if update.PaymentStatus != nil {
		values["payment_status"] = *update.PaymentStatus
	}
	if update.CancelledAt != nil {
		values["cancelled_at"] = *update.CancelledAt
	}
	result := t.db.Model(&entity.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(values)
	return result.RowsAffected, result.Error
}

func (t *tx) GetCustomer(_ context.Context, shopID, id uuid.UUID) (*entity.Customer, error) {
	if t.done {
		return nil, domainRepo.ErrTxDone
	}
	var customer entity.Customer
	err := t.db.Scopes(ShopScope(shopID)).First(&customer, "id = ?", id).Error
	return firstOrNil(&customer, err)
}

func (t *tx) IncrementCustomerLoyalty(_ context.Context, customerID uuid.UUID, pointsDelta int, spentDelta money.Money) error {
	if t.done {
		return domainRepo.ErrTxDone
	}
	result := t.db.Model(&entity.Customer{}).
		Where("id = ?", customerID).
		Updates(map[string]any{
			"loyalty_points": gorm.Expr("GREATEST(loyalty_points + ?, 0)", pointsDelta),
			"total_spent":    gorm.Expr("GREATEST(total_spent + ?, 0)", int64(spentDelta)),
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("customer %s not found", customerID)
	}
	return nil
}

func (t *tx) Commit() error {
	if t.done {
		return domainRepo.ErrTxDone
	}
	t.done = true
	return t.db.Commit().Error
}

// Rollback is a no-op once the transaction has finished
func (t *tx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	return t.db.Rollback().Error
}
