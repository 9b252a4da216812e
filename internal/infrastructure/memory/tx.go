package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	"github.com/eazyque/eazyque-api/internal/domain/enum"
	domainRepo "github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/eazyque/eazyque-api/pkg/money"
	"github.com/google/uuid"
)

type tx struct {
	store *Store
	data  *state
	done  bool
}

func (t *tx) check(ctx context.Context) error {
	if t.done {
		return domainRepo.ErrTxDone
	}
	return ctx.Err()
}

func (t *tx) Commit() error {
	if t.done {
		return domainRepo.ErrTxDone
	}
	t.done = true
	t.store.mu.Lock()
	t.store.data = t.data
	t.store.mu.Unlock()
	t.store.release()
	return nil
}

func (t *tx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.data = nil
	t.store.release()
	return nil
}

func (t *tx) FindProductByIDAndShop(ctx context.Context, id, shopID uuid.UUID) (*entity.Product, error) {
	if err := t.check(ctx); err != nil {
		return nil, err
	}
	return t.data.findProduct(id, shopID), nil
}

func (t *tx) SumInventoryQuantity(ctx context.Context, productID, shopID uuid.UUID) (int, error) {
	if err := t.check(ctx); err != nil {
		return 0, err
	}
	return t.data.sumInventory(productID, shopID), nil
}

func (t *tx) ConditionalDecrementInventory(ctx context.Context, productID, shopID uuid.UUID, amount int) (int64, error) {
	if err := t.check(ctx); err != nil {
		return 0, err
	}
	if amount <= 0 {
		return 0, fmt.Errorf("decrement amount must be positive, got %d", amount)
	}
	rows := t.data.stockRows(productID, shopID)
	available := 0
	for _, r := range rows {
		available += r.Quantity
	}
	if available < amount {
		return 0, nil
	}

	now := time.Now()
	remaining := amount
	var affected int64
	for _, r := range rows {
		if remaining == 0 {
			break
		}
		take := min(r.Quantity, remaining)
		if take == 0 {
			continue
		}
		r.Quantity -= take
		r.LastUpdated = now
		t.data.inventory[r.ID] = r
		remaining -= take
		affected++
	}
	return affected, nil
}

func (t *tx) IncrementInventory(ctx context.Context, productID, shopID uuid.UUID, amount int, levels domainRepo.StockLevels) error {
	if err := t.check(ctx); err != nil {
		return err
	}
	now := time.Now()
	rows := t.data.stockRows(productID, shopID)
	if len(rows) == 0 {
		inv := entity.Inventory{
			ID:            uuid.New(),
			ProductID:     productID,
			ShopID:        shopID,
			Quantity:      amount,
			MinStockLevel: levels.Min,
			MaxStockLevel: levels.Max,
			LastUpdated:   now,
			CreatedAt:     now,
		}
		t.data.inventory[inv.ID] = inv
		return nil
	}
	r := rows[0]
	r.Quantity += amount
	r.LastUpdated = now
	t.data.inventory[r.ID] = r
	return nil
}

func (t *tx) FindInventoryForUpdate(ctx context.Context, productID, shopID uuid.UUID, batchNumber *string) (*entity.Inventory, error) {
	if err := t.check(ctx); err != nil {
		return nil, err
	}
	for _, r := range t.data.stockRows(productID, shopID) {
		if batchNumber == nil || (r.BatchNumber != nil && *r.BatchNumber == *batchNumber) {
			return &r, nil
		}
	}
	return nil, nil
}

func (t *tx) CreateInventory(ctx context.Context, inv *entity.Inventory) error {
	if err := t.check(ctx); err != nil {
		return err
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	now := time.Now()
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = now
	}
	inv.LastUpdated = now
	if inv.Quantity < 0 {
		return fmt.Errorf("inventory quantity must not be negative")
	}
	t.data.inventory[inv.ID] = *inv
	return nil
}

func (t *tx) UpdateInventory(ctx context.Context, inv *entity.Inventory) error {
	if err := t.check(ctx); err != nil {
		return err
	}
	if _, ok := t.data.inventory[inv.ID]; !ok {
		return fmt.Errorf("inventory %s not found", inv.ID)
	}
	if inv.Quantity < 0 {
		return fmt.Errorf("inventory quantity must not be negative")
	}
	inv.LastUpdated = time.Now()
	t.data.inventory[inv.ID] = *inv
	return nil
}

func (t *tx) AppendInventoryAudit(ctx context.Context, audit *entity.InventoryAudit) error {
	if err := t.check(ctx); err != nil {
		return err
	}
	if audit.ID == uuid.Nil {
		audit.ID = uuid.New()
	}
	if audit.CreatedAt.IsZero() {
		audit.CreatedAt = time.Now()
	}
	t.data.audits = append(t.data.audits, *audit)
	return nil
}

func (t *tx) CreateOrderWithItems(ctx context.Context, order *entity.Order) error {
	if err := t.check(ctx); err != nil {
		return err
	}
	for _, o := range t.data.orders {
		if o.OrderNumber == order.OrderNumber {
			return fmt.Errorf("order number %s: %w", order.OrderNumber, domainRepo.ErrDuplicateKey)
		}
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = order.CreatedAt
	}

	items := make([]entity.OrderItem, len(order.Items))
	for i, item := range order.Items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.OrderID = order.ID
		if item.CreatedAt.IsZero() {
			item.CreatedAt = order.CreatedAt
		}
		items[i] = item
	}
	lines := make([]entity.OrderTaxLine, len(order.TaxLines))
	for i, line := range order.TaxLines {
		if line.ID == uuid.Nil {
			line.ID = uuid.New()
		}
		line.OrderID = order.ID
		lines[i] = line
	}
	order.Items, order.TaxLines = items, lines

	stored := *order
	stored.Customer, stored.Cashier = nil, nil
	t.data.orders[order.ID] = stored
	return nil
}

func (t *tx) GetOrderForUpdate(ctx context.Context, shopID, id uuid.UUID) (*entity.Order, error) {
	if err := t.check(ctx); err != nil {
		return nil, err
	}
	o, ok := t.data.orders[id]
	if !ok || o.ShopID != shopID {
		return nil, nil
	}
	return &o, nil
}

func (t *tx) UpdateOrderStatus(ctx context.Context, id uuid.UUID, from enum.OrderStatus, update domainRepo.OrderStatusUpdate) (int64, error) {
	if err := t.check(ctx); err != nil {
		return 0, err
	}
	o, ok := t.data.orders[id]
	if !ok || o.Status != from {
		return 0, nil
	}
	o.Status = update.Status
	if update.PaymentStatus != nil {
		o.PaymentStatus = *update.PaymentStatus
	}
	if update.CancelledAt != nil {
		at := *update.CancelledAt
		o.CancelledAt = &at
	}
	o.UpdatedAt = time.Now()
	t.data.orders[id] = o
	return 1, nil
}

func (t *tx) GetCustomer(ctx context.Context, shopID, id uuid.UUID) (*entity.Customer, error) {
	if err := t.check(ctx); err != nil {
		return nil, err
	}
	c, ok := t.data.customers[id]
	if !ok || c.ShopID != shopID || c.DeletedAt.Valid {
		return nil, nil
	}
	return &c, nil
}

func (t *tx) IncrementCustomerLoyalty(ctx context.Context, customerID uuid.UUID, pointsDelta int, spentDelta money.Money) error {
	if err := t.check(ctx); err != nil {
		return err
	}
	c, ok := t.data.customers[customerID]
	if !ok {
		return fmt.Errorf("customer %s not found", customerID)
	}
	c.LoyaltyPoints = max(c.LoyaltyPoints+pointsDelta, 0)
	c.TotalSpent = max(c.TotalSpent+spentDelta, 0)
	c.UpdatedAt = time.Now()
	t.data.customers[customerID] = c
	return nil
}
