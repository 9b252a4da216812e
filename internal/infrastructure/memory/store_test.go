package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	domainRepo "github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStock(t *testing.T, s *Store, productID, shopID uuid.UUID, batches ...entity.Inventory) {
	t.Helper()
	ctx := context.Background()
	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()
	for i := range batches {
		batches[i].ProductID = productID
		batches[i].ShopID = shopID
		require.NoError(t, tx.CreateInventory(ctx, &batches[i]))
	}
	require.NoError(t, tx.Commit())
}

func TestRollbackDiscardsWrites(t *testing.T) {
	s := New()
	ctx := context.Background()
	productID, shopID := uuid.New(), uuid.New()
	seedStock(t, s, productID, shopID, entity.Inventory{Quantity: 5})

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	n, err := tx.ConditionalDecrementInventory(ctx, productID, shopID, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	inTx, err := tx.SumInventoryQuantity(ctx, productID, shopID)
	require.NoError(t, err)
	assert.Equal(t, 2, inTx)

	outside, err := s.SumInventoryQuantity(ctx, productID, shopID)
	require.NoError(t, err)
	assert.Equal(t, 5, outside, "uncommitted writes are not visible")

	require.NoError(t, tx.Rollback())
	after, _ := s.SumInventoryQuantity(ctx, productID, shopID)
	assert.Equal(t, 5, after)

	assert.NoError(t, tx.Rollback(), "second rollback is a no-op")
	assert.ErrorIs(t, tx.Commit(), domainRepo.ErrTxDone)
}

func TestDecrementDrawsEarliestExpiryFirst(t *testing.T) {
	s := New()
	ctx := context.Background()
	productID, shopID := uuid.New(), uuid.New()
	soon := time.Now().AddDate(0, 1, 0)
	later := time.Now().AddDate(0, 6, 0)
	b1, b2, b3 := "LATE", "SOON", "NONE"
	seedStock(t, s, productID, shopID,
		entity.Inventory{Quantity: 4, BatchNumber: &b1, ExpiryDate: &later},
		entity.Inventory{Quantity: 3, BatchNumber: &b2, ExpiryDate: &soon},
		entity.Inventory{Quantity: 10, BatchNumber: &b3},
	)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	n, err := tx.ConditionalDecrementInventory(ctx, productID, shopID, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	soonRow, err := tx.FindInventoryForUpdate(ctx, productID, shopID, &b2)
	require.NoError(t, err)
	assert.Equal(t, 0, soonRow.Quantity)
	lateRow, _ := tx.FindInventoryForUpdate(ctx, productID, shopID, &b1)
	assert.Equal(t, 2, lateRow.Quantity)
	noneRow, _ := tx.FindInventoryForUpdate(ctx, productID, shopID, &b3)
	assert.Equal(t, 10, noneRow.Quantity)
}

func TestDecrementRefusesWhenShort(t *testing.T) {
	s := New()
	ctx := context.Background()
	productID, shopID := uuid.New(), uuid.New()
	seedStock(t, s, productID, shopID, entity.Inventory{Quantity: 2}, entity.Inventory{Quantity: 1})

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	n, err := tx.ConditionalDecrementInventory(ctx, productID, shopID, 4)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
	total, _ := tx.SumInventoryQuantity(ctx, productID, shopID)
	assert.Equal(t, 3, total)
}

func TestBeginWaitsForOpenTransaction(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, err := s.Begin(ctx)
	require.NoError(t, err)

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = s.Begin(short)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		second, err := s.Begin(ctx)
		if assert.NoError(t, err) {
			_ = second.Rollback()
		}
	}()
	require.NoError(t, first.Commit())
	wg.Wait()
}

func TestOrderNumberIsUnique(t *testing.T) {
	s := New()
	ctx := context.Background()
	shopID := uuid.New()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.CreateOrderWithItems(ctx, &entity.Order{OrderNumber: "ORD-1", ShopID: shopID}))
	require.NoError(t, tx.Commit())

	tx, err = s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()
	err = tx.CreateOrderWithItems(ctx, &entity.Order{OrderNumber: "ORD-1", ShopID: shopID})
	assert.ErrorIs(t, err, domainRepo.ErrDuplicateKey)
}

func TestLoyaltyClampsAtZero(t *testing.T) {
	s := New()
	ctx := context.Background()
	shopID := uuid.New()
	c := &entity.Customer{ShopID: shopID, Name: "Asha", Phone: "+919876543210", LoyaltyPoints: 1, TotalSpent: 5000}
	require.NoError(t, s.Customers().Create(ctx, c))

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.IncrementCustomerLoyalty(ctx, c.ID, -3, -9000))
	require.NoError(t, tx.Commit())

	got, err := s.Customers().GetByID(ctx, shopID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.LoyaltyPoints)
	assert.EqualValues(t, 0, got.TotalSpent)
}

func TestCustomerPhoneUniquePerShop(t *testing.T) {
	s := New()
	ctx := context.Background()
	shopA, shopB := uuid.New(), uuid.New()

	require.NoError(t, s.Customers().Create(ctx, &entity.Customer{ShopID: shopA, Name: "A", Phone: "+919876543210"}))
	require.NoError(t, s.Customers().Create(ctx, &entity.Customer{ShopID: shopB, Name: "B", Phone: "+919876543210"}))
	err := s.Customers().Create(ctx, &entity.Customer{ShopID: shopA, Name: "C", Phone: "+919876543210"})
	assert.ErrorIs(t, err, domainRepo.ErrDuplicateKey)
}

func TestIncrementCreatesRowWithGivenLevels(t *testing.T) {
	s := New()
	ctx := context.Background()
	productID, shopID := uuid.New(), uuid.New()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.IncrementInventory(ctx, productID, shopID, 4, domainRepo.StockLevels{Min: 3, Max: 50}))
	require.NoError(t, tx.Commit())

	tx, err = s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback()
	row, err := tx.FindInventoryForUpdate(ctx, productID, shopID, nil)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, 4, row.Quantity)
	assert.Equal(t, 3, row.MinStockLevel)
	assert.Equal(t, 50, row.MaxStockLevel)
}

func TestCreateOrderKeepsGivenTimestamps(t *testing.T) {
	s := New()
	ctx := context.Background()
	shopID := uuid.New()
	at := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

	order := &entity.Order{
		OrderNumber: "ORD-20260314-103000-ABC123",
		ShopID:      shopID,
		CreatedAt:   at,
		UpdatedAt:   at,
		Items:       []entity.OrderItem{{ProductID: uuid.New(), Quantity: 1}},
	}
	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.CreateOrderWithItems(ctx, order))
	require.NoError(t, tx.Commit())

	got, err := s.Orders().GetWithDetails(ctx, shopID, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, at.Equal(got.CreatedAt))
	assert.True(t, at.Equal(got.UpdatedAt))
	require.Len(t, got.Items, 1)
	assert.True(t, at.Equal(got.Items[0].CreatedAt))
}
