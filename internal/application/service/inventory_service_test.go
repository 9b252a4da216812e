package service

import (
	"testing"
	"time"

	"github.com/eazyque/eazyque-api/internal/domain/enum"
	"github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/eazyque/eazyque-api/internal/infrastructure/events"
	"github.com/eazyque/eazyque-api/pkg/apperror"
	"github.com/eazyque/eazyque-api/pkg/gst"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustCreatesRowWithDefaults(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Turmeric 100g", rupees(35), gst.Rate5, 0)

	cost := rupees(28)
	row, err := f.inventory.AddOrAdjustInventory(f.ctx, &AdjustInventoryInput{
		ShopID: f.shop.ID, ProductID: p.ID, Delta: 25, CostPrice: &cost, ActorID: &f.owner.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 25, row.Quantity)
	assert.Equal(t, 10, row.MinStockLevel)
	assert.Equal(t, 1000, row.MaxStockLevel)
	assert.Equal(t, cost, row.CostPrice)
	assert.Equal(t, 25, f.stock(t, p.ID))

	res, err := f.inventory.ListAudit(f.ctx, f.shop.ID, &repository.AuditFilterParams{ProductID: &p.ID})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	a := res.Items[0]
	assert.Equal(t, enum.AuditReasonAdjustment, a.Reason)
	assert.Equal(t, 0, a.OldQuantity)
	assert.Equal(t, 25, a.NewQuantity)
	assert.Equal(t, 25, a.Delta)
	require.NotNil(t, a.InventoryID)
	assert.Equal(t, row.ID, *a.InventoryID)
	assert.Equal(t, f.owner.ID, *a.ActorID)

	assert.Contains(t, f.publisher.types(), events.InventoryAdjusted)
}

func TestAdjustNegativeDeltaOnMissingRowClampsToZero(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Cardamom 50g", rupees(90), gst.Rate5, 0)

	row, err := f.inventory.AddOrAdjustInventory(f.ctx, &AdjustInventoryInput{
		ShopID: f.shop.ID, ProductID: p.ID, Delta: -4,
	})
	require.NoError(t, err)
	assert.Zero(t, row.Quantity)
}

func TestAdjustExistingRow(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Coffee 200g", rupees(210), gst.Rate5, 12)

	note := "damaged in transit"
	row, err := f.inventory.AddOrAdjustInventory(f.ctx, &AdjustInventoryInput{
		ShopID: f.shop.ID, ProductID: p.ID, Delta: -2, Note: &note,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, row.Quantity)

	res, err := f.inventory.ListAudit(f.ctx, f.shop.ID, &repository.AuditFilterParams{ProductID: &p.ID})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	latest := res.Items[0]
	assert.Equal(t, 12, latest.OldQuantity)
	assert.Equal(t, 10, latest.NewQuantity)
	assert.Equal(t, -2, latest.Delta)
	require.NotNil(t, latest.Note)
	assert.Equal(t, note, *latest.Note)
}

func TestAdjustBelowZeroRejected(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Honey 250g", rupees(180), gst.Rate5, 3)

	_, err := f.inventory.AddOrAdjustInventory(f.ctx, &AdjustInventoryInput{
		ShopID: f.shop.ID, ProductID: p.ID, Delta: -5,
	})
	appErr := apperror.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperror.KindInsufficientStock, appErr.Kind)
	assert.Equal(t, 3, appErr.Details["available"])
	assert.Equal(t, 5, appErr.Details["requested"])
	assert.Equal(t, 3, f.stock(t, p.ID))

	res, err := f.inventory.ListAudit(f.ctx, f.shop.ID, &repository.AuditFilterParams{ProductID: &p.ID})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1, "rejected adjustments leave no audit row")
}

func TestAdjustValidation(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Jaggery 1kg", rupees(80), gst.Rate0, 0)

	_, err := f.inventory.AddOrAdjustInventory(f.ctx, &AdjustInventoryInput{ShopID: f.shop.ID, ProductID: p.ID})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = f.inventory.AddOrAdjustInventory(f.ctx, &AdjustInventoryInput{ShopID: f.shop.ID, ProductID: uuid.New(), Delta: 1})
	assert.Equal(t, apperror.KindProductNotFound, apperror.KindOf(err))

	_, err = f.inventory.AddOrAdjustInventory(f.ctx, &AdjustInventoryInput{ShopID: uuid.New(), ProductID: p.ID, Delta: 1})
	assert.Equal(t, apperror.KindProductNotFound, apperror.KindOf(err), "products are scoped to their shop")
}

func TestAdjustBatchRows(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Paneer 200g", rupees(95), gst.Rate5, 0)

	soon := time.Now().Add(48 * time.Hour)
	later := time.Now().Add(240 * time.Hour)
	_, err := f.inventory.AddOrAdjustInventory(f.ctx, &AdjustInventoryInput{
		ShopID: f.shop.ID, ProductID: p.ID, Delta: 4, BatchNumber: ptr("B-001"), ExpiryDate: &soon,
	})
	require.NoError(t, err)
	_, err = f.inventory.AddOrAdjustInventory(f.ctx, &AdjustInventoryInput{
		ShopID: f.shop.ID, ProductID: p.ID, Delta: 6, BatchNumber: ptr("B-002"), ExpiryDate: &later,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, f.stock(t, p.ID))

	res, err := f.inventory.ListInventory(f.ctx, f.shop.ID, &repository.InventoryFilterParams{ProductID: &p.ID})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)

	// A sale drains the batch that expires first
	_, err = f.orders.CreateOrder(f.ctx, f.cart(OrderItemInput{ProductID: p.ID, Quantity: 5}))
	require.NoError(t, err)
	assert.Equal(t, 5, f.stock(t, p.ID))

	res, err = f.inventory.ListInventory(f.ctx, f.shop.ID, &repository.InventoryFilterParams{ProductID: &p.ID})
	require.NoError(t, err)
	for _, row := range res.Items {
		switch *row.BatchNumber {
		case "B-001":
			assert.Zero(t, row.Quantity)
		case "B-002":
			assert.Equal(t, 5, row.Quantity)
		}
	}
}

func TestGetLowStock(t *testing.T) {
	f := newFixture(t)

	rows, err := f.inventory.GetLowStock(f.ctx, f.shop.ID)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	low := f.product(t, "Saffron 1g", rupees(350), gst.Rate5, 4)
	f.product(t, "Rice 5kg", rupees(400), gst.Rate5, 50)

	rows, err = f.inventory.GetLowStock(f.ctx, f.shop.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, low.ID, rows[0].ProductID)
}
