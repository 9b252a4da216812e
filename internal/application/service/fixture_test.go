package service

import (
	"context"
	"sync"
	"testing"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	"github.com/eazyque/eazyque-api/internal/domain/enum"
	"github.com/eazyque/eazyque-api/internal/infrastructure/events"
	"github.com/eazyque/eazyque-api/internal/infrastructure/memory"
	"github.com/eazyque/eazyque-api/pkg/gst"
	"github.com/eazyque/eazyque-api/pkg/money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	ctx       context.Context
	store     *memory.Store
	publisher *recordingPublisher
	orders    *OrderService
	inventory *InventoryService
	shop      *entity.Shop
	owner     *entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:       context.Background(),
		store:     memory.New(),
		publisher: &recordingPublisher{},
	}
	gstin := "27ABCDE1234F1Z5"
	f.shop = &entity.Shop{Name: "Sharma General Store", Slug: "sharma-general-store", State: "Maharashtra", GSTIN: &gstin}
	f.owner = &entity.User{Name: "Ravi Sharma", Email: "ravi@example.com", Role: enum.UserRoleOwner, IsActive: true}
	require.NoError(t, f.store.Shops().CreateWithOwner(f.ctx, f.shop, f.owner))

	cfg := DefaultOrderConfig()
	f.orders = NewOrderService(f.store, f.store.Orders(), f.publisher, cfg)
	f.inventory = NewInventoryService(f.store, f.store.Inventory(), f.publisher, cfg)
	return f
}

func (f *fixture) product(t *testing.T, name string, price money.Money, rate gst.Rate, stock int) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ShopID:            f.shop.ID,
		Name:              name,
		HSNCode:           "1006",
		UnitOfMeasurement: "pcs",
		BasePrice:         price,
		SellingPrice:      price,
		GSTRate:           rate,
		IsActive:          true,
	}
	require.NoError(t, f.store.Products().Create(f.ctx, p))
	if stock > 0 {
		_, err := f.inventory.AddOrAdjustInventory(f.ctx, &AdjustInventoryInput{
			ShopID: f.shop.ID, ProductID: p.ID, Delta: stock, ActorID: &f.owner.ID,
		})
		require.NoError(t, err)
	}
	return p
}

func (f *fixture) customer(t *testing.T, phone string) *entity.Customer {
	t.Helper()
	c := &entity.Customer{ShopID: f.shop.ID, Name: "Anita Desai", Phone: phone}
	require.NoError(t, f.store.Customers().Create(f.ctx, c))
	return c
}

func (f *fixture) stock(t *testing.T, productID uuid.UUID) int {
	t.Helper()
	n, err := f.store.SumInventoryQuantity(f.ctx, productID, f.shop.ID)
	require.NoError(t, err)
	return n
}

func (f *fixture) cart(items ...OrderItemInput) *CreateOrderInput {
	return &CreateOrderInput{
		ShopID:        f.shop.ID,
		CashierID:     &f.owner.ID,
		CustomerName:  "Walk-in",
		Items:         items,
		PaymentMethod: enum.PaymentMethodCash,
	}
}

func rupees(r float64) money.Money { return money.FromRupees(r) }

func ptr[T any](v T) *T { return &v }
