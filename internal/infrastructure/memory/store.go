// Package memory is an in-process implementation of the domain repositories.
// Transactions run one at a time against a private copy of the data that
// replaces the shared copy on Commit.
package memory

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	domainRepo "github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/google/uuid"
)

type state struct {
	shops       map[uuid.UUID]entity.Shop
	users       map[uuid.UUID]entity.User
	products    map[uuid.UUID]entity.Product
	inventory   map[uuid.UUID]entity.Inventory
	audits      []entity.InventoryAudit
	orders      map[uuid.UUID]entity.Order
	customers   map[uuid.UUID]entity.Customer
	idempotency map[string]entity.IdempotencyKey
}

func newState() *state {
	return &state{
		shops:       make(map[uuid.UUID]entity.Shop),
		users:       make(map[uuid.UUID]entity.User),
		products:    make(map[uuid.UUID]entity.Product),
		inventory:   make(map[uuid.UUID]entity.Inventory),
		orders:      make(map[uuid.UUID]entity.Order),
		customers:   make(map[uuid.UUID]entity.Customer),
		idempotency: make(map[string]entity.IdempotencyKey),
	}
}

// clone copies every table. Order items and tax lines are immutable and shared.
func (s *state) clone() *state {
	return &state{
		shops:       maps.Clone(s.shops),
		users:       maps.Clone(s.users),
		products:    maps.Clone(s.products),
		inventory:   maps.Clone(s.inventory),
		audits:      slices.Clone(s.audits),
		orders:      maps.Clone(s.orders),
		customers:   maps.Clone(s.customers),
		idempotency: maps.Clone(s.idempotency),
	}
}

// Store holds all data in memory. The zero value is not usable; call New.
type Store struct {
	mu   sync.RWMutex
	data *state
	// writer is a one-slot semaphore held by the open transaction or by a
	// direct write, so a commit never overwrites a concurrent change.
	writer chan struct{}
}

// New returns an empty store
func New() *Store {
	return &Store{
		data:   newState(),
		writer: make(chan struct{}, 1),
	}
}

var _ domainRepo.Store = (*Store)(nil)

// Products returns the catalog repository view
func (s *Store) Products() domainRepo.ProductRepository { return productRepo{s} }

// Inventory returns the stock read repository view
func (s *Store) Inventory() domainRepo.InventoryRepository { return inventoryRepo{s} }

// Orders returns the order read repository view
func (s *Store) Orders() domainRepo.OrderRepository { return orderRepo{s} }

// Customers returns the customer repository view
func (s *Store) Customers() domainRepo.CustomerRepository { return customerRepo{s} }

// Users returns the staff account repository view
func (s *Store) Users() domainRepo.UserRepository { return userRepo{s} }

// Shops returns the shop repository view
func (s *Store) Shops() domainRepo.ShopRepository { return shopRepo{s} }

// Idempotency returns the idempotency key repository view
func (s *Store) Idempotency() domainRepo.IdempotencyRepository { return idempotencyRepo{s} }

// Analytics returns the dashboard aggregation view
func (s *Store) Analytics() domainRepo.AnalyticsRepository { return analyticsRepo{s} }

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.writer <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() {
	<-s.writer
}

// write runs fn against the shared data while holding the writer slot.
func (s *Store) write(ctx context.Context, fn func(d *state) error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func (s *Store) read(fn func(d *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

// Begin waits for any open transaction to finish, then snapshots the data.
func (s *Store) Begin(ctx context.Context) (domainRepo.Tx, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()
	return &tx{store: s, data: snapshot}, nil
}

func (s *Store) FindProductByIDAndShop(ctx context.Context, id, shopID uuid.UUID) (*entity.Product, error) {
	var p *entity.Product
	s.read(func(d *state) { p = d.findProduct(id, shopID) })
	return p, ctx.Err()
}

func (s *Store) SumInventoryQuantity(ctx context.Context, productID, shopID uuid.UUID) (int, error) {
	var n int
	s.read(func(d *state) { n = d.sumInventory(productID, shopID) })
	return n, ctx.Err()
}

func (s *Store) FindShop(ctx context.Context, id uuid.UUID) (*entity.Shop, error) {
	var out *entity.Shop
	s.read(func(d *state) {
		if shop, ok := d.shops[id]; ok {
			out = &shop
		}
	})
	return out, ctx.Err()
}

func (d *state) findProduct(id, shopID uuid.UUID) *entity.Product {
	p, ok := d.products[id]
	if !ok || p.ShopID != shopID || p.DeletedAt.Valid {
		return nil
	}
	return &p
}

func (d *state) sumInventory(productID, shopID uuid.UUID) int {
	total := 0
	for _, inv := range d.inventory {
		if inv.ProductID == productID && inv.ShopID == shopID {
			total += inv.Quantity
		}
	}
	return total
}

// stockRows returns the product's rows in draw order: earliest expiry first,
// rows without expiry last, then oldest first.
func (d *state) stockRows(productID, shopID uuid.UUID) []entity.Inventory {
	var rows []entity.Inventory
	for _, inv := range d.inventory {
		if inv.ProductID == productID && inv.ShopID == shopID {
			rows = append(rows, inv)
		}
	}
	slices.SortFunc(rows, func(a, b entity.Inventory) int {
		switch {
		case a.ExpiryDate != nil && b.ExpiryDate == nil:
			return -1
		case a.ExpiryDate == nil && b.ExpiryDate != nil:
			return 1
		case a.ExpiryDate != nil && b.ExpiryDate != nil && !a.ExpiryDate.Equal(*b.ExpiryDate):
			return a.ExpiryDate.Compare(*b.ExpiryDate)
		case !a.CreatedAt.Equal(b.CreatedAt):
			return a.CreatedAt.Compare(b.CreatedAt)
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return rows
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
