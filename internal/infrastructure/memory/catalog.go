package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	domainRepo "github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/eazyque/eazyque-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productRepo struct{ s *Store }

func (r productRepo) Create(ctx context.Context, product *entity.Product) error {
	return r.s.write(ctx, func(d *state) error {
		if product.ID == uuid.Nil {
			product.ID = uuid.New()
		}
		now := time.Now()
		product.CreatedAt, product.UpdatedAt = now, now
		d.products[product.ID] = *product
		return nil
	})
}

func (r productRepo) CreateBatch(ctx context.Context, products []entity.Product) error {
	return r.s.write(ctx, func(d *state) error {
		now := time.Now()
		for i := range products {
			if products[i].ID == uuid.Nil {
				products[i].ID = uuid.New()
			}
			products[i].CreatedAt, products[i].UpdatedAt = now, now
			d.products[products[i].ID] = products[i]
		}
		return nil
	})
}

func (r productRepo) GetByID(ctx context.Context, shopID, id uuid.UUID) (*entity.Product, error) {
	var p *entity.Product
	r.s.read(func(d *state) { p = d.findProduct(id, shopID) })
	return p, ctx.Err()
}

func (r productRepo) Update(ctx context.Context, product *entity.Product) error {
	return r.s.write(ctx, func(d *state) error {
		if d.findProduct(product.ID, product.ShopID) == nil {
			return fmt.Errorf("product %s not found", product.ID)
		}
		product.UpdatedAt = time.Now()
		d.products[product.ID] = *product
		return nil
	})
}

func (r productRepo) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	return r.s.write(ctx, func(d *state) error {
		p := d.findProduct(id, shopID)
		if p == nil {
			return nil
		}
		p.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
		d.products[id] = *p
		return nil
	})
}

func (r productRepo) List(ctx context.Context, shopID uuid.UUID, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var matched []entity.Product
	r.s.read(func(d *state) {
		for _, p := range d.products {
			if p.ShopID != shopID || p.DeletedAt.Valid {
				continue
			}
			if params.ActiveOnly && !p.IsActive {
				continue
			}
			if params.Category != "" && !strings.EqualFold(p.Category, params.Category) {
				continue
			}
			if params.Search != "" && !containsFold(p.Name, params.Search) && !containsFold(p.HSNCode, params.Search) {
				continue
			}
			matched = append(matched, p)
		}
	})
	slices.SortFunc(matched, func(a, b entity.Product) int {
		if params.SortBy == "name" {
			return cmp.Compare(a.Name, b.Name)
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if strings.EqualFold(params.SortOrder, "asc") && params.SortBy != "name" {
		slices.Reverse(matched)
	}
	return page(matched, params.Pagination), int64(len(matched)), ctx.Err()
}

type inventoryRepo struct{ s *Store }

func (r inventoryRepo) withProduct(d *state, inv entity.Inventory) entity.Inventory {
	if p, ok := d.products[inv.ProductID]; ok {
		inv.Product = &p
	}
	return inv
}

func (r inventoryRepo) List(ctx context.Context, shopID uuid.UUID, params *domainRepo.InventoryFilterParams) ([]entity.Inventory, int64, error) {
	var rows []entity.Inventory
	r.s.read(func(d *state) {
		for _, inv := range d.inventory {
			if inv.ShopID != shopID {
				continue
			}
			if params.ProductID != nil && inv.ProductID != *params.ProductID {
				continue
			}
			rows = append(rows, r.withProduct(d, inv))
		}
	})
	slices.SortFunc(rows, func(a, b entity.Inventory) int {
		return b.LastUpdated.Compare(a.LastUpdated)
	})
	return page(rows, params.Pagination), int64(len(rows)), ctx.Err()
}

func (r inventoryRepo) GetLowStock(ctx context.Context, shopID uuid.UUID) ([]entity.Inventory, error) {
	var rows []entity.Inventory
	r.s.read(func(d *state) {
		for _, inv := range d.inventory {
			if inv.ShopID == shopID && inv.IsLowStock() {
				rows = append(rows, r.withProduct(d, inv))
			}
		}
	})
	slices.SortFunc(rows, func(a, b entity.Inventory) int {
		return cmp.Compare(a.Quantity, b.Quantity)
	})
	return rows, ctx.Err()
}

func (r inventoryRepo) ListAudit(ctx context.Context, shopID uuid.UUID, params *domainRepo.AuditFilterParams) ([]entity.InventoryAudit, int64, error) {
	var rows []entity.InventoryAudit
	r.s.read(func(d *state) {
		for i := len(d.audits) - 1; i >= 0; i-- {
			a := d.audits[i]
			if a.ShopID != shopID {
				continue
			}
			if params.ProductID != nil && a.ProductID != *params.ProductID {
				continue
			}
			if params.ReferenceID != nil && (a.ReferenceID == nil || *a.ReferenceID != *params.ReferenceID) {
				continue
			}
			rows = append(rows, a)
		}
	})
	return page(rows, params.Pagination), int64(len(rows)), ctx.Err()
}

// page slices items to the requested page; nil params return everything
func page[T any](items []T, params *pagination.Params) []T {
	if params == nil {
		return items
	}
	params.Validate()
	start, end := params.Window(len(items))
	return items[start:end]
}
