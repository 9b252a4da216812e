package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	domainRepo "github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/google/uuid"
)

type customerRepo struct{ s *Store }

func phoneTaken(d *state, c *entity.Customer) bool {
	for _, other := range d.customers {
		if other.ID != c.ID && other.ShopID == c.ShopID && other.Phone == c.Phone && !other.DeletedAt.Valid {
			return true
		}
	}
	return false
}

func (r customerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	return r.s.write(ctx, func(d *state) error {
		if phoneTaken(d, customer) {
			return fmt.Errorf("customer phone %s: %w", customer.Phone, domainRepo.ErrDuplicateKey)
		}
		if customer.ID == uuid.Nil {
			customer.ID = uuid.New()
		}
		now := time.Now()
		customer.CreatedAt, customer.UpdatedAt = now, now
		d.customers[customer.ID] = *customer
		return nil
	})
}

func (r customerRepo) get(d *state, shopID, id uuid.UUID) *entity.Customer {
	c, ok := d.customers[id]
	if !ok || c.ShopID != shopID || c.DeletedAt.Valid {
		return nil
	}
	return &c
}

func (r customerRepo) GetByID(ctx context.Context, shopID, id uuid.UUID) (*entity.Customer, error) {
	var out *entity.Customer
	r.s.read(func(d *state) { out = r.get(d, shopID, id) })
	return out, ctx.Err()
}

func (r customerRepo) GetByPhone(ctx context.Context, shopID uuid.UUID, phone string) (*entity.Customer, error) {
	var out *entity.Customer
	r.s.read(func(d *state) {
		for _, c := range d.customers {
			if c.ShopID == shopID && c.Phone == phone && !c.DeletedAt.Valid {
				out = &c
				return
			}
		}
	})
	return out, ctx.Err()
}

func (r customerRepo) UpdateProfile(ctx context.Context, customer *entity.Customer) error {
	return r.s.write(ctx, func(d *state) error {
		current := r.get(d, customer.ShopID, customer.ID)
		if current == nil {
			return fmt.Errorf("customer %s not found", customer.ID)
		}
		if phoneTaken(d, customer) {
			return fmt.Errorf("customer phone %s: %w", customer.Phone, domainRepo.ErrDuplicateKey)
		}
		current.Name = customer.Name
		current.Phone = customer.Phone
		current.Email = customer.Email
		current.Address = customer.Address
		current.UpdatedAt = time.Now()
		d.customers[current.ID] = *current
		*customer = *current
		return nil
	})
}

func (r customerRepo) List(ctx context.Context, shopID uuid.UUID, params *domainRepo.CustomerFilterParams) ([]entity.Customer, int64, error) {
	var matched []entity.Customer
	r.s.read(func(d *state) {
		for _, c := range d.customers {
			if c.ShopID != shopID || c.DeletedAt.Valid {
				continue
			}
			if params.Search != "" {
				email := ""
				if c.Email != nil {
					email = *c.Email
				}
				if !containsFold(c.Name, params.Search) && !strings.Contains(c.Phone, params.Search) && !containsFold(email, params.Search) {
					continue
				}
			}
			matched = append(matched, c)
		}
	})
	slices.SortFunc(matched, func(a, b entity.Customer) int {
		return strings.Compare(a.Name, b.Name)
	})
	return page(matched, params.Pagination), int64(len(matched)), ctx.Err()
}
