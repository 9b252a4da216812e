package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	domainRepo "github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/google/uuid"
)

type orderRepo struct{ s *Store }

func (r orderRepo) GetWithDetails(ctx context.Context, shopID, id uuid.UUID) (*entity.Order, error) {
	var out *entity.Order
	r.s.read(func(d *state) {
		o, ok := d.orders[id]
		if !ok || o.ShopID != shopID {
			return
		}
		o.Items = slices.Clone(o.Items)
		o.TaxLines = slices.Clone(o.TaxLines)
		if o.CustomerID != nil {
			if c, ok := d.customers[*o.CustomerID]; ok {
				o.Customer = &c
			}
		}
		if o.CashierID != nil {
			if u, ok := d.users[*o.CashierID]; ok {
				o.Cashier = &u
			}
		}
		out = &o
	})
	return out, ctx.Err()
}

func (r orderRepo) List(ctx context.Context, shopID uuid.UUID, params *domainRepo.OrderFilterParams) ([]entity.Order, int64, error) {
	var matched []entity.Order
	r.s.read(func(d *state) {
		for _, o := range d.orders {
			if o.ShopID != shopID {
				continue
			}
			if params.Status != nil && o.Status != *params.Status {
				continue
			}
			if params.CustomerID != nil && (o.CustomerID == nil || *o.CustomerID != *params.CustomerID) {
				continue
			}
			if params.StartDate != nil && o.CreatedAt.Before(*params.StartDate) {
				continue
			}
			if params.EndDate != nil && !o.CreatedAt.Before(*params.EndDate) {
				continue
			}
			if params.Search != "" && !containsFold(o.OrderNumber, params.Search) && !containsFold(o.CustomerName, params.Search) {
				continue
			}
			matched = append(matched, o)
		}
	})
	slices.SortFunc(matched, func(a, b entity.Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if strings.EqualFold(params.SortOrder, "asc") {
		slices.Reverse(matched)
	}
	return page(matched, params.Pagination), int64(len(matched)), ctx.Err()
}
