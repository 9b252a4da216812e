package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	"github.com/eazyque/eazyque-api/internal/domain/enum"
	domainRepo "github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/google/uuid"
)

type analyticsRepo struct{ s *Store }

func countsAsSale(o entity.Order) bool {
	return o.Status != enum.OrderStatusCancelled && o.Status != enum.OrderStatusRefunded
}

func (r analyticsRepo) GetSalesSummary(ctx context.Context, shopID uuid.UUID, from, to time.Time) (*domainRepo.SalesSummary, error) {
	summary := &domainRepo.SalesSummary{}
	r.s.read(func(d *state) {
		for _, o := range d.orders {
			if o.ShopID != shopID || !countsAsSale(o) || o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
				continue
			}
			summary.Revenue += o.TotalAmount
			summary.Tax += o.TaxAmount
			summary.OrderCount++
		}
	})
	return summary, ctx.Err()
}

func (r analyticsRepo) CountOrdersByStatus(ctx context.Context, shopID uuid.UUID) (map[enum.OrderStatus]int, error) {
	counts := make(map[enum.OrderStatus]int)
	r.s.read(func(d *state) {
		for _, o := range d.orders {
			if o.ShopID == shopID {
				counts[o.Status]++
			}
		}
	})
	return counts, ctx.Err()
}

func (r analyticsRepo) CountLowStock(ctx context.Context, shopID uuid.UUID) (int, error) {
	rows, err := r.s.Inventory().GetLowStock(ctx, shopID)
	return len(rows), err
}

func (r analyticsRepo) GetTopProducts(ctx context.Context, shopID uuid.UUID, limit int) ([]domainRepo.TopProductResult, error) {
	byProduct := make(map[uuid.UUID]*domainRepo.TopProductResult)
	r.s.read(func(d *state) {
		for _, o := range d.orders {
			if o.ShopID != shopID || !countsAsSale(o) {
				continue
			}
			for _, item := range o.Items {
				res, ok := byProduct[item.ProductID]
				if !ok {
					res = &domainRepo.TopProductResult{ProductID: item.ProductID, ProductName: item.ProductName}
					byProduct[item.ProductID] = res
				}
				res.QuantitySold += item.Quantity
				res.Revenue += item.TotalPrice
			}
		}
	})
	out := make([]domainRepo.TopProductResult, 0, len(byProduct))
	for _, res := range byProduct {
		out = append(out, *res)
	}
	slices.SortFunc(out, func(a, b domainRepo.TopProductResult) int {
		return cmp.Compare(b.Revenue, a.Revenue)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, ctx.Err()
}

func (r analyticsRepo) GetTopCustomers(ctx context.Context, shopID uuid.UUID, limit int) ([]domainRepo.TopCustomerResult, error) {
	byCustomer := make(map[uuid.UUID]*domainRepo.TopCustomerResult)
	r.s.read(func(d *state) {
		for _, o := range d.orders {
			if o.ShopID != shopID || o.CustomerID == nil || !countsAsSale(o) {
				continue
			}
			res, ok := byCustomer[*o.CustomerID]
			if !ok {
				res = &domainRepo.TopCustomerResult{CustomerID: *o.CustomerID, CustomerName: o.CustomerName}
				if c, ok := d.customers[*o.CustomerID]; ok {
					res.CustomerName = c.Name
				}
				byCustomer[*o.CustomerID] = res
			}
			res.TotalSpent += o.TotalAmount
			res.OrderCount++
		}
	})
	out := make([]domainRepo.TopCustomerResult, 0, len(byCustomer))
	for _, res := range byCustomer {
		out = append(out, *res)
	}
	slices.SortFunc(out, func(a, b domainRepo.TopCustomerResult) int {
		return cmp.Compare(b.TotalSpent, a.TotalSpent)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, ctx.Err()
}

func (r analyticsRepo) GetDailySales(ctx context.Context, shopID uuid.UUID, days int) ([]domainRepo.DailySalesResult, error) {
	if days < 1 {
		days = 1
	}
	today := time.Now().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -(days - 1))
	byDay := make(map[time.Time]*domainRepo.DailySalesResult, days)
	out := make([]domainRepo.DailySalesResult, days)
	for i := range out {
		out[i].Date = start.AddDate(0, 0, i)
		byDay[out[i].Date] = &out[i]
	}
	r.s.read(func(d *state) {
		for _, o := range d.orders {
			if o.ShopID != shopID || !countsAsSale(o) {
				continue
			}
			if res, ok := byDay[o.CreatedAt.Truncate(24*time.Hour)]; ok {
				res.Revenue += o.TotalAmount
				res.Tax += o.TaxAmount
				res.OrderCount++
			}
		}
	})
	return out, ctx.Err()
}
