package repository

import (
	"context"
	"time"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	"github.com/eazyque/eazyque-api/internal/domain/enum"
	"github.com/eazyque/eazyque-api/pkg/pagination"
	"github.com/google/uuid"
)

// OrderRepository is the read side of orders
type OrderRepository interface {
	// GetWithDetails loads items, tax lines, customer and cashier. nil, nil when absent.
	GetWithDetails(ctx context.Context, shopID, id uuid.UUID) (*entity.Order, error)
	List(ctx context.Context, shopID uuid.UUID, params *OrderFilterParams) ([]entity.Order, int64, error)
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination *pagination.Params
	Search     string // order number or customer name
	Status     *enum.OrderStatus
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortOrder  string
}
