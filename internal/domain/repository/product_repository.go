package repository

import (
	"context"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	"github.com/eazyque/eazyque-api/pkg/pagination"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for catalog data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	CreateBatch(ctx context.Context, products []entity.Product) error
	GetByID(ctx context.Context, shopID, id uuid.UUID) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, shopID, id uuid.UUID) error
	List(ctx context.Context, shopID uuid.UUID, params *ProductFilterParams) ([]entity.Product, int64, error)
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.Params
	Search     string // name or HSN code
	Category   string
	ActiveOnly bool
	SortBy     string
	SortOrder  string
}

// InventoryRepository is the read side of stock and its audit trail
type InventoryRepository interface {
	List(ctx context.Context, shopID uuid.UUID, params *InventoryFilterParams) ([]entity.Inventory, int64, error)
	GetLowStock(ctx context.Context, shopID uuid.UUID) ([]entity.Inventory, error)
	ListAudit(ctx context.Context, shopID uuid.UUID, params *AuditFilterParams) ([]entity.InventoryAudit, int64, error)
}

// InventoryFilterParams filters inventory rows
type InventoryFilterParams struct {
	Pagination *pagination.Params
	ProductID  *uuid.UUID
}

// AuditFilterParams filters audit rows, newest first
type AuditFilterParams struct {
	Pagination  *pagination.Params
	ProductID   *uuid.UUID
	ReferenceID *uuid.UUID
}
