package repository

import (
	"context"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	domainRepo "github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) GetWithDetails(ctx context.Context, shopID, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Scopes(ShopScope(shopID)).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("TaxLines", func(db *gorm.DB) *gorm.DB { return db.Order("rate ASC, kind ASC") }).
		Preload("Customer").
		Preload("Cashier").
		First(&order, "id = ?", id).Error
	return firstOrNil(&order, err)
}

func (r *orderRepository) List(ctx context.Context, shopID uuid.UUID, params *domainRepo.OrderFilterParams) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Order{}).Scopes(ShopScope(shopID))

	if params.Search != "" {
		query = query.Where("order_number ILIKE ? OR customer_name ILIKE ?", like(params.Search), like(params.Search))
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params.Pagination)).
		Preload("Customer").
		Order("created_at " + sortDirection(params.SortOrder)).
		Find(&orders).Error

	return orders, total, err
}
