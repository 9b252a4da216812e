package repository

import (
	"context"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	domainRepo "github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return translate(r.db.WithContext(ctx).Omit("Inventory").Create(product).Error)
}

// CreateBatch inserts products in one transaction, 100 rows per statement
func (r *productRepository) CreateBatch(ctx context.Context, products []entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return translate(tx.Omit("Inventory").CreateInBatches(&products, 100).Error)
	})
}

func (r *productRepository) GetByID(ctx context.Context, shopID, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Scopes(ShopScope(shopID)).
		Preload("Inventory").
		First(&product, "id = ?", id).Error
	return firstOrNil(&product, err)
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Omit("Inventory", "CreatedAt").Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(ShopScope(shopID)).
		Delete(&entity.Product{}, "id = ?", id).Error
}

var productSortColumns = map[string]string{
	"name":          "name",
	"selling_price": "selling_price",
	"created_at":    "created_at",
	"category":      "category",
}

func (r *productRepository) List(ctx context.Context, shopID uuid.UUID, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Product{}).Scopes(ShopScope(shopID))

	if params.Search != "" {
		query = query.Where("name ILIKE ? OR hsn_code ILIKE ?", like(params.Search), like(params.Search))
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Only whitelisted columns reach ORDER BY
	sortBy, ok := productSortColumns[params.SortBy]
	if !ok {
		sortBy = "created_at"
	}

	err := query.Scopes(Paginate(params.Pagination)).
		Preload("Inventory").
		Order(sortBy + " " + sortDirection(params.SortOrder)).
		Find(&products).Error

	return products, total, err
}

type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *gorm.DB) domainRepo.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) List(ctx context.Context, shopID uuid.UUID, params *domainRepo.InventoryFilterParams) ([]entity.Inventory, int64, error) {
	var rows []entity.Inventory
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Inventory{}).Scopes(ShopScope(shopID))
	if params.ProductID != nil {
		query = query.Where("product_id = ?", *params.ProductID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params.Pagination)).
		Preload("Product").
		Order("last_updated DESC").
		Find(&rows).Error

	return rows, total, err
}

func (r *inventoryRepository) GetLowStock(ctx context.Context, shopID uuid.UUID) ([]entity.Inventory, error) {
	var rows []entity.Inventory
	err := r.db.WithContext(ctx).
		Scopes(ShopScope(shopID)).
		Where("quantity <= min_stock_level").
		Preload("Product").
		Order("quantity ASC").
		Find(&rows).Error
	return rows, err
}

func (r *inventoryRepository) ListAudit(ctx context.Context, shopID uuid.UUID, params *domainRepo.AuditFilterParams) ([]entity.InventoryAudit, int64, error) {
	var audits []entity.InventoryAudit
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.InventoryAudit{}).Scopes(ShopScope(shopID))
	if params.ProductID != nil {
		query = query.Where("product_id = ?", *params.ProductID)
	}
	if params.ReferenceID != nil {
		query = query.Where("reference_id = ?", *params.ReferenceID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params.Pagination)).
		Order("created_at DESC, id DESC").
		Find(&audits).Error

	return audits, total, err
}
