package service

import (
	"context"
	"time"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	"github.com/eazyque/eazyque-api/internal/domain/enum"
	"github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/eazyque/eazyque-api/internal/infrastructure/events"
	"github.com/eazyque/eazyque-api/internal/logger"
	"github.com/eazyque/eazyque-api/pkg/apperror"
	"github.com/eazyque/eazyque-api/pkg/money"
	"github.com/eazyque/eazyque-api/pkg/pagination"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// InventoryService handles stock adjustments and stock queries
type InventoryService struct {
	store     repository.Store
	inventory repository.InventoryRepository
	publisher EventPublisher
	cfg       OrderConfig
	validate  *validator.Validate
	log       *logrus.Entry
	now       func() time.Time
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	store repository.Store,
	inventory repository.InventoryRepository,
	publisher EventPublisher,
	cfg OrderConfig,
) *InventoryService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &InventoryService{
		store:     store,
		inventory: inventory,
		publisher: publisher,
		cfg:       cfg,
		validate:  newValidator(),
		log:       logger.WithComponent("inventory_service"),
		now:       time.Now,
	}
}

// AdjustInventoryInput represents a manual stock change
type AdjustInventoryInput struct {
	ShopID    uuid.UUID  `json:"shop_id" validate:"required"`
	ProductID uuid.UUID  `json:"product_id" validate:"required"`
	ActorID   *uuid.UUID `json:"actor_id"`
	// Delta is added to the row; negative values remove stock
	Delta       int          `json:"quantity" validate:"ne=0"`
	CostPrice   *money.Money `json:"cost_price" validate:"omitempty,gte=0"`
	BatchNumber *string      `json:"batch_number" validate:"omitempty,max=100"`
	ExpiryDate  *time.Time   `json:"expiry_date"`
	Note        *string      `json:"note" validate:"omitempty,max=500"`
}

// AddOrAdjustInventory applies a delta to the product's stock row, creating
// the row when the product has none, and records an ADJUSTMENT audit entry.
func (s *InventoryService) AddOrAdjustInventory(ctx context.Context, input *AdjustInventoryInput) (*entity.Inventory, error) {
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	product, err := s.store.FindProductByIDAndShop(ctx, input.ProductID, input.ShopID)
	if err != nil {
		return nil, storeError("load product", err)
	}
	if product == nil {
		return nil, apperror.NewProductNotFoundError(input.ProductID)
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, storeError("begin transaction", err)
	}
	defer tx.Rollback()

	now := s.now()
	row, err := tx.FindInventoryForUpdate(ctx, input.ProductID, input.ShopID, input.BatchNumber)
	if err != nil {
		return nil, storeError("adjust inventory", err)
	}

	oldQty := 0
	if row == nil {
		row = &entity.Inventory{
			ProductID:     input.ProductID,
			ShopID:        input.ShopID,
			Quantity:      max(input.Delta, 0),
			MinStockLevel: s.cfg.DefaultMinStockLevel,
			MaxStockLevel: s.cfg.DefaultMaxStockLevel,
			BatchNumber:   input.BatchNumber,
			ExpiryDate:    input.ExpiryDate,
			LastUpdated:   now,
			CreatedAt:     now,
		}
		if input.CostPrice != nil {
			row.CostPrice = *input.CostPrice
		}
		if err := tx.CreateInventory(ctx, row); err != nil {
			return nil, storeError("adjust inventory", err)
		}
	} else {
		oldQty = row.Quantity
		newQty := row.Quantity + input.Delta
		if newQty < 0 {
			return nil, apperror.NewInsufficientStockError(product.ID, product.Name, row.Quantity, -input.Delta)
		}
		row.Quantity = newQty
		row.LastUpdated = now
		if input.CostPrice != nil {
			row.CostPrice = *input.CostPrice
		}
		if input.ExpiryDate != nil {
			row.ExpiryDate = input.ExpiryDate
		}
		if err := tx.UpdateInventory(ctx, row); err != nil {
			return nil, storeError("adjust inventory", err)
		}
	}

	if err := tx.AppendInventoryAudit(ctx, &entity.InventoryAudit{
		ShopID:      input.ShopID,
		ProductID:   input.ProductID,
		InventoryID: &row.ID,
		OldQuantity: oldQty,
		NewQuantity: row.Quantity,
		Delta:       row.Quantity - oldQty,
		Reason:      enum.AuditReasonAdjustment,
		ActorID:     input.ActorID,
		Note:        input.Note,
		CreatedAt:   now,
	}); err != nil {
		return nil, storeError("record audit", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, storeError("commit adjustment", err)
	}

	s.log.WithFields(logrus.Fields{
		"product_id": product.ID,
		"shop_id":    input.ShopID,
		"old":        oldQty,
		"new":        row.Quantity,
	}).Info("inventory adjusted")

	qty := row.Quantity
	if err := s.publisher.Publish(ctx, events.Event{
		Type:       events.InventoryAdjusted,
		ShopID:     input.ShopID,
		ProductID:  &row.ProductID,
		Quantity:   &qty,
		OccurredAt: now,
	}); err != nil {
		s.log.WithError(err).Warn("failed to publish inventory event")
	}

	return row, nil
}

// ListInventory lists stock rows with their products
func (s *InventoryService) ListInventory(ctx context.Context, shopID uuid.UUID, params *repository.InventoryFilterParams) (*pagination.Result[entity.Inventory], error) {
	if params == nil {
		params = &repository.InventoryFilterParams{}
	}
	if params.Pagination == nil {
		params.Pagination = pagination.Default()
	}
	params.Pagination.Validate()

	rows, total, err := s.inventory.List(ctx, shopID, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewResult(rows, params.Pagination, total), nil
}

// GetLowStock returns rows at or below their minimum stock level
func (s *InventoryService) GetLowStock(ctx context.Context, shopID uuid.UUID) ([]entity.Inventory, error) {
	rows, err := s.inventory.GetLowStock(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []entity.Inventory{}
	}
	return rows, nil
}

// ListAudit returns the audit trail, newest first
func (s *InventoryService) ListAudit(ctx context.Context, shopID uuid.UUID, params *repository.AuditFilterParams) (*pagination.Result[entity.InventoryAudit], error) {
	if params == nil {
		params = &repository.AuditFilterParams{}
	}
	if params.Pagination == nil {
		params.Pagination = pagination.Default()
	}
	params.Pagination.Validate()

	rows, total, err := s.inventory.ListAudit(ctx, shopID, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewResult(rows, params.Pagination, total), nil
}
