package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	"github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/eazyque/eazyque-api/internal/logger"
	"github.com/eazyque/eazyque-api/pkg/apperror"
	"github.com/eazyque/eazyque-api/pkg/gst"
	"github.com/eazyque/eazyque-api/pkg/money"
	"github.com/eazyque/eazyque-api/pkg/pagination"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ProductService handles catalog operations
type ProductService struct {
	productRepo repository.ProductRepository
	shopRepo    repository.ShopRepository
	validate    *validator.Validate
	log         *logrus.Entry
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	shopRepo repository.ShopRepository,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		shopRepo:    shopRepo,
		validate:    newValidator(),
		log:         logger.WithComponent("product_service"),
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	ShopID            uuid.UUID   `json:"shop_id" validate:"required"`
	Name              string      `json:"name" validate:"required,max=255"`
	HSNCode           string      `json:"hsn_code" validate:"required,numeric,min=4,max=8"`
	Category          string      `json:"category" validate:"max=100"`
	UnitOfMeasurement string      `json:"unit_of_measurement" validate:"max=20"`
	BasePrice         money.Money `json:"base_price" validate:"gt=0"`
	SellingPrice      money.Money `json:"selling_price" validate:"gt=0"`
	GSTRate           int         `json:"gst_rate"`
	IsActive          *bool       `json:"is_active"`
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}
	rate, err := gst.ParseRate(input.GSTRate)
	if err != nil {
		return nil, err
	}

	product := &entity.Product{
		ShopID:            input.ShopID,
		Name:              strings.TrimSpace(input.Name),
		HSNCode:           input.HSNCode,
		Category:          strings.TrimSpace(input.Category),
		UnitOfMeasurement: unitOrDefault(input.UnitOfMeasurement),
		BasePrice:         input.BasePrice,
		SellingPrice:      input.SellingPrice,
		GSTRate:           rate,
		IsActive:          true,
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"product_id": product.ID, "shop_id": product.ShopID}).Info("product created")
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, shopID, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, shopID uuid.UUID, params *repository.ProductFilterParams) (*pagination.Result[entity.Product], error) {
	if params == nil {
		params = &repository.ProductFilterParams{}
	}
	if params.Pagination == nil {
		params.Pagination = pagination.Default()
	}
	params.Pagination.Validate()

	products, total, err := s.productRepo.List(ctx, shopID, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewResult(products, params.Pagination, total), nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	ShopID            uuid.UUID    `json:"shop_id" validate:"required"`
	ProductID         uuid.UUID    `json:"product_id" validate:"required"`
	Name              *string      `json:"name" validate:"omitempty,min=1,max=255"`
	HSNCode           *string      `json:"hsn_code" validate:"omitempty,numeric,min=4,max=8"`
	Category          *string      `json:"category" validate:"omitempty,max=100"`
	UnitOfMeasurement *string      `json:"unit_of_measurement" validate:"omitempty,max=20"`
	BasePrice         *money.Money `json:"base_price" validate:"omitempty,gt=0"`
	SellingPrice      *money.Money `json:"selling_price" validate:"omitempty,gt=0"`
	GSTRate           *int         `json:"gst_rate"`
	IsActive          *bool        `json:"is_active"`
}

// UpdateProduct updates a product. Existing orders keep the values they were sold at.
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	product, err := s.GetProduct(ctx, input.ShopID, input.ProductID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.HSNCode != nil {
		product.HSNCode = *input.HSNCode
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.UnitOfMeasurement != nil {
		product.UnitOfMeasurement = unitOrDefault(*input.UnitOfMeasurement)
	}
	if input.BasePrice != nil {
		product.BasePrice = *input.BasePrice
	}
	if input.SellingPrice != nil {
		product.SellingPrice = *input.SellingPrice
	}
	if input.GSTRate != nil {
		rate, err := gst.ParseRate(*input.GSTRate)
		if err != nil {
			return nil, err
		}
		product.GSTRate = rate
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct soft-deletes a product. It can no longer be sold.
func (s *ProductService) DeleteProduct(ctx context.Context, shopID, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, shopID, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, shopID, id)
}

// PriceQuote is a product's price with the GST that applies for a place of supply
type PriceQuote struct {
	ProductID      uuid.UUID      `json:"product_id"`
	GSTRate        gst.Rate       `json:"gst_rate"`
	ExclusivePrice money.Money    `json:"exclusive_price"`
	InclusivePrice money.Money    `json:"inclusive_price"`
	SupplyType     gst.SupplyType `json:"supply_type"`
	TaxLines       []gst.TaxLine  `json:"tax_lines"`
	TaxAmount      money.Money    `json:"tax_amount"`
}

// GetPriceQuote prices one unit of a product for a place of supply. An
// empty placeOfSupply means a sale within the shop's state.
func (s *ProductService) GetPriceQuote(ctx context.Context, shopID, id uuid.UUID, placeOfSupply string) (*PriceQuote, error) {
	product, err := s.GetProduct(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, apperror.NewNotFoundError("Shop")
	}
	if strings.TrimSpace(placeOfSupply) == "" {
		placeOfSupply = shop.State
	}

	inclusive, err := gst.CalculateInclusivePrice(product.SellingPrice, product.GSTRate)
	if err != nil {
		return nil, err
	}
	lines, err := gst.CalculateTax(product.SellingPrice, product.GSTRate, shop.State, placeOfSupply)
	if err != nil {
		return nil, err
	}
	return &PriceQuote{
		ProductID:      product.ID,
		GSTRate:        product.GSTRate,
		ExclusivePrice: product.SellingPrice,
		InclusivePrice: inclusive,
		SupplyType:     gst.SupplyTypeFor(shop.State, placeOfSupply),
		TaxLines:       lines,
		TaxAmount:      gst.GetTotalTaxAmount(lines),
	}, nil
}

// ImportProductRow represents a single row of a catalog import
type ImportProductRow struct {
	Name              string      `json:"name"`
	HSNCode           string      `json:"hsn_code"`
	Category          string      `json:"category"`
	UnitOfMeasurement string      `json:"unit_of_measurement"`
	BasePrice         money.Money `json:"base_price"`
	SellingPrice      money.Money `json:"selling_price"`
	GSTRate           int         `json:"gst_rate"`
}

// ImportResult contains the result of a product import operation
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError describes an error for a specific row during import
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportProducts validates each row and bulk-creates the valid ones. Rows
// are numbered from 1.
func (s *ProductService) ImportProducts(ctx context.Context, shopID uuid.UUID, rows []ImportProductRow) (*ImportResult, error) {
	result := &ImportResult{TotalRows: len(rows)}
	var valid []entity.Product

	// Track name+HSN pairs to catch duplicates within the file
	seen := make(map[string]int)

	for i, row := range rows {
		rowNum := i + 1
		input := CreateProductInput{
			ShopID:            shopID,
			Name:              row.Name,
			HSNCode:           strings.TrimSpace(row.HSNCode),
			Category:          row.Category,
			UnitOfMeasurement: row.UnitOfMeasurement,
			BasePrice:         row.BasePrice,
			SellingPrice:      row.SellingPrice,
			GSTRate:           row.GSTRate,
		}
		if err := validateStruct(s.validate, &input); err != nil {
			for _, fe := range apperror.GetAppError(err).Errors {
				result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Field: fe.Field, Message: fe.Message})
			}
			continue
		}
		rate, err := gst.ParseRate(row.GSTRate)
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Field: "gst_rate", Message: err.Error()})
			continue
		}

		key := strings.ToLower(strings.TrimSpace(row.Name)) + "|" + input.HSNCode
		if prev, dup := seen[key]; dup {
			result.Errors = append(result.Errors, ImportRowError{
				Row:     rowNum,
				Field:   "name",
				Message: fmt.Sprintf("duplicate of row %d", prev),
			})
			continue
		}
		seen[key] = rowNum

		valid = append(valid, entity.Product{
			ShopID:            shopID,
			Name:              strings.TrimSpace(row.Name),
			HSNCode:           input.HSNCode,
			Category:          strings.TrimSpace(row.Category),
			UnitOfMeasurement: unitOrDefault(row.UnitOfMeasurement),
			BasePrice:         row.BasePrice,
			SellingPrice:      row.SellingPrice,
			GSTRate:           rate,
			IsActive:          true,
		})
	}

	if len(valid) > 0 {
		if err := s.productRepo.CreateBatch(ctx, valid); err != nil {
			return nil, err
		}
	}

	result.Successful = len(valid)
	result.Failed = result.TotalRows - len(valid)
	s.log.WithFields(logrus.Fields{
		"shop_id":    shopID,
		"successful": result.Successful,
		"failed":     result.Failed,
	}).Info("products imported")
	return result, nil
}

func unitOrDefault(unit string) string {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return "pcs"
	}
	return unit
}
