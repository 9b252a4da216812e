package repository

import (
	"errors"
	"strings"

	domainRepo "github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/eazyque/eazyque-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShopScope returns a GORM scope that filters by shop.
// It should be applied to every query on a shop-owned table.
func ShopScope(shopID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if shopID == uuid.Nil {
			// Fail-safe: no shop, no rows
			return db.Where("1 = 0")
		}
		return db.Where("shop_id = ?", shopID)
	}
}

// Paginate applies offset and limit for a page
func Paginate(params *pagination.Params) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		params.Validate()
		return db.Offset(params.Offset()).Limit(params.PerPage)
	}
}

// sortDirection maps user input onto ASC or DESC, defaulting to DESC
func sortDirection(order string) string {
	if strings.EqualFold(order, "asc") {
		return "ASC"
	}
	return "DESC"
}

// like wraps a search term for ILIKE
func like(term string) string {
	return "%" + term + "%"
}

// translate maps driver errors onto the domain's sentinel errors. The
// connection is opened with TranslateError so unique violations (23505)
// arrive as gorm.ErrDuplicatedKey.
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Join(domainRepo.ErrDuplicateKey, err)
	}
	return err
}

// firstOrNil turns gorm.ErrRecordNotFound into nil, nil
func firstOrNil[T any](v *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
