package repository

import (
	"context"
	"time"

	"github.com/eazyque/eazyque-api/internal/domain/enum"
	domainRepo "github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// saleStatuses excludes cancelled and refunded orders from sales figures
const saleStatuses = "o.status NOT IN ('CANCELLED', 'REFUNDED')"

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetSalesSummary(ctx context.Context, shopID uuid.UUID, from, to time.Time) (*domainRepo.SalesSummary, error) {
	var summary domainRepo.SalesSummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(o.total_amount), 0) AS revenue,
			COALESCE(SUM(o.tax_amount), 0) AS tax,
			COUNT(o.id) AS order_count
		FROM orders o
		WHERE o.shop_id = ? AND `+saleStatuses+`
		AND o.created_at >= ? AND o.created_at < ?
	`, shopID, from, to).Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *analyticsRepository) CountOrdersByStatus(ctx context.Context, shopID uuid.UUID) (map[enum.OrderStatus]int, error) {
	var rows []struct {
		Status enum.OrderStatus
		Count  int
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT status, COUNT(*) AS count
		FROM orders
		WHERE shop_id = ?
		GROUP BY status
	`, shopID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[enum.OrderStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *analyticsRepository) CountLowStock(ctx context.Context, shopID uuid.UUID) (int, error) {
	var count int
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM inventory
		WHERE shop_id = ? AND quantity <= min_stock_level
	`, shopID).Scan(&count).Error
	return count, err
}

func (r *analyticsRepository) GetTopProducts(ctx context.Context, shopID uuid.UUID, limit int) ([]domainRepo.TopProductResult, error) {
	var results []domainRepo.TopProductResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			oi.product_id AS product_id,
			MAX(oi.product_name) AS product_name,
			COALESCE(SUM(oi.quantity), 0) AS quantity_sold,
			COALESCE(SUM(oi.total_price), 0) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.shop_id = ? AND `+saleStatuses+`
		GROUP BY oi.product_id
		ORDER BY revenue DESC
		LIMIT ?
	`, shopID, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *analyticsRepository) GetTopCustomers(ctx context.Context, shopID uuid.UUID, limit int) ([]domainRepo.TopCustomerResult, error) {
	var results []domainRepo.TopCustomerResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			c.id AS customer_id,
			c.name AS customer_name,
			COALESCE(SUM(o.total_amount), 0) AS total_spent,
			COUNT(o.id) AS order_count
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE o.shop_id = ? AND `+saleStatuses+`
		GROUP BY c.id, c.name
		ORDER BY total_spent DESC
		LIMIT ?
	`, shopID, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetDailySales returns one row per day for the last days days, oldest first.
// Days without sales are present with zero values.
func (r *analyticsRepository) GetDailySales(ctx context.Context, shopID uuid.UUID, days int) ([]domainRepo.DailySalesResult, error) {
	if days < 1 {
		days = 1
	}
	var results []domainRepo.DailySalesResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			d.day AS date,
			COALESCE(SUM(o.total_amount), 0) AS revenue,
			COALESCE(SUM(o.tax_amount), 0) AS tax,
			COUNT(o.id) AS order_count
		FROM generate_series(CURRENT_DATE - (? - 1) * INTERVAL '1 day', CURRENT_DATE, INTERVAL '1 day') AS d(day)
		LEFT JOIN orders o
			ON o.shop_id = ? AND `+saleStatuses+`
			AND o.created_at >= d.day AND o.created_at < d.day + INTERVAL '1 day'
		GROUP BY d.day
		ORDER BY d.day ASC
	`, days, shopID).Scan(&results).Error

	if err != nil {
		return nil, err
	}
	return results, nil
}
