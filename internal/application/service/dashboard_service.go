package service

import (
	"context"
	"time"

	"github.com/eazyque/eazyque-api/internal/domain/enum"
	"github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/google/uuid"
)

// DashboardService provides dashboard statistics
type DashboardService struct {
	analytics repository.AnalyticsRepository
	now       func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(analytics repository.AnalyticsRepository) *DashboardService {
	return &DashboardService{analytics: analytics, now: time.Now}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	Today          repository.SalesSummary        `json:"today"`
	Month          repository.SalesSummary        `json:"month"`
	OrdersByStatus map[enum.OrderStatus]int       `json:"orders_by_status"`
	LowStockCount  int                            `json:"low_stock_count"`
	TopProducts    []repository.TopProductResult  `json:"top_products"`
	TopCustomers   []repository.TopCustomerResult `json:"top_customers"`
	DailySales     []repository.DailySalesResult  `json:"daily_sales"`
}

const (
	dashboardTopN = 5
	dashboardDays = 7
)

// GetDashboardStats returns today's and this month's sales, GST collected,
// order counts and the low-stock count for the shop.
func (s *DashboardService) GetDashboardStats(ctx context.Context, shopID uuid.UUID) (*DashboardStats, error) {
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := &DashboardStats{}

	today, err := s.analytics.GetSalesSummary(ctx, shopID, startOfDay, now)
	if err != nil {
		return nil, err
	}
	stats.Today = *today

	month, err := s.analytics.GetSalesSummary(ctx, shopID, startOfMonth, now)
	if err != nil {
		return nil, err
	}
	stats.Month = *month

	if stats.OrdersByStatus, err = s.analytics.CountOrdersByStatus(ctx, shopID); err != nil {
		return nil, err
	}
	if stats.LowStockCount, err = s.analytics.CountLowStock(ctx, shopID); err != nil {
		return nil, err
	}
	if stats.TopProducts, err = s.analytics.GetTopProducts(ctx, shopID, dashboardTopN); err != nil {
		return nil, err
	}
	if stats.TopCustomers, err = s.analytics.GetTopCustomers(ctx, shopID, dashboardTopN); err != nil {
		return nil, err
	}
	if stats.DailySales, err = s.analytics.GetDailySales(ctx, shopID, dashboardDays); err != nil {
		return nil, err
	}

	return stats, nil
}
