package repository

import (
	"context"
	"time"

	"github.com/eazyque/eazyque-api/internal/domain/enum"
	"github.com/eazyque/eazyque-api/pkg/money"
	"github.com/google/uuid"
)

// TopProductResult represents a product's sales performance
type TopProductResult struct {
	ProductID    uuid.UUID   `json:"product_id"`
	ProductName  string      `json:"product_name"`
	QuantitySold int         `json:"quantity_sold"`
	Revenue      money.Money `json:"revenue"`
}

// TopCustomerResult represents a customer's spending data
type TopCustomerResult struct {
	CustomerID   uuid.UUID   `json:"customer_id"`
	CustomerName string      `json:"customer_name"`
	TotalSpent   money.Money `json:"total_spent"`
	OrderCount   int         `json:"order_count"`
}

// DailySalesResult represents sales data for a single day
type DailySalesResult struct {
	Date       time.Time   `json:"date"`
	Revenue    money.Money `json:"revenue"`
	Tax        money.Money `json:"tax"`
	OrderCount int         `json:"order_count"`
}

// SalesSummary aggregates non-cancelled orders in a time window
type SalesSummary struct {
	Revenue    money.Money `json:"revenue"`
	Tax        money.Money `json:"tax"`
	OrderCount int         `json:"order_count"`
}

// AnalyticsRepository defines aggregation queries for the dashboard.
// Cancelled and refunded orders are excluded from sales figures.
type AnalyticsRepository interface {
	GetSalesSummary(ctx context.Context, shopID uuid.UUID, from, to time.Time) (*SalesSummary, error)
	CountOrdersByStatus(ctx context.Context, shopID uuid.UUID) (map[enum.OrderStatus]int, error)
	CountLowStock(ctx context.Context, shopID uuid.UUID) (int, error)
	GetTopProducts(ctx context.Context, shopID uuid.UUID, limit int) ([]TopProductResult, error)
	GetTopCustomers(ctx context.Context, shopID uuid.UUID, limit int) ([]TopCustomerResult, error)
	GetDailySales(ctx context.Context, shopID uuid.UUID, days int) ([]DailySalesResult, error)
}
