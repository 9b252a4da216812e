package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	"github.com/eazyque/eazyque-api/internal/domain/enum"
	"github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/eazyque/eazyque-api/internal/infrastructure/events"
	"github.com/eazyque/eazyque-api/internal/logger"
	"github.com/eazyque/eazyque-api/pkg/apperror"
	"github.com/eazyque/eazyque-api/pkg/gst"
	"github.com/eazyque/eazyque-api/pkg/money"
	"github.com/eazyque/eazyque-api/pkg/pagination"
	"github.com/eazyque/eazyque-api/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// EventPublisher is the part of events.Publisher the services need
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// OrderConfig holds the stock and loyalty settings used by order processing.
type OrderConfig struct {
	DefaultMinStockLevel         int
	DefaultMaxStockLevel         int
	LoyaltyPointsPerCurrencyUnit int
	// LoyaltyPointsThreshold is the spend that earns LoyaltyPointsPerCurrencyUnit points
	LoyaltyPointsThreshold money.Money
}

// DefaultOrderConfig returns 10/1000 stock levels and 1 point per ₹100.
func DefaultOrderConfig() OrderConfig {
	return OrderConfig{
		DefaultMinStockLevel:         10,
		DefaultMaxStockLevel:         1000,
		LoyaltyPointsPerCurrencyUnit: 1,
		LoyaltyPointsThreshold:       money.FromRupees(100),
	}
}

// StockLevels are the thresholds for a stock row created by a restore
func (c OrderConfig) StockLevels() repository.StockLevels {
	return repository.StockLevels{Min: c.DefaultMinStockLevel, Max: c.DefaultMaxStockLevel}
}

// LoyaltyPointsFor returns floor(total / threshold) × points per unit.
func (c OrderConfig) LoyaltyPointsFor(total money.Money) int {
	if c.LoyaltyPointsThreshold <= 0 || total <= 0 {
		return 0
	}
	return int(total/c.LoyaltyPointsThreshold) * c.LoyaltyPointsPerCurrencyUnit
}

// OrderService handles order creation, cancellation and status changes
type OrderService struct {
	store     repository.Store
	orders    repository.OrderRepository
	publisher EventPublisher
	cfg       OrderConfig
	validate  *validator.Validate
	log       *logrus.Entry
	now       func() time.Time
	newNumber func(time.Time) string
}

// orderNumberAttempts bounds retries after an order number collision
const orderNumberAttempts = 3

// NewOrderService creates a new order service
func NewOrderService(
	store repository.Store,
	orders repository.OrderRepository,
	publisher EventPublisher,
	cfg OrderConfig,
) *OrderService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &OrderService{
		store:     store,
		orders:    orders,
		publisher: publisher,
		cfg:       cfg,
		validate:  newValidator(),
		log:       logger.WithComponent("order_service"),
		now:       time.Now,
		newNumber: utils.GenerateOrderNumber,
	}
}

// OrderItemInput represents a cart line
type OrderItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gt=0"`
	// UnitPrice defaults to the product's selling price
	UnitPrice      *money.Money `json:"unit_price" validate:"omitempty,gt=0"`
	DiscountAmount money.Money  `json:"discount_amount" validate:"gte=0"`
}

// CreateOrderInput represents the create order input
type CreateOrderInput struct {
	ShopID        uuid.UUID  `json:"shop_id" validate:"required"`
	CashierID     *uuid.UUID `json:"cashier_id"`
	CustomerID    *uuid.UUID `json:"customer_id"`
	CustomerName  string     `json:"customer_name" validate:"max=255"`
	CustomerPhone *string    `json:"customer_phone"`
	// PlaceOfSupply defaults to the shop's state
	PlaceOfSupply   string             `json:"place_of_supply" validate:"max=100"`
	Items           []OrderItemInput   `json:"items" validate:"required,min=1,dive"`
	PaymentMethod   enum.PaymentMethod `json:"payment_method" validate:"required"`
	DiscountAmount  money.Money        `json:"discount_amount" validate:"gte=0"`
	IsDelivery      bool               `json:"is_delivery"`
	DeliveryAddress *string            `json:"delivery_address"`
	Notes           *string            `json:"notes"`
}

// check runs the tag rules plus the cross-field rules the tags cannot express.
func (in *CreateOrderInput) check(v *validator.Validate) error {
	if err := validateStruct(v, in); err != nil {
		return err
	}
	var errs []apperror.FieldError
	if !in.PaymentMethod.Valid() {
		errs = append(errs, apperror.FieldError{Field: "payment_method", Message: "must be one of: CASH, UPI, CARD, WALLET, SPLIT"})
	}
	if in.CustomerID == nil && strings.TrimSpace(in.CustomerName) == "" {
		errs = append(errs, apperror.FieldError{Field: "customer_name", Message: "is required"})
	}
	if in.IsDelivery && (in.DeliveryAddress == nil || strings.TrimSpace(*in.DeliveryAddress) == "") {
		errs = append(errs, apperror.FieldError{Field: "delivery_address", Message: "is required for delivery orders"})
	}
	if in.CustomerPhone != nil && strings.TrimSpace(*in.CustomerPhone) != "" {
		phone, err := utils.NormalizePhone(*in.CustomerPhone)
		if err != nil {
			errs = append(errs, apperror.FieldError{Field: "customer_phone", Message: "must be a valid phone number"})
		} else {
			in.CustomerPhone = &phone
		}
	} else {
		in.CustomerPhone = nil
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

// pricedLine is a cart line joined with its product
type pricedLine struct {
	product *entity.Product
	line    gst.LineItem
}

// demand is the total quantity requested for one product across lines.
type demand struct {
	productID uuid.UUID
	name      string
	quantity  int
}

// CreateOrder prices the cart, then writes the order, decrements stock,
// records audit rows and credits loyalty in one transaction.
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
	if err := input.check(s.validate); err != nil {
		return nil, err
	}

	shop, err := s.store.FindShop(ctx, input.ShopID)
	if err != nil {
		return nil, storeError("load shop", err)
	}
	if shop == nil {
		return nil, apperror.NewNotFoundError("Shop")
	}
	placeOfSupply := strings.TrimSpace(input.PlaceOfSupply)
	if placeOfSupply == "" {
		placeOfSupply = shop.State
	}

	// Resolve products and aggregate demand per product
	lines := make([]pricedLine, len(input.Items))
	var demands []*demand
	byProduct := make(map[uuid.UUID]*demand)
	for i, item := range input.Items {
		product, err := s.store.FindProductByIDAndShop(ctx, item.ProductID, shop.ID)
		if err != nil {
			return nil, storeError("load product", err)
		}
		if product == nil || !product.Sellable() {
			return nil, apperror.NewProductNotFoundError(item.ProductID)
		}
		unitPrice := product.SellingPrice
		if item.UnitPrice != nil {
			unitPrice = *item.UnitPrice
		}
		lines[i] = pricedLine{
			product: product,
			line: gst.LineItem{
				Quantity:       item.Quantity,
				UnitPrice:      unitPrice,
				DiscountAmount: item.DiscountAmount,
			},
		}
		d, ok := byProduct[product.ID]
		if !ok {
			d = &demand{productID: product.ID, name: product.Name}
			byProduct[product.ID] = d
			demands = append(demands, d)
		}
		d.quantity += item.Quantity
	}

	// Fail fast on stock before doing any pricing work; the decrement re-checks
	for _, d := range demands {
		available, err := s.store.SumInventoryQuantity(ctx, d.productID, shop.ID)
		if err != nil {
			return nil, storeError("check stock", err)
		}
		if available < d.quantity {
			return nil, apperror.NewInsufficientStockError(d.productID, d.name, available, d.quantity)
		}
	}

	order, err := s.priceOrder(input, shop, placeOfSupply, lines)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		err := s.commitOrder(ctx, order, demands)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicateKey) || attempt == orderNumberAttempts {
			return nil, err
		}
		s.log.WithField("order_number", order.OrderNumber).Warn("order number collision, retrying")
		order.OrderNumber = s.newNumber(s.now())
	}

	s.log.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"shop_id":      order.ShopID,
		"total":        order.TotalAmount.String(),
		"items":        len(order.Items),
	}).Info("order created")

	s.publish(ctx, events.Event{
		Type:        events.OrderCreated,
		ShopID:      order.ShopID,
		OrderID:     &order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
	})

	return s.reload(ctx, order), nil
}

// priceOrder builds the order with items, tax breakdown and totals.
func (s *OrderService) priceOrder(input *CreateOrderInput, shop *entity.Shop, placeOfSupply string, lines []pricedLine) (*entity.Order, error) {
	breakdown := newTaxBreakdown()
	items := make([]entity.OrderItem, len(lines))
	totalsInput := make([]gst.LineItem, len(lines))

	for i, pl := range lines {
		if err := pl.line.Validate(i); err != nil {
			return nil, err
		}
		net := pl.line.Net()
		tax, err := gst.CombinedTax(net, pl.product.GSTRate)
		if err != nil {
			return nil, err
		}
		taxLines, err := gst.CalculateTax(net, pl.product.GSTRate, shop.State, placeOfSupply)
		if err != nil {
			return nil, err
		}
		breakdown.add(net, taxLines)

		pl.line.TaxAmount = tax
		totalsInput[i] = pl.line
		items[i] = entity.OrderItem{
			ProductID:      pl.product.ID,
			ProductName:    pl.product.Name,
			HSNCode:        pl.product.HSNCode,
			GSTRate:        pl.product.GSTRate,
			Quantity:       pl.line.Quantity,
			UnitPrice:      pl.line.UnitPrice,
			DiscountAmount: pl.line.DiscountAmount,
			TaxAmount:      tax,
			TotalPrice:     net + tax,
		}
	}

	totals, err := gst.CalculateOrderTotals(totalsInput, input.DiscountAmount)
	if err != nil {
		return nil, err
	}
	if input.DiscountAmount > totals.Subtotal {
		return nil, apperror.NewFieldError("discount_amount",
			fmt.Sprintf("discount %s exceeds subtotal %s", input.DiscountAmount, totals.Subtotal))
	}

	now := s.now()
	order := &entity.Order{
		ID:              uuid.New(),
		OrderNumber:     s.newNumber(now),
		ShopID:          shop.ID,
		CashierID:       input.CashierID,
		CustomerID:      input.CustomerID,
		CustomerName:    strings.TrimSpace(input.CustomerName),
		CustomerPhone:   input.CustomerPhone,
		PlaceOfSupply:   placeOfSupply,
		SupplyType:      gst.SupplyTypeFor(shop.State, placeOfSupply),
		Subtotal:        totals.Subtotal,
		TaxAmount:       totals.TotalTax,
		DiscountAmount:  input.DiscountAmount,
		TotalAmount:     totals.FinalAmount,
		Status:          enum.OrderStatusPending,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   enum.PaymentStatusPending,
		IsDelivery:      input.IsDelivery,
		DeliveryAddress: input.DeliveryAddress,
		Notes:           input.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
		Items:           items,
		TaxLines:        breakdown.lines(),
	}
	if order.CustomerID != nil {
		order.LoyaltyPoints = s.cfg.LoyaltyPointsFor(order.TotalAmount)
	}
	return order, nil
}

// commitOrder is the transactional part of CreateOrder.
func (s *OrderService) commitOrder(ctx context.Context, order *entity.Order, demands []*demand) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return storeError("begin transaction", err)
	}
	defer tx.Rollback()

	// Products may have been deactivated since pricing
	for _, d := range demands {
		product, err := tx.FindProductByIDAndShop(ctx, d.productID, order.ShopID)
		if err != nil {
			return storeError("create order", err)
		}
		if product == nil || !product.Sellable() {
			return apperror.NewProductNotFoundError(d.productID)
		}
	}

	if order.CustomerID != nil {
		customer, err := tx.GetCustomer(ctx, order.ShopID, *order.CustomerID)
		if err != nil {
			return storeError("create order", err)
		}
		if customer == nil {
			return apperror.NewNotFoundError("Customer")
		}
		if order.CustomerName == "" {
			order.CustomerName = customer.Name
		}
		if order.CustomerPhone == nil {
			phone := customer.Phone
			order.CustomerPhone = &phone
		}
	}

	if err := tx.CreateOrderWithItems(ctx, order); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return apperror.NewTransactionFailure("create order", fmt.Errorf("order number %s already used: %w", order.OrderNumber, err))
		}
		return storeError("create order", err)
	}

	for _, d := range demands {
		affected, err := tx.ConditionalDecrementInventory(ctx, d.productID, order.ShopID, d.quantity)
		if err != nil {
			return storeError("decrement stock", err)
		}
		remaining, err := tx.SumInventoryQuantity(ctx, d.productID, order.ShopID)
		if err != nil {
			return storeError("decrement stock", err)
		}
		if affected == 0 {
			// Another sale took the stock after the pre-check
			return apperror.NewInsufficientStockError(d.productID, d.name, remaining, d.quantity)
		}
		if err := tx.AppendInventoryAudit(ctx, &entity.InventoryAudit{
			ShopID:      order.ShopID,
			ProductID:   d.productID,
			OldQuantity: remaining + d.quantity,
			NewQuantity: remaining,
			Delta:       -d.quantity,
			Reason:      enum.AuditReasonSale,
			ReferenceID: &order.ID,
			ActorID:     order.CashierID,
			CreatedAt:   order.CreatedAt,
		}); err != nil {
			return storeError("record audit", err)
		}
	}

	if order.CustomerID != nil {
		if err := tx.IncrementCustomerLoyalty(ctx, *order.CustomerID, order.LoyaltyPoints, order.TotalAmount); err != nil {
			return storeError("credit loyalty", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storeError("commit order", err)
	}
	return nil
}

// CancelOrder cancels a pending or processing order, returning its stock
// and reversing the loyalty it earned.
func (s *OrderService) CancelOrder(ctx context.Context, shopID, orderID uuid.UUID, actorID *uuid.UUID) (*entity.Order, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, storeError("begin transaction", err)
	}
	defer tx.Rollback()

	order, err := tx.GetOrderForUpdate(ctx, shopID, orderID)
	if err != nil {
		return nil, storeError("cancel order", err)
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	switch order.Status {
	case enum.OrderStatusCancelled:
		return nil, apperror.NewAlreadyCancelledError(order.OrderNumber)
	case enum.OrderStatusCompleted, enum.OrderStatusRefunded:
		return nil, apperror.NewCannotCancelCompletedError(order.OrderNumber)
	}

	now := s.now()
	affected, err := tx.UpdateOrderStatus(ctx, order.ID, order.Status, repository.OrderStatusUpdate{
		Status:      enum.OrderStatusCancelled,
		CancelledAt: &now,
	})
	if err != nil {
		return nil, storeError("cancel order", err)
	}
	if affected == 0 {
		return nil, apperror.NewAlreadyCancelledError(order.OrderNumber)
	}

	// Restore stock, one audit row per product
	restore := make(map[uuid.UUID]int)
	var productIDs []uuid.UUID
	for _, item := range order.Items {
		if _, ok := restore[item.ProductID]; !ok {
			productIDs = append(productIDs, item.ProductID)
		}
		restore[item.ProductID] += item.Quantity
	}
	for _, productID := range productIDs {
		qty := restore[productID]
		if err := tx.IncrementInventory(ctx, productID, order.ShopID, qty, s.cfg.StockLevels()); err != nil {
			return nil, storeError("restore stock", err)
		}
		total, err := tx.SumInventoryQuantity(ctx, productID, order.ShopID)
		if err != nil {
			return nil, storeError("restore stock", err)
		}
		if err := tx.AppendInventoryAudit(ctx, &entity.InventoryAudit{
			ShopID:      order.ShopID,
			ProductID:   productID,
			OldQuantity: total - qty,
			NewQuantity: total,
			Delta:       qty,
			Reason:      enum.AuditReasonCancellation,
			ReferenceID: &order.ID,
			ActorID:     actorID,
			CreatedAt:   now,
		}); err != nil {
			return nil, storeError("record audit", err)
		}
	}

	if order.CustomerID != nil {
		if err := tx.IncrementCustomerLoyalty(ctx, *order.CustomerID, -order.LoyaltyPoints, -order.TotalAmount); err != nil {
			return nil, storeError("reverse loyalty", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, storeError("commit cancellation", err)
	}

	order.Status = enum.OrderStatusCancelled
	order.CancelledAt = &now
	order.UpdatedAt = now

	s.log.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"shop_id":      order.ShopID,
	}).Info("order cancelled")

	s.publish(ctx, events.Event{
		Type:        events.OrderCancelled,
		ShopID:      order.ShopID,
		OrderID:     &order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
	})

	return s.reload(ctx, order), nil
}

// UpdateStatus moves an order along its lifecycle. CANCELLED is handled by
// CancelOrder; COMPLETED marks the order paid.
func (s *OrderService) UpdateStatus(ctx context.Context, shopID, orderID uuid.UUID, status enum.OrderStatus, actorID *uuid.UUID) (*entity.Order, error) {
	if !status.Settable() {
		return nil, apperror.NewFieldError("status", "must be one of: PENDING, PROCESSING, COMPLETED, CANCELLED")
	}
	if status == enum.OrderStatusCancelled {
		return s.CancelOrder(ctx, shopID, orderID, actorID)
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, storeError("begin transaction", err)
	}
	defer tx.Rollback()

	order, err := tx.GetOrderForUpdate(ctx, shopID, orderID)
	if err != nil {
		return nil, storeError("update order status", err)
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if order.Status == status {
		return order, nil
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, apperror.NewFieldError("status",
			fmt.Sprintf("cannot change status from %s to %s", order.Status, status))
	}

	update := repository.OrderStatusUpdate{Status: status}
	if status == enum.OrderStatusCompleted {
		paid := enum.PaymentStatusPaid
		update.PaymentStatus = &paid
	}
	affected, err := tx.UpdateOrderStatus(ctx, order.ID, order.Status, update)
	if err != nil {
		return nil, storeError("update order status", err)
	}
	if affected == 0 {
		return nil, apperror.NewConflictError("Order status was changed by another request; reload and retry")
	}
	if err := tx.Commit(); err != nil {
		return nil, storeError("commit status change", err)
	}

	previous := order.Status
	order.Status = status
	if update.PaymentStatus != nil {
		order.PaymentStatus = *update.PaymentStatus
	}

	s.log.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"from":         previous,
		"to":           status,
	}).Info("order status changed")

	s.publish(ctx, events.Event{
		Type:        events.OrderStatusChanged,
		ShopID:      order.ShopID,
		OrderID:     &order.ID,
		OrderNumber: order.OrderNumber,
		Status:      status,
		TotalAmount: order.TotalAmount,
	})

	return s.reload(ctx, order), nil
}

// GetOrder returns an order with items, tax lines, customer and cashier
func (s *OrderService) GetOrder(ctx context.Context, shopID, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orders.GetWithDetails(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders lists orders with pagination and filtering
func (s *OrderService) ListOrders(ctx context.Context, shopID uuid.UUID, params *repository.OrderFilterParams) (*pagination.Result[entity.Order], error) {
	if params == nil {
		params = &repository.OrderFilterParams{}
	}
	if params.Pagination == nil {
		params.Pagination = pagination.Default()
	}
	params.Pagination.Validate()
	if params.Status != nil && !params.Status.Valid() {
		return nil, apperror.NewFieldError("status", "unknown order status")
	}

	orders, total, err := s.orders.List(ctx, shopID, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewResult(orders, params.Pagination, total), nil
}

// GetInvoice builds the GST tax invoice for an order.
func (s *OrderService) GetInvoice(ctx context.Context, shopID, id uuid.UUID) (*entity.TaxInvoice, error) {
	order, err := s.GetOrder(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	shop, err := s.store.FindShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, apperror.NewNotFoundError("Shop")
	}
	return entity.NewTaxInvoice(shop, order), nil
}

// reload re-reads the committed order; the in-memory copy is returned if that fails.
func (s *OrderService) reload(ctx context.Context, order *entity.Order) *entity.Order {
	fresh, err := s.orders.GetWithDetails(ctx, order.ShopID, order.ID)
	if err != nil || fresh == nil {
		if err != nil {
			logger.LogError(s.log, "reload", order.OrderNumber, err)
		}
		return order
	}
	return fresh
}

func (s *OrderService) publish(ctx context.Context, event events.Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now()
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.WithError(err).WithField("event", event.Type).Warn("failed to publish event")
	}
}

type taxKey struct {
	kind gst.Kind
	rate string
}

// taxBreakdown groups tax lines by kind and rate
type taxBreakdown struct {
	rows map[taxKey]*entity.OrderTaxLine
}

func newTaxBreakdown() *taxBreakdown {
	return &taxBreakdown{rows: make(map[taxKey]*entity.OrderTaxLine)}
}

func (b *taxBreakdown) add(taxable money.Money, lines []gst.TaxLine) {
	for _, l := range lines {
		key := taxKey{kind: l.Kind, rate: l.Rate.String()}
		row, ok := b.rows[key]
		if !ok {
			row = &entity.OrderTaxLine{Kind: l.Kind, Rate: l.Rate}
			b.rows[key] = row
		}
		row.TaxableAmount += taxable
		row.Amount += l.Amount
	}
}

// lines returns the rows ordered by rate, then kind.
func (b *taxBreakdown) lines() []entity.OrderTaxLine {
	out := make([]entity.OrderTaxLine, 0, len(b.rows))
	for _, row := range b.rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Rate.Cmp(out[j].Rate); c != 0 {
			return c < 0
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}
