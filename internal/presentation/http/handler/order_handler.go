package handler

import (
	"net/http"

	"github.com/eazyque/eazyque-api/internal/application/service"
	"github.com/eazyque/eazyque-api/internal/domain/enum"
	"github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/eazyque/eazyque-api/internal/presentation/http/dto/request"
	"github.com/eazyque/eazyque-api/internal/presentation/http/dto/response"
	"github.com/eazyque/eazyque-api/internal/presentation/http/middleware"
	"github.com/eazyque/eazyque-api/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List handles listing orders
func (h *OrderHandler) List(c *gin.Context) {
	shopID, ok := requireShop(c)
	if !ok {
		return
	}

	var filter request.OrderFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.OrderFilterParams{
		Pagination: pageParams(filter.Page, filter.PerPage),
		Search:     filter.Search,
		CustomerID: queryUUID(filter.CustomerID),
		StartDate:  queryDate(filter.StartDate, false),
		EndDate:    queryDate(filter.EndDate, true),
		SortOrder:  filter.SortOrder,
	}

	if filter.Status != "" {
		status, err := enum.ParseOrderStatus(filter.Status)
		if err != nil {
			response.Error(c, apperror.NewFieldError("status", err.Error()))
			return
		}
		params.Status = &status
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), shopID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Orders retrieved successfully", result)
}

// Get handles getting a single order with its items and tax lines
func (h *OrderHandler) Get(c *gin.Context) {
	shopID, ok := requireShop(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "order")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), shopID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// Create handles order creation
func (h *OrderHandler) Create(c *gin.Context) {
	shopID, ok := requireShop(c)
	if !ok {
		return
	}

	var input service.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	input.ShopID = shopID
	input.CashierID = GetUserID(c)

	order, err := h.orderService.CreateOrder(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created successfully", order)
}

// Cancel handles cancelling an order and restoring its stock
func (h *OrderHandler) Cancel(c *gin.Context) {
	shopID, ok := requireShop(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "order")
	if !ok {
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), shopID, id, GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order cancelled successfully", order)
}

// UpdateStatus handles moving an order to a new status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	shopID, ok := requireShop(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "order")
	if !ok {
		return
	}

	var req request.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	status, err := enum.ParseOrderStatus(req.Status)
	if err != nil {
		response.Error(c, apperror.NewFieldError("status", err.Error()))
		return
	}
	if status == enum.OrderStatusCancelled && !middleware.GetUserRole(c).Can(enum.PermCancelOrders) {
		response.Forbidden(c, "You do not have permission to perform this action")
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), shopID, id, status, GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order status updated successfully", order)
}

// Invoice handles fetching the GST tax invoice of an order
func (h *OrderHandler) Invoice(c *gin.Context) {
	shopID, ok := requireShop(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "order")
	if !ok {
		return
	}

	invoice, err := h.orderService.GetInvoice(c.Request.Context(), shopID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}
