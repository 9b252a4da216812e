package handler

import (
	"net/http"

	"github.com/eazyque/eazyque-api/internal/application/service"
	"github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/eazyque/eazyque-api/internal/presentation/http/dto/request"
	"github.com/eazyque/eazyque-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// InventoryHandler handles stock adjustments and the audit trail
type InventoryHandler struct {
	inventoryService *service.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// Adjust handles adding or removing stock for a product
func (h *InventoryHandler) Adjust(c *gin.Context) {
	shopID, ok := requireShop(c)
	if !ok {
		return
	}

	var input service.AdjustInventoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	input.ShopID = shopID
	input.ActorID = GetUserID(c)

	inv, err := h.inventoryService.AddOrAdjustInventory(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Inventory adjusted successfully", inv)
}

// List handles listing stock rows
func (h *InventoryHandler) List(c *gin.Context) {
	shopID, ok := requireShop(c)
	if !ok {
		return
	}

	var filter request.InventoryFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.inventoryService.ListInventory(c.Request.Context(), shopID, &repository.InventoryFilterParams{
		Pagination: pageParams(filter.Page, filter.PerPage),
		ProductID:  queryUUID(filter.ProductID),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Inventory retrieved successfully", result)
}

// LowStock handles listing rows at or below their minimum level
func (h *InventoryHandler) LowStock(c *gin.Context) {
	shopID, ok := requireShop(c)
	if !ok {
		return
	}

	rows, err := h.inventoryService.GetLowStock(c.Request.Context(), shopID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock retrieved successfully", rows)
}

// Audit handles listing the stock audit trail, newest first
func (h *InventoryHandler) Audit(c *gin.Context) {
	shopID, ok := requireShop(c)
	if !ok {
		return
	}

	var filter request.InventoryFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.inventoryService.ListAudit(c.Request.Context(), shopID, &repository.AuditFilterParams{
		Pagination:  pageParams(filter.Page, filter.PerPage),
		ProductID:   queryUUID(filter.ProductID),
		ReferenceID: queryUUID(filter.ReferenceID),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Inventory audit retrieved successfully", result)
}
