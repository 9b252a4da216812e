package handler

import (
	"net/http"

	"github.com/eazyque/eazyque-api/internal/application/service"
	"github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/eazyque/eazyque-api/internal/presentation/http/dto/request"
	"github.com/eazyque/eazyque-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles listing products
func (h *ProductHandler) List(c *gin.Context) {
	shopID, ok := requireShop(c)
	if !ok {
		return
	}

	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.productService.ListProducts(c.Request.Context(), shopID, &repository.ProductFilterParams{
		Pagination: pageParams(filter.Page, filter.PerPage),
		Search:     filter.Search,
		Category:   filter.Category,
		ActiveOnly: filter.ActiveOnly,
		SortBy:     filter.SortBy,
		SortOrder:  filter.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Products retrieved successfully", result)
}

// Get handles getting a single product with its stock rows
func (h *ProductHandler) Get(c *gin.Context) {
	shopID, ok := requireShop(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "product")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), shopID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Create handles product creation
func (h *ProductHandler) Create(c *gin.Context) {
	shopID, ok := requireShop(c)
	if !ok {
		return
	}

	var input service.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	input.ShopID = shopID

	product, err := h.productService.CreateProduct(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Update handles partial product updates
func (h *ProductHandler) Update(c *gin.Context) {
	shopID, ok := requireShop(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "product")
	if !ok {
		return
	}

	var input service.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	input.ShopID = shopID
	input.ProductID = id

	product, err := h.productService.UpdateProduct(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// Delete handles product deletion
func (h *ProductHandler) Delete(c *gin.Context) {
	shopID, ok := requireShop(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "product")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), shopID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product deleted successfully", nil)
}

// Quote handles pricing one unit for a place of supply
func (h *ProductHandler) Quote(c *gin.Context) {
	shopID, ok := requireShop(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "product")
	if !ok {
		return
	}

	quote, err := h.productService.GetPriceQuote(c.Request.Context(), shopID, id, c.Query("place_of_supply"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Price quote calculated successfully", quote)
}

// Import handles bulk product creation. Rows are validated one by one and
// the response lists the failures.
func (h *ProductHandler) Import(c *gin.Context) {
	shopID, ok := requireShop(c)
	if !ok {
		return
	}

	var req request.ImportProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.productService.ImportProducts(c.Request.Context(), shopID, req.Products)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Products imported", result)
}
