package handler

import (
	"net/http"

	"github.com/eazyque/eazyque-api/internal/application/service"
	"github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/eazyque/eazyque-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// customerListQuery represents customer list parameters
type customerListQuery struct {
	Search  string `form:"search"`
	Phone   string `form:"phone"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}

// List handles listing customers. A phone query looks up a single customer.
func (h *CustomerHandler) List(c *gin.Context) {
	shopID, ok := requireShop(c)
	if !ok {
		return
	}

	var q customerListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	if q.Phone != "" {
		customer, err := h.customerService.FindByPhone(c.Request.Context(), shopID, q.Phone)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Customer retrieved successfully", customer)
		return
	}

	result, err := h.customerService.ListCustomers(c.Request.Context(), shopID, &repository.CustomerFilterParams{
		Pagination: pageParams(q.Page, q.PerPage),
		Search:     q.Search,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Customers retrieved successfully", result)
}

// Get handles getting a single customer
func (h *CustomerHandler) Get(c *gin.Context) {
	shopID, ok := requireShop(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "customer")
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), shopID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved successfully", customer)
}

// Create handles customer creation
func (h *CustomerHandler) Create(c *gin.Context) {
	shopID, ok := requireShop(c)
	if !ok {
		return
	}

	var input service.CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	input.ShopID = shopID

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Customer created successfully", customer)
}

// Update handles customer profile updates
func (h *CustomerHandler) Update(c *gin.Context) {
	shopID, ok := requireShop(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "customer")
	if !ok {
		return
	}

	var input service.UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	input.ShopID = shopID
	input.CustomerID = id

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer updated successfully", customer)
}
