package handler

import (
	"github.com/eazyque/eazyque-api/internal/application/service"
	"github.com/eazyque/eazyque-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// UserHandler handles staff management HTTP requests
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List handles listing the shop's staff
func (h *UserHandler) List(c *gin.Context) {
	shopID, ok := requireShop(c)
	if !ok {
		return
	}

	users, err := h.userService.ListStaff(c.Request.Context(), shopID)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]gin.H, len(users))
	for i := range users {
		out[i] = userPayload(&users[i])
	}
	response.OK(c, "Staff retrieved successfully", out)
}

// Create handles adding a manager or cashier to the shop
func (h *UserHandler) Create(c *gin.Context) {
	shopID, ok := requireShop(c)
	if !ok {
		return
	}

	var input service.CreateStaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	input.ShopID = shopID

	user, err := h.userService.CreateStaff(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Staff member created successfully", userPayload(user))
}
