package handler

import (
	"github.com/eazyque/eazyque-api/internal/application/service"
	"github.com/eazyque/eazyque-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// TaxHandler exposes the GST calculator
type TaxHandler struct {
	taxService *service.TaxService
}

// NewTaxHandler creates a new tax handler
func NewTaxHandler(taxService *service.TaxService) *TaxHandler {
	return &TaxHandler{taxService: taxService}
}

// Calculate handles splitting GST on an amount
func (h *TaxHandler) Calculate(c *gin.Context) {
	var input service.TaxCalculationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.taxService.Calculate(&input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tax calculated successfully", result)
}
