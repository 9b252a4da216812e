package handler

import (
	"net/http"

	"github.com/eazyque/eazyque-api/internal/application/service"
	"github.com/eazyque/eazyque-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	receiptService *service.ReceiptService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(receiptService *service.ReceiptService) *PrinterHandler {
	return &PrinterHandler{receiptService: receiptService}
}

// Status reports whether the counter printer is reachable
func (h *PrinterHandler) Status(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.receiptService.GetStatus(c.Request.Context()))
}

// PrintOrder sends the order's receipt to the counter printer
func (h *PrinterHandler) PrintOrder(c *gin.Context) {
	shopID, ok := requireShop(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "order")
	if !ok {
		return
	}

	invoice, err := h.receiptService.PrintOrderReceipt(c.Request.Context(), shopID, id)
	if err != nil {
		if invoice == nil {
			response.Error(c, err)
			return
		}
		// The invoice exists but the printer failed; the client can still show it.
		response.Success(c, http.StatusBadGateway, "Printer error: "+err.Error(), invoice)
		return
	}

	response.OK(c, "Receipt printed successfully", invoice)
}
