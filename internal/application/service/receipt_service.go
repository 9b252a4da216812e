package service

import (
	"context"
	"fmt"

	"github.com/eazyque/eazyque-api/internal/domain/entity"
	"github.com/eazyque/eazyque-api/internal/logger"
	"github.com/eazyque/eazyque-api/pkg/money"
	"github.com/eazyque/eazyque-api/pkg/printer"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// InvoiceSource loads the tax invoice of an order
type InvoiceSource interface {
	GetInvoice(ctx context.Context, shopID, orderID uuid.UUID) (*entity.TaxInvoice, error)
}

// ReceiptService prints tax invoices on the counter's thermal printer.
type ReceiptService struct {
	invoices InvoiceSource
	printer  printer.Printer
	width    int
	log      *logrus.Entry
}

// NewReceiptService creates a new receipt service
func NewReceiptService(invoices InvoiceSource, p printer.Printer, width int) *ReceiptService {
	if p == nil {
		p = printer.Null{}
	}
	return &ReceiptService{
		invoices: invoices,
		printer:  p,
		width:    width,
		log:      logger.WithComponent("receipt_service"),
	}
}

// PrinterStatus describes the configured printer
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *ReceiptService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printer.Kind() != printer.KindNone,
		Connected:  s.printer.Ready(ctx),
		Type:       s.printer.Kind(),
	}
}

// PrintOrderReceipt prints the order's tax invoice and returns it, so the
// caller can show it when no printer is attached.
func (s *ReceiptService) PrintOrderReceipt(ctx context.Context, shopID, orderID uuid.UUID) (*entity.TaxInvoice, error) {
	inv, err := s.invoices.GetInvoice(ctx, shopID, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.printer.Print(ctx, FormatReceipt(inv, s.width)); err != nil {
		logger.LogError(s.log, "PrintOrderReceipt", inv.InvoiceNo, err)
		return inv, fmt.Errorf("failed to print receipt: %w", err)
	}
	return inv, nil
}

// FormatReceipt lays a tax invoice out as an ESC/POS job.
func FormatReceipt(inv *entity.TaxInvoice, width int) []byte {
	doc := printer.NewDocument(width)
	amt := func(m money.Money) string { return m.String() }

	doc.Align(printer.AlignCenter).
		Bold(true).Size(printer.SizeDouble).Line(inv.Seller.Name).Size(printer.SizeNormal).Bold(false)
	if inv.Seller.Address != "" {
		doc.Line(inv.Seller.Address)
	}
	if inv.Seller.Phone != "" {
		doc.Line(inv.Seller.Phone)
	}
	if inv.Seller.GSTIN != "" {
		doc.Linef("GSTIN: %s", inv.Seller.GSTIN)
	}
	doc.Bold(true).Line("TAX INVOICE").Bold(false)

	doc.Align(printer.AlignLeft).Rule('-').
		Pair("Invoice:", inv.InvoiceNo).
		Pair("Date:", inv.Date).
		Pair("Customer:", inv.Buyer.Name).
		Pair("Place of supply:", inv.PlaceOfSupply).
		Pair("Payment:", inv.PaymentMethod).
		Rule('-')

	// Item, qty and amount; HSN and rate on the line below
	qtyW, amtW := 5, 10
	cols := []int{doc.Width() - qtyW - amtW, -qtyW, -amtW}
	doc.Columns(cols, "Item", "Qty", "Amount")
	for _, l := range inv.Lines {
		doc.Columns(cols, l.Description, fmt.Sprint(l.Quantity), amt(l.TaxableValue))
		detail := fmt.Sprintf("  HSN %s @ %s x %s", l.HSNCode, l.GSTRate, amt(l.UnitPrice))
		if l.Discount > 0 {
			detail += " less " + amt(l.Discount)
		}
		doc.Line(detail)
	}
	doc.Rule('-')

	doc.Pair("Subtotal:", amt(inv.Subtotal))
	for _, t := range inv.Taxes {
		doc.Pair(fmt.Sprintf("%s @ %s%%:", t.Kind, t.Rate.String()), amt(t.Amount))
	}
	if inv.Discount > 0 {
		doc.Pair("Discount:", "-"+amt(inv.Discount))
	}
	doc.Pair("Total GST:", amt(inv.TaxAmount)).
		Bold(true).Pair("TOTAL:", money.FormatINR(inv.Total)).Bold(false).
		Line(inv.AmountInWords).
		Rule('-')

	doc.Align(printer.AlignCenter).
		Feed(1).
		Line("Thank you for shopping with us!").
		Feed(3).
		Align(printer.AlignLeft).
		Cut()

	return doc.Bytes()
}
