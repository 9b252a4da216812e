package entity

import (
	"github.com/eazyque/eazyque-api/pkg/gst"
	"github.com/eazyque/eazyque-api/pkg/money"
	"github.com/shopspring/decimal"
)

// InvoiceParty is the seller or buyer block of a tax invoice.
type InvoiceParty struct {
	Name    string `json:"name"`
	GSTIN   string `json:"gstin,omitempty"`
	State   string `json:"state,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// InvoiceLine represents a single line item on an invoice.
type InvoiceLine struct {
	Description  string      `json:"description"`
	HSNCode      string      `json:"hsn_code"`
	Quantity     int         `json:"quantity"`
	UnitPrice    money.Money `json:"unit_price"`
	Discount     money.Money `json:"discount"`
	TaxableValue money.Money `json:"taxable_value"`
	GSTRate      gst.Rate    `json:"gst_rate"`
	TaxAmount    money.Money `json:"tax_amount"`
	Total        money.Money `json:"total"`
}

// InvoiceTax is one row of the tax summary.
type InvoiceTax struct {
	Kind          gst.Kind        `json:"kind"`
	Rate          decimal.Decimal `json:"rate"`
	TaxableAmount money.Money     `json:"taxable_amount"`
	Amount        money.Money     `json:"amount"`
}

// TaxInvoice is a value object composed from an order and its shop when an
// invoice is requested. It is not stored.
type TaxInvoice struct {
	Seller        InvoiceParty   `json:"seller"`
	Buyer         InvoiceParty   `json:"buyer"`
	InvoiceNo     string         `json:"invoice_no"`
	Date          string         `json:"date"`
	PlaceOfSupply string         `json:"place_of_supply"`
	SupplyType    gst.SupplyType `json:"supply_type"`
	PaymentMethod string         `json:"payment_method"`
	Status        string         `json:"status"`
	Lines         []InvoiceLine  `json:"lines"`
	Taxes         []InvoiceTax   `json:"taxes"`
	Subtotal      money.Money    `json:"subtotal"`
	Discount      money.Money    `json:"discount"`
	TaxAmount     money.Money    `json:"tax_amount"`
	Total         money.Money    `json:"total"`
	AmountInWords string         `json:"amount_in_words"`
}

// NewTaxInvoice builds the invoice for an order loaded with its items and tax lines.
func NewTaxInvoice(shop *Shop, order *Order) *TaxInvoice {
	inv := &TaxInvoice{
		Seller: InvoiceParty{
			Name:    shop.Name,
			GSTIN:   deref(shop.GSTIN),
			State:   shop.State,
			Address: deref(shop.Address),
			Phone:   deref(shop.Phone),
		},
		Buyer: InvoiceParty{
			Name:  order.CustomerName,
			State: order.PlaceOfSupply,
			Phone: deref(order.CustomerPhone),
		},
		InvoiceNo:     order.OrderNumber,
		Date:          order.CreatedAt.Format("02-01-2006 15:04"),
		PlaceOfSupply: order.PlaceOfSupply,
		SupplyType:    order.SupplyType,
		PaymentMethod: string(order.PaymentMethod),
		Status:        string(order.Status),
		Subtotal:      order.Subtotal,
		Discount:      order.DiscountAmount,
		TaxAmount:     order.TaxAmount,
		Total:         order.TotalAmount,
		AmountInWords: money.InWords(order.TotalAmount),
	}
	if order.IsDelivery {
		inv.Buyer.Address = deref(order.DeliveryAddress)
	}

	for _, item := range order.Items {
		inv.Lines = append(inv.Lines, InvoiceLine{
			Description:  item.ProductName,
			HSNCode:      item.HSNCode,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			Discount:     item.DiscountAmount,
			TaxableValue: item.LineNet(),
			GSTRate:      item.GSTRate,
			TaxAmount:    item.TaxAmount,
			Total:        item.TotalPrice,
		})
	}
	for _, tl := range order.TaxLines {
		inv.Taxes = append(inv.Taxes, InvoiceTax{
			Kind:          tl.Kind,
			Rate:          tl.Rate,
			TaxableAmount: tl.TaxableAmount,
			Amount:        tl.Amount,
		})
	}
	return inv
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
