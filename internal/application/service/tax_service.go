package service

import (
	"github.com/eazyque/eazyque-api/pkg/gst"
	"github.com/eazyque/eazyque-api/pkg/money"
	"github.com/go-playground/validator/v10"
)

// TaxService exposes the GST engine to clients that price carts locally
type TaxService struct {
	validate *validator.Validate
}

// NewTaxService creates a new tax service
func NewTaxService() *TaxService {
	return &TaxService{validate: newValidator()}
}

// TaxCalculationInput is an amount to be taxed at a rate between two states
type TaxCalculationInput struct {
	Amount      money.Money `json:"amount" validate:"gte=0"`
	GSTRate     int         `json:"gst_rate"`
	SourceState string      `json:"source_state" validate:"required"`
	TargetState string      `json:"target_state" validate:"required"`
	// Inclusive means Amount already contains the tax
	Inclusive bool `json:"inclusive"`
}

// TaxCalculation is the result of a calculation
type TaxCalculation struct {
	TaxableAmount money.Money    `json:"taxable_amount"`
	SupplyType    gst.SupplyType `json:"supply_type"`
	Lines         []gst.TaxLine  `json:"lines"`
	TotalTax      money.Money    `json:"total_tax"`
	Total         money.Money    `json:"total"`
}

// Calculate splits the tax on an amount into CGST/SGST or IGST.
func (s *TaxService) Calculate(input *TaxCalculationInput) (*TaxCalculation, error) {
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}
	rate, err := gst.ParseRate(input.GSTRate)
	if err != nil {
		return nil, err
	}

	taxable := input.Amount
	if input.Inclusive {
		if taxable, err = gst.CalculateExclusivePrice(input.Amount, rate); err != nil {
			return nil, err
		}
	}
	lines, err := gst.CalculateTax(taxable, rate, input.SourceState, input.TargetState)
	if err != nil {
		return nil, err
	}
	total := gst.GetTotalTaxAmount(lines)
	return &TaxCalculation{
		TaxableAmount: taxable,
		SupplyType:    gst.SupplyTypeFor(input.SourceState, input.TargetState),
		Lines:         lines,
		TotalTax:      total,
		Total:         taxable + total,
	}, nil
}
