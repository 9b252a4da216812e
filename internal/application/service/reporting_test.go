package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/eazyque/eazyque-api/internal/domain/enum"
	"github.com/eazyque/eazyque-api/pkg/apperror"
	"github.com/eazyque/eazyque-api/pkg/gst"
	"github.com/eazyque/eazyque-api/pkg/printer"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxCalculate(t *testing.T) {
	svc := NewTaxService()

	out, err := svc.Calculate(&TaxCalculationInput{
		Amount: rupees(1000), GSTRate: 18, SourceState: "Maharashtra", TargetState: "maharashtra",
	})
	require.NoError(t, err)
	assert.Equal(t, gst.SupplyIntrastate, out.SupplyType)
	assert.Len(t, out.Lines, 2)
	assert.Equal(t, rupees(180), out.TotalTax)
	assert.Equal(t, rupees(1180), out.Total)

	out, err = svc.Calculate(&TaxCalculationInput{
		Amount: rupees(1180), GSTRate: 18, SourceState: "Maharashtra", TargetState: "Kerala", Inclusive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, gst.SupplyInterstate, out.SupplyType)
	assert.Equal(t, rupees(1000), out.TaxableAmount)
	assert.Equal(t, rupees(180), out.TotalTax)

	_, err = svc.Calculate(&TaxCalculationInput{Amount: rupees(10), GSTRate: 3, SourceState: "A", TargetState: "A"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = svc.Calculate(&TaxCalculationInput{Amount: rupees(10), GSTRate: 5, SourceState: "A"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

type capturePrinter struct {
	jobs [][]byte
	err  error
}

func (p *capturePrinter) Print(_ context.Context, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, data)
	return nil
}

func (p *capturePrinter) Ready(context.Context) bool { return p.err == nil }
func (p *capturePrinter) Kind() string               { return printer.KindNetwork }

func TestPrintOrderReceipt(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Basmati Rice 1kg", rupees(100), gst.Rate18, 10)
	order, err := f.orders.CreateOrder(f.ctx, f.cart(OrderItemInput{ProductID: p.ID, Quantity: 2}))
	require.NoError(t, err)

	dev := &capturePrinter{}
	svc := NewReceiptService(f.orders, dev, printer.Width58mm)

	status := svc.GetStatus(f.ctx)
	assert.True(t, status.Configured)
	assert.True(t, status.Connected)

	inv, err := svc.PrintOrderReceipt(f.ctx, f.shop.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, inv.InvoiceNo)
	require.Len(t, dev.jobs, 1)

	job := dev.jobs[0]
	for _, want := range []string{"Sharma General Store", "GSTIN: 27ABCDE1234F1Z5", "TAX INVOICE", "CGST @ 9%:", "SGST @ 9%:", "Rs.236.00"} {
		assert.True(t, bytes.Contains(job, []byte(want)), "receipt should contain %q", want)
	}

	_, err = svc.PrintOrderReceipt(f.ctx, f.shop.ID, uuid.New())
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestPrintOrderReceiptPrinterDown(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Soap", rupees(40), gst.Rate18, 10)
	order, err := f.orders.CreateOrder(f.ctx, f.cart(OrderItemInput{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)

	offline := errors.New("connection refused")
	svc := NewReceiptService(f.orders, &capturePrinter{err: offline}, printer.Width80mm)
	assert.False(t, svc.GetStatus(f.ctx).Connected)

	inv, err := svc.PrintOrderReceipt(f.ctx, f.shop.ID, order.ID)
	assert.ErrorIs(t, err, offline)
	require.NotNil(t, inv, "the invoice is still returned for on-screen display")

	none := NewReceiptService(f.orders, nil, printer.Width58mm).GetStatus(f.ctx)
	assert.False(t, none.Configured)
	assert.Equal(t, printer.KindNone, none.Type)
}

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	svc := NewDashboardService(f.store.Analytics())
	rice := f.product(t, "Basmati Rice 1kg", rupees(100), gst.Rate18, 12)
	salt := f.product(t, "Salt 1kg", rupees(20), gst.Rate0, 50)
	c := f.customer(t, "+919811111111")

	in := f.cart(OrderItemInput{ProductID: rice.ID, Quantity: 2})
	in.CustomerID = &c.ID
	_, err := f.orders.CreateOrder(f.ctx, in)
	require.NoError(t, err)
	_, err = f.orders.CreateOrder(f.ctx, f.cart(OrderItemInput{ProductID: salt.ID, Quantity: 5}))
	require.NoError(t, err)
	cancelled, err := f.orders.CreateOrder(f.ctx, f.cart(OrderItemInput{ProductID: salt.ID, Quantity: 1}))
	require.NoError(t, err)
	_, err = f.orders.CancelOrder(f.ctx, f.shop.ID, cancelled.ID, nil)
	require.NoError(t, err)

	stats, err := svc.GetDashboardStats(f.ctx, f.shop.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Today.OrderCount)
	assert.Equal(t, rupees(236+100), stats.Today.Revenue)
	assert.Equal(t, rupees(36), stats.Today.Tax)
	assert.Equal(t, 2, stats.Month.OrderCount)
	assert.Equal(t, 2, stats.OrdersByStatus[enum.OrderStatusPending])
	assert.Equal(t, 1, stats.OrdersByStatus[enum.OrderStatusCancelled])
	assert.Equal(t, 1, stats.LowStockCount, "rice is down to 10")

	require.Len(t, stats.TopProducts, 2)
	assert.Equal(t, rice.ID, stats.TopProducts[0].ProductID)
	require.Len(t, stats.TopCustomers, 1)
	assert.Equal(t, c.ID, stats.TopCustomers[0].CustomerID)
	assert.Len(t, stats.DailySales, 7)
}
