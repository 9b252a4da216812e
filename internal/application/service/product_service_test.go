package service

import (
	"testing"

	"github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/eazyque/eazyque-api/pkg/apperror"
	"github.com/eazyque/eazyque-api/pkg/gst"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProduct(t *testing.T) {
	f := newFixture(t)
	svc := NewProductService(f.store.Products(), f.store.Shops())

	p, err := svc.CreateProduct(f.ctx, &CreateProductInput{
		ShopID:       f.shop.ID,
		Name:         "  Toor Dal 1kg ",
		HSNCode:      "0713",
		Category:     "Pulses",
		BasePrice:    rupees(140),
		SellingPrice: rupees(155),
		GSTRate:      5,
	})
	require.NoError(t, err)
	assert.Equal(t, "Toor Dal 1kg", p.Name)
	assert.Equal(t, gst.Rate5, p.GSTRate)
	assert.Equal(t, "pcs", p.UnitOfMeasurement)
	assert.True(t, p.IsActive)

	got, err := svc.GetProduct(f.ctx, f.shop.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = svc.GetProduct(f.ctx, uuid.New(), p.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestCreateProductValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewProductService(f.store.Products(), f.store.Shops())

	valid := func() *CreateProductInput {
		return &CreateProductInput{
			ShopID: f.shop.ID, Name: "Item", HSNCode: "1006",
			BasePrice: rupees(10), SellingPrice: rupees(12), GSTRate: 12,
		}
	}
	tests := []struct {
		name   string
		mutate func(in *CreateProductInput)
		field  string
	}{
		{"short hsn", func(in *CreateProductInput) { in.HSNCode = "10" }, "hsn_code"},
		{"alpha hsn", func(in *CreateProductInput) { in.HSNCode = "10AB" }, "hsn_code"},
		{"zero price", func(in *CreateProductInput) { in.SellingPrice = 0 }, "selling_price"},
		{"missing name", func(in *CreateProductInput) { in.Name = "" }, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(in)
			_, err := svc.CreateProduct(f.ctx, in)
			appErr := apperror.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, apperror.KindValidation, appErr.Kind)
			require.NotEmpty(t, appErr.Errors)
			assert.Equal(t, tt.field, appErr.Errors[0].Field)
		})
	}

	in := valid()
	in.GSTRate = 7
	_, err := svc.CreateProduct(f.ctx, in)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	f := newFixture(t)
	svc := NewProductService(f.store.Products(), f.store.Shops())
	p := f.product(t, "Ketchup 500g", rupees(110), gst.Rate12, 5)

	updated, err := svc.UpdateProduct(f.ctx, &UpdateProductInput{
		ShopID: f.shop.ID, ProductID: p.ID,
		SellingPrice: ptr(rupees(120)), GSTRate: ptr(18),
	})
	require.NoError(t, err)
	assert.Equal(t, rupees(120), updated.SellingPrice)
	assert.Equal(t, gst.Rate18, updated.GSTRate)
	assert.Equal(t, "Ketchup 500g", updated.Name)

	_, err = svc.UpdateProduct(f.ctx, &UpdateProductInput{ShopID: f.shop.ID, ProductID: p.ID, GSTRate: ptr(15)})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	require.NoError(t, svc.DeleteProduct(f.ctx, f.shop.ID, p.ID))
	_, err = svc.GetProduct(f.ctx, f.shop.ID, p.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = f.orders.CreateOrder(f.ctx, f.cart(OrderItemInput{ProductID: p.ID, Quantity: 1}))
	assert.Equal(t, apperror.KindProductNotFound, apperror.KindOf(err), "deleted products cannot be sold")
}

func TestListProducts(t *testing.T) {
	f := newFixture(t)
	svc := NewProductService(f.store.Products(), f.store.Shops())
	f.product(t, "Green Tea", rupees(200), gst.Rate5, 0)
	f.product(t, "Black Tea", rupees(180), gst.Rate5, 0)
	f.product(t, "Coffee", rupees(300), gst.Rate5, 0)

	res, err := svc.ListProducts(f.ctx, f.shop.ID, &repository.ProductFilterParams{Search: "tea"})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	assert.EqualValues(t, 2, res.Pagination.Total)

	res, err = svc.ListProducts(f.ctx, f.shop.ID, nil)
	require.NoError(t, err)
	assert.Len(t, res.Items, 3)
}

func TestGetPriceQuote(t *testing.T) {
	f := newFixture(t)
	svc := NewProductService(f.store.Products(), f.store.Shops())
	p := f.product(t, "Shampoo", rupees(100), gst.Rate18, 0)

	q, err := svc.GetPriceQuote(f.ctx, f.shop.ID, p.ID, "")
	require.NoError(t, err)
	assert.Equal(t, gst.SupplyIntrastate, q.SupplyType)
	assert.Equal(t, rupees(118), q.InclusivePrice)
	assert.Equal(t, rupees(18), q.TaxAmount)
	assert.Len(t, q.TaxLines, 2)

	q, err = svc.GetPriceQuote(f.ctx, f.shop.ID, p.ID, "Gujarat")
	require.NoError(t, err)
	assert.Equal(t, gst.SupplyInterstate, q.SupplyType)
	require.Len(t, q.TaxLines, 1)
	assert.Equal(t, gst.KindIGST, q.TaxLines[0].Kind)
}

func TestImportProducts(t *testing.T) {
	f := newFixture(t)
	svc := NewProductService(f.store.Products(), f.store.Shops())

	res, err := svc.ImportProducts(f.ctx, f.shop.ID, []ImportProductRow{
		{Name: "Poha 500g", HSNCode: "1904", BasePrice: rupees(30), SellingPrice: rupees(35), GSTRate: 5},
		{Name: "Rava 500g", HSNCode: "1103", BasePrice: rupees(25), SellingPrice: rupees(28), GSTRate: 5},
		{Name: "poha 500g", HSNCode: "1904", BasePrice: rupees(30), SellingPrice: rupees(35), GSTRate: 5},
		{Name: "Bad Rate", HSNCode: "1905", BasePrice: rupees(10), SellingPrice: rupees(12), GSTRate: 9},
		{Name: "", HSNCode: "19", BasePrice: rupees(10), SellingPrice: rupees(12), GSTRate: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, res.TotalRows)
	assert.Equal(t, 2, res.Successful)
	assert.Equal(t, 3, res.Failed)

	rows := map[int][]string{}
	for _, e := range res.Errors {
		rows[e.Row] = append(rows[e.Row], e.Field)
	}
	assert.Equal(t, []string{"name"}, rows[3])
	assert.Equal(t, []string{"gst_rate"}, rows[4])
	assert.ElementsMatch(t, []string{"name", "hsn_code"}, rows[5])

	list, err := svc.ListProducts(f.ctx, f.shop.ID, nil)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
}
