package service

import (
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"portostore/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *PlaceOrderRequest {
	return &PlaceOrderRequest{
		Items: []CheckoutItem{
			{ProductID: uuid.New(), SizeID: uuid.New(), Quantity: 1},
		},
		ShippingMethod: model.ShippingStore,
		PaymentMethod:  model.PaymentCash,
		Email:          "ana@example.com",
		FirstName:      "Ana",
		LastName:       "García",
	}
}

func TestPlaceOrderRequestValidateOK(t *testing.T) {
	require.Nil(t, validRequest().Validate())
}

func TestPlaceOrderRequestValidateCollectsAllFields(t *testing.T) {
	req := &PlaceOrderRequest{
		ShippingMethod: "pigeon",
		PaymentMethod:  "barter",
	}

	fields := req.Validate()
	require.NotNil(t, fields)
	require.Contains(t, fields, "email")
	require.Contains(t, fields, "first_name")
	require.Contains(t, fields, "last_name")
	require.Contains(t, fields, "shipping_method")
	require.Contains(t, fields, "payment_method")
	require.Contains(t, fields, "items")
}

func TestPlaceOrderRequestValidateHomeShipping(t *testing.T) {
	req := validRequest()
	req.ShippingMethod = model.ShippingHome
	req.PaymentMethod = model.PaymentTransfer

	fields := req.Validate()
	require.NotNil(t, fields)
	require.Contains(t, fields, "address")
	require.Contains(t, fields, "city")
	require.Contains(t, fields, "postal_code")

	req.Address = "Av. Siempreviva 742"
	req.City = "Córdoba"
	req.PostalCode = "5000"
	require.Nil(t, req.Validate())
}

func TestPlaceOrderRequestHomeShippingRequiresTransfer(t *testing.T) {
	req := validRequest()
	req.ShippingMethod = model.ShippingHome
	req.PaymentMethod = model.PaymentCash
	req.Address = "Av. Siempreviva 742"
	req.City = "Córdoba"
	req.PostalCode = "5000"

	fields := req.Validate()
	require.NotNil(t, fields)
	require.Contains(t, fields, "payment_method")
}

func TestPlaceOrderRequestValidatePostalCode(t *testing.T) {
	req := validRequest()
	req.ShippingMethod = model.ShippingHome
	req.PaymentMethod = model.PaymentTransfer
	req.Address = "Calle 1"
	req.City = "Rosario"

	for _, bad := range []string{"", "abc", "12", "123456789"} {
		req.PostalCode = bad
		fields := req.Validate()
		require.NotNil(t, fields, "postal code %q should be rejected", bad)
		require.Contains(t, fields, "postal_code")
	}

	req.PostalCode = "2000"
	require.Nil(t, req.Validate())
}

func TestPlaceOrderRequestValidateItems(t *testing.T) {
	req := validRequest()
	req.Items = []CheckoutItem{
		{ProductID: uuid.New(), SizeID: uuid.Nil, Quantity: 1},
		{ProductID: uuid.New(), SizeID: uuid.New(), Quantity: 0},
	}

	fields := req.Validate()
	require.NotNil(t, fields)
	require.Contains(t, fields, "items[0]")
	require.Contains(t, fields, "items[1].quantity")
}

func buildCatalogProduct(paymentTypeID uuid.UUID, price float64) *model.Product {
	p := &model.Product{Name: "Remera lisa", SKU: "REM-001"}
	p.ID = uuid.New()
	p.Prices = []model.ProductPrice{
		{PaymentTypeID: paymentTypeID, Price: decimal.NewFromFloat(price)},
	}
	return p
}

func TestPriceLinesRepricesFromCatalog(t *testing.T) {
	ptID := uuid.New()
	product := buildCatalogProduct(ptID, 15.00)

	items := []CheckoutItem{{ProductID: product.ID, SizeID: uuid.New(), Quantity: 3}}
	products := map[uuid.UUID]*model.Product{product.ID: product}

	lines, fields := priceLines(items, products, ptID)
	require.Nil(t, fields)
	require.Len(t, lines, 1)
	require.Equal(t, "15.00", lines[0].UnitPrice.StringFixed(2))
	require.Equal(t, "45.00", subtotalOf(lines).StringFixed(2))
}

func TestPriceLinesFallsBackToDisplayPrice(t *testing.T) {
	product := buildCatalogProduct(uuid.New(), 20.00)

	items := []CheckoutItem{{ProductID: product.ID, SizeID: uuid.New(), Quantity: 1}}
	products := map[uuid.UUID]*model.Product{product.ID: product}

	// Ask for a payment type the product has no row for.
	lines, fields := priceLines(items, products, uuid.New())
	require.Nil(t, fields)
	require.Equal(t, "20.00", lines[0].UnitPrice.StringFixed(2))
}

func TestPriceLinesUnknownProduct(t *testing.T) {
	items := []CheckoutItem{{ProductID: uuid.New(), SizeID: uuid.New(), Quantity: 1}}

	lines, fields := priceLines(items, map[uuid.UUID]*model.Product{}, uuid.New())
	require.Nil(t, lines)
	require.Contains(t, fields, "items[0]")
}

func TestPriceLinesProductWithoutPrices(t *testing.T) {
	product := &model.Product{Name: "Sin precio"}
	product.ID = uuid.New()

	items := []CheckoutItem{{ProductID: product.ID, SizeID: uuid.New(), Quantity: 1}}
	products := map[uuid.UUID]*model.Product{product.ID: product}

	lines, fields := priceLines(items, products, uuid.New())
	require.Nil(t, lines)
	require.Contains(t, fields, "items[0]")
}

func TestFinalTotal(t *testing.T) {
	subtotal := decimal.NewFromFloat(45.00)

	require.Equal(t, "40.50", finalTotal(subtotal, decimal.NewFromFloat(4.50)).StringFixed(2))
	require.Equal(t, "45.00", finalTotal(subtotal, decimal.Zero).StringFixed(2))
	// A discount larger than the subtotal floors at zero.
	require.Equal(t, "0.00", finalTotal(subtotal, decimal.NewFromInt(100)).StringFixed(2))
}

func TestGenerateOrderNumberNeverCollides(t *testing.T) {
	// A tight loop lands many calls on the same clock tick; the suffix has
	// to keep them apart anyway.
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		n := generateOrderNumber()
		require.True(t, strings.HasPrefix(n, "ORD-"))
		_, dup := seen[n]
		require.False(t, dup, "duplicate order number %s", n)
		seen[n] = struct{}{}
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"email": "invalid email"}}
	require.Contains(t, err.Error(), "email: invalid email")
}

func TestStockConflictErrorMessage(t *testing.T) {
	err := &StockConflictError{ProductID: uuid.New(), SizeID: uuid.New(), Quantity: 2}
	require.Contains(t, err.Error(), "insufficient stock")
}

func TestPlaceOrderCommitsStockDiscountAndTotals(t *testing.T) {
	f := newStoreFixture(t)

	result, err := f.checkout.PlaceOrder(f.checkoutRequest())
	require.NoError(t, err)
	require.False(t, result.Replayed)
	require.Equal(t, "45.00", result.Subtotal.StringFixed(2))
	require.Equal(t, "4.50", result.DiscountAmount.StringFixed(2))
	require.Equal(t, "40.50", result.Total.StringFixed(2))
	require.Equal(t, model.StatusPendingApproval, result.Sale.Status)
	require.Len(t, result.Sale.Details, 2)

	require.Equal(t, 3, f.stockAt(t, f.productA.ID, f.sizeM.ID))
	require.Equal(t, 0, f.stockAt(t, f.productB.ID, f.sizeL.ID))
	require.Equal(t, 1, f.usesCount(t))

	var usage model.DiscountUsage
	require.NoError(t, f.db.First(&usage, "sale_id = ?", result.Sale.ID).Error)
	require.Equal(t, "4.50", usage.AmountApplied.StringFixed(2))

	require.Eventually(t, func() bool { return f.mailer.sentCount() == 1 },
		time.Second, 10*time.Millisecond, "order emails were never dispatched")
}

func TestPlaceOrderSameKeyReplaysWithoutWriting(t *testing.T) {
	f := newStoreFixture(t)
	req := f.checkoutRequest()

	first, err := f.checkout.PlaceOrder(req)
	require.NoError(t, err)
	require.False(t, first.Replayed)

	second, err := f.checkout.PlaceOrder(req)
	require.NoError(t, err)
	require.True(t, second.Replayed)
	require.Equal(t, first.Sale.ID, second.Sale.ID)
	require.Equal(t, "40.50", second.Total.StringFixed(2))
	require.Equal(t, "4.50", second.DiscountAmount.StringFixed(2))

	// Nothing moved twice.
	require.EqualValues(t, 1, f.saleCount(t))
	require.Equal(t, 3, f.stockAt(t, f.productA.ID, f.sizeM.ID))
	require.Equal(t, 0, f.stockAt(t, f.productB.ID, f.sizeL.ID))
	require.Equal(t, 1, f.usesCount(t))
}

func TestPlaceOrderStockConflictRollsBackEverything(t *testing.T) {
	f := newStoreFixture(t)
	req := f.checkoutRequest()
	req.Items[1].Quantity = 2 // only one unit of B/L exists

	_, err := f.checkout.PlaceOrder(req)
	var conflict *StockConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, f.productB.ID, conflict.ProductID)

	// The sale row, the A/M decrement that had already applied, and the
	// discount bookkeeping all rolled back with the transaction.
	require.EqualValues(t, 0, f.saleCount(t))
	require.Equal(t, 5, f.stockAt(t, f.productA.ID, f.sizeM.ID))
	require.Equal(t, 1, f.stockAt(t, f.productB.ID, f.sizeL.ID))
	require.Equal(t, 0, f.usesCount(t))
}

func TestDecrementIfAvailableSingleWinner(t *testing.T) {
	f := newStoreFixture(t)

	// Two simultaneous decrements against stock 1: exactly one may win.
	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := f.stock.DecrementIfAvailable(f.db, f.productB.ID, f.sizeL.ID, 1)
			assert.NoError(t, err)
			if ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, wins)
	require.Equal(t, 0, f.stockAt(t, f.productB.ID, f.sizeL.ID))
}
