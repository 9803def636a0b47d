package mail

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func validOrderData() OrderEmailData {
	return OrderEmailData{
		OrderNumber:   "ORD-1700000000000000000",
		CustomerName:  "Ana García",
		CustomerEmail: "ana@example.com",
		Items: []OrderItem{
			{Name: "Remera lisa", Quantity: 2, Price: decimal.NewFromFloat(15.00)},
		},
		Total:          decimal.NewFromFloat(30.00),
		ShippingMethod: "home",
		PaymentMethod:  "transfer",
	}
}

func TestOrderEmailDataValidateOK(t *testing.T) {
	data := validOrderData()
	require.NoError(t, data.Validate())
}

func TestOrderEmailDataValidateEmail(t *testing.T) {
	for _, bad := range []string{"", "no-at-sign", "a@b", "spaces in@mail.com"} {
		data := validOrderData()
		data.CustomerEmail = bad
		require.Error(t, data.Validate(), "email %q should be rejected", bad)
	}
}

func TestOrderEmailDataValidateItems(t *testing.T) {
	empty := validOrderData()
	empty.Items = nil
	require.Error(t, empty.Validate())

	badQty := validOrderData()
	badQty.Items[0].Quantity = 0
	require.Error(t, badQty.Validate())

	negPrice := validOrderData()
	negPrice.Items[0].Price = decimal.NewFromInt(-1)
	require.Error(t, negPrice.Validate())

	// Free items are legal: a full discount can zero a line.
	freeItem := validOrderData()
	freeItem.Items[0].Price = decimal.Zero
	require.NoError(t, freeItem.Validate())
}

func TestOrderEmailDataValidateMethods(t *testing.T) {
	badShipping := validOrderData()
	badShipping.ShippingMethod = "drone"
	require.Error(t, badShipping.Validate())

	badPayment := validOrderData()
	badPayment.PaymentMethod = "crypto"
	require.Error(t, badPayment.Validate())

	for _, ok := range []string{"home", "branch", "store"} {
		data := validOrderData()
		data.ShippingMethod = ok
		require.NoError(t, data.Validate(), ok)
	}
}

func TestOrderEmailDataValidateTotal(t *testing.T) {
	data := validOrderData()
	data.Total = decimal.NewFromInt(-1)
	require.Error(t, data.Validate())

	data.Total = decimal.Zero
	require.NoError(t, data.Validate())
}

func TestCustomerHTMLContents(t *testing.T) {
	html := customerHTML(validOrderData())

	require.Contains(t, html, "ORD-1700000000000000000")
	require.Contains(t, html, "Ana García")
	require.Contains(t, html, "Remera lisa")
	require.Contains(t, html, "Total: $30.00")
	require.Contains(t, html, "Envío a domicilio")
	// Transfer orders ask for the receipt.
	require.Contains(t, html, "comprobante")
}

func TestCustomerHTMLCashHasNoReceiptNote(t *testing.T) {
	data := validOrderData()
	data.ShippingMethod = "store"
	data.PaymentMethod = "cash"

	html := customerHTML(data)
	require.NotContains(t, html, "comprobante")
	require.Contains(t, html, "Efectivo")
}

func TestMerchantHTMLContents(t *testing.T) {
	html := merchantHTML(validOrderData())

	require.Contains(t, html, "Nuevo pedido recibido")
	require.Contains(t, html, "ana@example.com")
	require.Contains(t, html, "Remera lisa x2")
}
