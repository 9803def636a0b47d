package whatsapp

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func sampleMessage() OrderMessage {
	return OrderMessage{
		OrderNumber: "ORD-1700000000000000000",
		FirstName:   "Ana",
		LastName:    "García",
		Email:       "ana@example.com",
		Address:     "Av. Siempreviva 742",
		City:        "Córdoba",
		PostalCode:  "5000",
		Lines: []OrderLine{
			{SKU: "REM-001", Name: "Remera lisa", SizeName: "M", Quantity: 3, UnitPrice: decimal.NewFromFloat(15.00)},
		},
		Subtotal:       decimal.NewFromFloat(45.00),
		DiscountAmount: decimal.NewFromFloat(4.50),
		Total:          decimal.NewFromFloat(40.50),
		PaymentMethod:  "transfer",
		TransferRef:    "REF-123",
	}
}

func TestBuildMessage(t *testing.T) {
	msg := Build(sampleMessage())

	require.Contains(t, msg, "Código de pedido: ORD-1700000000000000000")
	require.Contains(t, msg, "Nombre: Ana García")
	require.Contains(t, msg, "Dirección: Av. Siempreviva 742")
	require.Contains(t, msg, "CP: 5000")
	require.Contains(t, msg, "- SKU: REM-001 | Remera lisa (Talle: M) x3 ($15.00)")
	require.Contains(t, msg, "Subtotal: $45.00")
	require.Contains(t, msg, "Descuento: -$4.50")
	require.Contains(t, msg, "Total: $40.50")
	require.Contains(t, msg, "*Método de Pago:* Transferencia")
	require.Contains(t, msg, "(Referencia: REF-123)")
}

func TestBuildMessageWithoutDiscount(t *testing.T) {
	m := sampleMessage()
	m.DiscountAmount = decimal.Zero
	m.Total = m.Subtotal

	msg := Build(m)
	require.NotContains(t, msg, "Descuento")
}

func TestBuildMessageCashWithoutSKU(t *testing.T) {
	m := sampleMessage()
	m.PaymentMethod = "cash"
	m.Lines[0].SKU = ""
	m.Lines[0].SizeName = ""

	msg := Build(m)
	require.Contains(t, msg, "- Remera lisa (Talle: Talle único) x3 ($15.00)")
	require.Contains(t, msg, "*Método de Pago:* Efectivo")
	require.NotContains(t, msg, "Referencia")
}

func TestLinkStripsNonDigitsAndEscapes(t *testing.T) {
	link := Link("+54 9 351 123-4567", "Hola, quiero un pedido")

	require.True(t, strings.HasPrefix(link, "https://wa.me/5493511234567?text="), link)
	require.NotContains(t, link, " ")
	require.Contains(t, link, "Hola%2C+quiero+un+pedido")
}
