package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderLine is one cart line as it appears in the WhatsApp message.
type OrderLine struct {
	SKU       string
	Name      string
	SizeName  string
	Quantity  int
	UnitPrice decimal.Decimal
}

// OrderMessage holds everything the home-shipping handoff message needs.
type OrderMessage struct {
	OrderNumber    string
	FirstName      string
	LastName       string
	Email          string
	Address        string
	City           string
	PostalCode     string
	Lines          []OrderLine
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	PaymentMethod  string // cash | transfer
	TransferRef    string
}

// Build renders the order message the shopper sends to the store.
func Build(m OrderMessage) string {
	var b strings.Builder
	b.WriteString("Hola, quiero realizar un pedido con envío a domicilio.\n")
	fmt.Fprintf(&b, "Código de pedido: %s\n\n", m.OrderNumber)

	b.WriteString("*Datos de Envío:*\n")
	fmt.Fprintf(&b, "Nombre: %s %s\n", m.FirstName, m.LastName)
	fmt.Fprintf(&b, "Email: %s\n", m.Email)
	fmt.Fprintf(&b, "Dirección: %s\n", m.Address)
	fmt.Fprintf(&b, "Ciudad: %s\n", m.City)
	fmt.Fprintf(&b, "CP: %s\n\n", m.PostalCode)

	b.WriteString("*Pedido:*\n")
	for _, line := range m.Lines {
		size := line.SizeName
		if size == "" {
			size = "Talle único"
		}
		if line.SKU != "" {
			fmt.Fprintf(&b, "- SKU: %s | %s (Talle: %s) x%d ($%s)\n", line.SKU, line.Name, size, line.Quantity, line.UnitPrice.StringFixed(2))
		} else {
			fmt.Fprintf(&b, "- %s (Talle: %s) x%d ($%s)\n", line.Name, size, line.Quantity, line.UnitPrice.StringFixed(2))
		}
	}

	b.WriteString("\n*Resumen:*\n")
	fmt.Fprintf(&b, "Subtotal: $%s\n", m.Subtotal.StringFixed(2))
	if m.DiscountAmount.IsPositive() {
		fmt.Fprintf(&b, "Descuento: -$%s\n", m.DiscountAmount.StringFixed(2))
	}
	fmt.Fprintf(&b, "Total: $%s\n\n", m.Total.StringFixed(2))

	if m.PaymentMethod == "transfer" {
		b.WriteString("*Método de Pago:* Transferencia\n")
		if m.TransferRef != "" {
			fmt.Fprintf(&b, "(Referencia: %s)\n", m.TransferRef)
		}
	} else {
		b.WriteString("*Método de Pago:* Efectivo\n")
	}
	return b.String()
}

// Link builds the wa.me URL for a phone number and a prebuilt message.
// The number is reduced to digits, matching how the store setting is kept.
func Link(number, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, url.QueryEscape(message))
}
