package mail

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/resend/resend-go/v2"
	"github.com/shopspring/decimal"
)

// OrderItem is one line of the order as it appears in the emails.
type OrderItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// OrderEmailData is the payload for the two order notifications.
type OrderEmailData struct {
	OrderNumber    string          `json:"order_number"`
	CustomerName   string          `json:"customer_name"`
	CustomerEmail  string          `json:"customer_email"`
	Items          []OrderItem     `json:"items"`
	Total          decimal.Decimal `json:"total"`
	ShippingMethod string          `json:"shipping_method"`
	PaymentMethod  string          `json:"payment_method"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	validShippingMethods = map[string]string{
		"home":   "Envío a domicilio",
		"branch": "Retiro en sucursal",
		"store":  "Retiro en tienda",
	}
	validPaymentMethods = map[string]string{
		"cash":     "Efectivo",
		"transfer": "Transferencia",
	}
)

// Validate checks the payload field by field before anything is sent.
func (d *OrderEmailData) Validate() error {
	if d.CustomerEmail == "" || !emailPattern.MatchString(d.CustomerEmail) {
		return errors.New("customer email is missing or invalid")
	}
	if strings.TrimSpace(d.CustomerName) == "" {
		return errors.New("customer name is required")
	}
	if len(d.Items) == 0 {
		return errors.New("order must contain at least one item")
	}
	for _, item := range d.Items {
		if item.Name == "" || item.Quantity <= 0 || item.Price.IsNegative() {
			return fmt.Errorf("invalid item: %q (qty %d, price %s)", item.Name, item.Quantity, item.Price)
		}
	}
	if d.Total.IsNegative() {
		return errors.New("order total must not be negative")
	}
	if _, ok := validShippingMethods[d.ShippingMethod]; !ok {
		return fmt.Errorf("invalid shipping method: %s", d.ShippingMethod)
	}
	if _, ok := validPaymentMethods[d.PaymentMethod]; !ok {
		return fmt.Errorf("invalid payment method: %s", d.PaymentMethod)
	}
	return nil
}

// Sender dispatches order notifications. Implementations are best-effort:
// a failed send is logged, never surfaced to the shopper.
type Sender interface {
	SendOrderEmails(data OrderEmailData) error
}

// Config holds the addresses involved in every order notification.
type Config struct {
	APIKey        string
	FromAddress   string // verified sender, e.g. "Porto Store <ventas@...>"
	MerchantEmail string // where merchant alerts and customer replies land
}

type resendMailer struct {
	client *resend.Client
	cfg    Config
}

// NewResendMailer builds the production Sender on top of the Resend API.
func NewResendMailer(cfg Config) Sender {
	return &resendMailer{client: resend.NewClient(cfg.APIKey), cfg: cfg}
}

// SendOrderEmails validates the payload and fires the customer confirmation
// and the merchant alert. The two sends are independent; either failing is
// logged and swallowed so the order flow is never affected.
func (m *resendMailer) SendOrderEmails(data OrderEmailData) error {
	if err := data.Validate(); err != nil {
		return err
	}

	customer := &resend.SendEmailRequest{
		From:    m.cfg.FromAddress,
		To:      []string{data.CustomerEmail},
		ReplyTo: m.cfg.MerchantEmail,
		Subject: fmt.Sprintf("Confirmación de pedido %s - Porto Store", data.OrderNumber),
		Html:    customerHTML(data),
	}
	if _, err := m.client.Emails.Send(customer); err != nil {
		log.Printf("mail: customer confirmation for order %s failed: %v", data.OrderNumber, err)
	}

	merchant := &resend.SendEmailRequest{
		From:    m.cfg.FromAddress,
		To:      []string{m.cfg.MerchantEmail},
		Subject: fmt.Sprintf("Nuevo pedido %s - %s", data.OrderNumber, data.CustomerName),
		Html:    merchantHTML(data),
	}
	if _, err := m.client.Emails.Send(merchant); err != nil {
		log.Printf("mail: merchant alert for order %s failed: %v", data.OrderNumber, err)
	}

	return nil
}

func customerHTML(d OrderEmailData) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">`)
	fmt.Fprintf(&b, "<h1>¡Gracias por tu compra, %s!</h1>", d.CustomerName)
	fmt.Fprintf(&b, "<p>Tu pedido <strong>%s</strong> ha sido registrado exitosamente.</p>", d.OrderNumber)
	b.WriteString("<h2>Detalle del pedido:</h2><ul>")
	for _, item := range d.Items {
		fmt.Fprintf(&b, "<li><strong>%s</strong><br>Cantidad: %d x $%s</li>", item.Name, item.Quantity, item.Price.StringFixed(2))
	}
	b.WriteString("</ul>")
	fmt.Fprintf(&b, "<p><strong>Total: $%s</strong></p>", d.Total.StringFixed(2))
	fmt.Fprintf(&b, "<p>Método de envío: %s</p>", validShippingMethods[d.ShippingMethod])
	fmt.Fprintf(&b, "<p>Método de pago: %s</p>", validPaymentMethods[d.PaymentMethod])
	if d.PaymentMethod == "transfer" {
		b.WriteString("<p><strong>Importante:</strong> enviá el comprobante respondiendo a este correo o por WhatsApp indicando tu número de pedido.</p>")
	}
	b.WriteString("<p>Si tenés alguna duda, contactanos respondiendo este correo.</p></div>")
	return b.String()
}

func merchantHTML(d OrderEmailData) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: sans-serif;">`)
	b.WriteString("<h1>Nuevo pedido recibido</h1>")
	fmt.Fprintf(&b, "<p>El cliente <strong>%s</strong> (%s) ha realizado el pedido %s.</p>", d.CustomerName, d.CustomerEmail, d.OrderNumber)
	b.WriteString("<h2>Detalle:</h2><ul>")
	for _, item := range d.Items {
		fmt.Fprintf(&b, "<li>%s x%d - $%s</li>", item.Name, item.Quantity, item.Price.StringFixed(2))
	}
	b.WriteString("</ul>")
	fmt.Fprintf(&b, "<p><strong>Total: $%s</strong></p>", d.Total.StringFixed(2))
	fmt.Fprintf(&b, "<p>Envío: %s</p>", validShippingMethods[d.ShippingMethod])
	fmt.Fprintf(&b, "<p>Pago: %s</p>", validPaymentMethods[d.PaymentMethod])
	b.WriteString("</div>")
	return b.String()
}
