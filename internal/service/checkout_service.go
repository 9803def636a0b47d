package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"portostore/internal/mail"
	"portostore/internal/model"
	"portostore/internal/repository"
	"portostore/internal/ws"
	"portostore/pkg/whatsapp"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CheckoutItem identifies one cart line. The client may send a price
// snapshot for display, but the server always reprices from the catalog.
type CheckoutItem struct {
	ProductID uuid.UUID `json:"product_id"`
	SizeID    uuid.UUID `json:"size_id"`
	Quantity  int       `json:"quantity"`
}

// PlaceOrderRequest carries the whole checkout submission.
type PlaceOrderRequest struct {
	Items          []CheckoutItem `json:"items"`
	ShippingMethod string         `json:"shipping_method"`
	PaymentMethod  string         `json:"payment_method"`
	DiscountCode   string         `json:"discount_code"`

	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`

	TransferReference string `json:"transfer_reference"`

	// Client-generated key, one per checkout attempt. Replaying the same key
	// returns the already-created order instead of writing again.
	IdempotencyKey string `json:"idempotency_key"`
}

// PlaceOrderResult is returned to the checkout surface after a commit.
type PlaceOrderResult struct {
	Sale           *model.Sale     `json:"sale"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
	WhatsAppURL    string          `json:"whatsapp_url,omitempty"`
	Replayed       bool            `json:"replayed"`
}

// ValidationError lists every violated field at once.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// StockConflictError signals that a line could not be reserved because the
// remaining stock is below the ordered quantity.
type StockConflictError struct {
	ProductID uuid.UUID
	SizeID    uuid.UUID
	Quantity  int
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s size %s (wanted %d)", e.ProductID, e.SizeID, e.Quantity)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
var postalPattern = regexp.MustCompile(`^[0-9]{4,8}$`)

// Validate collects every field violation instead of stopping at the first.
func (r *PlaceOrderRequest) Validate() map[string]string {
	fields := make(map[string]string)

	if r.Email == "" || !emailPattern.MatchString(r.Email) {
		fields["email"] = "invalid email"
	}
	if strings.TrimSpace(r.FirstName) == "" {
		fields["first_name"] = "first name required"
	}
	if strings.TrimSpace(r.LastName) == "" {
		fields["last_name"] = "last name required"
	}

	switch r.ShippingMethod {
	case model.ShippingHome:
		if strings.TrimSpace(r.Address) == "" {
			fields["address"] = "address required"
		}
		if strings.TrimSpace(r.City) == "" {
			fields["city"] = "city required"
		}
		if !postalPattern.MatchString(strings.TrimSpace(r.PostalCode)) {
			fields["postal_code"] = "invalid postal code"
		}
		// Home shipping is transfer-only; cash is handed over at the counter.
		if r.PaymentMethod != model.PaymentTransfer {
			fields["payment_method"] = "home shipping requires transfer payment"
		}
	case model.ShippingStore:
	default:
		fields["shipping_method"] = "unknown shipping method"
	}

	if r.PaymentMethod != model.PaymentCash && r.PaymentMethod != model.PaymentTransfer {
		fields["payment_method"] = "unknown payment method"
	}

	if len(r.Items) == 0 {
		fields["items"] = "cart is empty"
	}
	for i, item := range r.Items {
		if item.ProductID == uuid.Nil || item.SizeID == uuid.Nil {
			fields[fmt.Sprintf("items[%d]", i)] = "missing product or size"
		} else if item.Quantity <= 0 {
			fields[fmt.Sprintf("items[%d].quantity", i)] = "quantity must be positive"
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

// pricedLine is a cart line after server-side repricing.
type pricedLine struct {
	Item      CheckoutItem
	Product   *model.Product
	SizeName  string
	UnitPrice decimal.Decimal
}

// priceLines reprices every cart line from the catalog for the chosen
// payment type, falling back to the display price when the product has no
// price row for that type. Unknown products become field errors.
func priceLines(items []CheckoutItem, products map[uuid.UUID]*model.Product, paymentTypeID uuid.UUID) ([]pricedLine, map[string]string) {
	fields := make(map[string]string)
	lines := make([]pricedLine, 0, len(items))

	for i, item := range items {
		p, ok := products[item.ProductID]
		if !ok {
			fields[fmt.Sprintf("items[%d]", i)] = "product not found"
			continue
		}
		var price decimal.Decimal
		found := false
		for _, row := range p.Prices {
			if row.PaymentTypeID == paymentTypeID {
				price = row.Price
				found = true
				break
			}
		}
		if !found && len(p.Prices) > 0 {
			price = p.Prices[0].Price
			found = true
		}
		if !found {
			fields[fmt.Sprintf("items[%d]", i)] = "product has no price"
			continue
		}

		sizeName := ""
		for _, ps := range p.Sizes {
			if ps.SizeID == item.SizeID && ps.Size != nil {
				sizeName = ps.Size.Name
			}
		}

		lines = append(lines, pricedLine{Item: item, Product: p, SizeName: sizeName, UnitPrice: price})
	}

	if len(fields) > 0 {
		return nil, fields
	}
	return lines, nil
}

func subtotalOf(lines []pricedLine) decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Item.Quantity))))
	}
	return subtotal
}

// finalTotal floors the discounted total at zero.
func finalTotal(subtotal, discountAmount decimal.Decimal) decimal.Decimal {
	total := subtotal.Sub(discountAmount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total.Round(2)
}

// generateOrderNumber builds ORD-<unixnano>-<suffix>. The uuid-derived
// suffix keeps two checkouts landing on the same clock tick from tripping
// the unique index on order_number.
func generateOrderNumber() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixNano(), strings.ToUpper(suffix))
}

type CheckoutService interface {
	PlaceOrder(req *PlaceOrderRequest) (*PlaceOrderResult, error)
}

type checkoutService struct {
	db              *gorm.DB
	productRepo     repository.ProductRepository
	stockRepo       repository.StockRepository
	orderRepo       repository.OrderRepository
	discountRepo    repository.DiscountRepository
	paymentTypeRepo repository.PaymentTypeRepository
	settingsRepo    repository.SettingsRepository
	mailer          mail.Sender
	wsHub           *ws.Hub
}

func NewCheckoutService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	orderRepo repository.OrderRepository,
	discountRepo repository.DiscountRepository,
	paymentTypeRepo repository.PaymentTypeRepository,
	settingsRepo repository.SettingsRepository,
	mailer mail.Sender,
	hub *ws.Hub,
) CheckoutService {
	return &checkoutService{
		db:              db,
		productRepo:     productRepo,
		stockRepo:       stockRepo,
		orderRepo:       orderRepo,
		discountRepo:    discountRepo,
		paymentTypeRepo: paymentTypeRepo,
		settingsRepo:    settingsRepo,
		mailer:          mailer,
		wsHub:           hub,
	}
}

// PlaceOrder turns a cart into a persisted sale. Every write between the
// sale row and the discount bookkeeping happens inside one transaction, so
// a failure at any step leaves no partial order behind.
func (s *checkoutService) PlaceOrder(req *PlaceOrderRequest) (*PlaceOrderResult, error) {
	if fields := req.Validate(); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	// Replay detection before any work: same attempt key, same order back.
	if req.IdempotencyKey != "" {
		existing, err := s.orderRepo.FindByIdempotencyKey(req.IdempotencyKey)
		if err == nil {
			return s.replayedResult(existing), nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	paymentType, err := s.paymentTypeRepo.FindByCode(req.PaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("resolve payment type: %w", err)
	}

	// Reprice from the catalog; the cart's snapshots only identify lines.
	ids := make([]uuid.UUID, 0, len(req.Items))
	seen := make(map[uuid.UUID]bool)
	for _, item := range req.Items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	fetched, err := s.productRepo.FindByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	products := make(map[uuid.UUID]*model.Product, len(fetched))
	for i := range fetched {
		products[fetched[i].ID] = &fetched[i]
	}

	lines, fields := priceLines(req.Items, products, paymentType.ID)
	if fields != nil {
		return nil, &ValidationError{Fields: fields}
	}
	subtotal := subtotalOf(lines)

	// Revalidate the discount against the fresh subtotal. An expired or
	// capped code aborts here, before anything is written.
	var applied *AppliedDiscount
	if req.DiscountCode != "" {
		discount, err := s.discountRepo.FindByCode(req.DiscountCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDiscountNotFound
			}
			return nil, err
		}
		applied, err = EvaluateDiscount(discount, time.Now(), subtotal)
		if err != nil {
			return nil, err
		}
	}

	discountAmount := decimal.Zero
	if applied != nil {
		discountAmount = applied.Amount
	}
	total := finalTotal(subtotal, discountAmount)

	sale := &model.Sale{
		OrderNumber:    generateOrderNumber(),
		TotalAmount:    total,
		Status:         model.StatusPendingApproval,
		PaymentTypeID:  paymentType.ID,
		ShippingMethod: req.ShippingMethod,
		CustomerEmail:  req.Email,
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Address:        strings.TrimSpace(req.Address),
		City:           strings.TrimSpace(req.City),
		PostalCode:     strings.TrimSpace(req.PostalCode),
	}
	if req.IdempotencyKey != "" {
		key := req.IdempotencyKey
		sale.IdempotencyKey = &key
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(tx, sale); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}

		for _, line := range lines {
			detail := &model.SaleDetail{
				SaleID:      sale.ID,
				ProductID:   line.Item.ProductID,
				SizeID:      line.Item.SizeID,
				Quantity:    line.Item.Quantity,
				PriceAtSale: line.UnitPrice,
			}
			if err := s.orderRepo.CreateDetail(tx, detail); err != nil {
				return fmt.Errorf("create sale detail: %w", err)
			}
			sale.Details = append(sale.Details, *detail)
		}

		// Reserve stock with conditional decrements; a miss aborts the
		// whole transaction so no oversell and no partial order survives.
		for _, line := range lines {
			ok, err := s.stockRepo.DecrementIfAvailable(tx, line.Item.ProductID, line.Item.SizeID, line.Item.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			if !ok {
				return &StockConflictError{
					ProductID: line.Item.ProductID,
					SizeID:    line.Item.SizeID,
					Quantity:  line.Item.Quantity,
				}
			}
		}

		if req.PaymentMethod == model.PaymentTransfer {
			record := &model.PaymentRecord{
				SaleID:          sale.ID,
				PaymentTypeID:   paymentType.ID,
				Amount:          total,
				Status:          model.PaymentRecorded,
				ReferenceNumber: strings.TrimSpace(req.TransferReference),
			}
			if err := s.orderRepo.UpsertPaymentRecord(tx, record); err != nil {
				return fmt.Errorf("create payment record: %w", err)
			}
			sale.PaymentRecord = record
		}

		if applied != nil {
			usage := &model.DiscountUsage{
				SaleID:        sale.ID,
				DiscountID:    applied.DiscountID,
				Code:          applied.Code,
				AmountApplied: applied.Amount,
			}
			if err := s.discountRepo.CreateUsage(tx, usage); err != nil {
				return fmt.Errorf("record discount usage: %w", err)
			}
			ok, err := s.discountRepo.IncrementUses(tx, applied.DiscountID)
			if err != nil {
				return fmt.Errorf("increment discount uses: %w", err)
			}
			if !ok {
				return ErrDiscountUsageCap
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &PlaceOrderResult{
		Sale:           sale,
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		Total:          total,
	}

	if req.ShippingMethod == model.ShippingHome {
		result.WhatsAppURL = s.whatsAppLink(sale, lines, subtotal, discountAmount, total, req)
	}

	s.notify(sale, lines, total, req)

	return result, nil
}

// replayedResult rebuilds the response for an already-committed attempt.
func (s *checkoutService) replayedResult(sale *model.Sale) *PlaceOrderResult {
	subtotal := decimal.Zero
	for _, d := range sale.Details {
		subtotal = subtotal.Add(d.PriceAtSale.Mul(decimal.NewFromInt(int64(d.Quantity))))
	}
	return &PlaceOrderResult{
		Sale:           sale,
		Subtotal:       subtotal,
		DiscountAmount: subtotal.Sub(sale.TotalAmount),
		Total:          sale.TotalAmount,
		Replayed:       true,
	}
}

func (s *checkoutService) whatsAppLink(sale *model.Sale, lines []pricedLine, subtotal, discountAmount, total decimal.Decimal, req *PlaceOrderRequest) string {
	settings, err := s.settingsRepo.Get()
	if err != nil || settings.WhatsApp == "" {
		return ""
	}
	msgLines := make([]whatsapp.OrderLine, len(lines))
	for i, line := range lines {
		msgLines[i] = whatsapp.OrderLine{
			SKU:       line.Product.SKU,
			Name:      line.Product.Name,
			SizeName:  line.SizeName,
			Quantity:  line.Item.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}
	msg := whatsapp.Build(whatsapp.OrderMessage{
		OrderNumber:    sale.OrderNumber,
		FirstName:      sale.FirstName,
		LastName:       sale.LastName,
		Email:          sale.CustomerEmail,
		Address:        sale.Address,
		City:           sale.City,
		PostalCode:     sale.PostalCode,
		Lines:          msgLines,
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		Total:          total,
		PaymentMethod:  req.PaymentMethod,
		TransferRef:    req.TransferReference,
	})
	return whatsapp.Link(settings.WhatsApp, msg)
}

// notify fires the order emails and the admin live feed. Both are
// best-effort; neither can fail the order.
func (s *checkoutService) notify(sale *model.Sale, lines []pricedLine, total decimal.Decimal, req *PlaceOrderRequest) {
	items := make([]mail.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = mail.OrderItem{
			Name:     line.Product.Name,
			Quantity: line.Item.Quantity,
			Price:    line.UnitPrice,
		}
	}

	go func() {
		data := mail.OrderEmailData{
			OrderNumber:    sale.OrderNumber,
			CustomerName:   sale.CustomerName(),
			CustomerEmail:  sale.CustomerEmail,
			Items:          items,
			Total:          total,
			ShippingMethod: req.ShippingMethod,
			PaymentMethod:  req.PaymentMethod,
		}
		if err := s.mailer.SendOrderEmails(data); err != nil {
			log.Printf("checkout: order emails for %s not sent: %v", sale.OrderNumber, err)
		}
	}()

	go func() {
		payload := map[string]interface{}{
			"type":   "order_update",
			"action": "order_created",
			"order": map[string]interface{}{
				"id":           sale.ID,
				"order_number": sale.OrderNumber,
				"status":       sale.Status,
				"total":        total,
				"items":        len(lines),
			},
			"message": fmt.Sprintf("New order %s for $%s", sale.OrderNumber, total.StringFixed(2)),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}
