package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale statuses. Admin moves orders between these manually; only the
// cancelled boundary has stock side effects.
const (
	StatusPendingApproval = "pending_approval"
	StatusPaid            = "paid"
	StatusCancelled       = "cancelled"
	StatusDispatched      = "dispatched"
	StatusInBranch        = "in_branch"
	StatusPickedUp        = "picked_up"
)

// SaleStatuses enumerates every status the admin menu offers.
var SaleStatuses = []string{
	StatusPendingApproval,
	StatusPaid,
	StatusCancelled,
	StatusDispatched,
	StatusInBranch,
	StatusPickedUp,
}

// ValidSaleStatus reports whether s is one of the known sale statuses.
func ValidSaleStatus(s string) bool {
	for _, known := range SaleStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Shipping methods.
const (
	ShippingHome  = "home"
	ShippingStore = "store"
)

// Sale is a committed purchase: line items, a status, and a total.
// For home shipping the stored total excludes shipping, which is agreed
// out-of-band over WhatsApp.
type Sale struct {
	BaseModel
	OrderNumber    string          `gorm:"type:varchar(40);uniqueIndex;not null" json:"order_number"`
	TotalAmount    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	Status         string          `gorm:"type:varchar(30);not null;default:'pending_approval';index" json:"status"`
	PaymentTypeID  uuid.UUID       `gorm:"type:uuid;not null" json:"payment_type_id"`
	PaymentType    *PaymentType    `json:"payment_type,omitempty"`
	ShippingMethod string          `gorm:"type:varchar(10);not null" json:"shipping_method"`

	// Shopper contact and shipping fields, captured at checkout.
	CustomerEmail string `gorm:"type:varchar(255);not null" json:"customer_email"`
	FirstName     string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName      string `gorm:"type:varchar(100);not null" json:"last_name"`
	Address       string `gorm:"type:varchar(255)" json:"address,omitempty"`
	City          string `gorm:"type:varchar(100)" json:"city,omitempty"`
	PostalCode    string `gorm:"type:varchar(10)" json:"postal_code,omitempty"`

	// One checkout attempt maps to at most one sale; replays of the same key
	// return the original sale instead of writing again.
	IdempotencyKey *string `gorm:"type:varchar(64);uniqueIndex" json:"-"`

	Details       []SaleDetail   `json:"details,omitempty"`
	PaymentRecord *PaymentRecord `json:"payment_record,omitempty"`
}

// CustomerName joins the shopper's first and last name.
func (s *Sale) CustomerName() string {
	return s.FirstName + " " + s.LastName
}

// SaleDetail is one order line. PriceAtSale is the unit price snapshot taken
// at commit time, immune to later catalog price changes.
type SaleDetail struct {
	BaseModel
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	Product     *Product        `json:"product,omitempty"`
	SizeID      uuid.UUID       `gorm:"type:uuid;not null" json:"size_id"`
	Size        *Size           `json:"size,omitempty"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	PriceAtSale decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price_at_sale"`
}

// Payment record statuses.
const (
	PaymentRecorded = "recorded"
	PaymentVerified = "verified"
)

// PaymentRecord holds payment-method-specific proof for one sale.
// Transfer orders get one at checkout; cash orders get one when the admin
// registers the received amount. At most one per sale.
type PaymentRecord struct {
	BaseModel
	SaleID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"sale_id"`
	PaymentTypeID uuid.UUID       `gorm:"type:uuid;not null" json:"payment_type_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Status        string          `gorm:"type:varchar(20);not null;default:'recorded'" json:"status"`

	// Transfer metadata.
	ReferenceNumber string     `gorm:"type:varchar(100)" json:"reference_number,omitempty"`
	PayerName       string     `gorm:"type:varchar(150)" json:"payer_name,omitempty"`
	OriginBank      string     `gorm:"type:varchar(100)" json:"origin_bank,omitempty"`
	TransferredAt   *time.Time `json:"transferred_at,omitempty"`

	// Cash metadata.
	AmountReceived decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"amount_received,omitempty"`
	ChangeGiven    decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"change_given,omitempty"`
}
