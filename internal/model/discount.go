package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Discount types.
const (
	DiscountFixed      = "fixed"
	DiscountPercentage = "percentage"
)

// Discount is a redeemable code. Validation never consumes a usage slot;
// UsesCount moves only when an order actually commits with the code applied.
type Discount struct {
	BaseModel
	Code       string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required"`
	Type       string          `gorm:"type:varchar(20);not null" json:"type" validate:"required,oneof=fixed percentage"`
	Value      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"value"`
	IsActive   bool            `gorm:"default:true" json:"is_active"`
	ValidFrom  *time.Time      `json:"valid_from,omitempty"`
	ValidUntil *time.Time      `json:"valid_until,omitempty"`
	MaxUses    *int            `json:"max_uses,omitempty"`
	UsesCount  int             `gorm:"not null;default:0" json:"uses_count"`
}

// DiscountUsage is the immutable record of one code applied to one sale,
// with the amount that was actually taken off.
type DiscountUsage struct {
	BaseModel
	SaleID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"sale_id"`
	DiscountID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"discount_id"`
	Code          string          `gorm:"type:varchar(50);not null" json:"code"`
	AmountApplied decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount_applied"`
}
