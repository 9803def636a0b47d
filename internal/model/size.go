package model

import "github.com/google/uuid"

// Size is a shared size variant ("M", "42", a centimeter value for footwear).
// Sizes are not owned by any single product.
type Size struct {
	BaseModel
	Name        string   `gorm:"type:varchar(30);uniqueIndex;not null" json:"name" validate:"required"`
	Measurement *float64 `gorm:"type:numeric(6,2)" json:"measurement,omitempty"`
}

// ProductSize is the per (product, size) inventory count.
// Invariant: Stock never goes below zero. Order placement uses a conditional
// decrement that rejects on shortage; admin cancel/reinstate floors at zero.
type ProductSize struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_size" json:"product_id" validate:"uuid_required"`
	SizeID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_size" json:"size_id" validate:"uuid_required"`
	Size      *Size     `json:"size,omitempty" validate:"-"`
	Stock     int       `gorm:"not null;default:0" json:"stock" validate:"gte=0"`
}
