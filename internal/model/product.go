package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups products for storefront browsing.
type Category struct {
	BaseModel
	Name     string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required"`
	ImageURL string `gorm:"type:text" json:"image_url"`

	Products []Product `json:"products,omitempty"`
}

// MeasurementUnit is the unit a product is sold in (e.g. "Prenda", "Par").
type MeasurementUnit struct {
	BaseModel
	Name string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name" validate:"required"`
}

// PaymentType is a payment method shoppers can choose at checkout. Prices are
// stored per payment type; the row flagged IsDefault supplies the storefront
// display price.
type PaymentType struct {
	BaseModel
	Code      string `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	Name      string `gorm:"type:varchar(50);not null" json:"name"`
	IsDefault bool   `gorm:"default:false" json:"is_default"`
	SortOrder int    `gorm:"default:0" json:"sort_order"`
}

// Payment type codes.
const (
	PaymentCash     = "cash"
	PaymentTransfer = "transfer"
)

type Product struct {
	BaseModel
	SKU         string           `gorm:"type:varchar(50);uniqueIndex" json:"sku"`
	Name        string           `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description string           `gorm:"type:text" json:"description"`
	CategoryID  uuid.UUID        `gorm:"type:uuid;not null" json:"category_id" validate:"uuid_required"`
	Category    *Category        `json:"category,omitempty" validate:"-"`
	UnitID      *uuid.UUID       `gorm:"type:uuid" json:"unit_id,omitempty"`
	Unit        *MeasurementUnit `gorm:"foreignKey:UnitID" json:"unit,omitempty" validate:"-"`
	IsFeatured  bool             `gorm:"default:false" json:"is_featured"`

	Prices []ProductPrice `json:"prices,omitempty" validate:"-"`
	Images []ProductImage `json:"images,omitempty" validate:"-"`
	Sizes  []ProductSize  `json:"sizes,omitempty" validate:"-"`
}

// Slug is what product URLs are built from: the SKU when one exists,
// otherwise the raw id.
func (p *Product) Slug() string {
	if p.SKU != "" {
		return p.SKU
	}
	return p.ID.String()
}

// ProductPrice is the unit price of a product for one payment type.
type ProductPrice struct {
	BaseModel
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_payment" json:"product_id" validate:"uuid_required"`
	PaymentTypeID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_payment" json:"payment_type_id" validate:"uuid_required"`
	PaymentType   *PaymentType    `json:"payment_type,omitempty" validate:"-"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
}

// ProductImage is an ordered gallery image. SortOrder is the display order,
// never insert order.
type ProductImage struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	URL       string    `gorm:"type:text;not null" json:"url" validate:"required,url"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
}

// MaxProductImages caps the gallery size per product.
const MaxProductImages = 3
