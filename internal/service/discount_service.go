package service

import (
	"errors"
	"time"

	"portostore/internal/model"
	"portostore/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Discount rejections. Handlers map these to stable error codes.
var (
	ErrDiscountNotFound     = errors.New("discount code not found")
	ErrDiscountExpired      = errors.New("discount code expired")
	ErrDiscountUsageCap     = errors.New("discount usage limit reached")
	ErrDiscountInvalidValue = errors.New("discount value is invalid")
)

// AppliedDiscount is the outcome of a successful validation: the code's
// identity plus the amount it takes off the given subtotal. Validation has
// no side effects; usage is recorded only when an order commits.
type AppliedDiscount struct {
	DiscountID uuid.UUID       `json:"discount_id"`
	Code       string          `json:"code"`
	Type       string          `json:"type"`
	Value      decimal.Decimal `json:"value"`
	Amount     decimal.Decimal `json:"amount"`
}

type DiscountService interface {
	Validate(code string, now time.Time, subtotal decimal.Decimal) (*AppliedDiscount, error)
	Create(discount *model.Discount, userID string) error
	Update(discount *model.Discount, userID string) error
	Delete(id uuid.UUID) error
	GetAll() ([]model.Discount, error)
	GetUsages(id uuid.UUID) ([]model.DiscountUsage, error)
}

type discountService struct {
	discountRepo repository.DiscountRepository
}

func NewDiscountService(repo repository.DiscountRepository) DiscountService {
	return &discountService{discountRepo: repo}
}

func (s *discountService) Validate(code string, now time.Time, subtotal decimal.Decimal) (*AppliedDiscount, error) {
	discount, err := s.discountRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiscountNotFound
		}
		return nil, err
	}
	return EvaluateDiscount(discount, now, subtotal)
}

// EvaluateDiscount applies the validation rules to an already-loaded code:
// active, inside its validity window, under its usage cap, positive value.
// The computed amount never exceeds the subtotal.
func EvaluateDiscount(d *model.Discount, now time.Time, subtotal decimal.Decimal) (*AppliedDiscount, error) {
	if d == nil || !d.IsActive {
		return nil, ErrDiscountNotFound
	}
	if d.ValidFrom != nil && now.Before(*d.ValidFrom) {
		return nil, ErrDiscountExpired
	}
	if d.ValidUntil != nil && now.After(*d.ValidUntil) {
		return nil, ErrDiscountExpired
	}
	if d.MaxUses != nil && d.UsesCount >= *d.MaxUses {
		return nil, ErrDiscountUsageCap
	}
	if !d.Value.IsPositive() {
		return nil, ErrDiscountInvalidValue
	}

	var amount decimal.Decimal
	switch d.Type {
	case model.DiscountFixed:
		amount = d.Value
	case model.DiscountPercentage:
		amount = subtotal.Mul(d.Value).Div(decimal.NewFromInt(100))
	default:
		return nil, ErrDiscountInvalidValue
	}
	if amount.GreaterThan(subtotal) {
		amount = subtotal
	}

	return &AppliedDiscount{
		DiscountID: d.ID,
		Code:       d.Code,
		Type:       d.Type,
		Value:      d.Value,
		Amount:     amount.Round(2),
	}, nil
}

func (s *discountService) Create(discount *model.Discount, userID string) error {
	if !discount.Value.IsPositive() {
		return ErrDiscountInvalidValue
	}
	if discount.Type != model.DiscountFixed && discount.Type != model.DiscountPercentage {
		return ErrDiscountInvalidValue
	}
	discount.CreatedBy = userID
	discount.UpdatedBy = userID
	return s.discountRepo.Create(discount)
}

func (s *discountService) Update(discount *model.Discount, userID string) error {
	if !discount.Value.IsPositive() {
		return ErrDiscountInvalidValue
	}
	discount.UpdatedBy = userID
	return s.discountRepo.Update(discount)
}

func (s *discountService) Delete(id uuid.UUID) error {
	return s.discountRepo.Delete(id)
}

func (s *discountService) GetAll() ([]model.Discount, error) {
	return s.discountRepo.FindAll()
}

func (s *discountService) GetUsages(id uuid.UUID) ([]model.DiscountUsage, error) {
	return s.discountRepo.FindUsagesByDiscount(id)
}
