package repository

import (
	"portostore/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DiscountRepository interface {
	Create(discount *model.Discount) error
	FindAll() ([]model.Discount, error)
	FindByID(id uuid.UUID) (*model.Discount, error)
	FindByCode(code string) (*model.Discount, error)
	Update(discount *model.Discount) error
	Delete(id uuid.UUID) error
	IncrementUses(tx *gorm.DB, id uuid.UUID) (bool, error)
	CreateUsage(tx *gorm.DB, usage *model.DiscountUsage) error
	FindUsagesByDiscount(id uuid.UUID) ([]model.DiscountUsage, error)
}

type discountRepo struct {
	db *gorm.DB
}

func NewDiscountRepo(db *gorm.DB) DiscountRepository {
	return &discountRepo{db}
}

func (r *discountRepo) Create(discount *model.Discount) error {
	return r.db.Create(discount).Error
}

func (r *discountRepo) FindAll() ([]model.Discount, error) {
	var discounts []model.Discount
	err := r.db.Order("created_at DESC").Find(&discounts).Error
	return discounts, err
}

func (r *discountRepo) FindByID(id uuid.UUID) (*model.Discount, error) {
	var discount model.Discount
	err := r.db.First(&discount, "id = ?", id).Error
	return &discount, err
}

// FindByCode matches case-insensitively; shoppers type codes however they like.
func (r *discountRepo) FindByCode(code string) (*model.Discount, error) {
	var discount model.Discount
	err := r.db.Where("UPPER(code) = UPPER(?)", code).First(&discount).Error
	return &discount, err
}

func (r *discountRepo) Update(discount *model.Discount) error {
	return r.db.Save(discount).Error
}

func (r *discountRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Discount{}, "id = ?", id).Error
}

// IncrementUses bumps the usage counter only while still under the cap, the
// same conditional-update shape the stock decrement uses. A false return
// means the cap was hit between validation and commit.
func (r *discountRepo) IncrementUses(tx *gorm.DB, id uuid.UUID) (bool, error) {
	res := tx.Model(&model.Discount{}).
		Where("id = ? AND (max_uses IS NULL OR uses_count < max_uses)", id).
		UpdateColumn("uses_count", gorm.Expr("uses_count + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *discountRepo) CreateUsage(tx *gorm.DB, usage *model.DiscountUsage) error {
	return tx.Create(usage).Error
}

func (r *discountRepo) FindUsagesByDiscount(id uuid.UUID) ([]model.DiscountUsage, error) {
	var usages []model.DiscountUsage
	err := r.db.Where("discount_id = ?", id).Order("created_at DESC").Find(&usages).Error
	return usages, err
}
