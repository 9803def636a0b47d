package repository

import (
	"portostore/internal/model"

	"gorm.io/gorm"
)

type PaymentTypeRepository interface {
	FindAll() ([]model.PaymentType, error)
	FindByCode(code string) (*model.PaymentType, error)
	FindDefault() (*model.PaymentType, error)
	SeedDefaults() error
}

type paymentTypeRepo struct {
	db *gorm.DB
}

func NewPaymentTypeRepo(db *gorm.DB) PaymentTypeRepository {
	return &paymentTypeRepo{db}
}

func (r *paymentTypeRepo) FindAll() ([]model.PaymentType, error) {
	var types []model.PaymentType
	err := r.db.Order("sort_order ASC").Find(&types).Error
	return types, err
}

func (r *paymentTypeRepo) FindByCode(code string) (*model.PaymentType, error) {
	var pt model.PaymentType
	err := r.db.First(&pt, "code = ?", code).Error
	return &pt, err
}

// FindDefault returns the payment type whose price is the storefront display
// price. Falls back to the lowest sort order if nothing is flagged.
func (r *paymentTypeRepo) FindDefault() (*model.PaymentType, error) {
	var pt model.PaymentType
	err := r.db.Order("is_default DESC, sort_order ASC").First(&pt).Error
	return &pt, err
}

// SeedDefaults creates the cash and transfer payment types if they don't exist
func (r *paymentTypeRepo) SeedDefaults() error {
	defaults := []model.PaymentType{
		{Code: model.PaymentCash, Name: "Efectivo", IsDefault: true, SortOrder: 1},
		{Code: model.PaymentTransfer, Name: "Transferencia", SortOrder: 2},
	}
	for _, pt := range defaults {
		var existing model.PaymentType
		if err := r.db.Where("code = ?", pt.Code).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := r.db.Create(&pt).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
