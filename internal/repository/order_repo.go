package repository

import (
	"portostore/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	CreateDetail(tx *gorm.DB, detail *model.SaleDetail) error
	FindByID(id uuid.UUID) (*model.Sale, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Sale, error)
	FindByIdempotencyKey(key string) (*model.Sale, error)
	FindAll() ([]model.Sale, error)
	UpdateStatus(tx *gorm.DB, id uuid.UUID, status, updatedBy string) error
	UpsertPaymentRecord(tx *gorm.DB, record *model.PaymentRecord) error
	FindPaymentRecord(saleID uuid.UUID) (*model.PaymentRecord, error)
	CountByStatus() (map[string]int64, error)
	RevenueTotal() (string, error)
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return tx.Omit("Details", "PaymentRecord", "PaymentType").Create(sale).Error
}

func (r *orderRepo) CreateDetail(tx *gorm.DB, detail *model.SaleDetail) error {
	return tx.Omit("Product", "Size").Create(detail).Error
}

func (r *orderRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.
		Preload("PaymentType").
		Preload("PaymentRecord").
		Preload("Details.Product").
		Preload("Details.Size").
		First(&sale, "id = ?", id).Error
	return &sale, err
}

// FindByIDForUpdate locks the sale row for the duration of a status
// transition so two admins cannot race the same stock reversal.
func (r *orderRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	if err := LockForUpdate(tx).First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("sale_id = ?", id).Find(&sale.Details).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *orderRepo) FindByIdempotencyKey(key string) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.
		Preload("Details").
		Preload("PaymentRecord").
		First(&sale, "idempotency_key = ?", key).Error
	return &sale, err
}

func (r *orderRepo) FindAll() ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.
		Preload("PaymentType").
		Preload("Details").
		Order("created_at DESC").
		Find(&sales).Error
	return sales, err
}

func (r *orderRepo) UpdateStatus(tx *gorm.DB, id uuid.UUID, status, updatedBy string) error {
	return tx.Model(&model.Sale{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_by": updatedBy}).Error
}

// UpsertPaymentRecord keeps the one-record-per-sale invariant: an existing
// row for the sale is updated in place, never duplicated.
func (r *orderRepo) UpsertPaymentRecord(tx *gorm.DB, record *model.PaymentRecord) error {
	var existing model.PaymentRecord
	err := tx.Where("sale_id = ?", record.SaleID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return tx.Create(record).Error
	}
	if err != nil {
		return err
	}
	record.ID = existing.ID
	record.CreatedAt = existing.CreatedAt
	return tx.Save(record).Error
}

func (r *orderRepo) FindPaymentRecord(saleID uuid.UUID) (*model.PaymentRecord, error) {
	var record model.PaymentRecord
	err := r.db.First(&record, "sale_id = ?", saleID).Error
	return &record, err
}

func (r *orderRepo) CountByStatus() (map[string]int64, error) {
	rows, err := r.db.Model(&model.Sale{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// RevenueTotal sums totals over every non-cancelled sale.
func (r *orderRepo) RevenueTotal() (string, error) {
	var total string
	err := r.db.Model(&model.Sale{}).
		Where("status <> ?", model.StatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}
