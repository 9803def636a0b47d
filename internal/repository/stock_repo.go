package repository

import (
	"portostore/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockRepository mutates per (product, size) inventory counts.
// Mutating methods take a *gorm.DB so callers can run them inside a
// transaction together with the rest of an order's writes.
type StockRepository interface {
	FindByKey(productID, sizeID uuid.UUID) (*model.ProductSize, error)
	FindByProduct(productID uuid.UUID) ([]model.ProductSize, error)
	FindLowStock(threshold int) ([]model.ProductSize, error)
	Upsert(productID, sizeID uuid.UUID, stock int, updatedBy string) error
	DecrementIfAvailable(tx *gorm.DB, productID, sizeID uuid.UUID, qty int) (bool, error)
	DecrementFloored(tx *gorm.DB, productID, sizeID uuid.UUID, qty int) error
	Increment(tx *gorm.DB, productID, sizeID uuid.UUID, qty int) error
}

type stockRepo struct {
	db *gorm.DB
}

func NewStockRepo(db *gorm.DB) StockRepository {
	return &stockRepo{db}
}

func (r *stockRepo) FindByKey(productID, sizeID uuid.UUID) (*model.ProductSize, error) {
	var ps model.ProductSize
	err := r.db.Preload("Size").
		Where("product_id = ? AND size_id = ?", productID, sizeID).
		First(&ps).Error
	return &ps, err
}

func (r *stockRepo) FindByProduct(productID uuid.UUID) ([]model.ProductSize, error) {
	var sizes []model.ProductSize
	err := r.db.Preload("Size").Where("product_id = ?", productID).Find(&sizes).Error
	return sizes, err
}

func (r *stockRepo) FindLowStock(threshold int) ([]model.ProductSize, error) {
	var sizes []model.ProductSize
	err := r.db.Preload("Size").Where("stock < ?", threshold).Order("stock ASC").Find(&sizes).Error
	return sizes, err
}

// Upsert sets the absolute stock for a (product, size) pair, creating the
// row when the admin assigns a size for the first time.
func (r *stockRepo) Upsert(productID, sizeID uuid.UUID, stock int, updatedBy string) error {
	var existing model.ProductSize
	err := r.db.Where("product_id = ? AND size_id = ?", productID, sizeID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		ps := model.ProductSize{ProductID: productID, SizeID: sizeID, Stock: stock}
		ps.CreatedBy = updatedBy
		ps.UpdatedBy = updatedBy
		return r.db.Create(&ps).Error
	}
	if err != nil {
		return err
	}
	return r.db.Model(&model.ProductSize{}).
		Where("product_id = ? AND size_id = ?", productID, sizeID).
		Updates(map[string]interface{}{"stock": stock, "updated_by": updatedBy}).Error
}

// DecrementIfAvailable is the conditional decrement that keeps stock from
// going negative under concurrent checkouts: the WHERE clause only matches
// rows with enough stock, so the affected-row count tells the caller whether
// the reservation happened.
func (r *stockRepo) DecrementIfAvailable(tx *gorm.DB, productID, sizeID uuid.UUID, qty int) (bool, error) {
	res := tx.Model(&model.ProductSize{}).
		Where("product_id = ? AND size_id = ? AND stock >= ?", productID, sizeID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DecrementFloored re-applies a decrement with a floor at zero. Used when a
// cancelled order is reinstated; rejecting an admin status change over stock
// drift would strand the order, so the count clamps instead.
func (r *stockRepo) DecrementFloored(tx *gorm.DB, productID, sizeID uuid.UUID, qty int) error {
	return tx.Model(&model.ProductSize{}).
		Where("product_id = ? AND size_id = ?", productID, sizeID).
		UpdateColumn("stock", gorm.Expr("GREATEST(stock - ?, 0)", qty)).Error
}

// Increment restores stock when an order is cancelled.
func (r *stockRepo) Increment(tx *gorm.DB, productID, sizeID uuid.UUID, qty int) error {
	return tx.Model(&model.ProductSize{}).
		Where("product_id = ? AND size_id = ?", productID, sizeID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty)).Error
}
