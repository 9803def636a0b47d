package repository

import (
	"portostore/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByIDs(ids []uuid.UUID) ([]model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	FindBySlugOrID(slugOrID string) (*model.Product, error)
	FindFeatured(limit int) ([]model.Product, error)
	FindByCategoryName(name string) ([]model.Product, error)
	Update(product *model.Product) error
	Delete(id uuid.UUID) error
	ReplacePrices(productID uuid.UUID, prices []model.ProductPrice) error
	ReplaceImages(productID uuid.UUID, images []model.ProductImage) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

// withCatalog preloads everything the storefront needs to render a product.
// Prices come back ordered by the payment type's default flag and sort order,
// and images by their explicit sort order, so "first row" is a defined
// display choice rather than join luck.
func (r *productRepo) withCatalog() *gorm.DB {
	return r.db.
		Preload("Category").
		Preload("Unit").
		Preload("Prices", func(db *gorm.DB) *gorm.DB {
			return db.Joins("JOIN payment_types ON payment_types.id = product_prices.payment_type_id").
				Order("payment_types.is_default DESC, payment_types.sort_order ASC")
		}).
		Preload("Prices.PaymentType").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Sizes.Size")
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.withCatalog().Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.withCatalog().First(&product, "products.id = ?", id).Error
	return &product, err
}

func (r *productRepo) FindByIDs(ids []uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.withCatalog().Where("products.id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.withCatalog().First(&product, "sku = ?", sku).Error
	return &product, err
}

// FindBySlugOrID resolves a storefront URL segment: SKU first, raw id second.
func (r *productRepo) FindBySlugOrID(slugOrID string) (*model.Product, error) {
	product, err := r.FindBySKU(slugOrID)
	if err == nil {
		return product, nil
	}
	id, parseErr := uuid.Parse(slugOrID)
	if parseErr != nil {
		return nil, err
	}
	return r.FindByID(id)
}

func (r *productRepo) FindFeatured(limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.withCatalog().
		Where("is_featured = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *productRepo) FindByCategoryName(name string) ([]model.Product, error) {
	var products []model.Product
	err := r.withCatalog().
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("categories.name = ?", name).
		Find(&products).Error
	return products, err
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Omit("Prices", "Images", "Sizes", "Category", "Unit").Save(product).Error
}

func (r *productRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductPrice{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductSize{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Product{}, "id = ?", id).Error
	})
}

// ReplacePrices swaps the full price set for a product in one transaction.
func (r *productRepo) ReplacePrices(productID uuid.UUID, prices []model.ProductPrice) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("product_id = ?", productID).Delete(&model.ProductPrice{}).Error; err != nil {
			return err
		}
		for i := range prices {
			prices[i].ProductID = productID
			if err := tx.Create(&prices[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceImages swaps the ordered gallery for a product in one transaction.
func (r *productRepo) ReplaceImages(productID uuid.UUID, images []model.ProductImage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("product_id = ?", productID).Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}
		for i := range images {
			images[i].ProductID = productID
			images[i].SortOrder = i
			if err := tx.Create(&images[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
