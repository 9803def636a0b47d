package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"portostore/internal/model"
	"portostore/internal/repository"
	"portostore/internal/ws"
	"portostore/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSKUExists     = errors.New("SKU already exists")
	ErrTooManyImages = fmt.Errorf("a product can have at most %d images", model.MaxProductImages)
)

// InventoryService is the admin mutation surface over the catalog:
// products, per-size stock, per-payment-type prices, and gallery images.
type InventoryService interface {
	CreateProduct(req *model.Product, userID string) error
	UpdateProduct(id uuid.UUID, req *model.Product, userID string) (*model.Product, error)
	DeleteProduct(id uuid.UUID) error
	GetAllProducts() ([]model.Product, error)
	GetProductByID(id uuid.UUID) (*model.Product, error)
	SetStock(productID, sizeID uuid.UUID, stock int, userID string) error
	SetPrices(productID uuid.UUID, prices []model.ProductPrice) error
	SetImages(productID uuid.UUID, urls []string) error
}

type inventoryService struct {
	productRepo repository.ProductRepository
	stockRepo   repository.StockRepository
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewInventoryService(pRepo repository.ProductRepository, sRepo repository.StockRepository, db *gorm.DB, hub *ws.Hub) InventoryService {
	return &inventoryService{
		productRepo: pRepo,
		stockRepo:   sRepo,
		db:          db,
		wsHub:       hub,
	}
}

func (s *inventoryService) CreateProduct(req *model.Product, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if req.SKU != "" {
		existing, _ := s.productRepo.FindBySKU(req.SKU)
		if existing != nil && existing.ID != uuid.Nil {
			return ErrSKUExists
		}
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID

	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	s.broadcast("product_created", map[string]interface{}{
		"id":   req.ID,
		"sku":  req.SKU,
		"name": req.Name,
	})
	return nil
}

func (s *inventoryService) UpdateProduct(id uuid.UUID, req *model.Product, userID string) (*model.Product, error) {
	var updated *model.Product

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		if err := repository.LockForUpdate(tx).First(&existing, "id = ?", id).Error; err != nil {
			return ErrProductNotFound
		}

		existing.Name = req.Name
		existing.SKU = req.SKU
		existing.Description = req.Description
		existing.CategoryID = req.CategoryID
		existing.UnitID = req.UnitID
		existing.IsFeatured = req.IsFeatured
		existing.UpdatedBy = userID

		if err := tx.Omit("Prices", "Images", "Sizes", "Category", "Unit").Save(&existing).Error; err != nil {
			return err
		}
		updated = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast("product_updated", map[string]interface{}{
		"id":   updated.ID,
		"sku":  updated.SKU,
		"name": updated.Name,
	})
	return updated, nil
}

func (s *inventoryService) DeleteProduct(id uuid.UUID) error {
	return s.productRepo.Delete(id)
}

func (s *inventoryService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *inventoryService) GetProductByID(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	return product, err
}

// SetStock is the admin absolute set for one (product, size) pair.
func (s *inventoryService) SetStock(productID, sizeID uuid.UUID, stock int, userID string) error {
	if stock < 0 {
		return errors.New("stock must not be negative")
	}
	if err := s.stockRepo.Upsert(productID, sizeID, stock, userID); err != nil {
		return err
	}

	s.broadcast("stock_set", map[string]interface{}{
		"product_id": productID,
		"size_id":    sizeID,
		"stock":      stock,
	})
	return nil
}

func (s *inventoryService) SetPrices(productID uuid.UUID, prices []model.ProductPrice) error {
	for _, p := range prices {
		if !p.Price.IsPositive() {
			return errors.New("price must be positive")
		}
	}
	return s.productRepo.ReplacePrices(productID, prices)
}

func (s *inventoryService) SetImages(productID uuid.UUID, urls []string) error {
	if len(urls) > model.MaxProductImages {
		return ErrTooManyImages
	}
	images := make([]model.ProductImage, len(urls))
	for i, url := range urls {
		images[i] = model.ProductImage{URL: url, SortOrder: i}
	}
	return s.productRepo.ReplaceImages(productID, images)
}

func (s *inventoryService) broadcast(action string, payload map[string]interface{}) {
	go func() {
		msg, _ := json.Marshal(map[string]interface{}{
			"type":    "catalog_update",
			"action":  action,
			"payload": payload,
		})
		s.wsHub.Broadcast <- msg
	}()
}
