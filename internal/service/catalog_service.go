package service

import (
	"errors"

	"portostore/internal/model"
	"portostore/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

// ProductView is the storefront projection of a product: one canonical
// display price (default payment type), images in their explicit order,
// and per-size stock.
type ProductView struct {
	ID          uuid.UUID       `json:"id"`
	Slug        string          `json:"slug"`
	SKU         string          `json:"sku,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Prices      []PriceView     `json:"prices,omitempty"`
	Image       string          `json:"image,omitempty"`
	Images      []string        `json:"images,omitempty"`
	Sizes       []SizeStockView `json:"sizes,omitempty"`
	IsFeatured  bool            `json:"is_featured"`
}

type PriceView struct {
	PaymentMethod string          `json:"payment_method"`
	Price         decimal.Decimal `json:"price"`
}

type SizeStockView struct {
	SizeID      uuid.UUID `json:"size_id"`
	Name        string    `json:"name"`
	Measurement *float64  `json:"measurement,omitempty"`
	Stock       int       `json:"stock"`
}

type CatalogService interface {
	ListFeatured(limit int) ([]ProductView, error)
	ListByCategory(categoryName string) ([]ProductView, error)
	GetBySlugOrID(slugOrID string) (*ProductView, error)
	ListCategories() ([]model.Category, error)
	ListSizes() ([]model.Size, error)
	ListUnits() ([]model.MeasurementUnit, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	sizeRepo     repository.SizeRepository
	unitRepo     repository.UnitRepository
}

func NewCatalogService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, sizeRepo repository.SizeRepository, unitRepo repository.UnitRepository) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		sizeRepo:     sizeRepo,
		unitRepo:     unitRepo,
	}
}

func (s *catalogService) ListFeatured(limit int) ([]ProductView, error) {
	if limit <= 0 {
		limit = 4
	}
	products, err := s.productRepo.FindFeatured(limit)
	if err != nil {
		return nil, err
	}
	return projectProducts(products), nil
}

func (s *catalogService) ListByCategory(categoryName string) ([]ProductView, error) {
	products, err := s.productRepo.FindByCategoryName(categoryName)
	if err != nil {
		return nil, err
	}
	return projectProducts(products), nil
}

func (s *catalogService) GetBySlugOrID(slugOrID string) (*ProductView, error) {
	product, err := s.productRepo.FindBySlugOrID(slugOrID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	view := ProjectProduct(product)
	return &view, nil
}

func (s *catalogService) ListCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *catalogService) ListSizes() ([]model.Size, error) {
	return s.sizeRepo.FindAll()
}

func (s *catalogService) ListUnits() ([]model.MeasurementUnit, error) {
	return s.unitRepo.FindAll()
}

// ProjectProduct maps a loaded product onto its storefront view. The repo
// returns prices ordered default-first and images by sort order, so index
// zero is the canonical display choice, not join luck.
func ProjectProduct(p *model.Product) ProductView {
	view := ProductView{
		ID:          p.ID,
		Slug:        p.Slug(),
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		IsFeatured:  p.IsFeatured,
	}
	if p.Category != nil {
		view.Category = p.Category.Name
	}
	if p.Unit != nil {
		view.Unit = p.Unit.Name
	}
	if len(p.Prices) > 0 {
		view.Price = p.Prices[0].Price
	}
	for _, price := range p.Prices {
		pv := PriceView{Price: price.Price}
		if price.PaymentType != nil {
			pv.PaymentMethod = price.PaymentType.Code
		}
		view.Prices = append(view.Prices, pv)
	}
	for _, img := range p.Images {
		view.Images = append(view.Images, img.URL)
	}
	if len(view.Images) > 0 {
		view.Image = view.Images[0]
	}
	for _, ps := range p.Sizes {
		sv := SizeStockView{SizeID: ps.SizeID, Stock: ps.Stock}
		if ps.Size != nil {
			sv.Name = ps.Size.Name
			sv.Measurement = ps.Size.Measurement
		}
		view.Sizes = append(view.Sizes, sv)
	}
	return view
}

func projectProducts(products []model.Product) []ProductView {
	views := make([]ProductView, len(products))
	for i := range products {
		views[i] = ProjectProduct(&products[i])
	}
	return views
}
