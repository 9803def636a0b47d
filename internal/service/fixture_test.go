package service

import (
	"sync"
	"testing"

	"portostore/internal/mail"
	"portostore/internal/model"
	"portostore/internal/repository"
	"portostore/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeMailer records order emails instead of calling out to Resend.
type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.OrderEmailData
}

func (f *fakeMailer) SendOrderEmails(data mail.OrderEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, data)
	return nil
}

func (f *fakeMailer) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// storeFixture boots an in-memory database with the full schema, seeds the
// payment types, two products with stock and the PORTO10 code, and wires the
// real repositories and services over it.
type storeFixture struct {
	db       *gorm.DB
	checkout CheckoutService
	orders   OrderService
	stock    repository.StockRepository
	mailer   *fakeMailer

	productA *model.Product // REM-001, size M, stock 5, $15
	productB *model.Product // REM-002, size L, stock 1, $15
	sizeM    *model.Size
	sizeL    *model.Size
	discount *model.Discount // PORTO10, 10% off
}

func newStoreFixture(t *testing.T) *storeFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection makes concurrent writers queue instead of hitting
	// a locked database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Category{}, &model.MeasurementUnit{}, &model.PaymentType{},
		&model.Product{}, &model.ProductPrice{}, &model.ProductImage{},
		&model.Size{}, &model.ProductSize{},
		&model.Sale{}, &model.SaleDetail{}, &model.PaymentRecord{},
		&model.Discount{}, &model.DiscountUsage{},
		&model.StoreSettings{},
	))

	paymentTypeRepo := repository.NewPaymentTypeRepo(db)
	require.NoError(t, paymentTypeRepo.SeedDefaults())
	cash, err := paymentTypeRepo.FindByCode(model.PaymentCash)
	require.NoError(t, err)

	category := &model.Category{Name: "Remeras"}
	require.NoError(t, db.Create(category).Error)

	f := &storeFixture{
		db:     db,
		stock:  repository.NewStockRepo(db),
		mailer: &fakeMailer{},
		sizeM:  &model.Size{Name: "M"},
		sizeL:  &model.Size{Name: "L"},
	}
	require.NoError(t, db.Create(f.sizeM).Error)
	require.NoError(t, db.Create(f.sizeL).Error)

	f.productA = &model.Product{SKU: "REM-001", Name: "Remera lisa", CategoryID: category.ID}
	f.productB = &model.Product{SKU: "REM-002", Name: "Remera estampada", CategoryID: category.ID}
	require.NoError(t, db.Create(f.productA).Error)
	require.NoError(t, db.Create(f.productB).Error)
	for _, p := range []*model.Product{f.productA, f.productB} {
		price := &model.ProductPrice{ProductID: p.ID, PaymentTypeID: cash.ID, Price: decimal.NewFromInt(15)}
		require.NoError(t, db.Create(price).Error)
	}
	require.NoError(t, db.Create(&model.ProductSize{ProductID: f.productA.ID, SizeID: f.sizeM.ID, Stock: 5}).Error)
	require.NoError(t, db.Create(&model.ProductSize{ProductID: f.productB.ID, SizeID: f.sizeL.ID, Stock: 1}).Error)

	f.discount = &model.Discount{
		Code:     "PORTO10",
		Type:     model.DiscountPercentage,
		Value:    decimal.NewFromInt(10),
		IsActive: true,
	}
	require.NoError(t, db.Create(f.discount).Error)

	hub := ws.NewHub()
	go hub.Run()

	productRepo := repository.NewProductRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	discountRepo := repository.NewDiscountRepo(db)
	settingsRepo := repository.NewSettingsRepo(db)

	f.checkout = NewCheckoutService(db, productRepo, f.stock, orderRepo, discountRepo, paymentTypeRepo, settingsRepo, f.mailer, hub)
	f.orders = NewOrderService(db, orderRepo, f.stock, hub)
	return f
}

// checkoutRequest is the canonical order: 2x A/M + 1x B/L at $15 each,
// subtotal 45.00, PORTO10 takes it to 40.50.
func (f *storeFixture) checkoutRequest() *PlaceOrderRequest {
	return &PlaceOrderRequest{
		Items: []CheckoutItem{
			{ProductID: f.productA.ID, SizeID: f.sizeM.ID, Quantity: 2},
			{ProductID: f.productB.ID, SizeID: f.sizeL.ID, Quantity: 1},
		},
		ShippingMethod: model.ShippingStore,
		PaymentMethod:  model.PaymentCash,
		DiscountCode:   "PORTO10",
		Email:          "ana@example.com",
		FirstName:      "Ana",
		LastName:       "García",
		IdempotencyKey: uuid.New().String(),
	}
}

func (f *storeFixture) stockAt(t *testing.T, productID, sizeID uuid.UUID) int {
	t.Helper()
	ps, err := f.stock.FindByKey(productID, sizeID)
	require.NoError(t, err)
	return ps.Stock
}

func (f *storeFixture) usesCount(t *testing.T) int {
	t.Helper()
	var d model.Discount
	require.NoError(t, f.db.First(&d, "id = ?", f.discount.ID).Error)
	return d.UsesCount
}

func (f *storeFixture) saleCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&model.Sale{}).Count(&n).Error)
	return n
}
