package main

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"portostore/internal/cart"
	"portostore/internal/handler"
	"portostore/internal/mail"
	"portostore/internal/middleware"
	"portostore/internal/model"
	"portostore/internal/repository"
	"portostore/internal/service"
	"portostore/internal/ws"
	"portostore/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.User{},
		&model.Category{}, &model.MeasurementUnit{}, &model.PaymentType{},
		&model.Product{}, &model.ProductPrice{}, &model.ProductImage{},
		&model.Size{}, &model.ProductSize{},
		&model.Sale{}, &model.SaleDetail{}, &model.PaymentRecord{},
		&model.Discount{}, &model.DiscountUsage{},
		&model.StoreSettings{},
	)

	// 3. Seed lookup tables and the admin user
	seedDefaults(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	stockRepo := repository.NewStockRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	discountRepo := repository.NewDiscountRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	sizeRepo := repository.NewSizeRepo(db)
	unitRepo := repository.NewUnitRepo(db)
	paymentTypeRepo := repository.NewPaymentTypeRepo(db)
	settingsRepo := repository.NewSettingsRepo(db)
	userRepo := repository.NewUserRepo(db)

	mailer := mail.NewResendMailer(mail.Config{
		APIKey:        os.Getenv("RESEND_API_KEY"),
		FromAddress:   os.Getenv("MAIL_FROM"),
		MerchantEmail: os.Getenv("MERCHANT_EMAIL"),
	})

	cartStore := cart.NewStore()
	cartStore.OnChange(func(sessionID string, items []cart.Item) {
		count := 0
		for _, item := range items {
			count += item.Quantity
		}
		go func() {
			msg, _ := json.Marshal(map[string]interface{}{
				"type":       "cart_update",
				"session_id": sessionID,
				"count":      count,
			})
			wsHub.Broadcast <- msg
		}()
	})

	catalogService := service.NewCatalogService(productRepo, categoryRepo, sizeRepo, unitRepo)
	checkoutService := service.NewCheckoutService(db, productRepo, stockRepo, orderRepo, discountRepo, paymentTypeRepo, settingsRepo, mailer, wsHub)
	discountService := service.NewDiscountService(discountRepo)
	orderService := service.NewOrderService(db, orderRepo, stockRepo, wsHub)
	invService := service.NewInventoryService(productRepo, stockRepo, db, wsHub)
	dashService := service.NewDashboardService(orderRepo, stockRepo, productRepo)
	authService := service.NewAuthService(userRepo, wsHub)

	catalogHandler := handler.NewCatalogHandler(catalogService)
	cartHandler := handler.NewCartHandler(cartStore)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, discountService)
	orderHandler := handler.NewOrderHandler(orderService)
	discountHandler := handler.NewDiscountHandler(discountService)
	invHandler := handler.NewInventoryHandler(invService)
	taxonomyHandler := handler.NewTaxonomyHandler(categoryRepo, sizeRepo, unitRepo)
	settingsHandler := handler.NewSettingsHandler(settingsRepo)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Porto Store v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	// Storefront catalog
	api.Get("/catalog/featured", catalogHandler.GetFeatured)
	api.Get("/catalog/categories", catalogHandler.GetCategories)
	api.Get("/catalog/categories/:name/products", catalogHandler.GetByCategory)
	api.Get("/catalog/products/:slug", catalogHandler.GetProduct)
	api.Get("/catalog/sizes", catalogHandler.GetSizes)
	api.Get("/catalog/units", catalogHandler.GetUnits)

	// Cart (session travels in the X-Cart-Session header)
	api.Get("/cart", cartHandler.Get)
	api.Post("/cart/items", cartHandler.Add)
	api.Put("/cart/items", cartHandler.SetQuantity)
	api.Delete("/cart/items", cartHandler.Remove)
	api.Delete("/cart", cartHandler.Clear)

	// Checkout
	api.Post("/checkout", checkoutHandler.PlaceOrder)
	api.Post("/discounts/validate", checkoutHandler.ValidateDiscount)

	// Store info
	api.Get("/settings", settingsHandler.GetPublic)
	api.Get("/settings/transfer-instructions", settingsHandler.GetTransferInstructions)

	// Auth Routes (No authentication required)
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	// All routes below require authentication
	admin := api.Group("/admin", middleware.RequireAuth(userRepo))

	// Dashboard
	admin.Get("/dashboard/stats", dashHandler.GetStats)
	admin.Get("/dashboard/low-stock", dashHandler.GetLowStock)

	// Products
	admin.Get("/products", invHandler.GetProducts)
	admin.Get("/products/:id", invHandler.GetProduct)
	admin.Post("/products", invHandler.CreateProduct)
	admin.Put("/products/:id", invHandler.UpdateProduct)
	admin.Delete("/products/:id", invHandler.DeleteProduct)
	admin.Put("/products/:id/stock", invHandler.SetStock)
	admin.Put("/products/:id/prices", invHandler.SetPrices)
	admin.Put("/products/:id/images", invHandler.SetImages)

	// Taxonomy
	admin.Post("/categories", taxonomyHandler.CreateCategory)
	admin.Put("/categories/:id", taxonomyHandler.UpdateCategory)
	admin.Delete("/categories/:id", taxonomyHandler.DeleteCategory)
	admin.Post("/sizes", taxonomyHandler.CreateSize)
	admin.Delete("/sizes/:id", taxonomyHandler.DeleteSize)
	admin.Post("/units", taxonomyHandler.CreateUnit)
	admin.Delete("/units/:id", taxonomyHandler.DeleteUnit)

	// Orders
	admin.Get("/orders", orderHandler.GetOrders)
	admin.Get("/orders/:id", orderHandler.GetOrder)
	admin.Put("/orders/:id/status", orderHandler.UpdateStatus)
	admin.Post("/orders/:id/payment/cash", orderHandler.RecordCashPayment)
	admin.Post("/orders/:id/payment/transfer", orderHandler.RecordTransferDetails)
	admin.Post("/orders/:id/payment/verify", orderHandler.VerifyPayment)

	// Discounts
	admin.Get("/discounts", discountHandler.GetDiscounts)
	admin.Post("/discounts", discountHandler.CreateDiscount)
	admin.Put("/discounts/:id", discountHandler.UpdateDiscount)
	admin.Delete("/discounts/:id", discountHandler.DeleteDiscount)
	admin.Get("/discounts/:id/usages", discountHandler.GetUsages)

	// Settings
	admin.Get("/settings", settingsHandler.Get)
	admin.Put("/settings", settingsHandler.Update)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedDefaults creates lookup rows and the admin account on first boot
func seedDefaults(db *gorm.DB) {
	unitRepo := repository.NewUnitRepo(db)
	paymentTypeRepo := repository.NewPaymentTypeRepo(db)
	userRepo := repository.NewUserRepo(db)

	if err := unitRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed measurement units: %v", err)
	}

	if err := paymentTypeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed payment types: %v", err)
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@example.com"
	}
	if _, err := userRepo.FindByEmail(adminEmail); err != nil {
		admin := &model.User{
			Email:    adminEmail,
			FullName: "Store Administrator",
			IsActive: true,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			password = "admin123"
		}
		if err := admin.SetPassword(password); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Printf("✅ Admin user created: %s", adminEmail)
		}
	}
}
