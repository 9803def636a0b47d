package handler

import (
	"errors"

	"portostore/internal/model"
	"portostore/internal/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SettingsHandler reads and writes the store settings singleton: identity,
// contact channels, and the bank block shown in transfer instructions.
type SettingsHandler struct {
	repo repository.SettingsRepository
}

func NewSettingsHandler(repo repository.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{repo: repo}
}

// GetPublic returns the storefront-safe subset of the settings.
func (h *SettingsHandler) GetPublic(c *fiber.Ctx) error {
	settings, err := h.repo.Get()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{
		"store_name":     settings.StoreName,
		"contact_email":  settings.ContactEmail,
		"address":        settings.Address,
		"whatsapp":       settings.WhatsApp,
		"hero_image_url": settings.HeroImageURL,
	})
}

// GetTransferInstructions returns the bank block a transfer shopper needs.
func (h *SettingsHandler) GetTransferInstructions(c *fiber.Ctx) error {
	settings, err := h.repo.Get()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Transfer instructions not configured"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{
		"bank":    settings.Bank,
		"cbu":     settings.CBU,
		"alias":   settings.Alias,
		"account": settings.Account,
		"cuit":    settings.CUIT,
	})
}

func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	settings, err := h.repo.Get()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(model.StoreSettings{ID: model.StoreSettingsID})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(settings)
}

func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var settings model.StoreSettings
	if err := c.BodyParser(&settings); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.repo.Upsert(&settings); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Settings saved", "data": settings})
}
