package handler

import (
	"strings"

	"portostore/internal/model"
	"portostore/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// TaxonomyHandler is the admin CRUD surface over the catalog's lookup
// tables: categories, sizes, and measurement units.
type TaxonomyHandler struct {
	categoryRepo repository.CategoryRepository
	sizeRepo     repository.SizeRepository
	unitRepo     repository.UnitRepository
}

func NewTaxonomyHandler(categoryRepo repository.CategoryRepository, sizeRepo repository.SizeRepository, unitRepo repository.UnitRepository) *TaxonomyHandler {
	return &TaxonomyHandler{categoryRepo: categoryRepo, sizeRepo: sizeRepo, unitRepo: unitRepo}
}

func (h *TaxonomyHandler) CreateCategory(c *fiber.Ctx) error {
	var category model.Category
	if err := c.BodyParser(&category); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if strings.TrimSpace(category.Name) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name is required"})
	}

	userID := getUserID(c)
	category.CreatedBy = userID
	category.UpdatedBy = userID

	if err := h.categoryRepo.Create(&category); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Category created", "data": category})
}

func (h *TaxonomyHandler) UpdateCategory(c *fiber.Ctx) error {
	categoryID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	existing, err := h.categoryRepo.FindByID(categoryID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Category not found"})
	}

	var req model.Category
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	existing.Name = req.Name
	existing.ImageURL = req.ImageURL
	existing.UpdatedBy = getUserID(c)

	if err := h.categoryRepo.Update(existing); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Category updated", "data": existing})
}

func (h *TaxonomyHandler) DeleteCategory(c *fiber.Ctx) error {
	categoryID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	if err := h.categoryRepo.Delete(categoryID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}

func (h *TaxonomyHandler) CreateSize(c *fiber.Ctx) error {
	var size model.Size
	if err := c.BodyParser(&size); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if strings.TrimSpace(size.Name) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name is required"})
	}

	userID := getUserID(c)
	size.CreatedBy = userID
	size.UpdatedBy = userID

	if err := h.sizeRepo.Create(&size); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Size created", "data": size})
}

func (h *TaxonomyHandler) DeleteSize(c *fiber.Ctx) error {
	sizeID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid size ID"})
	}

	if err := h.sizeRepo.Delete(sizeID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Size deleted"})
}

func (h *TaxonomyHandler) CreateUnit(c *fiber.Ctx) error {
	var unit model.MeasurementUnit
	if err := c.BodyParser(&unit); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if strings.TrimSpace(unit.Name) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name is required"})
	}

	userID := getUserID(c)
	unit.CreatedBy = userID
	unit.UpdatedBy = userID

	if err := h.unitRepo.Create(&unit); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Unit created", "data": unit})
}

func (h *TaxonomyHandler) DeleteUnit(c *fiber.Ctx) error {
	unitID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid unit ID"})
	}

	if err := h.unitRepo.Delete(unitID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Unit deleted"})
}
