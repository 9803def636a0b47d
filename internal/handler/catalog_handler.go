package handler

import (
	"errors"
	"strconv"

	"portostore/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves the public, read-only storefront.
type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

func (h *CatalogHandler) GetFeatured(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "4"))
	products, err := h.service.ListFeatured(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

func (h *CatalogHandler) GetByCategory(c *fiber.Ctx) error {
	products, err := h.service.ListByCategory(c.Params("name"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetBySlugOrID(c.Params("slug"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(product)
}

func (h *CatalogHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(categories)
}

func (h *CatalogHandler) GetSizes(c *fiber.Ctx) error {
	sizes, err := h.service.ListSizes()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(sizes)
}

func (h *CatalogHandler) GetUnits(c *fiber.Ctx) error {
	units, err := h.service.ListUnits()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(units)
}
