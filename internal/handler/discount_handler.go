package handler

import (
	"errors"

	"portostore/internal/model"
	"portostore/internal/service"

	"github.com/gofiber/fiber/v2"
)

// DiscountHandler is the admin CRUD surface over discount codes.
type DiscountHandler struct {
	service service.DiscountService
}

func NewDiscountHandler(s service.DiscountService) *DiscountHandler {
	return &DiscountHandler{service: s}
}

func (h *DiscountHandler) GetDiscounts(c *fiber.Ctx) error {
	discounts, err := h.service.GetAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(discounts)
}

func (h *DiscountHandler) CreateDiscount(c *fiber.Ctx) error {
	var discount model.Discount
	if err := c.BodyParser(&discount); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.Create(&discount, getUserID(c)); err != nil {
		if errors.Is(err, service.ErrDiscountInvalidValue) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Discount created", "data": discount})
}

func (h *DiscountHandler) UpdateDiscount(c *fiber.Ctx) error {
	discountID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid discount ID"})
	}

	var discount model.Discount
	if err := c.BodyParser(&discount); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	discount.ID = discountID

	if err := h.service.Update(&discount, getUserID(c)); err != nil {
		if errors.Is(err, service.ErrDiscountInvalidValue) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Discount updated", "data": discount})
}

func (h *DiscountHandler) DeleteDiscount(c *fiber.Ctx) error {
	discountID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid discount ID"})
	}

	if err := h.service.Delete(discountID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Discount deleted"})
}

func (h *DiscountHandler) GetUsages(c *fiber.Ctx) error {
	discountID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid discount ID"})
	}

	usages, err := h.service.GetUsages(discountID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(usages)
}
