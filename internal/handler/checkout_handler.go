package handler

import (
	"errors"
	"time"

	"portostore/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// CheckoutHandler exposes order placement and discount validation to the
// storefront. Failures come back with a stable error code the frontend can
// branch on instead of parsing messages.
type CheckoutHandler struct {
	checkout service.CheckoutService
	discount service.DiscountService
}

func NewCheckoutHandler(checkout service.CheckoutService, discount service.DiscountService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, discount: discount}
}

func (h *CheckoutHandler) PlaceOrder(c *fiber.Ctx) error {
	var req service.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON", "code": "validation_error"})
	}

	result, err := h.checkout.PlaceOrder(&req)
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			return c.Status(400).JSON(fiber.Map{
				"error":  "validation failed",
				"code":   "validation_error",
				"fields": vErr.Fields,
			})
		}
		var sErr *service.StockConflictError
		if errors.As(err, &sErr) {
			return c.Status(409).JSON(fiber.Map{
				"error":      sErr.Error(),
				"code":       "stock_conflict",
				"product_id": sErr.ProductID,
				"size_id":    sErr.SizeID,
			})
		}
		if isDiscountRejection(err) {
			return c.Status(422).JSON(fiber.Map{"error": err.Error(), "code": "discount_rejected"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "could not place order", "code": "store_error"})
	}

	status := 201
	if result.Replayed {
		status = 200
	}
	return c.Status(status).JSON(result)
}

type validateDiscountRequest struct {
	Code     string          `json:"code"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// ValidateDiscount checks a code against the current subtotal without
// consuming a use; usage is only recorded when the order commits.
func (h *CheckoutHandler) ValidateDiscount(c *fiber.Ctx) error {
	var req validateDiscountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON", "code": "validation_error"})
	}
	if req.Code == "" {
		return c.Status(400).JSON(fiber.Map{"error": "code is required", "code": "validation_error"})
	}

	applied, err := h.discount.Validate(req.Code, time.Now(), req.Subtotal)
	if err != nil {
		if isDiscountRejection(err) {
			return c.Status(422).JSON(fiber.Map{"error": err.Error(), "code": "discount_rejected"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "could not validate discount", "code": "store_error"})
	}
	return c.JSON(applied)
}

func isDiscountRejection(err error) bool {
	return errors.Is(err, service.ErrDiscountNotFound) ||
		errors.Is(err, service.ErrDiscountExpired) ||
		errors.Is(err, service.ErrDiscountUsageCap) ||
		errors.Is(err, service.ErrDiscountInvalidValue)
}
