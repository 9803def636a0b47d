package handler

import (
	"portostore/internal/cart"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const cartSessionHeader = "X-Cart-Session"

// CartHandler manages the per-session cart. The session id travels in a
// header; a missing id gets a fresh one issued in the response.
type CartHandler struct {
	store *cart.Store
}

func NewCartHandler(store *cart.Store) *CartHandler {
	return &CartHandler{store: store}
}

func (h *CartHandler) session(c *fiber.Ctx) string {
	id := c.Get(cartSessionHeader)
	if id == "" {
		id = h.store.NewSession()
	}
	c.Set(cartSessionHeader, id)
	return id
}

func (h *CartHandler) Get(c *fiber.Ctx) error {
	sessionID := h.session(c)
	return c.JSON(fiber.Map{
		"session_id": sessionID,
		"items":      h.store.Items(sessionID),
		"count":      h.store.Count(sessionID),
	})
}

type cartLineRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	SizeID    uuid.UUID `json:"size_id"`
	Quantity  int       `json:"quantity"`
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req cartLineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.ProductID == uuid.Nil || req.SizeID == uuid.Nil {
		return c.Status(400).JSON(fiber.Map{"error": "product_id and size_id are required"})
	}

	sessionID := h.session(c)
	items := h.store.Add(sessionID, req.ProductID, req.SizeID, req.Quantity)
	return c.JSON(fiber.Map{"session_id": sessionID, "items": items, "count": h.store.Count(sessionID)})
}

func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	var req cartLineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sessionID := h.session(c)
	items := h.store.SetQuantity(sessionID, req.ProductID, req.SizeID, req.Quantity)
	return c.JSON(fiber.Map{"session_id": sessionID, "items": items, "count": h.store.Count(sessionID)})
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	var req cartLineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sessionID := h.session(c)
	items := h.store.Remove(sessionID, req.ProductID, req.SizeID)
	return c.JSON(fiber.Map{"session_id": sessionID, "items": items, "count": h.store.Count(sessionID)})
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	sessionID := h.session(c)
	h.store.Clear(sessionID)
	return c.JSON(fiber.Map{"session_id": sessionID, "items": []cart.Item{}, "count": 0})
}
