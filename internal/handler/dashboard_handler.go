package handler

import (
	"strconv"

	"portostore/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetStats returns overview statistics for the back-office landing page
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.GetStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}

	return c.JSON(stats)
}

// GetLowStock returns (product, size) pairs below the threshold
// Query params: threshold (default 3)
func (h *DashboardHandler) GetLowStock(c *fiber.Ctx) error {
	thresholdStr := c.Query("threshold", "3")
	threshold, err := strconv.Atoi(thresholdStr)
	if err != nil || threshold <= 0 {
		threshold = 3
	}

	items, err := h.service.GetLowStock(threshold)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch low stock"})
	}

	return c.JSON(fiber.Map{
		"threshold": threshold,
		"items":     items,
	})
}
