package service

import (
	"github.com/shopspring/decimal"

	"portostore/internal/model"
	"portostore/internal/repository"
)

// DashboardStats is the back-office landing page summary.
type DashboardStats struct {
	TotalOrders     int64            `json:"total_orders"`
	PendingOrders   int64            `json:"pending_orders"`
	CancelledOrders int64            `json:"cancelled_orders"`
	OrdersByStatus  map[string]int64 `json:"orders_by_status"`
	Revenue         decimal.Decimal  `json:"revenue"`
	LowStockCount   int              `json:"low_stock_count"`
}

type LowStockItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	SizeName    string `json:"size_name"`
	Stock       int    `json:"stock"`
}

type DashboardService interface {
	GetStats() (*DashboardStats, error)
	GetLowStock(threshold int) ([]LowStockItem, error)
}

type dashboardService struct {
	orderRepo   repository.OrderRepository
	stockRepo   repository.StockRepository
	productRepo repository.ProductRepository
}

func NewDashboardService(orderRepo repository.OrderRepository, stockRepo repository.StockRepository, productRepo repository.ProductRepository) DashboardService {
	return &dashboardService{orderRepo: orderRepo, stockRepo: stockRepo, productRepo: productRepo}
}

func (s *dashboardService) GetStats() (*DashboardStats, error) {
	counts, err := s.orderRepo.CountByStatus()
	if err != nil {
		return nil, err
	}

	revenueStr, err := s.orderRepo.RevenueTotal()
	if err != nil {
		return nil, err
	}
	revenue, err := decimal.NewFromString(revenueStr)
	if err != nil {
		revenue = decimal.Zero
	}

	lowStock, err := s.stockRepo.FindLowStock(defaultLowStockThreshold)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		OrdersByStatus:  counts,
		Revenue:         revenue,
		LowStockCount:   len(lowStock),
		PendingOrders:   counts[model.StatusPendingApproval],
		CancelledOrders: counts[model.StatusCancelled],
	}
	for _, c := range counts {
		stats.TotalOrders += c
	}
	return stats, nil
}

const defaultLowStockThreshold = 3

func (s *dashboardService) GetLowStock(threshold int) ([]LowStockItem, error) {
	if threshold <= 0 {
		threshold = defaultLowStockThreshold
	}
	entries, err := s.stockRepo.FindLowStock(threshold)
	if err != nil {
		return nil, err
	}

	items := make([]LowStockItem, 0, len(entries))
	for _, e := range entries {
		item := LowStockItem{
			ProductID: e.ProductID.String(),
			Stock:     e.Stock,
		}
		if e.Size != nil {
			item.SizeName = e.Size.Name
		}
		if product, err := s.productRepo.FindByID(e.ProductID); err == nil {
			item.ProductName = product.Name
		}
		items = append(items, item)
	}
	return items, nil
}
