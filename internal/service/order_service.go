package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"portostore/internal/model"
	"portostore/internal/repository"
	"portostore/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrUnknownStatus       = errors.New("unknown order status")
	ErrNoPaymentRecord     = errors.New("order has no payment record")
	ErrPaymentTypeMismatch = errors.New("payment record does not match order payment method")
)

// StockEffect is what a status transition does to the order's reserved stock.
type StockEffect int

const (
	StockNone     StockEffect = iota
	StockRestore              // entering cancelled: give the units back
	StockRededuct             // leaving cancelled: take them again, floored at zero
)

// TransitionStockEffect derives the stock side effect of moving an order
// from one status to another. Only the cancelled boundary moves stock;
// stock was already decremented at order creation, so entering paid (or any
// other non-cancelled status) from a non-cancelled status is a no-op.
func TransitionStockEffect(current, next string) StockEffect {
	if current == next {
		return StockNone
	}
	if next == model.StatusCancelled && current != model.StatusCancelled {
		return StockRestore
	}
	if current == model.StatusCancelled && next != model.StatusCancelled {
		return StockRededuct
	}
	return StockNone
}

type OrderService interface {
	GetAll() ([]model.Sale, error)
	GetByID(id uuid.UUID) (*model.Sale, error)
	UpdateStatus(id uuid.UUID, next, userID string) (*model.Sale, error)
	RecordCashPayment(saleID uuid.UUID, received, change decimal.Decimal, userID string) (*model.PaymentRecord, error)
	RecordTransferDetails(saleID uuid.UUID, payerName, originBank string, userID string) (*model.PaymentRecord, error)
	VerifyPayment(saleID uuid.UUID, userID string) (*model.PaymentRecord, error)
}

type orderService struct {
	db        *gorm.DB
	orderRepo repository.OrderRepository
	stockRepo repository.StockRepository
	wsHub     *ws.Hub
}

func NewOrderService(db *gorm.DB, orderRepo repository.OrderRepository, stockRepo repository.StockRepository, hub *ws.Hub) OrderService {
	return &orderService{db: db, orderRepo: orderRepo, stockRepo: stockRepo, wsHub: hub}
}

func (s *orderService) GetAll() ([]model.Sale, error) {
	return s.orderRepo.FindAll()
}

func (s *orderService) GetByID(id uuid.UUID) (*model.Sale, error) {
	sale, err := s.orderRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	return sale, err
}

// UpdateStatus moves an order between statuses and applies the cancelled-
// boundary stock reversal in the same transaction. The sale row is locked
// for the duration so two concurrent transitions cannot both move stock.
func (s *orderService) UpdateStatus(id uuid.UUID, next, userID string) (*model.Sale, error) {
	if !model.ValidSaleStatus(next) {
		return nil, ErrUnknownStatus
	}

	var updated *model.Sale
	err := s.db.Transaction(func(tx *gorm.DB) error {
		sale, err := s.orderRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		switch TransitionStockEffect(sale.Status, next) {
		case StockRestore:
			for _, d := range sale.Details {
				if err := s.stockRepo.Increment(tx, d.ProductID, d.SizeID, d.Quantity); err != nil {
					return fmt.Errorf("restore stock: %w", err)
				}
			}
		case StockRededuct:
			for _, d := range sale.Details {
				if err := s.stockRepo.DecrementFloored(tx, d.ProductID, d.SizeID, d.Quantity); err != nil {
					return fmt.Errorf("rededuct stock: %w", err)
				}
			}
		}

		if err := s.orderRepo.UpdateStatus(tx, id, next, userID); err != nil {
			return err
		}
		sale.Status = next
		updated = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	go func() {
		payload := map[string]interface{}{
			"type":   "order_update",
			"action": "status_changed",
			"order": map[string]interface{}{
				"id":           updated.ID,
				"order_number": updated.OrderNumber,
				"status":       updated.Status,
			},
			"message": fmt.Sprintf("Order %s moved to %s", updated.OrderNumber, updated.Status),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()

	return updated, nil
}

// RecordCashPayment registers the received/change amounts for a cash order.
// Stock is untouched: it moved when the order was placed.
func (s *orderService) RecordCashPayment(saleID uuid.UUID, received, change decimal.Decimal, userID string) (*model.PaymentRecord, error) {
	sale, err := s.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale.PaymentType != nil && sale.PaymentType.Code != model.PaymentCash {
		return nil, ErrPaymentTypeMismatch
	}

	record := &model.PaymentRecord{
		SaleID:         sale.ID,
		PaymentTypeID:  sale.PaymentTypeID,
		Amount:         sale.TotalAmount,
		Status:         model.PaymentRecorded,
		AmountReceived: decimal.NewNullDecimal(received),
		ChangeGiven:    decimal.NewNullDecimal(change),
	}
	record.CreatedBy = userID
	record.UpdatedBy = userID

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.UpsertPaymentRecord(tx, record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// RecordTransferDetails fills in payer metadata on a transfer record after
// the shopper sends their receipt.
func (s *orderService) RecordTransferDetails(saleID uuid.UUID, payerName, originBank, userID string) (*model.PaymentRecord, error) {
	record, err := s.orderRepo.FindPaymentRecord(saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPaymentRecord
		}
		return nil, err
	}
	record.PayerName = payerName
	record.OriginBank = originBank
	record.UpdatedBy = userID

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.UpsertPaymentRecord(tx, record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// VerifyPayment flips a payment record from recorded to verified. No stock
// effect; verification is bookkeeping on top of an already-reserved order.
func (s *orderService) VerifyPayment(saleID uuid.UUID, userID string) (*model.PaymentRecord, error) {
	record, err := s.orderRepo.FindPaymentRecord(saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPaymentRecord
		}
		return nil, err
	}
	record.Status = model.PaymentVerified
	record.UpdatedBy = userID

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.UpsertPaymentRecord(tx, record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
