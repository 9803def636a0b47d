package service

import (
	"testing"
	"time"

	"portostore/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func activeDiscount(dType string, value int64) *model.Discount {
	return &model.Discount{
		Code:     "PORTO10",
		Type:     dType,
		Value:    decimal.NewFromInt(value),
		IsActive: true,
	}
}

func TestEvaluateDiscountPercentage(t *testing.T) {
	d := activeDiscount(model.DiscountPercentage, 10)

	applied, err := EvaluateDiscount(d, time.Now(), decimal.NewFromFloat(45.00))
	require.NoError(t, err)
	require.Equal(t, "4.5", applied.Amount.String())
	require.Equal(t, "PORTO10", applied.Code)
}

func TestEvaluateDiscountFixed(t *testing.T) {
	d := activeDiscount(model.DiscountFixed, 5)

	applied, err := EvaluateDiscount(d, time.Now(), decimal.NewFromInt(40))
	require.NoError(t, err)
	require.True(t, applied.Amount.Equal(decimal.NewFromInt(5)))
}

func TestEvaluateDiscountFixedCappedAtSubtotal(t *testing.T) {
	d := activeDiscount(model.DiscountFixed, 100)

	applied, err := EvaluateDiscount(d, time.Now(), decimal.NewFromInt(30))
	require.NoError(t, err)
	require.True(t, applied.Amount.Equal(decimal.NewFromInt(30)), "fixed discount must not exceed the subtotal")
}

func TestEvaluateDiscountInactive(t *testing.T) {
	d := activeDiscount(model.DiscountPercentage, 10)
	d.IsActive = false

	_, err := EvaluateDiscount(d, time.Now(), decimal.NewFromInt(50))
	require.ErrorIs(t, err, ErrDiscountNotFound)
}

func TestEvaluateDiscountNil(t *testing.T) {
	_, err := EvaluateDiscount(nil, time.Now(), decimal.NewFromInt(50))
	require.ErrorIs(t, err, ErrDiscountNotFound)
}

func TestEvaluateDiscountWindow(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	notYet := activeDiscount(model.DiscountPercentage, 10)
	notYet.ValidFrom = &future
	_, err := EvaluateDiscount(notYet, now, decimal.NewFromInt(50))
	require.ErrorIs(t, err, ErrDiscountExpired)

	over := activeDiscount(model.DiscountPercentage, 10)
	over.ValidUntil = &past
	_, err = EvaluateDiscount(over, now, decimal.NewFromInt(50))
	require.ErrorIs(t, err, ErrDiscountExpired)

	inWindow := activeDiscount(model.DiscountPercentage, 10)
	inWindow.ValidFrom = &past
	inWindow.ValidUntil = &future
	_, err = EvaluateDiscount(inWindow, now, decimal.NewFromInt(50))
	require.NoError(t, err)
}

func TestEvaluateDiscountUsageCap(t *testing.T) {
	max := 3
	d := activeDiscount(model.DiscountPercentage, 10)
	d.MaxUses = &max
	d.UsesCount = 3

	_, err := EvaluateDiscount(d, time.Now(), decimal.NewFromInt(50))
	require.ErrorIs(t, err, ErrDiscountUsageCap)

	d.UsesCount = 2
	_, err = EvaluateDiscount(d, time.Now(), decimal.NewFromInt(50))
	require.NoError(t, err)
}

func TestEvaluateDiscountInvalidValue(t *testing.T) {
	zero := activeDiscount(model.DiscountPercentage, 0)
	_, err := EvaluateDiscount(zero, time.Now(), decimal.NewFromInt(50))
	require.ErrorIs(t, err, ErrDiscountInvalidValue)

	unknownType := activeDiscount("bogus", 10)
	_, err = EvaluateDiscount(unknownType, time.Now(), decimal.NewFromInt(50))
	require.ErrorIs(t, err, ErrDiscountInvalidValue)
}

func TestEvaluateDiscountRoundsToCents(t *testing.T) {
	d := activeDiscount(model.DiscountPercentage, 15)

	applied, err := EvaluateDiscount(d, time.Now(), decimal.NewFromFloat(33.33))
	require.NoError(t, err)
	// 33.33 * 15% = 4.9995 -> 5.00
	require.Equal(t, "5.00", applied.Amount.StringFixed(2))
}
