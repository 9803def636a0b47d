package service

import (
	"testing"

	"portostore/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestProjectProductDisplayPriceAndImage(t *testing.T) {
	cash := &model.PaymentType{Code: model.PaymentCash, IsDefault: true}
	transfer := &model.PaymentType{Code: model.PaymentTransfer}

	p := &model.Product{Name: "Zapatilla urbana", SKU: "ZAP-010"}
	p.ID = uuid.New()
	// The repo loads prices default-first and images by sort order; the
	// projection trusts that ordering.
	p.Prices = []model.ProductPrice{
		{PaymentType: cash, Price: decimal.NewFromInt(100)},
		{PaymentType: transfer, Price: decimal.NewFromInt(95)},
	}
	p.Images = []model.ProductImage{
		{URL: "https://img/front.jpg", SortOrder: 0},
		{URL: "https://img/side.jpg", SortOrder: 1},
	}

	view := ProjectProduct(p)
	require.Equal(t, "ZAP-010", view.Slug)
	require.True(t, view.Price.Equal(decimal.NewFromInt(100)), "display price is the default payment type's")
	require.Equal(t, "https://img/front.jpg", view.Image)
	require.Len(t, view.Prices, 2)
	require.Equal(t, model.PaymentCash, view.Prices[0].PaymentMethod)
}

func TestProjectProductSlugFallsBackToID(t *testing.T) {
	p := &model.Product{Name: "Sin SKU"}
	p.ID = uuid.New()

	view := ProjectProduct(p)
	require.Equal(t, p.ID.String(), view.Slug)
}

func TestProjectProductSizes(t *testing.T) {
	m := 42.0
	sizeID := uuid.New()
	p := &model.Product{Name: "Zapatilla"}
	p.ID = uuid.New()
	p.Sizes = []model.ProductSize{
		{SizeID: sizeID, Stock: 7, Size: &model.Size{Name: "42", Measurement: &m}},
	}

	view := ProjectProduct(p)
	require.Len(t, view.Sizes, 1)
	require.Equal(t, sizeID, view.Sizes[0].SizeID)
	require.Equal(t, 7, view.Sizes[0].Stock)
	require.Equal(t, "42", view.Sizes[0].Name)
}
