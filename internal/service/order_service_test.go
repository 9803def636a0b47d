package service

import (
	"testing"

	"portostore/internal/model"

	"github.com/stretchr/testify/require"
)

func TestTransitionStockEffect(t *testing.T) {
	cases := []struct {
		name    string
		current string
		next    string
		want    StockEffect
	}{
		{"pending to paid", model.StatusPendingApproval, model.StatusPaid, StockNone},
		{"paid to dispatched", model.StatusPaid, model.StatusDispatched, StockNone},
		{"pending to cancelled", model.StatusPendingApproval, model.StatusCancelled, StockRestore},
		{"paid to cancelled", model.StatusPaid, model.StatusCancelled, StockRestore},
		{"cancelled to pending", model.StatusCancelled, model.StatusPendingApproval, StockRededuct},
		{"cancelled to paid", model.StatusCancelled, model.StatusPaid, StockRededuct},
		{"cancelled to cancelled", model.StatusCancelled, model.StatusCancelled, StockNone},
		{"same status", model.StatusPaid, model.StatusPaid, StockNone},
		{"in branch to picked up", model.StatusInBranch, model.StatusPickedUp, StockNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, TransitionStockEffect(tc.current, tc.next))
		})
	}
}

func TestCancelReinstateRoundTripIsNeutral(t *testing.T) {
	// Cancelling then reinstating must restore exactly once and rededuct
	// exactly once, whatever the surrounding statuses are.
	for _, from := range []string{model.StatusPendingApproval, model.StatusPaid, model.StatusDispatched} {
		require.Equal(t, StockRestore, TransitionStockEffect(from, model.StatusCancelled))
		require.Equal(t, StockRededuct, TransitionStockEffect(model.StatusCancelled, from))
	}
}

func TestValidSaleStatus(t *testing.T) {
	for _, s := range model.SaleStatuses {
		require.True(t, model.ValidSaleStatus(s), s)
	}
	require.False(t, model.ValidSaleStatus("shipped"))
	require.False(t, model.ValidSaleStatus(""))
}

func TestUpdateStatusCancelRestoresAndReinstateRededucts(t *testing.T) {
	f := newStoreFixture(t)
	placed, err := f.checkout.PlaceOrder(f.checkoutRequest())
	require.NoError(t, err)
	require.Equal(t, 3, f.stockAt(t, f.productA.ID, f.sizeM.ID))
	require.Equal(t, 0, f.stockAt(t, f.productB.ID, f.sizeL.ID))

	cancelled, err := f.orders.UpdateStatus(placed.Sale.ID, model.StatusCancelled, "admin")
	require.NoError(t, err)
	require.Equal(t, model.StatusCancelled, cancelled.Status)
	require.Equal(t, 5, f.stockAt(t, f.productA.ID, f.sizeM.ID))
	require.Equal(t, 1, f.stockAt(t, f.productB.ID, f.sizeL.ID))

	reinstated, err := f.orders.UpdateStatus(placed.Sale.ID, model.StatusPendingApproval, "admin")
	require.NoError(t, err)
	require.Equal(t, model.StatusPendingApproval, reinstated.Status)
	require.Equal(t, 3, f.stockAt(t, f.productA.ID, f.sizeM.ID))
	require.Equal(t, 0, f.stockAt(t, f.productB.ID, f.sizeL.ID))
}

func TestUpdateStatusBetweenActiveStatusesLeavesStockAlone(t *testing.T) {
	f := newStoreFixture(t)
	placed, err := f.checkout.PlaceOrder(f.checkoutRequest())
	require.NoError(t, err)

	_, err = f.orders.UpdateStatus(placed.Sale.ID, model.StatusPaid, "admin")
	require.NoError(t, err)
	_, err = f.orders.UpdateStatus(placed.Sale.ID, model.StatusDispatched, "admin")
	require.NoError(t, err)

	// Stock moved at placement; later non-cancelled moves are bookkeeping.
	require.Equal(t, 3, f.stockAt(t, f.productA.ID, f.sizeM.ID))
	require.Equal(t, 0, f.stockAt(t, f.productB.ID, f.sizeL.ID))
}

func TestUpdateStatusReinstateFloorsAtZero(t *testing.T) {
	f := newStoreFixture(t)
	placed, err := f.checkout.PlaceOrder(f.checkoutRequest())
	require.NoError(t, err)

	_, err = f.orders.UpdateStatus(placed.Sale.ID, model.StatusCancelled, "admin")
	require.NoError(t, err)

	// Stock drifted down while the order sat cancelled.
	require.NoError(t, f.stock.Upsert(f.productA.ID, f.sizeM.ID, 1, "admin"))

	_, err = f.orders.UpdateStatus(placed.Sale.ID, model.StatusPaid, "admin")
	require.NoError(t, err)
	// The order wants 2 units back but only 1 is left: the count clamps at
	// zero instead of going negative.
	require.Equal(t, 0, f.stockAt(t, f.productA.ID, f.sizeM.ID))
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newStoreFixture(t)
	placed, err := f.checkout.PlaceOrder(f.checkoutRequest())
	require.NoError(t, err)

	_, err = f.orders.UpdateStatus(placed.Sale.ID, "shipped", "admin")
	require.ErrorIs(t, err, ErrUnknownStatus)
	require.Equal(t, 3, f.stockAt(t, f.productA.ID, f.sizeM.ID))
}
