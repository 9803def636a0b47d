package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestAddMergesQuantities(t *testing.T) {
	store := NewStore()
	session := store.NewSession()
	productID, sizeID := uuid.New(), uuid.New()

	store.Add(session, productID, sizeID, 2)
	items := store.Add(session, productID, sizeID, 3)

	require.Len(t, items, 1)
	require.Equal(t, 5, items[0].Quantity)
	require.Equal(t, 5, store.Count(session))
}

func TestAddDistinctSizesAreSeparateLines(t *testing.T) {
	store := NewStore()
	session := store.NewSession()
	productID := uuid.New()

	store.Add(session, productID, uuid.New(), 1)
	items := store.Add(session, productID, uuid.New(), 1)

	require.Len(t, items, 2)
	require.Equal(t, 2, store.Count(session))
}

func TestSetQuantityClampsToOne(t *testing.T) {
	store := NewStore()
	session := store.NewSession()
	productID, sizeID := uuid.New(), uuid.New()

	store.Add(session, productID, sizeID, 4)
	items := store.SetQuantity(session, productID, sizeID, 0)

	require.Equal(t, 1, items[0].Quantity)
}

func TestSetQuantityMissingLineIsNoop(t *testing.T) {
	store := NewStore()
	session := store.NewSession()

	items := store.SetQuantity(session, uuid.New(), uuid.New(), 3)
	require.Empty(t, items)
}

func TestRemoveAndClear(t *testing.T) {
	store := NewStore()
	session := store.NewSession()
	productID, sizeID := uuid.New(), uuid.New()

	store.Add(session, productID, sizeID, 2)
	store.Add(session, uuid.New(), uuid.New(), 1)

	items := store.Remove(session, productID, sizeID)
	require.Len(t, items, 1)

	store.Clear(session)
	require.Empty(t, store.Items(session))
	require.Zero(t, store.Count(session))
}

func TestSnapshotKeepsInsertionOrder(t *testing.T) {
	store := NewStore()
	session := store.NewSession()

	first, second, third := uuid.New(), uuid.New(), uuid.New()
	size := uuid.New()
	store.Add(session, first, size, 1)
	store.Add(session, second, size, 1)
	store.Add(session, third, size, 1)

	items := store.Items(session)
	require.Equal(t, []uuid.UUID{first, second, third}, []uuid.UUID{items[0].ProductID, items[1].ProductID, items[2].ProductID})
}

func TestOnChangeNotifies(t *testing.T) {
	store := NewStore()
	session := store.NewSession()

	var gotSession string
	var gotItems []Item
	store.OnChange(func(id string, items []Item) {
		gotSession = id
		gotItems = items
	})

	store.Add(session, uuid.New(), uuid.New(), 2)
	require.Equal(t, session, gotSession)
	require.Len(t, gotItems, 1)

	store.Clear(session)
	require.Empty(t, gotItems)
}

func TestSessionsAreIsolated(t *testing.T) {
	store := NewStore()
	a, b := store.NewSession(), store.NewSession()

	store.Add(a, uuid.New(), uuid.New(), 1)
	require.Equal(t, 1, store.Count(a))
	require.Zero(t, store.Count(b))
}
