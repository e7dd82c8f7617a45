package stock

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestReconcileDerivedNetting(t *testing.T) {
	m := Movements{
		Purchased: []KeyTotals{{Store: "s1", Product: "p1", Qty: d("100"), Weight: d("500")}},
		Sold:      []KeyTotals{{Store: "s1", Product: "p1", Qty: d("30"), Weight: d("150")}},
		Consumed:  []KeyTotals{{Store: "s1", Product: "p1", Qty: d("10"), Weight: d("50")}},
		Produced:  []KeyTotals{{Store: "s1", Product: "p1", Qty: d("5"), Weight: d("25")}},
	}

	rows := Reconcile(m, nil, nil)
	require.Len(t, rows, 1)
	require.True(t, rows[0].CurrentQty.Equal(d("65")))
	require.True(t, rows[0].CurrentWeight.Equal(d("325")))
	require.Equal(t, SourceDerived, rows[0].Source)
}

func TestSnapshotOverridesDerived(t *testing.T) {
	// Purchases minus sales derive 80, but the manual snapshot of 50 wins.
	m := Movements{
		Purchased: []KeyTotals{{Store: "s1", Product: "p1", Qty: d("100")}},
		Sold:      []KeyTotals{{Store: "s1", Product: "p1", Qty: d("20")}},
	}
	snapshots := []Snapshot{{Store: "s1", Product: "p1", Qty: d("50"), Weight: d("250")}}

	rows := Reconcile(m, snapshots, nil)
	require.Len(t, rows, 1)
	require.True(t, rows[0].CurrentQty.Equal(d("50")))
	require.True(t, rows[0].CurrentWeight.Equal(d("250")))
	require.Equal(t, SourceSnapshot, rows[0].Source)
	// Raw derived figure stays visible.
	require.True(t, rows[0].DerivedQty.Equal(d("80")))
}

func TestSnapshotOnlyKeyAppears(t *testing.T) {
	snapshots := []Snapshot{{Store: "s2", Product: "p9", Lot: "r1", Qty: d("7"), Weight: d("70")}}

	rows := Reconcile(Movements{}, snapshots, nil)
	require.Len(t, rows, 1)
	require.Equal(t, "r1", rows[0].Lot)
	require.Equal(t, SourceSnapshot, rows[0].Source)
	require.True(t, rows[0].CurrentQty.Equal(d("7")))
}

func TestNegativeDerivedFlooredForDisplay(t *testing.T) {
	m := Movements{
		Sold: []KeyTotals{{Store: "s1", Product: "p1", Qty: d("10"), Weight: d("40")}},
	}

	rows := Reconcile(m, nil, nil)
	require.Len(t, rows, 1)
	require.True(t, rows[0].CurrentQty.IsZero())
	require.True(t, rows[0].CurrentWeight.IsZero())
	require.True(t, rows[0].DerivedQty.Equal(d("-10")))
	require.True(t, rows[0].DerivedWeight.Equal(d("-40")))
}

func TestActiveStoresGetPlaceholderRows(t *testing.T) {
	m := Movements{
		Purchased: []KeyTotals{{Store: "s1", Product: "p1", Qty: d("5")}},
	}

	rows := Reconcile(m, nil, []string{"s1", "s2", "s3"})
	require.Len(t, rows, 3)
	require.Equal(t, "s1", rows[0].Store)
	require.Equal(t, "s2", rows[1].Store)
	require.Empty(t, rows[1].Product)
	require.True(t, rows[1].CurrentQty.IsZero())
	require.Equal(t, "s3", rows[2].Store)
}

func TestReconcileSortedByStoreProductLot(t *testing.T) {
	m := Movements{Purchased: []KeyTotals{
		{Store: "s2", Product: "p1", Qty: d("1")},
		{Store: "s1", Product: "p2", Qty: d("1")},
		{Store: "s1", Product: "p1", Lot: "b", Qty: d("1")},
		{Store: "s1", Product: "p1", Lot: "a", Qty: d("1")},
	}}

	rows := Reconcile(m, nil, nil)
	require.Len(t, rows, 4)
	require.Equal(t, "a", rows[0].Lot)
	require.Equal(t, "b", rows[1].Lot)
	require.Equal(t, "p2", rows[2].Product)
	require.Equal(t, "s2", rows[3].Store)
}

type memoryStockRepo struct {
	m         Movements
	snapshots []Snapshot
	stores    []string
}

func (r *memoryStockRepo) PurchasedTotals(ctx context.Context, store string) ([]KeyTotals, error) {
	return r.m.Purchased, nil
}
func (r *memoryStockRepo) SoldTotals(ctx context.Context, store string) ([]KeyTotals, error) {
	return r.m.Sold, nil
}
func (r *memoryStockRepo) ProducedTotals(ctx context.Context, store string) ([]KeyTotals, error) {
	return r.m.Produced, nil
}
func (r *memoryStockRepo) ConsumedTotals(ctx context.Context, store string) ([]KeyTotals, error) {
	return r.m.Consumed, nil
}
func (r *memoryStockRepo) ListSnapshots(ctx context.Context, store string) ([]Snapshot, error) {
	return r.snapshots, nil
}
func (r *memoryStockRepo) ListActiveStores(ctx context.Context, store string) ([]string, error) {
	return r.stores, nil
}

func TestStoreStockIdempotent(t *testing.T) {
	svc := NewService(&memoryStockRepo{
		m: Movements{
			Purchased: []KeyTotals{{Store: "s1", Product: "p1", Qty: d("10"), Weight: d("100")}},
			Sold:      []KeyTotals{{Store: "s1", Product: "p1", Qty: d("4"), Weight: d("40")}},
		},
		snapshots: []Snapshot{{Store: "s1", Product: "p2", Qty: d("3"), Weight: d("30")}},
		stores:    []string{"s1", "s2"},
	})

	first, err := svc.StoreStock(context.Background(), "")
	require.NoError(t, err)
	second, err := svc.StoreStock(context.Background(), "")
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	require.Equal(t, string(a), string(b))
}
