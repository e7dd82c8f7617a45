package costing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/millbooks-erp/millbooks/internal/shared"
)

type memoryCostingRepo struct {
	lines       []PurchaseLine
	ratio       Ratio
	defaultCost decimal.Decimal
}

func (r *memoryCostingRepo) ListPurchaseLines(ctx context.Context, key Key) ([]PurchaseLine, error) {
	var out []PurchaseLine
	for _, l := range r.lines {
		if l.Store != key.Store || l.Product != key.Product {
			continue
		}
		if key.Lot != "" && l.Lot != key.Lot {
			continue
		}
		if l.Date.After(key.AsOf) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *memoryCostingRepo) LiveRatio(ctx context.Context, key Key) (Ratio, error) {
	return r.ratio, nil
}

func (r *memoryCostingRepo) DefaultCost(ctx context.Context, product string) (decimal.Decimal, error) {
	return r.defaultCost, nil
}

func (r *memoryCostingRepo) ListProducts(ctx context.Context) ([]Product, error) {
	return nil, nil
}

func TestServiceUnitCostFiltersByKeyAndDate(t *testing.T) {
	repo := &memoryCostingRepo{lines: []PurchaseLine{
		{ID: 1, Date: day("2024-01-05"), Store: "s1", Product: "p1", Weight: d("100"), Rate: d("10"), RateBasis: BasisWeight},
		{ID: 2, Date: day("2024-02-01"), Store: "s1", Product: "p1", Weight: d("50"), Rate: d("16"), RateBasis: BasisWeight},
		{ID: 3, Date: day("2024-03-01"), Store: "s1", Product: "p1", Weight: d("10"), Rate: d("99"), RateBasis: BasisWeight},
		{ID: 4, Date: day("2024-01-05"), Store: "s2", Product: "p1", Weight: d("5"), Rate: d("1"), RateBasis: BasisWeight},
	}}
	svc := NewService(repo)

	// Line 3 is after the as-of date, line 4 is another store.
	cost, err := svc.UnitCost(context.Background(), Key{Store: "s1", Product: "p1", AsOf: day("2024-02-15")}, ModeWAC, BasisWeight)
	require.NoError(t, err)
	require.True(t, cost.Equal(d("12")), "got %s", cost)
}

func TestServiceUnitCostValidation(t *testing.T) {
	svc := NewService(&memoryCostingRepo{})

	_, err := svc.UnitCost(context.Background(), Key{Product: "p1", AsOf: day("2024-01-01")}, ModeWAC, BasisQuantity)
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.UnitCost(context.Background(), Key{Store: "s1", Product: "p1"}, ModeWAC, BasisQuantity)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestServiceUnitCostIdempotent(t *testing.T) {
	repo := &memoryCostingRepo{
		lines: []PurchaseLine{
			{ID: 1, Date: day("2024-01-05"), Store: "s1", Product: "p1", Qty: d("3"), Value: d("100")},
		},
		ratio: Ratio{Qty: d("3"), Weight: d("9")},
	}
	svc := NewService(repo)
	key := Key{Store: "s1", Product: "p1", AsOf: day("2024-06-01")}

	first, err := svc.UnitCost(context.Background(), key, ModeWAC, BasisWeight)
	require.NoError(t, err)
	second, err := svc.UnitCost(context.Background(), key, ModeWAC, BasisWeight)
	require.NoError(t, err)
	require.Equal(t, first.String(), second.String())
}
