package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/millbooks-erp/millbooks/internal/costing"
	"github.com/millbooks-erp/millbooks/internal/shared"
)

// IncomeStatement computes revenue and cost of goods sold over the range.
// Unfiltered revenue comes from invoice net amounts; a store or product
// filter narrows the statement to matching sale lines, whose values then
// stand in for revenue. COGS prices each sold (store, product) group at its
// weighted-average cost as of the range end.
func (s *Service) IncomeStatement(ctx context.Context, dr shared.DateRange, f Filter) (IncomeStatement, error) {
	var (
		revenue decimal.Decimal
		groups  []SaleGroup
	)
	g, gctx := errgroup.WithContext(ctx)
	if !f.ItemScoped() {
		g.Go(func() error {
			var err error
			revenue, err = s.repo.InvoiceRevenue(gctx, dr)
			return err
		})
	}
	g.Go(func() error {
		var err error
		groups, err = s.repo.SaleGroups(gctx, dr, f.Store, f.Product)
		return err
	})
	if err := g.Wait(); err != nil {
		return IncomeStatement{}, err
	}

	asOf := asOfOrNow(dr.To)
	cogs := decimal.Zero
	for _, grp := range groups {
		cost, err := s.groupCost(ctx, grp.Store, grp.Product, asOf, grp.Qty, grp.Weight)
		if err != nil {
			return IncomeStatement{}, err
		}
		cogs = cogs.Add(cost)
		if f.ItemScoped() {
			revenue = revenue.Add(grp.Value)
		}
	}

	gross := revenue.Sub(cogs)
	return IncomeStatement{
		Revenue:     revenue,
		COGS:        cogs,
		GrossProfit: gross,
		// No expense model: net equals gross.
		NetProfit: gross,
	}, nil
}

// groupCost prices a sold group: weight priced per-weight plus quantity
// priced per-quantity, each at WAC as of the date.
func (s *Service) groupCost(ctx context.Context, store, product string, asOf time.Time, qty, weight decimal.Decimal) (decimal.Decimal, error) {
	key := costing.Key{Store: store, Product: product, AsOf: asOf}

	cost := decimal.Zero
	if weight.IsPositive() {
		perWeight, err := s.costing.UnitCost(ctx, key, costing.ModeWAC, costing.BasisWeight)
		if err != nil {
			return decimal.Zero, err
		}
		cost = cost.Add(weight.Mul(perWeight))
	}
	if qty.IsPositive() {
		perQty, err := s.costing.UnitCost(ctx, key, costing.ModeWAC, costing.BasisQuantity)
		if err != nil {
			return decimal.Zero, err
		}
		cost = cost.Add(qty.Mul(perQty))
	}
	return cost, nil
}
