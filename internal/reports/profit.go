package reports

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/millbooks-erp/millbooks/internal/costing"
	"github.com/millbooks-erp/millbooks/internal/party"
	"github.com/millbooks-erp/millbooks/internal/shared"
)

var hundred = decimal.NewFromInt(100)

// ItemProfit groups sale lines by product and prices the sold weight at
// weighted-average cost, falling back to the product's default cost per
// unit when no purchase history exists.
func (s *Service) ItemProfit(ctx context.Context, dr shared.DateRange) ([]ProfitRow, error) {
	groups, err := s.repo.SaleGroups(ctx, dr, "", "")
	if err != nil {
		return nil, err
	}
	asOf := asOfOrNow(dr.To)

	buckets := make(map[string]*ProfitRow)
	for _, grp := range groups {
		cost, err := s.saleCost(ctx, grp.Store, grp.Product, asOf, grp.Qty, grp.Weight, grp.DefaultCost)
		if err != nil {
			return nil, err
		}
		label := grp.ProductName
		if label == "" {
			label = grp.Product
		}
		addProfit(buckets, label, grp.Qty, grp.Weight, grp.Value, cost)
	}

	return finishProfitRows(buckets), nil
}

// CustomerProfit groups sale lines by resolved customer identity.
func (s *Service) CustomerProfit(ctx context.Context, dr shared.DateRange) ([]ProfitRow, error) {
	groups, err := s.repo.CustomerSaleGroups(ctx, dr)
	if err != nil {
		return nil, err
	}
	asOf := asOfOrNow(dr.To)

	buckets := make(map[string]*ProfitRow)
	resolved := make(map[string]string)
	for _, grp := range groups {
		name, ok := resolved[grp.Ref]
		switch {
		case strings.TrimSpace(grp.Ref) == "":
			// Blank refs are a data-quality condition; bucket them
			// instead of failing the report.
			name = UnknownParty
		case !ok:
			res, err := s.resolver.Resolve(ctx, party.TypeCustomer, grp.Ref)
			if err != nil {
				return nil, err
			}
			name = res.DisplayName
			resolved[grp.Ref] = name
			for _, alias := range res.Aliases {
				if _, seen := resolved[alias]; !seen {
					resolved[alias] = name
				}
			}
		}

		cost, err := s.saleCost(ctx, grp.Store, grp.Product, asOf, grp.Qty, grp.Weight, decimal.Zero)
		if err != nil {
			return nil, err
		}
		addProfit(buckets, name, grp.Qty, grp.Weight, grp.Value, cost)
	}

	return finishProfitRows(buckets), nil
}

// saleCost prices sold stock at WAC per weight, degrading to the static
// default cost per unit when no costing data exists.
func (s *Service) saleCost(ctx context.Context, store, product string, asOf time.Time, qty, weight, defaultCost decimal.Decimal) (decimal.Decimal, error) {
	if weight.IsPositive() {
		perWeight, err := s.costing.UnitCost(ctx, costing.Key{Store: store, Product: product, AsOf: asOf}, costing.ModeWAC, costing.BasisWeight)
		if err != nil {
			return decimal.Zero, err
		}
		if perWeight.IsPositive() {
			return weight.Mul(perWeight), nil
		}
	}
	if defaultCost.IsPositive() {
		return qty.Mul(defaultCost), nil
	}
	if qty.IsPositive() {
		perQty, err := s.costing.UnitCost(ctx, costing.Key{Store: store, Product: product, AsOf: asOf}, costing.ModeWAC, costing.BasisQuantity)
		if err != nil {
			return decimal.Zero, err
		}
		return qty.Mul(perQty), nil
	}
	return decimal.Zero, nil
}

func addProfit(buckets map[string]*ProfitRow, key string, qty, weight, revenue, cost decimal.Decimal) {
	row, ok := buckets[key]
	if !ok {
		row = &ProfitRow{Key: key}
		buckets[key] = row
	}
	row.UnitsSold = row.UnitsSold.Add(qty)
	row.WeightSold = row.WeightSold.Add(weight)
	row.Revenue = row.Revenue.Add(revenue)
	row.Cost = row.Cost.Add(cost)
}

func finishProfitRows(buckets map[string]*ProfitRow) []ProfitRow {
	rows := make([]ProfitRow, 0, len(buckets))
	for _, row := range buckets {
		r := *row
		r.Profit = r.Revenue.Sub(r.Cost)
		if r.Revenue.IsZero() {
			r.MarginPct = decimal.Zero
		} else {
			r.MarginPct = r.Profit.Div(r.Revenue).Mul(hundred)
		}
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows
}
