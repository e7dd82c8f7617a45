package costing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// LineValue computes the monetary value of one purchase line: the stored
// explicit value when positive, otherwise rate extended over the line's
// rate basis.
func LineValue(l PurchaseLine) decimal.Decimal {
	if l.Value.IsPositive() {
		return l.Value
	}
	if l.RateBasis == BasisWeight {
		return l.Rate.Mul(l.Weight)
	}
	return l.Rate.Mul(l.Qty)
}

// Totals are summed quantities and value over a set of purchase lines.
type Totals struct {
	Qty    decimal.Decimal
	Weight decimal.Decimal
	Value  decimal.Decimal
}

// Basis returns the summed amount for the requested basis.
func (t Totals) Basis(b Basis) decimal.Decimal {
	if b == BasisWeight {
		return t.Weight
	}
	return t.Qty
}

// Ratio views the totals as a quantity/weight conversion ratio.
func (t Totals) Ratio() Ratio {
	return Ratio{Qty: t.Qty, Weight: t.Weight}
}

// Aggregate sums quantity, weight and value across purchase lines.
func Aggregate(lines []PurchaseLine) Totals {
	var t Totals
	for _, l := range lines {
		t.Qty = t.Qty.Add(l.Qty)
		t.Weight = t.Weight.Add(l.Weight)
		t.Value = t.Value.Add(LineValue(l))
	}
	return t
}

// UnitCost resolves a unit cost in the requested mode and basis, walking the
// fallback chain: direct basis data, cross-basis conversion (aggregate ratio
// first, live stock ratio second), product default cost, and finally zero.
// Zero is a reportable data-quality outcome, never an error.
func UnitCost(in Inputs, mode Mode, basis Basis) decimal.Decimal {
	if mode == ModeLatest {
		return latestCost(in, basis)
	}
	return wacCost(in, basis)
}

func wacCost(in Inputs, basis Basis) decimal.Decimal {
	t := Aggregate(in.Lines)
	return costFromTotals(t, in, basis)
}

func latestCost(in Inputs, basis Basis) decimal.Decimal {
	if len(in.Lines) == 0 {
		return defaultCost(in, basis)
	}
	lines := make([]PurchaseLine, len(in.Lines))
	copy(lines, in.Lines)
	sort.Slice(lines, func(i, j int) bool {
		if !lines[i].Date.Equal(lines[j].Date) {
			return lines[i].Date.After(lines[j].Date)
		}
		return lines[i].ID > lines[j].ID
	})
	latest := lines[0]
	t := Totals{Qty: latest.Qty, Weight: latest.Weight, Value: LineValue(latest)}
	return costFromTotals(t, in, basis)
}

func costFromTotals(t Totals, in Inputs, basis Basis) decimal.Decimal {
	// A positive basis total with zero summed value means no line carried
	// usable cost data, so the chain continues to the default cost rather
	// than reporting a literal zero weighted average.
	if amount := t.Basis(basis); amount.IsPositive() && t.Value.IsPositive() {
		return t.Value.Div(amount)
	}
	if other := t.Basis(basis.Other()); other.IsPositive() && t.Value.IsPositive() {
		perOther := t.Value.Div(other)
		if converted, ok := convert(perOther, basis, t.Ratio(), in.LiveRatio); ok {
			return converted
		}
	}
	return defaultCost(in, basis)
}

// convert maps a per-other-basis cost onto the requested basis using the
// aggregate's own ratio when usable, else the live stock ratio.
func convert(perOther decimal.Decimal, requested Basis, aggregate, live Ratio) (decimal.Decimal, bool) {
	ratio := aggregate
	if !ratio.Usable() {
		ratio = live
	}
	if !ratio.Usable() {
		return decimal.Zero, false
	}
	if requested == BasisWeight {
		return perOther.Mul(ratio.Qty).Div(ratio.Weight), true
	}
	return perOther.Mul(ratio.Weight).Div(ratio.Qty), true
}

func defaultCost(in Inputs, basis Basis) decimal.Decimal {
	if !in.DefaultCost.IsPositive() {
		return decimal.Zero
	}
	if basis == BasisQuantity {
		return in.DefaultCost
	}
	if converted, ok := convert(in.DefaultCost, BasisWeight, Ratio{}, in.LiveRatio); ok {
		return converted
	}
	return decimal.Zero
}
