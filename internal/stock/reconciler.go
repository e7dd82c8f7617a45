package stock

import (
	"sort"

	"github.com/shopspring/decimal"
)

type key struct {
	store   string
	product string
	lot     string
}

// Reconcile merges per-source aggregates and manual snapshots into the
// current stock view. Derived current = purchased - sold - consumed +
// produced; an exact-key snapshot always wins over the derived figure.
// Active stores with no observed movement appear as zero placeholder rows.
func Reconcile(m Movements, snapshots []Snapshot, activeStores []string) []Row {
	rows := make(map[key]*Row)
	at := func(k key) *Row {
		if r, ok := rows[k]; ok {
			return r
		}
		r := &Row{Store: k.store, Product: k.product, Lot: k.lot, Source: SourceDerived}
		rows[k] = r
		return r
	}

	for _, t := range m.Purchased {
		r := at(key{t.Store, t.Product, t.Lot})
		r.PurchasedQty = r.PurchasedQty.Add(t.Qty)
		r.PurchasedWeight = r.PurchasedWeight.Add(t.Weight)
	}
	for _, t := range m.Sold {
		r := at(key{t.Store, t.Product, t.Lot})
		r.SoldQty = r.SoldQty.Add(t.Qty)
		r.SoldWeight = r.SoldWeight.Add(t.Weight)
	}
	for _, t := range m.Produced {
		r := at(key{t.Store, t.Product, t.Lot})
		r.ProducedQty = r.ProducedQty.Add(t.Qty)
		r.ProducedWeight = r.ProducedWeight.Add(t.Weight)
	}
	for _, t := range m.Consumed {
		r := at(key{t.Store, t.Product, t.Lot})
		r.ConsumedQty = r.ConsumedQty.Add(t.Qty)
		r.ConsumedWeight = r.ConsumedWeight.Add(t.Weight)
	}

	for _, r := range rows {
		r.DerivedQty = r.PurchasedQty.Sub(r.SoldQty).Sub(r.ConsumedQty).Add(r.ProducedQty)
		r.DerivedWeight = r.PurchasedWeight.Sub(r.SoldWeight).Sub(r.ConsumedWeight).Add(r.ProducedWeight)
		r.CurrentQty = floor(r.DerivedQty)
		r.CurrentWeight = floor(r.DerivedWeight)
	}

	// Manual corrections always win over history.
	for _, s := range snapshots {
		r := at(key{s.Store, s.Product, s.Lot})
		r.Source = SourceSnapshot
		r.CurrentQty = floor(s.Qty)
		r.CurrentWeight = floor(s.Weight)
	}

	seen := make(map[string]bool, len(rows))
	for k := range rows {
		seen[k.store] = true
	}
	for _, store := range activeStores {
		if !seen[store] {
			rows[key{store: store}] = &Row{Store: store, Source: SourceDerived}
		}
	}

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Store != out[j].Store {
			return out[i].Store < out[j].Store
		}
		if out[i].Product != out[j].Product {
			return out[i].Product < out[j].Product
		}
		return out[i].Lot < out[j].Lot
	})
	return out
}

func floor(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}
