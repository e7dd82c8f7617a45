package stock

import (
	"github.com/shopspring/decimal"
)

// Source tags where a row's current figures came from: derived from
// transaction history, or an authoritative manual snapshot.
type Source string

const (
	SourceDerived  Source = "derived"
	SourceSnapshot Source = "snapshot"
)

// KeyTotals is a quantity/weight aggregate for one (store, product, lot).
type KeyTotals struct {
	Store   string
	Product string
	Lot     string
	Qty     decimal.Decimal
	Weight  decimal.Decimal
}

// Snapshot is a manually correctable stock record. When present for a key
// it replaces the derived computation entirely.
type Snapshot struct {
	Store   string
	Product string
	Lot     string
	Qty     decimal.Decimal
	Weight  decimal.Decimal
}

// Movements groups the per-key aggregates from each transaction source.
type Movements struct {
	Purchased []KeyTotals
	Sold      []KeyTotals
	Produced  []KeyTotals
	Consumed  []KeyTotals
}

// Row is the reconciled stock position for one (store, product, lot).
// Current figures are floored at zero for display; Derived keeps the raw
// netting so negative positions remain visible for investigation.
type Row struct {
	Store   string `json:"store"`
	Product string `json:"product"`
	Lot     string `json:"lot,omitempty"`

	PurchasedQty    decimal.Decimal `json:"purchasedQty"`
	PurchasedWeight decimal.Decimal `json:"purchasedWeight"`
	SoldQty         decimal.Decimal `json:"soldQty"`
	SoldWeight      decimal.Decimal `json:"soldWeight"`
	ProducedQty     decimal.Decimal `json:"producedQty"`
	ProducedWeight  decimal.Decimal `json:"producedWeight"`
	ConsumedQty     decimal.Decimal `json:"consumedQty"`
	ConsumedWeight  decimal.Decimal `json:"consumedWeight"`

	DerivedQty    decimal.Decimal `json:"derivedQty"`
	DerivedWeight decimal.Decimal `json:"derivedWeight"`
	CurrentQty    decimal.Decimal `json:"currentQty"`
	CurrentWeight decimal.Decimal `json:"currentWeight"`

	Source Source `json:"source"`
}
