package costing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/millbooks-erp/millbooks/internal/shared"
)

// Mode selects how a unit cost is derived from purchase history.
type Mode string

const (
	// ModeWAC averages value over the full matching purchase history.
	ModeWAC Mode = "wac"
	// ModeLatest derives cost from the single most recent purchase line.
	ModeLatest Mode = "latest"
)

// ParseMode validates a caller-supplied costing mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeWAC, Mode(""):
		return ModeWAC, nil
	case ModeLatest:
		return ModeLatest, nil
	}
	return "", shared.Validationf("unknown costing mode %q", s)
}

// Basis selects the denominator of a unit cost.
type Basis string

const (
	BasisQuantity Basis = "quantity"
	BasisWeight   Basis = "weight"
)

// ParseBasis validates a caller-supplied cost basis.
func ParseBasis(s string) (Basis, error) {
	switch Basis(strings.ToLower(strings.TrimSpace(s))) {
	case BasisQuantity, Basis(""):
		return BasisQuantity, nil
	case BasisWeight:
		return BasisWeight, nil
	}
	return "", shared.Validationf("unknown cost basis %q", s)
}

// Other returns the opposite basis.
func (b Basis) Other() Basis {
	if b == BasisQuantity {
		return BasisWeight
	}
	return BasisQuantity
}

// Key identifies the stock being costed as of a date.
type Key struct {
	Store   string
	Product string
	Lot     string
	AsOf    time.Time
}

// PurchaseLine is one purchase invoice line matching a costing key. Rate is
// quoted against RateBasis; Value, when positive, overrides the computed
// rate extension.
type PurchaseLine struct {
	ID        int64
	Date      time.Time
	Store     string
	Product   string
	Lot       string
	Qty       decimal.Decimal
	Weight    decimal.Decimal
	Rate      decimal.Decimal
	RateBasis Basis
	Value     decimal.Decimal
}

// Product is one catalogue entry.
type Product struct {
	ID          string
	Name        string
	DefaultCost decimal.Decimal
}

// Ratio carries live stock quantity and weight for basis cross-conversion.
type Ratio struct {
	Qty    decimal.Decimal
	Weight decimal.Decimal
}

// Usable reports whether the ratio can convert between bases.
func (r Ratio) Usable() bool {
	return r.Qty.IsPositive() && r.Weight.IsPositive()
}

// Inputs gathers everything the pure cost functions need: the matching
// purchase lines (already filtered to date <= AsOf), the live stock ratio
// for the same key, and the product's static default cost per quantity.
type Inputs struct {
	Lines       []PurchaseLine
	LiveRatio   Ratio
	DefaultCost decimal.Decimal
}
