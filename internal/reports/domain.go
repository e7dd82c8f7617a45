package reports

import (
	"github.com/shopspring/decimal"
)

// UnknownParty labels rows whose stored party reference is blank. Inherited
// data carries such rows; they bucket together instead of failing the report.
const UnknownParty = "(unknown)"

// Filter narrows a report to one store, product or party. Empty fields
// match everything.
type Filter struct {
	Store   string
	Product string
	Party   string
}

// ItemScoped reports whether the filter names a store or product.
func (f Filter) ItemScoped() bool {
	return f.Store != "" || f.Product != ""
}

// IncomeStatement summarises trading performance over a range.
type IncomeStatement struct {
	Revenue     decimal.Decimal `json:"revenue"`
	COGS        decimal.Decimal `json:"cogs"`
	GrossProfit decimal.Decimal `json:"grossProfit"`
	NetProfit   decimal.Decimal `json:"netProfit"`
}

// Account is one trial balance line.
type Account struct {
	Name   string          `json:"name"`
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// TrialBalance lists accounts with equal debit and credit totals; equity is
// the balancing plug.
type TrialBalance struct {
	Accounts    []Account       `json:"accounts"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
}

// BalanceRow is one receivables/payables line for a resolved party.
type BalanceRow struct {
	Party      string          `json:"party"`
	Invoiced   decimal.Decimal `json:"invoiced"`
	Settled    decimal.Decimal `json:"settled"`
	BalanceDue decimal.Decimal `json:"balanceDue"`
}

// ProfitRow is one item-wise or customer-wise profitability line.
type ProfitRow struct {
	Key        string          `json:"key"`
	UnitsSold  decimal.Decimal `json:"unitsSold"`
	WeightSold decimal.Decimal `json:"weightSold"`
	Revenue    decimal.Decimal `json:"revenue"`
	Cost       decimal.Decimal `json:"cost"`
	Profit     decimal.Decimal `json:"profit"`
	MarginPct  decimal.Decimal `json:"marginPct"`
}

// SaleGroup aggregates sale lines per (store, product).
type SaleGroup struct {
	Store       string
	Product     string
	ProductName string
	DefaultCost decimal.Decimal
	Qty         decimal.Decimal
	Weight      decimal.Decimal
	Value       decimal.Decimal
}

// CustomerSaleGroup aggregates sale lines per (customer ref, store, product).
type CustomerSaleGroup struct {
	Ref     string
	Store   string
	Product string
	Qty     decimal.Decimal
	Weight  decimal.Decimal
	Value   decimal.Decimal
}

// RefTotal is a monetary total keyed by a raw party reference string.
type RefTotal struct {
	Ref    string
	Amount decimal.Decimal
}

// SnapshotTotal is the snapshot quantity for one (store, product).
type SnapshotTotal struct {
	Store   string
	Product string
	Qty     decimal.Decimal
}
