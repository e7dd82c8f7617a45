// Package export serialises report structures to CSV at the presentation
// boundary. Monetary amounts are rounded to whole units here and nowhere
// upstream.
package export

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

func formatAmount(v decimal.Decimal) string {
	f, _ := v.Round(0).Float64()
	return printer.Sprintf("%.0f", f)
}

func formatQty(v decimal.Decimal) string {
	return v.StringFixed(2)
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// LedgerRow is one statement line prepared for CSV output.
type LedgerRow struct {
	Date    time.Time
	Kind    string
	Ref     string
	Detail  string
	Qty     decimal.Decimal
	Weight  decimal.Decimal
	Debit   decimal.Decimal
	Credit  decimal.Decimal
	Balance decimal.Decimal
}

// WriteLedgerCSV emits a party ledger with its opening balance row.
func WriteLedgerCSV(w io.Writer, opening decimal.Decimal, rows []LedgerRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Date", "Type", "Ref", "Detail", "Qty", "Weight", "Debit", "Credit", "Balance"}); err != nil {
		return err
	}
	if err := writer.Write([]string{"", "", "", "Opening Balance", "", "", "", "", formatAmount(opening)}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writer.Write([]string{
			formatDate(r.Date),
			r.Kind,
			r.Ref,
			r.Detail,
			formatQty(r.Qty),
			formatQty(r.Weight),
			formatAmount(r.Debit),
			formatAmount(r.Credit),
			formatAmount(r.Balance),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// StockRow is one reconciled stock line prepared for CSV output.
type StockRow struct {
	Store         string
	Product       string
	Lot           string
	PurchasedQty  decimal.Decimal
	SoldQty       decimal.Decimal
	ProducedQty   decimal.Decimal
	ConsumedQty   decimal.Decimal
	CurrentQty    decimal.Decimal
	CurrentWeight decimal.Decimal
	Source        string
}

// WriteStockCSV emits the reconciled store stock view.
func WriteStockCSV(w io.Writer, rows []StockRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Store", "Product", "Lot", "Purchased", "Sold", "Produced", "Consumed", "Current Qty", "Current Weight", "Source"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writer.Write([]string{
			r.Store,
			r.Product,
			r.Lot,
			formatQty(r.PurchasedQty),
			formatQty(r.SoldQty),
			formatQty(r.ProducedQty),
			formatQty(r.ConsumedQty),
			formatQty(r.CurrentQty),
			formatQty(r.CurrentWeight),
			r.Source,
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteIncomeStatementCSV emits the income statement summary.
func WriteIncomeStatementCSV(w io.Writer, revenue, cogs, grossProfit, netProfit decimal.Decimal) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Metric", "Amount"}); err != nil {
		return err
	}
	records := [][]string{
		{"Revenue", formatAmount(revenue)},
		{"Cost of Goods Sold", formatAmount(cogs)},
		{"Gross Profit", formatAmount(grossProfit)},
		{"Net Profit", formatAmount(netProfit)},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// BalanceRow is one receivable/payable line prepared for CSV output.
type BalanceRow struct {
	Party      string
	Invoiced   decimal.Decimal
	Settled    decimal.Decimal
	BalanceDue decimal.Decimal
}

// WriteBalancesCSV emits receivables or payables rows.
func WriteBalancesCSV(w io.Writer, invoicedHeader, settledHeader string, rows []BalanceRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Party", invoicedHeader, settledHeader, "Balance Due"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writer.Write([]string{
			r.Party,
			formatAmount(r.Invoiced),
			formatAmount(r.Settled),
			formatAmount(r.BalanceDue),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
