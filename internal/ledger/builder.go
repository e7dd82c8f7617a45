package ledger

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/millbooks-erp/millbooks/internal/party"
	"github.com/millbooks-erp/millbooks/internal/shared"
)

// Row is an unsorted ledger row before running-balance assignment. The seq
// field preserves insertion order as the stable sort tiebreak.
type Row struct {
	Date   time.Time
	Kind   Kind
	Ref    string
	Detail string
	Qty    decimal.Decimal
	Weight decimal.Decimal
	Debit  decimal.Decimal
	Credit decimal.Decimal

	seq int
}

// Sources carries the raw transaction sets feeding one ledger.
type Sources struct {
	Invoices []Invoice
	Payments []CashEntry
	Receipts []CashEntry
}

// Rows converts sources into signed rows for the given party type.
//
// Customer ledgers: sale = debit, receipt = credit, payment (refund) =
// credit. Supplier ledgers: purchase = credit, payment = debit, receipt
// (refund) = credit. A cash sale emits a debit plus an equal offsetting
// credit so it stays visible while netting to zero.
func Rows(partyType party.Type, src Sources) []Row {
	rows := make([]Row, 0, len(src.Invoices)+len(src.Payments)+len(src.Receipts)+1)

	for _, inv := range src.Invoices {
		row := collapseInvoice(partyType, inv)
		rows = append(rows, row)
		if partyType == party.TypeCustomer && isCash(inv.PaymentType) {
			rows = append(rows, Row{
				Date:   inv.Date,
				Kind:   KindSale,
				Ref:    inv.ID,
				Detail: "Cash received",
				Credit: inv.Amount,
			})
		}
	}
	for _, p := range src.Payments {
		row := Row{
			Date:   p.Date,
			Kind:   KindPayment,
			Ref:    p.ID,
			Detail: cashDetail("Payment", p.Mode),
		}
		if partyType == party.TypeSupplier {
			row.Debit = p.Amount
		} else {
			row.Credit = p.Amount
		}
		rows = append(rows, row)
	}
	for _, rc := range src.Receipts {
		rows = append(rows, Row{
			Date:   rc.Date,
			Kind:   KindReceipt,
			Ref:    rc.ID,
			Detail: cashDetail("Receipt", rc.Mode),
			Credit: rc.Amount,
		})
	}

	for i := range rows {
		rows[i].seq = i
	}
	return rows
}

// collapseInvoice folds a multi-line invoice into exactly one ledger row.
func collapseInvoice(partyType party.Type, inv Invoice) Row {
	kind, label := KindSale, "Sale"
	debit, credit := inv.Amount, decimal.Zero
	if partyType == party.TypeSupplier {
		kind, label = KindPurchase, "Purchase"
		debit, credit = decimal.Zero, inv.Amount
	}

	row := Row{
		Date:   inv.Date,
		Kind:   kind,
		Ref:    inv.ID,
		Detail: fmt.Sprintf("%s Invoice", label),
		Debit:  debit,
		Credit: credit,
	}
	for _, item := range inv.Items {
		row.Qty = row.Qty.Add(item.Qty)
		row.Weight = row.Weight.Add(item.Weight)
	}
	switch {
	case len(inv.Items) == 1 && inv.Items[0].Product != "":
		row.Detail = inv.Items[0].Product
	case len(inv.Items) > 1:
		row.Detail = fmt.Sprintf("%s Invoice (%d items)", label, len(inv.Items))
	}
	return row
}

func isCash(paymentType string) bool {
	return strings.EqualFold(strings.TrimSpace(paymentType), "cash")
}

func cashDetail(label, mode string) string {
	if mode = strings.TrimSpace(mode); mode != "" {
		return fmt.Sprintf("%s (%s)", label, mode)
	}
	return label
}

// Split partitions rows around the range: rows strictly before the lower
// bound feed the opening balance, rows inside the bounds feed the statement.
func Split(rows []Row, dr shared.DateRange) (opening, inRange []Row) {
	for _, r := range rows {
		if dr.Bounded() && r.Date.Before(dr.From) {
			opening = append(opening, r)
			continue
		}
		if dr.Contains(r.Date) {
			inRange = append(inRange, r)
		}
	}
	return opening, inRange
}

// OpeningBalance nets the signed pre-range rows.
func OpeningBalance(rows []Row) decimal.Decimal {
	balance := decimal.Zero
	for _, r := range rows {
		balance = balance.Add(r.Debit).Sub(r.Credit)
	}
	return balance
}

// Build sorts rows ascending by date (insertion order tiebreak) and threads
// the running balance: balance[i] = balance[i-1] + debit[i] - credit[i],
// seeded by the opening balance.
func Build(opening decimal.Decimal, rows []Row) Ledger {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].seq < sorted[j].seq
	})

	ledger := Ledger{OpeningBalance: opening, Entries: make([]Entry, 0, len(sorted))}
	balance := opening
	for _, r := range sorted {
		balance = balance.Add(r.Debit).Sub(r.Credit)
		ledger.Entries = append(ledger.Entries, Entry{
			Date:    r.Date,
			Kind:    r.Kind,
			Ref:     r.Ref,
			Detail:  r.Detail,
			Qty:     r.Qty,
			Weight:  r.Weight,
			Debit:   r.Debit,
			Credit:  r.Credit,
			Balance: balance,
		})
	}
	return ledger
}
