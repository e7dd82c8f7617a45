package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/millbooks-erp/millbooks/internal/party"
	"github.com/millbooks-erp/millbooks/internal/shared"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCustomerLedgerSaleThenReceipt(t *testing.T) {
	// Credit sale of 1000 followed by a receipt of 400 leaves 600 due.
	src := Sources{
		Invoices: []Invoice{{
			ID: "inv-1", Date: day("2024-01-10"), PaymentType: "credit", Amount: d("1000"),
			Items: []InvoiceItem{{Product: "Kraft 120gsm", Qty: d("4"), Weight: d("400")}},
		}},
		Receipts: []CashEntry{{ID: "rcp-1", Date: day("2024-01-20"), Amount: d("400"), Mode: "Bank"}},
	}

	led := Build(decimal.Zero, Rows(party.TypeCustomer, src))
	require.True(t, led.OpeningBalance.IsZero())
	require.Len(t, led.Entries, 2)

	require.Equal(t, day("2024-01-10"), led.Entries[0].Date)
	require.True(t, led.Entries[0].Debit.Equal(d("1000")))
	require.True(t, led.Entries[0].Credit.IsZero())
	require.True(t, led.Entries[0].Balance.Equal(d("1000")))
	require.Equal(t, "Kraft 120gsm", led.Entries[0].Detail)

	require.Equal(t, day("2024-01-20"), led.Entries[1].Date)
	require.True(t, led.Entries[1].Debit.IsZero())
	require.True(t, led.Entries[1].Credit.Equal(d("400")))
	require.True(t, led.Entries[1].Balance.Equal(d("600")))
}

func TestCashSaleNetsToZeroAsTwoRows(t *testing.T) {
	src := Sources{Invoices: []Invoice{{
		ID: "inv-7", Date: day("2024-02-01"), PaymentType: "Cash", Amount: d("550"),
		Items: []InvoiceItem{{Product: "Liner"}},
	}}}

	led := Build(decimal.Zero, Rows(party.TypeCustomer, src))
	require.Len(t, led.Entries, 2)
	require.True(t, led.Entries[0].Debit.Equal(d("550")))
	require.True(t, led.Entries[1].Credit.Equal(d("550")))
	require.Equal(t, "Cash received", led.Entries[1].Detail)
	require.True(t, led.Entries[1].Balance.IsZero())
}

func TestSupplierSignConventions(t *testing.T) {
	src := Sources{
		Invoices: []Invoice{{ID: "pi-1", Date: day("2024-03-01"), Amount: d("2000")}},
		Payments: []CashEntry{{ID: "pay-1", Date: day("2024-03-10"), Amount: d("1500"), Mode: "Cash"}},
		Receipts: []CashEntry{{ID: "rcp-9", Date: day("2024-03-15"), Amount: d("100")}},
	}

	led := Build(decimal.Zero, Rows(party.TypeSupplier, src))
	require.Len(t, led.Entries, 3)

	// Purchase credits, payment debits, refund receipt credits.
	require.True(t, led.Entries[0].Credit.Equal(d("2000")))
	require.True(t, led.Entries[0].Balance.Equal(d("-2000")))
	require.True(t, led.Entries[1].Debit.Equal(d("1500")))
	require.True(t, led.Entries[1].Balance.Equal(d("-500")))
	require.True(t, led.Entries[2].Credit.Equal(d("100")))
	require.True(t, led.Entries[2].Balance.Equal(d("-600")))
}

func TestInvoiceCollapsesToSingleRow(t *testing.T) {
	src := Sources{Invoices: []Invoice{{
		ID: "inv-3", Date: day("2024-01-05"), Amount: d("900"),
		Items: []InvoiceItem{
			{Product: "Kraft", Qty: d("2"), Weight: d("150")},
			{Product: "Liner", Qty: d("1"), Weight: d("80")},
			{Product: "Medium", Qty: d("3"), Weight: d("120")},
		},
	}}}

	led := Build(decimal.Zero, Rows(party.TypeCustomer, src))
	require.Len(t, led.Entries, 1)
	require.Equal(t, "Sale Invoice (3 items)", led.Entries[0].Detail)
	require.True(t, led.Entries[0].Qty.Equal(d("6")))
	require.True(t, led.Entries[0].Weight.Equal(d("350")))
	require.True(t, led.Entries[0].Debit.Equal(d("900")))
}

func TestSplitAndOpeningBalance(t *testing.T) {
	src := Sources{
		Invoices: []Invoice{
			{ID: "inv-1", Date: day("2024-01-10"), Amount: d("1000")},
			{ID: "inv-2", Date: day("2024-02-10"), Amount: d("300")},
		},
		Receipts: []CashEntry{{ID: "rcp-1", Date: day("2024-01-20"), Amount: d("400")}},
	}
	rows := Rows(party.TypeCustomer, src)

	dr, err := shared.ParseDateRange("2024-02-01", "2024-02-28")
	require.NoError(t, err)

	opening, inRange := Split(rows, dr)
	require.True(t, OpeningBalance(opening).Equal(d("600")))
	require.Len(t, inRange, 1)

	led := Build(OpeningBalance(opening), inRange)
	require.True(t, led.OpeningBalance.Equal(d("600")))
	require.True(t, led.Entries[0].Balance.Equal(d("900")))
}

func TestUnboundedRangeHasZeroOpening(t *testing.T) {
	rows := Rows(party.TypeCustomer, Sources{
		Invoices: []Invoice{{ID: "inv-1", Date: day("2024-01-10"), Amount: d("1000")}},
	})
	opening, inRange := Split(rows, shared.DateRange{})
	require.Empty(t, opening)
	require.Len(t, inRange, 1)
	require.True(t, OpeningBalance(opening).IsZero())
}

func TestRunningBalanceContinuity(t *testing.T) {
	src := Sources{
		Invoices: []Invoice{
			{ID: "a", Date: day("2024-01-03"), Amount: d("120.50")},
			{ID: "b", Date: day("2024-01-01"), Amount: d("75.25")},
		},
		Receipts: []CashEntry{
			{ID: "c", Date: day("2024-01-02"), Amount: d("30")},
			{ID: "d", Date: day("2024-01-03"), Amount: d("60.10")},
		},
	}

	opening := d("11.15")
	led := Build(opening, Rows(party.TypeCustomer, src))
	prev := opening
	for i, e := range led.Entries {
		want := prev.Add(e.Debit).Sub(e.Credit)
		require.True(t, e.Balance.Equal(want), "entry %d: got %s want %s", i, e.Balance, want)
		prev = e.Balance
	}
}

func TestSortIsStableWithinSameDate(t *testing.T) {
	// Two same-date rows keep insertion order: invoices before receipts.
	src := Sources{
		Invoices: []Invoice{{ID: "inv-1", Date: day("2024-01-10"), Amount: d("100")}},
		Receipts: []CashEntry{{ID: "rcp-1", Date: day("2024-01-10"), Amount: d("100")}},
	}
	led := Build(decimal.Zero, Rows(party.TypeCustomer, src))
	require.Equal(t, KindSale, led.Entries[0].Kind)
	require.Equal(t, KindReceipt, led.Entries[1].Kind)
}
