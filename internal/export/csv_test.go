package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestWriteLedgerCSVRoundsAmountsAtBoundary(t *testing.T) {
	rows := []LedgerRow{
		{
			Date:    time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			Kind:    "sale_invoice",
			Ref:     "SI-42",
			Detail:  "Sale Invoice (2 items)",
			Qty:     decimal.RequireFromString("10"),
			Weight:  decimal.RequireFromString("100.5"),
			Debit:   decimal.RequireFromString("1234.56"),
			Credit:  decimal.Zero,
			Balance: decimal.RequireFromString("1834.56"),
		},
	}

	var buf bytes.Buffer
	err := WriteLedgerCSV(&buf, decimal.RequireFromString("600"), rows)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "Date,Type,Ref,Detail,Qty,Weight,Debit,Credit,Balance", lines[0])
	require.Contains(t, lines[1], "Opening Balance")
	require.Contains(t, lines[1], "600")
	// Amounts round to whole units with thousands separators; quantities
	// keep two decimals.
	require.Contains(t, lines[2], "2025-03-10")
	require.Contains(t, lines[2], "100.50")
	require.Contains(t, lines[2], `"1,235"`)
	require.Contains(t, lines[2], `"1,835"`)
}

func TestWriteStockCSVKeepsSourceColumn(t *testing.T) {
	rows := []StockRow{
		{Store: "main", Product: "maize", Lot: "L1",
			PurchasedQty: decimal.RequireFromString("100"),
			SoldQty:      decimal.RequireFromString("20"),
			CurrentQty:   decimal.RequireFromString("50"),
			Source:       "snapshot"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteStockCSV(&buf, rows))

	out := buf.String()
	require.Contains(t, out, "Store,Product,Lot")
	require.Contains(t, out, "snapshot")
	require.Contains(t, out, "50.00")
}

func TestWriteBalancesCSVUsesCallerHeaders(t *testing.T) {
	rows := []BalanceRow{
		{Party: "Akbar (wholesale)",
			Invoiced:   decimal.RequireFromString("5000"),
			Settled:    decimal.RequireFromString("1000"),
			BalanceDue: decimal.RequireFromString("4000")},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBalancesCSV(&buf, "Invoiced", "Received", rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Equal(t, "Party,Invoiced,Received,Balance Due", lines[0])
	require.Contains(t, lines[1], `"5,000"`)
	require.Contains(t, lines[1], `"4,000"`)
}
