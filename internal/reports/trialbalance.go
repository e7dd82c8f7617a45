package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/millbooks-erp/millbooks/internal/costing"
	"github.com/millbooks-erp/millbooks/internal/party"
)

// TrialBalance values the books as of a date. Inventory prices snapshot
// quantities at weighted-average cost, receivable/payable floor at zero,
// and equity plugs the difference so debits equal credits.
func (s *Service) TrialBalance(ctx context.Context, asOf time.Time) (TrialBalance, error) {
	asOf = asOfOrNow(asOf)

	var (
		sales, receipts, purchases, payments []RefTotal
		cashIn, cashOut                      decimal.Decimal
		snapshots                            []SnapshotTotal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sales, err = s.repo.SalesByCustomer(gctx, asOf)
		return err
	})
	g.Go(func() error {
		var err error
		receipts, err = s.repo.ReceiptsByParty(gctx, party.TypeCustomer, asOf)
		return err
	})
	g.Go(func() error {
		var err error
		purchases, err = s.repo.PurchasesBySupplier(gctx, asOf)
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = s.repo.PaymentsByParty(gctx, party.TypeSupplier, asOf)
		return err
	})
	g.Go(func() error {
		var err error
		cashIn, err = s.repo.CashBankReceipts(gctx, asOf)
		return err
	})
	g.Go(func() error {
		var err error
		cashOut, err = s.repo.CashBankPayments(gctx, asOf)
		return err
	})
	g.Go(func() error {
		var err error
		snapshots, err = s.repo.SnapshotTotals(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return TrialBalance{}, err
	}

	inventory := decimal.Zero
	for _, snap := range snapshots {
		perWeight, err := s.costing.UnitCost(ctx, costing.Key{Store: snap.Store, Product: snap.Product, AsOf: asOf}, costing.ModeWAC, costing.BasisWeight)
		if err != nil {
			return TrialBalance{}, err
		}
		inventory = inventory.Add(snap.Qty.Mul(perWeight))
	}

	receivable := floorZero(sumTotals(sales).Sub(sumTotals(receipts)))
	payable := floorZero(sumTotals(purchases).Sub(sumTotals(payments)))
	cash := cashIn.Sub(cashOut)

	tb := TrialBalance{}
	add := func(name string, debit, credit decimal.Decimal) {
		tb.Accounts = append(tb.Accounts, Account{Name: name, Debit: debit, Credit: credit})
		tb.TotalDebit = tb.TotalDebit.Add(debit)
		tb.TotalCredit = tb.TotalCredit.Add(credit)
	}

	add("Inventory", inventory, decimal.Zero)
	add("Accounts Receivable", receivable, decimal.Zero)
	if cash.IsNegative() {
		add("Cash & Bank", decimal.Zero, cash.Neg())
	} else {
		add("Cash & Bank", cash, decimal.Zero)
	}
	add("Accounts Payable", decimal.Zero, payable)

	if plug := tb.TotalDebit.Sub(tb.TotalCredit); plug.IsNegative() {
		add("Equity", plug.Neg(), decimal.Zero)
	} else {
		add("Equity", decimal.Zero, plug)
	}
	return tb, nil
}

func sumTotals(totals []RefTotal) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t.Amount)
	}
	return sum
}

func floorZero(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}
