package reports

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/millbooks-erp/millbooks/internal/party"
)

// Receivables lists per-customer invoiced vs received balances as of a
// date, optionally narrowed to one party. Balance due floors at zero.
func (s *Service) Receivables(ctx context.Context, asOf time.Time, partyQuery string) ([]BalanceRow, error) {
	return s.partyBalances(ctx, party.TypeCustomer, asOf, partyQuery)
}

// Payables lists per-supplier purchased vs paid balances as of a date,
// optionally narrowed to one party.
func (s *Service) Payables(ctx context.Context, asOf time.Time, partyQuery string) ([]BalanceRow, error) {
	return s.partyBalances(ctx, party.TypeSupplier, asOf, partyQuery)
}

func (s *Service) partyBalances(ctx context.Context, partyType party.Type, asOf time.Time, partyQuery string) ([]BalanceRow, error) {
	asOf = asOfOrNow(asOf)

	var invoiced, settled []RefTotal
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if partyType == party.TypeCustomer {
			invoiced, err = s.repo.SalesByCustomer(gctx, asOf)
		} else {
			invoiced, err = s.repo.PurchasesBySupplier(gctx, asOf)
		}
		return err
	})
	g.Go(func() error {
		var err error
		if partyType == party.TypeCustomer {
			settled, err = s.repo.ReceiptsByParty(gctx, partyType, asOf)
		} else {
			settled, err = s.repo.PaymentsByParty(gctx, partyType, asOf)
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// A party filter narrows to the resolved alias set; an unmatched query
	// degrades to exact raw matches, same as the ledger.
	var filter map[string]struct{}
	if q := strings.TrimSpace(partyQuery); q != "" && !strings.EqualFold(q, "all") {
		res, err := s.resolver.Resolve(ctx, partyType, q)
		if err != nil {
			return nil, err
		}
		filter = make(map[string]struct{}, len(res.Aliases))
		for _, alias := range res.Aliases {
			filter[alias] = struct{}{}
		}
	}
	skip := func(ref string) bool {
		if filter == nil {
			return false
		}
		_, ok := filter[ref]
		return !ok
	}

	// Transactions reference the same party by different string forms;
	// resolution folds them into one row per canonical identity. Blank
	// stored refs are a data-quality condition and bucket together rather
	// than failing the report.
	type bucket struct {
		invoiced decimal.Decimal
		settled  decimal.Decimal
	}
	buckets := make(map[string]*bucket)
	resolved := make(map[string]string)

	canonical := func(ref string) (string, error) {
		if strings.TrimSpace(ref) == "" {
			return UnknownParty, nil
		}
		if name, ok := resolved[ref]; ok {
			return name, nil
		}
		res, err := s.resolver.Resolve(ctx, partyType, ref)
		if err != nil {
			return "", err
		}
		resolved[ref] = res.DisplayName
		// Every alias maps onto the same canonical name so later refs
		// skip the lookup.
		for _, alias := range res.Aliases {
			if _, ok := resolved[alias]; !ok {
				resolved[alias] = res.DisplayName
			}
		}
		return res.DisplayName, nil
	}
	at := func(name string) *bucket {
		if b, ok := buckets[name]; ok {
			return b
		}
		b := &bucket{}
		buckets[name] = b
		return b
	}

	for _, t := range invoiced {
		if skip(t.Ref) {
			continue
		}
		name, err := canonical(t.Ref)
		if err != nil {
			return nil, err
		}
		b := at(name)
		b.invoiced = b.invoiced.Add(t.Amount)
	}
	for _, t := range settled {
		if skip(t.Ref) {
			continue
		}
		name, err := canonical(t.Ref)
		if err != nil {
			return nil, err
		}
		b := at(name)
		b.settled = b.settled.Add(t.Amount)
	}

	rows := make([]BalanceRow, 0, len(buckets))
	for name, b := range buckets {
		rows = append(rows, BalanceRow{
			Party:      name,
			Invoiced:   b.invoiced,
			Settled:    b.settled,
			BalanceDue: floorZero(b.invoiced.Sub(b.settled)),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Party < rows[j].Party })
	return rows, nil
}
