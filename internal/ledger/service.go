package ledger

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/millbooks-erp/millbooks/internal/party"
	"github.com/millbooks-erp/millbooks/internal/shared"
)

// AllParties selects every record of the relevant type instead of a single
// party's alias set.
const AllParties = "all"

// RepositoryPort defines data access methods for ledgers. A nil alias slice
// means no party filtering; until bounds the query when non-zero.
type RepositoryPort interface {
	ListSaleInvoices(ctx context.Context, aliases []string, until time.Time) ([]Invoice, error)
	ListPurchaseInvoices(ctx context.Context, aliases []string, until time.Time) ([]Invoice, error)
	ListPayments(ctx context.Context, partyType party.Type, aliases []string, until time.Time) ([]CashEntry, error)
	ListReceipts(ctx context.Context, partyType party.Type, aliases []string, until time.Time) ([]CashEntry, error)
}

// ResolverPort narrows the party service to what ledgers need.
type ResolverPort interface {
	Resolve(ctx context.Context, partyType party.Type, query string) (party.Resolution, error)
}

// Service builds party ledgers from the transaction log.
type Service struct {
	repo     RepositoryPort
	resolver ResolverPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, resolver ResolverPort) *Service {
	return &Service{repo: repo, resolver: resolver}
}

// BuildLedger assembles the chronological debit/credit statement for one
// party, or for every party of the type when partyQuery is "all" or empty.
// The three transaction sources are independent reads fetched concurrently
// and merged deterministically by date afterwards.
func (s *Service) BuildLedger(ctx context.Context, partyType party.Type, partyQuery string, dr shared.DateRange) (Ledger, error) {
	var aliases []string
	partyQuery = strings.TrimSpace(partyQuery)
	if partyQuery != "" && !strings.EqualFold(partyQuery, AllParties) {
		res, err := s.resolver.Resolve(ctx, partyType, partyQuery)
		if err != nil {
			return Ledger{}, err
		}
		aliases = res.Aliases
	}

	src, err := s.fetchSources(ctx, partyType, aliases, dr.To)
	if err != nil {
		return Ledger{}, err
	}

	rows := Rows(partyType, src)
	opening, inRange := Split(rows, dr)
	return Build(OpeningBalance(opening), inRange), nil
}

func (s *Service) fetchSources(ctx context.Context, partyType party.Type, aliases []string, until time.Time) (Sources, error) {
	var src Sources
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if partyType == party.TypeCustomer {
			src.Invoices, err = s.repo.ListSaleInvoices(gctx, aliases, until)
		} else {
			src.Invoices, err = s.repo.ListPurchaseInvoices(gctx, aliases, until)
		}
		return err
	})
	g.Go(func() error {
		var err error
		src.Payments, err = s.repo.ListPayments(gctx, partyType, aliases, until)
		return err
	})
	g.Go(func() error {
		var err error
		src.Receipts, err = s.repo.ListReceipts(gctx, partyType, aliases, until)
		return err
	})

	if err := g.Wait(); err != nil {
		return Sources{}, err
	}
	return src, nil
}
