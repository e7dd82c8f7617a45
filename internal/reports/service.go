package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/millbooks-erp/millbooks/internal/costing"
	"github.com/millbooks-erp/millbooks/internal/party"
	"github.com/millbooks-erp/millbooks/internal/shared"
)

// RepositoryPort defines the report-specific aggregates read from the
// transaction log. A zero until time means no upper bound.
type RepositoryPort interface {
	SaleGroups(ctx context.Context, dr shared.DateRange, store, product string) ([]SaleGroup, error)
	CustomerSaleGroups(ctx context.Context, dr shared.DateRange) ([]CustomerSaleGroup, error)
	InvoiceRevenue(ctx context.Context, dr shared.DateRange) (decimal.Decimal, error)
	SalesByCustomer(ctx context.Context, until time.Time) ([]RefTotal, error)
	PurchasesBySupplier(ctx context.Context, until time.Time) ([]RefTotal, error)
	ReceiptsByParty(ctx context.Context, partyType party.Type, until time.Time) ([]RefTotal, error)
	PaymentsByParty(ctx context.Context, partyType party.Type, until time.Time) ([]RefTotal, error)
	CashBankReceipts(ctx context.Context, until time.Time) (decimal.Decimal, error)
	CashBankPayments(ctx context.Context, until time.Time) (decimal.Decimal, error)
	SnapshotTotals(ctx context.Context) ([]SnapshotTotal, error)
}

// CostingPort narrows the costing service to what reports need.
type CostingPort interface {
	UnitCost(ctx context.Context, key costing.Key, mode costing.Mode, basis costing.Basis) (decimal.Decimal, error)
}

// ResolverPort narrows the party service to what reports need.
type ResolverPort interface {
	Resolve(ctx context.Context, partyType party.Type, query string) (party.Resolution, error)
}

// Service composes costing, party resolution and transaction aggregates
// into the reporting views.
type Service struct {
	repo     RepositoryPort
	costing  CostingPort
	resolver ResolverPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, costingPort CostingPort, resolver ResolverPort) *Service {
	return &Service{repo: repo, costing: costingPort, resolver: resolver}
}

// asOfOrNow defaults an unbounded range end to the current day.
func asOfOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
