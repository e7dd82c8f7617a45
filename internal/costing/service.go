package costing

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/millbooks-erp/millbooks/internal/shared"
)

// RepositoryPort defines data access methods for costing.
type RepositoryPort interface {
	// ListPurchaseLines returns purchase lines matching the key with
	// date <= Key.AsOf, ordered by (date, id) ascending.
	ListPurchaseLines(ctx context.Context, key Key) ([]PurchaseLine, error)
	// LiveRatio returns the stock snapshot quantity/weight for the key.
	LiveRatio(ctx context.Context, key Key) (Ratio, error)
	// DefaultCost returns the product's static cost per quantity, zero
	// when the product is unknown.
	DefaultCost(ctx context.Context, product string) (decimal.Decimal, error)
	// ListProducts returns the product catalogue.
	ListProducts(ctx context.Context) ([]Product, error)
}

// Service computes unit costs from the transaction log.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// UnitCost resolves the unit cost for a (store, product, lot) as of a date.
// The three inputs are independent reads and fetched concurrently; the
// result is a pure function of the fetched data.
func (s *Service) UnitCost(ctx context.Context, key Key, mode Mode, basis Basis) (decimal.Decimal, error) {
	if key.Store == "" || key.Product == "" {
		return decimal.Zero, shared.Validationf("store and product required")
	}
	if key.AsOf.IsZero() {
		return decimal.Zero, shared.Validationf("as-of date required")
	}

	var in Inputs
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lines, err := s.repo.ListPurchaseLines(gctx, key)
		if err != nil {
			return err
		}
		in.Lines = lines
		return nil
	})
	g.Go(func() error {
		ratio, err := s.repo.LiveRatio(gctx, key)
		if err != nil {
			return err
		}
		in.LiveRatio = ratio
		return nil
	})
	g.Go(func() error {
		cost, err := s.repo.DefaultCost(gctx, key.Product)
		if err != nil {
			return err
		}
		in.DefaultCost = cost
		return nil
	})
	if err := g.Wait(); err != nil {
		return decimal.Zero, err
	}

	return UnitCost(in, mode, basis), nil
}

// Products lists the product catalogue for reference pickers.
func (s *Service) Products(ctx context.Context) ([]Product, error) {
	return s.repo.ListProducts(ctx)
}
