package stock

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RepositoryPort defines data access methods for stock reconciliation. An
// empty storeFilter means every store.
type RepositoryPort interface {
	PurchasedTotals(ctx context.Context, storeFilter string) ([]KeyTotals, error)
	SoldTotals(ctx context.Context, storeFilter string) ([]KeyTotals, error)
	ProducedTotals(ctx context.Context, storeFilter string) ([]KeyTotals, error)
	ConsumedTotals(ctx context.Context, storeFilter string) ([]KeyTotals, error)
	ListSnapshots(ctx context.Context, storeFilter string) ([]Snapshot, error)
	ListActiveStores(ctx context.Context, storeFilter string) ([]string, error)
}

// Service reconciles stock across transaction sources.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// StoreStock computes the current per-(store, product, lot) view. The six
// source reads are independent and fetched concurrently; the merge itself
// is deterministic regardless of completion order.
func (s *Service) StoreStock(ctx context.Context, storeFilter string) ([]Row, error) {
	var (
		m         Movements
		snapshots []Snapshot
		stores    []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		m.Purchased, err = s.repo.PurchasedTotals(gctx, storeFilter)
		return err
	})
	g.Go(func() error {
		var err error
		m.Sold, err = s.repo.SoldTotals(gctx, storeFilter)
		return err
	})
	g.Go(func() error {
		var err error
		m.Produced, err = s.repo.ProducedTotals(gctx, storeFilter)
		return err
	})
	g.Go(func() error {
		var err error
		m.Consumed, err = s.repo.ConsumedTotals(gctx, storeFilter)
		return err
	})
	g.Go(func() error {
		var err error
		snapshots, err = s.repo.ListSnapshots(gctx, storeFilter)
		return err
	})
	g.Go(func() error {
		var err error
		stores, err = s.repo.ListActiveStores(gctx, storeFilter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Reconcile(m, snapshots, stores), nil
}

// Stores lists the active store ids.
func (s *Service) Stores(ctx context.Context) ([]string, error) {
	return s.repo.ListActiveStores(ctx, "")
}
