package stock

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/millbooks-erp/millbooks/internal/platform/db"
)

// Repository provides PostgreSQL backed reads for stock reconciliation.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// PurchasedTotals aggregates purchase lines per (store, product, lot).
func (r *Repository) PurchasedTotals(ctx context.Context, storeFilter string) ([]KeyTotals, error) {
	const q = `
		SELECT store, product, COALESCE(lot, ''),
		       COALESCE(SUM(qty), 0), COALESCE(SUM(weight), 0)
		FROM purchase_lines
		WHERE $1 = '' OR store = $1
		GROUP BY store, product, COALESCE(lot, '')
		ORDER BY store, product, COALESCE(lot, '')`

	return r.listTotals(ctx, "stock: purchased", q, storeFilter)
}

// SoldTotals aggregates sale lines per (store, product, lot).
func (r *Repository) SoldTotals(ctx context.Context, storeFilter string) ([]KeyTotals, error) {
	const q = `
		SELECT store, product, COALESCE(lot, ''),
		       COALESCE(SUM(qty), 0), COALESCE(SUM(weight), 0)
		FROM sale_lines
		WHERE $1 = '' OR store = $1
		GROUP BY store, product, COALESCE(lot, '')
		ORDER BY store, product, COALESCE(lot, '')`

	return r.listTotals(ctx, "stock: sold", q, storeFilter)
}

// ProducedTotals aggregates production output lines per key.
func (r *Repository) ProducedTotals(ctx context.Context, storeFilter string) ([]KeyTotals, error) {
	return r.productionTotals(ctx, "stock: produced", storeFilter, "in")
}

// ConsumedTotals aggregates production material-consumption lines per key.
func (r *Repository) ConsumedTotals(ctx context.Context, storeFilter string) ([]KeyTotals, error) {
	return r.productionTotals(ctx, "stock: consumed", storeFilter, "out")
}

func (r *Repository) productionTotals(ctx context.Context, op, storeFilter, direction string) ([]KeyTotals, error) {
	const q = `
		SELECT store, product, COALESCE(lot, ''),
		       COALESCE(SUM(qty), 0), COALESCE(SUM(weight), 0)
		FROM production_lines
		WHERE direction = $2 AND ($1 = '' OR store = $1)
		GROUP BY store, product, COALESCE(lot, '')
		ORDER BY store, product, COALESCE(lot, '')`

	return r.listTotals(ctx, op, q, storeFilter, direction)
}

func (r *Repository) listTotals(ctx context.Context, op, q string, args ...any) ([]KeyTotals, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, db.ClassifyError(op, err)
	}
	defer rows.Close()

	var totals []KeyTotals
	for rows.Next() {
		var t KeyTotals
		if err := rows.Scan(&t.Store, &t.Product, &t.Lot, &t.Qty, &t.Weight); err != nil {
			return nil, db.ClassifyError(op, err)
		}
		totals = append(totals, t)
	}
	return totals, db.ClassifyError(op, rows.Err())
}

// ListSnapshots returns manual stock records.
func (r *Repository) ListSnapshots(ctx context.Context, storeFilter string) ([]Snapshot, error) {
	const q = `
		SELECT store, product, COALESCE(lot, ''),
		       COALESCE(qty, 0), COALESCE(weight, 0)
		FROM stock_snapshots
		WHERE $1 = '' OR store = $1
		ORDER BY store, product, COALESCE(lot, '')`

	rows, err := r.pool.Query(ctx, q, storeFilter)
	if err != nil {
		return nil, db.ClassifyError("stock: snapshots", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.Store, &s.Product, &s.Lot, &s.Qty, &s.Weight); err != nil {
			return nil, db.ClassifyError("stock: snapshots", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, db.ClassifyError("stock: snapshots", rows.Err())
}

// ListActiveStores returns ids of stores that should appear in the report
// even without movement.
func (r *Repository) ListActiveStores(ctx context.Context, storeFilter string) ([]string, error) {
	const q = `
		SELECT id FROM stores
		WHERE active AND ($1 = '' OR id = $1)
		ORDER BY id`

	rows, err := r.pool.Query(ctx, q, storeFilter)
	if err != nil {
		return nil, db.ClassifyError("stock: stores", err)
	}
	defer rows.Close()

	var stores []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, db.ClassifyError("stock: stores", err)
		}
		stores = append(stores, id)
	}
	return stores, db.ClassifyError("stock: stores", rows.Err())
}
