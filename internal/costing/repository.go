package costing

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/millbooks-erp/millbooks/internal/platform/db"
)

// Repository provides PostgreSQL backed reads for costing.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListPurchaseLines returns purchase lines matching the key dated at or
// before the as-of date, oldest first.
func (r *Repository) ListPurchaseLines(ctx context.Context, key Key) ([]PurchaseLine, error) {
	const q = `
		SELECT pl.id, pi.invoice_date, pl.store, pl.product, COALESCE(pl.lot, ''),
		       COALESCE(pl.qty, 0), COALESCE(pl.weight, 0),
		       COALESCE(pl.rate, 0), COALESCE(pl.rate_basis, 'quantity'),
		       COALESCE(pl.value, 0)
		FROM purchase_lines pl
		JOIN purchase_invoices pi ON pi.id = pl.invoice_id
		WHERE pl.store = $1
		  AND pl.product = $2
		  AND ($3 = '' OR pl.lot = $3)
		  AND pi.invoice_date <= $4
		ORDER BY pi.invoice_date, pl.id`

	rows, err := r.pool.Query(ctx, q, key.Store, key.Product, key.Lot, key.AsOf)
	if err != nil {
		return nil, db.ClassifyError("costing: purchase lines", err)
	}
	defer rows.Close()

	var lines []PurchaseLine
	for rows.Next() {
		var l PurchaseLine
		var basis string
		if err := rows.Scan(&l.ID, &l.Date, &l.Store, &l.Product, &l.Lot,
			&l.Qty, &l.Weight, &l.Rate, &basis, &l.Value); err != nil {
			return nil, db.ClassifyError("costing: scan line", err)
		}
		l.RateBasis = Basis(basis)
		lines = append(lines, l)
	}
	return lines, db.ClassifyError("costing: rows", rows.Err())
}

// LiveRatio sums the stock snapshot quantity and weight for the key. Lots
// aggregate when the key does not name one.
func (r *Repository) LiveRatio(ctx context.Context, key Key) (Ratio, error) {
	const q = `
		SELECT COALESCE(SUM(qty), 0), COALESCE(SUM(weight), 0)
		FROM stock_snapshots
		WHERE store = $1 AND product = $2 AND ($3 = '' OR lot = $3)`

	var ratio Ratio
	if err := r.pool.QueryRow(ctx, q, key.Store, key.Product, key.Lot).Scan(&ratio.Qty, &ratio.Weight); err != nil {
		return Ratio{}, db.ClassifyError("costing: live ratio", err)
	}
	return ratio, nil
}

// DefaultCost returns the product's static per-quantity cost. An unknown
// product yields zero, the documented data-quality default.
func (r *Repository) DefaultCost(ctx context.Context, product string) (decimal.Decimal, error) {
	const q = `SELECT COALESCE(default_cost, 0) FROM products WHERE id = $1`

	var cost decimal.Decimal
	err := r.pool.QueryRow(ctx, q, product).Scan(&cost)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, db.ClassifyError("costing: default cost", err)
	}
	return cost, nil
}

// ListProducts returns the product catalogue ordered by id.
func (r *Repository) ListProducts(ctx context.Context) ([]Product, error) {
	const q = `SELECT id, COALESCE(name, id), COALESCE(default_cost, 0) FROM products ORDER BY id`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, db.ClassifyError("costing: products", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.DefaultCost); err != nil {
			return nil, db.ClassifyError("costing: products", err)
		}
		products = append(products, p)
	}
	return products, db.ClassifyError("costing: products", rows.Err())
}
