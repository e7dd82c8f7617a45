package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/millbooks-erp/millbooks/internal/party"
	"github.com/millbooks-erp/millbooks/internal/platform/db"
	"github.com/millbooks-erp/millbooks/internal/shared"
)

// Repository provides PostgreSQL backed aggregates for reports.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func boundParam(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// SaleGroups aggregates sale lines by (store, product) over the range,
// carrying the product name and static default cost for pricing fallbacks.
// Empty store/product filters match everything.
func (r *Repository) SaleGroups(ctx context.Context, dr shared.DateRange, store, product string) ([]SaleGroup, error) {
	const q = `
		SELECT sl.store, sl.product, COALESCE(p.name, sl.product),
		       COALESCE(p.default_cost, 0),
		       COALESCE(SUM(sl.qty), 0), COALESCE(SUM(sl.weight), 0),
		       COALESCE(SUM(sl.value), 0)
		FROM sale_lines sl
		JOIN sale_invoices si ON si.id = sl.invoice_id
		LEFT JOIN products p ON p.id = sl.product
		WHERE ($1::timestamptz IS NULL OR si.invoice_date >= $1)
		  AND ($2::timestamptz IS NULL OR si.invoice_date <= $2)
		  AND ($3 = '' OR sl.store = $3)
		  AND ($4 = '' OR sl.product = $4)
		GROUP BY sl.store, sl.product, p.name, p.default_cost
		ORDER BY sl.store, sl.product`

	rows, err := r.pool.Query(ctx, q, boundParam(dr.From), boundParam(dr.To), store, product)
	if err != nil {
		return nil, db.ClassifyError("reports: sale groups", err)
	}
	defer rows.Close()

	var groups []SaleGroup
	for rows.Next() {
		var g SaleGroup
		if err := rows.Scan(&g.Store, &g.Product, &g.ProductName, &g.DefaultCost,
			&g.Qty, &g.Weight, &g.Value); err != nil {
			return nil, db.ClassifyError("reports: sale groups", err)
		}
		groups = append(groups, g)
	}
	return groups, db.ClassifyError("reports: sale groups", rows.Err())
}

// CustomerSaleGroups aggregates sale lines by (customer ref, store, product)
// over the range.
func (r *Repository) CustomerSaleGroups(ctx context.Context, dr shared.DateRange) ([]CustomerSaleGroup, error) {
	const q = `
		SELECT si.customer_ref, sl.store, sl.product,
		       COALESCE(SUM(sl.qty), 0), COALESCE(SUM(sl.weight), 0),
		       COALESCE(SUM(sl.value), 0)
		FROM sale_lines sl
		JOIN sale_invoices si ON si.id = sl.invoice_id
		WHERE ($1::timestamptz IS NULL OR si.invoice_date >= $1)
		  AND ($2::timestamptz IS NULL OR si.invoice_date <= $2)
		GROUP BY si.customer_ref, sl.store, sl.product
		ORDER BY si.customer_ref, sl.store, sl.product`

	rows, err := r.pool.Query(ctx, q, boundParam(dr.From), boundParam(dr.To))
	if err != nil {
		return nil, db.ClassifyError("reports: customer sale groups", err)
	}
	defer rows.Close()

	var groups []CustomerSaleGroup
	for rows.Next() {
		var g CustomerSaleGroup
		if err := rows.Scan(&g.Ref, &g.Store, &g.Product, &g.Qty, &g.Weight, &g.Value); err != nil {
			return nil, db.ClassifyError("reports: customer sale groups", err)
		}
		groups = append(groups, g)
	}
	return groups, db.ClassifyError("reports: customer sale groups", rows.Err())
}

// InvoiceRevenue sums sale invoice net amounts over the range.
func (r *Repository) InvoiceRevenue(ctx context.Context, dr shared.DateRange) (decimal.Decimal, error) {
	const q = `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM sale_invoices
		WHERE ($1::timestamptz IS NULL OR invoice_date >= $1)
		  AND ($2::timestamptz IS NULL OR invoice_date <= $2)`

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, q, boundParam(dr.From), boundParam(dr.To)).Scan(&total); err != nil {
		return decimal.Zero, db.ClassifyError("reports: invoice revenue", err)
	}
	return total, nil
}

// SalesByCustomer totals sale invoices per customer reference up to the date.
func (r *Repository) SalesByCustomer(ctx context.Context, until time.Time) ([]RefTotal, error) {
	const q = `
		SELECT customer_ref, COALESCE(SUM(total_amount), 0)
		FROM sale_invoices
		WHERE ($1::timestamptz IS NULL OR invoice_date <= $1)
		GROUP BY customer_ref
		ORDER BY customer_ref`

	return r.refTotals(ctx, "reports: sales by customer", q, boundParam(until))
}

// PurchasesBySupplier totals purchase invoices per supplier reference up to
// the date.
func (r *Repository) PurchasesBySupplier(ctx context.Context, until time.Time) ([]RefTotal, error) {
	const q = `
		SELECT supplier_ref, COALESCE(SUM(total_amount), 0)
		FROM purchase_invoices
		WHERE ($1::timestamptz IS NULL OR invoice_date <= $1)
		GROUP BY supplier_ref
		ORDER BY supplier_ref`

	return r.refTotals(ctx, "reports: purchases by supplier", q, boundParam(until))
}

// ReceiptsByParty totals receipt vouchers of the party type per reference.
func (r *Repository) ReceiptsByParty(ctx context.Context, partyType party.Type, until time.Time) ([]RefTotal, error) {
	const q = `
		SELECT party_ref, COALESCE(SUM(amount), 0)
		FROM receipts
		WHERE party_type = $1
		  AND ($2::timestamptz IS NULL OR receipt_date <= $2)
		GROUP BY party_ref
		ORDER BY party_ref`

	return r.refTotals(ctx, "reports: receipts by party", q, string(partyType), boundParam(until))
}

// PaymentsByParty totals payment vouchers of the party type per reference.
func (r *Repository) PaymentsByParty(ctx context.Context, partyType party.Type, until time.Time) ([]RefTotal, error) {
	const q = `
		SELECT party_ref, COALESCE(SUM(amount), 0)
		FROM payments
		WHERE party_type = $1
		  AND ($2::timestamptz IS NULL OR pay_date <= $2)
		GROUP BY party_ref
		ORDER BY party_ref`

	return r.refTotals(ctx, "reports: payments by party", q, string(partyType), boundParam(until))
}

func (r *Repository) refTotals(ctx context.Context, op, q string, args ...any) ([]RefTotal, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, db.ClassifyError(op, err)
	}
	defer rows.Close()

	var totals []RefTotal
	for rows.Next() {
		var t RefTotal
		if err := rows.Scan(&t.Ref, &t.Amount); err != nil {
			return nil, db.ClassifyError(op, err)
		}
		totals = append(totals, t)
	}
	return totals, db.ClassifyError(op, rows.Err())
}

// CashBankReceipts sums receipt vouchers settled through cash or bank.
func (r *Repository) CashBankReceipts(ctx context.Context, until time.Time) (decimal.Decimal, error) {
	const q = `
		SELECT COALESCE(SUM(amount), 0)
		FROM receipts
		WHERE LOWER(COALESCE(mode, '')) IN ('cash', 'bank')
		  AND ($1::timestamptz IS NULL OR receipt_date <= $1)`

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, q, boundParam(until)).Scan(&total); err != nil {
		return decimal.Zero, db.ClassifyError("reports: cash/bank receipts", err)
	}
	return total, nil
}

// CashBankPayments sums payment vouchers settled through cash or bank.
func (r *Repository) CashBankPayments(ctx context.Context, until time.Time) (decimal.Decimal, error) {
	const q = `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE LOWER(COALESCE(mode, '')) IN ('cash', 'bank')
		  AND ($1::timestamptz IS NULL OR pay_date <= $1)`

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, q, boundParam(until)).Scan(&total); err != nil {
		return decimal.Zero, db.ClassifyError("reports: cash/bank payments", err)
	}
	return total, nil
}

// SnapshotTotals sums snapshot quantities per (store, product).
func (r *Repository) SnapshotTotals(ctx context.Context) ([]SnapshotTotal, error) {
	const q = `
		SELECT store, product, COALESCE(SUM(qty), 0)
		FROM stock_snapshots
		GROUP BY store, product
		ORDER BY store, product`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, db.ClassifyError("reports: snapshot totals", err)
	}
	defer rows.Close()

	var totals []SnapshotTotal
	for rows.Next() {
		var t SnapshotTotal
		if err := rows.Scan(&t.Store, &t.Product, &t.Qty); err != nil {
			return nil, db.ClassifyError("reports: snapshot totals", err)
		}
		totals = append(totals, t)
	}
	return totals, db.ClassifyError("reports: snapshot totals", rows.Err())
}
