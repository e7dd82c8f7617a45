package ledger

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/millbooks-erp/millbooks/internal/party"
	"github.com/millbooks-erp/millbooks/internal/platform/db"
)

// Repository provides PostgreSQL backed reads for ledgers.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// untilParam maps a zero time onto NULL so SQL can skip the bound.
func untilParam(until time.Time) any {
	if until.IsZero() {
		return nil
	}
	return until
}

// aliasParam maps an empty alias set onto NULL so SQL can skip the filter
// ("all" mode includes every record of the type).
func aliasParam(aliases []string) any {
	if len(aliases) == 0 {
		return nil
	}
	return aliases
}

// ListSaleInvoices returns sale invoices with their lines, oldest first.
func (r *Repository) ListSaleInvoices(ctx context.Context, aliases []string, until time.Time) ([]Invoice, error) {
	const q = `
		SELECT si.id, si.invoice_date, si.customer_ref, COALESCE(si.payment_type, ''),
		       COALESCE(si.total_amount, 0),
		       COALESCE(p.name, sl.product, ''), COALESCE(sl.qty, 0),
		       COALESCE(sl.weight, 0), COALESCE(sl.value, 0)
		FROM sale_invoices si
		LEFT JOIN sale_lines sl ON sl.invoice_id = si.id
		LEFT JOIN products p ON p.id = sl.product
		WHERE ($1::text[] IS NULL OR si.customer_ref = ANY($1))
		  AND ($2::timestamptz IS NULL OR si.invoice_date <= $2)
		ORDER BY si.invoice_date, si.id, sl.id`

	return r.listInvoices(ctx, "ledger: sale invoices", q, aliasParam(aliases), untilParam(until))
}

// ListPurchaseInvoices returns purchase invoices with their lines, oldest first.
func (r *Repository) ListPurchaseInvoices(ctx context.Context, aliases []string, until time.Time) ([]Invoice, error) {
	const q = `
		SELECT pi.id, pi.invoice_date, pi.supplier_ref, COALESCE(pi.payment_type, ''),
		       COALESCE(pi.total_amount, 0),
		       COALESCE(p.name, pl.product, ''), COALESCE(pl.qty, 0),
		       COALESCE(pl.weight, 0), COALESCE(pl.value, 0)
		FROM purchase_invoices pi
		LEFT JOIN purchase_lines pl ON pl.invoice_id = pi.id
		LEFT JOIN products p ON p.id = pl.product
		WHERE ($1::text[] IS NULL OR pi.supplier_ref = ANY($1))
		  AND ($2::timestamptz IS NULL OR pi.invoice_date <= $2)
		ORDER BY pi.invoice_date, pi.id, pl.id`

	return r.listInvoices(ctx, "ledger: purchase invoices", q, aliasParam(aliases), untilParam(until))
}

func (r *Repository) listInvoices(ctx context.Context, op, q string, args ...any) ([]Invoice, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, db.ClassifyError(op, err)
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		var (
			id, partyRef, paymentType string
			date                      time.Time
			item                      InvoiceItem
			inv                       Invoice
		)
		if err := rows.Scan(&id, &date, &partyRef, &paymentType, &inv.Amount,
			&item.Product, &item.Qty, &item.Weight, &item.Value); err != nil {
			return nil, db.ClassifyError(op, err)
		}

		// Rows arrive grouped by invoice; a LEFT JOIN miss leaves an
		// invoice with no items.
		if n := len(invoices); n > 0 && invoices[n-1].ID == id {
			invoices[n-1].Items = append(invoices[n-1].Items, item)
			continue
		}
		inv.ID = id
		inv.Date = date
		inv.PartyRef = partyRef
		inv.PaymentType = paymentType
		if item.Product != "" || !item.Qty.IsZero() || !item.Weight.IsZero() || !item.Value.IsZero() {
			inv.Items = []InvoiceItem{item}
		}
		invoices = append(invoices, inv)
	}
	return invoices, db.ClassifyError(op, rows.Err())
}

// ListPayments returns payment vouchers of the party type, oldest first.
func (r *Repository) ListPayments(ctx context.Context, partyType party.Type, aliases []string, until time.Time) ([]CashEntry, error) {
	const q = `
		SELECT id, pay_date, party_ref, COALESCE(amount, 0), COALESCE(mode, '')
		FROM payments
		WHERE party_type = $1
		  AND ($2::text[] IS NULL OR party_ref = ANY($2))
		  AND ($3::timestamptz IS NULL OR pay_date <= $3)
		ORDER BY pay_date, id`

	return r.listCash(ctx, "ledger: payments", q, string(partyType), aliasParam(aliases), untilParam(until))
}

// ListReceipts returns receipt vouchers of the party type, oldest first.
func (r *Repository) ListReceipts(ctx context.Context, partyType party.Type, aliases []string, until time.Time) ([]CashEntry, error) {
	const q = `
		SELECT id, receipt_date, party_ref, COALESCE(amount, 0), COALESCE(mode, '')
		FROM receipts
		WHERE party_type = $1
		  AND ($2::text[] IS NULL OR party_ref = ANY($2))
		  AND ($3::timestamptz IS NULL OR receipt_date <= $3)
		ORDER BY receipt_date, id`

	return r.listCash(ctx, "ledger: receipts", q, string(partyType), aliasParam(aliases), untilParam(until))
}

func (r *Repository) listCash(ctx context.Context, op, q string, args ...any) ([]CashEntry, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, db.ClassifyError(op, err)
	}
	defer rows.Close()

	var entries []CashEntry
	for rows.Next() {
		var e CashEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.PartyRef, &e.Amount, &e.Mode); err != nil {
			return nil, db.ClassifyError(op, err)
		}
		entries = append(entries, e)
	}
	return entries, db.ClassifyError(op, rows.Err())
}
