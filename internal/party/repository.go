package party

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/millbooks-erp/millbooks/internal/platform/db"
	"github.com/millbooks-erp/millbooks/internal/shared"
)

// Repository provides PostgreSQL backed lookups for parties.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FindParty matches the query against every identifying column. Exact id
// match is tried first so numeric codes cannot shadow primary keys.
func (r *Repository) FindParty(ctx context.Context, partyType Type, query string) (*Party, error) {
	const q = `
		SELECT id, party_type, code, person, description, COALESCE(phone, '')
		FROM parties
		WHERE party_type = $1
		  AND (id = $2 OR code = $2 OR person = $2 OR description = $2)
		ORDER BY (id = $2) DESC
		LIMIT 1`

	var p Party
	err := r.pool.QueryRow(ctx, q, string(partyType), query).Scan(
		&p.ID, &p.Type, &p.Code, &p.Person, &p.Description, &p.Phone,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, db.ClassifyError("party: find", err)
	}
	return &p, nil
}

// ListParties returns parties of a type, optionally filtered by search.
func (r *Repository) ListParties(ctx context.Context, partyType Type, search string) ([]Party, error) {
	const q = `
		SELECT id, party_type, code, person, description, COALESCE(phone, '')
		FROM parties
		WHERE party_type = $1
		  AND ($2 = '' OR code ILIKE '%' || $2 || '%' OR person ILIKE '%' || $2 || '%' OR description ILIKE '%' || $2 || '%')
		ORDER BY person, description, id`

	rows, err := r.pool.Query(ctx, q, string(partyType), search)
	if err != nil {
		return nil, db.ClassifyError("party: list", err)
	}
	defer rows.Close()

	var parties []Party
	for rows.Next() {
		var p Party
		if err := rows.Scan(&p.ID, &p.Type, &p.Code, &p.Person, &p.Description, &p.Phone); err != nil {
			return nil, db.ClassifyError("party: scan", err)
		}
		parties = append(parties, p)
	}
	return parties, db.ClassifyError("party: rows", rows.Err())
}
