package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QualityScanJob sweeps the transaction log for data-quality gaps that make
// reports silently degrade: products costed at zero and stock keys whose
// derived quantity has gone negative without a snapshot correcting them.
type QualityScanJob struct {
	Pool   *pgxpool.Pool
	Logger *slog.Logger
	clock  func() time.Time
}

// NewQualityScanJob initialises the quality scan handler.
func NewQualityScanJob(pool *pgxpool.Pool, logger *slog.Logger) *QualityScanJob {
	return &QualityScanJob{
		Pool:   pool,
		Logger: logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the quality scan.
func (j *QualityScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("quality scan: handler not configured")
	}
	var payload QualityScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	start := j.now()
	logger := j.logger().With(slog.String("run_id", payload.RunID))
	logger.Info("starting quality scan")

	zeroCost, err := j.zeroCostProducts(ctx)
	if err != nil {
		logger.Error("scan zero-cost products", slog.Any("error", err))
		return err
	}
	for _, id := range zeroCost {
		logger.Warn("product has no default cost", slog.String("product", id))
	}

	negatives, err := j.negativeDerivedStock(ctx)
	if err != nil {
		logger.Error("scan derived stock", slog.Any("error", err))
		return err
	}
	for _, n := range negatives {
		logger.Warn("derived stock is negative with no snapshot",
			slog.String("store", n.Store),
			slog.String("product", n.Product),
			slog.String("lot", n.Lot),
			slog.String("derived_qty", n.Qty))
	}

	logger.Info("completed quality scan",
		slog.Int("zero_cost_products", len(zeroCost)),
		slog.Int("negative_stock_keys", len(negatives)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func (j *QualityScanJob) zeroCostProducts(ctx context.Context) ([]string, error) {
	if j.Pool == nil {
		return nil, errors.New("quality scan: pool not configured")
	}
	rows, err := j.Pool.Query(ctx, `SELECT id FROM products WHERE COALESCE(default_cost, 0) = 0 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type negativeStock struct {
	Store   string
	Product string
	Lot     string
	Qty     string
}

func (j *QualityScanJob) negativeDerivedStock(ctx context.Context) ([]negativeStock, error) {
	if j.Pool == nil {
		return nil, errors.New("quality scan: pool not configured")
	}
	// Derived = purchased - sold - consumed + produced per key; only keys
	// without a snapshot row matter, snapshots already override.
	const q = `
		WITH moves AS (
			SELECT store, product, COALESCE(lot, '') AS lot, SUM(qty) AS qty
			FROM (
				SELECT store, product, lot, COALESCE(qty, 0) AS qty FROM purchase_lines
				UNION ALL
				SELECT store, product, lot, -COALESCE(qty, 0) FROM sale_lines
				UNION ALL
				SELECT store, product, lot,
				       CASE WHEN direction = 'in' THEN COALESCE(qty, 0) ELSE -COALESCE(qty, 0) END
				FROM production_lines
			) m
			GROUP BY store, product, COALESCE(lot, '')
		)
		SELECT mv.store, mv.product, mv.lot, mv.qty::text
		FROM moves mv
		LEFT JOIN stock_snapshots ss
		  ON ss.store = mv.store AND ss.product = mv.product AND COALESCE(ss.lot, '') = mv.lot
		WHERE mv.qty < 0 AND ss.store IS NULL
		ORDER BY mv.store, mv.product, mv.lot`

	rows, err := j.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []negativeStock
	for rows.Next() {
		var n negativeStock
		if err := rows.Scan(&n.Store, &n.Product, &n.Lot, &n.Qty); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (j *QualityScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskQualityScan))
	}
	return slog.Default().With(slog.String("job", TaskQualityScan))
}

func (j *QualityScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
