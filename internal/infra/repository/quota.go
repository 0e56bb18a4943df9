package repository

import (
	"context"

	"lottery-sales/internal/infra"
	"lottery-sales/internal/infra/db"
	"lottery-sales/internal/usecase/shared"
)

type QuotaRepository struct {
	db db.Queryer
}

func NewQuotaRepository(q db.Queryer) *QuotaRepository {
	return &QuotaRepository{db: q}
}

// A cap lowered below the already committed volume is not applied to that
// day's row; the old cap stands until the next sales day.
const seedQuotaSQL = `
INSERT INTO number_quotas (zone_id, draw_type_id, sales_date, number, max_pieces, committed_pieces)
VALUES ($1, $2, $3, $4, $5, 0)
ON CONFLICT (zone_id, draw_type_id, sales_date, number)
DO UPDATE SET max_pieces = EXCLUDED.max_pieces
WHERE number_quotas.committed_pieces <= EXCLUDED.max_pieces`

// The increment and the cap check are one statement: a concurrent writer
// holding the row lock forces this UPDATE to re-evaluate its predicate
// against the newly committed value, so the ledger can never go above cap.
const reserveQuotaSQL = `
UPDATE number_quotas
SET committed_pieces = committed_pieces + $5
WHERE zone_id = $1 AND draw_type_id = $2 AND sales_date = $3 AND number = $4
  AND committed_pieces + $5 <= max_pieces
RETURNING committed_pieces, max_pieces`

const readQuotaSQL = `
SELECT committed_pieces, max_pieces
FROM number_quotas
WHERE zone_id = $1 AND draw_type_id = $2 AND sales_date = $3 AND number = $4`

func (r *QuotaRepository) Reserve(ctx context.Context, key shared.QuotaKey, maxPieces, pieces int32) (shared.ReserveResult, error) {
	_, err := r.db.Exec(ctx, seedQuotaSQL,
		key.ZoneID, key.DrawTypeID, key.SalesDate, key.Number, maxPieces)
	if err != nil {
		return shared.ReserveResult{}, infra.WrapRepoErr("failed to seed quota row", err)
	}

	var committed, maxCap int32
	err = r.db.QueryRow(ctx, reserveQuotaSQL,
		key.ZoneID, key.DrawTypeID, key.SalesDate, key.Number, pieces).
		Scan(&committed, &maxCap)
	if err == nil {
		return shared.ReserveResult{OK: true, Committed: committed, Max: maxCap}, nil
	}
	if !isNoRows(err) {
		return shared.ReserveResult{}, infra.WrapRepoErr("failed to reserve quota", err)
	}

	// Conditional increment matched nothing: read the row (still locked by
	// this transaction's seed upsert) to report the remaining capacity.
	err = r.db.QueryRow(ctx, readQuotaSQL,
		key.ZoneID, key.DrawTypeID, key.SalesDate, key.Number).
		Scan(&committed, &maxCap)
	if err != nil {
		return shared.ReserveResult{}, infra.WrapRepoErr("failed to read quota after rejection", err)
	}

	return shared.ReserveResult{OK: false, Committed: committed, Max: maxCap}, nil
}
