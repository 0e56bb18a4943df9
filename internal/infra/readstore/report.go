package readstore

import (
	"context"
	"fmt"
	"strings"

	"lottery-sales/internal/infra"
	"lottery-sales/internal/infra/db"
	"lottery-sales/internal/usecase/queries"
)

// ReportReadStore runs the aggregation queries behind sales summaries.
// Date bucketing happens in the sales timezone, not UTC, so a ticket sold
// at 23:30 local lands on the local calendar day.
type ReportReadStore struct {
	q  db.Queryer
	tz string
}

func NewReportReadStore(q db.Queryer, timeZone string) *ReportReadStore {
	return &ReportReadStore{q: q, tz: timeZone}
}

func (r *ReportReadStore) GroupedSummary(ctx context.Context, p queries.ReportParams) ([]queries.AggregateRow, error) {
	join, label := groupClause(p.GroupBy)
	where, args := r.filterClause(p)

	sql := fmt.Sprintf(`
SELECT %s AS grp, COUNT(t.id), COALESCE(SUM(t.total_pieces), 0)
FROM tickets t
%s
%s
GROUP BY grp
ORDER BY grp`, label, join, where)

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to aggregate tickets", err)
	}
	defer rows.Close()

	var out []queries.AggregateRow
	for rows.Next() {
		var row queries.AggregateRow
		if err := rows.Scan(&row.Group, &row.TotalTickets, &row.TotalPieces); err != nil {
			return nil, infra.WrapRepoErr("failed to scan aggregate row", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to aggregate tickets", err)
	}
	return out, nil
}

func (r *ReportReadStore) DailySummary(ctx context.Context, p queries.ReportParams) ([]queries.DailyRow, error) {
	where, args := r.filterClause(p)

	sql := fmt.Sprintf(`
SELECT to_char((t.created_at AT TIME ZONE '%s')::date, 'YYYY-MM-DD') AS day,
       COUNT(t.id), COALESCE(SUM(t.total_pieces), 0)
FROM tickets t
%s
GROUP BY day
ORDER BY day`, r.tz, where)

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to aggregate daily tickets", err)
	}
	defer rows.Close()

	var out []queries.DailyRow
	for rows.Next() {
		var row queries.DailyRow
		if err := rows.Scan(&row.Date, &row.TotalTickets, &row.TotalPieces); err != nil {
			return nil, infra.WrapRepoErr("failed to scan daily row", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to aggregate daily tickets", err)
	}
	return out, nil
}

func groupClause(g queries.GroupBy) (join, label string) {
	switch g {
	case queries.GroupByDrawType:
		return "JOIN draw_types d ON d.id = t.draw_type_id", "d.name"
	case queries.GroupByUser:
		return "JOIN users u ON u.id = t.user_id", "u.username"
	default:
		return "JOIN zones z ON z.id = t.zone_id", "z.name"
	}
}

// filterClause builds the WHERE clause for the shared report filters.
// The timezone string comes from configuration, never from request input,
// so interpolating it is safe; every request-supplied value is a bind
// parameter.
func (r *ReportReadStore) filterClause(p queries.ReportParams) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if p.Start != nil {
		conds = append(conds, fmt.Sprintf("(t.created_at AT TIME ZONE '%s')::date >= %s", r.tz, arg(*p.Start)))
	}
	if p.End != nil {
		conds = append(conds, fmt.Sprintf("(t.created_at AT TIME ZONE '%s')::date <= %s", r.tz, arg(*p.End)))
	}
	if len(p.ZoneIDs) > 0 {
		conds = append(conds, fmt.Sprintf("t.zone_id = ANY(%s)", arg(p.ZoneIDs)))
	}
	if len(p.DrawTypeIDs) > 0 {
		conds = append(conds, fmt.Sprintf("t.draw_type_id = ANY(%s)", arg(p.DrawTypeIDs)))
	}
	if len(p.UserIDs) > 0 {
		conds = append(conds, fmt.Sprintf("t.user_id = ANY(%s)", arg(p.UserIDs)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}
