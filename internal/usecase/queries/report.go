package queries

import (
	"context"
	"strconv"

	"lottery-sales/internal/pkg/errs"
)

type ReportReadStore interface {
	GroupedSummary(ctx context.Context, p ReportParams) ([]AggregateRow, error)
	DailySummary(ctx context.Context, p ReportParams) ([]DailyRow, error)
}

// ReportCache is a read-through cache for finished report payloads.
// Get treats any backend failure as a miss so reporting never depends on
// cache availability.
type ReportCache interface {
	Get(ctx context.Context, p ReportParams) (*ReportPayload, bool)
	Set(ctx context.Context, p ReportParams, payload *ReportPayload)
	Clear(ctx context.Context) (int64, error)
}

type ReportQueries interface {
	Summary(ctx context.Context, p ReportParams) (*ReportPayload, error)
	ExportSummary(ctx context.Context, p ReportParams) (*Export, error)
	ClearCache(ctx context.Context) (int64, error)
}

type reportQueries struct {
	reads ReportReadStore
	cache ReportCache
}

func NewReportQueries(reads ReportReadStore, cache ReportCache) ReportQueries {
	return &reportQueries{reads: reads, cache: cache}
}

func (q *reportQueries) Summary(ctx context.Context, p ReportParams) (*ReportPayload, error) {
	p = p.Normalize()

	if !p.ForceRefresh {
		if cached, ok := q.cache.Get(ctx, p); ok {
			return cached, nil
		}
	}

	rows, err := q.reads.GroupedSummary(ctx, p)
	if err != nil {
		return nil, errs.Wrap(err, "failed to aggregate sales")
	}

	payload := &ReportPayload{
		Totals:     sumRows(rows),
		Pagination: paginate(len(rows), p.Page, p.PageSize),
	}
	payload.Summary = pageOf(rows, p.Page, p.PageSize)

	if p.Daily {
		daily, err := q.reads.DailySummary(ctx, p)
		if err != nil {
			return nil, errs.Wrap(err, "failed to aggregate daily sales")
		}
		payload.Daily = daily
	}

	q.cache.Set(ctx, p, payload)
	return payload, nil
}

// ExportSummary materializes the full (unpaginated) summary as column/row
// data for external rendering.
func (q *reportQueries) ExportSummary(ctx context.Context, p ReportParams) (*Export, error) {
	p = p.Normalize()

	rows, err := q.reads.GroupedSummary(ctx, p)
	if err != nil {
		return nil, errs.Wrap(err, "failed to aggregate sales")
	}

	export := &Export{
		Columns: []ExportColumn{
			{Key: "group", Title: groupTitle(p.GroupBy)},
			{Key: "total_tickets", Title: "Tickets"},
			{Key: "total_pieces", Title: "Pieces"},
		},
		Rows: make([]ExportRow, 0, len(rows)+1),
	}
	for _, r := range rows {
		export.Rows = append(export.Rows, ExportRow{
			r.Group,
			strconv.FormatInt(r.TotalTickets, 10),
			strconv.FormatInt(r.TotalPieces, 10),
		})
	}
	totals := sumRows(rows)
	export.Rows = append(export.Rows, ExportRow{
		"TOTAL",
		strconv.FormatInt(totals.TotalTickets, 10),
		strconv.FormatInt(totals.TotalPieces, 10),
	})

	// The daily series goes below the grouped section, separated by a blank
	// line and its own header row.
	if p.Daily {
		daily, err := q.reads.DailySummary(ctx, p)
		if err != nil {
			return nil, errs.Wrap(err, "failed to aggregate daily sales")
		}
		export.Rows = append(export.Rows,
			ExportRow{},
			ExportRow{"Date", "Tickets", "Pieces"},
		)
		for _, d := range daily {
			export.Rows = append(export.Rows, ExportRow{
				d.Date,
				strconv.FormatInt(d.TotalTickets, 10),
				strconv.FormatInt(d.TotalPieces, 10),
			})
		}
	}
	return export, nil
}

func (q *reportQueries) ClearCache(ctx context.Context) (int64, error) {
	n, err := q.cache.Clear(ctx)
	if err != nil {
		return 0, errs.Wrap(err, "failed to clear report cache")
	}
	return n, nil
}

func sumRows(rows []AggregateRow) Totals {
	var t Totals
	for _, r := range rows {
		t.TotalTickets += r.TotalTickets
		t.TotalPieces += r.TotalPieces
	}
	return t
}

func paginate(total, page, pageSize int) Pagination {
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return Pagination{Page: page, PageSize: pageSize, TotalItems: total, TotalPages: pages}
}

func pageOf(rows []AggregateRow, page, pageSize int) []AggregateRow {
	start := (page - 1) * pageSize
	if start >= len(rows) {
		return []AggregateRow{}
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

func groupTitle(g GroupBy) string {
	switch g {
	case GroupByDrawType:
		return "Draw Type"
	case GroupByUser:
		return "Seller"
	default:
		return "Zone"
	}
}
