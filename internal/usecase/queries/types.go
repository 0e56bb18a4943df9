package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type TicketItemView struct {
	Number string `json:"number"`
	Pieces int32  `json:"pieces"`
}

type TicketView struct {
	ID           uuid.UUID        `json:"id"`
	UserID       uuid.UUID        `json:"user_id"`
	Username     string           `json:"username"`
	ZoneID       int64            `json:"zone_id"`
	ZoneName     string           `json:"zone_name"`
	DrawTypeID   int64            `json:"draw_type_id"`
	DrawTypeName string           `json:"draw_type_name"`
	TotalPieces  int32            `json:"total_pieces"`
	Items        []TicketItemView `json:"items"`
	CreatedAt    time.Time        `json:"created_at"`
}

type GroupBy string

const (
	GroupByZone     GroupBy = "zone"
	GroupByDrawType GroupBy = "draw_type"
	GroupByUser     GroupBy = "user"
)

func (g GroupBy) IsValid() bool {
	switch g {
	case GroupByZone, GroupByDrawType, GroupByUser:
		return true
	default:
		return false
	}
}

// AggregateRow is one grouped reporting result: the group label plus the
// ticket count and piece sum over the filtered population.
type AggregateRow struct {
	Group        string `json:"group"`
	TotalTickets int64  `json:"total_tickets"`
	TotalPieces  int64  `json:"total_pieces"`
}

type DailyRow struct {
	Date         string `json:"date"`
	TotalTickets int64  `json:"total_tickets"`
	TotalPieces  int64  `json:"total_pieces"`
}

type Totals struct {
	TotalTickets int64 `json:"total_tickets"`
	TotalPieces  int64 `json:"total_pieces"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

type ReportPayload struct {
	Summary    []AggregateRow `json:"summary"`
	Totals     Totals         `json:"totals"`
	Pagination Pagination     `json:"pagination"`
	Daily      []DailyRow     `json:"daily,omitempty"`
}

// ReportParams selects and shapes one summary report. Start/End are
// inclusive sales-day dates; nil means open-ended. Empty id slices mean
// "all". ForceRefresh bypasses the cache read (the result is still stored).
type ReportParams struct {
	Start        *time.Time
	End          *time.Time
	ZoneIDs      []int64
	DrawTypeIDs  []int64
	UserIDs      []uuid.UUID
	GroupBy      GroupBy
	Daily        bool
	Page         int
	PageSize     int
	ForceRefresh bool
}

const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// Normalize clamps pagination to the supported range.
func (p ReportParams) Normalize() ReportParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// ExportColumn describes one column of the finalized export row sequence,
// enough for an external renderer to produce CSV/Excel/PDF without
// re-querying core state.
type ExportColumn struct {
	Key   string
	Title string
}

type ExportRow []string

type Export struct {
	Columns []ExportColumn
	Rows    []ExportRow
}
