package request

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"lottery-sales/internal/usecase/queries"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidDate      = errors.New("dates must be formatted YYYY-MM-DD")
	ErrInvertedRange    = errors.New("start date must not be after end date")
	ErrInvalidGroupBy   = errors.New("group_by must be zone, draw_type or user")
	ErrInvalidUserID    = errors.New("user ids must be valid UUIDs")
	ErrInvalidExportFmt = errors.New("format must be csv")
)

type SummaryReportRequest struct {
	Start       string   `form:"start"`
	End         string   `form:"end"`
	ZoneIDs     []int64  `form:"zone_id"`
	DrawTypeIDs []int64  `form:"draw_type_id"`
	UserIDs     []string `form:"user_id"`
	GroupBy     string   `form:"group_by,default=zone"`
	Daily       bool     `form:"daily"`
	Page        int      `form:"page,default=1"`
	PageSize    int      `form:"page_size"`
	Refresh     bool     `form:"refresh"`
	Format      string   `form:"format"`
}

func (r SummaryReportRequest) ToParams() (queries.ReportParams, error) {
	p := queries.ReportParams{
		ZoneIDs:      r.ZoneIDs,
		DrawTypeIDs:  r.DrawTypeIDs,
		GroupBy:      queries.GroupBy(r.GroupBy),
		Daily:        r.Daily,
		Page:         r.Page,
		PageSize:     r.PageSize,
		ForceRefresh: r.Refresh,
	}
	if !p.GroupBy.IsValid() {
		return queries.ReportParams{}, ErrInvalidGroupBy
	}

	if r.Start != "" {
		start, err := time.Parse(dateLayout, r.Start)
		if err != nil {
			return queries.ReportParams{}, ErrInvalidDate
		}
		p.Start = &start
	}
	if r.End != "" {
		end, err := time.Parse(dateLayout, r.End)
		if err != nil {
			return queries.ReportParams{}, ErrInvalidDate
		}
		p.End = &end
	}
	if p.Start != nil && p.End != nil && p.Start.After(*p.End) {
		return queries.ReportParams{}, ErrInvertedRange
	}

	for _, raw := range r.UserIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return queries.ReportParams{}, ErrInvalidUserID
		}
		p.UserIDs = append(p.UserIDs, id)
	}

	if r.Format != "" && r.Format != "csv" {
		return queries.ReportParams{}, ErrInvalidExportFmt
	}

	return p, nil
}

func (r SummaryReportRequest) WantsCSV() bool {
	return r.Format == "csv"
}
