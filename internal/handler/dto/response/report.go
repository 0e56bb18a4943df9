package response

import (
	"lottery-sales/internal/usecase/queries"
)

type SummaryReportResponse struct {
	Summary    []queries.AggregateRow `json:"summary"`
	Totals     queries.Totals         `json:"totals"`
	Pagination queries.Pagination     `json:"pagination"`
	Daily      []queries.DailyRow     `json:"daily,omitempty"`
}

func FromReportPayload(p *queries.ReportPayload) *SummaryReportResponse {
	return &SummaryReportResponse{
		Summary:    p.Summary,
		Totals:     p.Totals,
		Pagination: p.Pagination,
		Daily:      p.Daily,
	}
}

type CacheClearResponse struct {
	Deleted int64 `json:"deleted"`
}
