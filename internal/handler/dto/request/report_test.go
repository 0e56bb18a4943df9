//go:build unit

package request_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lottery-sales/internal/handler/dto/request"
	"lottery-sales/internal/usecase/queries"
)

func TestSummaryReportRequest_ToParams(t *testing.T) {
	t.Run("success: full parameter set", func(t *testing.T) {
		req := request.SummaryReportRequest{
			Start:       "2026-08-01",
			End:         "2026-08-29",
			ZoneIDs:     []int64{1, 2},
			GroupBy:     "draw_type",
			Daily:       true,
			Page:        2,
			PageSize:    25,
			Refresh:     true,
			UserIDs:     []string{"c6b9f6de-8a37-4077-9bfc-64e4d42692b5"},
			DrawTypeIDs: []int64{3},
		}
		p, err := req.ToParams()
		require.NoError(t, err)
		assert.Equal(t, queries.GroupByDrawType, p.GroupBy)
		require.NotNil(t, p.Start)
		require.NotNil(t, p.End)
		assert.True(t, p.Daily)
		assert.True(t, p.ForceRefresh)
		assert.Len(t, p.UserIDs, 1)
	})

	t.Run("error: malformed date", func(t *testing.T) {
		req := request.SummaryReportRequest{Start: "08/01/2026", GroupBy: "zone"}
		_, err := req.ToParams()
		assert.ErrorIs(t, err, request.ErrInvalidDate)
	})

	t.Run("error: inverted range", func(t *testing.T) {
		req := request.SummaryReportRequest{Start: "2026-08-29", End: "2026-08-01", GroupBy: "zone"}
		_, err := req.ToParams()
		assert.ErrorIs(t, err, request.ErrInvertedRange)
	})

	t.Run("error: unknown group_by", func(t *testing.T) {
		req := request.SummaryReportRequest{GroupBy: "region"}
		_, err := req.ToParams()
		assert.ErrorIs(t, err, request.ErrInvalidGroupBy)
	})

	t.Run("error: malformed user id", func(t *testing.T) {
		req := request.SummaryReportRequest{GroupBy: "user", UserIDs: []string{"not-a-uuid"}}
		_, err := req.ToParams()
		assert.ErrorIs(t, err, request.ErrInvalidUserID)
	})

	t.Run("error: unsupported export format", func(t *testing.T) {
		req := request.SummaryReportRequest{GroupBy: "zone", Format: "xlsx"}
		_, err := req.ToParams()
		assert.ErrorIs(t, err, request.ErrInvalidExportFmt)
	})
}
