package api

import (
	"encoding/csv"
	"net/http"

	"github.com/gin-gonic/gin"

	reqdto "lottery-sales/internal/handler/dto/request"
	resdto "lottery-sales/internal/handler/dto/response"
	"lottery-sales/internal/handler/httperr"
	"lottery-sales/internal/usecase/queries"
)

type ReportHandler struct {
	reportQueries queries.ReportQueries
}

func NewReportHandler(reportQueries queries.ReportQueries) *ReportHandler {
	return &ReportHandler{reportQueries: reportQueries}
}

func (h *ReportHandler) GetSummary(c *gin.Context) {
	var req reqdto.SummaryReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, nil, "Invalid query parameters", nil)
		return
	}

	params, err := req.ToParams()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, nil, err.Error(), nil)
		return
	}

	if req.WantsCSV() {
		h.writeCSV(c, params)
		return
	}

	payload, err := h.reportQueries.Summary(c.Request.Context(), params)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to build summary", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReportPayload(payload))
}

func (h *ReportHandler) writeCSV(c *gin.Context, params queries.ReportParams) {
	export, err := h.reportQueries.ExportSummary(c.Request.Context(), params)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to build summary", nil)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="sales_summary.csv"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	header := make([]string, len(export.Columns))
	for i, col := range export.Columns {
		header[i] = col.Title
	}
	_ = w.Write(header)
	for _, row := range export.Rows {
		_ = w.Write(row)
	}
	w.Flush()
}

func (h *ReportHandler) ClearCache(c *gin.Context) {
	deleted, err := h.reportQueries.ClearCache(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to clear report cache", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.CacheClearResponse{Deleted: deleted})
}
