package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/pkg/response"
)

type overlapReporter interface {
	Report(ctx context.Context, q dto.OverlapQuery) (*dto.OverlapReportResponse, error)
}

// OverlapHandler exposes the pairwise overlap report.
type OverlapHandler struct {
	overlaps overlapReporter
}

// NewOverlapHandler constructs the handler.
func NewOverlapHandler(overlaps overlapReporter) *OverlapHandler {
	return &OverlapHandler{overlaps: overlaps}
}

// Report godoc
// @Summary Pairs of students sharing many credit hours
// @Tags Overlaps
// @Produce json
// @Param threshold query int false "Minimum shared credit hours"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /overlaps [get]
func (h *OverlapHandler) Report(c *gin.Context) {
	var q dto.OverlapQuery
	if err := bindQuery(c, &q); err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.overlaps.Report(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil, map[string]interface{}{"pairCount": report.PairCount})
}
