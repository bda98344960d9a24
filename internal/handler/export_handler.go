package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/dto"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
	"github.com/noah-isme/sma-timetable/pkg/middleware/requestid"
	"github.com/noah-isme/sma-timetable/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type analysisExporter interface {
	RequestAnalysis(ctx context.Context, req dto.AnalysisExportRequest) (*dto.ExportJobResponse, error)
	Status(ctx context.Context, id string) (*dto.ExportStatusResponse, error)
	Download(ctx context.Context, token string) (string, []byte, error)
}

// ExportHandler exposes asynchronous analysis exports.
type ExportHandler struct {
	exports analysisExporter
	logger  *zap.Logger
}

// NewExportHandler constructs the handler.
func NewExportHandler(exports analysisExporter, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{exports: exports, logger: logger}
}

// RequestAnalysis godoc
// @Summary Build the analysis workbook in the background
// @Tags Exports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.AnalysisExportRequest false "Overlap threshold"
// @Success 202 {object} response.Envelope
// @Router /exports/analysis [post]
func (h *ExportHandler) RequestAnalysis(c *gin.Context) {
	var req dto.AnalysisExportRequest
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
			return
		}
	}
	job, err := h.exports.RequestAnalysis(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.logger.Info("analysis export requested",
		zap.String("actor", actor(c)),
		zap.String("request_id", requestid.Value(c)),
		zap.String("job_id", job.ID))
	response.Accepted(c, job)
}

// Status godoc
// @Summary Export job status
// @Tags Exports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /exports/{id} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	status, err := h.exports.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Download godoc
// @Summary Download a finished export
// @Tags Exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param token query string true "Signed token"
// @Success 200 {file} file
// @Router /exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token required"))
		return
	}
	name, body, err := h.exports.Download(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, name, xlsxContentType, body)
}
