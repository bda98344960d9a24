package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/pkg/response"
)

type timetableService interface {
	List(ctx context.Context, q dto.StudentListQuery) ([]dto.StudentSummary, *response.Pagination, error)
	Student(ctx context.Context, key string) (*dto.StudentResponse, error)
	View(ctx context.Context, key string, q dto.TimetableQuery) (*dto.TimetableResponse, error)
	Blocks(ctx context.Context, key string, q dto.TimetableQuery, includeGaps bool) ([]dto.DayBlocksResponse, error)
}

type rankingService interface {
	Rankings(ctx context.Context, key string, q dto.RankingQuery) (*dto.RankingResponse, error)
}

type studentFileExporter interface {
	Calendar(ctx context.Context, key string) (string, []byte, error)
	TimetablePDF(ctx context.Context, key string) (string, []byte, error)
}

// StudentHandler exposes per-student timetable endpoints.
type StudentHandler struct {
	timetables timetableService
	rankings   rankingService
	files      studentFileExporter
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(timetables timetableService, rankings rankingService, files studentFileExporter) *StudentHandler {
	return &StudentHandler{timetables: timetables, rankings: rankings, files: files}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	var q dto.StudentListQuery
	if err := bindQuery(c, &q); err != nil {
		response.Error(c, err)
		return
	}
	rows, page, err := h.timetables.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, page)
}

// Get godoc
// @Summary Get a student
// @Description key is a student id, a name, or "<id> <name>"
// @Tags Students
// @Produce json
// @Param key path string true "Student key"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{key} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.timetables.Student(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Timetable godoc
// @Summary Student timetable view
// @Tags Students
// @Produce json
// @Param key path string true "Student key"
// @Param day query string false "Day alias"
// @Param period query int false "Period"
// @Param from query string false "First day"
// @Param to query string false "Last day"
// @Param periodFrom query int false "First period"
// @Param periodTo query int false "Last period"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students/{key}/timetable [get]
func (h *StudentHandler) Timetable(c *gin.Context) {
	var q dto.TimetableQuery
	if err := bindQuery(c, &q); err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.timetables.View(c.Request.Context(), c.Param("key"), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Blocks godoc
// @Summary Student timetable blocks
// @Tags Students
// @Produce json
// @Param key path string true "Student key"
// @Param day query string false "Day alias"
// @Param gaps query bool false "Include free periods"
// @Success 200 {object} response.Envelope
// @Router /students/{key}/blocks [get]
func (h *StudentHandler) Blocks(c *gin.Context) {
	var q dto.TimetableQuery
	if err := bindQuery(c, &q); err != nil {
		response.Error(c, err)
		return
	}
	gaps, _ := strconv.ParseBool(c.Query("gaps"))
	days, err := h.timetables.Blocks(c.Request.Context(), c.Param("key"), q, gaps)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, days, nil)
}

// Rankings godoc
// @Summary Students sharing the most credit hours
// @Tags Overlaps
// @Produce json
// @Param key path string true "Student key"
// @Param top query int false "Number of entries"
// @Success 200 {object} response.Envelope
// @Router /students/{key}/rankings [get]
func (h *StudentHandler) Rankings(c *gin.Context) {
	var q dto.RankingQuery
	if err := bindQuery(c, &q); err != nil {
		response.Error(c, err)
		return
	}
	ranking, err := h.rankings.Rankings(c.Request.Context(), c.Param("key"), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ranking, nil)
}

// Calendar godoc
// @Summary Google Calendar import file
// @Tags Exports
// @Produce text/csv
// @Param key path string true "Student key"
// @Success 200 {file} file
// @Router /students/{key}/calendar.csv [get]
func (h *StudentHandler) Calendar(c *gin.Context) {
	name, body, err := h.files.Calendar(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, name, "text/csv; charset=utf-8", body)
}

// PDF godoc
// @Summary Printable weekly timetable
// @Tags Exports
// @Produce application/pdf
// @Param key path string true "Student key"
// @Success 200 {file} file
// @Router /students/{key}/timetable.pdf [get]
func (h *StudentHandler) PDF(c *gin.Context) {
	name, body, err := h.files.TimetablePDF(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, name, "application/pdf", body)
}
