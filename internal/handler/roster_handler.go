package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/internal/models"
	"github.com/noah-isme/sma-timetable/internal/service"
	"github.com/noah-isme/sma-timetable/pkg/middleware/requestid"
	"github.com/noah-isme/sma-timetable/pkg/response"
)

type rosterManager interface {
	Current() (service.LoadedRoster, error)
	Reload(ctx context.Context) (service.LoadedRoster, error)
	Snapshots(ctx context.Context, limit int) ([]models.RosterSnapshot, error)
	SnapshotCells(ctx context.Context, snapshotID string, studentID int) ([]models.RosterCell, error)
}

// RosterHandler exposes roster status and reload endpoints.
type RosterHandler struct {
	roster rosterManager
	logger *zap.Logger
}

// NewRosterHandler constructs the handler.
func NewRosterHandler(roster rosterManager, logger *zap.Logger) *RosterHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterHandler{roster: roster, logger: logger}
}

func rosterStatus(loaded service.LoadedRoster) dto.RosterStatusResponse {
	return dto.RosterStatusResponse{
		LoadID:   loaded.ID,
		Grade:    loaded.Grade,
		Students: loaded.Roster.Len(),
		Digest:   loaded.Digest,
		LoadedAt: loaded.LoadedAt,
	}
}

// Status godoc
// @Summary Installed roster
// @Tags Roster
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /roster [get]
func (h *RosterHandler) Status(c *gin.Context) {
	loaded, err := h.roster.Current()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rosterStatus(loaded), nil)
}

// Reload godoc
// @Summary Re-read the source workbooks
// @Tags Roster
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /roster/reload [post]
func (h *RosterHandler) Reload(c *gin.Context) {
	loaded, err := h.roster.Reload(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	h.logger.Info("roster reloaded",
		zap.String("actor", actor(c)),
		zap.String("request_id", requestid.Value(c)),
		zap.String("load_id", loaded.ID))
	response.JSON(c, http.StatusOK, rosterStatus(loaded), nil)
}

// Snapshots godoc
// @Summary Persisted roster loads
// @Tags Roster
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum rows"
// @Success 200 {object} response.Envelope
// @Router /roster/snapshots [get]
func (h *RosterHandler) Snapshots(c *gin.Context) {
	var q struct {
		Limit int `form:"limit"`
	}
	if err := bindQuery(c, &q); err != nil {
		response.Error(c, err)
		return
	}
	snapshots, err := h.roster.Snapshots(c.Request.Context(), q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshots, nil)
}

// SnapshotCells godoc
// @Summary Persisted timetable of one student in a past load
// @Tags Roster
// @Produce json
// @Security BearerAuth
// @Param id path string true "Snapshot ID"
// @Param studentId path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /roster/snapshots/{id}/students/{studentId} [get]
func (h *RosterHandler) SnapshotCells(c *gin.Context) {
	studentID, err := intParam(c, "studentId")
	if err != nil {
		response.Error(c, err)
		return
	}
	cells, err := h.roster.SnapshotCells(c.Request.Context(), c.Param("id"), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cells, nil)
}
