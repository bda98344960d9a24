package handler

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/internal/service"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

type analysisExporterMock struct {
	lastReq   dto.AnalysisExportRequest
	requested bool
	err       error
}

func (m *analysisExporterMock) RequestAnalysis(_ context.Context, req dto.AnalysisExportRequest) (*dto.ExportJobResponse, error) {
	m.requested = true
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &dto.ExportJobResponse{ID: "job-1", Type: "analysis", Status: "pending"}, nil
}

func (m *analysisExporterMock) Status(_ context.Context, id string) (*dto.ExportStatusResponse, error) {
	if id != "job-1" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	return &dto.ExportStatusResponse{ID: id, Status: "done"}, nil
}

func (m *analysisExporterMock) Download(_ context.Context, token string) (string, []byte, error) {
	if token != "good" {
		return "", nil, appErrors.ErrUnauthorized
	}
	return "analysis.xlsx", []byte("xlsx"), nil
}

func TestExportHandlerRequestAnalysis(t *testing.T) {
	mock := &analysisExporterMock{}
	h := NewExportHandler(mock, nil)

	c, w := newGinContext(http.MethodPost, "/exports/analysis")
	c.Request.Body = nopBody(`{"threshold":20}`)
	c.Request.Header.Set("Content-Type", "application/json")
	h.RequestAnalysis(c)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 20, mock.lastReq.Threshold)

	c, w = newGinContext(http.MethodPost, "/exports/analysis")
	c.Request.Header.Set("Content-Type", "application/json")
	h.RequestAnalysis(c)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Zero(t, mock.lastReq.Threshold)

	mock.requested = false
	c, w = newGinContext(http.MethodPost, "/exports/analysis")
	c.Request.Body = nopBody(`{"threshold":`)
	c.Request.Header.Set("Content-Type", "application/json")
	h.RequestAnalysis(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mock.requested)
}

func TestExportHandlerDisabled(t *testing.T) {
	h := NewExportHandler(&analysisExporterMock{err: appErrors.ErrExportsDisabled}, nil)
	c, w := newGinContext(http.MethodPost, "/exports/analysis")
	h.RequestAnalysis(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportHandlerStatusAndDownload(t *testing.T) {
	h := NewExportHandler(&analysisExporterMock{}, nil)

	c, w := newGinContext(http.MethodGet, "/exports/job-1")
	c.Params = append(c.Params, ginParam("id", "job-1"))
	h.Status(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newGinContext(http.MethodGet, "/exports/missing")
	c.Params = append(c.Params, ginParam("id", "missing"))
	h.Status(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = newGinContext(http.MethodGet, "/exports/download")
	h.Download(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newGinContext(http.MethodGet, "/exports/download?token=bad")
	h.Download(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, w = newGinContext(http.MethodGet, "/exports/download?token=good")
	h.Download(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, "xlsx", w.Body.String())
}

func TestMetricsHandlerReady(t *testing.T) {
	loaded := false
	checks := map[string]ReadinessCheck{"redis": func(context.Context) error { return nil }}
	h := NewMetricsHandler(service.NewMetricsService(), func() bool { return loaded }, checks)

	c, w := newGinContext(http.MethodGet, "/ready")
	h.Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "not loaded")

	loaded = true
	c, w = newGinContext(http.MethodGet, "/ready")
	h.Ready(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newGinContext(http.MethodGet, "/health")
	h.Health(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.RecordExportJob("analysis", "done")
	h := NewMetricsHandler(metrics, nil, nil)

	c, w := newGinContext(http.MethodGet, "/metrics")
	h.Prometheus(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.Contains(w.Body.Bytes(), []byte("timetable_export_jobs_total")))
}
