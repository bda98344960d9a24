package service

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/sma-timetable/internal/domain/timetable"
	"github.com/noah-isme/sma-timetable/internal/dto"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
	"github.com/noah-isme/sma-timetable/pkg/storage"
)

func newTestExportService(t *testing.T, enabled bool) *ExportService {
	t.Helper()
	overlap, roster := newTestOverlapService(t, nil)
	_, err := roster.Reload(context.Background())
	require.NoError(t, err)

	cfg := ExportServiceConfig{
		TermStart:    time.Date(2023, time.August, 14, 0, 0, 0, 0, time.UTC),
		TermEnd:      time.Date(2023, time.August, 28, 0, 0, 0, 0, time.UTC),
		Location:     time.UTC,
		Enabled:      enabled,
		Workers:      1,
		DownloadPath: "/api/v1/exports/download",
	}
	var store exportStorage
	var signer *storage.SignedURLSigner
	if enabled {
		local, err := storage.NewLocalStorage(t.TempDir())
		require.NoError(t, err)
		store = local
		signer = storage.NewSignedURLSigner("test-secret", time.Hour)
	}
	svc := NewExportService(roster, overlap, nil, store, signer, NewMetricsService(), cfg, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)
	t.Cleanup(func() {
		cancel()
		svc.Stop()
	})
	return svc
}

func TestExportCalendarDataset(t *testing.T) {
	svc := newTestExportService(t, false)
	student, err := svc.roster.Student("20105")
	require.NoError(t, err)

	data := svc.CalendarDataset(student)
	assert.Equal(t, calendarHeaders, data.Headers)
	// Two Monday periods, each recurring on 08/14 and 08/21.
	require.Len(t, data.Rows, 4)
	assert.Equal(t, []string{"물리학", "08/14/2023", "08:50 AM", "08/14/2023", "09:40 AM", "False", "1분반", "과학관 201"}, data.Rows[0])
	assert.Equal(t, "08/21/2023", data.Rows[1][1])
	assert.Equal(t, "09:50 AM", data.Rows[2][2])

	other, err := svc.roster.Student("20207")
	require.NoError(t, err)
	rows := svc.CalendarDataset(other).Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "08/15/2023", rows[0][1])
	assert.Equal(t, "11:50 AM", rows[0][2])

	name, body, err := svc.Calendar(context.Background(), "20105")
	require.NoError(t, err)
	assert.Equal(t, "20105_김철수.csv", name)
	assert.True(t, strings.HasPrefix(string(body), "Subject,Start Date"))
}

func TestFirstWeekday(t *testing.T) {
	wednesday := time.Date(2023, time.August, 16, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 21, firstWeekday(wednesday, timetable.Monday).Day())
	assert.Equal(t, 16, firstWeekday(wednesday, timetable.Wednesday).Day())
	assert.Equal(t, 18, firstWeekday(wednesday, timetable.Friday).Day())
}

func TestExportTimetableGridAndPDF(t *testing.T) {
	svc := newTestExportService(t, false)
	student, err := svc.roster.Student("20105")
	require.NoError(t, err)

	grid := TimetableGrid(student)
	assert.Len(t, grid.Columns, timetable.DayCount)
	assert.Len(t, grid.RowLabels, timetable.MaxPeriod)
	require.Len(t, grid.Blocks, 1)
	assert.Equal(t, 0, grid.Blocks[0].Row)
	assert.Equal(t, 2, grid.Blocks[0].Span)
	assert.Equal(t, []string{"물리학", "김교사T", "과학관 201", "1분반"}, grid.Blocks[0].Lines)

	name, body, err := svc.TimetablePDF(context.Background(), "20105")
	require.NoError(t, err)
	assert.Equal(t, "20105_김철수.pdf", name)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestExportAnalysisWorkbook(t *testing.T) {
	svc := newTestExportService(t, false)

	body, err := svc.AnalysisWorkbook(context.Background(), 2)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{sheetSections, sheetOverlaps}, f.GetSheetList())

	title, err := f.GetCellValue(sheetSections, "A1")
	require.NoError(t, err)
	assert.Equal(t, "물리학", title)
	header, err := f.GetCellValue(sheetSections, "A2")
	require.NoError(t, err)
	assert.Equal(t, "1반", header)
	names, err := f.GetCols(sheetSections)
	require.NoError(t, err)
	assert.Equal(t, []string{"물리학", "1반", "김철수", "이영희"}, names[0])

	hours, err := f.GetCellValue(sheetOverlaps, "A1")
	require.NoError(t, err)
	assert.Equal(t, "2시수", hours)
	pair, err := f.GetCellValue(sheetOverlaps, "B1")
	require.NoError(t, err)
	assert.Equal(t, "김철수 & 이영희", pair)
}

func TestExportAsyncAnalysisDownload(t *testing.T) {
	svc := newTestExportService(t, true)
	ctx := context.Background()

	job, err := svc.RequestAnalysis(ctx, dto.AnalysisExportRequest{Threshold: 2})
	require.NoError(t, err)

	var status *dto.ExportStatusResponse
	require.Eventually(t, func() bool {
		status, err = svc.Status(ctx, job.ID)
		return err == nil && status.Status == "done"
	}, 5*time.Second, 20*time.Millisecond)
	require.NotEmpty(t, status.DownloadURL)
	require.NotNil(t, status.ExpiresAt)

	parsed, err := url.Parse(status.DownloadURL)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/exports/download", parsed.Path)

	name, body, err := svc.Download(ctx, parsed.Query().Get("token"))
	require.NoError(t, err)
	assert.Equal(t, job.ID+".xlsx", name)
	assert.NotEmpty(t, body)

	_, _, err = svc.Download(ctx, "bogus")
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

	_, err = svc.Status(ctx, "missing")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportAsyncDisabled(t *testing.T) {
	svc := newTestExportService(t, false)
	_, err := svc.RequestAnalysis(context.Background(), dto.AnalysisExportRequest{})
	assert.ErrorIs(t, err, appErrors.ErrExportsDisabled)
	_, _, err = svc.Download(context.Background(), "x")
	assert.ErrorIs(t, err, appErrors.ErrExportsDisabled)
}
