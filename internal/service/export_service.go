package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/domain/timetable"
	"github.com/noah-isme/sma-timetable/internal/dto"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
	"github.com/noah-isme/sma-timetable/pkg/export"
	"github.com/noah-isme/sma-timetable/pkg/jobs"
	"github.com/noah-isme/sma-timetable/pkg/middleware/requestid"
	"github.com/noah-isme/sma-timetable/pkg/storage"
)

const (
	exportTypeAnalysis = "analysis"

	calendarDateLayout = "01/02/2006"
	calendarTimeLayout = "03:04 PM"

	sheetSections = "분반"
	sheetOverlaps = "중복"
)

var calendarHeaders = []string{"Subject", "Start Date", "Start Time", "End Date", "End Time", "All Day Event", "Description", "Location"}

type exportStorage interface {
	Save(name string, data []byte) (string, error)
	Read(name string) ([]byte, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportServiceConfig configures file exports.
type ExportServiceConfig struct {
	TermStart    time.Time
	TermEnd      time.Time
	Location     *time.Location
	Enabled      bool
	Workers      int
	Retries      int
	RetentionTTL time.Duration
	// DownloadPath is the route that serves signed downloads, e.g. /api/v1/exports/download.
	DownloadPath string
}

// ExportService renders calendar CSVs, timetable PDFs and the analysis
// workbook. The workbook is built in the background when requested over HTTP.
type ExportService struct {
	roster    rosterReader
	overlap   *OverlapService
	csv       *export.CSVExporter
	xlsx      *export.XLSXExporter
	pdf       *export.PDFExporter
	storage   exportStorage
	signer    *storage.SignedURLSigner
	queue     *jobs.Queue
	metrics   *MetricsService
	validator *validator.Validate
	cfg       ExportServiceConfig
	logger    *zap.Logger

	mu      sync.RWMutex
	results map[string]string
}

// NewExportService constructs the service. store and signer may be nil when exports are disabled.
func NewExportService(roster rosterReader, overlap *OverlapService, pdf *export.PDFExporter, store exportStorage, signer *storage.SignedURLSigner, metrics *MetricsService, cfg ExportServiceConfig, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if pdf == nil {
		pdf = export.NewPDFExporter("")
	}
	s := &ExportService{
		roster:    roster,
		overlap:   overlap,
		csv:       export.NewCSVExporter(),
		xlsx:      export.NewXLSXExporter(),
		pdf:       pdf,
		storage:   store,
		signer:    signer,
		metrics:   metrics,
		validator: validate,
		cfg:       cfg,
		logger:    logger,
		results:   make(map[string]string),
	}
	if cfg.Enabled && store != nil && signer != nil {
		s.queue = jobs.NewQueue("exports", s.process, jobs.QueueConfig{
			Workers:    cfg.Workers,
			MaxRetries: cfg.Retries,
			Logger:     logger,
		})
	}
	return s
}

// Start launches the export workers and the retention sweep.
func (s *ExportService) Start(ctx context.Context) {
	if s.queue == nil {
		return
	}
	s.queue.Start(ctx)
	if s.cfg.RetentionTTL <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(s.cfg.RetentionTTL)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := s.storage.CleanupOlderThan(s.cfg.RetentionTTL)
				if err != nil {
					s.logger.Warn("export cleanup failed", zap.Error(err))
					continue
				}
				if len(removed) > 0 {
					s.logger.Info("expired exports removed", zap.Int("files", len(removed)))
				}
			}
		}
	}()
}

// Stop waits for running export jobs to exit.
func (s *ExportService) Stop() {
	if s.queue != nil {
		s.queue.Stop()
	}
}

// CalendarDataset lists one weekly recurring event per occupied cell, from
// the first matching weekday on or after the term start while before the term end.
func (s *ExportService) CalendarDataset(student timetable.Student) export.Dataset {
	data := export.Dataset{Name: strconv.Itoa(student.ID) + " " + student.Name, Headers: calendarHeaders}
	for _, cell := range student.Timetable.Occupied() {
		first := firstWeekday(s.cfg.TermStart, cell.Day)
		for date := first; date.Before(s.cfg.TermEnd); date = date.AddDate(0, 0, 7) {
			start := cell.Period.Start().On(date, s.cfg.Location)
			end := start.Add(timetable.ClassLength)
			data.Rows = append(data.Rows, []string{
				cell.Class.Subject.Name,
				start.Format(calendarDateLayout),
				start.Format(calendarTimeLayout),
				end.Format(calendarDateLayout),
				end.Format(calendarTimeLayout),
				"False",
				fmt.Sprintf("%d분반", cell.Class.Subject.Section),
				cell.Class.Teacher.Classroom,
			})
		}
	}
	return data
}

// firstWeekday returns the first date on or after start falling on d.
func firstWeekday(start time.Time, d timetable.Day) time.Time {
	want := time.Weekday(d.Index() + 1)
	offset := (int(want) - int(start.Weekday()) + 7) % 7
	return start.AddDate(0, 0, offset)
}

// Calendar renders the Google Calendar import CSV for one student.
func (s *ExportService) Calendar(ctx context.Context, key string) (string, []byte, error) {
	student, err := s.roster.Student(key)
	if err != nil {
		return "", nil, err
	}
	body, err := s.csv.Render(s.CalendarDataset(student))
	if err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render calendar")
	}
	return fmt.Sprintf("%d_%s.csv", student.ID, student.Name), body, nil
}

// TimetableGrid lays out a student's blocks for the PDF renderer.
func TimetableGrid(student timetable.Student) export.Grid {
	grid := export.Grid{Title: student.String()}
	for _, d := range timetable.Days() {
		grid.Columns = append(grid.Columns, d.Name())
	}
	for _, p := range timetable.Periods() {
		grid.RowLabels = append(grid.RowLabels, fmt.Sprintf("%d교시 %s", p, p.Start()))
	}
	for _, d := range timetable.Days() {
		for _, b := range timetable.WithoutGaps(student.Timetable.Blocks(d)) {
			lines := []string{b.Class.Subject.Name}
			if b.Class.HasTeacher() {
				lines = append(lines, b.Class.Teacher.Name+"T", b.Class.Teacher.Classroom)
			}
			lines = append(lines, fmt.Sprintf("%d분반", b.Class.Subject.Section))
			grid.Blocks = append(grid.Blocks, export.GridBlock{
				Col:   d.Index(),
				Row:   int(b.Start) - 1,
				Span:  b.Length,
				Lines: lines,
				Fill:  b.Class.Subject.Category.Color().Base,
			})
		}
	}
	return grid
}

// TimetablePDF renders one student's weekly grid.
func (s *ExportService) TimetablePDF(ctx context.Context, key string) (string, []byte, error) {
	student, err := s.roster.Student(key)
	if err != nil {
		return "", nil, err
	}
	body, err := s.pdf.RenderGrid(TimetableGrid(student))
	if err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable pdf")
	}
	return fmt.Sprintf("%d_%s.pdf", student.ID, student.Name), body, nil
}

// AnalysisWorkbook builds the section and overlap sheets for the current roster.
func (s *ExportService) AnalysisWorkbook(ctx context.Context, threshold int) ([]byte, error) {
	loaded, err := s.roster.Current()
	if err != nil {
		return nil, err
	}
	if threshold <= 0 {
		threshold = s.overlap.cfg.Threshold
	}
	groups, err := s.overlap.Groups(ctx, loaded, threshold)
	if err != nil {
		return nil, err
	}
	body, err := s.xlsx.Render(SectionSheet(loaded.Roster), OverlapSheet(groups))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render analysis workbook")
	}
	return body, nil
}

// SectionSheet lists, per subject, the students of each section in the
// section's column under an "N반" header.
func SectionSheet(roster *timetable.Roster) export.Sheet {
	bySubject := make(map[string]map[int][]string)
	for _, st := range roster.Students() {
		for _, sub := range st.Classes.Subjects() {
			if bySubject[sub.Name] == nil {
				bySubject[sub.Name] = make(map[int][]string)
			}
			bySubject[sub.Name][sub.Section] = append(bySubject[sub.Name][sub.Section], st.Name)
		}
	}
	names := make([]string, 0, len(bySubject))
	for name := range bySubject {
		names = append(names, name)
	}
	sort.Strings(names)

	sheet := export.Sheet{Name: sheetSections}
	row := 1
	for _, name := range names {
		sheet.Cells = append(sheet.Cells, export.SheetCell{Row: row, Col: 1, Value: name, Bold: true})
		header := row + 1
		last := header
		for section, students := range bySubject[name] {
			col := max(section, 1)
			sheet.Cells = append(sheet.Cells, export.SheetCell{Row: header, Col: col, Value: fmt.Sprintf("%d반", section)})
			for i, student := range students {
				sheet.Cells = append(sheet.Cells, export.SheetCell{Row: header + i + 1, Col: col, Value: student})
			}
			last = max(last, header+len(students))
		}
		row = last + 2
	}
	return sheet
}

// OverlapSheet writes one row per hour count: the bold "N시수" label followed
// by "A & B" for every pair.
func OverlapSheet(groups []OverlapGroup) export.Sheet {
	sheet := export.Sheet{Name: sheetOverlaps, ColumnWidths: make(map[int]float64)}
	for r, g := range groups {
		sheet.Cells = append(sheet.Cells, export.SheetCell{Row: r + 1, Col: 1, Value: fmt.Sprintf("%d시수", g.Hours), Bold: true})
		for i, p := range g.Pairs {
			sheet.Cells = append(sheet.Cells, export.SheetCell{Row: r + 1, Col: i + 2, Value: p.A.Name + " & " + p.B.Name})
			sheet.ColumnWidths[i+2] = 15
		}
	}
	return sheet
}

// RequestAnalysis enqueues a background analysis workbook build.
func (s *ExportService) RequestAnalysis(ctx context.Context, req dto.AnalysisExportRequest) (*dto.ExportJobResponse, error) {
	if s.queue == nil {
		return nil, appErrors.ErrExportsDisabled
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if _, err := s.roster.Current(); err != nil {
		return nil, err
	}
	job := jobs.Job{ID: uuid.NewString(), Type: exportTypeAnalysis, Payload: req}
	if err := s.queue.Enqueue(job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export")
	}
	s.logger.Info("export queued",
		zap.String("job_id", job.ID),
		zap.String("type", job.Type),
		zap.String("request_id", requestid.FromContext(ctx)))
	return &dto.ExportJobResponse{ID: job.ID, Type: job.Type, Status: string(jobs.StatePending)}, nil
}

func (s *ExportService) process(ctx context.Context, job jobs.Job) error {
	req, ok := job.Payload.(dto.AnalysisExportRequest)
	if !ok {
		return fmt.Errorf("unexpected payload %T for export job", job.Payload)
	}
	body, err := s.AnalysisWorkbook(ctx, req.Threshold)
	if err != nil {
		s.metrics.RecordExportJob(job.Type, string(jobs.StateFailed))
		return err
	}
	name, err := s.storage.Save(path.Join(exportTypeAnalysis, job.ID+".xlsx"), body)
	if err != nil {
		s.metrics.RecordExportJob(job.Type, string(jobs.StateFailed))
		return err
	}
	s.mu.Lock()
	s.results[job.ID] = name
	s.mu.Unlock()
	s.metrics.RecordExportJob(job.Type, string(jobs.StateDone))
	return nil
}

// Status reports a job and, once finished, a signed download URL.
func (s *ExportService) Status(ctx context.Context, id string) (*dto.ExportStatusResponse, error) {
	if s.queue == nil {
		return nil, appErrors.ErrExportsDisabled
	}
	st, ok := s.queue.Status(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	out := &dto.ExportStatusResponse{
		ID:        st.ID,
		Type:      st.Type,
		Status:    string(st.State),
		Attempt:   st.Attempt,
		Error:     st.Error,
		UpdatedAt: st.UpdatedAt,
	}
	if st.State != jobs.StateDone {
		return out, nil
	}

	s.mu.RLock()
	name := s.results[id]
	s.mu.RUnlock()
	token, expiresAt, err := s.signer.Generate(id, name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download")
	}
	out.DownloadURL = s.cfg.DownloadPath + "?token=" + url.QueryEscape(token)
	out.ExpiresAt = &expiresAt
	return out, nil
}

// Download verifies a signed token and returns the stored file.
func (s *ExportService) Download(ctx context.Context, token string) (string, []byte, error) {
	if s.queue == nil {
		return "", nil, appErrors.ErrExportsDisabled
	}
	grant, err := s.signer.Parse(token, false)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrTokenExpired):
			return "", nil, appErrors.Clone(appErrors.ErrForbidden, "download link expired")
		default:
			return "", nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid download token")
		}
	}
	body, err := s.storage.Read(grant.Path)
	switch {
	case errors.Is(err, storage.ErrNotStored):
		return "", nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export file not found")
	case err != nil:
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export file")
	}
	return path.Base(grant.Path), body, nil
}
