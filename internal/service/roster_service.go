package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/domain/timetable"
	"github.com/noah-isme/sma-timetable/internal/models"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

// WorkbookReader reads one worksheet as ragged rows.
type WorkbookReader interface {
	ReadSheet(ctx context.Context, path, sheet string) (string, [][]string, error)
}

// RosterStore persists resolved rosters.
type RosterStore interface {
	SaveSnapshot(ctx context.Context, snapshot *models.RosterSnapshot, students []models.RosterStudent, cells []models.RosterCell) error
	ListSnapshots(ctx context.Context, limit int) ([]models.RosterSnapshot, error)
	StudentCells(ctx context.Context, snapshotID string, studentID int) ([]models.RosterCell, error)
}

// RosterSources locates the three workbooks a roster is built from.
type RosterSources struct {
	GridPath          string
	GridSheet         string
	ClassroomPath     string
	ClassroomSheet    string
	MultiTeacherPath  string
	MultiTeacherSheet string
}

// LoadedRoster is an immutable resolved roster with its load metadata.
type LoadedRoster struct {
	ID       string
	Grade    int
	Digest   string
	LoadedAt time.Time
	Roster   *timetable.Roster
}

// SwapListener is notified after a new roster replaced the previous one.
// previous is nil on the first load.
type SwapListener func(ctx context.Context, previous *LoadedRoster, next LoadedRoster)

// RosterService holds the current roster and rebuilds it from the workbooks.
// Readers see either the previous roster or the new one, never a partial load.
type RosterService struct {
	sources  RosterSources
	grade    int
	reader   WorkbookReader
	resolver *ScheduleResolver
	store    RosterStore
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time

	reloadMu  sync.Mutex
	mu        sync.RWMutex
	current   *LoadedRoster
	listeners []SwapListener
}

// NewRosterService constructs the holder. store may be nil to disable persistence.
func NewRosterService(sources RosterSources, resolver *ScheduleResolver, reader WorkbookReader, store RosterStore, metrics *MetricsService, logger *zap.Logger) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{
		sources:  sources,
		grade:    resolver.cfg.Grade,
		reader:   reader,
		resolver: resolver,
		store:    store,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// OnSwap registers a listener run after every successful reload.
func (s *RosterService) OnSwap(fn SwapListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// ReadSources reads the three configured worksheets.
func (s *RosterService) ReadSources(ctx context.Context) (SourceTables, error) {
	var tables SourceTables
	reads := []struct {
		path, sheet string
		dest        *SourceTable
	}{
		{s.sources.GridPath, s.sources.GridSheet, &tables.Grid},
		{s.sources.ClassroomPath, s.sources.ClassroomSheet, &tables.Classrooms},
		{s.sources.MultiTeacherPath, s.sources.MultiTeacherSheet, &tables.MultiTeacher},
	}
	for _, r := range reads {
		name, rows, err := s.reader.ReadSheet(ctx, r.path, r.sheet)
		if err != nil {
			return SourceTables{}, err
		}
		*r.dest = SourceTable{Name: name, Rows: rows}
	}
	return tables, nil
}

// Reload reads the workbooks and installs the resolved roster.
func (s *RosterService) Reload(ctx context.Context) (LoadedRoster, error) {
	started := s.now()
	tables, err := s.ReadSources(ctx)
	if err != nil {
		s.metrics.ObserveRosterLoad(0, s.now().Sub(started), err)
		return LoadedRoster{}, err
	}
	return s.install(ctx, tables, started)
}

// Install resolves already-read tables and swaps them in.
func (s *RosterService) Install(ctx context.Context, tables SourceTables) (LoadedRoster, error) {
	return s.install(ctx, tables, s.now())
}

func (s *RosterService) install(ctx context.Context, tables SourceTables, started time.Time) (LoadedRoster, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	roster, err := s.resolver.Resolve(ctx, tables)
	if err != nil {
		s.metrics.ObserveRosterLoad(0, s.now().Sub(started), err)
		s.logger.Error("roster load failed", zap.Error(err))
		return LoadedRoster{}, err
	}

	loaded := LoadedRoster{
		ID:       uuid.NewString(),
		Grade:    s.grade,
		Digest:   tables.Digest(),
		LoadedAt: s.now().UTC(),
		Roster:   roster,
	}

	if s.store != nil {
		if err := s.persist(ctx, loaded); err != nil {
			s.logger.Warn("roster snapshot not persisted", zap.String("load_id", loaded.ID), zap.Error(err))
		}
	}

	s.mu.Lock()
	previous := s.current
	s.current = &loaded
	listeners := append([]SwapListener(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(ctx, previous, loaded)
	}

	s.metrics.ObserveRosterLoad(roster.Len(), s.now().Sub(started), nil)
	s.logger.Info("roster installed",
		zap.String("load_id", loaded.ID),
		zap.Int("students", roster.Len()),
		zap.String("digest", loaded.Digest))
	return loaded, nil
}

func (s *RosterService) persist(ctx context.Context, loaded LoadedRoster) error {
	students := loaded.Roster.Students()
	snapshot := &models.RosterSnapshot{
		ID:           loaded.ID,
		Grade:        loaded.Grade,
		StudentCount: len(students),
		SourceDigest: loaded.Digest,
		CreatedAt:    loaded.LoadedAt,
	}
	rows := make([]models.RosterStudent, 0, len(students))
	var cells []models.RosterCell
	for _, st := range students {
		rows = append(rows, models.RosterStudent{StudentID: st.ID, Name: st.Name, CreditHours: st.Classes.CreditHours()})
		for _, c := range st.Timetable.Occupied() {
			cells = append(cells, models.RosterCell{
				StudentID:   st.ID,
				Day:         c.Day.Index(),
				Period:      int(c.Period),
				Subject:     c.Class.Subject.Name,
				Section:     c.Class.Subject.Section,
				CreditHours: c.Class.Subject.CreditHours,
				Teacher:     c.Class.Teacher.Name,
				Classroom:   c.Class.Teacher.Classroom,
			})
		}
	}
	return s.store.SaveSnapshot(ctx, snapshot, rows, cells)
}

// Current returns the installed roster or ErrRosterNotLoaded.
func (s *RosterService) Current() (LoadedRoster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return LoadedRoster{}, appErrors.ErrRosterNotLoaded
	}
	return *s.current, nil
}

// Student looks a student up by id, name or "<id> <name>".
func (s *RosterService) Student(query string) (timetable.Student, error) {
	loaded, err := s.Current()
	if err != nil {
		return timetable.Student{}, err
	}
	student, ok := loaded.Roster.Lookup(query)
	if !ok {
		return timetable.Student{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %q not found", query))
	}
	return student, nil
}

// List pages through students in id order. It returns the page and the total count.
func (s *RosterService) List(page, size int) ([]timetable.Student, int, error) {
	loaded, err := s.Current()
	if err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	total := loaded.Roster.Len()
	lo := (page - 1) * size
	return loaded.Roster.Slice(lo, lo+size).Students(), total, nil
}

// Snapshots lists persisted roster loads newest first.
func (s *RosterService) Snapshots(ctx context.Context, limit int) ([]models.RosterSnapshot, error) {
	if s.store == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "roster persistence is disabled")
	}
	return s.store.ListSnapshots(ctx, limit)
}

// SnapshotCells returns the persisted cells of one student in a past load.
func (s *RosterService) SnapshotCells(ctx context.Context, snapshotID string, studentID int) ([]models.RosterCell, error) {
	if s.store == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "roster persistence is disabled")
	}
	cells, err := s.store.StudentCells(ctx, snapshotID, studentID)
	if err != nil {
		return nil, err
	}
	if len(cells) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no cells stored for student in snapshot")
	}
	return cells, nil
}

// Ready reports whether a roster is installed.
func (s *RosterService) Ready() bool {
	_, err := s.Current()
	return !errors.Is(err, appErrors.ErrRosterNotLoaded)
}
