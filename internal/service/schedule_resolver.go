package service

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/domain/timetable"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

const (
	colGrade   = "학년"
	colSubject = "과목"
	colCourse  = "교과"
	colTeacher = "교사명"
)

var gridCellPattern = regexp.MustCompile(`^(.+?)\s+(\d+)\s*반\s*\(\s*(\d+)\s*시간\s*\)$`)

// ResolverConfig describes the grid layout and the grade being loaded.
type ResolverConfig struct {
	// Grade filters the classroom and multi-teacher sheets; 0 disables filtering.
	Grade int
	// IDWidth is the number of leading digits in a student header.
	IDWidth int
	// Margin is the number of blank rows separating student blocks.
	Margin int
}

// ScheduleResolver reconciles the per-student grid with the classroom and
// multi-teacher sheets into a roster where every class has one teacher.
type ScheduleResolver struct {
	cfg    ResolverConfig
	logger *zap.Logger
}

// NewScheduleResolver builds a resolver, defaulting the grid layout.
func NewScheduleResolver(cfg ResolverConfig, logger *zap.Logger) *ScheduleResolver {
	if cfg.IDWidth <= 0 {
		cfg.IDWidth = 5
	}
	if cfg.Margin < 0 {
		cfg.Margin = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleResolver{cfg: cfg, logger: logger}
}

// Resolve builds the roster. Any malformed header or cell, or a slot whose
// teacher cannot be determined, fails the whole load.
func (r *ScheduleResolver) Resolve(ctx context.Context, tables SourceTables) (*timetable.Roster, error) {
	started := time.Now()

	classrooms, err := r.indexClassrooms(tables.Classrooms)
	if err != nil {
		return nil, wrapResolveError(err)
	}
	multi, err := r.indexMultiTeacher(tables.MultiTeacher)
	if err != nil {
		return nil, wrapResolveError(err)
	}

	load := &resolveRun{
		resolver:   r,
		grid:       tables.Grid,
		classrooms: classrooms,
		multi:      multi,
		warned:     make(map[string]struct{}),
	}

	roster := timetable.NewRoster()
	blockSize := 1 + timetable.MaxPeriod + r.cfg.Margin
	// Rows past the end of the sheet read as empty, which pads the final block.
	for start := 0; start < lastOccupiedRow(tables.Grid)+1; start += blockSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		student, err := load.student(start)
		if err != nil {
			return nil, wrapResolveError(err)
		}
		if replaced := roster.Upsert(student); replaced {
			r.logger.Warn("duplicate student id in grid, keeping the later block",
				zap.Int("student_id", student.ID), zap.Int("row", start+1))
		}
	}

	r.logger.Info("roster resolved",
		zap.Int("students", roster.Len()),
		zap.Int("grade", r.cfg.Grade),
		zap.Duration("took", time.Since(started)))
	return roster, nil
}

type resolveRun struct {
	resolver   *ScheduleResolver
	grid       SourceTable
	classrooms map[string][]timetable.Teacher
	multi      multiTeacherIndex
	warned     map[string]struct{}
}

func (l *resolveRun) student(start int) (timetable.Student, error) {
	id, name, err := l.resolver.parseHeader(start, l.grid.Cell(start, 0))
	if err != nil {
		return timetable.Student{}, err
	}

	tt := timetable.New()
	subjects := make([]timetable.Subject, 0, timetable.MaxPeriod)
	for _, period := range timetable.Periods() {
		row := start + int(period)
		for _, day := range timetable.Days() {
			value := l.grid.Cell(row, day.Index())
			if isEmptyMarker(value) {
				continue
			}
			subject, err := l.subject(row, day.Index(), value)
			if err != nil {
				return timetable.Student{}, err
			}
			teacher, err := l.teacher(subject, day, period)
			if err != nil {
				return timetable.Student{}, err
			}
			if err := tt.Put(day, period, timetable.NewClass(subject, teacher)); err != nil {
				return timetable.Student{}, err
			}
			subjects = append(subjects, subject)
		}
	}

	return timetable.Student{
		ID:        id,
		Name:      name,
		Timetable: tt,
		Classes:   timetable.NewClassSet(subjects...),
	}, nil
}

func (r *ScheduleResolver) parseHeader(row int, header string) (int, string, error) {
	malformed := &timetable.MalformedHeaderError{Row: row + 1, Header: header}
	if len(header) < r.cfg.IDWidth {
		return 0, "", malformed
	}
	prefix := header[:r.cfg.IDWidth]
	for _, c := range prefix {
		if c < '0' || c > '9' {
			return 0, "", malformed
		}
	}
	id, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, "", malformed
	}
	return id, strings.TrimSpace(header[r.cfg.IDWidth:]), nil
}

func (l *resolveRun) subject(row, col int, value string) (timetable.Subject, error) {
	malformed := func(reason string) error {
		return &timetable.MalformedCellError{
			Sheet:  l.grid.Name,
			Row:    row + 1,
			Column: col + 1,
			Value:  value,
			Reason: reason,
		}
	}
	m := gridCellPattern.FindStringSubmatch(value)
	if m == nil {
		return timetable.Subject{}, malformed(`expected "<subject> <n>반 (<h>시간)"`)
	}
	section, err := strconv.Atoi(m[2])
	if err != nil {
		return timetable.Subject{}, malformed("section number out of range")
	}
	hours, err := strconv.Atoi(m[3])
	if err != nil {
		return timetable.Subject{}, malformed("credit hours out of range")
	}
	name := strings.TrimSpace(m[1])

	teachers, ok := l.classrooms[normalizeSubjectName(name)]
	if !ok {
		if _, seen := l.warned[name]; !seen {
			l.warned[name] = struct{}{}
			l.resolver.logger.Warn("subject missing from classroom sheet",
				zap.String("subject", name), zap.Int("section", section), zap.Int("grade", l.resolver.cfg.Grade))
		}
	}
	return timetable.NewSubject(name, hours, section, teachers...), nil
}

func (l *resolveRun) teacher(subject timetable.Subject, day timetable.Day, period timetable.Period) (timetable.Teacher, error) {
	switch len(subject.Teachers) {
	case 0:
		return timetable.Teacher{}, &timetable.UnresolvedTeacherError{
			Subject: subject.Name, Section: subject.Section, Day: day, Period: period,
			Reason: "subject has no teachers in the classroom sheet",
		}
	case 1:
		return subject.Teachers[0], nil
	}
	return l.multi.resolve(subject, day, period)
}

// indexClassrooms maps normalized subject names to the teachers listed for
// the configured grade. Teacher/classroom pairs follow the 과목 column.
func (r *ScheduleResolver) indexClassrooms(sheet SourceTable) (map[string][]timetable.Teacher, error) {
	index := make(map[string][]timetable.Teacher)
	if len(sheet.Rows) == 0 {
		return index, nil
	}
	cols := headerIndex(sheet)
	subjectCol, ok := cols[colSubject]
	if !ok {
		return nil, &timetable.MalformedCellError{Sheet: sheet.Name, Row: 1, Reason: "missing column " + colSubject}
	}
	gradeCol, hasGrade := cols[colGrade]

	for row := 1; row < len(sheet.Rows); row++ {
		name := sheet.Cell(row, subjectCol)
		if name == "" {
			continue
		}
		if hasGrade && !r.gradeMatches(sheet.Cell(row, gradeCol)) {
			continue
		}
		key := normalizeSubjectName(name)
		for col := subjectCol + 1; col < len(sheet.Rows[row]); col += 2 {
			teacher := sheet.Cell(row, col)
			if teacher == "" {
				continue
			}
			index[key] = append(index[key], timetable.Teacher{Name: teacher, Classroom: sheet.Cell(row, col+1)})
		}
		if _, listed := index[key]; !listed {
			index[key] = nil
		}
	}
	return index, nil
}

func (r *ScheduleResolver) gradeMatches(value string) bool {
	if r.cfg.Grade == 0 {
		return true
	}
	grade, ok := leadingInt(value)
	return ok && grade == r.cfg.Grade
}

type multiTeacherRow struct {
	row     int
	teacher string
	cells   [timetable.DayCount]string
	columns [timetable.DayCount]int
}

type multiTeacherIndex struct {
	sheet string
	rows  map[string][]multiTeacherRow
}

// indexMultiTeacher groups the multi-teacher rows by course. 학년 and 교과 are
// merged cells in the source workbook, so blanks inherit the row above.
func (r *ScheduleResolver) indexMultiTeacher(sheet SourceTable) (multiTeacherIndex, error) {
	index := multiTeacherIndex{sheet: sheet.Name, rows: make(map[string][]multiTeacherRow)}
	if len(sheet.Rows) == 0 {
		return index, nil
	}

	cols := headerIndex(sheet)
	courseCol, ok := cols[colCourse]
	if !ok {
		return index, &timetable.MalformedCellError{Sheet: sheet.Name, Row: 1, Reason: "missing column " + colCourse}
	}
	teacherCol, ok := cols[colTeacher]
	if !ok {
		return index, &timetable.MalformedCellError{Sheet: sheet.Name, Row: 1, Reason: "missing column " + colTeacher}
	}
	gradeCol, hasGrade := cols[colGrade]

	var dayCols [timetable.DayCount]int
	for i := range dayCols {
		dayCols[i] = -1
	}
	for label, col := range cols {
		if day, err := timetable.ParseDay(label); err == nil {
			dayCols[day.Index()] = col
		}
	}

	var course, grade string
	for row := 1; row < len(sheet.Rows); row++ {
		if v := sheet.Cell(row, courseCol); v != "" {
			course = v
		}
		if hasGrade {
			if v := sheet.Cell(row, gradeCol); v != "" {
				grade = v
			}
			if !r.gradeMatches(grade) {
				continue
			}
		}
		teacher := sheet.Cell(row, teacherCol)
		if course == "" || teacher == "" {
			continue
		}

		entry := multiTeacherRow{row: row + 1, teacher: teacher, columns: dayCols}
		for i, col := range dayCols {
			if col >= 0 {
				entry.cells[i] = sheet.Cell(row, col)
			}
		}
		key := normalizeSubjectName(course)
		index.rows[key] = append(index.rows[key], entry)
	}
	return index, nil
}

// resolve walks the subject's rows in sheet order and returns the first
// teacher whose schedule for the day covers the period and section.
func (idx multiTeacherIndex) resolve(subject timetable.Subject, day timetable.Day, period timetable.Period) (timetable.Teacher, error) {
	rows, ok := idx.rows[normalizeSubjectName(subject.Name)]
	if !ok {
		return timetable.Teacher{}, &timetable.UnresolvedTeacherError{
			Subject: subject.Name, Section: subject.Section, Day: day, Period: period,
			Reason: "subject missing from multi-teacher sheet",
		}
	}

	for _, row := range rows {
		teacher, ok := subject.TeacherNamed(row.teacher)
		if !ok || row.columns[day.Index()] < 0 {
			continue
		}
		schedules, err := parseMiniSchedules(row.cells[day.Index()])
		if err != nil {
			return timetable.Teacher{}, &timetable.MalformedCellError{
				Sheet:  idx.sheet,
				Row:    row.row,
				Column: row.columns[day.Index()] + 1,
				Value:  row.cells[day.Index()],
				Reason: err.Error(),
			}
		}
		for _, sched := range schedules {
			if sched.covers(period, subject.Section) {
				return teacher, nil
			}
		}
	}

	return timetable.Teacher{}, &timetable.UnresolvedTeacherError{
		Subject: subject.Name, Section: subject.Section, Day: day, Period: period,
		Reason: "no listed schedule covers the slot",
	}
}

// lastOccupiedRow returns the index of the last row holding any text, or -1.
func lastOccupiedRow(t SourceTable) int {
	for row := len(t.Rows) - 1; row >= 0; row-- {
		for _, cell := range t.Rows[row] {
			if strings.TrimSpace(cell) != "" {
				return row
			}
		}
	}
	return -1
}

func wrapResolveError(err error) error {
	var (
		header     *timetable.MalformedHeaderError
		cell       *timetable.MalformedCellError
		unresolved *timetable.UnresolvedTeacherError
	)
	switch {
	case errors.As(err, &header), errors.As(err, &cell):
		return appErrors.Wrap(err, appErrors.ErrSourceMalformed.Code, appErrors.ErrSourceMalformed.Status, appErrors.ErrSourceMalformed.Message)
	case errors.As(err, &unresolved):
		return appErrors.Wrap(err, appErrors.ErrTeacherUnresolved.Code, appErrors.ErrTeacherUnresolved.Status, appErrors.ErrTeacherUnresolved.Message)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve roster")
}
