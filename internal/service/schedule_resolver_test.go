package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable/internal/domain/timetable"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

type gridCell struct {
	day    timetable.Day
	period timetable.Period
	value  string
}

// studentBlock renders one header row, MaxPeriod period rows and a margin row.
func studentBlock(header string, cells ...gridCell) [][]string {
	rows := make([][]string, 0, timetable.MaxPeriod+2)
	rows = append(rows, []string{header})
	for p := 1; p <= timetable.MaxPeriod; p++ {
		rows = append(rows, make([]string, timetable.DayCount))
	}
	for _, c := range cells {
		rows[int(c.period)][c.day.Index()] = c.value
	}
	return append(rows, []string{})
}

func gridOf(blocks ...[][]string) SourceTable {
	var rows [][]string
	for _, b := range blocks {
		rows = append(rows, b...)
	}
	return SourceTable{Name: "학생별 시간표", Rows: rows}
}

func classroomSheet(rows ...[]string) SourceTable {
	return SourceTable{
		Name: "2학기 강의실",
		Rows: append([][]string{{"학년", "과목", "교사1", "강의실1", "교사2", "강의실2"}}, rows...),
	}
}

func multiTeacherSheet(rows ...[]string) SourceTable {
	return SourceTable{
		Name: "다교사",
		Rows: append([][]string{{"학년", "교과", "교사명", "월", "화", "수", "목", "금"}}, rows...),
	}
}

func newTestResolver() *ScheduleResolver {
	return NewScheduleResolver(ResolverConfig{Grade: 2, Margin: 1}, nil)
}

func TestScheduleResolverSingleTeacher(t *testing.T) {
	tables := SourceTables{
		Grid:       gridOf(studentBlock("20105홍길동", gridCell{timetable.Monday, 3, "물리학 1반 (2시간)"})),
		Classrooms: classroomSheet([]string{"2", "물리학", "김교사", "과학관 201"}),
	}

	roster, err := newTestResolver().Resolve(context.Background(), tables)
	require.NoError(t, err)
	require.Equal(t, 1, roster.Len())

	student, ok := roster.Get(20105)
	require.True(t, ok)
	assert.Equal(t, "홍길동", student.Name)

	class, err := student.Timetable.At(timetable.Monday, 3)
	require.NoError(t, err)
	assert.Equal(t, "물리학", class.Subject.Name)
	assert.Equal(t, timetable.CategoryPhysics, class.Subject.Category)
	assert.Equal(t, 1, class.Subject.Section)
	assert.Equal(t, 2, class.Subject.CreditHours)
	assert.Equal(t, timetable.Teacher{Name: "김교사", Classroom: "과학관 201"}, class.Teacher)
	assert.Equal(t, 1, student.Classes.Len())
	assert.Len(t, student.Timetable.Occupied(), 1)
}

func TestScheduleResolverMultiTeacherByPeriod(t *testing.T) {
	tables := SourceTables{
		Grid: gridOf(studentBlock("20105홍길동",
			gridCell{timetable.Monday, 3, "물리학 1반 (2시간)"},
		)),
		Classrooms: classroomSheet([]string{"2", "물리학", "김교사", "과학관 201", "박교사", "과학관 202"}),
		MultiTeacher: multiTeacherSheet(
			[]string{"2", "물리학", "김교사", "3교시"},
			[]string{"", "", "박교사", "1,2교시"},
		),
	}

	roster, err := newTestResolver().Resolve(context.Background(), tables)
	require.NoError(t, err)
	student, _ := roster.Get(20105)
	class, err := student.Timetable.At(timetable.Monday, 3)
	require.NoError(t, err)
	assert.Equal(t, "김교사", class.Teacher.Name)
	assert.Len(t, class.Subject.Teachers, 2)
}

func TestScheduleResolverMultiTeacherBySection(t *testing.T) {
	tables := SourceTables{
		Grid: gridOf(studentBlock("20105홍길동",
			gridCell{timetable.Tuesday, 5, "화학 1반 (3시간)"},
			gridCell{timetable.Tuesday, 6, "화학 1반 (3시간)"},
		)),
		Classrooms: classroomSheet([]string{"2학년", "화학", "이교사", "과학관 105", "최교사", "과학관 106"}),
		MultiTeacher: multiTeacherSheet(
			[]string{"2", "화학", "이교사", "", "5,6(2분반)"},
			[]string{"", "", "최교사", "", "5,6(1분반)/7교시"},
		),
	}

	roster, err := newTestResolver().Resolve(context.Background(), tables)
	require.NoError(t, err)
	student, _ := roster.Get(20105)
	blocks := timetable.WithoutGaps(student.Timetable.Blocks(timetable.Tuesday))
	require.Len(t, blocks, 1)
	assert.Equal(t, timetable.Period(5), blocks[0].Start)
	assert.Equal(t, 2, blocks[0].Length)
	assert.Equal(t, "최교사", blocks[0].Class.Teacher.Name)
}

func TestScheduleResolverIsDeterministic(t *testing.T) {
	tables := SourceTables{
		Grid: gridOf(
			studentBlock("20310김철수",
				gridCell{timetable.Monday, 1, "미적분 1반 (4시간)"},
				gridCell{timetable.Friday, 9, "물리학 2반 (2시간)"}),
			studentBlock("20105홍길동",
				gridCell{timetable.Wednesday, 2, "미적분 2반 (4시간)"}),
		),
		Classrooms: classroomSheet(
			[]string{"2", "미적분", "박교사", "본관 301"},
			[]string{"2", "물리학", "김교사", "과학관 201"},
		),
	}

	first, err := newTestResolver().Resolve(context.Background(), tables)
	require.NoError(t, err)
	second, err := newTestResolver().Resolve(context.Background(), tables)
	require.NoError(t, err)

	require.Equal(t, 2, first.Len())
	assert.True(t, first.Equal(second))
	head, _ := first.At(0)
	assert.Equal(t, 20105, head.ID, "roster is ordered by id")
}

func TestScheduleResolverPadsTruncatedFinalBlock(t *testing.T) {
	block := studentBlock("20105홍길동", gridCell{timetable.Monday, 1, "물리학 1반 (2시간)"})
	grid := gridOf(block[:3], [][]string{{""}, {""}})
	tables := SourceTables{
		Grid:       grid,
		Classrooms: classroomSheet([]string{"2", "물리학", "김교사", "과학관 201"}),
	}

	roster, err := newTestResolver().Resolve(context.Background(), tables)
	require.NoError(t, err)
	assert.Equal(t, 1, roster.Len())
}

func TestScheduleResolverNormalizesSubjectNames(t *testing.T) {
	tables := SourceTables{
		Grid:       gridOf(studentBlock("20105홍길동", gridCell{timetable.Thursday, 4, "미적분II 1반 (4시간)"})),
		Classrooms: classroomSheet([]string{"2", "미적분 Ⅱ", "박교사", "본관 301"}),
	}

	roster, err := newTestResolver().Resolve(context.Background(), tables)
	require.NoError(t, err)
	student, _ := roster.Get(20105)
	class, err := student.Timetable.At(timetable.Thursday, 4)
	require.NoError(t, err)
	assert.Equal(t, "박교사", class.Teacher.Name)
}

func TestScheduleResolverMalformedHeader(t *testing.T) {
	tables := SourceTables{Grid: gridOf(studentBlock("2010홍길동"))}

	_, err := newTestResolver().Resolve(context.Background(), tables)
	var headerErr *timetable.MalformedHeaderError
	require.True(t, errors.As(err, &headerErr))
	assert.Equal(t, 1, headerErr.Row)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrSourceMalformed.Code, appErr.Code)
}

func TestScheduleResolverMalformedCell(t *testing.T) {
	tables := SourceTables{
		Grid:       gridOf(studentBlock("20105홍길동", gridCell{timetable.Monday, 3, "물리학 (2시간)"})),
		Classrooms: classroomSheet([]string{"2", "물리학", "김교사", "과학관 201"}),
	}

	_, err := newTestResolver().Resolve(context.Background(), tables)
	var cellErr *timetable.MalformedCellError
	require.True(t, errors.As(err, &cellErr))
	assert.Equal(t, 4, cellErr.Row)
	assert.Equal(t, 1, cellErr.Column)
	assert.Equal(t, "물리학 (2시간)", cellErr.Value)
}

func TestScheduleResolverRejectsOverflowingNumbers(t *testing.T) {
	for name, value := range map[string]string{
		"section": "물리학 99999999999999999999반 (2시간)",
		"hours":   "물리학 1반 (99999999999999999999시간)",
	} {
		t.Run(name, func(t *testing.T) {
			tables := SourceTables{
				Grid:       gridOf(studentBlock("20105홍길동", gridCell{timetable.Monday, 1, value})),
				Classrooms: classroomSheet([]string{"2", "물리학", "김교사", "과학관 201"}),
			}

			_, err := newTestResolver().Resolve(context.Background(), tables)
			var cellErr *timetable.MalformedCellError
			require.True(t, errors.As(err, &cellErr))
			assert.Equal(t, value, cellErr.Value)
		})
	}
}

func TestScheduleResolverUnresolvedTeacher(t *testing.T) {
	t.Run("missing from classroom sheet", func(t *testing.T) {
		tables := SourceTables{
			Grid:       gridOf(studentBlock("20105홍길동", gridCell{timetable.Monday, 3, "지구과학 1반 (2시간)"})),
			Classrooms: classroomSheet([]string{"3", "지구과학", "정교사", "과학관 301"}),
		}
		_, err := newTestResolver().Resolve(context.Background(), tables)
		var unresolved *timetable.UnresolvedTeacherError
		require.True(t, errors.As(err, &unresolved))
		assert.Equal(t, "지구과학", unresolved.Subject)
		assert.Equal(t, timetable.Monday, unresolved.Day)
		assert.Equal(t, timetable.Period(3), unresolved.Period)

		var appErr *appErrors.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrTeacherUnresolved.Code, appErr.Code)
	})

	t.Run("no schedule covers the slot", func(t *testing.T) {
		tables := SourceTables{
			Grid:       gridOf(studentBlock("20105홍길동", gridCell{timetable.Monday, 4, "물리학 1반 (2시간)"})),
			Classrooms: classroomSheet([]string{"2", "물리학", "김교사", "과학관 201", "박교사", "과학관 202"}),
			MultiTeacher: multiTeacherSheet(
				[]string{"2", "물리학", "김교사", "3교시"},
				[]string{"", "", "박교사", "4(2분반)"},
			),
		}
		_, err := newTestResolver().Resolve(context.Background(), tables)
		var unresolved *timetable.UnresolvedTeacherError
		require.True(t, errors.As(err, &unresolved))
		assert.Equal(t, 1, unresolved.Section)
	})
}

func TestScheduleResolverMalformedMiniSchedule(t *testing.T) {
	tables := SourceTables{
		Grid:       gridOf(studentBlock("20105홍길동", gridCell{timetable.Monday, 3, "물리학 1반 (2시간)"})),
		Classrooms: classroomSheet([]string{"2", "물리학", "김교사", "과학관 201", "박교사", "과학관 202"}),
		MultiTeacher: multiTeacherSheet(
			[]string{"2", "물리학", "김교사", "셋째 시간"},
		),
	}

	_, err := newTestResolver().Resolve(context.Background(), tables)
	var cellErr *timetable.MalformedCellError
	require.True(t, errors.As(err, &cellErr))
	assert.Equal(t, "다교사", cellErr.Sheet)
	assert.Equal(t, 2, cellErr.Row)
	assert.Equal(t, 4, cellErr.Column)
}

func TestScheduleResolverHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestResolver().Resolve(ctx, SourceTables{Grid: gridOf(studentBlock("20105홍길동"))})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseMiniSchedules(t *testing.T) {
	got, err := parseMiniSchedules("1,2(1분반) / 5, 6교시")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []timetable.Period{1, 2}, got[0].Periods)
	assert.Equal(t, 1, got[0].Section)
	assert.Equal(t, 0, got[1].Section)
	assert.True(t, got[1].covers(6, 3))
	assert.False(t, got[0].covers(1, 2))

	empty, err := parseMiniSchedules("  ")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = parseMiniSchedules("10교시")
	assert.Error(t, err)
	_, err = parseMiniSchedules("1,2")
	assert.Error(t, err)
}

func TestSourceTablesDigestChangesWithContent(t *testing.T) {
	a := SourceTables{Grid: gridOf(studentBlock("20105홍길동"))}
	b := SourceTables{Grid: gridOf(studentBlock("20106홍길동"))}
	assert.Equal(t, a.Digest(), a.Digest())
	assert.NotEqual(t, a.Digest(), b.Digest())
}
