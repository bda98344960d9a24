package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable/internal/domain/timetable"
	"github.com/noah-isme/sma-timetable/internal/dto"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

func loadedTimetableService(t *testing.T) *TimetableService {
	t.Helper()
	roster := newTestRosterService(sampleWorkbooks(), nil)
	_, err := roster.Reload(context.Background())
	require.NoError(t, err)
	return NewTimetableService(roster, nil, nil)
}

func TestTimetableServiceViewWhole(t *testing.T) {
	svc := loadedTimetableService(t)

	view, err := svc.View(context.Background(), "20105", dto.TimetableQuery{})
	require.NoError(t, err)
	assert.Equal(t, "김철수", view.Name)
	assert.False(t, view.Scalar)
	assert.Len(t, view.Cells, timetable.DayCount*timetable.MaxPeriod)
	assert.Equal(t, []string{"MON", "TUE", "WED", "THU", "FRI"}, view.Days)

	first := view.Cells[0]
	require.NotNil(t, first.Subject)
	assert.Equal(t, "물리학", first.Subject.Name)
	assert.Equal(t, "08:50", first.Start)
	require.NotNil(t, first.Teacher)
	assert.Equal(t, "과학관 201", first.Teacher.Classroom)
	assert.Nil(t, view.Cells[2].Subject)
}

func TestTimetableServiceViewNarrowing(t *testing.T) {
	svc := loadedTimetableService(t)
	ctx := context.Background()

	cell, err := svc.View(ctx, "20105", dto.TimetableQuery{Day: "월", Period: 2})
	require.NoError(t, err)
	assert.True(t, cell.Scalar)
	require.Len(t, cell.Cells, 1)
	assert.Equal(t, "물리학", cell.Cells[0].Subject.Name)

	span, err := svc.View(ctx, "20105", dto.TimetableQuery{From: "화", To: "목", PeriodFrom: 3, PeriodTo: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"TUE", "WED", "THU"}, span.Days)
	assert.Equal(t, []int{3, 4, 5}, span.Periods)
	assert.Len(t, span.Cells, 9)

	_, err = svc.View(ctx, "20105", dto.TimetableQuery{Day: "일요일"})
	assert.Equal(t, appErrors.ErrInvalidSelector.Code, appErrors.FromError(err).Code)

	_, err = svc.View(ctx, "20105", dto.TimetableQuery{Day: "월", From: "수"})
	assert.Equal(t, appErrors.ErrInvalidSelector.Code, appErrors.FromError(err).Code)

	_, err = svc.View(ctx, "20105", dto.TimetableQuery{Period: 12})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTimetableServiceBlocks(t *testing.T) {
	svc := loadedTimetableService(t)

	days, err := svc.Blocks(context.Background(), "김철수", dto.TimetableQuery{Day: "mon"}, false)
	require.NoError(t, err)
	require.Len(t, days, 1)
	require.Len(t, days[0].Blocks, 1)
	block := days[0].Blocks[0]
	assert.Equal(t, 1, block.StartPeriod)
	assert.Equal(t, 2, block.EndPeriod)
	assert.Equal(t, "10:40", block.End)

	withGaps, err := svc.Blocks(context.Background(), "김철수", dto.TimetableQuery{Day: "mon"}, true)
	require.NoError(t, err)
	assert.Len(t, withGaps[0].Blocks, 2)
}

func TestTimetableServiceListAndStudent(t *testing.T) {
	svc := loadedTimetableService(t)

	rows, page, err := svc.List(context.Background(), dto.StudentListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalCount)
	assert.Equal(t, 20105, rows[0].ID)
	assert.Equal(t, 2, rows[0].CreditHours)

	student, err := svc.Student(context.Background(), "20207 이영희")
	require.NoError(t, err)
	require.Len(t, student.Classes, 1)
	assert.Equal(t, "물리학", student.Classes[0].Name)
	assert.NotEmpty(t, student.Classes[0].Teachers)
}

func TestSelectorsDefaultToWholeGrid(t *testing.T) {
	selectors, scalar := Selectors(dto.TimetableQuery{})
	require.Len(t, selectors, 1)
	assert.False(t, scalar)

	tt := timetable.New()
	view, err := tt.Select(selectors...)
	require.NoError(t, err)
	assert.True(t, view.Equal(tt))
}
