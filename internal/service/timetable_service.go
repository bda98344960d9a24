package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/domain/timetable"
	"github.com/noah-isme/sma-timetable/internal/dto"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
	"github.com/noah-isme/sma-timetable/pkg/response"
)

// rosterReader is the part of RosterService the read paths need.
type rosterReader interface {
	Current() (LoadedRoster, error)
	Student(query string) (timetable.Student, error)
	List(page, size int) ([]timetable.Student, int, error)
}

// TimetableService serves student listings, timetable views and blocks.
type TimetableService struct {
	roster    rosterReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimetableService constructs the service.
func NewTimetableService(roster rosterReader, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{roster: roster, validator: validate, logger: logger}
}

// List pages through the roster.
func (s *TimetableService) List(ctx context.Context, q dto.StudentListQuery) ([]dto.StudentSummary, *response.Pagination, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 50
	}
	students, total, err := s.roster.List(q.Page, q.PageSize)
	if err != nil {
		return nil, nil, err
	}
	out := make([]dto.StudentSummary, 0, len(students))
	for _, st := range students {
		out = append(out, presentSummary(st))
	}
	return out, &response.Pagination{Page: q.Page, PageSize: q.PageSize, TotalCount: total}, nil
}

// Student returns one student with their class set.
func (s *TimetableService) Student(ctx context.Context, key string) (*dto.StudentResponse, error) {
	student, err := s.roster.Student(key)
	if err != nil {
		return nil, err
	}
	out := presentStudent(student)
	return &out, nil
}

// View narrows a student's timetable by the query selectors.
func (s *TimetableService) View(ctx context.Context, key string, q dto.TimetableQuery) (*dto.TimetableResponse, error) {
	student, view, scalar, err := s.narrow(key, q)
	if err != nil {
		return nil, err
	}

	out := &dto.TimetableResponse{StudentID: student.ID, Name: student.Name, Scalar: scalar}
	for _, d := range view.DayRange().Days() {
		out.Days = append(out.Days, d.String())
	}
	for _, p := range view.PeriodRange().Periods() {
		out.Periods = append(out.Periods, int(p))
	}
	for _, cell := range view.Cells() {
		subject, teacher := presentClass(cell.Class)
		out.Cells = append(out.Cells, dto.CellResponse{
			Day:     cell.Day.String(),
			DayName: cell.Day.Name(),
			Period:  int(cell.Period),
			Start:   cell.Period.Start().String(),
			End:     cell.Period.End().String(),
			Subject: subject,
			Teacher: teacher,
		})
	}
	return out, nil
}

// Blocks compresses each day of the narrowed view into runs of equal classes.
// Free periods are dropped unless includeGaps is set.
func (s *TimetableService) Blocks(ctx context.Context, key string, q dto.TimetableQuery, includeGaps bool) ([]dto.DayBlocksResponse, error) {
	_, view, _, err := s.narrow(key, q)
	if err != nil {
		return nil, err
	}

	out := make([]dto.DayBlocksResponse, 0, view.DayRange().Len())
	for _, d := range view.DayRange().Days() {
		blocks := view.Blocks(d)
		if !includeGaps {
			blocks = timetable.WithoutGaps(blocks)
		}
		day := dto.DayBlocksResponse{Day: d.String(), DayName: d.Name(), Blocks: make([]dto.BlockResponse, 0, len(blocks))}
		for _, b := range blocks {
			subject, teacher := presentClass(b.Class)
			day.Blocks = append(day.Blocks, dto.BlockResponse{
				StartPeriod: int(b.Start),
				EndPeriod:   int(b.End()),
				Length:      b.Length,
				Start:       b.Start.Start().String(),
				End:         b.End().End().String(),
				Subject:     subject,
				Teacher:     teacher,
			})
		}
		out = append(out, day)
	}
	return out, nil
}

func (s *TimetableService) narrow(key string, q dto.TimetableQuery) (timetable.Student, timetable.Timetable, bool, error) {
	if err := s.validator.Struct(q); err != nil {
		return timetable.Student{}, timetable.Timetable{}, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	student, err := s.roster.Student(key)
	if err != nil {
		return timetable.Student{}, timetable.Timetable{}, false, err
	}

	selectors, scalar := Selectors(q)
	view, err := student.Timetable.Select(selectors...)
	if err != nil {
		return timetable.Student{}, timetable.Timetable{}, false, selectorError(err)
	}
	return student, view, scalar, nil
}

// Selectors turns a query into timetable selectors applied in order. The
// second result reports whether the query addresses a single cell.
func Selectors(q dto.TimetableQuery) ([]timetable.Selector, bool) {
	var selectors []timetable.Selector
	day := strings.TrimSpace(q.Day)

	if day != "" && q.Period > 0 {
		d, err := timetable.ParseDay(day)
		if err != nil {
			return []timetable.Selector{timetable.DayNamed(day)}, false
		}
		return []timetable.Selector{timetable.CellAt(d, timetable.Period(q.Period))}, true
	}

	if day != "" {
		selectors = append(selectors, timetable.DayNamed(day))
	}
	if strings.TrimSpace(q.From) != "" || strings.TrimSpace(q.To) != "" {
		selectors = append(selectors, timetable.DaySpanOf(q.From, q.To))
	}
	if q.Period > 0 {
		selectors = append(selectors, timetable.PeriodOnly(timetable.Period(q.Period)))
	}
	if q.PeriodFrom > 0 || q.PeriodTo > 0 {
		lo, hi := timetable.Period(1), timetable.Period(timetable.MaxPeriod)
		if q.PeriodFrom > 0 {
			lo = timetable.Period(q.PeriodFrom)
		}
		if q.PeriodTo > 0 {
			hi = timetable.Period(q.PeriodTo)
		}
		selectors = append(selectors, timetable.PeriodSpan(lo, hi))
	}
	if len(selectors) == 0 {
		selectors = append(selectors, timetable.All())
	}
	return selectors, false
}

func selectorError(err error) error {
	var dayErr *timetable.InvalidDayError
	var viewErr *timetable.InvalidViewError
	if errors.As(err, &dayErr) || errors.As(err, &viewErr) {
		return appErrors.Wrap(err, appErrors.ErrInvalidSelector.Code, appErrors.ErrInvalidSelector.Status, err.Error())
	}
	return appErrors.FromError(err)
}
