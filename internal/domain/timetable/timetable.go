package timetable

import (
	"strings"
	"unicode/utf8"
)

// Timetable is a weekly (day × period) grid of class assignments. Every cell
// holds a Class; empty periods hold Gap. The day and period ranges describe
// which part of the grid the value exposes, so the same type serves both the
// full table and any narrowed view over it. Timetables are values: copying
// one copies its cells, and views never alias their source.
type Timetable struct {
	cells   [DayCount][MaxPeriod]Class
	days    DayRange
	periods PeriodRange
}

// Cell is one addressed grid entry.
type Cell struct {
	Day    Day
	Period Period
	Class  Class
}

// PeriodClass is one period of a single day.
type PeriodClass struct {
	Period Period
	Class  Class
}

// Result is what Resolve returns: a narrowed view, flagged as scalar when the
// selector addressed a single cell.
type Result struct {
	View   Timetable
	Scalar bool
}

// Class resolves a scalar result to its cell value.
func (r Result) Class() (Class, error) {
	return r.View.Value()
}

// New returns a full-range timetable with every cell set to Gap.
func New() Timetable {
	t := Timetable{days: AllDays(), periods: AllPeriods()}
	for d := range t.cells {
		for p := range t.cells[d] {
			t.cells[d][p] = Gap
		}
	}
	return t
}

// orNew treats the zero Timetable as an empty full-range grid. Select and
// New never produce invalid ranges, so only the zero value is affected.
func (t Timetable) orNew() Timetable {
	if t.days.valid() && t.periods.valid() {
		return t
	}
	return New()
}

// DayRange returns the days exposed by this view.
func (t Timetable) DayRange() DayRange { return t.orNew().days }

// PeriodRange returns the periods exposed by this view.
func (t Timetable) PeriodRange() PeriodRange { return t.orNew().periods }

// Len is the number of cells in the view.
func (t Timetable) Len() int {
	t = t.orNew()
	return t.days.Len() * t.periods.Len()
}

// Select narrows the view by each selector in turn. Ranges only ever shrink.
func (t Timetable) Select(sels ...Selector) (Timetable, error) {
	view := t.orNew()
	for _, sel := range sels {
		days, periods, err := sel.narrow(view.days, view.periods)
		if err != nil {
			return Timetable{}, err
		}
		view.days, view.periods = days, periods
	}
	return view, nil
}

// Resolve applies one selector and reports whether it addressed a single cell.
func (t Timetable) Resolve(sel Selector) (Result, error) {
	view, err := t.Select(sel)
	if err != nil {
		return Result{}, err
	}
	return Result{View: view, Scalar: sel.IsCell()}, nil
}

// At returns the class at (d, p). The cell must be inside the view.
func (t Timetable) At(d Day, p Period) (Class, error) {
	t = t.orNew()
	if !t.days.Contains(d) || !t.periods.Contains(p) || !d.Valid() || !p.Valid() {
		return Class{}, &InvalidViewError{Reason: "cell " + d.String() + "/" + itoa(int(p)) + " outside view", Days: t.days, Periods: t.periods}
	}
	return t.cells[d][p-1], nil
}

// Value resolves a view covering exactly one cell.
func (t Timetable) Value() (Class, error) {
	t = t.orNew()
	if t.days.Len() != 1 || t.periods.Len() != 1 {
		return Class{}, &InvalidViewError{Reason: "view spans more than one cell", Days: t.days, Periods: t.periods}
	}
	return t.cells[t.days.Lo][t.periods.Lo-1], nil
}

// Set writes c into every cell of the selected shape within the view.
func (t *Timetable) Set(sel Selector, c Class) error {
	*t = t.orNew()
	days, periods, err := sel.narrow(t.days, t.periods)
	if err != nil {
		return err
	}
	for d := days.Lo; d <= days.Hi; d++ {
		for p := periods.Lo; p <= periods.Hi; p++ {
			t.cells[d][p-1] = c
		}
	}
	return nil
}

// Put writes c into a single cell.
func (t *Timetable) Put(d Day, p Period, c Class) error {
	return t.Set(CellAt(d, p), c)
}

// Cells lists every cell of the view, day-major.
func (t Timetable) Cells() []Cell {
	t = t.orNew()
	out := make([]Cell, 0, t.Len())
	for d := t.days.Lo; d <= t.days.Hi; d++ {
		for p := t.periods.Lo; p <= t.periods.Hi; p++ {
			out = append(out, Cell{Day: d, Period: p, Class: t.cells[d][p-1]})
		}
	}
	return out
}

// Occupied lists the non-gap cells of the view, day-major.
func (t Timetable) Occupied() []Cell {
	out := make([]Cell, 0)
	for _, c := range t.Cells() {
		if !c.Class.IsGap() {
			out = append(out, c)
		}
	}
	return out
}

// Day returns the view's periods for day d in order, or nil when d is outside the view.
func (t Timetable) Day(d Day) []PeriodClass {
	t = t.orNew()
	if !t.days.Contains(d) {
		return nil
	}
	out := make([]PeriodClass, 0, t.periods.Len())
	for p := t.periods.Lo; p <= t.periods.Hi; p++ {
		out = append(out, PeriodClass{Period: p, Class: t.cells[d][p-1]})
	}
	return out
}

// Blocks compresses day d into runs of equal classes.
func (t Timetable) Blocks(d Day) []Block {
	return Compress(t.Day(d))
}

// Equal reports whether both views cover the same ranges with equal cells.
// Ranges are plain values, so views reached through different selector
// chains compare equal when they cover the same rectangle.
func (t Timetable) Equal(other Timetable) bool {
	t, other = t.orNew(), other.orNew()
	if t.days != other.days || t.periods != other.periods {
		return false
	}
	return t.SameContent(other)
}

// SameContent compares cells in order, ignoring the ranges themselves.
func (t Timetable) SameContent(other Timetable) bool {
	a, b := t.Cells(), other.Cells()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Class.Equal(b[i].Class) {
			return false
		}
	}
	return true
}

// String renders the view as a text grid with three-character subject labels.
func (t Timetable) String() string {
	t = t.orNew()
	var b strings.Builder
	b.WriteString("  ")
	for _, d := range t.days.Days() {
		b.WriteString(d.Name())
		b.WriteByte(' ')
	}
	b.WriteByte('\n')
	for p := t.periods.Lo; p <= t.periods.Hi; p++ {
		label := itoa(int(p))
		b.WriteString(label)
		b.WriteString(strings.Repeat(" ", 2-len(label)+1))
		for d := t.days.Lo; d <= t.days.Hi; d++ {
			c := t.cells[d][p-1]
			if c.IsGap() {
				b.WriteString(strings.Repeat(" ", 7))
				continue
			}
			name := []rune(strings.ReplaceAll(c.Subject.Name, " ", ""))
			if len(name) > 3 {
				name = name[:3]
			}
			short := string(name)
			b.WriteString(strings.Repeat("  ", 3-utf8.RuneCountInString(short)))
			b.WriteString(short)
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	return b.String()
}
