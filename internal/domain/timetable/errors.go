package timetable

import (
	"fmt"
	"strconv"
)

// InvalidDayError is returned when a day index or alias cannot be resolved.
type InvalidDayError struct {
	Text     string
	Index    int
	HasIndex bool
}

func (e *InvalidDayError) Error() string {
	if e.HasIndex {
		return "invalid day index: " + strconv.Itoa(e.Index)
	}
	return fmt.Sprintf("invalid day: %q", e.Text)
}

// InvalidViewError is returned when a timetable view is addressed outside its
// ranges or resolved to a scalar while spanning more than one cell.
type InvalidViewError struct {
	Reason  string
	Days    DayRange
	Periods PeriodRange
}

func (e *InvalidViewError) Error() string {
	return fmt.Sprintf("invalid timetable view (days %s, periods %s): %s", e.Days, e.Periods, e.Reason)
}

// MalformedHeaderError reports a student header row that does not start with
// a fixed-width numeric id.
type MalformedHeaderError struct {
	Row    int
	Header string
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("row %d: malformed student header %q", e.Row, e.Header)
}

// MalformedCellError reports a source cell that does not follow its grammar.
type MalformedCellError struct {
	Sheet  string
	Row    int
	Column int
	Value  string
	Reason string
}

func (e *MalformedCellError) Error() string {
	msg := fmt.Sprintf("%s row %d column %d: malformed cell %q", e.Sheet, e.Row, e.Column, e.Value)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// UnresolvedTeacherError is returned when no candidate teacher covers a slot.
type UnresolvedTeacherError struct {
	Subject string
	Section int
	Day     Day
	Period  Period
	Reason  string
}

func (e *UnresolvedTeacherError) Error() string {
	msg := fmt.Sprintf("no teacher for %s %d반 on %s period %d", e.Subject, e.Section, e.Day.Name(), e.Period)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// UnsupportedOperandError is returned by set operations given an operand that
// is neither a class set, a subject, a class nor a student.
type UnsupportedOperandError struct {
	Op      string
	Operand any
}

func (e *UnsupportedOperandError) Error() string {
	return fmt.Sprintf("unsupported operand type for %s: %T", e.Op, e.Operand)
}
