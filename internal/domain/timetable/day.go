// Package timetable holds the weekly class grid model: days, periods, subjects,
// class assignments, the addressable Timetable grid, class-set algebra and the
// student roster. It has no external dependencies.
package timetable

import "strings"

// Day is one weekday column of the grid.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
)

// DayCount is the number of weekday columns in every timetable.
const DayCount = 5

var dayNames = [DayCount]string{"월요일", "화요일", "수요일", "목요일", "금요일"}

var dayCodes = [DayCount]string{"MON", "TUE", "WED", "THU", "FRI"}

// dayAliases maps every accepted spelling (lower-cased) to its day.
var dayAliases = map[string]Day{
	"월": Monday, "월요일": Monday, "mon": Monday, "monday": Monday,
	"화": Tuesday, "화요일": Tuesday, "tue": Tuesday, "tuesday": Tuesday,
	"수": Wednesday, "수요일": Wednesday, "wed": Wednesday, "wednesday": Wednesday,
	"목": Thursday, "목요일": Thursday, "thu": Thursday, "thursday": Thursday,
	"금": Friday, "금요일": Friday, "fri": Friday, "friday": Friday,
}

// Days lists the weekdays in grid order.
func Days() []Day {
	return []Day{Monday, Tuesday, Wednesday, Thursday, Friday}
}

// DayFromIndex converts a zero-based column index into a Day.
func DayFromIndex(idx int) (Day, error) {
	d := Day(idx)
	if !d.Valid() {
		return 0, &InvalidDayError{Index: idx, HasIndex: true}
	}
	return d, nil
}

// ParseDay resolves a localized alias such as "월", "화요일", "wed" or "FRIDAY".
func ParseDay(text string) (Day, error) {
	if d, ok := dayAliases[strings.ToLower(strings.TrimSpace(text))]; ok {
		return d, nil
	}
	return 0, &InvalidDayError{Text: text}
}

// Valid reports whether d is one of the five weekdays.
func (d Day) Valid() bool {
	return d >= Monday && d <= Friday
}

// Index returns the zero-based column index.
func (d Day) Index() int {
	return int(d)
}

// Name returns the Korean display name ("월요일").
func (d Day) Name() string {
	if !d.Valid() {
		return ""
	}
	return dayNames[d]
}

// String returns the short code ("MON").
func (d Day) String() string {
	if !d.Valid() {
		return "Day(" + itoa(int(d)) + ")"
	}
	return dayCodes[d]
}
