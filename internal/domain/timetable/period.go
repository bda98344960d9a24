package timetable

import (
	"strconv"
	"time"
)

// MaxPeriod is the number of class periods per day.
const MaxPeriod = 9

// ClassLength is the fixed duration of one period.
const ClassLength = 50 * time.Minute

// ClockTime is a wall-clock time of day.
type ClockTime struct {
	Hour   int
	Minute int
}

// Add returns the clock time shifted by d, wrapping at midnight.
func (c ClockTime) Add(d time.Duration) ClockTime {
	total := (c.Hour*60 + c.Minute + int(d/time.Minute)) % (24 * 60)
	if total < 0 {
		total += 24 * 60
	}
	return ClockTime{Hour: total / 60, Minute: total % 60}
}

// On places the clock time on the given date in loc.
func (c ClockTime) On(date time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, loc)
}

// String formats as "08:50".
func (c ClockTime) String() string {
	return pad2(c.Hour) + ":" + pad2(c.Minute)
}

// periodStarts holds the start time of each period, indexed by period-1.
var periodStarts = [MaxPeriod]ClockTime{
	{8, 50},
	{9, 50},
	{10, 50},
	{11, 50},
	{13, 30},
	{14, 30},
	{15, 30},
	{16, 40},
	{17, 40},
}

// Period is a 1-based class slot number within a day.
type Period int

// Periods lists 1..MaxPeriod.
func Periods() []Period {
	out := make([]Period, 0, MaxPeriod)
	for p := Period(1); p <= MaxPeriod; p++ {
		out = append(out, p)
	}
	return out
}

// Valid reports whether p is inside [1, MaxPeriod].
func (p Period) Valid() bool {
	return p >= 1 && p <= MaxPeriod
}

// Start returns the wall-clock start of the period. Invalid periods return the zero time.
func (p Period) Start() ClockTime {
	if !p.Valid() {
		return ClockTime{}
	}
	return periodStarts[p-1]
}

// End returns Start plus ClassLength.
func (p Period) End() ClockTime {
	if !p.Valid() {
		return ClockTime{}
	}
	return p.Start().Add(ClassLength)
}

func (p Period) String() string {
	return strconv.Itoa(int(p)) + "교시"
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
