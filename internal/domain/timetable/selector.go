package timetable

import "strings"

// DayRange is an inclusive span of weekdays.
type DayRange struct {
	Lo Day `json:"lo"`
	Hi Day `json:"hi"`
}

// PeriodRange is an inclusive span of periods.
type PeriodRange struct {
	Lo Period `json:"lo"`
	Hi Period `json:"hi"`
}

// AllDays spans Monday to Friday.
func AllDays() DayRange { return DayRange{Lo: Monday, Hi: Friday} }

// AllPeriods spans 1 to MaxPeriod.
func AllPeriods() PeriodRange { return PeriodRange{Lo: 1, Hi: MaxPeriod} }

func (r DayRange) valid() bool {
	return r.Lo.Valid() && r.Hi.Valid() && r.Lo <= r.Hi
}

// Contains reports whether d falls inside the range.
func (r DayRange) Contains(d Day) bool { return d >= r.Lo && d <= r.Hi }

// Len is the number of days covered.
func (r DayRange) Len() int {
	if r.Hi < r.Lo {
		return 0
	}
	return int(r.Hi-r.Lo) + 1
}

// Days lists the covered days in order.
func (r DayRange) Days() []Day {
	out := make([]Day, 0, r.Len())
	for d := r.Lo; d <= r.Hi; d++ {
		out = append(out, d)
	}
	return out
}

func (r DayRange) intersect(o DayRange) (DayRange, bool) {
	out := DayRange{Lo: maxDay(r.Lo, o.Lo), Hi: minDay(r.Hi, o.Hi)}
	return out, out.Lo <= out.Hi
}

func (r DayRange) String() string {
	if r.Lo == r.Hi {
		return r.Lo.String()
	}
	return r.Lo.String() + "-" + r.Hi.String()
}

func (r PeriodRange) valid() bool {
	return r.Lo.Valid() && r.Hi.Valid() && r.Lo <= r.Hi
}

// Contains reports whether p falls inside the range.
func (r PeriodRange) Contains(p Period) bool { return p >= r.Lo && p <= r.Hi }

// Len is the number of periods covered.
func (r PeriodRange) Len() int {
	if r.Hi < r.Lo {
		return 0
	}
	return int(r.Hi-r.Lo) + 1
}

// Periods lists the covered periods in order.
func (r PeriodRange) Periods() []Period {
	out := make([]Period, 0, r.Len())
	for p := r.Lo; p <= r.Hi; p++ {
		out = append(out, p)
	}
	return out
}

func (r PeriodRange) intersect(o PeriodRange) (PeriodRange, bool) {
	lo, hi := r.Lo, r.Hi
	if o.Lo > lo {
		lo = o.Lo
	}
	if o.Hi < hi {
		hi = o.Hi
	}
	out := PeriodRange{Lo: lo, Hi: hi}
	return out, lo <= hi
}

func (r PeriodRange) String() string {
	if r.Lo == r.Hi {
		return itoa(int(r.Lo))
	}
	return itoa(int(r.Lo)) + "-" + itoa(int(r.Hi))
}

// Selector addresses part of a timetable: a cell, a day, a period, or a day or
// period range. A nil axis leaves that axis of the view unchanged.
type Selector struct {
	days    *DayRange
	periods *PeriodRange
	scalar  bool
	err     error
}

// CellAt selects a single (day, period) cell.
func CellAt(d Day, p Period) Selector {
	return Selector{days: &DayRange{d, d}, periods: &PeriodRange{p, p}, scalar: true}
}

// DayOnly selects every period of one day.
func DayOnly(d Day) Selector {
	return Selector{days: &DayRange{d, d}}
}

// PeriodOnly selects one period across every day.
func PeriodOnly(p Period) Selector {
	return Selector{periods: &PeriodRange{p, p}}
}

// DaySpan selects days lo..hi inclusive.
func DaySpan(lo, hi Day) Selector {
	return Selector{days: &DayRange{lo, hi}}
}

// DaysFrom selects lo through Friday.
func DaysFrom(lo Day) Selector { return DaySpan(lo, Friday) }

// DaysUntil selects Monday through hi.
func DaysUntil(hi Day) Selector { return DaySpan(Monday, hi) }

// DaySpanOf selects a day range from two aliases; an empty alias leaves that
// bound open.
func DaySpanOf(lo, hi string) Selector {
	r := AllDays()
	if strings.TrimSpace(lo) != "" {
		d, err := ParseDay(lo)
		if err != nil {
			return Selector{err: err}
		}
		r.Lo = d
	}
	if strings.TrimSpace(hi) != "" {
		d, err := ParseDay(hi)
		if err != nil {
			return Selector{err: err}
		}
		r.Hi = d
	}
	return Selector{days: &r}
}

// DayNamed selects one day by alias.
func DayNamed(alias string) Selector {
	d, err := ParseDay(alias)
	if err != nil {
		return Selector{err: err}
	}
	return DayOnly(d)
}

// PeriodSpan selects periods lo..hi inclusive.
func PeriodSpan(lo, hi Period) Selector {
	return Selector{periods: &PeriodRange{lo, hi}}
}

// PeriodsFrom selects lo through MaxPeriod.
func PeriodsFrom(lo Period) Selector { return PeriodSpan(lo, MaxPeriod) }

// PeriodsUntil selects 1 through hi.
func PeriodsUntil(hi Period) Selector { return PeriodSpan(1, hi) }

// All selects the whole grid; applied to a view it leaves the view unchanged.
func All() Selector {
	d, p := AllDays(), AllPeriods()
	return Selector{days: &d, periods: &p}
}

// IsCell reports whether the selector addresses exactly one cell.
func (s Selector) IsCell() bool { return s.scalar }

// narrow intersects the selector with the current view ranges.
func (s Selector) narrow(days DayRange, periods PeriodRange) (DayRange, PeriodRange, error) {
	if s.err != nil {
		return days, periods, s.err
	}
	if s.days != nil {
		if !s.days.valid() {
			return days, periods, &InvalidViewError{Reason: "invalid day range " + s.days.String(), Days: days, Periods: periods}
		}
		next, ok := days.intersect(*s.days)
		if !ok {
			return days, periods, &InvalidViewError{Reason: "days " + s.days.String() + " outside view", Days: days, Periods: periods}
		}
		days = next
	}
	if s.periods != nil {
		if !s.periods.valid() {
			return days, periods, &InvalidViewError{Reason: "invalid period range " + s.periods.String(), Days: days, Periods: periods}
		}
		next, ok := periods.intersect(*s.periods)
		if !ok {
			return days, periods, &InvalidViewError{Reason: "periods " + s.periods.String() + " outside view", Days: days, Periods: periods}
		}
		periods = next
	}
	return days, periods, nil
}

func maxDay(a, b Day) Day {
	if a > b {
		return a
	}
	return b
}

func minDay(a, b Day) Day {
	if a < b {
		return a
	}
	return b
}
