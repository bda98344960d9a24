package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/noah-isme/sma-timetable/internal/domain/timetable"
)

var miniSchedulePattern = regexp.MustCompile(`^(\d+(?:\s*,\s*\d+)*)\s*(?:\(\s*(\d+)\s*분반\s*\)|교시)$`)

// miniSchedule is one "/"-separated entry of a multi-teacher cell: the
// periods a teacher covers, optionally bound to a single section.
type miniSchedule struct {
	Periods []timetable.Period
	Section int
}

// covers reports whether the entry assigns its teacher to period for the
// given section. Entries without a section apply to every section.
func (m miniSchedule) covers(period timetable.Period, section int) bool {
	if m.Section != 0 && m.Section != section {
		return false
	}
	for _, p := range m.Periods {
		if p == period {
			return true
		}
	}
	return false
}

// parseMiniSchedules splits a cell such as "1,2(1분반)/5,6교시".
func parseMiniSchedules(cell string) ([]miniSchedule, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, nil
	}

	parts := strings.Split(cell, "/")
	out := make([]miniSchedule, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m := miniSchedulePattern.FindStringSubmatch(part)
		if m == nil {
			return nil, fmt.Errorf("unrecognised schedule %q", part)
		}

		var sched miniSchedule
		for _, raw := range strings.Split(m[1], ",") {
			n, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return nil, fmt.Errorf("period %q: %w", raw, err)
			}
			p := timetable.Period(n)
			if !p.Valid() {
				return nil, fmt.Errorf("period %d out of range", n)
			}
			sched.Periods = append(sched.Periods, p)
		}
		if m[2] != "" {
			section, err := strconv.Atoi(m[2])
			if err != nil {
				return nil, fmt.Errorf("section %q: %w", m[2], err)
			}
			sched.Section = section
		}
		out = append(out, sched)
	}
	return out, nil
}
