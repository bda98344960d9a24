package timetable

import (
	"fmt"
	"strconv"
	"strings"
)

// GapName is the subject name used by the empty-period sentinel.
const GapName = "공강"

// Teacher is identified by name and classroom; two teachers with the same
// pair are the same person.
type Teacher struct {
	Name      string `json:"name"`
	Classroom string `json:"classroom"`
}

// IsZero reports whether t carries no teacher.
func (t Teacher) IsZero() bool {
	return t.Name == "" && t.Classroom == ""
}

func (t Teacher) String() string {
	if t.Classroom == "" {
		return t.Name
	}
	return t.Name + " (" + t.Classroom + ")"
}

// Subject is one section of a course. Build it with NewSubject so the teacher
// list is deduplicated and the category is assigned.
type Subject struct {
	Name        string    `json:"name"`
	CreditHours int       `json:"creditHours"`
	Section     int       `json:"section"`
	Teachers    []Teacher `json:"teachers"`
	Category    Category  `json:"category"`
}

// NewSubject builds a Subject, classifying it by name. Section 0 means the
// course has no sections.
func NewSubject(name string, creditHours, section int, teachers ...Teacher) Subject {
	name = strings.TrimSpace(name)
	unique := make([]Teacher, 0, len(teachers))
	seen := make(map[Teacher]struct{}, len(teachers))
	for _, t := range teachers {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		unique = append(unique, t)
	}
	return Subject{
		Name:        name,
		CreditHours: creditHours,
		Section:     section,
		Teachers:    unique,
		Category:    Classify(name),
	}
}

// Key is the identity of the subject; two subjects with equal keys are equal.
func (s Subject) Key() string {
	var b strings.Builder
	b.WriteString(s.Name)
	b.WriteByte('\x1f')
	b.WriteString(strconv.Itoa(s.Section))
	b.WriteByte('\x1f')
	b.WriteString(strconv.Itoa(s.CreditHours))
	b.WriteByte('\x1f')
	b.WriteString(strconv.Itoa(int(s.Category)))
	for _, t := range s.Teachers {
		b.WriteByte('\x1f')
		b.WriteString(t.Name)
		b.WriteByte('\x1e')
		b.WriteString(t.Classroom)
	}
	return b.String()
}

// Equal compares every identifying field, including the ordered teacher list.
func (s Subject) Equal(other Subject) bool {
	if s.Name != other.Name || s.Section != other.Section || s.CreditHours != other.CreditHours || s.Category != other.Category {
		return false
	}
	if len(s.Teachers) != len(other.Teachers) {
		return false
	}
	for i := range s.Teachers {
		if s.Teachers[i] != other.Teachers[i] {
			return false
		}
	}
	return true
}

// HasTeacher reports whether t is one of the subject's teachers.
func (s Subject) HasTeacher(t Teacher) bool {
	for _, candidate := range s.Teachers {
		if candidate == t {
			return true
		}
	}
	return false
}

// TeacherNamed returns the first teacher with the given name.
func (s Subject) TeacherNamed(name string) (Teacher, bool) {
	for _, t := range s.Teachers {
		if t.Name == name {
			return t, true
		}
	}
	return Teacher{}, false
}

func (s Subject) String() string {
	return fmt.Sprintf("%s %d반 (%d시수)", s.Name, s.Section, s.CreditHours)
}

// Class is a subject paired with the teacher responsible for one slot.
type Class struct {
	Subject Subject `json:"subject"`
	Teacher Teacher `json:"teacher"`
}

// Gap is the sentinel for an empty period.
var Gap = Class{Subject: NewSubject(GapName, 0, 0)}

// NewClass pairs a subject with its assigned teacher.
func NewClass(subject Subject, teacher Teacher) Class {
	return Class{Subject: subject, Teacher: teacher}
}

// IsGap reports whether c is the empty-period sentinel.
func (c Class) IsGap() bool {
	return c.Equal(Gap)
}

// HasTeacher reports whether a teacher was assigned.
func (c Class) HasTeacher() bool {
	return !c.Teacher.IsZero()
}

// Equal compares subject and assigned teacher by value.
func (c Class) Equal(other Class) bool {
	return c.Teacher == other.Teacher && c.Subject.Equal(other.Subject)
}

func (c Class) String() string {
	if c.IsGap() {
		return GapName
	}
	if !c.HasTeacher() {
		return c.Subject.String()
	}
	return c.Subject.String() + " - " + c.Teacher.String()
}
