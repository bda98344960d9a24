package timetable

import (
	"sort"
	"strconv"
	"strings"
)

// Roster is a collection of students kept sorted by id.
type Roster struct {
	students []Student
}

// NewRoster builds a roster, sorting by id. Later students replace earlier
// ones with the same id.
func NewRoster(students ...Student) *Roster {
	r := &Roster{}
	for _, s := range students {
		r.Upsert(s)
	}
	return r
}

// Len is the number of students.
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.students)
}

// Students returns a copy of the students in id order.
func (r *Roster) Students() []Student {
	if r == nil {
		return nil
	}
	out := make([]Student, len(r.students))
	copy(out, r.students)
	return out
}

// Upsert inserts s at its id position, replacing an existing student with the
// same id. It reports whether a student was replaced.
func (r *Roster) Upsert(s Student) bool {
	i := sort.Search(len(r.students), func(i int) bool { return r.students[i].ID >= s.ID })
	if i < len(r.students) && r.students[i].ID == s.ID {
		r.students[i] = s
		return true
	}
	r.students = append(r.students, Student{})
	copy(r.students[i+1:], r.students[i:])
	r.students[i] = s
	return false
}

// Get finds a student by id.
func (r *Roster) Get(id int) (Student, bool) {
	if r == nil {
		return Student{}, false
	}
	i := sort.Search(len(r.students), func(i int) bool { return r.students[i].ID >= id })
	if i < len(r.students) && r.students[i].ID == id {
		return r.students[i], true
	}
	return Student{}, false
}

// FindByName returns the first student (in id order) with the given name.
func (r *Roster) FindByName(name string) (Student, bool) {
	return r.Find(ByName(name))
}

// Find returns the first student matching key.
func (r *Roster) Find(key StudentKey) (Student, bool) {
	if r == nil {
		return Student{}, false
	}
	if key.matchID {
		s, ok := r.Get(key.ID)
		if !ok || !s.Matches(key) {
			return Student{}, false
		}
		return s, true
	}
	for _, s := range r.students {
		if s.Matches(key) {
			return s, true
		}
	}
	return Student{}, false
}

// Lookup resolves free-form input: all digits is an id, anything else a name.
// An input of the form "<id> <name>" matches both.
func (r *Roster) Lookup(query string) (Student, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Student{}, false
	}
	if id, err := strconv.Atoi(query); err == nil {
		return r.Get(id)
	}
	if head, tail, ok := strings.Cut(query, " "); ok {
		if id, err := strconv.Atoi(head); err == nil {
			return r.Find(ByIDName(id, strings.TrimSpace(tail)))
		}
	}
	return r.FindByName(query)
}

// At returns the student at index i in id order. Negative indexes count from the end.
func (r *Roster) At(i int) (Student, bool) {
	n := r.Len()
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return Student{}, false
	}
	return r.students[i], true
}

// Slice returns a new roster with the students at indexes [lo, hi), clamped to bounds.
func (r *Roster) Slice(lo, hi int) *Roster {
	n := r.Len()
	if lo < 0 {
		lo = 0
	}
	if hi > n {
		hi = n
	}
	out := &Roster{}
	if lo >= hi {
		return out
	}
	out.students = make([]Student, hi-lo)
	copy(out.students, r.students[lo:hi])
	return out
}

// Equal compares two rosters student by student.
func (r *Roster) Equal(other *Roster) bool {
	if r.Len() != other.Len() {
		return false
	}
	if r.Len() == 0 {
		return true
	}
	for i := range r.students {
		if !r.students[i].Equal(other.students[i]) {
			return false
		}
	}
	return true
}
