package timetable

import "strconv"

// Student is one resolved student with their timetable and class set.
type Student struct {
	ID        int
	Name      string
	Timetable Timetable
	Classes   ClassSet
}

// StudentKey selects how a student is matched: by id, by name, or by both.
type StudentKey struct {
	ID      int
	Name    string
	matchID bool
	matchNm bool
}

// ByID matches on id alone.
func ByID(id int) StudentKey { return StudentKey{ID: id, matchID: true} }

// ByName matches on name alone.
func ByName(name string) StudentKey { return StudentKey{Name: name, matchNm: true} }

// ByIDName matches when both id and name agree.
func ByIDName(id int, name string) StudentKey {
	return StudentKey{ID: id, Name: name, matchID: true, matchNm: true}
}

// Matches reports whether the student satisfies key.
func (s Student) Matches(key StudentKey) bool {
	if !key.matchID && !key.matchNm {
		return false
	}
	if key.matchID && s.ID != key.ID {
		return false
	}
	if key.matchNm && s.Name != key.Name {
		return false
	}
	return true
}

// Equal is full structural equality: id, name, class set and timetable.
func (s Student) Equal(other Student) bool {
	return s.ID == other.ID &&
		s.Name == other.Name &&
		s.Classes.Equal(other.Classes) &&
		s.Timetable.Equal(other.Timetable)
}

// Union returns the student's classes ∪ operand.
func (s Student) Union(operand any) (ClassSet, error) { return s.Classes.Union(operand) }

// Intersect returns the student's classes ∩ operand.
func (s Student) Intersect(operand any) (ClassSet, error) { return s.Classes.Intersect(operand) }

// SymmetricDifference returns the student's classes △ operand.
func (s Student) SymmetricDifference(operand any) (ClassSet, error) {
	return s.Classes.SymmetricDifference(operand)
}

// Difference returns the student's classes − operand.
func (s Student) Difference(operand any) (ClassSet, error) { return s.Classes.Difference(operand) }

func (s Student) String() string {
	return strconv.Itoa(s.ID) + " " + s.Name
}

// Ranking is one row of a per-student overlap ranking.
type Ranking struct {
	Subject Student
	Overlap ClassSet
	Score   int
}
