package timetable

import (
	"fmt"
	"sort"
	"strings"
)

// ClassSet is an immutable set of subjects. The zero value is an empty set.
type ClassSet struct {
	items map[string]Subject
}

// NewClassSet builds a set from subjects, dropping value-equal duplicates.
func NewClassSet(subjects ...Subject) ClassSet {
	items := make(map[string]Subject, len(subjects))
	for _, s := range subjects {
		items[s.Key()] = s
	}
	return ClassSet{items: items}
}

// Len is the number of distinct subjects.
func (s ClassSet) Len() int { return len(s.items) }

// IsEmpty reports whether the set has no subjects.
func (s ClassSet) IsEmpty() bool { return len(s.items) == 0 }

// CreditHours sums the credit hours of every subject.
func (s ClassSet) CreditHours() int {
	total := 0
	for _, sub := range s.items {
		total += sub.CreditHours
	}
	return total
}

// Contains reports whether an equal subject is present.
func (s ClassSet) Contains(sub Subject) bool {
	_, ok := s.items[sub.Key()]
	return ok
}

// Subjects returns the members ordered by name then section.
func (s ClassSet) Subjects() []Subject {
	out := make([]Subject, 0, len(s.items))
	for _, sub := range s.items {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		if out[i].Section != out[j].Section {
			return out[i].Section < out[j].Section
		}
		return out[i].Key() < out[j].Key()
	})
	return out
}

// Find returns the first subject (in Subjects order) whose name starts with
// prefix and, when section > 0, whose section matches.
func (s ClassSet) Find(prefix string, section int) (Subject, bool) {
	for _, sub := range s.Subjects() {
		if strings.HasPrefix(sub.Name, prefix) && (section <= 0 || sub.Section == section) {
			return sub, true
		}
	}
	return Subject{}, false
}

// Equal reports whether both sets hold the same subjects.
func (s ClassSet) Equal(other ClassSet) bool {
	if len(s.items) != len(other.items) {
		return false
	}
	for k := range s.items {
		if _, ok := other.items[k]; !ok {
			return false
		}
	}
	return true
}

// Union returns s ∪ operand.
func (s ClassSet) Union(operand any) (ClassSet, error) {
	other, err := asClassSet("union", operand)
	if err != nil {
		return ClassSet{}, err
	}
	out := make(map[string]Subject, len(s.items)+len(other.items))
	for k, v := range s.items {
		out[k] = v
	}
	for k, v := range other.items {
		out[k] = v
	}
	return ClassSet{items: out}, nil
}

// Intersect returns s ∩ operand.
func (s ClassSet) Intersect(operand any) (ClassSet, error) {
	other, err := asClassSet("intersection", operand)
	if err != nil {
		return ClassSet{}, err
	}
	small, large := s, other
	if len(large.items) < len(small.items) {
		small, large = large, small
	}
	out := make(map[string]Subject)
	for k, v := range small.items {
		if _, ok := large.items[k]; ok {
			out[k] = v
		}
	}
	return ClassSet{items: out}, nil
}

// SymmetricDifference returns the subjects in exactly one of s and operand.
func (s ClassSet) SymmetricDifference(operand any) (ClassSet, error) {
	other, err := asClassSet("symmetric difference", operand)
	if err != nil {
		return ClassSet{}, err
	}
	out := make(map[string]Subject)
	for k, v := range s.items {
		if _, ok := other.items[k]; !ok {
			out[k] = v
		}
	}
	for k, v := range other.items {
		if _, ok := s.items[k]; !ok {
			out[k] = v
		}
	}
	return ClassSet{items: out}, nil
}

// Difference returns s − operand.
func (s ClassSet) Difference(operand any) (ClassSet, error) {
	other, err := asClassSet("difference", operand)
	if err != nil {
		return ClassSet{}, err
	}
	out := make(map[string]Subject)
	for k, v := range s.items {
		if _, ok := other.items[k]; !ok {
			out[k] = v
		}
	}
	return ClassSet{items: out}, nil
}

// String lists the subjects followed by the count and total hours.
func (s ClassSet) String() string {
	var b strings.Builder
	b.WriteString("{\n")
	for _, sub := range s.Subjects() {
		b.WriteString("  ")
		b.WriteString(sub.String())
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "} (%d과목, %d시수)", s.Len(), s.CreditHours())
	return b.String()
}

// asClassSet normalises the accepted operand kinds to a set.
func asClassSet(op string, operand any) (ClassSet, error) {
	switch v := operand.(type) {
	case ClassSet:
		return v, nil
	case *ClassSet:
		if v == nil {
			return ClassSet{}, nil
		}
		return *v, nil
	case Subject:
		return NewClassSet(v), nil
	case Class:
		return NewClassSet(v.Subject), nil
	case Student:
		return v.Classes, nil
	case *Student:
		if v == nil {
			return ClassSet{}, &UnsupportedOperandError{Op: op, Operand: operand}
		}
		return v.Classes, nil
	default:
		return ClassSet{}, &UnsupportedOperandError{Op: op, Operand: operand}
	}
}
