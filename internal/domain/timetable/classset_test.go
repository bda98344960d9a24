package timetable

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSets() []ClassSet {
	a := NewSubject("미적분", 4, 1, Teacher{Name: "박교사", Classroom: "본관 301"})
	b := NewSubject("물리학", 2, 1, Teacher{Name: "김교사", Classroom: "과학관 201"})
	c := NewSubject("영어 회화", 3, 2, Teacher{Name: "Smith", Classroom: "어학실"})
	d := NewSubject("체육", 1, 0, Teacher{Name: "최교사", Classroom: "체육관"})
	return []ClassSet{
		NewClassSet(),
		NewClassSet(a),
		NewClassSet(a, b),
		NewClassSet(b, c, d),
		NewClassSet(a, b, c, d),
	}
}

// checked returns a helper that unwraps a set operation result, failing t on error.
func checked(t *testing.T) func(ClassSet, error) ClassSet {
	return func(s ClassSet, err error) ClassSet {
		t.Helper()
		require.NoError(t, err)
		return s
	}
}

func TestClassSetLaws(t *testing.T) {
	must := checked(t)
	sets := sampleSets()
	for _, a := range sets {
		for _, b := range sets {
			assert.True(t, must(a.Union(b)).Equal(must(b.Union(a))))
			assert.True(t, must(a.Intersect(b)).Equal(must(b.Intersect(a))))
			assert.True(t, must(a.Union(b)).Equal(must(must(a.SymmetricDifference(b)).Union(must(a.Intersect(b))))))
			assert.True(t, must(must(a.Union(b)).Intersect(a)).Equal(a))
		}
		assert.True(t, must(a.SymmetricDifference(a)).IsEmpty())
		assert.True(t, must(a.Difference(a)).IsEmpty())
	}
}

func TestClassSetDifferenceIsOrderSensitive(t *testing.T) {
	must := checked(t)
	sets := sampleSets()
	a, b := sets[2], sets[3]
	ab := must(a.Difference(b))
	ba := must(b.Difference(a))
	assert.False(t, ab.Equal(ba))
	assert.Equal(t, 1, ab.Len())
	assert.Equal(t, 2, ba.Len())
}

func TestClassSetDeduplicatesByValue(t *testing.T) {
	must := checked(t)
	teacher := Teacher{Name: "김교사", Classroom: "과학관 201"}
	s := NewClassSet(NewSubject("물리학", 2, 1, teacher), NewSubject("물리학", 2, 1, teacher))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 2, s.CreditHours())

	other := NewSubject("물리학", 2, 1, Teacher{Name: "김교사", Classroom: "과학관 202"})
	assert.Equal(t, 2, must(s.Union(other)).Len())
}

func TestClassSetOperandKinds(t *testing.T) {
	sub := NewSubject("화학", 3, 1, Teacher{Name: "이교사"})
	class := NewClass(sub, sub.Teachers[0])
	student := Student{ID: 10101, Name: "홍길동", Timetable: New(), Classes: NewClassSet(sub)}
	base := NewClassSet()

	for _, operand := range []any{sub, class, student, &student, NewClassSet(sub)} {
		got, err := base.Union(operand)
		require.NoError(t, err)
		assert.True(t, got.Contains(sub))
	}

	_, err := base.Union("화학")
	var opErr *UnsupportedOperandError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "union", opErr.Op)

	_, err = student.Intersect(42)
	require.True(t, errors.As(err, &opErr))
}

func TestClassSetFindAndString(t *testing.T) {
	s := sampleSets()[4]
	found, ok := s.Find("영어", 2)
	require.True(t, ok)
	assert.Equal(t, "영어 회화", found.Name)

	_, ok = s.Find("영어", 1)
	assert.False(t, ok)

	assert.Contains(t, s.String(), "(4과목, 10시수)")
}

func TestClassifyFirstRuleWins(t *testing.T) {
	assert.Equal(t, CategoryPhysics, Classify("물리학"))
	assert.Equal(t, CategoryPhysics, Classify("역학과 에너지"))
	assert.Equal(t, CategoryChemistry, Classify("화학 실험"))
	assert.Equal(t, CategoryPhysics, Classify("물리화학"))
	assert.Equal(t, CategoryComputerScience, Classify("알고리즘"))
	assert.Equal(t, CategoryMathematics, Classify("선형대수"))
	assert.Equal(t, CategoryHumanities, Classify("영어 회화"))
	assert.Equal(t, CategoryArtsAndPE, Classify("운동과 건강"))
	assert.Equal(t, DefaultCategory, Classify("진로"))
	assert.Equal(t, DefaultCategory, Gap.Subject.Category)
	assert.NotEqual(t, CategoryPhysics.Color(), CategoryMathematics.Color())
	assert.Equal(t, CategoryPhysics.Color(), CategoryChemistry.Color())
}
