package timetable

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func student(id int, name string) Student {
	return Student{ID: id, Name: name, Timetable: New(), Classes: NewClassSet()}
}

func TestRosterKeepsIDOrder(t *testing.T) {
	r := NewRoster(student(20310, "다"), student(20105, "가"), student(20207, "나"))
	r.Upsert(student(20001, "라"))

	ids := make([]int, 0, r.Len())
	for _, s := range r.Students() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []int{20001, 20105, 20207, 20310}, ids)
}

func TestRosterUpsertReplacesByID(t *testing.T) {
	r := NewRoster(student(20105, "가"))
	replaced := r.Upsert(student(20105, "가나"))
	assert.True(t, replaced)
	assert.Equal(t, 1, r.Len())

	s, ok := r.Get(20105)
	require.True(t, ok)
	assert.Equal(t, "가나", s.Name)
}

func TestRosterLookups(t *testing.T) {
	r := NewRoster(student(20105, "김철수"), student(20207, "이영희"), student(20310, "김철수"))

	s, ok := r.FindByName("김철수")
	require.True(t, ok)
	assert.Equal(t, 20105, s.ID)

	s, ok = r.Find(ByIDName(20310, "김철수"))
	require.True(t, ok)
	assert.Equal(t, 20310, s.ID)

	_, ok = r.Find(ByIDName(20310, "이영희"))
	assert.False(t, ok)

	s, ok = r.Lookup("20207")
	require.True(t, ok)
	assert.Equal(t, "이영희", s.Name)

	s, ok = r.Lookup("20310 김철수")
	require.True(t, ok)
	assert.Equal(t, 20310, s.ID)

	_, ok = r.Lookup("없는학생")
	assert.False(t, ok)
}

func TestRosterIndexing(t *testing.T) {
	r := NewRoster(student(1, "a"), student(2, "b"), student(3, "c"))

	s, ok := r.At(-1)
	require.True(t, ok)
	assert.Equal(t, 3, s.ID)

	_, ok = r.At(3)
	assert.False(t, ok)

	sub := r.Slice(1, 10)
	assert.Equal(t, 2, sub.Len())
	first, _ := sub.At(0)
	assert.Equal(t, 2, first.ID)

	assert.Equal(t, 0, r.Slice(2, 1).Len())
}

func TestStudentMatchesAndEqual(t *testing.T) {
	a := student(20105, "김철수")
	assert.True(t, a.Matches(ByID(20105)))
	assert.True(t, a.Matches(ByName("김철수")))
	assert.False(t, a.Matches(ByIDName(20105, "이영희")))
	assert.False(t, a.Matches(StudentKey{}))

	b := student(20105, "김철수")
	assert.True(t, a.Equal(b))
	require.NoError(t, b.Timetable.Put(Monday, 1, physics()))
	assert.False(t, a.Equal(b))
}

func TestParseDay(t *testing.T) {
	for alias, want := range map[string]Day{"월": Monday, "화요일": Tuesday, "WED": Wednesday, "Thursday": Thursday, " 금 ": Friday} {
		got, err := ParseDay(alias)
		require.NoError(t, err, alias)
		assert.Equal(t, want, got)
	}

	_, err := ParseDay("일요일")
	var dayErr *InvalidDayError
	require.True(t, errors.As(err, &dayErr))

	d, err := DayFromIndex(4)
	require.NoError(t, err)
	assert.Equal(t, Friday, d)
	_, err = DayFromIndex(5)
	require.True(t, errors.As(err, &dayErr))
}

func TestPeriodTimes(t *testing.T) {
	assert.Equal(t, "08:50", Period(1).Start().String())
	assert.Equal(t, "09:40", Period(1).End().String())
	assert.Equal(t, "13:30", Period(5).Start().String())
	assert.Equal(t, "18:30", Period(MaxPeriod).End().String())
	assert.False(t, Period(0).Valid())
	assert.False(t, Period(MaxPeriod+1).Valid())
}
