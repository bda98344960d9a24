package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable/internal/domain/timetable"
)

var (
	calculus = timetable.NewSubject("미적분", 4, 1, timetable.Teacher{Name: "박교사", Classroom: "본관 301"})
	pe       = timetable.NewSubject("체육", 1, 0, timetable.Teacher{Name: "최교사", Classroom: "체육관"})
	physics  = timetable.NewSubject("물리학", 2, 1, timetable.Teacher{Name: "김교사", Classroom: "과학관 201"})
	english  = timetable.NewSubject("영어 회화", 3, 2, timetable.Teacher{Name: "Smith", Classroom: "어학실"})
)

func enrolled(id int, name string, subjects ...timetable.Subject) timetable.Student {
	return timetable.Student{ID: id, Name: name, Timetable: timetable.New(), Classes: timetable.NewClassSet(subjects...)}
}

func TestOverlapPairwiseThreshold(t *testing.T) {
	roster := timetable.NewRoster(
		enrolled(20105, "가", calculus, pe, physics),
		enrolled(20207, "나", calculus, pe, english),
	)
	analyzer := NewOverlapAnalyzer(OverlapAnalyzerConfig{Workers: 2, MemoSize: 16}, nil)

	groups, err := analyzer.Pairwise(context.Background(), roster, 6)
	require.NoError(t, err)
	assert.Empty(t, groups)

	groups, err = analyzer.Pairwise(context.Background(), roster, 4)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, 5, groups[0].Hours)
	require.Len(t, groups[0].Pairs, 1)
	pair := groups[0].Pairs[0]
	assert.Equal(t, 20105, pair.A.ID)
	assert.Equal(t, 20207, pair.B.ID)
	assert.Equal(t, 2, pair.Overlap.Len())
}

func TestOverlapPairwiseGroupsByHoursDescending(t *testing.T) {
	roster := timetable.NewRoster(
		enrolled(1, "a", calculus, physics, english),
		enrolled(2, "b", calculus, physics, english),
		enrolled(3, "c", calculus),
		enrolled(4, "d", physics),
	)
	analyzer := NewOverlapAnalyzer(OverlapAnalyzerConfig{}, nil)

	groups, err := analyzer.Pairwise(context.Background(), roster, 1)
	require.NoError(t, err)
	hours := make([]int, 0, len(groups))
	for _, g := range groups {
		hours = append(hours, g.Hours)
	}
	assert.Equal(t, []int{9, 4, 2}, hours)

	four := groups[1].Pairs
	require.Len(t, four, 2)
	assert.Equal(t, [2]int{1, 3}, [2]int{four[0].A.ID, four[0].B.ID})
	assert.Equal(t, [2]int{2, 3}, [2]int{four[1].A.ID, four[1].B.ID})
}

func TestOverlapRank(t *testing.T) {
	me := enrolled(10, "me", calculus, physics, english)
	roster := timetable.NewRoster(
		me,
		enrolled(30, "x", calculus),
		enrolled(20, "y", calculus),
		enrolled(40, "z", physics, english),
		enrolled(50, "w", pe),
	)
	analyzer := NewOverlapAnalyzer(OverlapAnalyzerConfig{Workers: 3, MemoSize: 8}, nil)

	rankings, err := analyzer.Rank(context.Background(), roster, me, 3)
	require.NoError(t, err)
	require.Len(t, rankings, 3)
	assert.Equal(t, 40, rankings[0].Subject.ID)
	assert.Equal(t, 5, rankings[0].Score)
	assert.Equal(t, 20, rankings[1].Subject.ID, "ties are broken by id")
	assert.Equal(t, 30, rankings[2].Subject.ID)

	all, err := analyzer.Rank(context.Background(), roster, me, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4, "self is excluded")
	assert.Equal(t, 0, all[3].Score)
}

func TestOverlapMemoIsScopedToRoster(t *testing.T) {
	analyzer := NewOverlapAnalyzer(OverlapAnalyzerConfig{MemoSize: 8}, nil)
	first := timetable.NewRoster(enrolled(1, "a", calculus), enrolled(2, "b", calculus))
	second := timetable.NewRoster(enrolled(1, "a", calculus), enrolled(2, "b", physics))

	groups, err := analyzer.Pairwise(context.Background(), first, 1)
	require.NoError(t, err)
	assert.Len(t, groups, 1)

	groups, err = analyzer.Pairwise(context.Background(), second, 1)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestOverlapHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	roster := timetable.NewRoster(enrolled(1, "a", calculus), enrolled(2, "b", calculus))
	_, err := NewOverlapAnalyzer(OverlapAnalyzerConfig{}, nil).Pairwise(ctx, roster, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
