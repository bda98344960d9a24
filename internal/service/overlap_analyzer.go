package service

import (
	"context"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/sma-timetable/internal/domain/timetable"
)

// DefaultTopK is the ranking length used when callers pass no limit.
const DefaultTopK = 5

// OverlapPair is two students and the classes they share.
type OverlapPair struct {
	A       timetable.Student
	B       timetable.Student
	Overlap timetable.ClassSet
	Hours   int
}

// OverlapGroup collects every pair sharing the same number of credit hours.
type OverlapGroup struct {
	Hours int
	Pairs []OverlapPair
}

// OverlapAnalyzerConfig tunes the parallel scan.
type OverlapAnalyzerConfig struct {
	Workers  int
	MemoSize int
}

type pairKey struct {
	roster *timetable.Roster
	lo, hi int
}

// OverlapAnalyzer compares class sets across a roster. Students are immutable
// once resolved, so the scan fans out without locking.
type OverlapAnalyzer struct {
	workers int
	memo    *lru.Cache[pairKey, timetable.ClassSet]
	logger  *zap.Logger
}

// NewOverlapAnalyzer builds an analyzer; MemoSize 0 disables the pair memo.
func NewOverlapAnalyzer(cfg OverlapAnalyzerConfig, logger *zap.Logger) *OverlapAnalyzer {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &OverlapAnalyzer{workers: cfg.Workers, logger: logger}
	if cfg.MemoSize > 0 {
		memo, err := lru.New[pairKey, timetable.ClassSet](cfg.MemoSize)
		if err != nil {
			logger.Warn("overlap memo disabled", zap.Error(err))
		} else {
			a.memo = memo
		}
	}
	return a
}

// Pairwise reports every unordered pair of distinct students whose shared
// credit hours reach threshold, grouped by hours descending.
func (a *OverlapAnalyzer) Pairwise(ctx context.Context, roster *timetable.Roster, threshold int) ([]OverlapGroup, error) {
	students := roster.Students()
	rows := make([][]OverlapPair, len(students))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i := range students {
		i := i
		g.Go(func() error {
			for j := i + 1; j < len(students); j++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				overlap, err := a.intersect(roster, students[i], students[j])
				if err != nil {
					return err
				}
				if hours := overlap.CreditHours(); hours >= threshold {
					rows[i] = append(rows[i], OverlapPair{A: students[i], B: students[j], Overlap: overlap, Hours: hours})
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byHours := make(map[int][]OverlapPair)
	for _, row := range rows {
		for _, pair := range row {
			byHours[pair.Hours] = append(byHours[pair.Hours], pair)
		}
	}
	groups := make([]OverlapGroup, 0, len(byHours))
	for hours, pairs := range byHours {
		sort.Slice(pairs, func(x, y int) bool {
			if pairs[x].A.ID != pairs[y].A.ID {
				return pairs[x].A.ID < pairs[y].A.ID
			}
			return pairs[x].B.ID < pairs[y].B.ID
		})
		groups = append(groups, OverlapGroup{Hours: hours, Pairs: pairs})
	}
	sort.Slice(groups, func(x, y int) bool { return groups[x].Hours > groups[y].Hours })

	a.logger.Debug("pairwise overlap scanned",
		zap.Int("students", len(students)), zap.Int("threshold", threshold), zap.Int("groups", len(groups)))
	return groups, nil
}

// Rank scores every other student by shared credit hours and keeps the
// topK best, ties broken by student id.
func (a *OverlapAnalyzer) Rank(ctx context.Context, roster *timetable.Roster, subject timetable.Student, topK int) ([]timetable.Ranking, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	students := roster.Students()
	scored := make([]*timetable.Ranking, len(students))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i := range students {
		i := i
		if students[i].ID == subject.ID {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			overlap, err := a.intersect(roster, subject, students[i])
			if err != nil {
				return err
			}
			scored[i] = &timetable.Ranking{Subject: students[i], Overlap: overlap, Score: overlap.CreditHours()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rankings := make([]timetable.Ranking, 0, len(students))
	for _, r := range scored {
		if r != nil {
			rankings = append(rankings, *r)
		}
	}
	sort.Slice(rankings, func(x, y int) bool {
		if rankings[x].Score != rankings[y].Score {
			return rankings[x].Score > rankings[y].Score
		}
		return rankings[x].Subject.ID < rankings[y].Subject.ID
	})
	if len(rankings) > topK {
		rankings = rankings[:topK]
	}
	return rankings, nil
}

func (a *OverlapAnalyzer) intersect(roster *timetable.Roster, x, y timetable.Student) (timetable.ClassSet, error) {
	if a.memo == nil {
		return x.Intersect(y)
	}
	key := pairKey{roster: roster, lo: x.ID, hi: y.ID}
	if key.lo > key.hi {
		key.lo, key.hi = key.hi, key.lo
	}
	if cached, ok := a.memo.Get(key); ok {
		return cached, nil
	}
	overlap, err := x.Intersect(y)
	if err != nil {
		return timetable.ClassSet{}, err
	}
	a.memo.Add(key, overlap)
	return overlap, nil
}

// Purge drops memoized intersections, used after a roster reload.
func (a *OverlapAnalyzer) Purge() {
	if a.memo != nil {
		a.memo.Purge()
	}
}
