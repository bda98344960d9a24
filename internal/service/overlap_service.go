package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/dto"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

// OverlapServiceConfig holds the report defaults.
type OverlapServiceConfig struct {
	Threshold int
	TopK      int
	CacheTTL  time.Duration
}

// OverlapService serves pairwise overlap reports and per-student rankings
// for the installed roster.
type OverlapService struct {
	roster    rosterReader
	analyzer  *OverlapAnalyzer
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	cfg       OverlapServiceConfig
	logger    *zap.Logger
}

// NewOverlapService constructs the service. cache may be nil.
func NewOverlapService(roster rosterReader, analyzer *OverlapAnalyzer, cache *CacheService, metrics *MetricsService, cfg OverlapServiceConfig, validate *validator.Validate, logger *zap.Logger) *OverlapService {
	if cfg.Threshold <= 0 {
		cfg.Threshold = 30
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OverlapService{
		roster:    roster,
		analyzer:  analyzer,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		cfg:       cfg,
		logger:    logger,
	}
}

func overlapCacheKey(loadID string, threshold int) string {
	return fmt.Sprintf("overlap:%s:%d", loadID, threshold)
}

// Report returns every pair of students sharing at least threshold credit
// hours, grouped by hours descending.
func (s *OverlapService) Report(ctx context.Context, q dto.OverlapQuery) (*dto.OverlapReportResponse, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	threshold := q.Threshold
	if threshold <= 0 {
		threshold = s.cfg.Threshold
	}
	loaded, err := s.roster.Current()
	if err != nil {
		return nil, err
	}

	key := overlapCacheKey(loaded.ID, threshold)
	var cached dto.OverlapReportResponse
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	groups, err := s.Groups(ctx, loaded, threshold)
	if err != nil {
		return nil, err
	}

	report := &dto.OverlapReportResponse{LoadID: loaded.ID, Threshold: threshold, Groups: make([]dto.OverlapGroupResponse, 0, len(groups))}
	for _, g := range groups {
		group := dto.OverlapGroupResponse{Hours: g.Hours, Pairs: make([]dto.OverlapPairResponse, 0, len(g.Pairs))}
		for _, p := range g.Pairs {
			group.Pairs = append(group.Pairs, dto.OverlapPairResponse{
				A:        presentSummary(p.A),
				B:        presentSummary(p.B),
				Hours:    p.Hours,
				Subjects: presentSubjects(p.Overlap),
			})
		}
		report.PairCount += len(group.Pairs)
		report.Groups = append(report.Groups, group)
	}

	s.cache.Set(ctx, key, report, s.cfg.CacheTTL)
	return report, nil
}

// Groups runs the pairwise scan over a loaded roster.
func (s *OverlapService) Groups(ctx context.Context, loaded LoadedRoster, threshold int) ([]OverlapGroup, error) {
	started := time.Now()
	groups, err := s.analyzer.Pairwise(ctx, loaded.Roster, threshold)
	s.metrics.ObserveOverlapScan("pairwise", time.Since(started))
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	return groups, nil
}

// Rankings ranks every other student by hours shared with the student at key.
func (s *OverlapService) Rankings(ctx context.Context, key string, q dto.RankingQuery) (*dto.RankingResponse, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	top := q.Top
	if top <= 0 {
		top = s.cfg.TopK
	}
	loaded, err := s.roster.Current()
	if err != nil {
		return nil, err
	}
	student, ok := loaded.Roster.Lookup(key)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %q not found", key))
	}

	started := time.Now()
	rankings, err := s.analyzer.Rank(ctx, loaded.Roster, student, top)
	s.metrics.ObserveOverlapScan("rank", time.Since(started))
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	out := &dto.RankingResponse{Student: presentSummary(student), Entries: make([]dto.RankingEntryResponse, 0, len(rankings))}
	for i, r := range rankings {
		out.Entries = append(out.Entries, dto.RankingEntryResponse{
			Rank:     i + 1,
			Student:  presentSummary(r.Subject),
			Score:    r.Score,
			Subjects: presentSubjects(r.Overlap),
		})
	}
	return out, nil
}

// HandleSwap drops memoized intersections and cached reports of the replaced roster.
func (s *OverlapService) HandleSwap(ctx context.Context, previous *LoadedRoster, _ LoadedRoster) {
	s.analyzer.Purge()
	if previous != nil {
		s.cache.Invalidate(ctx, fmt.Sprintf("overlap:%s:*", previous.ID))
	}
}
