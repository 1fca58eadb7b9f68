package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/prospectly/leadtrack/internal/domain"
	"github.com/prospectly/leadtrack/internal/repository"
)

const chartWindowMonths = 6

// StatsService computes per-user dashboard aggregates, with a best-effort
// cache in front of the SQL.
type StatsService struct {
	stats    repository.StatsRepository
	cache    repository.StatsCache
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewStatsService wires dependencies.
func NewStatsService(stats repository.StatsRepository, cache repository.StatsCache, cacheTTL time.Duration, logger *zap.Logger) *StatsService {
	return &StatsService{
		stats:    stats,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Dashboard returns the user's dashboard stats. Cache failures fall through
// to the database.
func (s *StatsService) Dashboard(ctx context.Context, userID int64) (domain.DashboardStats, error) {
	ctx, span := startSpan(ctx, "StatsService.Dashboard")
	defer span.End()

	if cached, err := s.cache.GetStats(ctx, userID); err != nil {
		s.logger.Warn("stats cache read failed", zap.Int64("user_id", userID), zap.Error(err))
	} else if cached != nil {
		return *cached, nil
	}

	stats, err := s.compute(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return domain.DashboardStats{}, err
	}

	if err := s.cache.SaveStats(ctx, userID, stats, s.cacheTTL); err != nil {
		s.logger.Warn("stats cache write failed", zap.Int64("user_id", userID), zap.Error(err))
	}
	return stats, nil
}

func (s *StatsService) compute(ctx context.Context, userID int64) (domain.DashboardStats, error) {
	now := s.now()

	counts, err := s.stats.StatusCounts(ctx, userID)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("status counts: %w", err)
	}

	leadsThisMonth, err := s.stats.CountLeadsSince(ctx, userID, startOfMonth(now))
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("leads this month: %w", err)
	}
	leadsThisWeek, err := s.stats.CountLeadsSince(ctx, userID, startOfWeek(now))
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("leads this week: %w", err)
	}
	upcoming, err := s.stats.CountUpcomingFollowUps(ctx, userID, now)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("upcoming follow-ups: %w", err)
	}

	buckets, err := s.stats.MonthlyStatusCounts(ctx, userID, now.AddDate(0, -chartWindowMonths, 0))
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("conversion chart: %w", err)
	}

	return domain.DashboardStats{
		Overview: domain.StatsOverview{
			TotalLeads:        counts.Total,
			NewLeads:          counts.New,
			ContactedLeads:    counts.Contacted,
			InterestedLeads:   counts.Interested,
			ConvertedLeads:    counts.Converted,
			LostLeads:         counts.Lost,
			LeadsThisMonth:    leadsThisMonth,
			LeadsThisWeek:     leadsThisWeek,
			UpcomingFollowUps: upcoming,
			ConversionRate:    conversionRate(counts.Converted, counts.Total),
		},
		ConversionChart: buildConversionChart(buckets),
	}, nil
}

// conversionRate is converted/total as a percentage rounded to two decimal
// places; zero leads means a zero rate, not a division by zero.
func conversionRate(converted, total int64) float64 {
	if total == 0 {
		return 0
	}
	rate := float64(converted) / float64(total) * 100
	return math.Round(rate*100) / 100
}

// buildConversionChart folds (month, status, count) buckets into one row per
// month, every status present with an explicit zero, months ascending.
func buildConversionChart(buckets []domain.MonthlyStatusCount) []domain.MonthlyConversion {
	byMonth := make(map[string]*domain.MonthlyConversion)
	for _, bucket := range buckets {
		row, ok := byMonth[bucket.Month]
		if !ok {
			row = &domain.MonthlyConversion{Month: bucket.Month}
			byMonth[bucket.Month] = row
		}
		switch bucket.Status {
		case domain.StatusNew:
			row.New = bucket.Count
		case domain.StatusContacted:
			row.Contacted = bucket.Count
		case domain.StatusInterested:
			row.Interested = bucket.Count
		case domain.StatusConverted:
			row.Converted = bucket.Count
		case domain.StatusLost:
			row.Lost = bucket.Count
		}
	}

	chart := make([]domain.MonthlyConversion, 0, len(byMonth))
	for _, row := range byMonth {
		chart = append(chart, *row)
	}
	sort.Slice(chart, func(i, j int) bool { return chart[i].Month < chart[j].Month })
	return chart
}

func startOfMonth(now time.Time) time.Time {
	year, month, _ := now.Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
}

// startOfWeek is midnight of the most recent Sunday in local time.
func startOfWeek(now time.Time) time.Time {
	year, month, day := now.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	return midnight.AddDate(0, 0, -int(now.Weekday()))
}
