package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prospectly/leadtrack/internal/domain"
)

var _ StatsRepository = (*PostgresStatsRepo)(nil)

// PostgresStatsRepo implements StatsRepository on pgx.
type PostgresStatsRepo struct {
	db *pgxpool.Pool
}

func NewPostgresStatsRepo(pool *pgxpool.Pool) *PostgresStatsRepo {
	return &PostgresStatsRepo{db: pool}
}

const statusCountsSQL = `SELECT
	count(*),
	count(*) FILTER (WHERE status = 'NEW'),
	count(*) FILTER (WHERE status = 'CONTACTED'),
	count(*) FILTER (WHERE status = 'INTERESTED'),
	count(*) FILTER (WHERE status = 'CONVERTED'),
	count(*) FILTER (WHERE status = 'LOST')
FROM leads
WHERE user_id = $1`

func (r *PostgresStatsRepo) StatusCounts(ctx context.Context, userID int64) (domain.StatusCounts, error) {
	var counts domain.StatusCounts
	if err := r.db.QueryRow(ctx, statusCountsSQL, userID).Scan(
		&counts.Total,
		&counts.New,
		&counts.Contacted,
		&counts.Interested,
		&counts.Converted,
		&counts.Lost,
	); err != nil {
		return domain.StatusCounts{}, fmt.Errorf("count leads by status: %w", err)
	}
	return counts, nil
}

const countLeadsSinceSQL = `SELECT count(*) FROM leads WHERE user_id = $1 AND created_at >= $2`

func (r *PostgresStatsRepo) CountLeadsSince(ctx context.Context, userID int64, since time.Time) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, countLeadsSinceSQL, userID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count leads since: %w", err)
	}
	return count, nil
}

const countUpcomingFollowUpsSQL = `SELECT count(*)
FROM follow_ups f
JOIN leads l ON l.id = f.lead_id
WHERE l.user_id = $1 AND f.completed = false AND f.due_date >= $2`

func (r *PostgresStatsRepo) CountUpcomingFollowUps(ctx context.Context, userID int64, now time.Time) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, countUpcomingFollowUpsSQL, userID, now).Scan(&count); err != nil {
		return 0, fmt.Errorf("count upcoming follow-ups: %w", err)
	}
	return count, nil
}

const monthlyStatusCountsSQL = `SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM') AS month, status, count(*)
FROM leads
WHERE user_id = $1 AND created_at >= $2
GROUP BY month, status
ORDER BY month ASC`

func (r *PostgresStatsRepo) MonthlyStatusCounts(ctx context.Context, userID int64, since time.Time) ([]domain.MonthlyStatusCount, error) {
	rows, err := r.db.Query(ctx, monthlyStatusCountsSQL, userID, since)
	if err != nil {
		return nil, fmt.Errorf("monthly status counts: %w", err)
	}
	defer rows.Close()

	var buckets []domain.MonthlyStatusCount
	for rows.Next() {
		var bucket domain.MonthlyStatusCount
		if err := rows.Scan(&bucket.Month, &bucket.Status, &bucket.Count); err != nil {
			return nil, fmt.Errorf("scan monthly bucket: %w", err)
		}
		buckets = append(buckets, bucket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("monthly status counts: %w", err)
	}
	return buckets, nil
}
