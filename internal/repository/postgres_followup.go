package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prospectly/leadtrack/internal/domain"
)

var _ FollowUpRepository = (*PostgresFollowUpRepo)(nil)

// PostgresFollowUpRepo implements FollowUpRepository on pgx.
type PostgresFollowUpRepo struct {
	db *pgxpool.Pool
}

func NewPostgresFollowUpRepo(pool *pgxpool.Pool) *PostgresFollowUpRepo {
	return &PostgresFollowUpRepo{db: pool}
}

const followUpColumns = `id, title, description, due_date, completed, lead_id, created_at, updated_at`

const insertFollowUpSQL = `INSERT INTO follow_ups (id, title, description, due_date, lead_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + followUpColumns

func (r *PostgresFollowUpRepo) Create(ctx context.Context, followUp domain.FollowUp) (domain.FollowUp, error) {
	var created domain.FollowUp
	if err := r.db.QueryRow(ctx, insertFollowUpSQL,
		followUp.ID,
		followUp.Title,
		followUp.Description,
		followUp.DueDate,
		followUp.LeadID,
	).Scan(
		&created.ID,
		&created.Title,
		&created.Description,
		&created.DueDate,
		&created.Completed,
		&created.LeadID,
		&created.CreatedAt,
		&created.UpdatedAt,
	); err != nil {
		return domain.FollowUp{}, fmt.Errorf("create follow-up: %w", err)
	}
	return created, nil
}

func (r *PostgresFollowUpRepo) List(ctx context.Context, userID int64, filter FollowUpFilter) ([]FollowUpWithLead, error) {
	where := []string{"l.user_id = $1"}
	args := []any{userID}

	if filter.LeadID != 0 {
		args = append(args, filter.LeadID)
		where = append(where, fmt.Sprintf("f.lead_id = $%d", len(args)))
	}
	if filter.Upcoming {
		args = append(args, filter.Now)
		where = append(where, fmt.Sprintf("f.completed = false AND f.due_date >= $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT f.id, f.title, f.description, f.due_date, f.completed, f.lead_id, f.created_at, f.updated_at,
	l.id, l.name, l.email
FROM follow_ups f
JOIN leads l ON l.id = f.lead_id
WHERE %s
ORDER BY f.due_date ASC`, strings.Join(where, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list follow-ups: %w", err)
	}
	defer rows.Close()

	followUps := make([]FollowUpWithLead, 0)
	for rows.Next() {
		var item FollowUpWithLead
		if err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.Description,
			&item.DueDate,
			&item.Completed,
			&item.LeadID,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.Lead.ID,
			&item.Lead.Name,
			&item.Lead.Email,
		); err != nil {
			return nil, fmt.Errorf("scan follow-up: %w", err)
		}
		followUps = append(followUps, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list follow-ups: %w", err)
	}
	return followUps, nil
}

const selectOwnedFollowUpSQL = `SELECT f.id, f.title, f.description, f.due_date, f.completed, f.lead_id, f.created_at, f.updated_at
FROM follow_ups f
JOIN leads l ON l.id = f.lead_id
WHERE f.id = $1 AND l.user_id = $2`

func (r *PostgresFollowUpRepo) GetOwned(ctx context.Context, userID, followUpID int64) (domain.FollowUp, error) {
	var followUp domain.FollowUp
	if err := r.db.QueryRow(ctx, selectOwnedFollowUpSQL, followUpID, userID).Scan(
		&followUp.ID,
		&followUp.Title,
		&followUp.Description,
		&followUp.DueDate,
		&followUp.Completed,
		&followUp.LeadID,
		&followUp.CreatedAt,
		&followUp.UpdatedAt,
	); err != nil {
		return domain.FollowUp{}, fmt.Errorf("get follow-up: %w", err)
	}
	return followUp, nil
}

const updateFollowUpSQL = `UPDATE follow_ups
SET title = $2, description = $3, due_date = $4, completed = $5, updated_at = now()
WHERE id = $1
RETURNING ` + followUpColumns

func (r *PostgresFollowUpRepo) Update(ctx context.Context, followUp domain.FollowUp) (domain.FollowUp, error) {
	var updated domain.FollowUp
	if err := r.db.QueryRow(ctx, updateFollowUpSQL,
		followUp.ID,
		followUp.Title,
		followUp.Description,
		followUp.DueDate,
		followUp.Completed,
	).Scan(
		&updated.ID,
		&updated.Title,
		&updated.Description,
		&updated.DueDate,
		&updated.Completed,
		&updated.LeadID,
		&updated.CreatedAt,
		&updated.UpdatedAt,
	); err != nil {
		return domain.FollowUp{}, fmt.Errorf("update follow-up: %w", err)
	}
	return updated, nil
}

const deleteFollowUpSQL = `DELETE FROM follow_ups WHERE id = $1`

func (r *PostgresFollowUpRepo) Delete(ctx context.Context, followUpID int64) error {
	if _, err := r.db.Exec(ctx, deleteFollowUpSQL, followUpID); err != nil {
		return fmt.Errorf("delete follow-up: %w", err)
	}
	return nil
}
