package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prospectly/leadtrack/internal/domain"
)

var _ LeadRepository = (*PostgresLeadRepo)(nil)

// PostgresLeadRepo implements LeadRepository on pgx.
type PostgresLeadRepo struct {
	db *pgxpool.Pool
}

func NewPostgresLeadRepo(pool *pgxpool.Pool) *PostgresLeadRepo {
	return &PostgresLeadRepo{db: pool}
}

const leadColumns = `id, name, location, phone, email, website, notes, source, status, user_id, created_at, updated_at`

// Columns the list endpoint may sort on, keyed by API name.
var leadSortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"name":       "name",
	"status":     "status",
}

const insertLeadSQL = `INSERT INTO leads (id, name, location, phone, email, website, notes, source, status, user_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + leadColumns

func (r *PostgresLeadRepo) Create(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	row := r.db.QueryRow(ctx, insertLeadSQL,
		lead.ID,
		lead.Name,
		lead.Location,
		lead.Phone,
		lead.Email,
		lead.Website,
		lead.Notes,
		lead.Source,
		lead.Status,
		lead.UserID,
	)
	created, err := scanLead(row)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("create lead: %w", err)
	}
	return created, nil
}

const selectLeadSQL = `SELECT ` + leadColumns + `
FROM leads
WHERE id = $1 AND user_id = $2`

func (r *PostgresLeadRepo) GetByID(ctx context.Context, userID, leadID int64) (domain.Lead, error) {
	lead, err := scanLead(r.db.QueryRow(ctx, selectLeadSQL, leadID, userID))
	if err != nil {
		return domain.Lead{}, fmt.Errorf("get lead: %w", err)
	}
	return lead, nil
}

func (r *PostgresLeadRepo) List(ctx context.Context, userID int64, filter LeadFilter) ([]LeadWithCounts, int64, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Source != "" {
		args = append(args, "%"+filter.Source+"%")
		where = append(where, fmt.Sprintf("source ILIKE $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)", n, n, n))
	}
	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := "SELECT count(*) FROM leads WHERE " + whereClause
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	sortColumn, ok := leadSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	args = append(args, limit, (page-1)*limit)

	query := fmt.Sprintf(`SELECT %s,
	(SELECT count(*) FROM notes n WHERE n.lead_id = leads.id) AS note_count,
	(SELECT count(*) FROM follow_ups f WHERE f.lead_id = leads.id) AS follow_up_count
FROM leads
WHERE %s
ORDER BY %s %s
LIMIT $%d OFFSET $%d`, leadColumns, whereClause, sortColumn, direction, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]LeadWithCounts, 0)
	for rows.Next() {
		var item LeadWithCounts
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Location,
			&item.Phone,
			&item.Email,
			&item.Website,
			&item.Notes,
			&item.Source,
			&item.Status,
			&item.UserID,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.NoteCount,
			&item.FollowUpCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}

	return leads, total, nil
}

const updateLeadSQL = `UPDATE leads
SET name = $3, location = $4, phone = $5, email = $6, website = $7, notes = $8, source = $9, status = $10, updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + leadColumns

func (r *PostgresLeadRepo) Update(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	row := r.db.QueryRow(ctx, updateLeadSQL,
		lead.ID,
		lead.UserID,
		lead.Name,
		lead.Location,
		lead.Phone,
		lead.Email,
		lead.Website,
		lead.Notes,
		lead.Source,
		lead.Status,
	)
	updated, err := scanLead(row)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("update lead: %w", err)
	}
	return updated, nil
}

const deleteLeadSQL = `DELETE FROM leads WHERE id = $1 AND user_id = $2`

func (r *PostgresLeadRepo) Delete(ctx context.Context, userID, leadID int64) error {
	tag, err := r.db.Exec(ctx, deleteLeadSQL, leadID, userID)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const leadEmailInUseSQL = `SELECT EXISTS (
	SELECT 1 FROM leads
	WHERE user_id = $1 AND email <> '' AND lower(email) = lower($2) AND id <> $3
)`

func (r *PostgresLeadRepo) EmailInUse(ctx context.Context, userID int64, email string, excludeLeadID int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, leadEmailInUseSQL, userID, email, excludeLeadID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check lead email: %w", err)
	}
	return exists, nil
}

const listLeadEmailsSQL = `SELECT email FROM leads WHERE user_id = $1 AND email <> ''`

func (r *PostgresLeadRepo) ListEmails(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.db.Query(ctx, listLeadEmailsSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list lead emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan lead email: %w", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list lead emails: %w", err)
	}
	return emails, nil
}

const bulkInsertLeadSQL = `INSERT INTO leads (id, name, location, phone, email, website, notes, source, status, user_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT DO NOTHING`

// BulkInsert writes the accepted import rows in one batch. Residual
// duplicate conflicts at the database level are dropped rather than
// failing the whole import.
func (r *PostgresLeadRepo) BulkInsert(ctx context.Context, leads []domain.Lead) error {
	if len(leads) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, lead := range leads {
		batch.Queue(bulkInsertLeadSQL,
			lead.ID,
			lead.Name,
			lead.Location,
			lead.Phone,
			lead.Email,
			lead.Website,
			lead.Notes,
			lead.Source,
			lead.Status,
			lead.UserID,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range leads {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("bulk insert leads: %w", err)
		}
	}
	return nil
}

func scanLead(row pgx.Row) (domain.Lead, error) {
	var lead domain.Lead
	err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Location,
		&lead.Phone,
		&lead.Email,
		&lead.Website,
		&lead.Notes,
		&lead.Source,
		&lead.Status,
		&lead.UserID,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	return lead, err
}
