package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prospectly/leadtrack/internal/domain"
)

var _ NoteRepository = (*PostgresNoteRepo)(nil)

// PostgresNoteRepo implements NoteRepository on pgx.
type PostgresNoteRepo struct {
	db *pgxpool.Pool
}

func NewPostgresNoteRepo(pool *pgxpool.Pool) *PostgresNoteRepo {
	return &PostgresNoteRepo{db: pool}
}

const insertNoteSQL = `INSERT INTO notes (id, content, lead_id)
VALUES ($1, $2, $3)
RETURNING id, content, lead_id, created_at`

func (r *PostgresNoteRepo) Create(ctx context.Context, note domain.Note) (domain.Note, error) {
	var created domain.Note
	if err := r.db.QueryRow(ctx, insertNoteSQL, note.ID, note.Content, note.LeadID).Scan(
		&created.ID,
		&created.Content,
		&created.LeadID,
		&created.CreatedAt,
	); err != nil {
		return domain.Note{}, fmt.Errorf("create note: %w", err)
	}
	return created, nil
}

const listNotesByLeadSQL = `SELECT id, content, lead_id, created_at
FROM notes
WHERE lead_id = $1
ORDER BY created_at DESC`

func (r *PostgresNoteRepo) ListByLead(ctx context.Context, leadID int64) ([]domain.Note, error) {
	rows, err := r.db.Query(ctx, listNotesByLeadSQL, leadID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]domain.Note, 0)
	for rows.Next() {
		var note domain.Note
		if err := rows.Scan(&note.ID, &note.Content, &note.LeadID, &note.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

const selectOwnedNoteSQL = `SELECT n.id, n.content, n.lead_id, n.created_at
FROM notes n
JOIN leads l ON l.id = n.lead_id
WHERE n.id = $1 AND l.user_id = $2`

func (r *PostgresNoteRepo) GetOwned(ctx context.Context, userID, noteID int64) (domain.Note, error) {
	var note domain.Note
	if err := r.db.QueryRow(ctx, selectOwnedNoteSQL, noteID, userID).Scan(
		&note.ID,
		&note.Content,
		&note.LeadID,
		&note.CreatedAt,
	); err != nil {
		return domain.Note{}, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}

const deleteNoteSQL = `DELETE FROM notes WHERE id = $1`

func (r *PostgresNoteRepo) Delete(ctx context.Context, noteID int64) error {
	if _, err := r.db.Exec(ctx, deleteNoteSQL, noteID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}
