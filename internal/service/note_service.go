package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/prospectly/leadtrack/internal/domain"
	"github.com/prospectly/leadtrack/internal/repository"
)

// NoteService manages free-text notes hanging off leads. Authorization is
// always checked through the parent lead's owner.
type NoteService struct {
	notes     repository.NoteRepository
	leads     repository.LeadRepository
	snowflake *snowflake.Node
	logger    *zap.Logger
}

// NewNoteService wires dependencies.
func NewNoteService(notes repository.NoteRepository, leads repository.LeadRepository, node *snowflake.Node, logger *zap.Logger) *NoteService {
	return &NoteService{notes: notes, leads: leads, snowflake: node, logger: logger}
}

// Create attaches a note to an owned lead.
func (s *NoteService) Create(ctx context.Context, userID, leadID int64, content string) (NoteViewModel, error) {
	ctx, span := startSpan(ctx, "NoteService.Create")
	defer span.End()

	content = strings.TrimSpace(content)
	if content == "" {
		return NoteViewModel{}, invalidRequest("Content is required.")
	}

	if err := s.requireOwnedLead(ctx, userID, leadID); err != nil {
		return NoteViewModel{}, err
	}

	created, err := s.notes.Create(ctx, domain.Note{
		ID:      s.snowflake.Generate().Int64(),
		Content: content,
		LeadID:  leadID,
	})
	if err != nil {
		span.RecordError(err)
		return NoteViewModel{}, fmt.Errorf("create note: %w", err)
	}
	return newNoteViewModel(created), nil
}

// ListByLead returns an owned lead's notes, newest first.
func (s *NoteService) ListByLead(ctx context.Context, userID, leadID int64) ([]NoteViewModel, error) {
	ctx, span := startSpan(ctx, "NoteService.ListByLead")
	defer span.End()

	if err := s.requireOwnedLead(ctx, userID, leadID); err != nil {
		return nil, err
	}

	notes, err := s.notes.ListByLead(ctx, leadID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list notes: %w", err)
	}

	models := make([]NoteViewModel, 0, len(notes))
	for _, note := range notes {
		models = append(models, newNoteViewModel(note))
	}
	return models, nil
}

// Delete removes a note reachable through one of the user's leads.
func (s *NoteService) Delete(ctx context.Context, userID, noteID int64) error {
	ctx, span := startSpan(ctx, "NoteService.Delete")
	defer span.End()

	if _, err := s.notes.GetOwned(ctx, userID, noteID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound("Note not found.")
		}
		span.RecordError(err)
		return fmt.Errorf("get note: %w", err)
	}

	if err := s.notes.Delete(ctx, noteID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete note: %w", err)
	}

	s.logger.Info("note deleted", zap.Int64("user_id", userID), zap.Int64("note_id", noteID))
	return nil
}

func (s *NoteService) requireOwnedLead(ctx context.Context, userID, leadID int64) error {
	if _, err := s.leads.GetByID(ctx, userID, leadID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound("Lead not found.")
		}
		return fmt.Errorf("get lead: %w", err)
	}
	return nil
}
