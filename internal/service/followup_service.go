package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/prospectly/leadtrack/internal/domain"
	"github.com/prospectly/leadtrack/internal/repository"
)

// FollowUpInput creates a scheduled task on an owned lead.
type FollowUpInput struct {
	Title       string
	Description string
	DueDate     time.Time
	LeadID      int64
}

// UpdateFollowUpInput is a partial follow-up update; nil fields are left
// untouched.
type UpdateFollowUpInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Completed   *bool
}

// FollowUpService manages follow-up tasks, owner-scoped through the lead.
type FollowUpService struct {
	followUps repository.FollowUpRepository
	leads     repository.LeadRepository
	cache     repository.StatsCache
	snowflake *snowflake.Node
	logger    *zap.Logger
	now       func() time.Time
}

// NewFollowUpService wires dependencies.
func NewFollowUpService(followUps repository.FollowUpRepository, leads repository.LeadRepository, cache repository.StatsCache, node *snowflake.Node, logger *zap.Logger) *FollowUpService {
	return &FollowUpService{
		followUps: followUps,
		leads:     leads,
		cache:     cache,
		snowflake: node,
		logger:    logger,
		now:       time.Now,
	}
}

// Create schedules a follow-up on an owned lead.
func (s *FollowUpService) Create(ctx context.Context, userID int64, input FollowUpInput) (FollowUpViewModel, error) {
	ctx, span := startSpan(ctx, "FollowUpService.Create")
	defer span.End()

	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return FollowUpViewModel{}, invalidRequest("Title is required.")
	}
	if input.DueDate.IsZero() {
		return FollowUpViewModel{}, invalidRequest("Invalid date format.")
	}

	lead, err := s.leads.GetByID(ctx, userID, input.LeadID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FollowUpViewModel{}, notFound("Lead not found.")
		}
		span.RecordError(err)
		return FollowUpViewModel{}, fmt.Errorf("get lead: %w", err)
	}

	created, err := s.followUps.Create(ctx, domain.FollowUp{
		ID:          s.snowflake.Generate().Int64(),
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		LeadID:      lead.ID,
	})
	if err != nil {
		span.RecordError(err)
		return FollowUpViewModel{}, fmt.Errorf("create follow-up: %w", err)
	}

	s.invalidateStats(ctx, userID)
	return newFollowUpViewModel(created, &domain.LeadRef{ID: lead.ID, Name: lead.Name, Email: lead.Email}), nil
}

// List returns the user's follow-ups ordered by due date, optionally
// narrowed to one lead or to upcoming incomplete tasks.
func (s *FollowUpService) List(ctx context.Context, userID, leadID int64, upcoming bool) ([]FollowUpViewModel, error) {
	ctx, span := startSpan(ctx, "FollowUpService.List")
	defer span.End()

	items, err := s.followUps.List(ctx, userID, repository.FollowUpFilter{
		LeadID:   leadID,
		Upcoming: upcoming,
		Now:      s.now(),
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list follow-ups: %w", err)
	}
	return newFollowUpList(items), nil
}

// Update applies a partial update to an owned follow-up.
func (s *FollowUpService) Update(ctx context.Context, userID, followUpID int64, input UpdateFollowUpInput) (FollowUpViewModel, error) {
	ctx, span := startSpan(ctx, "FollowUpService.Update")
	defer span.End()

	followUp, err := s.loadOwned(ctx, userID, followUpID)
	if err != nil {
		return FollowUpViewModel{}, err
	}

	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		if trimmed == "" {
			return FollowUpViewModel{}, invalidRequest("Title is required.")
		}
		followUp.Title = trimmed
	}
	if input.Description != nil {
		followUp.Description = *input.Description
	}
	if input.DueDate != nil {
		followUp.DueDate = *input.DueDate
	}
	if input.Completed != nil {
		followUp.Completed = *input.Completed
	}

	updated, err := s.followUps.Update(ctx, followUp)
	if err != nil {
		span.RecordError(err)
		return FollowUpViewModel{}, fmt.Errorf("update follow-up: %w", err)
	}

	s.invalidateStats(ctx, userID)
	return newFollowUpViewModel(updated, nil), nil
}

// Delete removes an owned follow-up.
func (s *FollowUpService) Delete(ctx context.Context, userID, followUpID int64) error {
	ctx, span := startSpan(ctx, "FollowUpService.Delete")
	defer span.End()

	if _, err := s.loadOwned(ctx, userID, followUpID); err != nil {
		return err
	}
	if err := s.followUps.Delete(ctx, followUpID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete follow-up: %w", err)
	}

	s.invalidateStats(ctx, userID)
	s.logger.Info("follow-up deleted", zap.Int64("user_id", userID), zap.Int64("follow_up_id", followUpID))
	return nil
}

func (s *FollowUpService) loadOwned(ctx context.Context, userID, followUpID int64) (domain.FollowUp, error) {
	followUp, err := s.followUps.GetOwned(ctx, userID, followUpID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.FollowUp{}, notFound("Follow-up not found.")
		}
		return domain.FollowUp{}, fmt.Errorf("get follow-up: %w", err)
	}
	return followUp, nil
}

func (s *FollowUpService) invalidateStats(ctx context.Context, userID int64) {
	if err := s.cache.DeleteStats(ctx, userID); err != nil {
		s.logger.Warn("stats cache invalidation failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}
