package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/prospectly/leadtrack/internal/domain"
	"github.com/prospectly/leadtrack/internal/repository"
)

// LeadService owns lead CRUD and the per-owner unique-email invariant.
type LeadService struct {
	leads     repository.LeadRepository
	notes     repository.NoteRepository
	followUps repository.FollowUpRepository
	cache     repository.StatsCache
	snowflake *snowflake.Node
	logger    *zap.Logger
}

// NewLeadService wires dependencies.
func NewLeadService(leads repository.LeadRepository, notes repository.NoteRepository, followUps repository.FollowUpRepository, cache repository.StatsCache, node *snowflake.Node, logger *zap.Logger) *LeadService {
	return &LeadService{
		leads:     leads,
		notes:     notes,
		followUps: followUps,
		cache:     cache,
		snowflake: node,
		logger:    logger,
	}
}

// Create validates and persists a new lead for the user.
func (s *LeadService) Create(ctx context.Context, userID int64, input LeadInput) (LeadDetail, error) {
	ctx, span := startSpan(ctx, "LeadService.Create")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	if input.Status == "" {
		input.Status = domain.StatusNew
	}
	if err := input.Validate(); err != nil {
		return LeadDetail{}, err
	}

	if input.Email != "" {
		inUse, err := s.leads.EmailInUse(ctx, userID, input.Email, 0)
		if err != nil {
			span.RecordError(err)
			return LeadDetail{}, fmt.Errorf("check lead email: %w", err)
		}
		if inUse {
			return LeadDetail{}, conflict("Lead with this email already exists.")
		}
	}

	created, err := s.leads.Create(ctx, domain.Lead{
		ID:       s.snowflake.Generate().Int64(),
		Name:     input.Name,
		Location: input.Location,
		Phone:    input.Phone,
		Email:    input.Email,
		Website:  input.Website,
		Notes:    input.Notes,
		Source:   input.Source,
		Status:   input.Status,
		UserID:   userID,
	})
	if err != nil {
		span.RecordError(err)
		return LeadDetail{}, fmt.Errorf("create lead: %w", err)
	}

	s.invalidateStats(ctx, userID)
	s.logger.Info("lead created", zap.Int64("user_id", userID), zap.Int64("lead_id", created.ID))

	return LeadDetail{
		LeadViewModel: newLeadViewModel(created, 0, 0),
		Notes:         []NoteViewModel{},
		FollowUps:     []FollowUpViewModel{},
	}, nil
}

// List returns one page of the user's leads.
func (s *LeadService) List(ctx context.Context, userID int64, filter repository.LeadFilter) (LeadPage, error) {
	ctx, span := startSpan(ctx, "LeadService.List")
	defer span.End()

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}

	items, total, err := s.leads.List(ctx, userID, filter)
	if err != nil {
		span.RecordError(err)
		return LeadPage{}, fmt.Errorf("list leads: %w", err)
	}

	leads := make([]LeadViewModel, 0, len(items))
	for _, item := range items {
		leads = append(leads, newLeadViewModel(item.Lead, item.NoteCount, item.FollowUpCount))
	}

	pages := (total + int64(filter.Limit) - 1) / int64(filter.Limit)
	return LeadPage{
		Leads: leads,
		Pagination: Pagination{
			Page:  filter.Page,
			Limit: filter.Limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

// Get returns one owned lead with its notes and follow-ups.
func (s *LeadService) Get(ctx context.Context, userID, leadID int64) (LeadDetail, error) {
	ctx, span := startSpan(ctx, "LeadService.Get")
	defer span.End()

	lead, err := s.loadOwned(ctx, span, userID, leadID)
	if err != nil {
		return LeadDetail{}, err
	}

	notes, err := s.notes.ListByLead(ctx, lead.ID)
	if err != nil {
		span.RecordError(err)
		return LeadDetail{}, fmt.Errorf("list lead notes: %w", err)
	}
	followUps, err := s.followUps.List(ctx, userID, repository.FollowUpFilter{LeadID: lead.ID})
	if err != nil {
		span.RecordError(err)
		return LeadDetail{}, fmt.Errorf("list lead follow-ups: %w", err)
	}

	noteModels := make([]NoteViewModel, 0, len(notes))
	for _, note := range notes {
		noteModels = append(noteModels, newNoteViewModel(note))
	}
	followUpModels := make([]FollowUpViewModel, 0, len(followUps))
	for _, item := range followUps {
		followUpModels = append(followUpModels, newFollowUpViewModel(item.FollowUp, nil))
	}

	return LeadDetail{
		LeadViewModel: newLeadViewModel(lead, int64(len(noteModels)), int64(len(followUpModels))),
		Notes:         noteModels,
		FollowUps:     followUpModels,
	}, nil
}

// Update applies a partial update to an owned lead. Changing the email to
// one used by another of the user's leads is rejected; keeping the same
// email is always allowed.
func (s *LeadService) Update(ctx context.Context, userID, leadID int64, input UpdateLeadInput) (LeadDetail, error) {
	ctx, span := startSpan(ctx, "LeadService.Update")
	defer span.End()

	lead, err := s.loadOwned(ctx, span, userID, leadID)
	if err != nil {
		return LeadDetail{}, err
	}

	previousEmail := lead.Email
	merged := input.apply(&lead)
	if err := merged.Validate(); err != nil {
		return LeadDetail{}, err
	}

	if lead.Email != "" && !strings.EqualFold(lead.Email, previousEmail) {
		inUse, err := s.leads.EmailInUse(ctx, userID, lead.Email, lead.ID)
		if err != nil {
			span.RecordError(err)
			return LeadDetail{}, fmt.Errorf("check lead email: %w", err)
		}
		if inUse {
			return LeadDetail{}, conflict("Lead with this email already exists.")
		}
	}

	updated, err := s.leads.Update(ctx, lead)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LeadDetail{}, notFound("Lead not found.")
		}
		span.RecordError(err)
		return LeadDetail{}, fmt.Errorf("update lead: %w", err)
	}

	s.invalidateStats(ctx, userID)
	return s.Get(ctx, userID, updated.ID)
}

// Delete removes an owned lead; notes and follow-ups cascade with it.
func (s *LeadService) Delete(ctx context.Context, userID, leadID int64) error {
	ctx, span := startSpan(ctx, "LeadService.Delete")
	defer span.End()

	if err := s.leads.Delete(ctx, userID, leadID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound("Lead not found.")
		}
		span.RecordError(err)
		return fmt.Errorf("delete lead: %w", err)
	}

	s.invalidateStats(ctx, userID)
	s.logger.Info("lead deleted", zap.Int64("user_id", userID), zap.Int64("lead_id", leadID))
	return nil
}

func (s *LeadService) loadOwned(ctx context.Context, span trace.Span, userID, leadID int64) (domain.Lead, error) {
	lead, err := s.leads.GetByID(ctx, userID, leadID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lead{}, notFound("Lead not found.")
		}
		span.RecordError(err)
		return domain.Lead{}, fmt.Errorf("get lead: %w", err)
	}
	return lead, nil
}

func (s *LeadService) invalidateStats(ctx context.Context, userID int64) {
	if err := s.cache.DeleteStats(ctx, userID); err != nil {
		s.logger.Warn("stats cache invalidation failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}
