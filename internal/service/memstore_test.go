package service_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/prospectly/leadtrack/internal/domain"
	"github.com/prospectly/leadtrack/internal/repository"
)

type memoryUserRepo struct {
	users map[int64]domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[int64]domain.User)}
}

func (m *memoryUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	for _, user := range m.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

func (m *memoryUserRepo) GetByID(ctx context.Context, userID int64) (domain.User, error) {
	user, ok := m.users[userID]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *memoryUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return user, nil
}

type memoryLeadRepo struct {
	leads map[int64]domain.Lead
}

func newMemoryLeadRepo() *memoryLeadRepo {
	return &memoryLeadRepo{leads: make(map[int64]domain.Lead)}
}

func (m *memoryLeadRepo) Create(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	lead.CreatedAt = time.Now()
	lead.UpdatedAt = lead.CreatedAt
	m.leads[lead.ID] = lead
	return lead, nil
}

func (m *memoryLeadRepo) GetByID(ctx context.Context, userID, leadID int64) (domain.Lead, error) {
	lead, ok := m.leads[leadID]
	if !ok || lead.UserID != userID {
		return domain.Lead{}, pgx.ErrNoRows
	}
	return lead, nil
}

func (m *memoryLeadRepo) List(ctx context.Context, userID int64, filter repository.LeadFilter) ([]repository.LeadWithCounts, int64, error) {
	var owned []domain.Lead
	for _, lead := range m.leads {
		if lead.UserID != userID {
			continue
		}
		if filter.Status != "" && lead.Status != filter.Status {
			continue
		}
		owned = append(owned, lead)
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID < owned[j].ID })

	total := int64(len(owned))
	start := (filter.Page - 1) * filter.Limit
	if start > len(owned) {
		start = len(owned)
	}
	end := start + filter.Limit
	if end > len(owned) {
		end = len(owned)
	}

	items := make([]repository.LeadWithCounts, 0, end-start)
	for _, lead := range owned[start:end] {
		items = append(items, repository.LeadWithCounts{Lead: lead})
	}
	return items, total, nil
}

func (m *memoryLeadRepo) Update(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	existing, ok := m.leads[lead.ID]
	if !ok || existing.UserID != lead.UserID {
		return domain.Lead{}, pgx.ErrNoRows
	}
	lead.CreatedAt = existing.CreatedAt
	lead.UpdatedAt = time.Now()
	m.leads[lead.ID] = lead
	return lead, nil
}

func (m *memoryLeadRepo) Delete(ctx context.Context, userID, leadID int64) error {
	lead, ok := m.leads[leadID]
	if !ok || lead.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(m.leads, leadID)
	return nil
}

func (m *memoryLeadRepo) EmailInUse(ctx context.Context, userID int64, email string, excludeLeadID int64) (bool, error) {
	for _, lead := range m.leads {
		if lead.UserID != userID || lead.ID == excludeLeadID || lead.Email == "" {
			continue
		}
		if strings.EqualFold(lead.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryLeadRepo) ListEmails(ctx context.Context, userID int64) ([]string, error) {
	var emails []string
	for _, lead := range m.leads {
		if lead.UserID == userID && lead.Email != "" {
			emails = append(emails, lead.Email)
		}
	}
	return emails, nil
}

func (m *memoryLeadRepo) BulkInsert(ctx context.Context, leads []domain.Lead) error {
	for _, lead := range leads {
		lead.CreatedAt = time.Now()
		lead.UpdatedAt = lead.CreatedAt
		m.leads[lead.ID] = lead
	}
	return nil
}

type memoryNoteRepo struct {
	leads *memoryLeadRepo
	notes map[int64]domain.Note
}

func newMemoryNoteRepo(leads *memoryLeadRepo) *memoryNoteRepo {
	return &memoryNoteRepo{leads: leads, notes: make(map[int64]domain.Note)}
}

func (m *memoryNoteRepo) Create(ctx context.Context, note domain.Note) (domain.Note, error) {
	note.CreatedAt = time.Now()
	m.notes[note.ID] = note
	return note, nil
}

func (m *memoryNoteRepo) ListByLead(ctx context.Context, leadID int64) ([]domain.Note, error) {
	var notes []domain.Note
	for _, note := range m.notes {
		if note.LeadID == leadID {
			notes = append(notes, note)
		}
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID > notes[j].ID })
	return notes, nil
}

func (m *memoryNoteRepo) GetOwned(ctx context.Context, userID, noteID int64) (domain.Note, error) {
	note, ok := m.notes[noteID]
	if !ok {
		return domain.Note{}, pgx.ErrNoRows
	}
	lead, ok := m.leads.leads[note.LeadID]
	if !ok || lead.UserID != userID {
		return domain.Note{}, pgx.ErrNoRows
	}
	return note, nil
}

func (m *memoryNoteRepo) Delete(ctx context.Context, noteID int64) error {
	if _, ok := m.notes[noteID]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.notes, noteID)
	return nil
}

type memoryFollowUpRepo struct {
	leads     *memoryLeadRepo
	followUps map[int64]domain.FollowUp
}

func newMemoryFollowUpRepo(leads *memoryLeadRepo) *memoryFollowUpRepo {
	return &memoryFollowUpRepo{leads: leads, followUps: make(map[int64]domain.FollowUp)}
}

func (m *memoryFollowUpRepo) Create(ctx context.Context, followUp domain.FollowUp) (domain.FollowUp, error) {
	followUp.CreatedAt = time.Now()
	followUp.UpdatedAt = followUp.CreatedAt
	m.followUps[followUp.ID] = followUp
	return followUp, nil
}

func (m *memoryFollowUpRepo) List(ctx context.Context, userID int64, filter repository.FollowUpFilter) ([]repository.FollowUpWithLead, error) {
	var items []repository.FollowUpWithLead
	for _, followUp := range m.followUps {
		lead, ok := m.leads.leads[followUp.LeadID]
		if !ok || lead.UserID != userID {
			continue
		}
		if filter.LeadID != 0 && followUp.LeadID != filter.LeadID {
			continue
		}
		if filter.Upcoming && (followUp.Completed || followUp.DueDate.Before(filter.Now)) {
			continue
		}
		items = append(items, repository.FollowUpWithLead{
			FollowUp: followUp,
			Lead:     domain.LeadRef{ID: lead.ID, Name: lead.Name, Email: lead.Email},
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].DueDate.Before(items[j].DueDate) })
	return items, nil
}

func (m *memoryFollowUpRepo) GetOwned(ctx context.Context, userID, followUpID int64) (domain.FollowUp, error) {
	followUp, ok := m.followUps[followUpID]
	if !ok {
		return domain.FollowUp{}, pgx.ErrNoRows
	}
	lead, ok := m.leads.leads[followUp.LeadID]
	if !ok || lead.UserID != userID {
		return domain.FollowUp{}, pgx.ErrNoRows
	}
	return followUp, nil
}

func (m *memoryFollowUpRepo) Update(ctx context.Context, followUp domain.FollowUp) (domain.FollowUp, error) {
	existing, ok := m.followUps[followUp.ID]
	if !ok {
		return domain.FollowUp{}, pgx.ErrNoRows
	}
	followUp.CreatedAt = existing.CreatedAt
	followUp.UpdatedAt = time.Now()
	m.followUps[followUp.ID] = followUp
	return followUp, nil
}

func (m *memoryFollowUpRepo) Delete(ctx context.Context, followUpID int64) error {
	if _, ok := m.followUps[followUpID]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.followUps, followUpID)
	return nil
}

// memoryStatsCache records invalidations so tests can assert on them.
type memoryStatsCache struct {
	stats     map[int64]domain.DashboardStats
	deletions int
}

func newMemoryStatsCache() *memoryStatsCache {
	return &memoryStatsCache{stats: make(map[int64]domain.DashboardStats)}
}

func (m *memoryStatsCache) GetStats(ctx context.Context, userID int64) (*domain.DashboardStats, error) {
	stats, ok := m.stats[userID]
	if !ok {
		return nil, nil
	}
	return &stats, nil
}

func (m *memoryStatsCache) SaveStats(ctx context.Context, userID int64, stats domain.DashboardStats, ttl time.Duration) error {
	m.stats[userID] = stats
	return nil
}

func (m *memoryStatsCache) DeleteStats(ctx context.Context, userID int64) error {
	delete(m.stats, userID)
	m.deletions++
	return nil
}
