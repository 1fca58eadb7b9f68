package repository

import (
	"context"
	"time"

	"github.com/prospectly/leadtrack/internal/domain"
)

// UserRepository exposes persistence for accounts.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, userID int64) (domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
}

// LeadFilter narrows and orders lead listings. Zero values mean "no filter";
// SortBy/SortOrder fall back to created_at desc.
type LeadFilter struct {
	Status    domain.LeadStatus
	Source    string
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// LeadWithCounts is a lead plus its note and follow-up tallies, used by
// listing endpoints so the UI can render badges without extra round trips.
type LeadWithCounts struct {
	domain.Lead
	NoteCount     int64
	FollowUpCount int64
}

// LeadRepository persists leads. Every read and write is scoped to the
// owning user; a lead that exists but belongs to someone else behaves
// exactly like one that does not exist.
type LeadRepository interface {
	Create(ctx context.Context, lead domain.Lead) (domain.Lead, error)
	GetByID(ctx context.Context, userID, leadID int64) (domain.Lead, error)
	List(ctx context.Context, userID int64, filter LeadFilter) ([]LeadWithCounts, int64, error)
	Update(ctx context.Context, lead domain.Lead) (domain.Lead, error)
	Delete(ctx context.Context, userID, leadID int64) error
	EmailInUse(ctx context.Context, userID int64, email string, excludeLeadID int64) (bool, error)
	ListEmails(ctx context.Context, userID int64) ([]string, error)
	BulkInsert(ctx context.Context, leads []domain.Lead) error
}

// NoteRepository persists lead notes. Ownership is enforced by joining
// through the parent lead.
type NoteRepository interface {
	Create(ctx context.Context, note domain.Note) (domain.Note, error)
	ListByLead(ctx context.Context, leadID int64) ([]domain.Note, error)
	GetOwned(ctx context.Context, userID, noteID int64) (domain.Note, error)
	Delete(ctx context.Context, noteID int64) error
}

// FollowUpWithLead is a follow-up joined to a minimal lead projection.
type FollowUpWithLead struct {
	domain.FollowUp
	Lead domain.LeadRef
}

// FollowUpFilter narrows follow-up listings.
type FollowUpFilter struct {
	LeadID   int64
	Upcoming bool
	Now      time.Time
}

// FollowUpRepository persists follow-ups, owner-scoped through the lead.
type FollowUpRepository interface {
	Create(ctx context.Context, followUp domain.FollowUp) (domain.FollowUp, error)
	List(ctx context.Context, userID int64, filter FollowUpFilter) ([]FollowUpWithLead, error)
	GetOwned(ctx context.Context, userID, followUpID int64) (domain.FollowUp, error)
	Update(ctx context.Context, followUp domain.FollowUp) (domain.FollowUp, error)
	Delete(ctx context.Context, followUpID int64) error
}

// StatsRepository aggregates dashboard numbers for one owner.
type StatsRepository interface {
	StatusCounts(ctx context.Context, userID int64) (domain.StatusCounts, error)
	CountLeadsSince(ctx context.Context, userID int64, since time.Time) (int64, error)
	CountUpcomingFollowUps(ctx context.Context, userID int64, now time.Time) (int64, error)
	MonthlyStatusCounts(ctx context.Context, userID int64, since time.Time) ([]domain.MonthlyStatusCount, error)
}

// StatsCache holds computed dashboard stats per user. Implementations are
// best-effort: a miss and a failure look the same to callers.
type StatsCache interface {
	GetStats(ctx context.Context, userID int64) (*domain.DashboardStats, error)
	SaveStats(ctx context.Context, userID int64, stats domain.DashboardStats, ttl time.Duration) error
	DeleteStats(ctx context.Context, userID int64) error
}
